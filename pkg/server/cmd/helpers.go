/* Copyright 2025 Giftwise Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"fmt"
	"io"

	"github.com/giftwise/giftwise/pkg/clock"
	"github.com/giftwise/giftwise/pkg/prompt"
	"github.com/giftwise/giftwise/pkg/server/app"
	"github.com/giftwise/giftwise/pkg/server/config"
	"github.com/giftwise/giftwise/pkg/server/database"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// dbFlags are the flags of every command that opens the database
type dbFlags struct {
	dbPath  string
	dbURL   string
	envFile string
}

func (f *dbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dbPath, "dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/giftwise/server.db)")
	cmd.Flags().StringVar(&f.dbURL, "dbUrl", "", "Postgres connection URL. Takes precedence over dbPath (env: DBURL)")
	cmd.Flags().StringVar(&f.envFile, "envFile", "", "Env file to load before reading the environment (default: .env if present)")
}

func initDB(cfg config.Config) (*gorm.DB, error) {
	db, err := database.Open(database.Params{
		Path:     cfg.DBPath,
		URL:      cfg.DBURL,
		LogLevel: cfg.LogLevel,
	})
	if err != nil {
		return nil, err
	}

	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}

func initApp(cfg config.Config) (app.App, error) {
	db, err := initDB(cfg)
	if err != nil {
		return app.App{}, errors.Wrap(err, "initializing the database")
	}

	return app.App{
		DB:         db,
		Clock:      clock.New(),
		SessionTTL: cfg.SessionTTL,
		AppEnv:     cfg.AppEnv,
		Port:       cfg.Port,
	}, nil
}

// setupApp loads the config for the flags and returns an app with an open
// database along with a function that closes it
func setupApp(f dbFlags) (*app.App, func(), error) {
	cfg, err := config.New(config.Params{
		DBPath:  f.dbPath,
		DBURL:   f.dbURL,
		EnvFile: f.envFile,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading the config")
	}

	a, err := initApp(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		database.Close(a.DB)
	}

	return &a, cleanup, nil
}

// confirm prompts for user input to confirm a choice
func confirm(r io.Reader, w io.Writer, question string, optimistic bool) (bool, error) {
	message := prompt.FormatQuestion(question, optimistic)
	fmt.Fprint(w, message+" ")

	confirmed, err := prompt.ReadYesNo(r, optimistic)
	if err != nil {
		return false, errors.Wrap(err, "reading stdin")
	}

	return confirmed, nil
}
