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
	"net/http"

	"github.com/giftwise/giftwise/pkg/server/app"
	"github.com/giftwise/giftwise/pkg/server/buildinfo"
	"github.com/giftwise/giftwise/pkg/server/config"
	"github.com/giftwise/giftwise/pkg/server/controllers"
	"github.com/giftwise/giftwise/pkg/server/database"
	"github.com/giftwise/giftwise/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

// purgeSchedule is the cron spec of the removal of expired sessions
const purgeSchedule = "@hourly"

func newStartCmd() *cobra.Command {
	var f dbFlags
	var port, logLevel, sessionTTL string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New(config.Params{
				Port:       port,
				DBPath:     f.dbPath,
				DBURL:      f.dbURL,
				LogLevel:   logLevel,
				SessionTTL: sessionTTL,
				EnvFile:    f.envFile,
			})
			if err != nil {
				return errors.Wrap(err, "loading the config")
			}

			return start(cfg)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&port, "port", "", "Server port (env: PORT, default: 3001)")
	cmd.Flags().StringVar(&logLevel, "logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	cmd.Flags().StringVar(&sessionTTL, "sessionTtl", "", "Lifetime of a new session (env: SESSION_TTL, default: 720h)")

	return cmd
}

// schedulePurge removes expired sessions on the purge schedule. The returned
// function stops the schedule.
func schedulePurge(a *app.App) (func(), error) {
	c := cron.New()
	err := c.AddFunc(purgeSchedule, func() {
		n, err := a.PurgeExpiredSessions()
		if err != nil {
			log.ErrorWrap(err, "purging expired sessions")
			return
		}
		if n > 0 {
			log.WithFields(log.Fields{"count": n}).Info("purged expired sessions")
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scheduling the session purge with '%s'", purgeSchedule)
	}
	c.Start()

	return c.Stop, nil
}

func start(cfg config.Config) error {
	log.SetLevel(cfg.LogLevel)

	a, err := initApp(cfg)
	if err != nil {
		return err
	}
	defer database.Close(a.DB)

	stop, err := schedulePurge(&a)
	if err != nil {
		return err
	}
	defer stop()

	ctl := controllers.New(&a)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&a, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&a, rc)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	dialect := database.DialectSQLite
	if cfg.UsesPostgres() {
		dialect = database.DialectPostgres
	}

	log.WithFields(log.Fields{
		"version":  buildinfo.Version,
		"port":     cfg.Port,
		"database": dialect,
	}).Info("Giftwise server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		return errors.Wrap(err, "server failed")
	}

	return nil
}
