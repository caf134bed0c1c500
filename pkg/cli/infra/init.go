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

// Package infra provides operations and definitions for the
// local infrastructure for Giftwise
package infra

import (
	"database/sql"
	"path/filepath"

	"github.com/giftwise/giftwise/pkg/cli/client"
	"github.com/giftwise/giftwise/pkg/cli/config"
	"github.com/giftwise/giftwise/pkg/cli/consts"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/utils"
	"github.com/giftwise/giftwise/pkg/clock"
	"github.com/giftwise/giftwise/pkg/dirs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunEFunc is a function type of giftwise commands
type RunEFunc func(*cobra.Command, []string) error

func getDBPath(paths dirs.Paths, customPath string) string {
	if customPath != "" {
		return customPath
	}

	return filepath.Join(paths.Data, consts.DBFileName)
}

// newBaseCtx creates a minimal context with paths and database connection.
// It is enriched with the config and system values by setupCtx.
func newBaseCtx(versionTag, customDBPath string) (context.GiftCtx, error) {
	paths := dirs.For(consts.AppDirName)

	if err := context.InitDirs(paths); err != nil {
		return context.GiftCtx{}, errors.Wrap(err, "creating the giftwise directories")
	}

	db, err := database.Open(getDBPath(paths, customDBPath))
	if err != nil {
		return context.GiftCtx{}, errors.Wrap(err, "connecting to db")
	}

	ctx := context.GiftCtx{
		Paths:   paths,
		Version: versionTag,
		DB:      db,
	}

	return ctx, nil
}

// Init initializes the Giftwise environment and returns a new context.
// A non-empty apiEndpoint overrides the configured one without changing the
// config file.
func Init(versionTag, apiEndpoint, dbPath string) (*context.GiftCtx, error) {
	ctx, err := newBaseCtx(versionTag, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "initializing a context")
	}

	if err := initConfigFile(ctx, apiEndpoint); err != nil {
		return nil, errors.Wrap(err, "generating the config file")
	}

	n, err := database.Migrate(ctx.DB)
	if err != nil {
		return nil, errors.Wrap(err, "migrating the database")
	}
	log.Debug("applied %d migrations\n", n)

	if err := InitSystem(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing system data")
	}

	ctx, err = setupCtx(ctx, apiEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

func getSystemString(db *database.DB, key string) (string, error) {
	var ret string

	err := database.GetSystem(db, key, &ret)
	if errors.Cause(err) == sql.ErrNoRows {
		return "", nil
	}

	return ret, err
}

// setupCtx enriches the base context with values from config file and database
func setupCtx(ctx context.GiftCtx, apiEndpoint string) (context.GiftCtx, error) {
	sessionKey, err := getSystemString(ctx.DB, consts.SystemSessionKey)
	if err != nil {
		return ctx, errors.Wrap(err, "finding session key")
	}
	ownerID, err := getSystemString(ctx.DB, consts.SystemOwnerID)
	if err != nil {
		return ctx, errors.Wrap(err, "finding owner id")
	}

	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}

	endpoint := cf.APIEndpoint
	if apiEndpoint != "" {
		endpoint = apiEndpoint
	}

	ret := context.GiftCtx{
		Paths:             ctx.Paths,
		Version:           ctx.Version,
		DB:                ctx.DB,
		SessionKey:        sessionKey,
		OwnerID:           ownerID,
		APIEndpoint:       endpoint,
		Clock:             clock.New(),
		HTTPClient:        client.NewRateLimitedHTTPClient(cf.RequestTimeoutDuration()),
		RequestTimeout:    cf.RequestTimeoutDuration(),
		ProbeInterval:     cf.ProbeIntervalDuration(),
		ReconcileSchedule: cf.ReconcileSchedule,
	}

	return ret, nil
}

func initSystemKV(db *database.DB, key string, val string) error {
	var count int
	if err := db.QueryRow("SELECT count(*) FROM system WHERE key = ?", key).Scan(&count); err != nil {
		return errors.Wrapf(err, "counting %s", key)
	}

	if count > 0 {
		return nil
	}

	if _, err := db.Exec("INSERT INTO system (key, value) VALUES (?, ?)", key, val); err != nil {
		return errors.Wrapf(err, "inserting %s %s", key, val)
	}

	return nil
}

// InitSystem inserts system data if missing
func InitSystem(ctx context.GiftCtx) error {
	log.Debug("initializing the system\n")

	return ctx.DB.WithTx(func(tx *database.DB) error {
		if err := initSystemKV(tx, consts.SystemLastReconcileAt, "0"); err != nil {
			return errors.Wrapf(err, "initializing system config for %s", consts.SystemLastReconcileAt)
		}

		return nil
	})
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.GiftCtx, apiEndpoint string) error {
	path := config.GetPath(ctx)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	if err := config.Write(ctx, config.Default(apiEndpoint)); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// SaveSession stores the session key and the owner id of the account it
// belongs to
func SaveSession(db *database.DB, sessionKey, ownerID string) error {
	return db.WithTx(func(tx *database.DB) error {
		if err := database.UpsertSystem(tx, consts.SystemSessionKey, sessionKey); err != nil {
			return err
		}

		return database.UpsertSystem(tx, consts.SystemOwnerID, ownerID)
	})
}

// ClearSession removes the stored session key. The owner id is kept so that
// the local entities stay visible offline.
func ClearSession(db *database.DB) error {
	return database.DeleteSystem(db, consts.SystemSessionKey)
}
