/* Copyright (C) 2025 Giftwise Authors
 *
 * This file is part of Giftwise.
 *
 * Giftwise is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Giftwise is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with Giftwise.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package database defines the server models and opens the database that
// stores them
package database

import (
	"os"
	"path/filepath"
	"time"

	"github.com/giftwise/giftwise/pkg/server/log"
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DialectSQLite is the name of the sqlite dialector
	DialectSQLite = "sqlite"
	// DialectPostgres is the name of the postgres dialector
	DialectPostgres = "postgres"
)

// Params are the parameters for opening the database
type Params struct {
	// Path is the sqlite database file. It is used when URL is empty.
	Path string
	// URL is a postgres connection string
	URL string
	// LogLevel is the server log level. The query log follows it.
	LogLevel string
}

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&Recipient{},
		&Occasion{},
		&GiftIdea{},
		&Session{},
	); err != nil {
		panic(err)
	}
}

// getDBLogLevel maps the server log level to the query log level
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

func sqliteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func dialector(p Params) (gorm.Dialector, error) {
	if p.URL != "" {
		return postgres.Open(p.URL), nil
	}

	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating database directory at %s", dir)
	}

	return sqlite.Open(sqliteDSN(p.Path)), nil
}

// Open initializes the database connection
func Open(p Params) (*gorm.DB, error) {
	d, err := dialector(p)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(p.LogLevel)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	if db.Dialector.Name() == DialectSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "getting the connection pool")
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting the connection pool")
	}

	return sqlDB.Close()
}
