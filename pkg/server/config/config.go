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

// Package config resolves the server configuration from flags, the
// environment and an optional .env file
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/giftwise/giftwise/pkg/dirs"
	"github.com/giftwise/giftwise/pkg/server/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// AppEnvTest represents an app environment for tests. Rate limiting is
	// off in it.
	AppEnvTest string = "TEST"
	// DefaultDBDir is the default directory name for the server data
	DefaultDBDir = "giftwise"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultEnvFile is the env file read when none is given
	DefaultEnvFile = ".env"
	// DefaultSessionTTL is how long an issued session key stays valid
	DefaultSessionTTL = 30 * 24 * time.Hour
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrLogLevelInvalid is an error for an unknown log level
	ErrLogLevelInvalid = errors.New("Invalid log level")
	// ErrSessionTTLInvalid is an error for a session lifetime that is not a positive duration
	ErrSessionTTLInvalid = errors.New("Invalid session TTL")
)

// DefaultDBPath returns the default path to the database file
func DefaultDBPath() string {
	return filepath.Join(dirs.DataHome, DefaultDBDir, DefaultDBFilename)
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv     string
	Port       string
	DBPath     string
	DBURL      string
	LogLevel   string
	SessionTTL time.Duration
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv     string
	Port       string
	DBPath     string
	DBURL      string
	LogLevel   string
	SessionTTL string
	// EnvFile is loaded into the environment before the parameters are
	// resolved. Variables already set are not overridden.
	EnvFile string
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.Wrapf(err, "reading env file %s", path)
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading env file %s", path)
	}

	return nil
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	if err := loadEnvFile(p.EnvFile); err != nil {
		return Config{}, err
	}

	ttl, err := time.ParseDuration(getOrEnv(p.SessionTTL, "SESSION_TTL", DefaultSessionTTL.String()))
	if err != nil || ttl <= 0 {
		return Config{}, errors.Wrapf(ErrSessionTTLInvalid, "'%s'", getOrEnv(p.SessionTTL, "SESSION_TTL", ""))
	}

	c := Config{
		AppEnv:     getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:       getOrEnv(p.Port, "PORT", "3001"),
		DBPath:     getOrEnv(p.DBPath, "DBPath", DefaultDBPath()),
		DBURL:      getOrEnv(p.DBURL, "DBURL", ""),
		LogLevel:   getOrEnv(p.LogLevel, "LOG_LEVEL", log.LevelInfo),
		SessionTTL: ttl,
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// UsesPostgres reports whether the server stores its data in postgres
func (c Config) UsesPostgres() bool {
	return c.DBURL != ""
}

func validate(c Config) error {
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return errors.Wrapf(ErrPortInvalid, "'%s'", c.Port)
	}
	if !c.UsesPostgres() && c.DBPath == "" {
		return ErrDBMissingPath
	}
	if !log.ValidLevel(c.LogLevel) {
		return errors.Wrapf(ErrLogLevelInvalid, "'%s'", c.LogLevel)
	}

	return nil
}
