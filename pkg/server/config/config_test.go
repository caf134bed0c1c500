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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/pkg/errors"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DBPath", "DBURL", "LOG_LEVEL", "SESSION_TTL"} {
		t.Setenv(key, "")
	}
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		chdir(t, t.TempDir())

		c, err := New(Params{})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.AppEnv, AppEnvProduction, "AppEnv mismatch")
		assert.Equal(t, c.Port, "3001", "Port mismatch")
		assert.Equal(t, c.DBPath, DefaultDBPath(), "DBPath mismatch")
		assert.Equal(t, c.DBURL, "", "DBURL mismatch")
		assert.Equal(t, c.LogLevel, "info", "LogLevel mismatch")
		assert.Equal(t, c.SessionTTL, DefaultSessionTTL, "SessionTTL mismatch")
		assert.Equal(t, c.UsesPostgres(), false, "UsesPostgres mismatch")
	})

	t.Run("env", func(t *testing.T) {
		clearEnv(t)
		chdir(t, t.TempDir())
		t.Setenv("PORT", "4000")
		t.Setenv("DBURL", "postgres://localhost/giftwise")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("SESSION_TTL", "1h")

		c, err := New(Params{})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.Port, "4000", "Port mismatch")
		assert.Equal(t, c.DBURL, "postgres://localhost/giftwise", "DBURL mismatch")
		assert.Equal(t, c.LogLevel, "debug", "LogLevel mismatch")
		assert.Equal(t, c.SessionTTL, time.Hour, "SessionTTL mismatch")
		assert.Equal(t, c.UsesPostgres(), true, "UsesPostgres mismatch")
	})

	t.Run("params win over env", func(t *testing.T) {
		clearEnv(t)
		chdir(t, t.TempDir())
		t.Setenv("PORT", "4000")

		c, err := New(Params{Port: "5000", DBPath: "/tmp/giftwise.db"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.Port, "5000", "Port mismatch")
		assert.Equal(t, c.DBPath, "/tmp/giftwise.db", "DBPath mismatch")
	})
}

func TestNew_envFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")
	os.Unsetenv("LOG_LEVEL")

	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=4100\nLOG_LEVEL=warn\n"), 0644); err != nil {
		t.Fatal(errors.Wrap(err, "writing env file"))
	}
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("LOG_LEVEL")
	})

	c, err := New(Params{})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating config"))
	}

	assert.Equal(t, c.Port, "4100", "Port mismatch")
	assert.Equal(t, c.LogLevel, "warn", "LogLevel mismatch")
}

func TestNew_missingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := New(Params{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.NotEqual(t, err, nil, "an explicit env file that does not exist should fail")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		config   Config
		expected error
	}{
		{
			name:     "valid",
			config:   Config{Port: "3001", DBPath: "server.db", LogLevel: "info"},
			expected: nil,
		},
		{
			name:     "postgres without path",
			config:   Config{Port: "3001", DBURL: "postgres://localhost/giftwise", LogLevel: "info"},
			expected: nil,
		},
		{
			name:     "port",
			config:   Config{Port: "abc", DBPath: "server.db", LogLevel: "info"},
			expected: ErrPortInvalid,
		},
		{
			name:     "db path",
			config:   Config{Port: "3001", LogLevel: "info"},
			expected: ErrDBMissingPath,
		},
		{
			name:     "log level",
			config:   Config{Port: "3001", DBPath: "server.db", LogLevel: "verbose"},
			expected: ErrLogLevelInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validate(tc.config)
			assert.Equal(t, errors.Cause(err), tc.expected, "error mismatch")
		})
	}
}

func TestNew_invalidSessionTTL(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	_, err := New(Params{SessionTTL: "-1h"})
	assert.Equal(t, errors.Cause(err), ErrSessionTTLInvalid, "error mismatch")
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
