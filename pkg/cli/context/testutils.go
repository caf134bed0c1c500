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

package context

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/clock"
	"github.com/giftwise/giftwise/pkg/dirs"
	"github.com/pkg/errors"
)

// getDefaultTestPaths creates default test paths under a temp directory
func getDefaultTestPaths(t *testing.T) dirs.Paths {
	tmpDir := t.TempDir()
	return dirs.Paths{
		Config: filepath.Join(tmpDir, "config"),
		Data:   filepath.Join(tmpDir, "data"),
		Cache:  filepath.Join(tmpDir, "cache"),
	}
}

// InitTestCtx initializes a test context with an in-memory database
// and a temporary directory for all paths
func InitTestCtx(t *testing.T) GiftCtx {
	paths := getDefaultTestPaths(t)
	db := database.InitTestMemoryDB(t)

	if err := InitDirs(paths); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	return GiftCtx{
		DB:             db,
		Paths:          paths,
		OwnerID:        "owner-1",
		SessionKey:     "test-session",
		Clock:          clock.NewMock(),
		RequestTimeout: 5 * time.Second,
		ProbeInterval:  time.Second,
	}
}
