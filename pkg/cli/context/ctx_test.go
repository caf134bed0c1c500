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
	"os"
	"path/filepath"
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/giftwise/giftwise/pkg/dirs"
)

func TestInitDirs(t *testing.T) {
	tmpDir := t.TempDir()
	paths := dirs.Paths{
		Config: filepath.Join(tmpDir, "config", "giftwise"),
		Data:   filepath.Join(tmpDir, "data", "giftwise"),
		Cache:  filepath.Join(tmpDir, "cache", "giftwise"),
	}

	err := InitDirs(paths)
	assert.Equal(t, err, nil, "InitDirs should succeed")

	for _, dir := range []string{paths.Config, paths.Data, paths.Cache} {
		info, err := os.Stat(dir)
		assert.Equal(t, err, nil, dir+" should exist")
		assert.Equal(t, info.IsDir(), true, dir+" should be a directory")
	}

	err = InitDirs(paths)
	assert.Equal(t, err, nil, "InitDirs should succeed on existing directories")
}

func TestRedact(t *testing.T) {
	ctx := GiftCtx{SessionKey: "secret", OwnerID: "u1"}

	got := Redact(ctx)
	assert.Equal(t, got.SessionKey, "1", "session key should be redacted")
	assert.Equal(t, got.OwnerID, "u1", "owner id should be kept")
	assert.Equal(t, ctx.SessionKey, "secret", "original context should be untouched")
}
