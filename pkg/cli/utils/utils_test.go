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

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/google/uuid"
)

func TestGenerateUUID(t *testing.T) {
	id, err := GenerateUUID()
	assert.Equal(t, err, nil, "generating uuid")

	parsed, err := uuid.Parse(id)
	assert.Equal(t, err, nil, "parsing uuid")
	assert.Equal(t, parsed.Version(), uuid.Version(4), "uuid version mismatch")
}

func TestEnsureDir(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "test", "nested", "dir")

	err := EnsureDir(testPath)
	assert.Equal(t, err, nil, "EnsureDir should succeed")

	info, err := os.Stat(testPath)
	assert.Equal(t, err, nil, "directory should exist")
	assert.Equal(t, info.IsDir(), true, "should be a directory")

	err = EnsureDir(testPath)
	assert.Equal(t, err, nil, "EnsureDir should succeed on existing directory")
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "giftwiserc")

	if err := WriteFileAtomic(path, []byte("first"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	assert.Equal(t, err, nil, "reading file")
	assert.Equal(t, string(b), "second", "content mismatch")

	entries, err := os.ReadDir(dir)
	assert.Equal(t, err, nil, "reading dir")
	assert.Equal(t, len(entries), 1, "temporary files were left behind")
}
