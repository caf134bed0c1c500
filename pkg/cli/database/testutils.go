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

package database

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/giftwise/giftwise/pkg/cli/utils"
	"github.com/pkg/errors"
)

// MustScan scans the given row and fails a test in case of any errors
func MustScan(t *testing.T, message string, row *sql.Row, args ...interface{}) {
	t.Helper()

	err := row.Scan(args...)
	if err != nil {
		t.Fatal(errors.Wrap(errors.Wrap(err, "scanning a row"), message))
	}
}

// MustExec executes the given SQL query and fails a test if an error occurs
func MustExec(t *testing.T, message string, db *DB, query string, args ...interface{}) sql.Result {
	t.Helper()

	result, err := db.Exec(query, args...)
	if err != nil {
		t.Fatal(errors.Wrap(errors.Wrap(err, "executing sql"), message))
	}

	return result
}

// MustCount returns the number of rows in the given table
func MustCount(t *testing.T, db *DB, table string) int {
	t.Helper()

	var count int
	MustScan(t, fmt.Sprintf("counting %s", table), db.QueryRow(fmt.Sprintf("SELECT count(*) FROM %s", table)), &count)

	return count
}

// InitTestMemoryDB initializes an in-memory test database with the current schema
func InitTestMemoryDB(t *testing.T) *DB {
	t.Helper()

	uuid, err := utils.GenerateUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "generating UUID for test database"))
	}

	return initTestDB(t, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid))
}

// InitTestFileDB initializes a file-based test database with the current schema
func InitTestFileDB(t *testing.T) (*DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "giftwise-test.db")
	return initTestDB(t, dbPath), dbPath
}

func initTestDB(t *testing.T, dsn string) *DB {
	db, err := Open(dsn)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening test database"))
	}

	if _, err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "migrating test database"))
	}

	t.Cleanup(func() { db.Close() })
	return db
}
