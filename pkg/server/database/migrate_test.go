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

package database

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// openBare opens an in-memory database without the schema
func openBare(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open the database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get the connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db
}

// unsortedFS lists the entries of a MapFS in reverse order
type unsortedFS struct {
	fstest.MapFS
}

func (u unsortedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := u.MapFS.ReadDir(name)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// errorFS returns an error on ReadDir
type errorFS struct{}

func (e errorFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (e errorFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return nil, fs.ErrPermission
}

func TestMigrate_createsSchemaTable(t *testing.T) {
	db := openBare(t)

	migrationsFs := fstest.MapFS{}
	migrate(db, migrationsFs)

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM schema_migrations").Scan(&count).Error; err != nil {
		t.Fatalf("schema_migrations table not found: %v", err)
	}
}

func TestMigrate_idempotency(t *testing.T) {
	db := openBare(t)

	if err := db.Exec("CREATE TABLE seeded_owners (value INTEGER)").Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	migrationsFs := fstest.MapFS{
		"001-seed-owner.sql": &fstest.MapFile{
			Data: []byte("INSERT INTO seeded_owners (value) VALUES (100);"),
		},
	}

	if err := migrate(db, migrationsFs); err != nil {
		t.Fatalf("first migration failed: %v", err)
	}
	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM seeded_owners").Scan(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	// second run must not apply the file again
	if err := migrate(db, migrationsFs); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
	if err := db.Raw("SELECT COUNT(*) FROM seeded_owners").Scan(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("migration ran twice: expected 1 row, got %d", count)
	}
}

func TestMigrate_ordering(t *testing.T) {
	db := openBare(t)

	if err := db.Exec("CREATE TABLE applied (value INTEGER)").Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	migrationsFs := unsortedFS{
		MapFS: fstest.MapFS{
			"010-tenth.sql": &fstest.MapFile{
				Data: []byte("INSERT INTO applied (value) VALUES (3);"),
			},
			"001-first.sql": &fstest.MapFile{
				Data: []byte("INSERT INTO applied (value) VALUES (1);"),
			},
			"002-second.sql": &fstest.MapFile{
				Data: []byte("INSERT INTO applied (value) VALUES (2);"),
			},
		},
	}

	if err := migrate(db, migrationsFs); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	var values []int
	if err := db.Raw("SELECT value FROM applied ORDER BY rowid").Scan(&values).Error; err != nil {
		t.Fatalf("failed to query applied rows: %v", err)
	}

	expected := []int{1, 2, 3}
	if len(values) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(values))
	}

	for i, v := range values {
		if v != expected[i] {
			t.Errorf("row %d: expected value %d, got %d", i, expected[i], v)
		}
	}
}

func TestMigrate_duplicateVersion(t *testing.T) {
	db := openBare(t)

	migrationsFs := fstest.MapFS{
		"001-first.sql": &fstest.MapFile{
			Data: []byte("SELECT 1;"),
		},
		"001-second.sql": &fstest.MapFile{
			Data: []byte("SELECT 2;"),
		},
	}

	err := migrate(db, migrationsFs)
	if err == nil {
		t.Fatal("expected error for duplicate version numbers, got nil")
	}
}

func TestMigrate_initTableError(t *testing.T) {
	db := openBare(t)

	// a closed pool fails every exec
	sqlDB, _ := db.DB()
	sqlDB.Close()

	migrationsFs := fstest.MapFS{
		"001-init.sql": &fstest.MapFile{
			Data: []byte("SELECT 1;"),
		},
	}

	err := migrate(db, migrationsFs)
	if err == nil {
		t.Fatal("expected error for table initialization failure, got nil")
	}
}

func TestMigrate_readDirError(t *testing.T) {
	db := openBare(t)

	err := migrate(db, errorFS{})
	if err == nil {
		t.Fatal("expected error for ReadDir failure, got nil")
	}
}

func TestMigrate_sqlError(t *testing.T) {
	db := openBare(t)

	migrationsFs := fstest.MapFS{
		"001-bad-sql.sql": &fstest.MapFile{
			Data: []byte("INVALID SQL SYNTAX HERE;"),
		},
	}

	err := migrate(db, migrationsFs)
	if err == nil {
		t.Fatal("expected error for invalid SQL, got nil")
	}
}

func TestMigrate_emptyFile(t *testing.T) {
	db := openBare(t)

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"completely empty", "", true},
		{"only whitespace", "   \n\t  ", true},
		{"comment and statement", "-- detach ideas\nSELECT 1;", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			migrationsFs := fstest.MapFS{
				"001-empty.sql": &fstest.MapFile{
					Data: []byte(tt.data),
				},
			}

			err := migrate(db, migrationsFs)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMigrate_invalidFilename(t *testing.T) {
	db := openBare(t)

	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"valid format", "001-init.sql", false},
		{"no leading zeros", "1-init.sql", true},
		{"two digits", "01-init.sql", true},
		{"no dash", "001init.sql", true},
		{"no description", "001-.sql", true},
		{"no extension", "001-init.", true},
		{"wrong extension", "001-init.txt", true},
		{"non-numeric version number", "0a1-init.sql", true},
		{"underscore separator", "001_init.sql", true},
		{"multiple dashes in description", "001-add-feature-v2.sql", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			migrationsFs := fstest.MapFS{
				tt.filename: &fstest.MapFile{
					Data: []byte("SELECT 1;"),
				},
			}

			err := migrate(db, migrationsFs)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMigrate_embedded(t *testing.T) {
	db := openBare(t)
	InitSchema(db)

	if err := Migrate(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}

	var version int
	if err := db.Raw("SELECT MAX(version) FROM schema_migrations").Scan(&version).Error; err != nil {
		t.Fatalf("failed to read the version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
}
