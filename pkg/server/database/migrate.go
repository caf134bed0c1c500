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
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/giftwise/giftwise/pkg/server/database/migrations"
	"github.com/giftwise/giftwise/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type migrationFile struct {
	filename string
	version  int
}

// validateMigrationFilename checks if filename follows format: NNN-description.sql
func validateMigrationFilename(name string) error {
	if !strings.HasSuffix(name, ".sql") {
		return errors.Errorf("invalid migration filename %s: must end with .sql", name)
	}

	parts := strings.SplitN(strings.TrimSuffix(name, ".sql"), "-", 2)
	if len(parts) != 2 {
		return errors.Errorf("invalid migration filename %s: must be NNN-description.sql", name)
	}

	version, description := parts[0], parts[1]
	if len(version) != 3 {
		return errors.Errorf("invalid migration filename %s: version must be 3 digits", name)
	}
	for _, c := range version {
		if c < '0' || c > '9' {
			return errors.Errorf("invalid migration filename %s: version must be numeric", name)
		}
	}
	if description == "" {
		return errors.Errorf("invalid migration filename %s: description is required", name)
	}

	return nil
}

// Migrate applies the embedded migrations that have not been applied yet
func Migrate(db *gorm.DB) error {
	return migrate(db, migrations.Files)
}

// getMigrationFiles reads, validates, and sorts migration files
func getMigrationFiles(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading migration directory")
	}

	var ret []migrationFile
	seen := make(map[int]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, ".go") {
			continue
		}

		if err := validateMigrationFilename(name); err != nil {
			return nil, err
		}

		var v int
		fmt.Sscanf(name, "%d", &v)

		if existing, found := seen[v]; found {
			return nil, errors.Errorf("duplicate migration version %d: %s and %s", v, existing, name)
		}
		seen[v] = name

		ret = append(ret, migrationFile{filename: name, version: v})
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].version < ret[j].version
	})

	return ret, nil
}

func migrate(db *gorm.DB, fsys fs.FS) error {
	if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_migrations (
					version INTEGER PRIMARY KEY,
					applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
	`).Error; err != nil {
		return errors.Wrap(err, "initializing migration table")
	}

	var version int
	if err := db.Raw("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version).Error; err != nil {
		return errors.Wrap(err, "reading current version")
	}

	files, err := getMigrationFiles(fsys)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"version": version,
		"files":   len(files),
	}).Debug("database schema version")

	for _, m := range files {
		if m.version <= version {
			continue
		}

		sql, err := fs.ReadFile(fsys, m.filename)
		if err != nil {
			return errors.Wrapf(err, "reading migration file %s", m.filename)
		}
		if len(strings.TrimSpace(string(sql))) == 0 {
			return errors.Errorf("migration file %s is empty", m.filename)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(sql)).Error; err != nil {
				return errors.Wrapf(err, "migration %s failed", m.filename)
			}
			if err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version).Error; err != nil {
				return errors.Wrapf(err, "recording migration %s", m.filename)
			}

			return nil
		})
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"file": m.filename,
		}).Info("applied migration")
	}

	return nil
}
