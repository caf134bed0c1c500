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

// Package database provides the local SQLite storage for Giftwise: the entity
// tables, the pending action log and the bookkeeping used while syncing.
package database

import (
	"database/sql"
	"fmt"
	"strings"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// ErrNotFound is an error for a row that does not exist
var ErrNotFound = errors.New("not found")

// DB contains information about the current database connection
type DB struct {
	Conn *sql.DB
	Tx   *sql.Tx
}

// dsn appends the connection parameters every Giftwise connection needs.
// Foreign keys are off by default in SQLite and the cascade rules depend on them.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}

	return fmt.Sprintf("%s%s_foreign_keys=1&_busy_timeout=5000", dbPath, sep)
}

// Open initializes a new connection to the sqlite database
func Open(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "opening db connection")
	}

	// Every statement runs on one connection so that a transaction must be
	// finished before the next statement outside of it can run.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "connecting to the database")
	}

	return &DB{Conn: conn}, nil
}

// Begin begins a transaction
func (d *DB) Begin() (*DB, error) {
	if d.Tx != nil {
		return nil, errors.New("a transaction is already in progress")
	}

	tx, err := d.Conn.Begin()
	if err != nil {
		return nil, err
	}

	return &DB{Conn: d.Conn, Tx: tx}, nil
}

// Commit commits a transaction
func (d *DB) Commit() error {
	if d.Tx == nil {
		return errors.New("no transaction to commit")
	}

	return d.Tx.Commit()
}

// Rollback rolls back a transaction. It is a no-op outside a transaction.
func (d *DB) Rollback() error {
	if d.Tx == nil {
		return nil
	}

	err := d.Tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}

	return err
}

// Exec executes a sql query
func (d *DB) Exec(query string, values ...interface{}) (sql.Result, error) {
	if d.Tx != nil {
		return d.Tx.Exec(query, values...)
	}

	return d.Conn.Exec(query, values...)
}

// Query queries rows
func (d *DB) Query(query string, values ...interface{}) (*sql.Rows, error) {
	if d.Tx != nil {
		return d.Tx.Query(query, values...)
	}

	return d.Conn.Query(query, values...)
}

// QueryRow queries a row
func (d *DB) QueryRow(query string, values ...interface{}) *sql.Row {
	if d.Tx != nil {
		return d.Tx.QueryRow(query, values...)
	}

	return d.Conn.QueryRow(query, values...)
}

// Close closes a db connection
func (d *DB) Close() error {
	return d.Conn.Close()
}

// WithTx runs fn inside a transaction, committing if fn returns nil and
// rolling back otherwise
func (d *DB) WithTx(fn func(tx *DB) error) error {
	tx, err := d.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing a transaction")
	}

	return nil
}

// PersistenceError is an error for a failed write to the local database.
// Nothing is queued for the remote when a local write fails.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("local persistence failed while %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err as a PersistenceError for the given operation
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}

	return &PersistenceError{Op: op, Err: err}
}

// IsPersistenceError reports whether err is or wraps a PersistenceError
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
