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
	"strings"
	"time"

	"github.com/pkg/errors"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// Store is the kind-independent interface of a Table. The sync processor and
// the reconciler work with entities of any kind through it.
type Store interface {
	Kind() Kind
	FindEntity(db *DB, id string) (Entity, bool, error)
	ListEntities(db *DB, ownerID string) ([]Entity, error)
	InsertEntity(db *DB, e Entity) error
	UpdateEntity(db *DB, e Entity) error
	UpsertEntities(db *DB, es []Entity) error
	ReplaceEntity(db *DB, oldID string, e Entity) error
	Delete(db *DB, id string) error
}

// childRef is a column in another table that references a row of a table
type childRef struct {
	table  string
	column string
}

// Table stores the entities of one kind
type Table[E Record[E]] struct {
	kind     Kind
	name     string
	columns  []string
	children []childRef
	values   func(E) []interface{}
	scan     func(scanner) (E, error)
}

// Kind returns the kind of the entities in the table
func (t *Table[E]) Kind() Kind {
	return t.kind
}

// Name returns the name of the underlying table
func (t *Table[E]) Name() string {
	return t.name
}

func (t *Table[E]) selectClause() string {
	return fmt.Sprintf("SELECT id, %s FROM %s", strings.Join(t.columns, ", "), t.name)
}

// where returns the rows matching the given condition
func (t *Table[E]) where(db *DB, cond string, args ...interface{}) ([]E, error) {
	query := fmt.Sprintf("%s WHERE %s ORDER BY created_at ASC, id ASC", t.selectClause(), cond)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", t.name)
	}
	defer rows.Close()

	ret := []E{}
	for rows.Next() {
		e, err := t.scan(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "scanning a row in %s", t.name)
		}

		ret = append(ret, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterating rows in %s", t.name)
	}

	return ret, nil
}

// Get returns all entities belonging to the given owner
func (t *Table[E]) Get(db *DB, ownerID string) ([]E, error) {
	return t.where(db, "owner_id = ?", ownerID)
}

// Find returns the entity with the given id
func (t *Table[E]) Find(db *DB, id string) (E, bool, error) {
	query := fmt.Sprintf("%s WHERE id = ?", t.selectClause())

	e, err := t.scan(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return e, false, nil
	} else if err != nil {
		return e, false, errors.Wrapf(err, "finding %s %s", t.kind, id)
	}

	return e, true, nil
}

func (t *Table[E]) exists(db *DB, id string) (bool, error) {
	var count int
	query := fmt.Sprintf("SELECT count(*) FROM %s WHERE id = ?", t.name)
	if err := db.QueryRow(query, id).Scan(&count); err != nil {
		return false, errors.Wrapf(err, "counting %s %s", t.kind, id)
	}

	return count > 0, nil
}

// Insert inserts a new entity
func (t *Table[E]) Insert(db *DB, e E) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)+1), ", ")
	query := fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (%s)", t.name, strings.Join(t.columns, ", "), placeholders)

	args := append([]interface{}{e.EntityID()}, t.values(e)...)
	if _, err := db.Exec(query, args...); err != nil {
		return errors.Wrapf(err, "inserting %s %s", t.kind, e.EntityID())
	}

	return nil
}

func (t *Table[E]) setClause() string {
	sets := make([]string, len(t.columns))
	for i, c := range t.columns {
		sets[i] = c + " = ?"
	}

	return strings.Join(sets, ", ")
}

// Update replaces every mutable field of the entity with the same id.
// It returns ErrNotFound if no such row exists.
func (t *Table[E]) Update(db *DB, e E) error {
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, t.setClause())

	args := append(t.values(e), e.EntityID())
	res, err := db.Exec(query, args...)
	if err != nil {
		return errors.Wrapf(err, "updating %s %s", t.kind, e.EntityID())
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "updating %s %s", t.kind, e.EntityID())
	}

	return nil
}

// Delete deletes the entity with the given id. Rows referencing it are
// deleted or detached by the foreign key rules. Deleting a missing row is a no-op.
func (t *Table[E]) Delete(db *DB, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name)
	if _, err := db.Exec(query, id); err != nil {
		return errors.Wrapf(err, "deleting %s %s", t.kind, id)
	}

	return nil
}

// Upsert updates the entity if a row with its id exists and inserts it otherwise
func (t *Table[E]) Upsert(db *DB, e E) error {
	ok, err := t.exists(db, e.EntityID())
	if err != nil {
		return err
	}

	if ok {
		return t.Update(db, e)
	}

	return t.Insert(db, e)
}

// UpsertMany upserts each of the given entities in order
func (t *Table[E]) UpsertMany(db *DB, es []E) error {
	for _, e := range es {
		if err := t.Upsert(db, e); err != nil {
			return err
		}
	}

	return nil
}

// Replace swaps the row with oldID for e, keeping every row that references
// it. It is a no-op if no row with oldID exists.
func (t *Table[E]) Replace(db *DB, oldID string, e E) error {
	newID := e.EntityID()
	if oldID == newID {
		return t.Update(db, e)
	}

	ok, err := t.exists(db, oldID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	taken, err := t.exists(db, newID)
	if err != nil {
		return err
	}

	if !taken {
		// ON UPDATE CASCADE carries the references along with the new key
		query := fmt.Sprintf("UPDATE %s SET id = ?, %s WHERE id = ?", t.name, t.setClause())
		args := append([]interface{}{newID}, t.values(e)...)
		args = append(args, oldID)
		if _, err := db.Exec(query, args...); err != nil {
			return errors.Wrapf(err, "re-keying %s %s to %s", t.kind, oldID, newID)
		}

		return nil
	}

	for _, c := range t.children {
		query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?", c.table, c.column, c.column)
		if _, err := db.Exec(query, newID, oldID); err != nil {
			return errors.Wrapf(err, "re-pointing %s.%s", c.table, c.column)
		}
	}
	if err := t.Delete(db, oldID); err != nil {
		return err
	}

	return t.Update(db, e)
}

func (t *Table[E]) cast(e Entity) (E, error) {
	ret, ok := e.(E)
	if !ok {
		return ret, errors.Errorf("expected %s but got %s", t.kind, e.EntityKind())
	}

	return ret, nil
}

// FindEntity implements Store
func (t *Table[E]) FindEntity(db *DB, id string) (Entity, bool, error) {
	e, ok, err := t.Find(db, id)
	if err != nil || !ok {
		return nil, ok, err
	}

	return e, true, nil
}

// ListEntities implements Store
func (t *Table[E]) ListEntities(db *DB, ownerID string) ([]Entity, error) {
	es, err := t.Get(db, ownerID)
	if err != nil {
		return nil, err
	}

	ret := make([]Entity, len(es))
	for i, e := range es {
		ret[i] = e
	}

	return ret, nil
}

// InsertEntity implements Store
func (t *Table[E]) InsertEntity(db *DB, e Entity) error {
	v, err := t.cast(e)
	if err != nil {
		return err
	}

	return t.Insert(db, v)
}

// UpdateEntity implements Store
func (t *Table[E]) UpdateEntity(db *DB, e Entity) error {
	v, err := t.cast(e)
	if err != nil {
		return err
	}

	return t.Update(db, v)
}

// UpsertEntities implements Store
func (t *Table[E]) UpsertEntities(db *DB, es []Entity) error {
	for _, e := range es {
		v, err := t.cast(e)
		if err != nil {
			return err
		}
		if err := t.Upsert(db, v); err != nil {
			return err
		}
	}

	return nil
}

// ReplaceEntity implements Store
func (t *Table[E]) ReplaceEntity(db *DB, oldID string, e Entity) error {
	v, err := t.cast(e)
	if err != nil {
		return err
	}

	return t.Replace(db, oldID, v)
}

func toNano(t time.Time) int64 {
	return t.UnixNano()
}

func fromNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// Recipients is the table of recipients
var Recipients = &Table[Recipient]{
	kind:    KindRecipient,
	name:    "recipients",
	columns: []string{"owner_id", "name", "relationship", "birthday", "notes", "created_at", "updated_at"},
	children: []childRef{
		{table: "occasions", column: "recipient_id"},
		{table: "gift_ideas", column: "recipient_id"},
	},
	values: func(r Recipient) []interface{} {
		return []interface{}{r.OwnerID, r.Name, r.Relationship, r.Birthday, r.Notes, toNano(r.CreatedAt), toNano(r.UpdatedAt)}
	},
	scan: func(s scanner) (Recipient, error) {
		var r Recipient
		var createdAt, updatedAt int64
		err := s.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Relationship, &r.Birthday, &r.Notes, &createdAt, &updatedAt)
		r.CreatedAt = fromNano(createdAt)
		r.UpdatedAt = fromNano(updatedAt)
		return r, err
	},
}

// Occasions is the table of occasions
var Occasions = &Table[Occasion]{
	kind:    KindOccasion,
	name:    "occasions",
	columns: []string{"owner_id", "recipient_id", "name", "date", "recurring", "notes", "created_at", "updated_at"},
	children: []childRef{
		{table: "gift_ideas", column: "occasion_id"},
	},
	values: func(o Occasion) []interface{} {
		return []interface{}{o.OwnerID, o.RecipientID, o.Name, o.Date, o.Recurring, o.Notes, toNano(o.CreatedAt), toNano(o.UpdatedAt)}
	},
	scan: func(s scanner) (Occasion, error) {
		var o Occasion
		var createdAt, updatedAt int64
		err := s.Scan(&o.ID, &o.OwnerID, &o.RecipientID, &o.Name, &o.Date, &o.Recurring, &o.Notes, &createdAt, &updatedAt)
		o.CreatedAt = fromNano(createdAt)
		o.UpdatedAt = fromNano(updatedAt)
		return o, err
	},
}

// GiftIdeas is the table of gift ideas
var GiftIdeas = &Table[GiftIdea]{
	kind:    KindGiftIdea,
	name:    "gift_ideas",
	columns: []string{"owner_id", "recipient_id", "occasion_id", "title", "url", "price_cents", "purchased", "notes", "created_at", "updated_at"},
	values: func(g GiftIdea) []interface{} {
		var occasionID sql.NullString
		if g.OccasionID != nil {
			occasionID = sql.NullString{String: *g.OccasionID, Valid: true}
		}

		return []interface{}{g.OwnerID, g.RecipientID, occasionID, g.Title, g.URL, g.PriceCents, g.Purchased, g.Notes, toNano(g.CreatedAt), toNano(g.UpdatedAt)}
	},
	scan: func(s scanner) (GiftIdea, error) {
		var g GiftIdea
		var occasionID sql.NullString
		var createdAt, updatedAt int64
		err := s.Scan(&g.ID, &g.OwnerID, &g.RecipientID, &occasionID, &g.Title, &g.URL, &g.PriceCents, &g.Purchased, &g.Notes, &createdAt, &updatedAt)
		if occasionID.Valid {
			g.OccasionID = StringPtr(occasionID.String)
		}
		g.CreatedAt = fromNano(createdAt)
		g.UpdatedAt = fromNano(updatedAt)
		return g, err
	},
}

// StoreFor returns the table storing entities of the given kind
func StoreFor(kind Kind) (Store, error) {
	switch kind {
	case KindRecipient:
		return Recipients, nil
	case KindOccasion:
		return Occasions, nil
	case KindGiftIdea:
		return GiftIdeas, nil
	}

	return nil, errors.Errorf("unknown entity kind '%s'", kind)
}
