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
	"github.com/pkg/errors"
)

// Cascade is a snapshot of the rows a delete removes or detaches, taken
// before the delete so that it can be undone.
type Cascade struct {
	Kind Kind
	ID   string
	// Removed holds the deleted rows in foreign-key order
	Removed []Entity
	// Detached holds gift ideas whose occasion is deleted, as they were
	// before the delete
	Detached []GiftIdea
}

// CaptureCascade returns the rows that deleting the entity would affect
func CaptureCascade(db *DB, kind Kind, id string) (Cascade, error) {
	ret := Cascade{Kind: kind, ID: id}

	switch kind {
	case KindRecipient:
		r, ok, err := Recipients.Find(db, id)
		if err != nil {
			return ret, err
		}
		if !ok {
			return ret, nil
		}
		ret.Removed = append(ret.Removed, r)

		occasions, err := Occasions.where(db, "recipient_id = ?", id)
		if err != nil {
			return ret, err
		}
		for _, o := range occasions {
			ret.Removed = append(ret.Removed, o)
		}

		ideas, err := GiftIdeas.where(db, "recipient_id = ?", id)
		if err != nil {
			return ret, err
		}
		for _, g := range ideas {
			ret.Removed = append(ret.Removed, g)
		}

		detached, err := GiftIdeas.where(db, "recipient_id != ? AND occasion_id IN (SELECT id FROM occasions WHERE recipient_id = ?)", id, id)
		if err != nil {
			return ret, err
		}
		ret.Detached = detached
	case KindOccasion:
		o, ok, err := Occasions.Find(db, id)
		if err != nil {
			return ret, err
		}
		if !ok {
			return ret, nil
		}
		ret.Removed = append(ret.Removed, o)

		detached, err := GiftIdeas.where(db, "occasion_id = ?", id)
		if err != nil {
			return ret, err
		}
		ret.Detached = detached
	case KindGiftIdea:
		g, ok, err := GiftIdeas.Find(db, id)
		if err != nil {
			return ret, err
		}
		if ok {
			ret.Removed = append(ret.Removed, g)
		}
	default:
		return ret, errors.Errorf("unknown entity kind '%s'", kind)
	}

	return ret, nil
}

// Empty reports whether the entity did not exist when the snapshot was taken
func (c Cascade) Empty() bool {
	return len(c.Removed) == 0
}

// DetachedAfter returns the detached gift ideas as they are after the delete
func (c Cascade) DetachedAfter() []GiftIdea {
	ret := make([]GiftIdea, len(c.Detached))
	for i, g := range c.Detached {
		g.OccasionID = nil
		ret[i] = g
	}

	return ret
}

// Restore writes the snapshot back, undoing the delete
func (c Cascade) Restore(db *DB) error {
	for _, e := range c.Removed {
		s, err := StoreFor(e.EntityKind())
		if err != nil {
			return err
		}

		if err := s.UpsertEntities(db, []Entity{e}); err != nil {
			return errors.Wrapf(err, "restoring %s %s", e.EntityKind(), e.EntityID())
		}
	}

	for _, g := range c.Detached {
		if err := GiftIdeas.Upsert(db, g); err != nil {
			return errors.Wrapf(err, "reattaching gift idea %s", g.ID)
		}
	}

	return nil
}
