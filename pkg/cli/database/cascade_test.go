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
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
)

func setupCascadeData(t *testing.T, db *DB) {
	mustInsert(t, db, Recipients, newRecipient("r1"), newRecipient("r2"))
	mustInsert(t, db, Occasions, newOccasion("o1", "r1"), newOccasion("o2", "r2"))
	mustInsert(t, db, GiftIdeas,
		newGiftIdea("g1", "r1", StringPtr("o1")),
		newGiftIdea("g2", "r1", nil),
		// belongs to r2 but is planned for r1's occasion
		newGiftIdea("g3", "r2", StringPtr("o1")),
		newGiftIdea("g4", "r2", StringPtr("o2")),
	)
}

func TestCaptureCascade(t *testing.T) {
	testCases := []struct {
		kind     Kind
		id       string
		removed  []string
		detached []string
	}{
		{
			kind:     KindRecipient,
			id:       "r1",
			removed:  []string{"r1", "o1", "g1", "g2"},
			detached: []string{"g3"},
		},
		{
			kind:     KindOccasion,
			id:       "o1",
			removed:  []string{"o1"},
			detached: []string{"g1", "g3"},
		},
		{
			kind:     KindGiftIdea,
			id:       "g4",
			removed:  []string{"g4"},
			detached: []string{},
		},
		{
			kind:     KindRecipient,
			id:       "missing",
			removed:  []string{},
			detached: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind)+" "+tc.id, func(t *testing.T) {
			db := InitTestMemoryDB(t)
			setupCascadeData(t, db)

			c, err := CaptureCascade(db, tc.kind, tc.id)
			assert.Equal(t, err, nil, "capturing cascade")

			removed := []string{}
			for _, e := range c.Removed {
				removed = append(removed, e.EntityID())
			}
			detached := []string{}
			for _, g := range c.Detached {
				detached = append(detached, g.ID)
			}

			assert.DeepEqual(t, removed, tc.removed, "removed mismatch")
			assert.DeepEqual(t, detached, tc.detached, "detached mismatch")
			assert.Equal(t, c.Empty(), len(tc.removed) == 0, "empty mismatch")
		})
	}
}

func TestCascadeRestore(t *testing.T) {
	testCases := []struct {
		kind Kind
		id   string
	}{
		{kind: KindRecipient, id: "r1"},
		{kind: KindOccasion, id: "o1"},
		{kind: KindGiftIdea, id: "g1"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			db := InitTestMemoryDB(t)
			setupCascadeData(t, db)

			before, err := GiftIdeas.Get(db, "owner-1")
			assert.Equal(t, err, nil, "getting gift ideas")

			c, err := CaptureCascade(db, tc.kind, tc.id)
			assert.Equal(t, err, nil, "capturing cascade")

			s, err := StoreFor(tc.kind)
			assert.Equal(t, err, nil, "getting store")
			assert.Equal(t, s.Delete(db, tc.id), nil, "deleting")

			err = c.Restore(db)
			assert.Equal(t, err, nil, "restoring")

			after, err := GiftIdeas.Get(db, "owner-1")
			assert.Equal(t, err, nil, "getting gift ideas")
			assert.DeepEqual(t, after, before, "gift ideas mismatch after restore")
			assert.Equal(t, MustCount(t, db, "recipients"), 2, "recipient count mismatch")
			assert.Equal(t, MustCount(t, db, "occasions"), 2, "occasion count mismatch")
		})
	}
}

func TestCascadeDetachedAfter(t *testing.T) {
	c := Cascade{
		Detached: []GiftIdea{newGiftIdea("g1", "r1", StringPtr("o1"))},
	}

	got := c.DetachedAfter()
	assert.Equal(t, len(got), 1, "length mismatch")
	assert.Equal(t, got[0].OccasionID == nil, true, "occasion should be cleared")
	assert.NotEqual(t, c.Detached[0].OccasionID == nil, true, "snapshot should be untouched")
}
