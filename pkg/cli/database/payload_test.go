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
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/pkg/errors"
)

func TestPayloadRoundTrip(t *testing.T) {
	testCases := []Entity{
		newRecipient("r1"),
		newOccasion("o1", "r1"),
		newGiftIdea("g1", "r1", StringPtr("o1")),
		newGiftIdea("g2", "r1", nil),
	}

	for _, e := range testCases {
		t.Run(e.EntityID(), func(t *testing.T) {
			s, err := EncodePayload(e)
			assert.Equal(t, err, nil, "encoding")

			got, err := DecodePayload(e.EntityKind(), s)
			assert.Equal(t, err, nil, "decoding")
			assert.DeepEqual(t, got, e, "entity mismatch")
		})
	}
}

func TestDecodePayloadInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		kind    Kind
		payload string
	}{
		{name: "empty", kind: KindRecipient, payload: ""},
		{name: "malformed", kind: KindOccasion, payload: "{not json"},
		{name: "missing id", kind: KindGiftIdea, payload: `{"title":"Lamp"}`},
		{name: "unknown kind", kind: Kind("Wishlist"), payload: `{"id":"w1"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePayload(tc.kind, tc.payload)
			assert.Equal(t, errors.Cause(err), ErrInvalidPayload, "error mismatch")
		})
	}
}

func TestPayloadFieldNames(t *testing.T) {
	s, err := EncodePayload(newGiftIdea("g1", "r1", nil))
	assert.Equal(t, err, nil, "encoding")

	expected := `{"id":"g1","ownerId":"owner-1","recipientId":"r1","occasionId":null,"title":"Idea g1","url":"https://example.com/g1","priceCents":2599,"purchased":false,"notes":"","createdAt":"2024-05-04T12:30:00Z","updatedAt":"2024-05-04T12:30:00Z"}`
	assert.Equal(t, s, expected, "payload mismatch")
}

func TestIDMappings(t *testing.T) {
	db := InitTestMemoryDB(t)

	id, err := ResolveID(db, KindRecipient, "temp-r")
	assert.Equal(t, err, nil, "resolving unmapped id")
	assert.Equal(t, id, "temp-r", "unmapped id should resolve to itself")

	assert.Equal(t, PutIDMapping(db, KindRecipient, "temp-r", "server-r"), nil, "mapping recipient")
	assert.Equal(t, PutIDMapping(db, KindOccasion, "temp-o", "server-o"), nil, "mapping occasion")

	id, err = ResolveID(db, KindRecipient, "temp-r")
	assert.Equal(t, err, nil, "resolving")
	assert.Equal(t, id, "server-r", "mapped id mismatch")

	id, err = ResolveID(db, KindOccasion, "temp-r")
	assert.Equal(t, err, nil, "resolving with another kind")
	assert.Equal(t, id, "temp-r", "mappings are per kind")

	e, err := ResolveRefs(db, newGiftIdea("g1", "temp-r", StringPtr("temp-o")))
	assert.Equal(t, err, nil, "resolving refs")
	g := e.(GiftIdea)
	assert.Equal(t, g.RecipientID, "server-r", "recipient ref mismatch")
	assert.Equal(t, *g.OccasionID, "server-o", "occasion ref mismatch")

	assert.Equal(t, ClearIDMappings(db), nil, "clearing")
	assert.Equal(t, MustCount(t, db, "id_mappings"), 0, "mappings should be cleared")
}

func TestSystem(t *testing.T) {
	db := InitTestMemoryDB(t)

	var val string
	err := GetSystem(db, "owner_id", &val)
	assert.Equal(t, errors.Cause(err), sql.ErrNoRows, "missing key error mismatch")

	assert.Equal(t, UpsertSystem(db, "owner_id", "u1"), nil, "inserting")
	assert.Equal(t, UpsertSystem(db, "owner_id", "u2"), nil, "updating")

	assert.Equal(t, GetSystem(db, "owner_id", &val), nil, "getting")
	assert.Equal(t, val, "u2", "value mismatch")

	assert.Equal(t, DeleteSystem(db, "owner_id"), nil, "deleting")
	assert.Equal(t, MustCount(t, db, "system"), 0, "system count mismatch")
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, _ := InitTestFileDB(t)

	n, err := Migrate(db)
	assert.Equal(t, err, nil, "migrating again")
	assert.Equal(t, n, 0, "no migration should be applied twice")

	var fk int
	MustScan(t, "reading foreign_keys pragma", db.QueryRow("PRAGMA foreign_keys"), &fk)
	assert.Equal(t, fk, 1, "foreign keys should be enabled")
}
