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

package app

import (
	"testing"
	"time"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/giftwise/giftwise/pkg/server/database"
	"github.com/giftwise/giftwise/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestCreateGiftIdea(t *testing.T) {
	a, _, _ := newTestApp(t)
	r1 := mustCreateRecipient(t, a, "owner-1", "Ada")
	r2 := mustCreateRecipient(t, a, "owner-1", "Grace")
	o1, err := a.CreateOccasion("owner-1", database.Occasion{RecipientID: r1.ID, Name: "Birthday"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating occasion"))
	}

	testCases := []struct {
		name               string
		idea               database.GiftIdea
		expectedErr        error
		expectedOccasionID *string
	}{
		{
			name:               "with occasion",
			idea:               database.GiftIdea{RecipientID: r1.ID, OccasionID: &o1.ID, Title: "Book", PriceCents: 2599},
			expectedOccasionID: &o1.ID,
		},
		{
			name:               "empty occasion is cleared",
			idea:               database.GiftIdea{RecipientID: r1.ID, OccasionID: testutils.StrPtr(""), Title: "Pen"},
			expectedOccasionID: nil,
		},
		{
			name:        "missing title",
			idea:        database.GiftIdea{RecipientID: r1.ID},
			expectedErr: ErrTitleRequired,
		},
		{
			name:        "negative price",
			idea:        database.GiftIdea{RecipientID: r1.ID, Title: "Book", PriceCents: -1},
			expectedErr: ErrInvalidPrice,
		},
		{
			name:        "unknown recipient",
			idea:        database.GiftIdea{RecipientID: "missing", Title: "Book"},
			expectedErr: ErrInvalidReference,
		},
		{
			name:        "occasion of another recipient",
			idea:        database.GiftIdea{RecipientID: r2.ID, OccasionID: &o1.ID, Title: "Book"},
			expectedErr: ErrInvalidReference,
		},
		{
			name:        "unknown occasion",
			idea:        database.GiftIdea{RecipientID: r1.ID, OccasionID: testutils.StrPtr("missing"), Title: "Book"},
			expectedErr: ErrInvalidReference,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := a.CreateGiftIdea("owner-1", tc.idea)
			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
			if tc.expectedErr != nil {
				return
			}

			assert.DeepEqual(t, g.OccasionID, tc.expectedOccasionID, "occasion mismatch")
			assert.Equal(t, g.PriceCents, tc.idea.PriceCents, "price mismatch")
		})
	}
}

func TestUpdateGiftIdea(t *testing.T) {
	a, db, c := newTestApp(t)
	r := mustCreateRecipient(t, a, "owner-1", "Ada")

	g, err := a.CreateGiftIdea("owner-1", database.GiftIdea{RecipientID: r.ID, Title: "Book", PriceCents: 2599})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating idea"))
	}

	t.Run("marks purchased", func(t *testing.T) {
		next := c.Now().Add(time.Minute)
		got, err := a.UpdateGiftIdea("owner-1", g.ID, database.GiftIdea{
			RecipientID: r.ID,
			Title:       "Book",
			PriceCents:  2599,
			Purchased:   true,
			UpdatedAt:   next,
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "updating"))
		}

		assert.Equal(t, got.Purchased, true, "purchased mismatch")

		var stored database.GiftIdea
		testutils.MustExec(t, db.Where("id = ?", g.ID).First(&stored), "finding idea")
		assert.Equal(t, stored.Purchased, true, "stored purchased mismatch")
		assert.Equal(t, stored.UpdatedAt.Equal(next), true, "updatedAt mismatch")
	})

	t.Run("stale", func(t *testing.T) {
		_, err := a.UpdateGiftIdea("owner-1", g.ID, database.GiftIdea{
			RecipientID: r.ID,
			Title:       "Old title",
			UpdatedAt:   c.Now().Add(-time.Hour),
		})
		assert.Equal(t, err, ErrConflict, "error mismatch")
	})

	t.Run("without a version", func(t *testing.T) {
		c.SetNow(c.Now().Add(time.Hour))

		got, err := a.UpdateGiftIdea("owner-1", g.ID, database.GiftIdea{RecipientID: r.ID, Title: "Novel"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "updating"))
		}

		assert.Equal(t, got.Title, "Novel", "title mismatch")
		assert.Equal(t, got.UpdatedAt.Equal(c.Now()), true, "updatedAt should be the server time")
	})
}

func TestDeleteGiftIdea(t *testing.T) {
	a, db, _ := newTestApp(t)
	r := mustCreateRecipient(t, a, "owner-1", "Ada")

	g, err := a.CreateGiftIdea("owner-1", database.GiftIdea{RecipientID: r.ID, Title: "Book"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating idea"))
	}

	assert.Equal(t, a.DeleteGiftIdea("owner-2", g.ID), ErrNotFound, "other owners cannot delete")
	if err := a.DeleteGiftIdea("owner-1", g.ID); err != nil {
		t.Fatal(errors.Wrap(err, "deleting"))
	}

	var count int64
	testutils.MustExec(t, db.Model(&database.GiftIdea{}).Count(&count), "counting ideas")
	assert.Equal(t, count, int64(0), "idea count mismatch")
}

func TestIsValidation(t *testing.T) {
	assert.Equal(t, IsValidation(errors.Wrap(ErrInvalidReference, "recipient r1")), true, "wrapped reference error")
	assert.Equal(t, IsValidation(ErrTitleRequired), true, "title error")
	assert.Equal(t, IsValidation(ErrConflict), false, "conflict error")
	assert.Equal(t, IsValidation(ErrNotFound), false, "not found error")
}
