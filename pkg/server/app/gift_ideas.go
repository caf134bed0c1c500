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
	"strings"

	"github.com/giftwise/giftwise/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// normalizeIdea clears an empty occasion reference
func normalizeIdea(g database.GiftIdea) database.GiftIdea {
	if g.OccasionID != nil && *g.OccasionID == "" {
		g.OccasionID = nil
	}

	return g
}

func (a *App) validateIdea(tx *gorm.DB, ownerID string, g database.GiftIdea) error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrTitleRequired
	}
	if g.PriceCents < 0 {
		return ErrInvalidPrice
	}

	ok, err := exists[database.Recipient](tx, ownerID, g.RecipientID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrInvalidReference, "recipient %s", g.RecipientID)
	}

	if g.OccasionID == nil {
		return nil
	}

	o, err := findOwned[database.Occasion](tx, ownerID, *g.OccasionID)
	if errors.Is(err, ErrNotFound) || (err == nil && o.RecipientID != g.RecipientID) {
		return errors.Wrapf(ErrInvalidReference, "occasion %s", *g.OccasionID)
	}

	return err
}

// ListGiftIdeas returns the gift ideas of the owner
func (a *App) ListGiftIdeas(ownerID string) ([]database.GiftIdea, error) {
	return listOwned[database.GiftIdea](a.DB, ownerID)
}

// CreateGiftIdea stores a new gift idea under a server-assigned id
func (a *App) CreateGiftIdea(ownerID string, in database.GiftIdea) (database.GiftIdea, error) {
	in = normalizeIdea(in)

	var ret database.GiftIdea
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := a.validateIdea(tx, ownerID, in); err != nil {
			return err
		}

		id, err := genID()
		if err != nil {
			return err
		}

		g := in
		g.ID = id
		g.OwnerID = ownerID
		g.CreatedAt, g.UpdatedAt = a.newTimestamps(in.CreatedAt, in.UpdatedAt)

		if err := tx.Create(&g).Error; err != nil {
			return errors.Wrap(err, "inserting the gift idea")
		}

		ret = g
		return nil
	})

	return ret, err
}

// UpdateGiftIdea replaces the fields of the gift idea with the given id
func (a *App) UpdateGiftIdea(ownerID, id string, in database.GiftIdea) (database.GiftIdea, error) {
	in = normalizeIdea(in)

	var ret database.GiftIdea
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		stored, err := findOwned[database.GiftIdea](tx, ownerID, id)
		if err != nil {
			return err
		}
		if err := a.validateIdea(tx, ownerID, in); err != nil {
			return err
		}

		updatedAt, err := a.updatedTimestamp(in.UpdatedAt, stored.UpdatedAt)
		if err != nil {
			return err
		}

		stored.RecipientID = in.RecipientID
		stored.OccasionID = in.OccasionID
		stored.Title = in.Title
		stored.URL = in.URL
		stored.PriceCents = in.PriceCents
		stored.Purchased = in.Purchased
		stored.Notes = in.Notes
		stored.UpdatedAt = updatedAt

		if err := tx.Save(&stored).Error; err != nil {
			return errors.Wrap(err, "saving the gift idea")
		}

		ret = stored
		return nil
	})

	return ret, err
}

// DeleteGiftIdea deletes the gift idea with the given id
func (a *App) DeleteGiftIdea(ownerID, id string) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned[database.GiftIdea](tx, ownerID, id); err != nil {
			return err
		}

		if err := tx.Where("id = ?", id).Delete(&database.GiftIdea{}).Error; err != nil {
			return errors.Wrap(err, "deleting the gift idea")
		}

		return nil
	})
}
