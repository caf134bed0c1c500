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

func (a *App) validateOccasion(tx *gorm.DB, ownerID string, o database.Occasion) error {
	if strings.TrimSpace(o.Name) == "" {
		return ErrNameRequired
	}

	ok, err := exists[database.Recipient](tx, ownerID, o.RecipientID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrInvalidReference, "recipient %s", o.RecipientID)
	}

	return nil
}

// ListOccasions returns the occasions of the owner
func (a *App) ListOccasions(ownerID string) ([]database.Occasion, error) {
	return listOwned[database.Occasion](a.DB, ownerID)
}

// CreateOccasion stores a new occasion under a server-assigned id
func (a *App) CreateOccasion(ownerID string, in database.Occasion) (database.Occasion, error) {
	var ret database.Occasion

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := a.validateOccasion(tx, ownerID, in); err != nil {
			return err
		}

		id, err := genID()
		if err != nil {
			return err
		}

		o := in
		o.ID = id
		o.OwnerID = ownerID
		o.CreatedAt, o.UpdatedAt = a.newTimestamps(in.CreatedAt, in.UpdatedAt)

		if err := tx.Create(&o).Error; err != nil {
			return errors.Wrap(err, "inserting the occasion")
		}

		ret = o
		return nil
	})

	return ret, err
}

// UpdateOccasion replaces the fields of the occasion with the given id
func (a *App) UpdateOccasion(ownerID, id string, in database.Occasion) (database.Occasion, error) {
	var ret database.Occasion

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		stored, err := findOwned[database.Occasion](tx, ownerID, id)
		if err != nil {
			return err
		}
		if err := a.validateOccasion(tx, ownerID, in); err != nil {
			return err
		}

		updatedAt, err := a.updatedTimestamp(in.UpdatedAt, stored.UpdatedAt)
		if err != nil {
			return err
		}

		if in.RecipientID != stored.RecipientID {
			// ideas of the old recipient cannot stay attached
			if err := tx.Model(&database.GiftIdea{}).
				Where("occasion_id = ? AND recipient_id <> ?", id, in.RecipientID).
				Update("occasion_id", nil).Error; err != nil {
				return errors.Wrap(err, "detaching gift ideas")
			}
		}

		stored.RecipientID = in.RecipientID
		stored.Name = in.Name
		stored.Date = in.Date
		stored.Recurring = in.Recurring
		stored.Notes = in.Notes
		stored.UpdatedAt = updatedAt

		if err := tx.Save(&stored).Error; err != nil {
			return errors.Wrap(err, "saving the occasion")
		}

		ret = stored
		return nil
	})

	return ret, err
}

// DeleteOccasion deletes the occasion and detaches the gift ideas planned
// for it
func (a *App) DeleteOccasion(ownerID, id string) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned[database.Occasion](tx, ownerID, id); err != nil {
			return err
		}

		if err := tx.Model(&database.GiftIdea{}).Where("occasion_id = ?", id).Update("occasion_id", nil).Error; err != nil {
			return errors.Wrap(err, "detaching gift ideas")
		}
		if err := tx.Where("id = ?", id).Delete(&database.Occasion{}).Error; err != nil {
			return errors.Wrap(err, "deleting the occasion")
		}

		return nil
	})
}
