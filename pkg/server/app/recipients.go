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

func validateRecipient(r database.Recipient) error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}

	return nil
}

// ListRecipients returns the recipients of the owner
func (a *App) ListRecipients(ownerID string) ([]database.Recipient, error) {
	return listOwned[database.Recipient](a.DB, ownerID)
}

// CreateRecipient stores a new recipient under a server-assigned id
func (a *App) CreateRecipient(ownerID string, in database.Recipient) (database.Recipient, error) {
	if err := validateRecipient(in); err != nil {
		return database.Recipient{}, err
	}

	id, err := genID()
	if err != nil {
		return database.Recipient{}, err
	}

	r := in
	r.ID = id
	r.OwnerID = ownerID
	r.CreatedAt, r.UpdatedAt = a.newTimestamps(in.CreatedAt, in.UpdatedAt)

	if err := a.DB.Create(&r).Error; err != nil {
		return database.Recipient{}, errors.Wrap(err, "inserting the recipient")
	}

	return r, nil
}

// UpdateRecipient replaces the fields of the recipient with the given id
func (a *App) UpdateRecipient(ownerID, id string, in database.Recipient) (database.Recipient, error) {
	if err := validateRecipient(in); err != nil {
		return database.Recipient{}, err
	}

	var ret database.Recipient
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		stored, err := findOwned[database.Recipient](tx, ownerID, id)
		if err != nil {
			return err
		}

		updatedAt, err := a.updatedTimestamp(in.UpdatedAt, stored.UpdatedAt)
		if err != nil {
			return err
		}

		stored.Name = in.Name
		stored.Relationship = in.Relationship
		stored.Birthday = in.Birthday
		stored.Notes = in.Notes
		stored.UpdatedAt = updatedAt

		if err := tx.Save(&stored).Error; err != nil {
			return errors.Wrap(err, "saving the recipient")
		}

		ret = stored
		return nil
	})

	return ret, err
}

// DeleteRecipient deletes the recipient with its occasions and gift ideas
func (a *App) DeleteRecipient(ownerID, id string) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned[database.Recipient](tx, ownerID, id); err != nil {
			return err
		}

		occasions := tx.Model(&database.Occasion{}).Select("id").Where("recipient_id = ?", id)
		if err := tx.Model(&database.GiftIdea{}).
			Where("occasion_id IN (?) AND recipient_id <> ?", occasions, id).
			Update("occasion_id", nil).Error; err != nil {
			return errors.Wrap(err, "detaching gift ideas")
		}
		if err := tx.Where("recipient_id = ?", id).Delete(&database.GiftIdea{}).Error; err != nil {
			return errors.Wrap(err, "deleting gift ideas")
		}
		if err := tx.Where("recipient_id = ?", id).Delete(&database.Occasion{}).Error; err != nil {
			return errors.Wrap(err, "deleting occasions")
		}
		if err := tx.Where("id = ?", id).Delete(&database.Recipient{}).Error; err != nil {
			return errors.Wrap(err, "deleting the recipient")
		}

		return nil
	})
}
