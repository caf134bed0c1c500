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
	"time"

	"github.com/giftwise/giftwise/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// findOwned finds the entity with the id that belongs to the owner
func findOwned[M any](tx *gorm.DB, ownerID, id string) (M, error) {
	var m M

	err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrNotFound
	} else if err != nil {
		return m, errors.Wrap(err, "finding the entity")
	}

	return m, nil
}

// listOwned returns the entities of the owner, oldest first
func listOwned[M any](db *gorm.DB, ownerID string) ([]M, error) {
	ret := []M{}

	if err := db.Where("owner_id = ?", ownerID).Order("created_at, id").Find(&ret).Error; err != nil {
		return nil, errors.Wrap(err, "listing the entities")
	}

	return ret, nil
}

// exists reports whether the owner has an entity with the id
func exists[M any](tx *gorm.DB, ownerID, id string) (bool, error) {
	_, err := findOwned[M](tx, ownerID, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}

// newTimestamps returns the timestamps of a created entity. The given ones
// are kept so that the entity keeps the times it was written offline.
func (a *App) newTimestamps(createdAt, updatedAt time.Time) (time.Time, time.Time) {
	if createdAt.IsZero() {
		createdAt = a.now()
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return createdAt.UTC(), updatedAt.UTC()
}

// updatedTimestamp checks the version of an update against the stored one
// and returns the timestamp to store
func (a *App) updatedTimestamp(incoming, stored time.Time) (time.Time, error) {
	if incoming.IsZero() {
		return a.now(), nil
	}
	if incoming.Before(stored) {
		return time.Time{}, ErrConflict
	}

	return incoming.UTC(), nil
}

func genID() (string, error) {
	id, err := helpers.GenUUID()
	if err != nil {
		return "", errors.Wrap(err, "generating the id")
	}

	return id, nil
}
