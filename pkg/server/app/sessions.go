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

package app

import (
	"strings"

	"github.com/giftwise/giftwise/pkg/server/database"
	"github.com/giftwise/giftwise/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateSession issues a new session key for the owner
func (a *App) CreateSession(ownerID string) (database.Session, error) {
	if strings.TrimSpace(ownerID) == "" {
		return database.Session{}, ErrOwnerRequired
	}

	key, err := helpers.GenRandom(32)
	if err != nil {
		return database.Session{}, errors.Wrap(err, "generating key")
	}

	now := a.now()
	session := database.Session{
		Key:        key,
		OwnerID:    ownerID,
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(a.SessionTTL),
	}

	if err := a.DB.Create(&session).Error; err != nil {
		return database.Session{}, errors.Wrap(err, "saving session")
	}

	return session, nil
}

// FindSession returns the unexpired session with the given key and records
// its use
func (a *App) FindSession(key string) (database.Session, error) {
	var session database.Session

	err := a.DB.Where("key = ?", key).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session, ErrSessionNotFound
	} else if err != nil {
		return session, errors.Wrap(err, "finding session")
	}

	now := a.now()
	if !session.ExpiresAt.After(now) {
		return session, ErrSessionNotFound
	}

	if err := a.DB.Model(&session).Update("last_used_at", now).Error; err != nil {
		return session, errors.Wrap(err, "recording the session use")
	}

	return session, nil
}

// DeleteSession deletes the session that match the given key
func (a *App) DeleteSession(key string) error {
	if err := a.DB.Where("key = ?", key).Delete(&database.Session{}).Error; err != nil {
		return errors.Wrap(err, "deleting the session")
	}

	return nil
}

// DeleteOwnerSessions deletes every session of the owner and returns how
// many were deleted
func (a *App) DeleteOwnerSessions(ownerID string) (int64, error) {
	res := a.DB.Where("owner_id = ?", ownerID).Delete(&database.Session{})
	if err := res.Error; err != nil {
		return 0, errors.Wrap(err, "deleting sessions")
	}

	return res.RowsAffected, nil
}

// PurgeExpiredSessions deletes the sessions that have expired
func (a *App) PurgeExpiredSessions() (int64, error) {
	res := a.DB.Where("expires_at <= ?", a.now()).Delete(&database.Session{})
	if err := res.Error; err != nil {
		return 0, errors.Wrap(err, "purging expired sessions")
	}

	return res.RowsAffected, nil
}
