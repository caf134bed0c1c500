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
	"time"
)

// Recipient is a person an owner tracks gifts for
type Recipient struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text"`
	OwnerID      string    `json:"ownerId" gorm:"index;type:text;not null"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	Birthday     string    `json:"birthday"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// Occasion is a dated event of a recipient
type Occasion struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	OwnerID     string    `json:"ownerId" gorm:"index;type:text;not null"`
	RecipientID string    `json:"recipientId" gorm:"index;type:text;not null"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	Recurring   bool      `json:"recurring"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// GiftIdea is a gift considered for a recipient, optionally for one of
// the recipient's occasions
type GiftIdea struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	OwnerID     string    `json:"ownerId" gorm:"index;type:text;not null"`
	RecipientID string    `json:"recipientId" gorm:"index;type:text;not null"`
	OccasionID  *string   `json:"occasionId" gorm:"type:text"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PriceCents  int64     `json:"priceCents"`
	Purchased   bool      `json:"purchased"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// Session is an API session key issued to an owner
type Session struct {
	Key        string `gorm:"primaryKey;type:text"`
	OwnerID    string `gorm:"index;type:text;not null"`
	CreatedAt  time.Time
	LastUsedAt time.Time
	ExpiresAt  time.Time
}
