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

// Kind is the type of an entity
type Kind string

const (
	// KindRecipient is the kind of a Recipient
	KindRecipient Kind = "Recipient"
	// KindOccasion is the kind of an Occasion
	KindOccasion Kind = "Occasion"
	// KindGiftIdea is the kind of a GiftIdea
	KindGiftIdea Kind = "GiftIdea"
)

// Kinds lists every kind in foreign-key order. A kind only references kinds
// that come before it.
var Kinds = []Kind{KindRecipient, KindOccasion, KindGiftIdea}

// Ref is a reference from an entity to another entity
type Ref struct {
	Kind Kind
	ID   string
}

// Entity is a row in one of the entity tables
type Entity interface {
	EntityKind() Kind
	EntityID() string
	EntityOwnerID() string
	// CreatedTime returns when the entity was first created
	CreatedTime() time.Time
	// Refs returns the entities this entity references
	Refs() []Ref
	// RemapRef returns a copy whose reference to (kind, oldID) points to newID.
	// An empty newID clears an optional reference.
	RemapRef(kind Kind, oldID, newID string) Entity
}

// Record is an Entity that can produce modified copies of itself
type Record[E any] interface {
	Entity
	WithID(id string) E
	WithTimestamps(createdAt, updatedAt time.Time) E
}

// Recipient is a person gifts are tracked for
type Recipient struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	Birthday     string    `json:"birthday"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (r Recipient) EntityKind() Kind       { return KindRecipient }
func (r Recipient) EntityID() string       { return r.ID }
func (r Recipient) EntityOwnerID() string  { return r.OwnerID }
func (r Recipient) CreatedTime() time.Time { return r.CreatedAt }
func (r Recipient) Refs() []Ref            { return nil }

func (r Recipient) RemapRef(kind Kind, oldID, newID string) Entity {
	return r
}

// WithID returns a copy with the given id
func (r Recipient) WithID(id string) Recipient {
	r.ID = id
	return r
}

// WithTimestamps returns a copy with the given timestamps
func (r Recipient) WithTimestamps(createdAt, updatedAt time.Time) Recipient {
	r.CreatedAt = createdAt
	r.UpdatedAt = updatedAt
	return r
}

// Occasion is a dated event for a recipient
type Occasion struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	RecipientID string    `json:"recipientId"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	Recurring   bool      `json:"recurring"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (o Occasion) EntityKind() Kind       { return KindOccasion }
func (o Occasion) EntityID() string       { return o.ID }
func (o Occasion) EntityOwnerID() string  { return o.OwnerID }
func (o Occasion) CreatedTime() time.Time { return o.CreatedAt }

func (o Occasion) Refs() []Ref {
	return []Ref{{Kind: KindRecipient, ID: o.RecipientID}}
}

func (o Occasion) RemapRef(kind Kind, oldID, newID string) Entity {
	if kind == KindRecipient && o.RecipientID == oldID {
		o.RecipientID = newID
	}

	return o
}

// WithID returns a copy with the given id
func (o Occasion) WithID(id string) Occasion {
	o.ID = id
	return o
}

// WithTimestamps returns a copy with the given timestamps
func (o Occasion) WithTimestamps(createdAt, updatedAt time.Time) Occasion {
	o.CreatedAt = createdAt
	o.UpdatedAt = updatedAt
	return o
}

// GiftIdea is a gift considered for a recipient, optionally for an occasion
type GiftIdea struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	RecipientID string    `json:"recipientId"`
	OccasionID  *string   `json:"occasionId"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PriceCents  int64     `json:"priceCents"`
	Purchased   bool      `json:"purchased"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (g GiftIdea) EntityKind() Kind       { return KindGiftIdea }
func (g GiftIdea) EntityID() string       { return g.ID }
func (g GiftIdea) EntityOwnerID() string  { return g.OwnerID }
func (g GiftIdea) CreatedTime() time.Time { return g.CreatedAt }

func (g GiftIdea) Refs() []Ref {
	ret := []Ref{{Kind: KindRecipient, ID: g.RecipientID}}
	if g.OccasionID != nil {
		ret = append(ret, Ref{Kind: KindOccasion, ID: *g.OccasionID})
	}

	return ret
}

func (g GiftIdea) RemapRef(kind Kind, oldID, newID string) Entity {
	switch kind {
	case KindRecipient:
		if g.RecipientID == oldID {
			g.RecipientID = newID
		}
	case KindOccasion:
		if g.OccasionID != nil && *g.OccasionID == oldID {
			if newID == "" {
				g.OccasionID = nil
			} else {
				id := newID
				g.OccasionID = &id
			}
		}
	}

	return g
}

// WithID returns a copy with the given id
func (g GiftIdea) WithID(id string) GiftIdea {
	g.ID = id
	return g
}

// WithTimestamps returns a copy with the given timestamps
func (g GiftIdea) WithTimestamps(createdAt, updatedAt time.Time) GiftIdea {
	g.CreatedAt = createdAt
	g.UpdatedAt = updatedAt
	return g
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// Rekey returns a copy of the entity with the given id
func Rekey(e Entity, id string) Entity {
	switch v := e.(type) {
	case Recipient:
		return v.WithID(id)
	case Occasion:
		return v.WithID(id)
	case GiftIdea:
		return v.WithID(id)
	}

	return e
}
