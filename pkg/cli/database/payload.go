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
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrInvalidPayload is an error for a pending action payload that cannot be decoded
var ErrInvalidPayload = errors.New("invalid payload")

// EncodePayload serializes the entity for a pending action
func EncodePayload(e Entity) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", errors.Wrapf(err, "encoding %s %s", e.EntityKind(), e.EntityID())
	}

	return string(b), nil
}

func decode[E Entity](payload string) (Entity, error) {
	var e E
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return nil, errors.Wrapf(ErrInvalidPayload, "decoding %T: %s", e, err)
	}
	if e.EntityID() == "" {
		return nil, errors.Wrapf(ErrInvalidPayload, "%T without an id", e)
	}

	return e, nil
}

// DecodePayload deserializes the payload of a pending action into an
// entity of the given kind. The concrete type of the result is Recipient,
// Occasion or GiftIdea.
func DecodePayload(kind Kind, payload string) (Entity, error) {
	switch kind {
	case KindRecipient:
		return decode[Recipient](payload)
	case KindOccasion:
		return decode[Occasion](payload)
	case KindGiftIdea:
		return decode[GiftIdea](payload)
	}

	return nil, errors.Wrapf(ErrInvalidPayload, "unknown entity kind '%s'", kind)
}
