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
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is an error for an entity that does not exist or belongs
	// to another owner
	ErrNotFound = errors.New("not found")
	// ErrConflict is an error for an update older than the stored entity
	ErrConflict = errors.New("the stored entity is newer")
	// ErrInvalidReference is an error for a reference to an entity the owner does not have
	ErrInvalidReference = errors.New("referenced entity does not exist")
	// ErrNameRequired is an error for a recipient or an occasion without a name
	ErrNameRequired = errors.New("name is required")
	// ErrTitleRequired is an error for a gift idea without a title
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidPrice is an error for a negative price
	ErrInvalidPrice = errors.New("price cannot be negative")
	// ErrOwnerRequired is an error for a session requested without an owner
	ErrOwnerRequired = errors.New("owner id is required")
	// ErrSessionNotFound is an error for an unknown or expired session key
	ErrSessionNotFound = errors.New("session not found")
)

// IsValidation reports whether the error is caused by invalid input
func IsValidation(err error) bool {
	switch errors.Cause(err) {
	case ErrInvalidReference, ErrNameRequired, ErrTitleRequired, ErrInvalidPrice, ErrOwnerRequired:
		return true
	}

	return false
}
