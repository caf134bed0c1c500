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

package testutils

import (
	"testing"

	"github.com/giftwise/giftwise/pkg/cli/database"
)

// SetupFamily stores two recipients, an occasion of the first and gift ideas
// for both, one of them planned for the occasion of the other recipient
func SetupFamily(t *testing.T, db *database.DB, ownerID string) {
	database.MustExec(t, "setting up recipient 1", db, "INSERT INTO recipients (id, owner_id, name, relationship, birthday, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		"r1", ownerID, "Jane Smith", "Sister", "1990-04-02", "", 1515199943000000000, 1515199943000000000)
	database.MustExec(t, "setting up recipient 2", db, "INSERT INTO recipients (id, owner_id, name, relationship, birthday, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		"r2", ownerID, "John Smith", "Brother", "", "", 1515199951000000000, 1515199951000000000)

	database.MustExec(t, "setting up occasion 1", db, "INSERT INTO occasions (id, owner_id, recipient_id, name, date, recurring, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		"o1", ownerID, "r1", "Birthday", "2025-04-02", true, "", 1515199961000000000, 1515199961000000000)

	database.MustExec(t, "setting up gift idea 1", db, "INSERT INTO gift_ideas (id, owner_id, recipient_id, occasion_id, title, url, price_cents, purchased, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		"g1", ownerID, "r1", "o1", "Desk lamp", "", 4599, false, "", 1515199971000000000, 1515199971000000000)
	database.MustExec(t, "setting up gift idea 2", db, "INSERT INTO gift_ideas (id, owner_id, recipient_id, occasion_id, title, url, price_cents, purchased, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		"g2", ownerID, "r2", "o1", "Card game", "", 1500, false, "", 1515199981000000000, 1515199981000000000)
	database.MustExec(t, "setting up gift idea 3", db, "INSERT INTO gift_ideas (id, owner_id, recipient_id, occasion_id, title, url, price_cents, purchased, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		"g3", ownerID, "r2", nil, "Book", "", 2000, true, "", 1515199991000000000, 1515199991000000000)
}
