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

package controllers

import (
	"github.com/giftwise/giftwise/pkg/server/app"
	"github.com/giftwise/giftwise/pkg/server/database"
)

// Controllers is a group of controllers
type Controllers struct {
	Health     *Health
	Sessions   *Sessions
	Recipients *Resource[database.Recipient]
	Occasions  *Resource[database.Occasion]
	GiftIdeas  *Resource[database.GiftIdea]
}

// New returns a new group of controllers
func New(a *app.App) *Controllers {
	return &Controllers{
		Health:   NewHealth(a),
		Sessions: NewSessions(a),
		Recipients: &Resource[database.Recipient]{
			name:   "recipient",
			list:   a.ListRecipients,
			create: a.CreateRecipient,
			update: a.UpdateRecipient,
			remove: a.DeleteRecipient,
		},
		Occasions: &Resource[database.Occasion]{
			name:   "occasion",
			list:   a.ListOccasions,
			create: a.CreateOccasion,
			update: a.UpdateOccasion,
			remove: a.DeleteOccasion,
		},
		GiftIdeas: &Resource[database.GiftIdea]{
			name:   "gift idea",
			list:   a.ListGiftIdeas,
			create: a.CreateGiftIdea,
			update: a.UpdateGiftIdea,
			remove: a.DeleteGiftIdea,
		},
	}
}
