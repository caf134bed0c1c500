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
	"net/http"

	"github.com/giftwise/giftwise/pkg/server/app"
	mw "github.com/giftwise/giftwise/pkg/server/middleware"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// NewHealth creates a new Health controller.
func NewHealth(a *app.App) *Health {
	return &Health{db: a.DB}
}

// Health is a health controller.
type Health struct {
	db *gorm.DB
}

// Index handles GET /health. It fails while the database cannot be reached.
func (h *Health) Index(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		mw.DoError(w, "pinging the database", errors.Wrap(err, "health check"), http.StatusServiceUnavailable)
		return
	}

	mw.RespondJSON(w, http.StatusOK, nil)
}
