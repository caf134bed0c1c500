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
	"time"

	"github.com/giftwise/giftwise/pkg/server/app"
	"github.com/giftwise/giftwise/pkg/server/context"
	mw "github.com/giftwise/giftwise/pkg/server/middleware"
)

// NewSessions creates a new Sessions controller.
func NewSessions(a *app.App) *Sessions {
	return &Sessions{app: a}
}

// Sessions is a controller for the session of the request
type Sessions struct {
	app *app.App
}

// SessionResp is the response of the session endpoint
type SessionResp struct {
	OwnerID   string    `json:"ownerId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Show handles GET /v1/session
func (s *Sessions) Show(w http.ResponseWriter, r *http.Request) {
	session := context.Session(r.Context())

	mw.RespondJSON(w, http.StatusOK, SessionResp{
		OwnerID:   session.OwnerID,
		ExpiresAt: session.ExpiresAt,
	})
}

// Delete handles DELETE /v1/session. It revokes the session of the request.
func (s *Sessions) Delete(w http.ResponseWriter, r *http.Request) {
	session := context.Session(r.Context())

	if err := s.app.DeleteSession(session.Key); err != nil {
		handleJSONError(w, err, "deleting the session")
		return
	}

	mw.RespondJSON(w, http.StatusOK, nil)
}
