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

package middleware

import (
	"net/http"

	"github.com/giftwise/giftwise/pkg/server/app"
	"github.com/giftwise/giftwise/pkg/server/context"
	"github.com/giftwise/giftwise/pkg/server/log"
	"github.com/pkg/errors"
)

// Auth is an authentication middleware. It rejects requests without an unexpired
// session key and puts the session of the others in the request context.
func Auth(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := GetCredential(r)
		if err != nil {
			log.WithFields(log.Fields{
				"path": r.URL.Path,
			}).Debug(err.Error())
			RespondUnauthorized(w)
			return
		}
		if key == "" {
			RespondUnauthorized(w)
			return
		}

		session, err := a.FindSession(key)
		if errors.Is(err, app.ErrSessionNotFound) {
			RespondUnauthorized(w)
			return
		} else if err != nil {
			DoError(w, "authenticating with session", err, http.StatusInternalServerError)
			return
		}

		ctx := context.WithSession(r.Context(), &session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
