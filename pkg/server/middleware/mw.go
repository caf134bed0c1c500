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
	"time"

	"github.com/giftwise/giftwise/pkg/server/app"
	"github.com/giftwise/giftwise/pkg/server/config"
	"github.com/giftwise/giftwise/pkg/server/log"
	"github.com/pkg/errors"
)

// Middleware wraps the handler of a route
type Middleware func(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler

// APIMw is the middleware of the API routes
func APIMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(h, rateLimit && a.AppEnv != config.AppEnvTest)
}

// Global is the middleware applied to every request
func Global(h http.Handler) http.Handler {
	return logging(recoverer(h))
}

// NotFound responds with not found for the unmatched routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	RespondNotFound(w)
}

// MethodNotAllowed responds to a known route requested with another method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	RespondError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
			"version":  r.Header.Get("Giftwise-Version"),
		}).Info("request")
	})
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				DoError(w, "recovering from a panic", errors.Errorf("%v", v), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
