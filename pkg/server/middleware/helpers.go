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
	"encoding/json"
	"net/http"
	"strings"

	"github.com/giftwise/giftwise/pkg/server/log"
	"github.com/pkg/errors"
)

// Error codes of the API responses
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL"
)

// ErrMalformedAuthHeader is an error for an Authorization header that is not a bearer token
var ErrMalformedAuthHeader = errors.New("malformed Authorization header")

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool           `json:"success"`
	Data    interface{}    `json:"data,omitempty"`
	Error   *envelopeError `json:"error,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.ErrorWrap(err, "encoding the response")
	}
}

// RespondJSON writes a successful response carrying the data
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

// RespondError writes an unsuccessful response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, envelope{
		Success: false,
		Error:   &envelopeError{Code: code, Message: message},
	})
}

// RespondUnauthorized responds with unauthorized
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Bearer realm="Giftwise API"`)
	RespondError(w, http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
}

// RespondNotFound responds with not found
func RespondNotFound(w http.ResponseWriter) {
	RespondError(w, http.StatusNotFound, CodeNotFound, "not found")
}

// DoError logs the error and responds with the given status code
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	if err != nil {
		log.WithFields(log.Fields{
			"status": statusCode,
		}).ErrorWrap(err, msg)
	}

	RespondError(w, statusCode, CodeInternal, http.StatusText(statusCode))
}

// getSessionKeyFromAuth reads the bearer token of the Authorization header
func getSessionKeyFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMalformedAuthHeader
	}

	return strings.TrimSpace(token), nil
}

// GetCredential extracts a session key from the request
func GetCredential(r *http.Request) (string, error) {
	key, err := getSessionKeyFromAuth(r)
	if err != nil {
		return "", errors.Wrap(err, "getting session key from Authorization header")
	}

	return key, nil
}
