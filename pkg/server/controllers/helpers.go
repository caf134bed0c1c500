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
	"encoding/json"
	"net/http"

	"github.com/giftwise/giftwise/pkg/server/app"
	mw "github.com/giftwise/giftwise/pkg/server/middleware"
	"github.com/pkg/errors"
)

// maxBodyBytes bounds the size of a request body
const maxBodyBytes = 1 << 20

// parseRequestData decodes the JSON body of the request into dest
func parseRequestData(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decoding payload")
	}

	return nil
}

// handleJSONError responds with the status and the code of the given error
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	cause := errors.Cause(err)

	switch {
	case cause == app.ErrNotFound:
		mw.RespondNotFound(w)
	case cause == app.ErrConflict:
		mw.RespondError(w, http.StatusConflict, mw.CodeConflict, cause.Error())
	case app.IsValidation(err):
		mw.RespondError(w, http.StatusBadRequest, mw.CodeInvalidInput, err.Error())
	default:
		mw.DoError(w, msg, err, http.StatusInternalServerError)
	}
}
