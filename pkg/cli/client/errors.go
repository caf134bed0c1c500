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

package client

import (
	"net"
	"net/http"

	"github.com/pkg/errors"
)

func asHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}

	return nil, false
}

// StatusCode returns the HTTP status of the response the error came from,
// or 0 if the error did not come from a response
func StatusCode(err error) int {
	if httpErr, ok := asHTTPError(err); ok {
		return httpErr.StatusCode
	}

	return 0
}

// IsNotFound reports whether the remote no longer has the entity
func IsNotFound(err error) bool {
	httpErr, ok := asHTTPError(err)
	return ok && httpErr.IsNotFound()
}

// IsConflict reports whether the remote rejected the change as conflicting
// with a newer version
func IsConflict(err error) bool {
	httpErr, ok := asHTTPError(err)
	return ok && httpErr.IsConflict()
}

// IsUnauthorized reports whether the session was rejected
func IsUnauthorized(err error) bool {
	if errors.Cause(err) == ErrNoSession {
		return true
	}

	httpErr, ok := asHTTPError(err)
	return ok && (httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden)
}

// IsTransient reports whether the call may succeed if retried: the request
// timed out, the network failed, or the server was unavailable or throttling
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if httpErr, ok := asHTTPError(err); ok {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode == http.StatusRequestTimeout
	}

	if errors.Cause(err) == ErrContentTypeMismatch {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// IsRejection reports whether the remote refused the request for a reason
// that retrying cannot fix
func IsRejection(err error) bool {
	httpErr, ok := asHTTPError(err)
	if !ok {
		return false
	}

	code := httpErr.StatusCode
	return code >= 400 && code < 500 && !httpErr.IsNotFound() && !httpErr.IsConflict() && !IsUnauthorized(err) && !IsTransient(err)
}
