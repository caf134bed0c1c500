/* Copyright (C) 2025 Giftwise Authors
 *
 * This file is part of Giftwise.
 *
 * Giftwise is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Giftwise is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with Giftwise.  If not, see <https://www.gnu.org/licenses/>.
 */

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/giftwise/giftwise/pkg/clock"
	"github.com/giftwise/giftwise/pkg/server/app"
	"github.com/giftwise/giftwise/pkg/server/context"
	"github.com/giftwise/giftwise/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestAuth(t *testing.T) {
	db := testutils.InitTestDB(t)
	c := clock.NewMock()

	a := app.NewTest()
	a.DB = db
	a.Clock = c

	session, err := a.CreateSession("owner-1")
	if err != nil {
		t.Fatal(errors.Wrap(err, "preparing session"))
	}
	expired := testutils.SetupSession(t, db, "owner-1", c.Now().Add(-48*time.Hour))

	handler := func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, http.StatusOK, map[string]string{"ownerId": context.OwnerID(r.Context())})
	}

	server := httptest.NewServer(Auth(&a, handler))
	defer server.Close()

	t.Run("valid session", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPAuthDo(t, req, session.Key)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var got map[string]string
		testutils.DecodeEnvelope(t, res, &got)
		assert.Equal(t, got["ownerId"], "owner-1", "owner mismatch")
	})

	t.Run("expired session", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPAuthDo(t, req, expired)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})

	t.Run("unknown session", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPAuthDo(t, req, "someInvalidSessionKey=")

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")

		env := testutils.DecodeEnvelope(t, res, nil)
		assert.Equal(t, env.Success, false, "success mismatch")
		assert.Equal(t, env.Error.Code, CodeUnauthorized, "code mismatch")
	})

	t.Run("malformed header", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "InvalidFormat")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})

	t.Run("no auth", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
		assert.NotEqual(t, res.Header.Get("WWW-Authenticate"), "", "challenge header should be set")
	})
}

func TestGetCredential(t *testing.T) {
	testCases := []struct {
		header      string
		expected    string
		expectedErr error
	}{
		{header: "", expected: ""},
		{header: "Bearer foo", expected: "foo"},
		{header: "bearer bar", expected: "bar"},
		{header: "Basic Zm9vOmJhcg==", expectedErr: ErrMalformedAuthHeader},
		{header: "InvalidFormat", expectedErr: ErrMalformedAuthHeader},
	}

	for _, tc := range testCases {
		t.Run(tc.header, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			got, err := GetCredential(r)
			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func TestGlobal(t *testing.T) {
	t.Run("recovers from panics", func(t *testing.T) {
		h := Global(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/recipients", nil))

		assert.Equal(t, w.Code, http.StatusInternalServerError, "status code mismatch")
	})

	t.Run("passes through", func(t *testing.T) {
		h := Global(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			RespondJSON(w, http.StatusCreated, nil)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/recipients", nil))

		assert.Equal(t, w.Code, http.StatusCreated, "status code mismatch")
		assert.Equal(t, w.Body.String(), "{\"success\":true}\n", "body mismatch")
	})
}

func TestAPIMw_testEnvSkipsLimit(t *testing.T) {
	a := app.NewTest()
	calls := 0
	h := APIMw(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}, &a, true)

	for i := 0; i < serverRateLimitBurst+5; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/recipients", nil))
		assert.Equal(t, w.Code, http.StatusOK, "status code mismatch")
	}

	assert.Equal(t, calls, serverRateLimitBurst+5, "every request should reach the handler")
}
