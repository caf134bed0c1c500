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
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/giftwise/giftwise/pkg/clock"
	"github.com/giftwise/giftwise/pkg/server/app"
	"github.com/giftwise/giftwise/pkg/server/testutils"
)

type testEnv struct {
	app   *app.App
	clock *clock.Mock
	url   string
	key   string
	owner string
}

func setupEnv(t *testing.T) testEnv {
	db := testutils.InitTestDB(t)
	c := clock.NewMock()

	a := app.NewTest()
	a.DB = db
	a.Clock = c

	server := MustNewServer(t, &a)
	t.Cleanup(server.Close)

	owner := testutils.MustUUID(t)
	key := testutils.SetupSession(t, db, owner, c.Now())

	return testEnv{app: &a, clock: c, url: server.URL + "/api", key: key, owner: owner}
}

func TestNewRouter_invalidApp(t *testing.T) {
	a := app.NewTest()

	_, err := NewRouter(&a, RouteConfig{})
	assert.NotEqual(t, err, nil, "error mismatch")
}

func TestHealth(t *testing.T) {
	env := setupEnv(t)

	req := testutils.MakeReq(env.url, "GET", "/health", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")
	assert.Equal(t, res.Header.Get("Content-Type"), "application/json", "content type mismatch")

	body := testutils.DecodeEnvelope(t, res, nil)
	assert.Equal(t, body.Success, true, "success mismatch")
}

func TestNotFound(t *testing.T) {
	env := setupEnv(t)

	testCases := []string{
		"/v1",
		"/v1/foo",
		"/v2/recipients",
		"/v1/recipients/a/b",
	}

	for _, path := range testCases {
		t.Run(path, func(t *testing.T) {
			req := testutils.MakeReq(env.url, "GET", path, "")
			res := testutils.HTTPAuthDo(t, req, env.key)

			assert.StatusCodeEquals(t, res, http.StatusNotFound, "status code mismatch")

			body := testutils.DecodeEnvelope(t, res, nil)
			assert.Equal(t, body.Success, false, "success mismatch")
			assert.Equal(t, body.Error.Code, "NOT_FOUND", "code mismatch")
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := setupEnv(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"PATCH", "/v1/recipients"},
		{"POST", "/v1/recipients/some-id"},
		{"PUT", "/v1/session"},
		{"POST", "/health"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := testutils.MakeReq(env.url, tc.method, tc.path, "")
			res := testutils.HTTPAuthDo(t, req, env.key)

			assert.StatusCodeEquals(t, res, http.StatusMethodNotAllowed, "status code mismatch")
		})
	}
}

func TestAuthRequired(t *testing.T) {
	env := setupEnv(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/v1/session"},
		{"DELETE", "/v1/session"},
		{"GET", "/v1/recipients"},
		{"POST", "/v1/occasions"},
		{"PUT", "/v1/gift-ideas/some-id"},
		{"DELETE", "/v1/gift-ideas/some-id"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := testutils.MakeReq(env.url, tc.method, tc.path, "")
			res := testutils.HTTPAuthDo(t, req, "not-a-session")

			assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
		})
	}
}
