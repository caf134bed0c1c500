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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/pkg/errors"
)

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func newTestCtx(t *testing.T, handler http.HandlerFunc) context.GiftCtx {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return context.GiftCtx{
		APIEndpoint:    ts.URL,
		SessionKey:     "test-session",
		Version:        "test",
		RequestTimeout: time.Second,
		HTTPClient:     NewRateLimitedHTTPClient(time.Second),
	}
}

func TestResourceCreate(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody database.Recipient

	ctx := newTestCtx(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatal(errors.Wrap(err, "decoding request"))
		}

		respond(w, http.StatusCreated, `{"success":true,"data":{"id":"server-1","ownerId":"owner-1","name":"Ana"}}`)
	})

	created, err := Recipients.Create(ctx, database.Recipient{ID: "temp-1", OwnerID: "owner-1", Name: "Ana"})
	assert.Equal(t, err, nil, "creating")

	assert.Equal(t, gotMethod, http.MethodPost, "method mismatch")
	assert.Equal(t, gotPath, "/v1/recipients", "path mismatch")
	assert.Equal(t, gotAuth, "Bearer test-session", "authorization mismatch")
	assert.Equal(t, gotBody.ID, "temp-1", "request body mismatch")
	assert.Equal(t, created.ID, "server-1", "canonical id mismatch")
	assert.Equal(t, created.Name, "Ana", "canonical name mismatch")
}

func TestResourceUpdateDeleteList(t *testing.T) {
	var paths []string

	ctx := newTestCtx(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.RequestURI())

		switch r.Method {
		case http.MethodGet:
			respond(w, http.StatusOK, `{"success":true,"data":[{"id":"g1","recipientId":"r1","occasionId":null,"title":"Lamp"}]}`)
		case http.MethodPut:
			respond(w, http.StatusOK, `{"success":true,"data":{"id":"g1","recipientId":"r1","title":"Desk lamp"}}`)
		case http.MethodDelete:
			respond(w, http.StatusOK, `{"success":true}`)
		}
	})

	list, err := GiftIdeas.List(ctx, "owner-1")
	assert.Equal(t, err, nil, "listing")
	assert.Equal(t, len(list), 1, "list length mismatch")
	assert.Equal(t, list[0].OccasionID == nil, true, "occasion should be null")

	updated, err := GiftIdeas.Update(ctx, database.GiftIdea{ID: "g1", RecipientID: "r1", Title: "Desk lamp"})
	assert.Equal(t, err, nil, "updating")
	assert.Equal(t, updated.Title, "Desk lamp", "title mismatch")

	assert.Equal(t, GiftIdeas.Delete(ctx, "g1"), nil, "deleting")

	assert.DeepEqual(t, paths, []string{
		"GET /v1/gift-ideas?ownerId=owner-1",
		"PUT /v1/gift-ideas/g1",
		"DELETE /v1/gift-ideas/g1",
	}, "requests mismatch")
}

func TestErrorClassification(t *testing.T) {
	testCases := []struct {
		name         string
		status       int
		body         string
		contentType  string
		notFound     bool
		conflict     bool
		unauthorized bool
		transient    bool
		rejection    bool
	}{
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     `{"success":false,"error":{"code":"NOT_FOUND","message":"no such recipient"}}`,
			notFound: true,
		},
		{
			name:     "conflict",
			status:   http.StatusConflict,
			body:     `{"success":false,"error":{"code":"CONFLICT","message":"stale"}}`,
			conflict: true,
		},
		{
			name:         "unauthorized",
			status:       http.StatusUnauthorized,
			body:         `{"success":false,"error":{"code":"UNAUTHORIZED","message":"bad session"}}`,
			unauthorized: true,
		},
		{
			name:      "server error",
			status:    http.StatusServiceUnavailable,
			body:      `{"success":false,"error":{"code":"UNAVAILABLE","message":"maintenance"}}`,
			transient: true,
		},
		{
			name:      "throttled",
			status:    http.StatusTooManyRequests,
			body:      `{"success":false}`,
			transient: true,
		},
		{
			name:      "validation",
			status:    http.StatusUnprocessableEntity,
			body:      `{"success":false,"error":{"code":"VALIDATION","message":"name is required"}}`,
			rejection: true,
		},
		{
			name:      "unsuccessful envelope",
			status:    http.StatusOK,
			body:      `{"success":false,"error":{"code":"VALIDATION","message":"bad"}}`,
			rejection: false,
		},
		{
			name:        "html from a proxy",
			status:      http.StatusOK,
			body:        `<html></html>`,
			contentType: "text/html",
			transient:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newTestCtx(t, func(w http.ResponseWriter, r *http.Request) {
				ct := tc.contentType
				if ct == "" {
					ct = "application/json"
				}
				w.Header().Set("Content-Type", ct)
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			})

			err := Recipients.Delete(ctx, "r1")
			assert.NotEqual(t, err, nil, "expected an error")

			assert.Equal(t, IsNotFound(err), tc.notFound, "IsNotFound mismatch")
			assert.Equal(t, IsConflict(err), tc.conflict, "IsConflict mismatch")
			assert.Equal(t, IsUnauthorized(err), tc.unauthorized, "IsUnauthorized mismatch")
			assert.Equal(t, IsTransient(err), tc.transient, "IsTransient mismatch")
			assert.Equal(t, IsRejection(err), tc.rejection, "IsRejection mismatch")
		})
	}
}

func TestHTTPErrorFields(t *testing.T) {
	ctx := newTestCtx(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusBadRequest, `{"success":false,"error":{"code":"VALIDATION","message":"title is required","details":{"field":"title"}}}`)
	})

	_, err := GiftIdeas.Create(ctx, database.GiftIdea{ID: "g1"})

	var httpErr *HTTPError
	assert.Equal(t, errors.As(err, &httpErr), true, "expected an HTTPError")
	assert.Equal(t, httpErr.StatusCode, http.StatusBadRequest, "status mismatch")
	assert.Equal(t, httpErr.Code, "VALIDATION", "code mismatch")
	assert.Equal(t, httpErr.Message, "title is required", "message mismatch")
	assert.Equal(t, StatusCode(err), http.StatusBadRequest, "StatusCode mismatch")
}

func TestNetworkErrorIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := ts.URL
	ts.Close()

	ctx := context.GiftCtx{APIEndpoint: endpoint, SessionKey: "k", HTTPClient: NewRateLimitedHTTPClient(time.Second)}

	err := Recipients.Delete(ctx, "r1")
	assert.NotEqual(t, err, nil, "expected an error")
	assert.Equal(t, IsTransient(err), true, "connection failure should be transient")
	assert.Equal(t, StatusCode(err), 0, "no status expected")
}

func TestTimeoutIsTransient(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer ts.Close()
	defer close(block)

	ctx := context.GiftCtx{APIEndpoint: ts.URL, SessionKey: "k", HTTPClient: NewRateLimitedHTTPClient(50 * time.Millisecond)}

	_, err := Occasions.List(ctx, "owner-1")
	assert.Equal(t, IsTransient(err), true, "timeout should be transient")
}

func TestNoSession(t *testing.T) {
	ctx := context.GiftCtx{APIEndpoint: "http://127.0.0.1:1"}

	err := Recipients.Delete(ctx, "r1")
	assert.Equal(t, errors.Cause(err), ErrNoSession, "error mismatch")
	assert.Equal(t, IsUnauthorized(err), true, "missing session should be unauthorized")
}

func TestCheckHealth(t *testing.T) {
	ctx := newTestCtx(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/health", "path mismatch")
		respond(w, http.StatusOK, `{"success":true}`)
	})

	assert.Equal(t, CheckHealth(ctx), nil, "health check should pass")
}
