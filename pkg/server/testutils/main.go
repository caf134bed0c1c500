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

// Package testutils provides utilities used in tests
package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/giftwise/giftwise/pkg/server/database"
	"github.com/giftwise/giftwise/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// InitDB opens a database at the given path and initializes the schema
func InitDB(dbPath string) *gorm.DB {
	db, err := database.Open(database.Params{Path: dbPath})
	if err != nil {
		panic(errors.Wrap(err, "opening the test database"))
	}

	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		panic(errors.Wrap(err, "migrating the test database"))
	}

	return db
}

// InitTestDB creates a database in a temporary directory of the test with
// the schema initialized. It is closed when the test ends.
func InitTestDB(t *testing.T) *gorm.DB {
	db := InitDB(filepath.Join(t.TempDir(), "server.db"))
	t.Cleanup(func() {
		database.Close(db)
	})

	return db
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}
	return uuid
}

// SetupSession stores a session for the owner that expires in a day and
// returns its key
func SetupSession(t *testing.T, db *gorm.DB, ownerID string, now time.Time) string {
	key, err := helpers.GenRandom(32)
	if err != nil {
		t.Fatal(errors.Wrap(err, "generating a session key"))
	}

	session := database.Session{
		Key:        key,
		OwnerID:    ownerID,
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(24 * time.Hour),
	}
	MustExec(t, db.Create(&session), "preparing session")

	return key
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}
	t.Cleanup(func() {
		res.Body.Close()
	})

	return res
}

// HTTPAuthDo makes an HTTP request with the session key as a bearer token
func HTTPAuthDo(t *testing.T, req *http.Request, sessionKey string) *http.Response {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", sessionKey))

	return HTTPDo(t, req)
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))
	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}
	if data != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

// Envelope is the decoded body of an API response
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DecodeEnvelope decodes the response body and, if dest is not nil, the
// data of the envelope into dest
func DecodeEnvelope(t *testing.T, res *http.Response, dest interface{}) Envelope {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading the response body"))
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatal(errors.Wrapf(err, "decoding the response body %q", string(body)))
	}

	if dest != nil {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			t.Fatal(errors.Wrapf(err, "decoding the data %q", string(env.Data)))
		}
	}

	return env
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}

// StrPtr returns a pointer to the string
func StrPtr(s string) *string {
	return &s
}
