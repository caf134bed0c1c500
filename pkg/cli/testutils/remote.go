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

package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// Collection paths served by the fake remote
const (
	PathRecipients = "recipients"
	PathOccasions  = "occasions"
	PathGiftIdeas  = "gift-ideas"
)

type failure struct {
	method string
	prefix string
	status int
	times  int
}

// FakeRemote is an in-memory implementation of the remote API served over HTTP
type FakeRemote struct {
	Server     *httptest.Server
	SessionKey string
	OwnerID    string

	mu       sync.Mutex
	items    map[string]map[string]map[string]interface{}
	nextID   int
	down     bool
	failures []*failure
	requests []string
}

// NewFakeRemote starts a fake remote. It is closed when the test ends.
func NewFakeRemote(t interface{ Cleanup(func()) }, sessionKey, ownerID string) *FakeRemote {
	f := &FakeRemote{
		SessionKey: sessionKey,
		OwnerID:    ownerID,
		items: map[string]map[string]map[string]interface{}{
			PathRecipients: {},
			PathOccasions:  {},
			PathGiftIdeas:  {},
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", f.health).Methods(http.MethodGet)
	r.HandleFunc("/v1/session", f.session).Methods(http.MethodGet)
	r.HandleFunc("/v1/{collection}", f.list).Methods(http.MethodGet)
	r.HandleFunc("/v1/{collection}", f.create).Methods(http.MethodPost)
	r.HandleFunc("/v1/{collection}/{id}", f.update).Methods(http.MethodPut)
	r.HandleFunc("/v1/{collection}/{id}", f.delete).Methods(http.MethodDelete)

	f.Server = httptest.NewServer(f.intercept(r))
	t.Cleanup(f.Server.Close)

	return f
}

// URL returns the API endpoint of the fake remote
func (f *FakeRemote) URL() string {
	return f.Server.URL
}

// SetDown makes every request fail with 503 while down is true
func (f *FakeRemote) SetDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.down = down
}

// Fail makes the next n requests with the method and a path starting with
// prefix fail with the status
func (f *FakeRemote) Fail(method, prefix string, status, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failures = append(f.failures, &failure{method: method, prefix: prefix, status: status, times: n})
}

// Requests returns "METHOD PATH" for every request received, except health checks
func (f *FakeRemote) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string{}, f.requests...)
}

// Put stores the item in the collection as if another session created it
func (f *FakeRemote) Put(collection string, item interface{}) {
	b, err := json.Marshal(item)
	if err != nil {
		panic(err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items[collection][m["id"].(string)] = m
}

// Get returns the item with the id in the collection
func (f *FakeRemote) Get(collection, id string) (map[string]interface{}, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.items[collection][id]
	return m, ok
}

// Count returns the number of items in the collection
func (f *FakeRemote) Count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.items[collection])
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := map[string]interface{}{"success": status < 300}
	if status < 300 {
		if data != nil {
			body["data"] = data
		}
	} else {
		body["error"] = map[string]interface{}{
			"code":    strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_")),
			"message": http.StatusText(status),
		}
	}

	json.NewEncoder(w).Encode(body)
}

func (f *FakeRemote) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		if r.URL.Path != "/health" {
			f.requests = append(f.requests, fmt.Sprintf("%s %s", r.Method, r.URL.Path))
		}

		status := 0
		if f.down {
			status = http.StatusServiceUnavailable
		} else {
			for _, fl := range f.failures {
				if fl.times > 0 && fl.method == r.Method && strings.HasPrefix(r.URL.Path, fl.prefix) {
					fl.times--
					status = fl.status
					break
				}
			}
		}
		f.mu.Unlock()

		if status != 0 {
			respond(w, status, nil)
			return
		}

		if r.URL.Path != "/health" && f.SessionKey != "" && r.Header.Get("Authorization") != "Bearer "+f.SessionKey {
			respond(w, http.StatusUnauthorized, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (f *FakeRemote) collection(w http.ResponseWriter, r *http.Request) (map[string]map[string]interface{}, bool) {
	items, ok := f.items[mux.Vars(r)["collection"]]
	if !ok {
		respond(w, http.StatusNotFound, nil)
	}

	return items, ok
}

func (f *FakeRemote) health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, nil)
}

func (f *FakeRemote) session(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"ownerId": f.OwnerID})
}

func (f *FakeRemote) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, ok := f.collection(w, r)
	if !ok {
		return
	}

	ownerID := r.URL.Query().Get("ownerId")
	ret := []map[string]interface{}{}
	for _, m := range items {
		if ownerID == "" || m["ownerId"] == ownerID {
			ret = append(ret, m)
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i]["id"].(string) < ret[j]["id"].(string)
	})

	respond(w, http.StatusOK, ret)
}

func (f *FakeRemote) create(w http.ResponseWriter, r *http.Request) {
	var m map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respond(w, http.StatusBadRequest, nil)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	items, ok := f.collection(w, r)
	if !ok {
		return
	}

	f.nextID++
	m["id"] = fmt.Sprintf("srv-%d", f.nextID)
	items[m["id"].(string)] = m

	respond(w, http.StatusCreated, m)
}

func (f *FakeRemote) update(w http.ResponseWriter, r *http.Request) {
	var m map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respond(w, http.StatusBadRequest, nil)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	items, ok := f.collection(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if _, ok := items[id]; !ok {
		respond(w, http.StatusNotFound, nil)
		return
	}

	m["id"] = id
	items[id] = m

	respond(w, http.StatusOK, m)
}

func (f *FakeRemote) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	collection := mux.Vars(r)["collection"]
	items, ok := f.collection(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if _, ok := items[id]; !ok {
		respond(w, http.StatusNotFound, nil)
		return
	}
	delete(items, id)

	switch collection {
	case PathRecipients:
		occasions := map[interface{}]bool{}
		for childID, m := range f.items[PathOccasions] {
			if m["recipientId"] == id {
				occasions[childID] = true
				delete(f.items[PathOccasions], childID)
			}
		}
		for childID, m := range f.items[PathGiftIdeas] {
			if m["recipientId"] == id {
				delete(f.items[PathGiftIdeas], childID)
			} else if occasions[m["occasionId"]] {
				m["occasionId"] = nil
			}
		}
	case PathOccasions:
		for _, m := range f.items[PathGiftIdeas] {
			if m["occasionId"] == id {
				m["occasionId"] = nil
			}
		}
	}

	respond(w, http.StatusOK, nil)
}
