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

	"github.com/giftwise/giftwise/pkg/server/context"
	mw "github.com/giftwise/giftwise/pkg/server/middleware"
	"github.com/gorilla/mux"
)

// Resource is the controller of the collection of one entity kind
type Resource[M any] struct {
	name   string
	list   func(ownerID string) ([]M, error)
	create func(ownerID string, m M) (M, error)
	update func(ownerID, id string, m M) (M, error)
	remove func(ownerID, id string) error
}

// Index handles GET /v1/{collection}?ownerId=. The owner defaults to the
// owner of the session and cannot be another one.
func (c *Resource[M]) Index(w http.ResponseWriter, r *http.Request) {
	ownerID := context.OwnerID(r.Context())

	if q := r.URL.Query().Get("ownerId"); q != "" && q != ownerID {
		mw.RespondError(w, http.StatusForbidden, mw.CodeForbidden, "cannot list the entities of another owner")
		return
	}

	ret, err := c.list(ownerID)
	if err != nil {
		handleJSONError(w, err, "listing "+c.name+"s")
		return
	}

	mw.RespondJSON(w, http.StatusOK, ret)
}

// Create handles POST /v1/{collection}
func (c *Resource[M]) Create(w http.ResponseWriter, r *http.Request) {
	var m M
	if err := parseRequestData(w, r, &m); err != nil {
		mw.RespondError(w, http.StatusBadRequest, mw.CodeBadRequest, err.Error())
		return
	}

	ret, err := c.create(context.OwnerID(r.Context()), m)
	if err != nil {
		handleJSONError(w, err, "creating a "+c.name)
		return
	}

	mw.RespondJSON(w, http.StatusCreated, ret)
}

// Update handles PUT /v1/{collection}/{id}
func (c *Resource[M]) Update(w http.ResponseWriter, r *http.Request) {
	var m M
	if err := parseRequestData(w, r, &m); err != nil {
		mw.RespondError(w, http.StatusBadRequest, mw.CodeBadRequest, err.Error())
		return
	}

	ret, err := c.update(context.OwnerID(r.Context()), mux.Vars(r)["id"], m)
	if err != nil {
		handleJSONError(w, err, "updating a "+c.name)
		return
	}

	mw.RespondJSON(w, http.StatusOK, ret)
}

// Delete handles DELETE /v1/{collection}/{id}
func (c *Resource[M]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.remove(context.OwnerID(r.Context()), mux.Vars(r)["id"]); err != nil {
		handleJSONError(w, err, "deleting a "+c.name)
		return
	}

	mw.RespondJSON(w, http.StatusOK, nil)
}
