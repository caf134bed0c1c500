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
	"fmt"
	"net/http"
	"net/url"

	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/pkg/errors"
)

// Remote is the kind-independent interface of a Resource
type Remote interface {
	Kind() database.Kind
	ListEntities(ctx context.GiftCtx, ownerID string) ([]database.Entity, error)
	CreateEntity(ctx context.GiftCtx, e database.Entity) (database.Entity, error)
	UpdateEntity(ctx context.GiftCtx, e database.Entity) (database.Entity, error)
	Delete(ctx context.GiftCtx, id string) error
}

// Resource is the remote collection of the entities of one kind
type Resource[E database.Record[E]] struct {
	kind database.Kind
	path string
}

// Recipients is the remote recipients collection
var Recipients = &Resource[database.Recipient]{kind: database.KindRecipient, path: "/v1/recipients"}

// Occasions is the remote occasions collection
var Occasions = &Resource[database.Occasion]{kind: database.KindOccasion, path: "/v1/occasions"}

// GiftIdeas is the remote gift ideas collection
var GiftIdeas = &Resource[database.GiftIdea]{kind: database.KindGiftIdea, path: "/v1/gift-ideas"}

// RemoteFor returns the remote collection of the given kind
func RemoteFor(kind database.Kind) (Remote, error) {
	switch kind {
	case database.KindRecipient:
		return Recipients, nil
	case database.KindOccasion:
		return Occasions, nil
	case database.KindGiftIdea:
		return GiftIdeas, nil
	}

	return nil, errors.Errorf("unknown entity kind '%s'", kind)
}

// Kind returns the kind of the entities in the collection
func (r *Resource[E]) Kind() database.Kind {
	return r.kind
}

func (r *Resource[E]) itemPath(id string) string {
	return fmt.Sprintf("%s/%s", r.path, url.PathEscape(id))
}

// List returns the authoritative list of the owner's entities
func (r *Resource[E]) List(ctx context.GiftCtx, ownerID string) ([]E, error) {
	v := url.Values{}
	v.Set("ownerId", ownerID)

	var ret []E
	if err := doAuthorizedReq(ctx, http.MethodGet, fmt.Sprintf("%s?%s", r.path, v.Encode()), nil, &ret); err != nil {
		return nil, errors.Wrapf(err, "listing %s", r.kind)
	}

	return ret, nil
}

// Create creates the entity on the remote and returns the canonical entity,
// which may carry a different id
func (r *Resource[E]) Create(ctx context.GiftCtx, e E) (E, error) {
	var ret E
	if err := doAuthorizedReq(ctx, http.MethodPost, r.path, e, &ret); err != nil {
		return ret, errors.Wrapf(err, "creating %s", r.kind)
	}

	return ret, nil
}

// Update replaces the entity on the remote and returns the canonical entity
func (r *Resource[E]) Update(ctx context.GiftCtx, e E) (E, error) {
	var ret E
	if err := doAuthorizedReq(ctx, http.MethodPut, r.itemPath(e.EntityID()), e, &ret); err != nil {
		return ret, errors.Wrapf(err, "updating %s %s", r.kind, e.EntityID())
	}

	return ret, nil
}

// Delete deletes the entity on the remote
func (r *Resource[E]) Delete(ctx context.GiftCtx, id string) error {
	if err := doAuthorizedReq(ctx, http.MethodDelete, r.itemPath(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting %s %s", r.kind, id)
	}

	return nil
}

func (r *Resource[E]) cast(e database.Entity) (E, error) {
	ret, ok := e.(E)
	if !ok {
		return ret, errors.Errorf("expected %s but got %s", r.kind, e.EntityKind())
	}

	return ret, nil
}

// ListEntities implements Remote
func (r *Resource[E]) ListEntities(ctx context.GiftCtx, ownerID string) ([]database.Entity, error) {
	es, err := r.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ret := make([]database.Entity, len(es))
	for i, e := range es {
		ret[i] = e
	}

	return ret, nil
}

// CreateEntity implements Remote
func (r *Resource[E]) CreateEntity(ctx context.GiftCtx, e database.Entity) (database.Entity, error) {
	v, err := r.cast(e)
	if err != nil {
		return nil, err
	}

	created, err := r.Create(ctx, v)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEntity implements Remote
func (r *Resource[E]) UpdateEntity(ctx context.GiftCtx, e database.Entity) (database.Entity, error) {
	v, err := r.cast(e)
	if err != nil {
		return nil, err
	}

	updated, err := r.Update(ctx, v)
	if err != nil {
		return nil, err
	}

	return updated, nil
}
