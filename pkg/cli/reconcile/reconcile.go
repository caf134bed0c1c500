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

// Package reconcile merges the entities listed by the remote into the local store
package reconcile

import (
	"strconv"
	"sync"

	"github.com/giftwise/giftwise/pkg/cli/client"
	"github.com/giftwise/giftwise/pkg/cli/consts"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/state"
	"github.com/pkg/errors"
)

// Result counts the entities merged per kind
type Result map[database.Kind]int

// Reconciler upserts the authoritative entities of an owner. It never deletes
// local rows missing from the remote.
type Reconciler struct {
	ctx  context.GiftCtx
	view *state.View
	lock sync.Locker

	remoteFor func(kind database.Kind) (client.Remote, error)
}

// New returns a reconciler sharing the given lock with the session's
// coordinators and sync processor
func New(ctx context.GiftCtx, view *state.View, lock sync.Locker) *Reconciler {
	return &Reconciler{
		ctx:       ctx,
		view:      view,
		lock:      lock,
		remoteFor: client.RemoteFor,
	}
}

// pending holds the ids of the entities with queued actions, per kind and
// action type
type pending map[database.Kind]map[database.ActionType]map[string]bool

func readPending(db *database.DB) (pending, error) {
	ret := pending{}

	for _, k := range database.Kinds {
		ret[k] = map[database.ActionType]map[string]bool{}

		for _, t := range []database.ActionType{database.ActionCreate, database.ActionUpdate, database.ActionDelete} {
			ids, err := database.PendingIDs(db, k, t)
			if err != nil {
				return nil, err
			}
			ret[k][t] = ids
		}
	}

	return ret, nil
}

func (p pending) has(kind database.Kind, id string, types ...database.ActionType) bool {
	for _, t := range types {
		if p[kind][t][id] {
			return true
		}
	}

	return false
}

// filter returns the entities that can be merged without overwriting a
// queued local change
func (p pending) filter(es []database.Entity) []database.Entity {
	ret := make([]database.Entity, 0, len(es))

	for _, e := range es {
		if p.has(e.EntityKind(), e.EntityID(), database.ActionCreate, database.ActionUpdate, database.ActionDelete) {
			continue
		}

		skip := false
		for _, ref := range e.Refs() {
			if ref.Kind == database.KindRecipient && p.has(ref.Kind, ref.ID, database.ActionDelete) {
				skip = true
				break
			}
			if ref.Kind == database.KindOccasion && p.has(ref.Kind, ref.ID, database.ActionDelete) {
				e = e.RemapRef(ref.Kind, ref.ID, "")
			}
		}
		if skip {
			continue
		}

		ret = append(ret, e)
	}

	return ret
}

// Run fetches the entities of the owner for every kind and merges them
func (r *Reconciler) Run(ownerID string) (Result, error) {
	res := Result{}

	fetched := map[database.Kind][]database.Entity{}
	for _, k := range database.Kinds {
		remote, err := r.remoteFor(k)
		if err != nil {
			return res, err
		}

		es, err := remote.ListEntities(r.ctx, ownerID)
		if err != nil {
			return res, errors.Wrapf(err, "fetching %s", k)
		}
		fetched[k] = es
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	p, err := readPending(r.ctx.DB)
	if err != nil {
		return res, database.NewPersistenceError("reading pending actions", err)
	}

	var merged []database.Entity
	err = r.ctx.DB.WithTx(func(tx *database.DB) error {
		for _, k := range database.Kinds {
			store, err := database.StoreFor(k)
			if err != nil {
				return err
			}

			es := p.filter(fetched[k])
			if err := store.UpsertEntities(tx, es); err != nil {
				return err
			}

			res[k] = len(es)
			merged = append(merged, es...)
		}

		now := r.ctx.Clock.Now().UnixNano()
		return database.UpsertSystem(tx, consts.SystemLastReconcileAt, strconv.FormatInt(now, 10))
	})
	if err != nil {
		return res, database.NewPersistenceError("merging fetched entities", err)
	}

	r.view.PutAll(merged)
	log.Debug("reconciled %d recipients, %d occasions, %d gift ideas\n",
		res[database.KindRecipient], res[database.KindOccasion], res[database.KindGiftIdea])

	return res, nil
}
