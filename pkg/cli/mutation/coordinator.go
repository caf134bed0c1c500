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

// Package mutation applies user mutations optimistically to the local store
// and forwards them to the remote, or queues them when it is unreachable
package mutation

import (
	"sync"

	"github.com/giftwise/giftwise/pkg/cli/client"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/state"
	"github.com/giftwise/giftwise/pkg/cli/utils"
	"github.com/pkg/errors"
)

// Remote is the remote collection a Coordinator forwards mutations to
type Remote[E database.Record[E]] interface {
	Create(ctx context.GiftCtx, e E) (E, error)
	Update(ctx context.GiftCtx, e E) (E, error)
	Delete(ctx context.GiftCtx, id string) error
}

// Coordinator performs the mutations of one entity kind
type Coordinator[E database.Record[E]] struct {
	ctx    context.GiftCtx
	table  *database.Table[E]
	remote Remote[E]
	view   *state.View
	lock   sync.Locker

	newID func() (string, error)
}

// New returns a coordinator for the entities stored in the table. The lock
// serializes it with the other coordinators and the sync processor.
func New[E database.Record[E]](ctx context.GiftCtx, table *database.Table[E], remote Remote[E], view *state.View, lock sync.Locker) *Coordinator[E] {
	return &Coordinator[E]{
		ctx:    ctx,
		table:  table,
		remote: remote,
		view:   view,
		lock:   lock,
		newID:  utils.GenerateUUID,
	}
}

// NewRecipients returns the coordinator of recipients
func NewRecipients(ctx context.GiftCtx, view *state.View, lock sync.Locker) *Coordinator[database.Recipient] {
	return New[database.Recipient](ctx, database.Recipients, client.Recipients, view, lock)
}

// NewOccasions returns the coordinator of occasions
func NewOccasions(ctx context.GiftCtx, view *state.View, lock sync.Locker) *Coordinator[database.Occasion] {
	return New[database.Occasion](ctx, database.Occasions, client.Occasions, view, lock)
}

// NewGiftIdeas returns the coordinator of gift ideas
func NewGiftIdeas(ctx context.GiftCtx, view *state.View, lock sync.Locker) *Coordinator[database.GiftIdea] {
	return New[database.GiftIdea](ctx, database.GiftIdeas, client.GiftIdeas, view, lock)
}

func (c *Coordinator[E]) kind() database.Kind {
	return c.table.Kind()
}

// mustQueue reports whether the mutation has to go through the pending log.
// A mutation of an entity that has queued actions, or that references one,
// cannot be sent before those actions reach the remote.
func (c *Coordinator[E]) mustQueue(isOnline bool, id string, refs []database.Ref) (bool, error) {
	if !isOnline || c.ctx.Offline {
		return true, nil
	}

	targets := append([]database.Ref{{Kind: c.kind(), ID: id}}, refs...)
	for _, r := range targets {
		ok, err := database.HasPendingFor(c.ctx.DB, r.Kind, r.ID)
		if err != nil {
			return false, database.NewPersistenceError("checking pending actions", err)
		}
		if ok {
			log.Debug("%s %s waits for pending actions of %s %s\n", c.kind(), id, r.Kind, r.ID)
			return true, nil
		}
	}

	return false, nil
}

// cascadeRefs returns the parents of the deleted entity and every row the
// delete removes or detaches. A delete cannot overtake the queued actions of
// any of them.
func cascadeRefs(cascade database.Cascade) []database.Ref {
	refs := cascade.Removed[0].Refs()
	for _, e := range cascade.Removed[1:] {
		refs = append(refs, database.Ref{Kind: e.EntityKind(), ID: e.EntityID()})
	}
	for _, g := range cascade.Detached {
		refs = append(refs, database.Ref{Kind: database.KindGiftIdea, ID: g.ID})
	}

	return refs
}

func (c *Coordinator[E]) enqueue(tx *database.DB, actionType database.ActionType, id string, e *E) error {
	a := database.PendingAction{
		ActionType: actionType,
		EntityType: c.kind(),
		EntityID:   id,
		Timestamp:  c.ctx.Clock.Now().UnixNano(),
	}

	if e != nil {
		payload, err := database.EncodePayload(*e)
		if err != nil {
			return err
		}
		a.Payload = payload
	}

	if _, err := database.AppendAction(tx, a); err != nil {
		return err
	}

	log.Debug("queued %s %s %s\n", actionType, c.kind(), id)
	return nil
}

// resolve points the entity and its references to the server ids of any
// temporary ids that were already confirmed
func (c *Coordinator[E]) resolve(e E) (E, error) {
	id, err := database.ResolveID(c.ctx.DB, c.kind(), e.EntityID())
	if err != nil {
		return e, database.NewPersistenceError("resolving id", err)
	}
	if id != e.EntityID() {
		e = e.WithID(id)
	}

	resolved, err := database.ResolveRefs(c.ctx.DB, e)
	if err != nil {
		return e, database.NewPersistenceError("resolving references", err)
	}

	return resolved.(E), nil
}

// Create stores a new entity built from data under a temporary id. Online,
// it then creates the entity on the remote and returns the canonical entity,
// or undoes the local write and returns the error. Offline, it queues the
// creation and returns the entity with the temporary id.
func (c *Coordinator[E]) Create(data E, isOnline bool) (E, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var zero E

	tempID, err := c.newID()
	if err != nil {
		return zero, errors.Wrap(err, "generating a temporary id")
	}

	now := c.ctx.Clock.Now().UTC()
	e, err := c.resolve(data.WithID(tempID).WithTimestamps(now, now))
	if err != nil {
		return zero, err
	}

	queue, err := c.mustQueue(isOnline, tempID, e.Refs())
	if err != nil {
		return zero, err
	}

	err = c.ctx.DB.WithTx(func(tx *database.DB) error {
		if err := c.table.Insert(tx, e); err != nil {
			return err
		}
		if queue {
			return c.enqueue(tx, database.ActionCreate, tempID, &e)
		}

		return nil
	})
	if err != nil {
		return zero, database.NewPersistenceError("storing the new entity", err)
	}
	c.view.Put(e)

	if queue {
		return e, nil
	}

	canonical, err := c.remote.Create(c.ctx, e)
	if err != nil {
		if rbErr := c.ctx.DB.WithTx(func(tx *database.DB) error {
			return c.table.Delete(tx, tempID)
		}); rbErr != nil {
			return zero, database.NewPersistenceError("rolling back the new entity", rbErr)
		}
		c.view.Remove(c.kind(), tempID)

		return zero, err
	}

	if err := c.ctx.DB.WithTx(func(tx *database.DB) error {
		return c.table.Replace(tx, tempID, canonical)
	}); err != nil {
		return zero, database.NewPersistenceError("storing the created entity", err)
	}
	c.view.Replace(c.kind(), tempID, canonical)

	return canonical, nil
}

// Update stores the edited entity. Online, it then updates the entity on the
// remote and stores the canonical result. If the remote call fails the edit
// is kept and queued instead. No remote failure is returned.
func (c *Coordinator[E]) Update(e E, isOnline bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	e, err := c.resolve(e)
	if err != nil {
		return err
	}
	id := e.EntityID()

	current, ok, err := c.table.Find(c.ctx.DB, id)
	if err != nil {
		return database.NewPersistenceError("finding the entity", err)
	}
	if !ok {
		return errors.Wrapf(database.ErrNotFound, "updating %s %s", c.kind(), id)
	}
	e = e.WithTimestamps(current.CreatedTime(), c.ctx.Clock.Now().UTC())

	queue, err := c.mustQueue(isOnline, id, e.Refs())
	if err != nil {
		return err
	}

	err = c.ctx.DB.WithTx(func(tx *database.DB) error {
		if err := c.table.Update(tx, e); err != nil {
			return err
		}
		if queue {
			return c.enqueue(tx, database.ActionUpdate, id, &e)
		}

		return nil
	})
	if err != nil {
		return database.NewPersistenceError("storing the edit", err)
	}
	c.view.Put(e)

	if queue {
		return nil
	}

	canonical, err := c.remote.Update(c.ctx, e)
	if err != nil {
		log.Debug("update of %s %s failed, queueing: %s\n", c.kind(), id, err.Error())

		if err := c.ctx.DB.WithTx(func(tx *database.DB) error {
			return c.enqueue(tx, database.ActionUpdate, id, &e)
		}); err != nil {
			return database.NewPersistenceError("queueing the edit", err)
		}

		return nil
	}

	if err := c.ctx.DB.WithTx(func(tx *database.DB) error {
		return c.table.Replace(tx, id, canonical)
	}); err != nil {
		return database.NewPersistenceError("storing the updated entity", err)
	}
	c.view.Replace(c.kind(), id, canonical)

	return nil
}

// Delete removes the entity and the entities its removal cascades to. Online,
// it then deletes the entity on the remote, or restores everything it removed
// and returns the error. Offline, it queues the deletion.
func (c *Coordinator[E]) Delete(id string, isOnline bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	id, err := database.ResolveID(c.ctx.DB, c.kind(), id)
	if err != nil {
		return database.NewPersistenceError("resolving id", err)
	}

	cascade, err := database.CaptureCascade(c.ctx.DB, c.kind(), id)
	if err != nil {
		return database.NewPersistenceError("reading the rows to delete", err)
	}
	if cascade.Empty() {
		return errors.Wrapf(database.ErrNotFound, "deleting %s %s", c.kind(), id)
	}

	queue, err := c.mustQueue(isOnline, id, cascadeRefs(cascade))
	if err != nil {
		return err
	}

	err = c.ctx.DB.WithTx(func(tx *database.DB) error {
		if err := c.table.Delete(tx, id); err != nil {
			return err
		}
		if queue {
			return c.enqueue(tx, database.ActionDelete, id, nil)
		}

		return nil
	})
	if err != nil {
		return database.NewPersistenceError("deleting the entity", err)
	}
	c.view.ApplyCascade(cascade)

	if queue {
		return nil
	}

	err = c.remote.Delete(c.ctx, id)
	if err == nil || client.IsNotFound(err) {
		return nil
	}

	if rbErr := c.ctx.DB.WithTx(cascade.Restore); rbErr != nil {
		return database.NewPersistenceError("restoring the deleted entity", rbErr)
	}
	c.view.RestoreCascade(cascade)

	return err
}
