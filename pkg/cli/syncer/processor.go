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

// Package syncer replays the pending action log against the remote
package syncer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giftwise/giftwise/pkg/cli/client"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/notify"
	"github.com/giftwise/giftwise/pkg/cli/state"
	"github.com/pkg/errors"
)

const (
	// MaxRetries is the number of times a failed action is retried before it
	// is dropped
	MaxRetries = 3
	// maxBackoff caps the wait before a retry
	maxBackoff = 30 * time.Second
)

// ErrDrainInProgress is an error for a drain started while another is running
var ErrDrainInProgress = errors.New("a drain is already in progress")

// conflictNotice is shown once per drain in which the remote won a conflict
const conflictNotice = "Some changes could not be applied because the server has a newer version. They were discarded."

// unauthorizedAlert is shown when the remote rejects the session
const unauthorizedAlert = "Sync paused because the server rejected the session. Run 'giftwise login' and sync again."

// Result counts the outcomes of a drain
type Result struct {
	// Synced is the number of actions the remote accepted
	Synced int
	// Gone is the number of actions whose entity no longer exists remotely
	Gone int
	// Conflicts is the number of actions discarded in favor of the remote
	Conflicts int
	// Dropped is the number of actions that failed permanently
	Dropped int
	// Deferred is the number of actions left queued
	Deferred int
}

type outcome int

const (
	outcomeSynced outcome = iota
	outcomeGone
	outcomeConflict
	outcomeDropped
	outcomeRetry
	outcomeDeferred
)

// Processor drains the pending action log
type Processor struct {
	ctx      context.GiftCtx
	view     *state.View
	notifier notify.Notifier
	lock     sync.Locker

	remoteFor func(kind database.Kind) (client.Remote, error)
	running   atomic.Bool
}

// New returns a processor. The lock must be the one the mutation coordinators
// of the session hold.
func New(ctx context.GiftCtx, view *state.View, notifier notify.Notifier, lock sync.Locker) *Processor {
	return &Processor{
		ctx:       ctx,
		view:      view,
		notifier:  notifier,
		lock:      lock,
		remoteFor: client.RemoteFor,
	}
}

// Backoff returns the wait before the given attempt of an action. The first
// attempt is made right away.
func Backoff(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	d := time.Second
	for i := 2; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}

	return d
}

// Drain sends the actions queued at the time of the call, one at a time and
// in the order they were queued. Actions queued while it runs are left for
// the next drain. Remote failures are never returned. They are reflected in
// the result and surfaced through the notifier.
func (p *Processor) Drain() (Result, error) {
	var res Result

	if !p.running.CompareAndSwap(false, true) {
		return res, ErrDrainInProgress
	}
	defer p.running.Store(false)

	p.lock.Lock()
	actions, err := database.ListActions(p.ctx.DB)
	p.lock.Unlock()
	if err != nil {
		return res, errors.Wrap(err, "reading the pending actions")
	}

	log.Debug("draining %d pending actions\n", len(actions))

	for i, a := range actions {
		out, err := p.process(a)
		if err != nil {
			return res, errors.Wrapf(err, "processing action %d", a.ID)
		}

		switch out {
		case outcomeSynced:
			res.Synced++
		case outcomeGone:
			res.Gone++
		case outcomeConflict:
			res.Conflicts++
		case outcomeDropped:
			res.Dropped++
		case outcomeDeferred:
			res.Deferred = len(actions) - i
		}

		if out == outcomeDeferred {
			p.notifier.Alert(unauthorizedAlert)
			break
		}
	}

	if res.Conflicts > 0 {
		p.notifier.Notice(conflictNotice)
	}

	if err := p.clearMappings(); err != nil {
		return res, err
	}

	return res, nil
}

// clearMappings removes the id mappings once no queued action can refer to
// a temporary id
func (p *Processor) clearMappings() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	count, err := database.CountActions(p.ctx.DB)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return database.ClearIDMappings(p.ctx.DB)
}

// process resolves one action, retrying it while it fails transiently
func (p *Processor) process(a database.PendingAction) (outcome, error) {
	lastErr := errors.New("no attempt made")

	for attempt := a.RetryCount + 1; attempt <= MaxRetries+1; attempt++ {
		if wait := Backoff(attempt); wait > 0 {
			log.Debug("waiting %s before attempt %d of action %d\n", wait, attempt, a.ID)
			<-p.ctx.Clock.After(wait)
		}

		p.lock.Lock()
		out, err := p.attempt(a)
		p.lock.Unlock()

		if out != outcomeRetry {
			return out, err
		}
		lastErr = err
	}

	log.Debug("dropping action %d: %s\n", a.ID, lastErr.Error())

	p.lock.Lock()
	err := database.RemoveAction(p.ctx.DB, a.ID)
	p.lock.Unlock()
	if err != nil {
		return outcomeDropped, err
	}

	p.notifier.Alert(fmt.Sprintf("Could not sync a queued %s of %s %s after %d attempts. The change was dropped.", a.ActionType, a.EntityType, a.EntityID, MaxRetries+1))
	return outcomeDropped, nil
}

// attempt makes one remote call for the action and applies its result. An
// outcomeRetry comes with the remote error. Any other outcome comes with a
// local error, if one occurred.
func (p *Processor) attempt(a database.PendingAction) (outcome, error) {
	store, err := database.StoreFor(a.EntityType)
	if err != nil {
		return p.drop(a, err.Error())
	}
	remote, err := p.remoteFor(a.EntityType)
	if err != nil {
		return p.drop(a, err.Error())
	}

	id, err := database.ResolveID(p.ctx.DB, a.EntityType, a.EntityID)
	if err != nil {
		return outcomeDeferred, err
	}

	var canonical database.Entity
	switch a.ActionType {
	case database.ActionCreate, database.ActionUpdate:
		e, err := database.DecodePayload(a.EntityType, a.Payload)
		if err != nil {
			return p.drop(a, err.Error())
		}
		if e, err = database.ResolveRefs(p.ctx.DB, database.Rekey(e, id)); err != nil {
			return outcomeDeferred, err
		}

		if a.ActionType == database.ActionCreate {
			canonical, err = remote.CreateEntity(p.ctx, e)
		} else {
			canonical, err = remote.UpdateEntity(p.ctx, e)
		}
		if err != nil {
			return p.fail(a, id, err)
		}
	case database.ActionDelete:
		if err := remote.Delete(p.ctx, id); err != nil {
			return p.fail(a, id, err)
		}
	default:
		return p.drop(a, fmt.Sprintf("unknown action type '%s'", a.ActionType))
	}

	if err := p.apply(a, store, id, canonical); err != nil {
		return outcomeSynced, err
	}

	log.Debug("synced %s %s %s\n", a.ActionType, a.EntityType, id)
	return outcomeSynced, nil
}

// apply removes the synced action and stores the canonical entity the remote
// returned for it
func (p *Processor) apply(a database.PendingAction, store database.Store, id string, canonical database.Entity) error {
	var replaced bool

	err := p.ctx.DB.WithTx(func(tx *database.DB) error {
		if err := database.RemoveAction(tx, a.ID); err != nil {
			return err
		}
		if canonical == nil {
			return nil
		}

		if a.ActionType == database.ActionCreate {
			if err := database.PutIDMapping(tx, a.EntityType, a.EntityID, canonical.EntityID()); err != nil {
				return err
			}
		}

		local, ok, err := store.FindEntity(tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		// a later queued action for the entity carries a newer local state
		later, err := p.hasLater(tx, a, id)
		if err != nil {
			return err
		}
		if later {
			canonical = database.Rekey(local, canonical.EntityID())
		}

		if err := store.ReplaceEntity(tx, id, canonical); err != nil {
			return err
		}
		replaced = true

		return nil
	})
	if err != nil {
		return database.NewPersistenceError("storing the synced entity", err)
	}

	if replaced {
		p.view.Replace(a.EntityType, id, canonical)
	}

	return nil
}

// hasLater reports whether other actions are queued for the entity, under
// either its temporary or its resolved id
func (p *Processor) hasLater(db *database.DB, a database.PendingAction, id string) (bool, error) {
	ok, err := database.HasPendingFor(db, a.EntityType, a.EntityID)
	if err != nil || ok || id == a.EntityID {
		return ok, err
	}

	return database.HasPendingFor(db, a.EntityType, id)
}

// fail classifies a failed remote call
func (p *Processor) fail(a database.PendingAction, id string, err error) (outcome, error) {
	switch {
	case client.IsNotFound(err):
		return p.gone(a, id)
	case client.IsConflict(err):
		log.Debug("conflict on %s %s %s, the server wins\n", a.ActionType, a.EntityType, id)
		if err := database.RemoveAction(p.ctx.DB, a.ID); err != nil {
			return outcomeConflict, err
		}
		return outcomeConflict, nil
	case client.IsUnauthorized(err):
		log.Debug("session rejected: %s\n", err.Error())
		return outcomeDeferred, nil
	case client.IsRejection(err):
		return p.drop(a, err.Error())
	}

	log.Debug("attempt of action %d failed: %s\n", a.ID, err.Error())
	if incErr := database.IncrementRetryCount(p.ctx.DB, a.ID); incErr != nil {
		return outcomeDeferred, incErr
	}

	return outcomeRetry, err
}

// gone deletes the local entity the remote no longer has
func (p *Processor) gone(a database.PendingAction, id string) (outcome, error) {
	log.Debug("%s %s is gone from the server\n", a.EntityType, id)

	var cascade database.Cascade
	err := p.ctx.DB.WithTx(func(tx *database.DB) error {
		c, err := database.CaptureCascade(tx, a.EntityType, id)
		if err != nil {
			return err
		}
		cascade = c

		store, err := database.StoreFor(a.EntityType)
		if err != nil {
			return err
		}
		if err := store.Delete(tx, id); err != nil {
			return err
		}

		return database.RemoveAction(tx, a.ID)
	})
	if err != nil {
		return outcomeGone, database.NewPersistenceError("deleting the gone entity", err)
	}

	if !cascade.Empty() {
		p.view.ApplyCascade(cascade)
	}

	return outcomeGone, nil
}

// drop removes an action that can never succeed and alerts the user
func (p *Processor) drop(a database.PendingAction, reason string) (outcome, error) {
	log.Debug("dropping action %d: %s\n", a.ID, reason)

	if err := database.RemoveAction(p.ctx.DB, a.ID); err != nil {
		return outcomeDropped, err
	}

	p.notifier.Alert(fmt.Sprintf("Could not sync a queued %s of %s %s: %s. The change was dropped.", a.ActionType, a.EntityType, a.EntityID, reason))
	return outcomeDropped, nil
}
