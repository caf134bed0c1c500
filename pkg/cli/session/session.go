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

// Package session wires the components of the sync engine for one app session
package session

import (
	"sync"

	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/mutation"
	"github.com/giftwise/giftwise/pkg/cli/netmon"
	"github.com/giftwise/giftwise/pkg/cli/notify"
	"github.com/giftwise/giftwise/pkg/cli/reconcile"
	"github.com/giftwise/giftwise/pkg/cli/state"
	"github.com/giftwise/giftwise/pkg/cli/syncer"
	"github.com/pkg/errors"
)

// Session owns the view of the local entities and the components writing to
// it. Its mutations, drains and reconciliations are serialized by one lock.
type Session struct {
	Ctx  context.GiftCtx
	View *state.View

	Recipients *mutation.Coordinator[database.Recipient]
	Occasions  *mutation.Coordinator[database.Occasion]
	GiftIdeas  *mutation.Coordinator[database.GiftIdea]

	Processor  *syncer.Processor
	Reconciler *reconcile.Reconciler
	Monitor    *netmon.Monitor

	provider netmon.Provider
	lock     sync.Mutex
}

// New returns a session reading connectivity from the provider
func New(ctx context.GiftCtx, provider netmon.Provider, notifier notify.Notifier) *Session {
	s := &Session{
		Ctx:      ctx,
		View:     state.NewView(),
		provider: provider,
	}

	s.Recipients = mutation.NewRecipients(ctx, s.View, &s.lock)
	s.Occasions = mutation.NewOccasions(ctx, s.View, &s.lock)
	s.GiftIdeas = mutation.NewGiftIdeas(ctx, s.View, &s.lock)
	s.Processor = syncer.New(ctx, s.View, notifier, &s.lock)
	s.Reconciler = reconcile.New(ctx, s.View, &s.lock)
	s.Monitor = netmon.NewMonitor(provider, netmon.DrainFunc(s.drain))

	return s
}

// NewDefault returns a session for a command-line invocation. Unless the
// context is offline, connectivity is probed once up front.
func NewDefault(ctx context.GiftCtx) *Session {
	if ctx.Offline || ctx.SessionKey == "" {
		return New(ctx, netmon.NewStatic(false), notify.Console{})
	}

	p := netmon.NewProber(ctx)
	p.Probe()

	return New(ctx, p, notify.Console{})
}

// ErrNotLoggedIn is an error for an operation that needs an account while
// no account was ever logged in
var ErrNotLoggedIn = errors.New("not logged in. Run 'giftwise login' first")

// Open returns the default session of a command operating on the entities of
// the logged in account. Changes queued by earlier invocations are sent first
// if the remote is reachable.
func Open(ctx context.GiftCtx) (*Session, error) {
	if ctx.OwnerID == "" {
		return nil, ErrNotLoggedIn
	}

	s := NewDefault(ctx)
	if err := s.Flush(); err != nil {
		return nil, errors.Wrap(err, "sending queued changes")
	}

	return s, nil
}

// Provider returns the connectivity provider of the session
func (s *Session) Provider() netmon.Provider {
	return s.provider
}

func (s *Session) drain() error {
	res, err := s.Processor.Drain()
	if errors.Cause(err) == syncer.ErrDrainInProgress {
		return nil
	}
	if err != nil {
		return err
	}

	log.Debug("drain result: %+v\n", res)
	return nil
}

// Flush drains the pending log if the remote is reachable
func (s *Session) Flush() error {
	if !s.IsOnline() {
		return nil
	}

	return s.drain()
}

// IsOnline reports whether mutations should be sent to the remote right away
func (s *Session) IsOnline() bool {
	return !s.Ctx.Offline && s.Monitor.IsOnline()
}

// Start loads the stored entities into the view and, if the remote is
// reachable, merges the remote state and flushes the pending log
func (s *Session) Start() error {
	if err := s.View.Load(s.Ctx.DB, s.Ctx.OwnerID); err != nil {
		return errors.Wrap(err, "loading the local entities")
	}

	if !s.IsOnline() {
		return nil
	}

	if _, _, err := s.Sync(); err != nil {
		return errors.Wrap(err, "syncing")
	}

	return nil
}

// Sync reconciles every kind with the remote and then drains the pending log
func (s *Session) Sync() (reconcile.Result, syncer.Result, error) {
	rr, err := s.Reconciler.Run(s.Ctx.OwnerID)
	if err != nil {
		return rr, syncer.Result{}, errors.Wrap(err, "reconciling")
	}

	sr, err := s.Processor.Drain()
	if err != nil {
		return rr, sr, errors.Wrap(err, "draining the pending actions")
	}

	return rr, sr, nil
}
