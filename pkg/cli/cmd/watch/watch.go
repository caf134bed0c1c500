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

// Package watch implements a long-running command that keeps the local store
// in sync while it runs
package watch

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/netmon"
	"github.com/giftwise/giftwise/pkg/cli/notify"
	"github.com/giftwise/giftwise/pkg/cli/reconcile"
	"github.com/giftwise/giftwise/pkg/cli/session"
	"github.com/giftwise/giftwise/pkg/cli/state"
	"github.com/giftwise/giftwise/pkg/cli/syncer"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var example = `
 * Send queued changes whenever the server becomes reachable
 giftwise watch`

// NewCmd returns a new watch command
func NewCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Keep syncing until interrupted",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx),
	}

	return cmd
}

func logEvent(e state.Event) {
	if e.Removed {
		log.Infof("%s %s removed\n", e.Kind, e.ID)
		return
	}

	log.Infof("%s %s updated\n", e.Kind, e.ID)
}

// Watch probes the remote on the configured interval, drains the pending log
// on every reconnection and reconciles on the configured schedule. It runs
// until stop is closed.
func Watch(ctx context.GiftCtx, provider netmon.Provider, notifier notify.Notifier, stop <-chan struct{}) error {
	if ctx.OwnerID == "" {
		return session.ErrNotLoggedIn
	}

	if p, ok := provider.(*netmon.Prober); ok {
		p.Start()
		defer p.Stop()
	}

	s := session.New(ctx, provider, notifier)
	if err := s.Start(); err != nil {
		return errors.Wrap(err, "starting the session")
	}

	unsubscribe := s.View.Subscribe(logEvent)
	defer unsubscribe()

	c := cron.New()
	err := c.AddFunc(ctx.ReconcileSchedule, func() {
		if err := periodicSync(s.IsOnline, s.Sync); err != nil {
			log.Errorf("periodic sync: %s\n", err.Error())
		}
	})
	if err != nil {
		return errors.Wrapf(err, "scheduling reconciliation with '%s'", ctx.ReconcileSchedule)
	}
	c.Start()
	defer c.Stop()

	<-s.Monitor.Start(stop)

	return nil
}

// periodicSync reconciles and drains if the remote is reachable. A drain
// already started by the monitor is not an error.
func periodicSync(isOnline func() bool, sync func() (reconcile.Result, syncer.Result, error)) error {
	if !isOnline() {
		return nil
	}

	rr, sr, err := sync()
	if errors.Cause(err) == syncer.ErrDrainInProgress {
		log.Debug("periodic sync: a drain is already running\n")
		return nil
	}
	if err != nil {
		return err
	}

	log.Debug("periodic sync: reconciled %v, drained %+v\n", rr, sr)
	return nil
}

func newRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		stop := make(chan struct{})

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)

		go func() {
			<-sigs
			close(stop)
		}()

		var provider netmon.Provider
		if ctx.Offline {
			provider = netmon.NewStatic(false)
		} else {
			provider = netmon.NewProber(ctx)
		}

		log.Infof("watching %s. Press Ctrl+C to stop.\n", ctx.APIEndpoint)

		return Watch(ctx, provider, notify.Console{}, stop)
	}
}
