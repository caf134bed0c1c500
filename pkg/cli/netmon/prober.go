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

package netmon

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/giftwise/giftwise/pkg/cli/client"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/log"
)

// Prober is a Provider that polls the health endpoint of the remote
type Prober struct {
	*broadcaster

	ctx      context.GiftCtx
	interval time.Duration
	check    func(ctx context.GiftCtx) error

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewProber returns a prober that assumes the remote is unreachable until
// the first probe succeeds
func NewProber(ctx context.GiftCtx) *Prober {
	interval := ctx.ProbeInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	return &Prober{
		broadcaster: newBroadcaster(false),
		ctx:         ctx,
		interval:    interval,
		check:       client.CheckHealth,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Probe checks the remote once and returns whether it is reachable
func (p *Prober) Probe() bool {
	err := p.check(p.ctx)
	if err != nil {
		log.Debug("health check failed: %s\n", err.Error())
	}

	connected := err == nil
	at := time.Now()
	if p.ctx.Clock != nil {
		at = p.ctx.Clock.Now()
	}
	p.set(Status{Connected: connected, At: at})

	return connected
}

// Start probes right away and then on every interval until Stop is called
func (p *Prober) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	p.Probe()

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				p.Probe()
			}
		}
	}()
}

// Stop stops the probing started by Start and waits for it to return
func (p *Prober) Stop() {
	if !p.started.Load() {
		return
	}

	p.stopOnce.Do(func() {
		close(p.stop)
	})
	<-p.done
}
