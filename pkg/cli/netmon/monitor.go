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
	"time"

	"github.com/giftwise/giftwise/pkg/cli/log"
)

// Drainer replays the pending action log
type Drainer interface {
	Drain() error
}

// DrainFunc adapts a function to a Drainer
type DrainFunc func() error

// Drain implements Drainer
func (f DrainFunc) Drain() error {
	return f()
}

// Monitor tracks connectivity and drains the pending action log each time
// the remote becomes reachable
type Monitor struct {
	provider Provider
	drainer  Drainer

	mu     sync.Mutex
	online bool
}

// NewMonitor returns a monitor starting from the current state of the provider
func NewMonitor(provider Provider, drainer Drainer) *Monitor {
	return &Monitor{
		provider: provider,
		drainer:  drainer,
		online:   provider.Connected(),
	}
}

// IsOnline returns the last observed connectivity
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.online
}

// Handle records the status. It drains the log if, and only if, the status
// is a transition to connected. It reports whether a drain happened.
func (m *Monitor) Handle(s Status) bool {
	m.mu.Lock()
	transition := s.Connected && !m.online
	m.online = s.Connected
	m.mu.Unlock()

	if !transition {
		return false
	}

	log.Debug("connectivity regained at %s, draining\n", s.At)
	if err := m.drainer.Drain(); err != nil {
		log.Debug("drain failed: %s\n", err.Error())
	}

	return true
}

// Start subscribes to the provider, handles its current status and then
// handles its transitions in the background until stop is closed or the
// subscription ends. The returned channel is closed when it returns.
func (m *Monitor) Start(stop <-chan struct{}) <-chan struct{} {
	ch, unsubscribe := m.provider.Subscribe()
	done := make(chan struct{})

	m.Handle(Status{Connected: m.provider.Connected(), At: time.Now()})

	go func() {
		defer close(done)
		defer unsubscribe()

		for {
			select {
			case <-stop:
				return
			case s, ok := <-ch:
				if !ok {
					return
				}
				m.Handle(s)
			}
		}
	}()

	return done
}

// Run is Start, blocking until it returns
func (m *Monitor) Run(stop <-chan struct{}) {
	<-m.Start(stop)
}
