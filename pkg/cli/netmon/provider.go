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

// Package netmon observes connectivity to the remote and replays the pending
// action log when it is regained
package netmon

import (
	"sync"
	"time"

	"github.com/giftwise/giftwise/pkg/cli/log"
)

// Status is a connectivity state observed at a point in time
type Status struct {
	Connected bool
	At        time.Time
}

// Provider reports connectivity and delivers its transitions
type Provider interface {
	Connected() bool
	// Subscribe returns a channel of transitions and a function that closes it
	Subscribe() (<-chan Status, func())
}

// broadcaster fans statuses out to subscribers. Slow subscribers miss
// intermediate statuses but always see the latest one.
type broadcaster struct {
	mu        sync.Mutex
	connected bool
	subs      map[chan Status]struct{}
}

func newBroadcaster(connected bool) *broadcaster {
	return &broadcaster{
		connected: connected,
		subs:      map[chan Status]struct{}{},
	}
}

func (b *broadcaster) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.connected
}

func (b *broadcaster) Subscribe() (<-chan Status, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Status, 1)
	b.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.subs, ch)
			close(ch)
		})
	}
}

// set records the state and reports whether it changed
func (b *broadcaster) set(s Status) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.connected == s.Connected {
		return false
	}
	b.connected = s.Connected

	for ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}

	return true
}

// Static is a Provider whose state is set by its owner
type Static struct {
	*broadcaster
}

// NewStatic returns a Static provider in the given state
func NewStatic(connected bool) *Static {
	return &Static{broadcaster: newBroadcaster(connected)}
}

// Set changes the state, notifying subscribers if it changed
func (s *Static) Set(connected bool) {
	if s.set(Status{Connected: connected, At: time.Now()}) {
		log.Debug("connectivity set to %t\n", connected)
	}
}
