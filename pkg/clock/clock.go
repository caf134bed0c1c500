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

// Package clock provides an abstract layer over the standard time package
package clock

import (
	"sync"
	"time"
)

// Clock is an interface to the standard library time.
// It is used to implement a real or a mock clock. The latter is used in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type clock struct{}

func (c *clock) Now() time.Time {
	return time.Now()
}

func (c *clock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Mock is a mock instance of clock. Waiting on a mock clock returns
// immediately and advances the current time by the waited duration.
type Mock struct {
	mu          sync.RWMutex
	currentTime time.Time
	waits       []time.Duration
}

// SetNow sets the current time for the mock clock
func (c *Mock) SetNow(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
}

// Now returns the current time
func (c *Mock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentTime
}

// After records the wait and returns a channel that has already fired
func (c *Mock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.waits = append(c.waits, d)
	c.currentTime = c.currentTime.Add(d)

	ch := make(chan time.Time, 1)
	ch <- c.currentTime

	return ch
}

// Waits returns the durations passed to After, in call order
func (c *Mock) Waits() []time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ret := make([]time.Duration, len(c.waits))
	copy(ret, c.waits)

	return ret
}

// New returns an instance of a real clock
func New() Clock {
	return &clock{}
}

// NewMock returns an instance of a mock clock
func NewMock() *Mock {
	return &Mock{
		currentTime: time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC),
	}
}
