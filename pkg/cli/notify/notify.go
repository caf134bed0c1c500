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

// Package notify delivers user-facing messages raised outside of a user
// action, such as changes the sync could not apply
package notify

import (
	"sync"

	"github.com/giftwise/giftwise/pkg/cli/log"
)

// Notifier surfaces messages to the user
type Notifier interface {
	// Notice is informational
	Notice(msg string)
	// Alert reports a change that was lost
	Alert(msg string)
}

// Console prints messages with the CLI logger
type Console struct{}

// Notice implements Notifier
func (Console) Notice(msg string) {
	log.Infof("%s\n", msg)
}

// Alert implements Notifier
func (Console) Alert(msg string) {
	log.Warnf("%s\n", msg)
}

// Recorder keeps the messages it receives
type Recorder struct {
	mu      sync.Mutex
	notices []string
	alerts  []string
}

// Notice implements Notifier
func (r *Recorder) Notice(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notices = append(r.notices, msg)
}

// Alert implements Notifier
func (r *Recorder) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = append(r.alerts, msg)
}

// Notices returns the notices received so far
func (r *Recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string{}, r.notices...)
}

// Alerts returns the alerts received so far
func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string{}, r.alerts...)
}
