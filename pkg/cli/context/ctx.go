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

// Package context defines the runtime context shared by Giftwise commands
package context

import (
	"net/http"
	"time"

	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/clock"
	"github.com/giftwise/giftwise/pkg/dirs"
)

// GiftCtx is a context holding the information of the current runtime
type GiftCtx struct {
	Paths       dirs.Paths
	APIEndpoint string
	Version     string
	DB          *database.DB
	SessionKey  string
	// OwnerID is the account whose entities are stored locally
	OwnerID    string
	Clock      clock.Clock
	HTTPClient *http.Client

	RequestTimeout    time.Duration
	ProbeInterval     time.Duration
	ReconcileSchedule string
	// Offline forces every mutation down the offline path
	Offline bool
}

// Redact replaces private information from the context with a set of
// placeholder values.
func Redact(ctx GiftCtx) GiftCtx {
	var sessionKey string
	if ctx.SessionKey != "" {
		sessionKey = "1"
	} else {
		sessionKey = "0"
	}
	ctx.SessionKey = sessionKey

	return ctx
}
