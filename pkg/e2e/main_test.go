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

// Package e2e tests the sync engine of the client against the server
package e2e

import (
	"testing"

	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/netmon"
	"github.com/giftwise/giftwise/pkg/cli/notify"
	"github.com/giftwise/giftwise/pkg/cli/session"
	"github.com/giftwise/giftwise/pkg/clock"
	"github.com/giftwise/giftwise/pkg/server/app"
	"github.com/giftwise/giftwise/pkg/server/controllers"
	"github.com/giftwise/giftwise/pkg/server/testutils"
)

const ownerID = "owner-1"

// env is a server and one client session logged in to it
type env struct {
	server   *app.App
	client   *session.Session
	provider *netmon.Static
	notifier *notify.Recorder
	clock    *clock.Mock
	key      string
}

func setupServer(t *testing.T) (*app.App, string) {
	a := app.NewTest()
	a.DB = testutils.InitTestDB(t)

	srv := controllers.MustNewServer(t, &a)
	t.Cleanup(srv.Close)

	return &a, srv.URL + "/api"
}

// setup starts a server and a client session, connected or not, that shares
// its clock with the server
func setup(t *testing.T, connected bool) env {
	a, endpoint := setupServer(t)
	c := a.Clock.(*clock.Mock)
	key := testutils.SetupSession(t, a.DB, ownerID, c.Now())

	return env{
		server:   a,
		clock:    c,
		key:      key,
		provider: netmon.NewStatic(connected),
		notifier: &notify.Recorder{},
	}.connect(t, endpoint)
}

func (e env) connect(t *testing.T, endpoint string) env {
	ctx := context.InitTestCtx(t)
	ctx.APIEndpoint = endpoint
	ctx.SessionKey = e.key
	ctx.OwnerID = ownerID
	ctx.Clock = e.clock

	e.client = session.New(ctx, e.provider, e.notifier)

	return e
}
