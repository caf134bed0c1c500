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

package e2e

import (
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/giftwise/giftwise/pkg/cli/client"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/netmon"
	"github.com/giftwise/giftwise/pkg/server/database"
	"github.com/giftwise/giftwise/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestProberSeesServer(t *testing.T) {
	_, endpoint := setupServer(t)

	ctx := context.InitTestCtx(t)
	ctx.APIEndpoint = endpoint

	p := netmon.NewProber(ctx)
	assert.Equal(t, p.Probe(), true, "server should be reachable")
	assert.Equal(t, p.Connected(), true, "prober should report connected")
}

func TestProberServerDown(t *testing.T) {
	a, endpoint := setupServer(t)

	if err := database.Close(a.DB); err != nil {
		t.Fatal(errors.Wrap(err, "closing the database"))
	}

	ctx := context.InitTestCtx(t)
	ctx.APIEndpoint = endpoint

	p := netmon.NewProber(ctx)
	assert.Equal(t, p.Probe(), false, "server with a closed database should be unhealthy")
}

func TestGetSession(t *testing.T) {
	a, endpoint := setupServer(t)
	key := testutils.SetupSession(t, a.DB, ownerID, a.Clock.Now())

	ctx := context.InitTestCtx(t)
	ctx.APIEndpoint = endpoint

	t.Run("valid key", func(t *testing.T) {
		ctx.SessionKey = key

		info, err := client.GetSession(ctx)
		assert.Equal(t, err, nil, "getting the session")
		assert.Equal(t, info.OwnerID, ownerID, "owner mismatch")
	})

	t.Run("unknown key", func(t *testing.T) {
		ctx.SessionKey = "unknown"

		_, err := client.GetSession(ctx)
		assert.Equal(t, client.IsUnauthorized(err), true, "error should be unauthorized")
	})
}
