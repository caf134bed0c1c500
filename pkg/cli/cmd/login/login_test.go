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

package login

import (
	"fmt"
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/giftwise/giftwise/pkg/cli/consts"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/testutils"
)

func TestGetServerDisplayURL(t *testing.T) {
	testCases := []struct {
		apiEndpoint string
		expected    string
	}{
		{
			apiEndpoint: "https://giftwise.mydomain.com/api",
			expected:    "https://giftwise.mydomain.com",
		},
		{
			apiEndpoint: "https://mysubdomain.mydomain.com/giftwise/api",
			expected:    "https://mysubdomain.mydomain.com",
		},
		{
			apiEndpoint: "http://127.0.0.1:3001/api",
			expected:    "http://127.0.0.1:3001",
		},
		{
			apiEndpoint: "some-string",
			expected:    "",
		},
		{
			apiEndpoint: "",
			expected:    "",
		},
		{
			apiEndpoint: "https://",
			expected:    "",
		},
		{
			apiEndpoint: "https://abc",
			expected:    "https://abc",
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("for input %s", tc.apiEndpoint), func(t *testing.T) {
			got := getServerDisplayURL(context.GiftCtx{APIEndpoint: tc.apiEndpoint})
			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func TestDo(t *testing.T) {
	ctx := context.InitTestCtx(t)
	ctx.SessionKey = ""
	ctx.OwnerID = ""

	remote := testutils.NewFakeRemote(t, "token-1", "owner-9")
	ctx.APIEndpoint = remote.URL()

	info, err := Do(ctx, "token-1")
	assert.Equal(t, err, nil, "logging in")
	assert.Equal(t, info.OwnerID, "owner-9", "owner id mismatch")

	var key, owner string
	database.MustScan(t, "getting session key", ctx.DB.QueryRow("SELECT value FROM system WHERE key = ?", consts.SystemSessionKey), &key)
	database.MustScan(t, "getting owner id", ctx.DB.QueryRow("SELECT value FROM system WHERE key = ?", consts.SystemOwnerID), &owner)
	assert.Equal(t, key, "token-1", "stored session key mismatch")
	assert.Equal(t, owner, "owner-9", "stored owner id mismatch")
}

func TestDoRejected(t *testing.T) {
	ctx := context.InitTestCtx(t)
	remote := testutils.NewFakeRemote(t, "token-1", "owner-9")
	ctx.APIEndpoint = remote.URL()

	_, err := Do(ctx, "wrong-token")
	assert.NotEqual(t, err, nil, "a wrong token should be rejected")

	var count int
	database.MustScan(t, "counting session keys", ctx.DB.QueryRow("SELECT count(*) FROM system WHERE key = ?", consts.SystemSessionKey), &count)
	assert.Equal(t, count, 0, "nothing should be stored")
}
