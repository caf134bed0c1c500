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

package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/state"
)

func capture(t *testing.T) *bytes.Buffer {
	color.NoColor = true

	var buf bytes.Buffer
	t.Cleanup(log.SetOutput(&buf))

	return &buf
}

func TestPrice(t *testing.T) {
	testCases := []struct {
		cents    int64
		expected string
	}{
		{cents: 0, expected: "$0.00"},
		{cents: 5, expected: "$0.05"},
		{cents: 1250, expected: "$12.50"},
		{cents: 100000, expected: "$1000.00"},
	}

	for _, tc := range testCases {
		assert.Equal(t, Price(tc.cents), tc.expected, "price mismatch")
	}
}

func TestTree(t *testing.T) {
	buf := capture(t)

	now := time.Unix(1, 0)
	v := state.NewView()
	v.PutAll([]database.Entity{
		database.Recipient{ID: "r1", Name: "Jane", Relationship: "Sister", CreatedAt: now, UpdatedAt: now},
		database.Occasion{ID: "o1", RecipientID: "r1", Name: "Birthday", Date: "2026-03-01"},
		database.GiftIdea{ID: "g1", RecipientID: "r1", OccasionID: database.StringPtr("o1"), Title: "Lamp", PriceCents: 2500},
		database.GiftIdea{ID: "g2", RecipientID: "r1", Title: "Book", Purchased: true},
	})

	Tree(v, map[database.Ref]bool{{Kind: database.KindGiftIdea, ID: "g2"}: true})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.DeepEqual(t, lines, []string{
		"  Jane, Sister (r1)",
		"    Birthday 2026-03-01 (o1)",
		"      [ ] Lamp ($25.00) (g1)",
		"    [x] Book (g2) *",
	}, "tree mismatch")
}

func TestTreeEmpty(t *testing.T) {
	buf := capture(t)

	Tree(state.NewView(), nil)
	assert.Equal(t, strings.Contains(buf.String(), "no recipients yet"), true, "empty message missing")
}

func TestPayloadDiff(t *testing.T) {
	current := database.Recipient{ID: "r1", Name: "Jane"}
	queued := database.Recipient{ID: "r1", Name: "Jane Doe"}

	got := PayloadDiff(current, queued)
	assert.Equal(t, strings.Contains(got, `-   "name": "Jane",`), true, "removed line missing")
	assert.Equal(t, strings.Contains(got, `+   "name": "Jane Doe",`), true, "added line missing")
	assert.Equal(t, strings.Contains(got, `    "id": "r1",`), true, "unchanged line missing")
}

func TestPayloadDiffMissingRow(t *testing.T) {
	got := PayloadDiff(nil, database.Recipient{ID: "r1", Name: "Jane"})

	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		assert.Equal(t, strings.HasPrefix(line, "+ "), true, "every line should be an insertion")
	}
}
