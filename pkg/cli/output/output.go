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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/reconcile"
	"github.com/giftwise/giftwise/pkg/cli/state"
	"github.com/giftwise/giftwise/pkg/cli/syncer"
	"github.com/giftwise/giftwise/pkg/cli/utils/diff"
)

const timeLayout = "Jan 2, 2006 3:04pm (MST)"

// Price formats an amount in cents
func Price(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func timestamps(createdAt, updatedAt time.Time) {
	log.Infof("created at: %s\n", createdAt.Local().Format(timeLayout))
	if !updatedAt.Equal(createdAt) {
		log.Infof("updated at: %s\n", updatedAt.Local().Format(timeLayout))
	}
}

// RecipientInfo prints a recipient
func RecipientInfo(r database.Recipient) {
	log.Infof("recipient id: %s\n", r.ID)
	log.Infof("name: %s\n", r.Name)
	if r.Relationship != "" {
		log.Infof("relationship: %s\n", r.Relationship)
	}
	if r.Birthday != "" {
		log.Infof("birthday: %s\n", r.Birthday)
	}
	if r.Notes != "" {
		log.Infof("notes: %s\n", r.Notes)
	}
	timestamps(r.CreatedAt, r.UpdatedAt)
}

// OccasionInfo prints an occasion
func OccasionInfo(o database.Occasion) {
	log.Infof("occasion id: %s\n", o.ID)
	log.Infof("recipient id: %s\n", o.RecipientID)
	log.Infof("name: %s\n", o.Name)
	if o.Date != "" {
		log.Infof("date: %s\n", o.Date)
	}
	if o.Recurring {
		log.Infof("recurring: yes\n")
	}
	timestamps(o.CreatedAt, o.UpdatedAt)
}

// IdeaInfo prints a gift idea
func IdeaInfo(g database.GiftIdea) {
	log.Infof("idea id: %s\n", g.ID)
	log.Infof("recipient id: %s\n", g.RecipientID)
	if g.OccasionID != nil {
		log.Infof("occasion id: %s\n", *g.OccasionID)
	}
	log.Infof("title: %s\n", g.Title)
	if g.URL != "" {
		log.Infof("url: %s\n", g.URL)
	}
	if g.PriceCents > 0 {
		log.Infof("price: %s\n", Price(g.PriceCents))
	}
	if g.Purchased {
		log.Infof("purchased: yes\n")
	}
	timestamps(g.CreatedAt, g.UpdatedAt)
}

func marker(pending map[database.Ref]bool, kind database.Kind, id string) string {
	if pending[database.Ref{Kind: kind, ID: id}] {
		return log.ColorYellow.Sprint(" *")
	}

	return ""
}

func ideaLine(g database.GiftIdea, pending map[database.Ref]bool) string {
	var b strings.Builder

	if g.Purchased {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(g.Title)
	if g.PriceCents > 0 {
		fmt.Fprintf(&b, " (%s)", Price(g.PriceCents))
	}
	fmt.Fprintf(&b, " %s%s", log.ColorGray.Sprintf("(%s)", g.ID), marker(pending, database.KindGiftIdea, g.ID))

	return b.String()
}

// Tree prints every recipient in the view with its occasions and ideas.
// Entities with queued changes are marked.
func Tree(v *state.View, pending map[database.Ref]bool) {
	recipients := state.Typed[database.Recipient](v, database.KindRecipient)
	occasions := state.Typed[database.Occasion](v, database.KindOccasion)
	ideas := state.Typed[database.GiftIdea](v, database.KindGiftIdea)

	if len(recipients) == 0 {
		log.Info("no recipients yet\n")
		return
	}

	for _, r := range recipients {
		label := r.Name
		if r.Relationship != "" {
			label = fmt.Sprintf("%s, %s", r.Name, r.Relationship)
		}
		log.Plainf("%s %s%s\n", label, log.ColorGray.Sprintf("(%s)", r.ID), marker(pending, database.KindRecipient, r.ID))

		for _, o := range occasions {
			if o.RecipientID != r.ID {
				continue
			}

			date := ""
			if o.Date != "" {
				date = " " + o.Date
			}
			log.Plainf("  %s%s %s%s\n", o.Name, date, log.ColorGray.Sprintf("(%s)", o.ID), marker(pending, database.KindOccasion, o.ID))

			for _, g := range ideas {
				if g.RecipientID == r.ID && g.OccasionID != nil && *g.OccasionID == o.ID {
					log.Plainf("    %s\n", ideaLine(g, pending))
				}
			}
		}

		for _, g := range ideas {
			if g.RecipientID == r.ID && g.OccasionID == nil {
				log.Plainf("  %s\n", ideaLine(g, pending))
			}
		}
	}
}

// indentJSON renders a payload or an entity as indented JSON for diffing
func indentJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}

	return string(b) + "\n"
}

// PayloadDiff returns the line diff between the current local row and the
// entity queued in the payload. A nil current means the row no longer exists.
func PayloadDiff(current database.Entity, queued database.Entity) string {
	var before, after string
	if current != nil {
		before = indentJSON(current)
	}
	if queued != nil {
		after = indentJSON(queued)
	}

	return diff.Unified(before, after)
}

// Action prints a queued action
func Action(a database.PendingAction) {
	queuedAt := time.Unix(0, a.Timestamp).Local().Format(timeLayout)

	retries := ""
	if a.RetryCount > 0 {
		retries = log.ColorYellow.Sprintf(" (%d failed attempts)", a.RetryCount)
	}

	log.Plainf("%d. %s %s %s %s%s\n", a.ID, a.ActionType, a.EntityType, a.EntityID, log.ColorGray.Sprint(queuedAt), retries)
}

// SyncResult prints the outcome of a sync
func SyncResult(rr reconcile.Result, sr syncer.Result) {
	var merged int
	for _, n := range rr {
		merged += n
	}

	log.Infof("merged %d entities from the server\n", merged)
	log.Infof("sent %d queued changes\n", sr.Synced)
	if sr.Gone > 0 {
		log.Infof("%d changes were for entities removed on the server\n", sr.Gone)
	}
	if sr.Conflicts > 0 {
		log.Warnf("%d changes were discarded in favor of the server\n", sr.Conflicts)
	}
	if sr.Dropped > 0 {
		log.Warnf("%d changes could not be sent and were dropped\n", sr.Dropped)
	}
	if sr.Deferred > 0 {
		log.Warnf("%d changes are still queued\n", sr.Deferred)
	}
}

// Saved prints the outcome of a mutation. A queued one has not reached the
// server yet.
func Saved(verb, noun, label string, queued bool) {
	if queued {
		log.Successf("%s %s %s %s\n", verb, noun, label, log.ColorGray.Sprint("(queued until the server is reachable)"))
		return
	}

	log.Successf("%s %s %s\n", verb, noun, label)
}
