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

// Package idea implements the commands managing gift ideas
package idea

import (
	"fmt"
	"strings"

	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/output"
	"github.com/giftwise/giftwise/pkg/cli/session"
	"github.com/giftwise/giftwise/pkg/cli/ui"
	"github.com/giftwise/giftwise/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var titleFlag string
var occasionFlag string
var urlFlag string
var priceFlag string
var purchasedFlag bool
var notesFlag string
var yesFlag bool

var example = `
 * Add an idea for a recipient's birthday
 giftwise idea add 0d8c1a4e-8f1e-4b44-a6f6-6ef1c7b2e9a1 "Desk lamp" -o 6a3f0b7e-2d54-4a1c-9a57-0f5c1e2d3b4a -p 24.99

 * Mark an idea as purchased
 giftwise idea edit 9b1c2d3e-4f50-4a6b-8c7d-0e1f2a3b4c5d --purchased

 * Detach an idea from its occasion
 giftwise idea edit 9b1c2d3e-4f50-4a6b-8c7d-0e1f2a3b4c5d -o ""`

// NewCmd returns a new idea command
func NewCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "idea",
		Short:   "Manage gift ideas",
		Aliases: []string{"i"},
		Example: example,
	}

	add := &cobra.Command{
		Use:   "add <recipient id> <title>",
		Short: "Add a new gift idea for a recipient",
		Args:  cobra.ExactArgs(2),
		RunE:  newAddRun(ctx),
	}
	add.Flags().StringVarP(&occasionFlag, "occasion", "o", "", "the id of the occasion the idea is for")
	add.Flags().StringVarP(&urlFlag, "url", "u", "", "a link to the gift")
	add.Flags().StringVarP(&priceFlag, "price", "p", "", "the price, such as 24.99")
	add.Flags().StringVarP(&notesFlag, "notes", "n", "", "free-form notes")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a gift idea",
		Args:  cobra.ExactArgs(1),
		RunE:  newEditRun(ctx),
	}
	edit.Flags().StringVar(&titleFlag, "title", "", "the new title")
	edit.Flags().StringVarP(&occasionFlag, "occasion", "o", "", "the id of the new occasion. Empty detaches the idea.")
	edit.Flags().StringVarP(&urlFlag, "url", "u", "", "the new link")
	edit.Flags().StringVarP(&priceFlag, "price", "p", "", "the new price")
	edit.Flags().BoolVar(&purchasedFlag, "purchased", false, "whether the gift was purchased")
	edit.Flags().StringVarP(&notesFlag, "notes", "n", "", "the new notes")

	remove := &cobra.Command{
		Use:     "remove <id>",
		Short:   "Remove a gift idea",
		Aliases: []string{"rm", "d"},
		Args:    cobra.ExactArgs(1),
		RunE:    newRemoveRun(ctx),
	}
	remove.Flags().BoolVarP(&yesFlag, "yes", "y", false, "remove without confirmation")

	cmd.AddCommand(add, edit, remove)

	return cmd
}

func find(ctx context.GiftCtx, id string) (database.GiftIdea, error) {
	resolved, err := database.ResolveID(ctx.DB, database.KindGiftIdea, id)
	if err != nil {
		return database.GiftIdea{}, errors.Wrap(err, "resolving the id")
	}

	g, ok, err := database.GiftIdeas.Find(ctx.DB, resolved)
	if err != nil {
		return g, errors.Wrap(err, "finding the idea")
	}
	if !ok {
		return g, errors.Errorf("gift idea %s not found", id)
	}

	return g, nil
}

func isQueued(ctx context.GiftCtx, id string) bool {
	ok, err := database.HasPendingFor(ctx.DB, database.KindGiftIdea, id)
	return err == nil && ok
}

func occasionRef(id string) *string {
	if id == "" {
		return nil
	}

	return database.StringPtr(id)
}

func newAddRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(args[1])
		if err := validate.Name(title); err != nil {
			return errors.Wrap(err, "invalid title")
		}
		if err := validate.URL(urlFlag); err != nil {
			return errors.Wrap(err, "invalid url")
		}
		price, err := validate.Price(priceFlag)
		if err != nil {
			return errors.Wrap(err, "invalid price")
		}

		s, err := session.Open(ctx)
		if err != nil {
			return err
		}

		g, err := s.GiftIdeas.Create(database.GiftIdea{
			OwnerID:     ctx.OwnerID,
			RecipientID: args[0],
			OccasionID:  occasionRef(occasionFlag),
			Title:       title,
			URL:         urlFlag,
			PriceCents:  price,
			Notes:       notesFlag,
		}, s.IsOnline())
		if err != nil {
			return errors.Wrap(err, "adding the idea")
		}

		output.Saved("added", "gift idea", g.Title, isQueued(ctx, g.ID))
		output.IdeaInfo(g)

		return nil
	}
}

func promptFields(g *database.GiftIdea) error {
	if err := ui.PromptField("title", &g.Title); err != nil {
		return err
	}
	if err := ui.PromptField("url", &g.URL); err != nil {
		return err
	}

	price := ""
	if g.PriceCents > 0 {
		price = output.Price(g.PriceCents)
	}
	if err := ui.PromptField("price", &price); err != nil {
		return err
	}
	cents, err := validate.Price(price)
	if err != nil {
		return errors.Wrap(err, "invalid price")
	}
	g.PriceCents = cents

	return ui.PromptField("notes", &g.Notes)
}

func newEditRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		s, err := session.Open(ctx)
		if err != nil {
			return err
		}

		g, err := find(ctx, args[0])
		if err != nil {
			return err
		}

		f := cmd.Flags()
		changed := false
		if f.Changed("title") {
			g.Title = strings.TrimSpace(titleFlag)
			changed = true
		}
		if f.Changed("occasion") {
			g.OccasionID = occasionRef(occasionFlag)
			changed = true
		}
		if f.Changed("url") {
			g.URL = urlFlag
			changed = true
		}
		if f.Changed("price") {
			if g.PriceCents, err = validate.Price(priceFlag); err != nil {
				return errors.Wrap(err, "invalid price")
			}
			changed = true
		}
		if f.Changed("purchased") {
			g.Purchased = purchasedFlag
			changed = true
		}
		if f.Changed("notes") {
			g.Notes = notesFlag
			changed = true
		}
		if !changed {
			if err := promptFields(&g); err != nil {
				return errors.Wrap(err, "getting the new fields")
			}
		}

		if err := validate.Name(g.Title); err != nil {
			return errors.Wrap(err, "invalid title")
		}
		if err := validate.URL(g.URL); err != nil {
			return errors.Wrap(err, "invalid url")
		}

		if err := s.GiftIdeas.Update(g, s.IsOnline()); err != nil {
			return errors.Wrap(err, "editing the idea")
		}

		updated, err := find(ctx, g.ID)
		if err != nil {
			log.Debug("finding the edited idea: %s\n", err.Error())
			updated = g
		}

		output.Saved("edited", "gift idea", updated.Title, isQueued(ctx, updated.ID))
		output.IdeaInfo(updated)

		return nil
	}
}

func newRemoveRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		s, err := session.Open(ctx)
		if err != nil {
			return err
		}

		g, err := find(ctx, args[0])
		if err != nil {
			return err
		}

		if !yesFlag {
			ok, err := ui.Confirm(fmt.Sprintf("remove gift idea %s?", g.Title), false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := s.GiftIdeas.Delete(g.ID, s.IsOnline()); err != nil {
			return errors.Wrap(err, "removing the idea")
		}

		output.Saved("removed", "gift idea", g.Title, isQueued(ctx, g.ID))

		return nil
	}
}
