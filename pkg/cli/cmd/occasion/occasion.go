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

// Package occasion implements the commands managing occasions
package occasion

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

var nameFlag string
var dateFlag string
var recurringFlag bool
var notesFlag string
var yesFlag bool

var example = `
 * Add a yearly birthday for a recipient
 giftwise occasion add 0d8c1a4e-8f1e-4b44-a6f6-6ef1c7b2e9a1 Birthday -d 03-14 --recurring

 * Move an occasion to another date
 giftwise occasion edit 6a3f0b7e-2d54-4a1c-9a57-0f5c1e2d3b4a -d 2026-12-24

 * Remove an occasion. Its ideas are kept for the recipient.
 giftwise occasion remove 6a3f0b7e-2d54-4a1c-9a57-0f5c1e2d3b4a`

// NewCmd returns a new occasion command
func NewCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "occasion",
		Short:   "Manage the occasions of recipients",
		Aliases: []string{"o"},
		Example: example,
	}

	add := &cobra.Command{
		Use:   "add <recipient id> <name>",
		Short: "Add a new occasion for a recipient",
		Args:  cobra.ExactArgs(2),
		RunE:  newAddRun(ctx),
	}
	add.Flags().StringVarP(&dateFlag, "date", "d", "", "the date, as YYYY-MM-DD or MM-DD")
	add.Flags().BoolVar(&recurringFlag, "recurring", false, "whether the occasion repeats every year")
	add.Flags().StringVarP(&notesFlag, "notes", "n", "", "free-form notes")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an occasion",
		Args:  cobra.ExactArgs(1),
		RunE:  newEditRun(ctx),
	}
	edit.Flags().StringVar(&nameFlag, "name", "", "the new name")
	edit.Flags().StringVarP(&dateFlag, "date", "d", "", "the new date, as YYYY-MM-DD or MM-DD")
	edit.Flags().BoolVar(&recurringFlag, "recurring", false, "whether the occasion repeats every year")
	edit.Flags().StringVarP(&notesFlag, "notes", "n", "", "the new notes")

	remove := &cobra.Command{
		Use:     "remove <id>",
		Short:   "Remove an occasion",
		Aliases: []string{"rm", "d"},
		Args:    cobra.ExactArgs(1),
		RunE:    newRemoveRun(ctx),
	}
	remove.Flags().BoolVarP(&yesFlag, "yes", "y", false, "remove without confirmation")

	cmd.AddCommand(add, edit, remove)

	return cmd
}

func find(ctx context.GiftCtx, id string) (database.Occasion, error) {
	resolved, err := database.ResolveID(ctx.DB, database.KindOccasion, id)
	if err != nil {
		return database.Occasion{}, errors.Wrap(err, "resolving the id")
	}

	o, ok, err := database.Occasions.Find(ctx.DB, resolved)
	if err != nil {
		return o, errors.Wrap(err, "finding the occasion")
	}
	if !ok {
		return o, errors.Errorf("occasion %s not found", id)
	}

	return o, nil
}

func isQueued(ctx context.GiftCtx, id string) bool {
	ok, err := database.HasPendingFor(ctx.DB, database.KindOccasion, id)
	return err == nil && ok
}

func newAddRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[1])
		if err := validate.Name(name); err != nil {
			return errors.Wrap(err, "invalid name")
		}
		if err := validate.Date(dateFlag); err != nil {
			return errors.Wrap(err, "invalid date")
		}

		s, err := session.Open(ctx)
		if err != nil {
			return err
		}

		o, err := s.Occasions.Create(database.Occasion{
			OwnerID:     ctx.OwnerID,
			RecipientID: args[0],
			Name:        name,
			Date:        dateFlag,
			Recurring:   recurringFlag,
			Notes:       notesFlag,
		}, s.IsOnline())
		if err != nil {
			return errors.Wrap(err, "adding the occasion")
		}

		output.Saved("added", "occasion", o.Name, isQueued(ctx, o.ID))
		output.OccasionInfo(o)

		return nil
	}
}

func newEditRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		s, err := session.Open(ctx)
		if err != nil {
			return err
		}

		o, err := find(ctx, args[0])
		if err != nil {
			return err
		}

		f := cmd.Flags()
		changed := false
		if f.Changed("name") {
			o.Name = strings.TrimSpace(nameFlag)
			changed = true
		}
		if f.Changed("date") {
			o.Date = dateFlag
			changed = true
		}
		if f.Changed("recurring") {
			o.Recurring = recurringFlag
			changed = true
		}
		if f.Changed("notes") {
			o.Notes = notesFlag
			changed = true
		}
		if !changed {
			for _, field := range []struct {
				label string
				dest  *string
			}{{"name", &o.Name}, {"date", &o.Date}, {"notes", &o.Notes}} {
				if err := ui.PromptField(field.label, field.dest); err != nil {
					return errors.Wrap(err, "getting the new fields")
				}
			}
		}

		if err := validate.Name(o.Name); err != nil {
			return errors.Wrap(err, "invalid name")
		}
		if err := validate.Date(o.Date); err != nil {
			return errors.Wrap(err, "invalid date")
		}

		if err := s.Occasions.Update(o, s.IsOnline()); err != nil {
			return errors.Wrap(err, "editing the occasion")
		}

		updated, err := find(ctx, o.ID)
		if err != nil {
			log.Debug("finding the edited occasion: %s\n", err.Error())
			updated = o
		}

		output.Saved("edited", "occasion", updated.Name, isQueued(ctx, updated.ID))
		output.OccasionInfo(updated)

		return nil
	}
}

func newRemoveRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		s, err := session.Open(ctx)
		if err != nil {
			return err
		}

		o, err := find(ctx, args[0])
		if err != nil {
			return err
		}

		if !yesFlag {
			ok, err := ui.Confirm(fmt.Sprintf("remove occasion %s? Its ideas are kept.", o.Name), false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := s.Occasions.Delete(o.ID, s.IsOnline()); err != nil {
			return errors.Wrap(err, "removing the occasion")
		}

		output.Saved("removed", "occasion", o.Name, isQueued(ctx, o.ID))

		return nil
	}
}
