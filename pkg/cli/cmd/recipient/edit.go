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

package recipient

import (
	"strings"

	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/output"
	"github.com/giftwise/giftwise/pkg/cli/session"
	"github.com/giftwise/giftwise/pkg/cli/ui"
	"github.com/giftwise/giftwise/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var editExample = `
 * Edit the fields one by one
 giftwise recipient edit 0d8c1a4e-8f1e-4b44-a6f6-6ef1c7b2e9a1

 * Change the relationship only
 giftwise recipient edit 0d8c1a4e-8f1e-4b44-a6f6-6ef1c7b2e9a1 -r Cousin`

func newEditCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Edit a recipient",
		Aliases: []string{"e"},
		Example: editExample,
		Args:    cobra.ExactArgs(1),
		RunE:    newEditRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&nameFlag, "name", "", "the new name")
	f.StringVarP(&relationshipFlag, "relationship", "r", "", "the new relationship")
	f.StringVarP(&birthdayFlag, "birthday", "b", "", "the new birthday, as YYYY-MM-DD or MM-DD")
	f.StringVarP(&notesFlag, "notes", "n", "", "the new notes")

	return cmd
}

func promptFields(name, relationship, birthday, notes *string) error {
	if err := ui.PromptField("name", name); err != nil {
		return err
	}
	if err := ui.PromptField("relationship", relationship); err != nil {
		return err
	}
	if err := ui.PromptField("birthday", birthday); err != nil {
		return err
	}

	return ui.PromptField("notes", notes)
}

func newEditRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		s, err := session.Open(ctx)
		if err != nil {
			return err
		}

		r, err := find(ctx, args[0])
		if err != nil {
			return err
		}

		f := cmd.Flags()
		if !anyChanged(f, "name", "relationship", "birthday", "notes") {
			if err := promptFields(&r.Name, &r.Relationship, &r.Birthday, &r.Notes); err != nil {
				return errors.Wrap(err, "getting the new fields")
			}
		} else {
			if f.Changed("name") {
				r.Name = strings.TrimSpace(nameFlag)
			}
			if f.Changed("relationship") {
				r.Relationship = relationshipFlag
			}
			if f.Changed("birthday") {
				r.Birthday = birthdayFlag
			}
			if f.Changed("notes") {
				r.Notes = notesFlag
			}
		}

		if err := validate.Name(r.Name); err != nil {
			return errors.Wrap(err, "invalid name")
		}
		if err := validate.Date(r.Birthday); err != nil {
			return errors.Wrap(err, "invalid birthday")
		}

		if err := s.Recipients.Update(r, s.IsOnline()); err != nil {
			return errors.Wrap(err, "editing the recipient")
		}

		updated, err := find(ctx, r.ID)
		if err != nil {
			log.Debug("finding the edited recipient: %s\n", err.Error())
			updated = r
		}

		output.Saved("edited", "recipient", updated.Name, isQueued(ctx, updated.ID))
		output.RecipientInfo(updated)

		return nil
	}
}
