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
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/output"
	"github.com/giftwise/giftwise/pkg/cli/session"
	"github.com/giftwise/giftwise/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var addExample = `
 * Add a recipient
 giftwise recipient add "Jane Smith"

 * Add a recipient with details
 giftwise recipient add "Jane Smith" -r Sister -b 03-14`

func newAddCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a new recipient",
		Aliases: []string{"a", "new"},
		Example: addExample,
		Args:    cobra.ExactArgs(1),
		RunE:    newAddRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&relationshipFlag, "relationship", "r", "", "how the recipient is related to you")
	f.StringVarP(&birthdayFlag, "birthday", "b", "", "the birthday, as YYYY-MM-DD or MM-DD")
	f.StringVarP(&notesFlag, "notes", "n", "", "free-form notes")

	return cmd
}

func newAddRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if err := validate.Name(name); err != nil {
			return errors.Wrap(err, "invalid name")
		}
		if err := validate.Date(birthdayFlag); err != nil {
			return errors.Wrap(err, "invalid birthday")
		}

		s, err := session.Open(ctx)
		if err != nil {
			return err
		}

		r, err := s.Recipients.Create(database.Recipient{
			OwnerID:      ctx.OwnerID,
			Name:         name,
			Relationship: relationshipFlag,
			Birthday:     birthdayFlag,
			Notes:        notesFlag,
		}, s.IsOnline())
		if err != nil {
			return errors.Wrap(err, "adding the recipient")
		}

		output.Saved("added", "recipient", r.Name, isQueued(ctx, r.ID))
		output.RecipientInfo(r)

		return nil
	}
}
