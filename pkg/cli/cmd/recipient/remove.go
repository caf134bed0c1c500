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
	"fmt"

	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/output"
	"github.com/giftwise/giftwise/pkg/cli/session"
	"github.com/giftwise/giftwise/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var removeExample = `
 * Remove a recipient with its occasions and ideas
 giftwise recipient remove 0d8c1a4e-8f1e-4b44-a6f6-6ef1c7b2e9a1`

func newRemoveCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Short:   "Remove a recipient with its occasions and ideas",
		Aliases: []string{"rm", "d"},
		Example: removeExample,
		Args:    cobra.ExactArgs(1),
		RunE:    newRemoveRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "remove without confirmation")

	return cmd
}

func newRemoveRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		s, err := session.Open(ctx)
		if err != nil {
			return err
		}

		r, err := find(ctx, args[0])
		if err != nil {
			return err
		}

		if !yesFlag {
			ok, err := ui.Confirm(fmt.Sprintf("remove recipient %s with its occasions and ideas?", r.Name), false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := s.Recipients.Delete(r.ID, s.IsOnline()); err != nil {
			return errors.Wrap(err, "removing the recipient")
		}

		output.Saved("removed", "recipient", r.Name, isQueued(ctx, r.ID))

		return nil
	}
}
