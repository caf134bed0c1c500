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

package pending

import (
	"fmt"

	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var diffFlag bool

var example = `
 * List the changes that have not reached the server
 giftwise pending

 * Show what each queued change sends, compared to the local row
 giftwise pending --diff`

// NewCmd returns a new pending command
func NewCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pending",
		Short:   "List the queued changes",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&diffFlag, "diff", "d", false, "show what each queued change sends compared to the state before it")

	return cmd
}

// previous returns the entity queued by the last action before actions[i]
// for the same entity, if any
func previous(actions []database.PendingAction, i int) (database.Entity, bool, error) {
	a := actions[i]

	for j := i - 1; j >= 0; j-- {
		p := actions[j]
		if p.EntityType != a.EntityType || p.EntityID != a.EntityID {
			continue
		}
		if p.ActionType == database.ActionDelete {
			return nil, true, nil
		}

		e, err := database.DecodePayload(p.EntityType, p.Payload)
		if err != nil {
			return nil, false, err
		}
		return e, true, nil
	}

	return nil, false, nil
}

// Diff returns the line diff of actions[i] against the state queued before it
// for the same entity or, if nothing was, against the current local row
func Diff(db *database.DB, actions []database.PendingAction, i int) (string, error) {
	a := actions[i]

	before, ok, err := previous(actions, i)
	if err != nil {
		return "", errors.Wrap(err, "decoding an earlier payload")
	}

	if !ok {
		store, err := database.StoreFor(a.EntityType)
		if err != nil {
			return "", err
		}

		id, err := database.ResolveID(db, a.EntityType, a.EntityID)
		if err != nil {
			return "", errors.Wrap(err, "resolving the id")
		}

		local, found, err := store.FindEntity(db, id)
		if err != nil {
			return "", errors.Wrap(err, "finding the local row")
		}
		if found && a.ActionType != database.ActionCreate {
			before = local
		}
	}

	var queued database.Entity
	if a.ActionType != database.ActionDelete {
		if queued, err = database.DecodePayload(a.EntityType, a.Payload); err != nil {
			return "", errors.Wrap(err, "decoding the payload")
		}
	}

	return output.PayloadDiff(before, queued), nil
}

func newRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		actions, err := database.ListActions(ctx.DB)
		if err != nil {
			return errors.Wrap(err, "reading the pending actions")
		}

		if len(actions) == 0 {
			log.Info("no queued changes\n")
			return nil
		}

		for i, a := range actions {
			output.Action(a)

			if !diffFlag {
				continue
			}

			d, err := Diff(ctx.DB, actions, i)
			if err != nil {
				return errors.Wrapf(err, "computing the diff of action %d", a.ID)
			}
			fmt.Print(d)
		}

		log.Infof("%d queued changes\n", len(actions))

		return nil
	}
}
