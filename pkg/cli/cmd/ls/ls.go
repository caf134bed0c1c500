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

package ls

import (
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/netmon"
	"github.com/giftwise/giftwise/pkg/cli/notify"
	"github.com/giftwise/giftwise/pkg/cli/output"
	"github.com/giftwise/giftwise/pkg/cli/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * List every recipient with their occasions and ideas
 giftwise ls`

// NewCmd returns a new ls command
func NewCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l", "list"},
		Short:   "List recipients, occasions and gift ideas",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    NewRun(ctx),
	}

	return cmd
}

// pendingRefs returns the entities with queued actions
func pendingRefs(db *database.DB) (map[database.Ref]bool, error) {
	actions, err := database.ListActions(db)
	if err != nil {
		return nil, err
	}

	ret := map[database.Ref]bool{}
	for _, a := range actions {
		id, err := database.ResolveID(db, a.EntityType, a.EntityID)
		if err != nil {
			return nil, err
		}
		ret[database.Ref{Kind: a.EntityType, ID: id}] = true
	}

	return ret, nil
}

// NewRun returns a new run function for ls. It reads the local store only.
func NewRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.OwnerID == "" {
			return session.ErrNotLoggedIn
		}

		s := session.New(ctx, netmon.NewStatic(false), notify.Console{})
		if err := s.Start(); err != nil {
			return errors.Wrap(err, "loading the entities")
		}

		pending, err := pendingRefs(ctx.DB)
		if err != nil {
			return errors.Wrap(err, "reading the pending actions")
		}

		output.Tree(s.View, pending)

		return nil
	}
}
