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

package sync

import (
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/output"
	"github.com/giftwise/giftwise/pkg/cli/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrUnreachable is an error for a sync while the server cannot be reached
var ErrUnreachable = errors.New("the server is not reachable. Queued changes are kept")

var example = `
  giftwise sync`

// NewCmd returns a new sync command
func NewCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Aliases: []string{"s"},
		Short:   "Merge the server state and send queued changes",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.OwnerID == "" {
			return session.ErrNotLoggedIn
		}

		s := session.NewDefault(ctx)
		if !s.IsOnline() {
			return ErrUnreachable
		}

		if err := s.View.Load(ctx.DB, ctx.OwnerID); err != nil {
			return errors.Wrap(err, "loading the local entities")
		}

		log.Debug("syncing with %s\n", ctx.APIEndpoint)

		rr, sr, err := s.Sync()
		if err != nil {
			return errors.Wrap(err, "syncing")
		}

		output.SyncResult(rr, sr)
		log.Success("synced\n")

		return nil
	}
}
