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

package logout

import (
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is an error for logging out when not logged in
var ErrNotLoggedIn = errors.New("not logged in")

var example = `
  giftwise logout`

// NewCmd returns a new logout command
func NewCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logout",
		Short:   "Forget the session token",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Do removes the session key. Local entities and queued changes are kept and
// are sent after the next login.
func Do(ctx context.GiftCtx) error {
	if ctx.SessionKey == "" {
		return ErrNotLoggedIn
	}

	if err := infra.ClearSession(ctx.DB); err != nil {
		return errors.Wrap(err, "deleting session key")
	}

	return nil
}

func newRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		err := Do(ctx)
		if err == ErrNotLoggedIn {
			log.Error("not logged in\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging out")
		}

		n, err := database.CountActions(ctx.DB)
		if err == nil && n > 0 {
			log.Warnf("%d queued changes will be sent after the next login\n", n)
		}

		log.Success("logged out\n")

		return nil
	}
}
