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

// Package recipient implements the commands managing recipients
package recipient

import (
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var relationshipFlag string
var birthdayFlag string
var notesFlag string
var nameFlag string
var yesFlag bool

// NewCmd returns a new recipient command
func NewCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipient",
		Short:   "Manage the people you track gifts for",
		Aliases: []string{"r"},
	}

	cmd.AddCommand(newAddCmd(ctx))
	cmd.AddCommand(newEditCmd(ctx))
	cmd.AddCommand(newRemoveCmd(ctx))

	return cmd
}

func find(ctx context.GiftCtx, id string) (database.Recipient, error) {
	resolved, err := database.ResolveID(ctx.DB, database.KindRecipient, id)
	if err != nil {
		return database.Recipient{}, errors.Wrap(err, "resolving the id")
	}

	r, ok, err := database.Recipients.Find(ctx.DB, resolved)
	if err != nil {
		return r, errors.Wrap(err, "finding the recipient")
	}
	if !ok {
		return r, errors.Errorf("recipient %s not found", id)
	}

	return r, nil
}

func isQueued(ctx context.GiftCtx, id string) bool {
	ok, err := database.HasPendingFor(ctx.DB, database.KindRecipient, id)
	return err == nil && ok
}

func anyChanged(f *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if f.Changed(name) {
			return true
		}
	}

	return false
}
