/* Copyright (C) 2025 Giftwise Authors
 *
 * This file is part of Giftwise.
 *
 * Giftwise is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Giftwise is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with Giftwise.  If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage sessions",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionRevokeCmd())
	cmd.AddCommand(newSessionPurgeCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var f dbFlags
	var ownerID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session for an owner and print its key",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := setupApp(f)
			if err != nil {
				return err
			}
			defer cleanup()

			session, err := a.CreateSession(ownerID)
			if err != nil {
				return errors.Wrap(err, "creating the session")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session created successfully\n")
			fmt.Fprintf(out, "Owner: %s\n", session.OwnerID)
			fmt.Fprintf(out, "Key: %s\n", session.Key)
			fmt.Fprintf(out, "Expires: %s\n", session.ExpiresAt.Format("2006-01-02 15:04:05 MST"))

			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&ownerID, "ownerId", "", "Owner of the session (required)")
	cmd.MarkFlagRequired("ownerId")

	return cmd
}

func newSessionRevokeCmd() *cobra.Command {
	var f dbFlags
	var ownerID string
	var yes bool

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke every session of an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !yes {
				ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Revoke every session of %s?", ownerID), false)
				if err != nil {
					return errors.Wrap(err, "getting confirmation")
				}
				if !ok {
					fmt.Fprintln(out, "Aborted by user")
					return nil
				}
			}

			a, cleanup, err := setupApp(f)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := a.DeleteOwnerSessions(ownerID)
			if err != nil {
				return errors.Wrap(err, "revoking the sessions")
			}

			fmt.Fprintf(out, "Revoked %d sessions of %s\n", n, ownerID)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&ownerID, "ownerId", "", "Owner of the sessions (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation")
	cmd.MarkFlagRequired("ownerId")

	return cmd
}

func newSessionPurgeCmd() *cobra.Command {
	var f dbFlags

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := setupApp(f)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := a.PurgeExpiredSessions()
			if err != nil {
				return errors.Wrap(err, "purging the sessions")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired sessions\n", n)
			return nil
		},
	}

	f.register(cmd)

	return cmd
}
