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

package login

import (
	"net/url"
	"strings"

	"github.com/giftwise/giftwise/pkg/cli/client"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/giftwise/giftwise/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrEmptyToken is an error for a login without a session token
var ErrEmptyToken = errors.New("the session token is empty")

var example = `
  giftwise login

  * Provide the session token without a prompt
  giftwise login --token "$GIFTWISE_TOKEN"`

var tokenFlag string
var apiEndpointFlag string

// NewCmd returns a new login command
func NewCmd(ctx context.GiftCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Log in to the server with a session token",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&tokenFlag, "token", "", "the session token (prompted for if omitted)")
	f.StringVar(&apiEndpointFlag, "apiEndpoint", "", "API endpoint to connect to (defaults to value in config)")

	return cmd
}

// Do verifies the session token with the server and stores it along with the
// account it belongs to
func Do(ctx context.GiftCtx, token string) (client.SessionInfo, error) {
	ctx.SessionKey = token

	info, err := client.GetSession(ctx)
	if err != nil {
		return info, errors.Wrap(err, "verifying the session token")
	}
	if info.OwnerID == "" {
		return info, errors.New("the server did not return an account for the session")
	}

	if err := infra.SaveSession(ctx.DB, token, info.OwnerID); err != nil {
		return info, errors.Wrap(err, "saving the session")
	}

	return info, nil
}

// getServerDisplayURL returns the origin of the API endpoint
func getServerDisplayURL(ctx context.GiftCtx) string {
	u, err := url.Parse(ctx.APIEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

func getToken() (string, error) {
	if tokenFlag != "" {
		return tokenFlag, nil
	}

	var token string
	if err := ui.PromptPassword("session token", &token); err != nil {
		return "", errors.Wrap(err, "getting the session token")
	}

	return token, nil
}

func newRun(ctx context.GiftCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if apiEndpointFlag != "" {
			ctx.APIEndpoint = apiEndpointFlag
		}

		if u := getServerDisplayURL(ctx); u != "" {
			log.Infof("logging in to %s\n", u)
		}

		token, err := getToken()
		if err != nil {
			return err
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return ErrEmptyToken
		}

		previousOwner := ctx.OwnerID

		info, err := Do(ctx, token)
		if client.IsUnauthorized(err) {
			return errors.New("the server rejected the session token")
		} else if err != nil {
			return errors.Wrap(err, "logging in")
		}

		if previousOwner != "" && previousOwner != info.OwnerID {
			n, err := database.CountActions(ctx.DB)
			if err == nil && n > 0 {
				log.Warnf("%d changes queued by the previous account will be sent with the new session\n", n)
			}
		}

		log.Success("logged in\n")

		return nil
	}
}
