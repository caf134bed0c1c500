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

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/giftwise/giftwise/pkg/cli/infra"
	"github.com/giftwise/giftwise/pkg/cli/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	// commands
	"github.com/giftwise/giftwise/pkg/cli/cmd/idea"
	"github.com/giftwise/giftwise/pkg/cli/cmd/login"
	"github.com/giftwise/giftwise/pkg/cli/cmd/logout"
	"github.com/giftwise/giftwise/pkg/cli/cmd/ls"
	"github.com/giftwise/giftwise/pkg/cli/cmd/occasion"
	"github.com/giftwise/giftwise/pkg/cli/cmd/pending"
	"github.com/giftwise/giftwise/pkg/cli/cmd/recipient"
	"github.com/giftwise/giftwise/pkg/cli/cmd/root"
	"github.com/giftwise/giftwise/pkg/cli/cmd/sync"
	"github.com/giftwise/giftwise/pkg/cli/cmd/version"
	"github.com/giftwise/giftwise/pkg/cli/cmd/watch"
)

// apiEndpoint and versionTag are populated during link time
var apiEndpoint string
var versionTag = "master"

// parseDBPath extracts --dbPath flag value from command line arguments
// regardless of where it appears (before or after subcommand).
// Returns empty string if not found.
func parseDBPath(args []string) string {
	for i, arg := range args {
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// parseOffline reports whether the --offline flag is set anywhere in the
// command line arguments
func parseOffline(args []string) bool {
	for _, arg := range args {
		if arg == "--offline" {
			return true
		}
		if strings.HasPrefix(arg, "--offline=") {
			ok, err := strconv.ParseBool(strings.TrimPrefix(arg, "--offline="))
			return err == nil && ok
		}
	}
	return false
}

func main() {
	// The context is built before cobra parses the flags, and the persistent
	// flags can appear after the subcommand.
	dbPath := parseDBPath(os.Args[1:])

	ctx, err := infra.Init(versionTag, apiEndpoint, dbPath)
	if err != nil {
		panic(errors.Wrap(err, "initializing context"))
	}
	defer ctx.DB.Close()

	ctx.Offline = parseOffline(os.Args[1:])

	root.Register(recipient.NewCmd(*ctx))
	root.Register(occasion.NewCmd(*ctx))
	root.Register(idea.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(sync.NewCmd(*ctx))
	root.Register(pending.NewCmd(*ctx))
	root.Register(watch.NewCmd(*ctx))
	root.Register(login.NewCmd(*ctx))
	root.Register(logout.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
