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

// Package cmd provides the commands of the server
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/giftwise/giftwise/pkg/server/buildinfo"
	"github.com/spf13/cobra"
)

// NewRoot returns the root command of the server. Prompts read from in and
// command output goes to out.
func NewRoot(in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "giftwise-server",
		Short:         "Giftwise server - the sync backend of giftwise",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.AddCommand(newStartCmd())
	root.AddCommand(newSessionCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "giftwise-server-%s\n", buildinfo.Version)
		},
	}
}

// Execute is the main entry point for the CLI
func Execute() {
	if err := NewRoot(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
