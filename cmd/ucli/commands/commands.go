// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the ucli command tree: session listing and
// the commands that forward work to a running application found by
// discovery.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ucli-foundation/ucli/cmd/ucli/cli"
	"github.com/ucli-foundation/ucli/lib/discovery"
	"github.com/ucli-foundation/ucli/lib/terminal"
	"github.com/ucli-foundation/ucli/lib/version"
)

// environment is what the commands touch outside the process: output
// streams and the network browser. Tests substitute both.
type environment struct {
	stdout io.Writer
	stderr io.Writer
	browse func(context.Context, discovery.Query) ([]discovery.Session, error)
}

func (e environment) renderer() *terminal.Renderer {
	return terminal.NewRenderer(e.stdout, e.stderr, terminal.DetectProfile(e.stdout), terminal.DefaultTheme)
}

// Root builds and returns the complete ucli command tree.
func Root() *cli.Command {
	return newRoot(environment{
		stdout: os.Stdout,
		stderr: os.Stderr,
		browse: discovery.Browse,
	})
}

func newRoot(env environment) *cli.Command {
	return &cli.Command{
		Name:   "ucli",
		Output: env.stderr,
		Description: `ucli: command line interface for a running Unity editor.

Sessions advertise themselves on the local network. Every command
finds one with mDNS, narrowed by --path, --project or --session, or
connects directly with --address.`,
		Subcommands: []*cli.Command{
			listSessionsCommand(env),
			compileCommand(env),
			runCommand(env),
			listCommandsCommand(env),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					fmt.Fprintf(env.stdout, "ucli %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "See which editors are running on the network",
				Command:     "ucli list-sessions",
			},
			{
				Description: "Recompile scripts in the editor for the project in this directory",
				Command:     "ucli compile --path .",
			},
			{
				Description: "Run a custom command, passing flags through to it",
				Command:     "ucli run --project Game build -- --target linux",
			},
		},
	}
}
