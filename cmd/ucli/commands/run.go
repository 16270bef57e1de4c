// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/ucli-foundation/ucli/cmd/ucli/cli"
	"github.com/ucli-foundation/ucli/lib/client"
)

func runCommand(env environment) *cli.Command {
	var target targetFlags

	return &cli.Command{
		Name:    "run",
		Summary: "Run a custom command",
		Description: `Send a command to the selected session and stream its console
output until it finishes.

Flags for ucli go before the command name. Everything after the
command name is passed through to the command unchanged; separate
the command's own flags with "--" for readability.

Exits 1 when the application reports the command as failed.`,
		Usage: "ucli run [flags] <command> [--] [args...]",
		Examples: []cli.Example{
			{
				Description: "Run a command with arguments in the only session",
				Command:     "ucli run foo -- --bar 42",
			},
			{
				Description: "Pick a session by name prefix",
				Command:     "ucli run --session swift build",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			target.AddFlags(flagSet)
			flagSet.SetInterspersed(false)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			command, commandArgs, err := splitCommand(args)
			if err != nil {
				return err
			}
			return env.execute(ctx, &target, command, commandArgs)
		},
	}
}

// splitCommand separates the command name from its arguments. A "--"
// directly after the name is a separator and is dropped; any later
// "--" belongs to the command.
func splitCommand(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, errors.New("command name required\n\nRun 'ucli run --help' for usage.")
	}
	command, rest := args[0], args[1:]
	if len(rest) > 0 && rest[0] == "--" {
		rest = rest[1:]
	}
	return command, rest, nil
}

func compileCommand(env environment) *cli.Command {
	return forwardingCommand(env, "compile", "Compile project scripts",
		`Ask the selected session to recompile the project's scripts and
stream compiler output until compilation finishes.`)
}

func listCommandsCommand(env environment) *cli.Command {
	return forwardingCommand(env, "list-commands", "List available custom commands",
		`Ask the selected session for the custom commands it can run.`)
}

// forwardingCommand builds a command that takes no positional
// arguments and sends its own name to the application.
func forwardingCommand(env environment, name, summary, description string) *cli.Command {
	var target targetFlags

	return &cli.Command{
		Name:        name,
		Summary:     summary,
		Description: description,
		Usage:       "ucli " + name + " [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
			target.AddFlags(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return env.execute(ctx, &target, name, nil)
		},
	}
}

// execute resolves the target session, runs command there and renders
// everything the application sends back.
func (e environment) execute(ctx context.Context, target *targetFlags, command string, args []string) error {
	address, err := e.resolve(ctx, target)
	if err != nil {
		return err
	}

	connection, err := client.Dial(ctx, address)
	if err != nil {
		return err
	}
	defer connection.Close()

	renderer := e.renderer()
	_, err = connection.Run(ctx, command, args, renderer.Render)
	var commandErr *client.CommandError
	if errors.As(err, &commandErr) {
		// The renderer has already printed the failure.
		return &cli.ExitError{Code: 1}
	}
	return err
}
