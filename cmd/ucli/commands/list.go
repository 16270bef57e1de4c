// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ucli-foundation/ucli/cmd/ucli/cli"
	"github.com/ucli-foundation/ucli/lib/discovery"
)

type listSessionsParams struct {
	cli.JSONOutput
	target targetFlags
}

// sessionSummary is the --json shape of one session.
type sessionSummary struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	HostName     string `json:"host_name"`
	ProjectName  string `json:"project_name"`
	ProjectPath  string `json:"project_path"`
	UnityVersion string `json:"unity_version"`
}

func listSessionsCommand(env environment) *cli.Command {
	var params listSessionsParams

	return &cli.Command{
		Name:    "list-sessions",
		Summary: "List available sessions",
		Description: `List the editor sessions advertised on the local network.

The discovery flags filter the list the same way they select a
session for the other commands. An exact --project or --session
match, or a --path match, lists only that session.`,
		Usage: "ucli list-sessions [flags]",
		Examples: []cli.Example{
			{
				Description: "List everything found within one second",
				Command:     "ucli list-sessions --discovery-timeout 1000",
			},
			{
				Description: "Output as JSON for scripting",
				Command:     "ucli list-sessions --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list-sessions", pflag.ContinueOnError)
			params.target.AddFlags(flagSet)
			params.AddJSONFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			if err := params.target.validate(); err != nil {
				return err
			}
			sessions, err := env.browse(ctx, params.target.query())
			if err != nil {
				return fmt.Errorf("discovering sessions: %w", err)
			}

			summaries := make([]sessionSummary, 0, len(sessions))
			for _, session := range sessions {
				summaries = append(summaries, sessionSummary{
					Name:         session.Name,
					Address:      session.Address(),
					HostName:     session.HostName,
					ProjectName:  session.ProjectName,
					ProjectPath:  session.ProjectPath,
					UnityVersion: session.UnityVersion,
				})
			}
			params.JSONOutput.SetWriter(env.stdout)
			if done, err := params.EmitJSON(summaries); done {
				return err
			}
			return formatSessions(env, sessions)
		},
	}
}

func formatSessions(env environment, sessions []discovery.Session) error {
	if len(sessions) == 0 {
		fmt.Fprintln(env.stderr, "No sessions found.")
		return nil
	}
	writer := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "SESSION\tPROJECT\tVERSION\tADDRESS\tPATH")
	for _, session := range sessions {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			session.Name, session.ProjectName, session.UnityVersion, session.Address(), session.ProjectPath)
	}
	return writer.Flush()
}
