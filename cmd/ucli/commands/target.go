// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/ucli-foundation/ucli/lib/discovery"
)

// targetFlags selects the session a command talks to.
type targetFlags struct {
	Path             string
	Project          string
	Session          string
	DiscoveryTimeout int
	Address          string
}

// AddFlags registers the discovery flags on flagSet.
func (t *targetFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&t.Path, "path", "", "select the session whose project is at this directory")
	flagSet.StringVar(&t.Project, "project", "", "select sessions whose project name starts with this prefix")
	flagSet.StringVar(&t.Session, "session", "", "select sessions whose name starts with this prefix")
	flagSet.IntVar(&t.DiscoveryTimeout, "discovery-timeout", int(discovery.DefaultTimeout/time.Millisecond), "how long to listen for sessions, in milliseconds")
	flagSet.StringVar(&t.Address, "address", "", "connect to host:port directly, skipping discovery")
}

func (t *targetFlags) query() discovery.Query {
	return discovery.Query{
		Path:    t.Path,
		Project: t.Project,
		Session: t.Session,
		Timeout: time.Duration(t.DiscoveryTimeout) * time.Millisecond,
	}
}

func (t *targetFlags) validate() error {
	if t.DiscoveryTimeout < 0 {
		return fmt.Errorf("--discovery-timeout must not be negative, got %d", t.DiscoveryTimeout)
	}
	return nil
}

// resolve returns the address of the one session selected by target.
func (e environment) resolve(ctx context.Context, target *targetFlags) (string, error) {
	if err := target.validate(); err != nil {
		return "", err
	}
	if target.Address != "" {
		return target.Address, nil
	}
	sessions, err := e.browse(ctx, target.query())
	if err != nil {
		return "", fmt.Errorf("discovering sessions: %w", err)
	}
	session, err := discovery.Select(sessions)
	if errors.Is(err, discovery.ErrNoSession) {
		return "", fmt.Errorf("%w (is the editor running with ucli enabled? try --discovery-timeout)", err)
	}
	if err != nil {
		return "", err
	}
	return session.Address(), nil
}
