// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ucli-foundation/ucli/lib/server"
	"github.com/ucli-foundation/ucli/lib/wire"
)

// hostControl is the part of *server.Host the application drives:
// the event sink plus Start, which reattaches the adapter after a
// simulated reload.
type hostControl interface {
	server.EventSink
	Start(config server.Config, adapter server.Adapter) error
}

// application is a stand-in for the embedding editor. It implements a
// handful of commands that exercise every server message type and the
// adapter reload flow.
type application struct {
	host        hostControl
	config      server.Config
	logger      *slog.Logger
	reloadDelay time.Duration

	// pending tracks commands that finish asynchronously.
	pending sync.WaitGroup

	// mu guards stopped. A reload must not restart a stopped host.
	mu      sync.Mutex
	stopped bool
}

type handler struct {
	summary string
	run     func(a *application, id server.ConnectionID, args []string)
}

// handlers returns the command table.
func handlers() map[string]handler {
	return map[string]handler{
		"echo": {
			summary: "print the arguments back",
			run:     (*application).echo,
		},
		"log": {
			summary: "emit one console entry of every severity",
			run:     (*application).logSeverities,
		},
		"compile": {
			summary: "simulate a script compilation followed by an assembly reload",
			run:     (*application).compile,
		},
		"sleep": {
			summary: "report busy, then finish after the given milliseconds",
			run:     (*application).sleep,
		},
		"fail": {
			summary: "finish unsuccessfully with the arguments as the error",
			run:     (*application).fail,
		},
		"list-commands": {
			summary: "list the commands this application accepts",
			run:     (*application).listCommands,
		},
	}
}

var _ server.Adapter = (*application)(nil)

// Dispatch runs command. Handlers never block the dispatch loop for
// longer than it takes to emit their first events.
func (a *application) Dispatch(id server.ConnectionID, command string, args []string) {
	a.logger.Debug("command received", "connection", id, "command", command, "args", args)
	entry, ok := handlers()[command]
	if !ok {
		a.host.CommandFinished(id, false, wire.Result(fmt.Sprintf("unknown command %q; run list-commands to see what is available", command)))
		return
	}
	entry.run(a, id, args)
}

// shutdown prevents further reattachment. Call it before stopping
// the host.
func (a *application) shutdown() {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
}

// wait blocks until asynchronous commands have finished.
func (a *application) wait() {
	a.pending.Wait()
}

// reattach reinstalls the adapter unless the application is shutting
// down.
func (a *application) reattach() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return false, nil
	}
	return true, a.host.Start(a.config, a)
}

func (a *application) echo(id server.ConnectionID, args []string) {
	text := strings.Join(args, " ")
	a.host.ConsoleOutput(id, wire.LogTypeLog, text, "")
	a.host.CommandFinished(id, true, wire.Result(text))
}

func (a *application) logSeverities(id server.ConnectionID, _ []string) {
	a.host.ConsoleOutput(id, wire.LogTypeLog, "a plain log line", "")
	a.host.ConsoleOutput(id, wire.LogTypeWarning, "a warning", "")
	a.host.ConsoleOutput(id, wire.LogTypeError, "an error", "")
	a.host.ConsoleOutput(id, wire.LogTypeAssert, "an assertion failure", "")
	a.host.ConsoleOutput(id, wire.LogTypeException, "NullReferenceException: Object reference not set",
		"Player.Update () (at Assets/Scripts/Player.cs:42)\nUnityEngine.Object.Update ()")
	a.host.CommandFinished(id, true, nil)
}

// compile reports compilation, then drops the adapter for the length
// of a simulated assembly reload and reattaches it through Start, the
// way an editor reinitializes after a domain reload.
func (a *application) compile(id server.ConnectionID, _ []string) {
	a.host.Lifecycle(id, wire.PhaseCompilationStarted)
	project := a.config.ProjectName
	if project == "" {
		project = "project"
	}
	a.host.ConsoleOutput(id, wire.LogTypeLog, "compiling scripts in "+project, "")
	a.host.Lifecycle(id, wire.PhaseCompilationFinished)
	a.host.Lifecycle(id, wire.PhaseAssemblyReloadStarted)
	a.host.AdapterUnavailable()

	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		time.Sleep(a.reloadDelay)
		reattached, err := a.reattach()
		if !reattached {
			return
		}
		if err != nil {
			a.logger.Error("reattaching adapter after reload", "error", err)
			a.host.CommandFinished(id, false, wire.Result("assembly reload failed: "+err.Error()))
			return
		}
		a.host.Lifecycle(id, wire.PhaseAssemblyReloadFinished)
		a.host.CommandFinished(id, true, wire.Result("compilation succeeded"))
	}()
}

func (a *application) sleep(id server.ConnectionID, args []string) {
	if len(args) != 1 {
		a.host.CommandFinished(id, false, wire.Result("usage: sleep <milliseconds>"))
		return
	}
	milliseconds, err := strconv.Atoi(args[0])
	if err != nil || milliseconds < 0 {
		a.host.CommandFinished(id, false, wire.Result(fmt.Sprintf("invalid duration %q", args[0])))
		return
	}

	a.host.Busy(id)
	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		time.Sleep(time.Duration(milliseconds) * time.Millisecond)
		a.host.CommandFinished(id, true, wire.Result(fmt.Sprintf("slept %dms", milliseconds)))
	}()
}

func (a *application) fail(id server.ConnectionID, args []string) {
	reason := strings.Join(args, " ")
	if reason == "" {
		reason = "failed on request"
	}
	a.host.CommandFinished(id, false, wire.Result(reason))
}

func (a *application) listCommands(id server.ConnectionID, _ []string) {
	table := handlers()
	names := slices.Sorted(maps.Keys(table))

	var builder strings.Builder
	for _, name := range names {
		fmt.Fprintf(&builder, "%-14s %s\n", name, table[name].summary)
	}
	a.host.CommandFinished(id, true, wire.Result(strings.TrimRight(builder.String(), "\n")))
}
