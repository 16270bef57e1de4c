// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"net"
	"slices"
	"testing"
	"time"

	"github.com/ucli-foundation/ucli/lib/server"
	"github.com/ucli-foundation/ucli/lib/testutil"
	"github.com/ucli-foundation/ucli/lib/wire"
)

const testTimeout = 5 * time.Second

// startServer runs a host whose adapter answers with respond.
func startServer(t *testing.T, respond func(host *server.Host, id server.ConnectionID, command string, args []string)) *server.Host {
	t.Helper()
	host := server.NewHost(server.HostOptions{Logger: testutil.Logger()})
	adapter := server.AdapterFunc(func(id server.ConnectionID, command string, args []string) {
		respond(host, id, command, args)
	})
	if err := host.Start(server.Config{}, adapter); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		done := host.Done()
		host.Stop()
		testutil.RequireClosed(t, done, testTimeout, "host teardown")
	})
	return host
}

func dialHost(t *testing.T, host *server.Host) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), testTimeout)
	defer cancel()
	c, err := Dial(ctx, host.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRunStreamsUntilFinished(t *testing.T) {
	t.Parallel()

	host := startServer(t, func(host *server.Host, id server.ConnectionID, command string, args []string) {
		for _, arg := range args {
			host.ConsoleOutput(id, wire.LogTypeLog, arg, "")
		}
		host.CommandFinished(id, true, wire.Result(command))
	})
	c := dialHost(t, host)

	var logs []string
	finished, err := c.Run(t.Context(), "foo", []string{"--bar", "42"}, func(message wire.ServerMessage) {
		if output, ok := message.(wire.ConsoleOutput); ok {
			logs = append(logs, output.Log)
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !finished.Success || finished.Result == nil || *finished.Result != "foo" {
		t.Errorf("finished = %+v", finished)
	}
	if !slices.Equal(logs, []string{"--bar", "42"}) {
		t.Errorf("console output = %v", logs)
	}

	// The connection stays usable for another command.
	if _, err := c.Run(t.Context(), "again", nil, nil); err != nil {
		t.Errorf("second Run: %v", err)
	}
}

func TestRunReportsFailure(t *testing.T) {
	t.Parallel()

	host := startServer(t, func(host *server.Host, id server.ConnectionID, command string, args []string) {
		host.CommandFinished(id, false, wire.Result("unknown command"))
	})
	c := dialHost(t, host)

	finished, err := c.Run(t.Context(), "nope", nil, nil)
	var commandErr *CommandError
	if !errors.As(err, &commandErr) {
		t.Fatalf("Run error = %v, want *CommandError", err)
	}
	if commandErr.Command != "nope" || *commandErr.Result != "unknown command" {
		t.Errorf("CommandError = %+v", commandErr)
	}
	if finished.Success {
		t.Error("finished reports success")
	}
	if err.Error() != `command "nope" failed: unknown command` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRunServerClosesEarly(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		wire.NewDecoder(conn).DecodeClient()
		wire.NewEncoder(conn).Encode(wire.Busy{})
		conn.Close()
	}()

	c, err := Dial(t.Context(), listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	var sawBusy bool
	_, err = c.Run(t.Context(), "compile", nil, func(message wire.ServerMessage) {
		_, sawBusy = message.(wire.Busy)
	})
	if !errors.Is(err, ErrClosedBeforeFinish) {
		t.Errorf("Run error = %v, want ErrClosedBeforeFinish", err)
	}
	if !sawBusy {
		t.Error("Busy was not passed to the handler")
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	host := startServer(t, func(*server.Host, server.ConnectionID, string, []string) {})
	c := dialHost(t, host)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Run(ctx, "never-finishes", nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run error = %v, want context.DeadlineExceeded", err)
	}
}
