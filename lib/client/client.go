// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package client connects to a ucli server and runs commands on it.
//
// A Client holds one TCP connection. Run sends a command and streams
// every server message to a handler until the command's
// CommandFinished arrives:
//
//	c, err := client.Dial(ctx, session.Address())
//	...
//	finished, err := c.Run(ctx, "compile", nil, renderer.Render)
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/ucli-foundation/ucli/lib/wire"
)

// dialTimeout bounds the connect phase only.
const dialTimeout = 5 * time.Second

// maxFrameSize matches the server's default receive limit.
const maxFrameSize = 16 * 1024 * 1024

// CommandError is returned by Run when the application reports that
// the command failed.
type CommandError struct {
	Command string
	Result  *string
}

func (e *CommandError) Error() string {
	if e.Result == nil || *e.Result == "" {
		return fmt.Sprintf("command %q failed", e.Command)
	}
	return fmt.Sprintf("command %q failed: %s", e.Command, *e.Result)
}

// ErrClosedBeforeFinish is returned by Run when the server closes the
// connection before the command finishes.
var ErrClosedBeforeFinish = errors.New("server closed the connection before the command finished")

// Client is one connection to a server. It is not safe for concurrent
// use.
type Client struct {
	conn    net.Conn
	encoder *wire.Encoder
	decoder *wire.Decoder
}

// Dial connects to address (host:port).
func Dial(ctx context.Context, address string) (*Client, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", address, err)
	}
	return New(conn), nil
}

// New wraps an established connection.
func New(conn net.Conn) *Client {
	decoder := wire.NewDecoder(conn)
	decoder.MaxFrameSize = maxFrameSize
	return &Client{conn: conn, encoder: wire.NewEncoder(conn), decoder: decoder}
}

// Send writes one command request.
func (c *Client) Send(command string, args []string) error {
	if args == nil {
		args = []string{}
	}
	if err := c.encoder.Encode(wire.CommandRequest{Command: command, Args: args}); err != nil {
		return fmt.Errorf("sending %q: %w", command, err)
	}
	return nil
}

// Receive reads the next server message. It returns io.EOF when the
// server closes the connection between messages.
func (c *Client) Receive() (wire.ServerMessage, error) {
	return c.decoder.DecodeServer()
}

// Run sends command and passes every message the server sends to
// handle, including the final CommandFinished, which is also returned.
// A failed command returns the CommandFinished together with a
// *CommandError. Cancelling ctx closes the connection.
func (c *Client) Run(ctx context.Context, command string, args []string, handle func(wire.ServerMessage)) (wire.CommandFinished, error) {
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	if err := c.Send(command, args); err != nil {
		return wire.CommandFinished{}, c.contextError(ctx, err)
	}
	for {
		message, err := c.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = ErrClosedBeforeFinish
			}
			return wire.CommandFinished{}, c.contextError(ctx, fmt.Errorf("running %q: %w", command, err))
		}
		if handle != nil {
			handle(message)
		}
		finished, ok := message.(wire.CommandFinished)
		if !ok {
			continue
		}
		if !finished.Success {
			return finished, &CommandError{Command: command, Result: finished.Result}
		}
		return finished, nil
	}
}

// contextError prefers the context's error when cancellation caused
// err.
func (c *Client) contextError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
