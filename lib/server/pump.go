// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"github.com/ucli-foundation/ucli/lib/metrics"
	"github.com/ucli-foundation/ucli/lib/netutil"
	"github.com/ucli-foundation/ucli/lib/wire"
)

// readChunkSize is the size of each socket read fed to the frame
// decoder.
const readChunkSize = 32 * 1024

// command is a decoded CommandRequest tagged with the connection that
// sent it.
type command struct {
	id   ConnectionID
	name string
	args []string
}

// connection is the registry's handle for one accepted client. The
// outbound channel is never closed; senders select on done instead.
type connection struct {
	id       ConnectionID
	conn     net.Conn
	outbound chan wire.ServerMessage
	done     chan struct{}

	releaseOnce sync.Once
	registry    *registry
	metrics     *metrics.Server
	logger      *slog.Logger
}

func newConnection(id ConnectionID, conn net.Conn, capacity int, registry *registry, m *metrics.Server, logger *slog.Logger) *connection {
	return &connection{
		id:       id,
		conn:     conn,
		outbound: make(chan wire.ServerMessage, capacity),
		done:     make(chan struct{}),
		registry: registry,
		metrics:  m,
		logger:   logger,
	}
}

// release ends the connection: signals done, closes the socket (which
// unblocks the other pump) and removes the registry entry. Both pumps
// defer it; only the first call has any effect.
func (c *connection) release() {
	c.releaseOnce.Do(func() {
		close(c.done)
		c.conn.Close()
		c.metrics.ConnectionClosed()
		c.registry.remove(c.id)
		c.logger.Debug("connection released")
	})
}

// deliver enqueues message on the outbound channel, waiting while the
// channel is full. It returns false if the connection is done or ctx
// is cancelled before the message is queued.
func (c *connection) deliver(ctx context.Context, message wire.ServerMessage) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.outbound <- message:
		return true
	case <-c.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// readPump decodes frames from the socket and forwards each command.
// It returns on end of stream, a read error, an undecodable or
// oversized frame, or cancellation.
func (c *connection) readPump(ctx context.Context, commands chan<- command, maxFrameSize int) {
	defer c.release()

	var decoder wire.FrameDecoder
	chunk := make([]byte, readChunkSize)
	for {
		n, err := c.conn.Read(chunk)
		if n > 0 {
			decoder.Feed(chunk[:n])
			if !c.forwardFrames(ctx, &decoder, commands, maxFrameSize) {
				return
			}
		}
		if err != nil {
			if netutil.IsExpectedCloseError(err) {
				c.logger.Debug("client disconnected")
			} else {
				c.logger.Warn("read failed", "error", err)
			}
			return
		}
	}
}

// forwardFrames consumes every complete frame buffered in decoder. It
// returns false when the connection must close.
func (c *connection) forwardFrames(ctx context.Context, decoder *wire.FrameDecoder, commands chan<- command, maxFrameSize int) bool {
	for {
		if length, ok := decoder.NextLength(); ok && maxFrameSize > 0 && length > maxFrameSize {
			c.logger.Warn("closing connection after oversized frame",
				"error", &wire.FrameSizeError{Length: length, Limit: maxFrameSize})
			c.metrics.DecodeFailed()
			return false
		}

		message, ok, err := decoder.NextClient()
		if err != nil {
			var decodeErr *wire.DeserializationError
			if errors.As(err, &decodeErr) {
				c.logger.Warn("closing connection after undecodable frame",
					"error", err,
					"payload", decodeErr.Diagnostic(),
				)
			} else {
				c.logger.Warn("closing connection after undecodable frame", "error", err)
			}
			c.metrics.DecodeFailed()
			return false
		}
		if !ok {
			return true
		}
		c.metrics.FrameReceived()

		switch message := message.(type) {
		case wire.CommandRequest:
			c.logger.Debug("command received", "command", message.Command, "args", len(message.Args))
			select {
			case commands <- command{id: c.id, name: message.Command, args: message.Args}:
			case <-c.done:
				return false
			case <-ctx.Done():
				return false
			}
		}
	}
}

// writePump drains the outbound channel to the socket in arrival order.
// It returns on a write error, release of the connection, or
// cancellation.
func (c *connection) writePump(ctx context.Context) {
	defer c.release()

	var buffer []byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case message := <-c.outbound:
			frame, err := wire.AppendEncoded(buffer[:0], message)
			if err != nil {
				c.logger.Error("dropping unencodable message", "kind", message.Kind(), "error", err)
				continue
			}
			buffer = frame
			if _, err := c.conn.Write(frame); err != nil {
				if netutil.IsExpectedCloseError(err) {
					c.logger.Debug("client gone during write", "error", err)
				} else {
					c.logger.Warn("write failed", "error", err)
				}
				return
			}
			c.metrics.FrameSent()
		}
	}
}
