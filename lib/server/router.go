// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ucli-foundation/ucli/lib/metrics"
)

// Accept retry backoff bounds.
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// router ties the listener, the registry and the adapter together for
// one server instance.
type router struct {
	config   Config
	listener net.Listener
	registry *registry
	events   *eventQueue
	commands chan command

	// adapter returns the currently installed adapter, or nil.
	adapter func() Adapter

	metrics *metrics.Server
	logger  *slog.Logger

	connections sync.WaitGroup
}

func newRouter(config Config, listener net.Listener, events *eventQueue, adapter func() Adapter, m *metrics.Server, logger *slog.Logger) *router {
	return &router{
		config:   config,
		listener: listener,
		registry: newRegistry(),
		events:   events,
		commands: make(chan command, config.CommandCapacity),
		adapter:  adapter,
		metrics:  m,
		logger:   logger,
	}
}

// run serves until ctx is cancelled or any loop exits, then closes the
// listener, releases every live connection and waits for all pumps.
func (r *router) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unblock Accept when the router stops.
	go func() {
		<-ctx.Done()
		r.listener.Close()
	}()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer cancel()
		return r.acceptLoop(ctx)
	})
	group.Go(func() error {
		defer cancel()
		return r.deliverLoop(ctx)
	})
	group.Go(func() error {
		defer cancel()
		return r.dispatchLoop(ctx)
	})
	err := group.Wait()

	for _, c := range r.registry.snapshot() {
		c.release()
	}
	r.connections.Wait()
	return err
}

func (r *router) acceptLoop(ctx context.Context) error {
	var backoff time.Duration
	for {
		conn, err := r.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			backoff = nextAcceptBackoff(backoff)
			r.logger.Error("accept failed", "error", err, "retry_in", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		backoff = 0
		r.admit(ctx, conn)
	}
}

func nextAcceptBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return minAcceptBackoff
	}
	return min(current*2, maxAcceptBackoff)
}

// admit registers conn under a fresh id and starts its pumps.
func (r *router) admit(ctx context.Context, conn net.Conn) {
	id := NewConnectionID()
	logger := r.logger.With("connection", id.String(), "remote", conn.RemoteAddr().String())
	c := newConnection(id, conn, r.config.OutboundCapacity, r.registry, r.metrics, logger)

	r.registry.insert(id, c)
	r.metrics.ConnectionOpened()
	logger.Debug("connection accepted")

	r.connections.Add(2)
	go func() {
		defer r.connections.Done()
		c.writePump(ctx)
	}()
	go func() {
		defer r.connections.Done()
		c.readPump(ctx, r.commands, r.config.MaxFrameSize)
	}()
}

// deliverLoop routes application events to their connections. A full
// outbound channel blocks this loop, delaying events for every
// connection until the slow client drains or disconnects.
func (r *router) deliverLoop(ctx context.Context) error {
	for {
		e, ok := r.events.pop(ctx)
		if !ok {
			return nil
		}
		c, found := r.registry.lookup(e.id)
		if !found {
			r.logger.Debug("dropping event for unknown connection", "connection", e.id.String(), "kind", e.message.Kind())
			r.metrics.EventDropped(metrics.DropConnectionGone)
			continue
		}
		if !c.deliver(ctx, e.message) {
			if ctx.Err() != nil {
				r.metrics.EventDropped(metrics.DropStopped)
				return nil
			}
			r.logger.Debug("dropping event for closed connection", "connection", e.id.String(), "kind", e.message.Kind())
			r.metrics.EventDropped(metrics.DropConnectionGone)
			continue
		}
		r.metrics.EventDelivered()
	}
}

// dispatchLoop hands commands to the adapter in arrival order.
func (r *router) dispatchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-r.commands:
			adapter := r.adapter()
			if adapter == nil {
				r.logger.Debug("dropping command, no adapter installed", "connection", cmd.id.String(), "command", cmd.name)
				r.metrics.CommandDropped(metrics.DropNoAdapter)
				continue
			}
			adapter.Dispatch(cmd.id, cmd.name, cmd.args)
			r.metrics.CommandDispatched()
		}
	}
}
