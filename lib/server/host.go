// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/ucli-foundation/ucli/lib/metrics"
	"github.com/ucli-foundation/ucli/lib/wire"
)

// HostOptions configures a Host.
type HostOptions struct {
	// Logger receives server diagnostics. Nil discards them.
	Logger *slog.Logger

	// Advertiser publishes each started instance. Nil skips
	// advertising; clients must then be given the address directly.
	Advertiser Advertiser

	// Metrics records server activity. Nil records nothing.
	Metrics *metrics.Server
}

// Host owns the single running server instance and the installed
// adapter. The zero value is not usable; create one with NewHost.
type Host struct {
	logger     *slog.Logger
	advertiser Advertiser
	metrics    *metrics.Server

	// mu guards instance. Start, Stop and teardown take it exclusively;
	// queries and event-sink calls share it.
	mu       sync.RWMutex
	instance *instance

	adapterMu sync.RWMutex
	adapter   Adapter
}

// instance is one running server: the state teardown releases.
type instance struct {
	cancel   context.CancelFunc
	events   *eventQueue
	done     chan struct{}
	addr     net.Addr
	name     string
	registry *registry
}

var _ EventSink = (*Host)(nil)

// closedChannel is returned by Done when nothing is running.
var closedChannel = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// NewHost creates a Host with no running instance.
func NewHost(options HostOptions) *Host {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{
		logger:     logger,
		advertiser: options.Advertiser,
		metrics:    options.Metrics,
	}
}

// Start binds a listener, advertises it and starts routing. If an
// instance is already running Start does nothing and returns nil,
// except that adapter is installed when the adapter slot is empty
// (after [Host.AdapterUnavailable]). An installed adapter is never
// replaced.
//
// Bind and advertise failures are returned and leave no instance
// running.
func (h *Host) Start(config Config, adapter Adapter) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.instance != nil {
		if h.installAdapterIfEmpty(adapter) {
			h.logger.Info("adapter reattached", "instance", h.instance.name)
		}
		return nil
	}

	config = config.withDefaults()
	listenConfig := net.ListenConfig{KeepAlive: config.KeepAlive}
	listener, err := listenConfig.Listen(context.Background(), "tcp", config.ListenAddress)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", config.ListenAddress, err)
	}

	bound, _ := listener.Addr().(*net.TCPAddr)
	if bound == nil {
		bound = &net.TCPAddr{}
	}
	name := config.InstanceName
	var registration Registration
	if h.advertiser != nil {
		registration, err = h.advertiser.Advertise(config.service(bound))
		if err != nil {
			listener.Close()
			return fmt.Errorf("advertising server on port %d: %w", bound.Port, err)
		}
		name = registration.Instance()
	}

	h.adapterMu.Lock()
	h.adapter = adapter
	h.adapterMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	current := &instance{
		cancel: cancel,
		events: newEventQueue(),
		done:   make(chan struct{}),
		addr:   listener.Addr(),
		name:   name,
	}
	logger := h.logger.With("instance", name)
	r := newRouter(config, listener, current.events, h.currentAdapter, h.metrics, logger)
	current.registry = r.registry
	h.instance = current
	h.metrics.SetRunning(true)

	logger.Info("server listening",
		"address", listener.Addr().String(),
		"project", config.ProjectName,
		"advertised", registration != nil,
	)

	go h.serve(ctx, current, r, registration, logger)
	return nil
}

func (h *Host) serve(ctx context.Context, current *instance, r *router, registration Registration, logger *slog.Logger) {
	defer h.teardown(current, registration, logger)
	if err := r.run(ctx); err != nil {
		logger.Error("router stopped with error", "error", err)
	}
}

// teardown runs exactly once per instance, after the router has
// released every connection.
func (h *Host) teardown(current *instance, registration Registration, logger *slog.Logger) {
	current.cancel()
	if registration != nil {
		registration.Withdraw()
	}
	current.events.close()

	h.mu.Lock()
	if h.instance == current {
		h.instance = nil
		h.adapterMu.Lock()
		h.adapter = nil
		h.adapterMu.Unlock()
	}
	h.mu.Unlock()

	h.metrics.SetRunning(false)
	close(current.done)
	logger.Info("server stopped")
}

// Stop signals the running instance to shut down and returns without
// waiting; use Done to wait for teardown. Stop is a no-op when nothing
// is running.
func (h *Host) Stop() {
	h.mu.Lock()
	current := h.instance
	h.mu.Unlock()
	if current != nil {
		current.cancel()
	}
}

// IsRunning reports whether an instance is running.
func (h *Host) IsRunning() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.instance != nil
}

// Done returns a channel closed when the running instance has finished
// tearing down. It returns a closed channel when nothing is running.
func (h *Host) Done() <-chan struct{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.instance == nil {
		return closedChannel
	}
	return h.instance.done
}

// Addr returns the bound address of the running instance, or nil.
func (h *Host) Addr() net.Addr {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.instance == nil {
		return nil
	}
	return h.instance.addr
}

// InstanceName returns the advertised session name of the running
// instance, or "" when nothing is running or nothing was advertised.
func (h *Host) InstanceName() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.instance == nil {
		return ""
	}
	return h.instance.name
}

// Connections returns the number of registered client connections.
func (h *Host) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.instance == nil {
		return 0
	}
	return h.instance.registry.len()
}

// Emit queues message for the connection id. It never blocks.
func (h *Host) Emit(id ConnectionID, message wire.ServerMessage) bool {
	if message == nil {
		return false
	}
	h.mu.RLock()
	current := h.instance
	h.mu.RUnlock()
	if current == nil {
		return false
	}
	return current.events.push(event{id: id, message: message})
}

// ConsoleOutput forwards one console entry. Out-of-range severities are
// sent as [wire.LogTypeUnknown].
func (h *Host) ConsoleOutput(id ConnectionID, logType wire.LogType, log, stackTrace string) bool {
	return h.Emit(id, wire.ConsoleOutput{
		LogType:    wire.LogTypeFromCode(int64(logType)),
		Log:        log,
		StackTrace: stackTrace,
	})
}

// CommandFinished completes the command most recently dispatched for id.
func (h *Host) CommandFinished(id ConnectionID, success bool, result *string) bool {
	return h.Emit(id, wire.CommandFinished{Success: success, Result: result})
}

func (h *Host) Lifecycle(id ConnectionID, phase wire.Phase) bool {
	return h.Emit(id, wire.LifecycleEvent{Phase: phase})
}

func (h *Host) Busy(id ConnectionID) bool {
	return h.Emit(id, wire.Busy{})
}

// AdapterUnavailable clears the adapter slot. The listener and existing
// connections stay up; commands are dropped until Start installs an
// adapter again.
func (h *Host) AdapterUnavailable() {
	h.adapterMu.Lock()
	h.adapter = nil
	h.adapterMu.Unlock()
	h.logger.Info("adapter unavailable, dropping commands until reattached")
}

func (h *Host) currentAdapter() Adapter {
	h.adapterMu.RLock()
	defer h.adapterMu.RUnlock()
	return h.adapter
}

func (h *Host) installAdapterIfEmpty(adapter Adapter) bool {
	if adapter == nil {
		return false
	}
	h.adapterMu.Lock()
	defer h.adapterMu.Unlock()
	if h.adapter != nil {
		return false
	}
	h.adapter = adapter
	return true
}
