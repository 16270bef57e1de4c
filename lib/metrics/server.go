// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ucli"

// Drop reasons recorded by Server.EventDropped and Server.CommandDropped.
const (
	DropConnectionGone = "connection_gone"
	DropNoAdapter      = "no_adapter"
	DropStopped        = "stopped"
)

// Server holds the collectors for one command server. All methods are
// safe to call on a nil *Server, which records nothing; the server
// package treats metrics as optional.
type Server struct {
	ConnectionsActive  prometheus.Gauge
	ConnectionsTotal   prometheus.Counter
	FramesReceived     prometheus.Counter
	FramesSent         prometheus.Counter
	DecodeErrors       prometheus.Counter
	CommandsDispatched prometheus.Counter
	CommandsDropped    *prometheus.CounterVec
	EventsDelivered    prometheus.Counter
	EventsDropped      *prometheus.CounterVec
	Running            prometheus.Gauge
}

// NewServer creates unregistered collectors. Call Register to expose
// them.
func NewServer() *Server {
	return &Server{
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "active",
			Help:      "Client connections currently registered",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "accepted_total",
			Help:      "Client connections accepted",
		}),
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "received_total",
			Help:      "Frames decoded from clients",
		}),
		FramesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "sent_total",
			Help:      "Frames written to clients",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "decode_errors_total",
			Help:      "Connections closed because a frame failed to decode or exceeded the size limit",
		}),
		CommandsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "dispatched_total",
			Help:      "Commands handed to the application adapter",
		}),
		CommandsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "dropped_total",
			Help:      "Commands discarded before reaching the application adapter",
		}, []string{"reason"}),
		EventsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "delivered_total",
			Help:      "Application events enqueued to a client connection",
		}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Application events discarded because their connection was unreachable",
		}, []string{"reason"}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "running",
			Help:      "1 while a server instance is running, 0 otherwise",
		}),
	}
}

// Register adds every collector to registerer. Collectors that are
// already registered are not an error, so a host that restarts its
// server can register the same Server again.
func (m *Server) Register(registerer prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.ConnectionsActive, m.ConnectionsTotal,
		m.FramesReceived, m.FramesSent, m.DecodeErrors,
		m.CommandsDispatched, m.CommandsDropped,
		m.EventsDelivered, m.EventsDropped,
		m.Running,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// Handler returns an HTTP handler serving the metrics in gatherer in
// the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Server) ConnectionOpened() {
	if m == nil {
		return
	}
	m.ConnectionsActive.Inc()
	m.ConnectionsTotal.Inc()
}

func (m *Server) ConnectionClosed() {
	if m == nil {
		return
	}
	m.ConnectionsActive.Dec()
}

func (m *Server) FrameReceived() {
	if m == nil {
		return
	}
	m.FramesReceived.Inc()
}

func (m *Server) FrameSent() {
	if m == nil {
		return
	}
	m.FramesSent.Inc()
}

func (m *Server) DecodeFailed() {
	if m == nil {
		return
	}
	m.DecodeErrors.Inc()
}

func (m *Server) CommandDispatched() {
	if m == nil {
		return
	}
	m.CommandsDispatched.Inc()
}

func (m *Server) CommandDropped(reason string) {
	if m == nil {
		return
	}
	m.CommandsDropped.WithLabelValues(reason).Inc()
}

func (m *Server) EventDelivered() {
	if m == nil {
		return
	}
	m.EventsDelivered.Inc()
}

func (m *Server) EventDropped(reason string) {
	if m == nil {
		return
	}
	m.EventsDropped.WithLabelValues(reason).Inc()
}

// SetRunning records whether a server instance is active.
func (m *Server) SetRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.Running.Set(1)
	} else {
		m.Running.Set(0)
	}
}
