// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilServerIsNoop(t *testing.T) {
	t.Parallel()

	var m *Server
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.FrameReceived()
	m.FrameSent()
	m.DecodeFailed()
	m.CommandDispatched()
	m.CommandDropped(DropNoAdapter)
	m.EventDelivered()
	m.EventDropped(DropConnectionGone)
	m.SetRunning(true)
}

func TestConnectionGauge(t *testing.T) {
	t.Parallel()

	m := NewServer()
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()

	if got := testutil.ToFloat64(m.ConnectionsActive); got != 1 {
		t.Errorf("active connections: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ConnectionsTotal); got != 2 {
		t.Errorf("accepted connections: got %v, want 2", got)
	}
}

func TestDropReasons(t *testing.T) {
	t.Parallel()

	m := NewServer()
	m.EventDropped(DropConnectionGone)
	m.EventDropped(DropConnectionGone)
	m.CommandDropped(DropNoAdapter)

	if got := testutil.ToFloat64(m.EventsDropped.WithLabelValues(DropConnectionGone)); got != 2 {
		t.Errorf("events dropped: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CommandsDropped.WithLabelValues(DropNoAdapter)); got != 1 {
		t.Errorf("commands dropped: got %v, want 1", got)
	}
}

func TestRegisterTwice(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := NewServer()
	if err := m.Register(registry); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := m.Register(registry); err != nil {
		t.Fatalf("second Register: %v", err)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := NewServer()
	if err := m.Register(registry); err != nil {
		t.Fatalf("Register: %v", err)
	}
	m.SetRunning(true)
	m.FrameSent()

	server := httptest.NewServer(Handler(registry))
	defer server.Close()

	response, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	for _, name := range []string{"ucli_server_running 1", "ucli_frames_sent_total 1"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("exposition missing %q:\n%s", name, body)
		}
	}
}
