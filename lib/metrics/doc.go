// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics defines the Prometheus collectors for the command
// server: connection counts, frame throughput, decode failures, and
// commands and events that were dispatched, delivered or dropped.
//
// Metrics are optional. The server accepts a nil *[Server] and every
// recording method is a no-op on nil, so embedding hosts that do not
// scrape metrics pay nothing beyond a nil check.
package metrics
