// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Ucli-host runs the ucli server around a demonstration application,
// for trying the client without an editor and for end-to-end testing.
//
// It reads a YAML config (--config, or the file named by UCLI_CONFIG),
// binds the server, advertises it over mDNS when enabled and serves
// Prometheus metrics when metrics.listen_address is set. The demo
// application accepts echo, log, compile, sleep, fail and
// list-commands; compile walks through the same lifecycle events and
// adapter reload an editor performs.
//
// SIGINT or SIGTERM stops the server and withdraws the advertisement.
package main
