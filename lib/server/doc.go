// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package server is the connection-multiplexing command server embedded
// in the application. Many independent clients connect over TCP, send
// [wire.CommandRequest] frames, and receive the asynchronous
// [wire.ServerMessage] events the application emits in response.
//
// Each accepted connection is assigned a random [ConnectionID] and gets
// two goroutines: a read pump that decodes frames and forwards commands,
// and a write pump that drains the connection's bounded outbound
// channel. A router runs three loops under one cancellation signal:
//
//   - accept: mints ids, registers connections, spawns pumps
//   - command dispatch: hands each command to the registered [Adapter]
//   - event delivery: looks up the connection an event is addressed to
//     and enqueues it on that connection's outbound channel
//
// The application correlates a command with its responses solely by the
// ConnectionID passed to [Adapter.Dispatch]. Responses addressed to a
// connection that has gone away are dropped.
//
// [Host] owns at most one running instance. Start and Stop are
// idempotent, and the [EventSink] methods are safe to call from any
// goroutine whether or not an instance is running.
package server
