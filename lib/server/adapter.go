// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net"

	"github.com/ucli-foundation/ucli/lib/wire"
)

// Adapter is the embedded application's command entry point.
//
// Dispatch is called from the router's command loop, one command at a
// time, in arrival order per connection. It must not block: the
// application queues the work and later reports results through the
// [EventSink] using the same id. Calling EventSink methods from inside
// Dispatch is allowed.
type Adapter interface {
	Dispatch(id ConnectionID, command string, args []string)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(id ConnectionID, command string, args []string)

func (f AdapterFunc) Dispatch(id ConnectionID, command string, args []string) {
	f(id, command, args)
}

// EventSink is the application's path back to its clients. Every method
// returns false when the event could not be queued because no server
// instance is running; a true return does not guarantee delivery, since
// the addressed connection may close first.
type EventSink interface {
	Emit(id ConnectionID, message wire.ServerMessage) bool
	ConsoleOutput(id ConnectionID, logType wire.LogType, log, stackTrace string) bool
	CommandFinished(id ConnectionID, success bool, result *string) bool
	Lifecycle(id ConnectionID, phase wire.Phase) bool
	Busy(id ConnectionID) bool

	// AdapterUnavailable tells the server the adapter can no longer
	// accept commands (for example during an assembly reload).
	// Commands arriving until the next Start are dropped.
	AdapterUnavailable()
}

// Service-discovery constants shared by the advertiser and clients.
const (
	ServiceType   = "_unity-cli._tcp"
	ServiceDomain = "local."

	PropertyProjectPath  = "project-path"
	PropertyProjectName  = "project-name"
	PropertyUnityVersion = "unity-version"
)

// Service describes a running server to the discovery layer.
type Service struct {
	// Instance is the human-readable session name. Advertisers may
	// choose one when it is empty.
	Instance string

	// IP is the address the listener is bound to. An unspecified
	// address means every interface accepts connections.
	IP         net.IP
	Port       int
	Properties map[string]string
}

// Advertiser publishes a running server so clients can find it.
type Advertiser interface {
	Advertise(service Service) (Registration, error)
}

// Registration is a live advertisement. Withdraw stops advertising and
// is called exactly once when the instance tears down.
type Registration interface {
	Instance() string
	Withdraw()
}
