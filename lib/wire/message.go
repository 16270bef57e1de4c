// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"

	"github.com/ucli-foundation/ucli/lib/codec"
)

// Message kinds carried in the envelope "kind" field. The kind selects
// which variant the "body" decodes into.
const (
	KindCommandRequest  = "command_request"
	KindBusy            = "busy"
	KindConsoleOutput   = "console_output"
	KindCommandFinished = "command_finished"
	KindLifecycle       = "lifecycle"
)

// Message is implemented by every protocol message, in both directions.
type Message interface {
	Kind() string
}

// ClientMessage is a request sent client→server. The set of variants
// is closed: only types in this package implement it.
type ClientMessage interface {
	Message
	clientMessage()
}

// ServerMessage is an event or response sent server→client. The set of
// variants is closed: only types in this package implement it.
type ServerMessage interface {
	Message
	serverMessage()
}

// CommandRequest asks the embedded application to run a named command
// with an ordered list of string arguments.
type CommandRequest struct {
	Command string   `cbor:"command"`
	Args    []string `cbor:"args"`
}

func (CommandRequest) Kind() string { return KindCommandRequest }
func (CommandRequest) clientMessage() {}

// Busy tells the client the application cannot service requests right
// now (for example while it is compiling).
type Busy struct{}

func (Busy) Kind() string   { return KindBusy }
func (Busy) serverMessage() {}

// ConsoleOutput forwards one entry of the application's console log.
type ConsoleOutput struct {
	LogType    LogType `cbor:"log_type"`
	Log        string  `cbor:"log"`
	StackTrace string  `cbor:"stack_trace"`
}

func (ConsoleOutput) Kind() string   { return KindConsoleOutput }
func (ConsoleOutput) serverMessage() {}

// CommandFinished completes a CommandRequest. Result is nil when the
// command produced no result text.
type CommandFinished struct {
	Success bool    `cbor:"success"`
	Result  *string `cbor:"result,omitempty"`
}

func (CommandFinished) Kind() string   { return KindCommandFinished }
func (CommandFinished) serverMessage() {}

// LifecycleEvent reports an application lifecycle phase such as a
// script compilation or assembly reload. Phases the client does not
// recognize are still delivered; see [Phase].
type LifecycleEvent struct {
	Phase Phase `cbor:"phase"`
}

func (LifecycleEvent) Kind() string   { return KindLifecycle }
func (LifecycleEvent) serverMessage() {}

// Phase names an application lifecycle phase. The application may emit
// phases beyond the ones defined here; they travel as plain strings.
type Phase string

const (
	PhaseCompilationStarted     Phase = "compilation-started"
	PhaseCompilationFinished    Phase = "compilation-finished"
	PhaseAssemblyReloadStarted  Phase = "assembly-reload-started"
	PhaseAssemblyReloadFinished Phase = "assembly-reload-finished"
)

// Known reports whether p is one of the phases defined in this package.
func (p Phase) Known() bool {
	switch p {
	case PhaseCompilationStarted, PhaseCompilationFinished,
		PhaseAssemblyReloadStarted, PhaseAssemblyReloadFinished:
		return true
	}
	return false
}

// Result returns a pointer to s, for building CommandFinished values.
func Result(s string) *string {
	return &s
}

// envelope is the serialized shape of every message: the variant kind
// and its CBOR-encoded fields.
type envelope struct {
	Kind string           `cbor:"kind"`
	Body codec.RawMessage `cbor:"body,omitempty"`
}

// Marshal serializes message into a frame payload (without the length
// prefix). Fails with *SerializationError only for a nil message or a
// value the encoder cannot represent.
func Marshal(message Message) ([]byte, error) {
	if message == nil {
		return nil, &SerializationError{Err: fmt.Errorf("nil message")}
	}
	body, err := codec.Marshal(message)
	if err != nil {
		return nil, &SerializationError{Kind: message.Kind(), Err: err}
	}
	payload, err := codec.Marshal(envelope{Kind: message.Kind(), Body: body})
	if err != nil {
		return nil, &SerializationError{Kind: message.Kind(), Err: err}
	}
	return payload, nil
}

// UnmarshalClient decodes a frame payload into a ClientMessage.
func UnmarshalClient(payload []byte) (ClientMessage, error) {
	kind, body, err := openEnvelope(payload)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindCommandRequest:
		var request CommandRequest
		if err := decodeBody(kind, payload, body, &request); err != nil {
			return nil, err
		}
		return request, nil
	default:
		return nil, &DeserializationError{Kind: kind, Payload: payload, Err: fmt.Errorf("unknown client message kind %q", kind)}
	}
}

// UnmarshalServer decodes a frame payload into a ServerMessage.
func UnmarshalServer(payload []byte) (ServerMessage, error) {
	kind, body, err := openEnvelope(payload)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindBusy:
		return Busy{}, nil
	case KindConsoleOutput:
		var output ConsoleOutput
		if err := decodeBody(kind, payload, body, &output); err != nil {
			return nil, err
		}
		return output, nil
	case KindCommandFinished:
		var finished CommandFinished
		if err := decodeBody(kind, payload, body, &finished); err != nil {
			return nil, err
		}
		return finished, nil
	case KindLifecycle:
		var event LifecycleEvent
		if err := decodeBody(kind, payload, body, &event); err != nil {
			return nil, err
		}
		return event, nil
	default:
		return nil, &DeserializationError{Kind: kind, Payload: payload, Err: fmt.Errorf("unknown server message kind %q", kind)}
	}
}

func openEnvelope(payload []byte) (string, codec.RawMessage, error) {
	var env envelope
	if err := codec.Unmarshal(payload, &env); err != nil {
		return "", nil, &DeserializationError{Payload: payload, Err: err}
	}
	if env.Kind == "" {
		return "", nil, &DeserializationError{Payload: payload, Err: fmt.Errorf("missing message kind")}
	}
	return env.Kind, env.Body, nil
}

func decodeBody(kind string, payload []byte, body codec.RawMessage, target any) error {
	if len(body) == 0 {
		return &DeserializationError{Kind: kind, Payload: payload, Err: fmt.Errorf("missing message body")}
	}
	if err := codec.Unmarshal(body, target); err != nil {
		return &DeserializationError{Kind: kind, Payload: payload, Err: err}
	}
	return nil
}
