// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"

	"github.com/ucli-foundation/ucli/lib/codec"
)

// DeserializationError reports a frame payload that is not a valid
// message: malformed CBOR, an unknown kind, or a body whose shape does
// not match its kind. A connection that produces one is closed; the
// error never affects other connections.
type DeserializationError struct {
	// Kind is the envelope kind, if the envelope itself decoded.
	Kind    string
	Payload []byte
	Err     error
}

func (e *DeserializationError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("deserializing message: %v", e.Err)
	}
	return fmt.Sprintf("deserializing %s message: %v", e.Kind, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// Diagnostic returns the CBOR diagnostic notation of the offending
// payload, or a hex dump when the payload is not CBOR at all.
func (e *DeserializationError) Diagnostic() string {
	notation, err := codec.Diagnose(e.Payload)
	if err != nil {
		return fmt.Sprintf("%x", e.Payload)
	}
	return notation
}

// SerializationError reports a message that could not be encoded. For
// the closed set of message types in this package this indicates a
// programming error, not a per-message recoverable condition.
type SerializationError struct {
	Kind string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("serializing message: %v", e.Err)
	}
	return fmt.Sprintf("serializing %s message: %v", e.Kind, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// FrameSizeError reports a frame whose declared length exceeds a
// caller-imposed limit. The codec itself imposes no limit.
type FrameSizeError struct {
	Length int
	Limit  int
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("frame length %d exceeds maximum %d", e.Length, e.Limit)
}
