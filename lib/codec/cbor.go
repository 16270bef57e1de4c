// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2). Both wire codec forms marshal through this
// mode, which is what makes their frames byte-identical.
var encMode cbor.EncMode

// decMode accepts standard CBOR. Unknown map keys are ignored so that
// a newer peer can add fields to a message body without breaking an
// older reader. Text strings holding invalid UTF-8 decode byte for byte,
// matching the encoder, which writes Go strings without validating
// them.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Message bodies are always string-keyed. When a body is
		// decoded into an any-typed target (diagnostics, tests), pick
		// map[string]any instead of the CBOR default
		// map[interface{}]interface{}.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		UTF8:           cbor.UTF8DecodeInvalid,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Trailing bytes after the first
// data item are rejected.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// RawMessage is a raw encoded CBOR value, used to delay decoding of a
// tagged-union body until its kind is known.
type RawMessage = cbor.RawMessage

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for data.
// The wire layer uses it to describe payloads that fail to decode.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
