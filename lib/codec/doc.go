// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration shared by
// every ucli component that serializes protocol payloads.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same logical message always produces identical bytes, so a frame
// written by the server's stream encoder is byte-for-byte the frame a
// blocking client encoder would write for the same value.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Framing (the 4-byte length prefix) is not this package's concern;
// see lib/wire.
//
// Types in this module serialized only as CBOR carry `cbor` struct
// tags. Never put both `cbor` and `json` tags on the same field.
package codec
