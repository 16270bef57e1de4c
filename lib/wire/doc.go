// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire implements the ucli wire protocol: the message types
// exchanged between clients and the embedded application's server, and
// the framing that carries them over TCP.
//
// Every frame is a 4-byte big-endian payload length followed by the
// payload:
//
//	+------------------+----------------------------+
//	| length (uint32)  | payload (length bytes)     |
//	+------------------+----------------------------+
//
// The payload is a deterministic CBOR envelope {kind, body}, where kind
// selects the message variant and body holds its fields (see
// lib/codec). [ClientMessage] has one variant, [CommandRequest].
// [ServerMessage] has [Busy], [ConsoleOutput], [CommandFinished] and
// [LifecycleEvent].
//
// The codec comes in two forms that produce and consume identical
// bytes:
//
//   - Blocking: [Encoder] and [Decoder] operate on any io.Writer and
//     io.Reader. Clients use these directly on a net.Conn.
//   - Stream: [FrameDecoder] is fed byte chunks as they arrive and
//     yields one message per complete frame; [AppendEncoded] appends
//     frames to a caller-owned buffer. The server's connection pumps
//     use this form.
//
// Payloads that do not decode as the expected union produce a
// *[DeserializationError]. The codec imposes no size limit; callers
// enforce their own policy via [Decoder].MaxFrameSize or
// [FrameDecoder.NextLength].
package wire
