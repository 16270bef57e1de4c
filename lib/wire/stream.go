// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"encoding/binary"
)

// FrameDecoder is the stream form of the decoder. It is fed byte chunks
// as they arrive from a non-blocking transport and yields complete
// frames, retaining any surplus bytes for the next call. It performs no
// I/O of its own. A FrameDecoder is not safe for concurrent use.
type FrameDecoder struct {
	buffer []byte
}

// Feed appends a chunk of received bytes. The chunk is copied.
func (d *FrameDecoder) Feed(chunk []byte) {
	d.buffer = append(d.buffer, chunk...)
}

// Buffered returns the number of bytes held but not yet consumed.
func (d *FrameDecoder) Buffered() int {
	return len(d.buffer)
}

// NextLength returns the declared payload length of the next frame once
// its prefix has been buffered. Callers enforcing a size policy check
// it before waiting for the payload to arrive.
func (d *FrameDecoder) NextLength() (int, bool) {
	if len(d.buffer) < HeaderLength {
		return 0, false
	}
	return int(binary.BigEndian.Uint32(d.buffer[:HeaderLength])), true
}

// Next returns the payload of the next complete frame, or false if the
// buffered bytes do not yet hold one. The returned slice is owned by
// the caller.
func (d *FrameDecoder) Next() ([]byte, bool) {
	length, ok := d.NextLength()
	if !ok || len(d.buffer)-HeaderLength < length {
		return nil, false
	}
	end := HeaderLength + length
	payload := bytes.Clone(d.buffer[HeaderLength:end])
	if payload == nil {
		payload = []byte{}
	}
	if end == len(d.buffer) {
		d.buffer = d.buffer[:0]
	} else {
		d.buffer = d.buffer[end:]
	}
	return payload, true
}

// NextClient decodes the next complete frame as a ClientMessage. It
// returns ok=false with a nil error while the frame is incomplete.
func (d *FrameDecoder) NextClient() (ClientMessage, bool, error) {
	payload, ok := d.Next()
	if !ok {
		return nil, false, nil
	}
	message, err := UnmarshalClient(payload)
	if err != nil {
		return nil, false, err
	}
	return message, true, nil
}

// NextServer decodes the next complete frame as a ServerMessage. It
// returns ok=false with a nil error while the frame is incomplete.
func (d *FrameDecoder) NextServer() (ServerMessage, bool, error) {
	payload, ok := d.Next()
	if !ok {
		return nil, false, nil
	}
	message, err := UnmarshalServer(payload)
	if err != nil {
		return nil, false, err
	}
	return message, true, nil
}
