// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// HeaderLength is the size of the frame length prefix: a big-endian
// uint32 holding the payload length.
const HeaderLength = 4

// AppendEncoded serializes message and appends the complete frame
// (prefix and payload) to dst. This is the encoder used by the
// server's write pumps; [Encoder] produces the same bytes.
func AppendEncoded(dst []byte, message Message) ([]byte, error) {
	payload, err := Marshal(message)
	if err != nil {
		return dst, err
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return dst, &SerializationError{Kind: message.Kind(), Err: fmt.Errorf("payload length %d does not fit the frame prefix", len(payload))}
	}
	return AppendFrame(dst, payload), nil
}

// EncodeFrame returns message as one complete frame in a new buffer.
func EncodeFrame(message Message) ([]byte, error) {
	return AppendEncoded(nil, message)
}

// AppendFrame appends the length prefix and payload to dst. The payload
// must already be a serialized message.
func AppendFrame(dst, payload []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(payload)))
	return append(dst, payload...)
}

// Encoder writes frames to a blocking byte stream. Each Encode call
// issues one Write carrying the whole frame. An Encoder is not safe for
// concurrent use.
type Encoder struct {
	writer io.Writer
	buffer []byte
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{writer: w}
}

// Encode writes message as one frame.
func (e *Encoder) Encode(message Message) error {
	frame, err := AppendEncoded(e.buffer[:0], message)
	if err != nil {
		return err
	}
	e.buffer = frame
	if _, err := e.writer.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Decoder reads frames from a blocking byte stream. A Decoder is not
// safe for concurrent use.
type Decoder struct {
	reader io.Reader

	// MaxFrameSize, when positive, rejects frames whose declared
	// payload length exceeds it with a *FrameSizeError before reading
	// the payload.
	MaxFrameSize int

	header [HeaderLength]byte
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: r}
}

// ReadFrame reads one frame and returns its payload. It returns io.EOF
// only when the stream ends cleanly between frames; a stream ending
// inside a frame yields io.ErrUnexpectedEOF.
func (d *Decoder) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(d.reader, d.header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	length := binary.BigEndian.Uint32(d.header[:])
	if d.MaxFrameSize > 0 && uint64(length) > uint64(d.MaxFrameSize) {
		return nil, &FrameSizeError{Length: int(length), Limit: d.MaxFrameSize}
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(d.reader, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return payload, nil
}

// DecodeClient reads one frame and decodes it as a ClientMessage.
func (d *Decoder) DecodeClient() (ClientMessage, error) {
	payload, err := d.ReadFrame()
	if err != nil {
		return nil, err
	}
	return UnmarshalClient(payload)
}

// DecodeServer reads one frame and decodes it as a ServerMessage.
func (d *Decoder) DecodeServer() (ServerMessage, error) {
	payload, err := d.ReadFrame()
	if err != nil {
		return nil, err
	}
	return UnmarshalServer(payload)
}
