// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "github.com/ucli-foundation/ucli/lib/codec"

// LogType is the severity of a console entry. It travels as a CBOR
// integer. Values outside the defined range decode as LogTypeUnknown so
// that an application adding severities does not break older clients.
type LogType int

const (
	LogTypeError     LogType = 0
	LogTypeAssert    LogType = 1
	LogTypeWarning   LogType = 2
	LogTypeLog       LogType = 3
	LogTypeException LogType = 4
	LogTypeUnknown   LogType = 5
)

// LogTypeFromCode maps a raw severity code to a LogType.
func LogTypeFromCode(code int64) LogType {
	if code < int64(LogTypeError) || code > int64(LogTypeUnknown) {
		return LogTypeUnknown
	}
	return LogType(code)
}

func (l LogType) String() string {
	switch l {
	case LogTypeError:
		return "error"
	case LogTypeAssert:
		return "assert"
	case LogTypeWarning:
		return "warning"
	case LogTypeLog:
		return "log"
	case LogTypeException:
		return "exception"
	default:
		return "unknown"
	}
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (l *LogType) UnmarshalCBOR(data []byte) error {
	var code int64
	if err := codec.Unmarshal(data, &code); err != nil {
		return err
	}
	*l = LogTypeFromCode(code)
	return nil
}
