// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds small helpers for classifying network errors
// seen by the server's connection pumps.
package netutil

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsExpectedCloseError reports whether err is an ordinary end of a
// client connection rather than a fault worth logging at error level:
// EOF, a use of the already-closed socket, a broken pipe or a
// connection reset.
//
// Pumps close the whole socket when either direction ends, so the
// surviving direction typically observes net.ErrClosed. A client that
// exits without a clean shutdown produces ECONNRESET or EPIPE.
func IsExpectedCloseError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return true
	case errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ECONNRESET):
		return true
	}
	return false
}
