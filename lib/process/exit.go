// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
)

// exitCoder is implemented by errors that carry their own exit code and
// whose output has already been written, such as cli.ExitError.
type exitCoder interface {
	ExitCode() int
}

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// Exit terminates the process according to err. A nil error returns
// without exiting. An error carrying an exit code exits silently with
// that code; any other error goes through Fatal.
func Exit(err error) {
	if err == nil {
		return
	}
	if code, ok := ExitCode(err); ok {
		os.Exit(code)
	}
	Fatal(err)
}

// ExitCode reports the exit code carried by err, if any.
func ExitCode(err error) (int, bool) {
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode(), true
	}
	return 0, false
}
