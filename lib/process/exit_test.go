// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"testing"
)

type codedError struct{ code int }

func (e *codedError) Error() string { return fmt.Sprintf("exit %d", e.code) }
func (e *codedError) ExitCode() int { return e.code }

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{"plain error", errors.New("boom"), 0, false},
		{"coded error", &codedError{code: 2}, 2, true},
		{"wrapped coded error", fmt.Errorf("running: %w", &codedError{code: 3}), 3, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			code, ok := ExitCode(test.err)
			if code != test.wantCode || ok != test.wantOK {
				t.Errorf("ExitCode(%v) = (%d, %v), want (%d, %v)", test.err, code, ok, test.wantCode, test.wantOK)
			}
		})
	}
}

func TestExitNil(t *testing.T) {
	// Exit(nil) must return rather than terminate the test binary.
	Exit(nil)
}
