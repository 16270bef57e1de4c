// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// recordingT captures Fatalf calls. Fatalf panics so that the helper
// under test stops the way it would under a real *testing.T.
type recordingT struct {
	message string
}

type fatalSignal struct{}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.message = fmt.Sprintf(format, args...)
	panic(fatalSignal{})
}

func expectFatal(t *testing.T, body func(*recordingT)) string {
	t.Helper()
	recorder := &recordingT{}
	func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				if _, ok := recovered.(fatalSignal); !ok {
					panic(recovered)
				}
			}
		}()
		body(recorder)
	}()
	if recorder.message == "" {
		t.Fatal("expected Fatalf to be called")
	}
	return recorder.message
}

func TestRequireReceive(t *testing.T) {
	t.Parallel()

	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("got %d, want 7", got)
	}

	message := expectFatal(t, func(r *recordingT) {
		RequireReceive(r, make(chan int), 10*time.Millisecond, "waiting for %s", "nothing")
	})
	if !strings.Contains(message, "waiting for nothing") {
		t.Errorf("message %q missing formatted context", message)
	}

	closed := make(chan int)
	close(closed)
	message = expectFatal(t, func(r *recordingT) {
		RequireReceive(r, closed, time.Second)
	})
	if !strings.Contains(message, "channel closed") {
		t.Errorf("message %q should mention closed channel", message)
	}
}

func TestRequireSendAndClosed(t *testing.T) {
	t.Parallel()

	ch := make(chan string, 1)
	RequireSend(t, ch, "hello", time.Second)
	if <-ch != "hello" {
		t.Fatal("value not sent")
	}

	done := make(chan struct{})
	close(done)
	RequireClosed(t, done, time.Second)

	expectFatal(t, func(r *recordingT) {
		RequireClosed(r, make(chan struct{}), 10*time.Millisecond)
	})
}

func TestEventually(t *testing.T) {
	t.Parallel()

	calls := 0
	Eventually(t, time.Second, func() bool {
		calls++
		return calls >= 3
	})

	expectFatal(t, func(r *recordingT) {
		Eventually(r, 20*time.Millisecond, func() bool { return false }, "never")
	})
}

func TestUniqueID(t *testing.T) {
	t.Parallel()

	first := UniqueID("cmd")
	second := UniqueID("cmd")
	if first == second {
		t.Errorf("UniqueID returned duplicate %q", first)
	}
	if !strings.HasPrefix(first, "cmd-") {
		t.Errorf("UniqueID %q missing prefix", first)
	}
}
