// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"sync"

	"github.com/ucli-foundation/ucli/lib/wire"
)

// event is an application message addressed to one connection.
type event struct {
	id      ConnectionID
	message wire.ServerMessage
}

// eventQueue is the unbounded mailbox between the application and the
// event-delivery loop. push never blocks, so the application thread is
// never stalled by a slow client. A single consumer calls pop.
type eventQueue struct {
	mu     sync.Mutex
	items  []event
	closed bool

	// ready holds at most one wakeup token for the consumer.
	ready chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{ready: make(chan struct{}, 1)}
}

// push appends e. It returns false once the queue is closed.
func (q *eventQueue) push(e event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, e)
	q.mu.Unlock()
	q.signal()
	return true
}

// pop returns the oldest event, waiting until one is available. It
// returns false when ctx is done, or when the queue is closed and
// empty.
func (q *eventQueue) pop(ctx context.Context) (event, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			e := q.items[0]
			q.items[0] = event{}
			q.items = q.items[1:]
			if len(q.items) == 0 {
				q.items = nil
			}
			q.mu.Unlock()
			return e, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return event{}, false
		}

		select {
		case <-q.ready:
		case <-ctx.Done():
			return event{}, false
		}
	}
}

// close rejects further pushes. Events already queued can still be
// popped.
func (q *eventQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *eventQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *eventQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
