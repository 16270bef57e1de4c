// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/ucli-foundation/ucli/lib/server"
)

// DefaultTimeout is how long Browse collects responses when the query
// does not set a timeout.
const DefaultTimeout = 100 * time.Millisecond

// Query selects sessions. Empty fields match everything. Criteria are
// applied in order of precedence: Path, then Project, then Session;
// the first criterion given decides.
type Query struct {
	// Path matches sessions whose project directory resolves to the
	// same location. When either path cannot be resolved the Path
	// criterion is skipped.
	Path string

	// Project matches project names beginning with this prefix. An
	// exact match is definitive.
	Project string

	// Session matches session names beginning with this prefix. An
	// exact match is definitive.
	Session string

	// Timeout bounds how long Browse listens. Zero means
	// DefaultTimeout.
	Timeout time.Duration
}

// ErrNoSession is returned by Select when no session matched.
var ErrNoSession = errors.New("no matching session found")

// AmbiguousError is returned by Select when more than one session
// matched and none matched definitively.
type AmbiguousError struct {
	Sessions []Session
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Sessions))
	for i, session := range e.Sessions {
		names[i] = fmt.Sprintf("%s (%s)", session.Name, session.ProjectName)
	}
	return fmt.Sprintf("%d sessions match, narrow the search with --path, --project or --session: %s",
		len(e.Sessions), strings.Join(names, ", "))
}

// match reports whether session satisfies q and whether the match is
// definitive, meaning browsing can stop.
func (q Query) match(session Session) (matched, definitive bool) {
	if q.Path != "" {
		want, wantErr := canonicalPath(q.Path)
		have, haveErr := canonicalPath(session.ProjectPath)
		if wantErr == nil && haveErr == nil {
			if want == have {
				return true, true
			}
			return false, false
		}
	}
	if q.Project != "" {
		if !strings.HasPrefix(session.ProjectName, q.Project) {
			return false, false
		}
		return true, session.ProjectName == q.Project
	}
	if q.Session != "" {
		if !strings.HasPrefix(session.Name, q.Session) {
			return false, false
		}
		return true, session.Name == q.Session
	}
	return true, false
}

func canonicalPath(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(absolute)
}

// collect drains entries until ctx ends or entries closes, returning
// matching sessions. A definitive match is returned alone, immediately.
func collect(ctx context.Context, q Query, entries <-chan *zeroconf.ServiceEntry) []Session {
	var sessions []Session
	seen := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return sessions
		case entry, ok := <-entries:
			if !ok {
				return sessions
			}
			session, usable := sessionFromEntry(entry)
			if !usable || seen[session.Name] {
				continue
			}
			matched, definitive := q.match(session)
			if !matched {
				continue
			}
			if definitive {
				return []Session{session}
			}
			seen[session.Name] = true
			sessions = append(sessions, session)
		}
	}
}

// Browse listens for advertised sessions matching q until the timeout
// elapses or a definitive match arrives.
func Browse(ctx context.Context, q Query) ([]Session, error) {
	timeout := q.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	resolver, err := zeroconf.NewResolver(zeroconf.SelectIPTraffic(zeroconf.IPv4))
	if err != nil {
		return nil, fmt.Errorf("creating mdns resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 8)
	if err := resolver.Browse(ctx, server.ServiceType, server.ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("browsing for %s: %w", server.ServiceType, err)
	}
	return collect(ctx, q, entries), nil
}

// Select returns the single session to connect to.
func Select(sessions []Session) (Session, error) {
	switch len(sessions) {
	case 0:
		return Session{}, ErrNoSession
	case 1:
		return sessions[0], nil
	default:
		return Session{}, &AmbiguousError{Sessions: sessions}
	}
}
