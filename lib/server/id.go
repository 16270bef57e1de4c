// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"

	"github.com/google/uuid"
)

// ConnectionID identifies one accepted client connection for the life
// of the connection. It is a random (version 4) UUID minted on accept
// and never reused.
type ConnectionID uuid.UUID

// NewConnectionID returns a fresh random id.
func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.New())
}

// ParseConnectionID parses the canonical textual form produced by
// [ConnectionID.String].
func ParseConnectionID(text string) (ConnectionID, error) {
	parsed, err := uuid.Parse(text)
	if err != nil {
		return ConnectionID{}, fmt.Errorf("parsing connection id %q: %w", text, err)
	}
	return ConnectionID(parsed), nil
}

func (id ConnectionID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is the zero value, which no connection is
// ever assigned.
func (id ConnectionID) IsZero() bool {
	return id == ConnectionID{}
}
