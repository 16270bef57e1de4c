// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for ucli packages.
//
// [RequireReceive], [RequireSend], [RequireClosed] and [Eventually]
// encapsulate the timeout safety valve pattern (select with a
// wall-clock fallback) so that individual tests never hang on a lost
// message or a teardown that does not complete. They are the only
// place in the test suite where real wall-clock timeouts appear.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation, such as distinct command names or log lines sent by
// concurrent clients.
//
// [Logger] returns a logger suitable for tests: errors only, so that
// expected connection teardown does not flood test output.
//
// All helpers call Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no ucli-internal dependencies.
package testutil
