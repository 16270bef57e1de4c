// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the ucli binaries.
//
// [Commit], [Dirty] and [BuildTime] are injected at build time via
// -ldflags -X. When they are not injected, as in "go install" builds
// and test runs, the VCS stamps recorded by the Go toolchain are used
// instead.
//
//   - [Info]: "0.1.0-dev (abc1234, 2026-02-10T...)" for the version command
//   - [Full]: Info plus Go version and GOOS/GOARCH
package version
