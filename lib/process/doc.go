// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the ucli binaries.
// It centralizes the raw I/O that happens outside the structured
// logger: reporting a fatal error from main() and choosing the process
// exit code.
package process
