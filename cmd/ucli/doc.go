// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Ucli is the command line client for applications embedding the ucli
// server. It discovers running sessions on the local network, forwards
// a command to one of them and streams back console output until the
// command finishes.
//
// Usage:
//
//	ucli list-sessions [--path DIR] [--project NAME] [--session NAME] [--json]
//	ucli compile [flags]
//	ucli run [flags] <command> [--] [args...]
//	ucli list-commands [flags]
//
// Run "ucli --help" for the full list of flags.
package main
