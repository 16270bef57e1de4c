// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for processes that
// embed a ucli server.
//
// Configuration is loaded from a single file specified by either the
// UCLI_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search.
//
// Variable expansion is performed on the project path and the listen
// addresses after loading: ${HOME} and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Project, Server, Advertise,
//     Metrics and Log sections
//   - [Default] -- returns a Config with defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Server] -- derives the server.Config for a Host
package config
