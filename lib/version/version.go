// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/ucli-foundation/ucli/lib/version.Commit=$(git rev-parse --short HEAD)"
var (
	Commit    = ""
	Dirty     = ""
	BuildTime = ""

	// Version is the semantic version. Set manually for releases.
	Version = "0.1.0-dev"
)

// stamps holds the resolved build stamps.
type stamps struct {
	commit    string
	dirty     bool
	buildTime string
}

func resolve() stamps {
	resolved := stamps{commit: Commit, dirty: Dirty == "true", buildTime: BuildTime}
	if info, ok := debug.ReadBuildInfo(); ok {
		resolved = fillFromSettings(resolved, info.Settings)
	}
	if resolved.commit == "" {
		resolved.commit = "unknown"
	}
	if resolved.buildTime == "" {
		resolved.buildTime = "unknown"
	}
	return resolved
}

// fillFromSettings fills stamps left empty by -ldflags from the
// toolchain's VCS settings.
func fillFromSettings(resolved stamps, settings []debug.BuildSetting) stamps {
	injected := resolved.commit != ""
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if !injected {
				resolved.commit = setting.Value[:min(len(setting.Value), 7)]
			}
		case "vcs.modified":
			if !injected {
				resolved.dirty = setting.Value == "true"
			}
		case "vcs.time":
			if resolved.buildTime == "" {
				resolved.buildTime = setting.Value
			}
		}
	}
	return resolved
}

// Info returns a formatted version string.
func Info() string {
	return resolve().format()
}

func (s stamps) format() string {
	dirty := ""
	if s.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, s.commit, dirty, s.buildTime)
}

// Full returns Info plus the Go version and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
