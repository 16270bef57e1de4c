// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillFromSettings(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
	}

	got := fillFromSettings(stamps{}, settings)
	if got.commit != "0123456" {
		t.Errorf("commit = %q, want %q", got.commit, "0123456")
	}
	if !got.dirty {
		t.Error("dirty = false, want true")
	}
	if got.buildTime != "2026-10-01T12:00:00Z" {
		t.Errorf("buildTime = %q", got.buildTime)
	}
}

func TestFillFromSettingsKeepsInjectedStamps(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
	}

	got := fillFromSettings(stamps{commit: "feedbee", buildTime: "release"}, settings)
	if got.commit != "feedbee" || got.dirty || got.buildTime != "release" {
		t.Errorf("fillFromSettings overwrote injected stamps: %+v", got)
	}
}

func TestFormat(t *testing.T) {
	got := stamps{commit: "abc1234", dirty: true, buildTime: "now"}.format()
	want := Version + " (abc1234-dirty, now)"
	if got != want {
		t.Errorf("format() = %q, want %q", got, want)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	for _, want := range []string{Version, "Go: ", "Platform: "} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() = %q, missing %q", full, want)
		}
	}
}
