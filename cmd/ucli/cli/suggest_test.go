// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1}, // substitution
		{"abc", "ab", 1},  // deletion
		{"ab", "abc", 1},  // insertion
		{"abc", "bac", 2}, // transposition (counted as 2 edits)
		{"kitten", "sitting", 3},
		{"compile", "compiel", 2},
		{"session", "sesion", 1},
		{"project", "projcet", 2},
		{"run", "rnu", 2},
	}

	for _, test := range tests {
		t.Run(test.a+"->"+test.b, func(t *testing.T) {
			got := levenshtein(test.a, test.b)
			if got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestLevenshtein_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"abc", "abd"},
		{"hello", "helo"},
		{"project", "projcet"},
	}

	for _, pair := range pairs {
		forward := levenshtein(pair[0], pair[1])
		reverse := levenshtein(pair[1], pair[0])
		if forward != reverse {
			t.Errorf("levenshtein(%q, %q) = %d, but reverse = %d",
				pair[0], pair[1], forward, reverse)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "list-sessions"},
		{Name: "list-commands"},
		{Name: "compile"},
		{Name: "run"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"compiel", "compile"},            // transposition
		{"complie", "compile"},            // transposition
		{"rn", "run"},                     // missing letter
		{"runn", "run"},                   // extra letter
		{"list-sesions", "list-sessions"}, // missing letter
		{"list-comands", "list-commands"}, // missing letter
		{"zzzzzzzzz", ""},                 // nothing close
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got := suggestCommand(test.input, commands)
			if got != test.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	makeFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flagSet.String("path", "", "")
		flagSet.String("project", "", "")
		flagSet.String("session", "", "")
		flagSet.Int("discovery-timeout", 100, "")
		flagSet.Bool("json", false, "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "close typo",
			args: []string{"--sesion"},
			want: "--session",
		},
		{
			name: "transposed letters",
			args: []string{"--projcet"},
			want: "--project",
		},
		{
			name: "hyphenated flag",
			args: []string{"--discovery-timout", "500"},
			want: "--discovery-timeout",
		},
		{
			name: "flag with equals",
			args: []string{"--sesion=swift-otter"},
			want: "--session",
		},
		{
			name: "skips known flags",
			args: []string{"--json", "--pth"},
			want: "--path",
		},
		{
			name: "nothing close",
			args: []string{"--zzzzzzzzz"},
			want: "",
		},
		{
			name: "no flags",
			args: []string{"positional"},
			want: "",
		},
		{
			name: "stops at terminator",
			args: []string{"--", "--sesion"},
			want: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := suggestFlag(test.args, makeFlagSet())
			if got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
