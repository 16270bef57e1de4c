// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import "math/rand/v2"

var adjectives = []string{
	"amber", "brave", "calm", "clever", "cosmic", "crisp", "daring", "eager",
	"fancy", "gentle", "golden", "happy", "hidden", "jolly", "keen", "lively",
	"lucky", "mellow", "misty", "nimble", "noble", "polite", "proud", "quick",
	"quiet", "rapid", "rusty", "shiny", "silent", "snowy", "sunny", "swift",
	"tidy", "vivid", "witty", "zesty",
}

var nouns = []string{
	"badger", "beacon", "comet", "cricket", "dolphin", "ember", "falcon",
	"fjord", "gecko", "glacier", "harbor", "heron", "island", "jaguar",
	"kestrel", "lantern", "lynx", "maple", "meadow", "nebula", "otter",
	"panda", "pebble", "quartz", "raven", "river", "salmon", "sparrow",
	"summit", "thistle", "tundra", "walrus", "willow", "yak", "zephyr",
}

// GenerateName returns a random "adjective-noun" session name such as
// "swift-otter".
func GenerateName() string {
	return adjectives[rand.IntN(len(adjectives))] + "-" + nouns[rand.IntN(len(nouns))]
}
