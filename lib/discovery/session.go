// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"maps"
	"net"
	"slices"
	"strconv"
	"strings"

	"github.com/grandcat/zeroconf"

	"github.com/ucli-foundation/ucli/lib/server"
)

// Session is one resolved server.
type Session struct {
	// Name is the advertised instance name.
	Name     string
	HostName string
	IP       net.IP
	Port     int

	ProjectPath  string
	ProjectName  string
	UnityVersion string
}

// Address returns the host:port to dial.
func (s Session) Address() string {
	return net.JoinHostPort(s.IP.String(), strconv.Itoa(s.Port))
}

// sessionFromEntry converts a resolved entry. Entries with no IPv4
// address or missing any project property are not usable sessions.
func sessionFromEntry(entry *zeroconf.ServiceEntry) (Session, bool) {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return Session{}, false
	}
	properties := parseText(entry.Text)
	path, hasPath := properties[server.PropertyProjectPath]
	project, hasProject := properties[server.PropertyProjectName]
	version, hasVersion := properties[server.PropertyUnityVersion]
	if !hasPath || !hasProject || !hasVersion {
		return Session{}, false
	}
	return Session{
		Name:         entry.Instance,
		HostName:     entry.HostName,
		IP:           entry.AddrIPv4[0],
		Port:         entry.Port,
		ProjectPath:  path,
		ProjectName:  project,
		UnityVersion: version,
	}, true
}

// encodeText renders properties as DNS-SD TXT strings. Keys are
// emitted in a fixed order.
func encodeText(properties map[string]string) []string {
	keys := []string{server.PropertyProjectPath, server.PropertyProjectName, server.PropertyUnityVersion}
	text := make([]string, 0, len(properties))
	for _, key := range keys {
		if value, ok := properties[key]; ok {
			text = append(text, key+"="+value)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(properties)) {
		if slices.Contains(keys, key) {
			continue
		}
		text = append(text, key+"="+properties[key])
	}
	return text
}

// parseText splits DNS-SD TXT strings into key/value pairs. A string
// with no "=" is a boolean attribute with an empty value.
func parseText(text []string) map[string]string {
	properties := make(map[string]string, len(text))
	for _, record := range text {
		key, value, _ := strings.Cut(record, "=")
		if key == "" {
			continue
		}
		if _, seen := properties[key]; seen {
			continue
		}
		properties[key] = value
	}
	return properties
}
