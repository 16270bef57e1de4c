// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/ucli-foundation/ucli/lib/server"
	"github.com/ucli-foundation/ucli/lib/testutil"
)

func entry(instance, project, path string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, server.ServiceType, server.ServiceDomain)
	e.HostName = "workstation.local."
	e.Port = 41234
	e.AddrIPv4 = []net.IP{net.IPv4(192, 168, 1, 20)}
	e.Text = encodeText(map[string]string{
		server.PropertyProjectPath:  path,
		server.PropertyProjectName:  project,
		server.PropertyUnityVersion: "6000.0.1f1",
	})
	return e
}

func TestSessionFromEntry(t *testing.T) {
	t.Parallel()

	session, ok := sessionFromEntry(entry("swift-otter", "Game", "/work/game"))
	if !ok {
		t.Fatal("complete entry rejected")
	}
	want := Session{
		Name:         "swift-otter",
		HostName:     "workstation.local.",
		IP:           net.IPv4(192, 168, 1, 20),
		Port:         41234,
		ProjectPath:  "/work/game",
		ProjectName:  "Game",
		UnityVersion: "6000.0.1f1",
	}
	if session.Name != want.Name || !session.IP.Equal(want.IP) || session.Port != want.Port ||
		session.ProjectPath != want.ProjectPath || session.ProjectName != want.ProjectName ||
		session.UnityVersion != want.UnityVersion || session.HostName != want.HostName {
		t.Errorf("session = %+v, want %+v", session, want)
	}
	if session.Address() != "192.168.1.20:41234" {
		t.Errorf("Address = %q", session.Address())
	}

	noAddress := entry("a", "Game", "/work/game")
	noAddress.AddrIPv4 = nil
	if _, ok := sessionFromEntry(noAddress); ok {
		t.Error("entry without an address accepted")
	}

	missingVersion := entry("b", "Game", "/work/game")
	missingVersion.Text = missingVersion.Text[:2]
	if _, ok := sessionFromEntry(missingVersion); ok {
		t.Error("entry without unity-version accepted")
	}
}

func TestPinnedAddresses(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		ip   net.IP
		want []string
	}{
		{nil, nil},
		{net.IPv4zero, nil},
		{net.IPv6unspecified, nil},
		{net.IPv4(127, 0, 0, 1), []string{"127.0.0.1"}},
		{net.IPv4(192, 168, 1, 20), []string{"192.168.1.20"}},
		{net.IPv6loopback, []string{"::1"}},
	} {
		if got := pinnedAddresses(test.ip); !slices.Equal(got, test.want) {
			t.Errorf("pinnedAddresses(%v) = %q, want %q", test.ip, got, test.want)
		}
	}
}

// capturingAdvertiser records the service a host publishes without
// touching the network.
type capturingAdvertiser struct {
	services chan server.Service
}

func (a *capturingAdvertiser) Advertise(service server.Service) (server.Registration, error) {
	a.services <- service
	return capturedRegistration(service.Instance), nil
}

type capturedRegistration string

func (r capturedRegistration) Instance() string { return string(r) }
func (capturedRegistration) Withdraw() {}

// A host on the default loopback listener must be published with an
// address a resolver on the same machine can connect to.
func TestLoopbackHostAdvertisesDialableAddress(t *testing.T) {
	t.Parallel()

	advertiser := &capturingAdvertiser{services: make(chan server.Service, 1)}
	host := server.NewHost(server.HostOptions{Logger: testutil.Logger(), Advertiser: advertiser})
	config := server.Config{InstanceName: "quiet-heron", ProjectPath: "/work/game", ProjectName: "Game", UnityVersion: "6000.0.1f1"}
	if err := host.Start(config, server.AdapterFunc(func(server.ConnectionID, string, []string) {})); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		done := host.Done()
		host.Stop()
		testutil.RequireClosed(t, done, 5*time.Second, "host teardown")
	})
	service := testutil.RequireReceive(t, advertiser.services, 5*time.Second, "advertised service")

	ips := pinnedAddresses(service.IP)
	if len(ips) == 0 {
		t.Fatalf("loopback listener %v published with interface addresses", service.IP)
	}
	resolved := zeroconf.NewServiceEntry(service.Instance, server.ServiceType, server.ServiceDomain)
	resolved.HostName = "workstation.local."
	resolved.Port = service.Port
	resolved.Text = encodeText(service.Properties)
	for _, ip := range ips {
		resolved.AddrIPv4 = append(resolved.AddrIPv4, net.ParseIP(ip))
	}

	session, ok := sessionFromEntry(resolved)
	if !ok {
		t.Fatalf("advertised entry %+v not usable", resolved)
	}
	conn, err := net.DialTimeout("tcp", session.Address(), 5*time.Second)
	if err != nil {
		t.Fatalf("dialing advertised address %s: %v", session.Address(), err)
	}
	conn.Close()
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	properties := map[string]string{
		server.PropertyProjectPath:  "/work/my game",
		server.PropertyProjectName:  "My Game",
		server.PropertyUnityVersion: "2022.3.10f1",
		"extra":                     "a=b",
	}
	text := encodeText(properties)
	if !strings.HasPrefix(text[0], server.PropertyProjectPath+"=") {
		t.Errorf("first TXT string %q, want project path first", text[0])
	}
	parsed := parseText(text)
	for key, want := range properties {
		if parsed[key] != want {
			t.Errorf("%s = %q, want %q", key, parsed[key], want)
		}
	}
	if flags := parseText([]string{"flag", "=ignored"}); flags["flag"] != "" || len(flags) != 1 {
		t.Errorf("parseText(flag) = %v", flags)
	}
}

func TestQueryMatch(t *testing.T) {
	t.Parallel()

	session := Session{Name: "swift-otter", ProjectName: "Platformer", ProjectPath: "/nonexistent/platformer"}
	tests := []struct {
		name       string
		query      Query
		matched    bool
		definitive bool
	}{
		{"empty query", Query{}, true, false},
		{"project prefix", Query{Project: "Plat"}, true, false},
		{"project exact", Query{Project: "Platformer"}, true, true},
		{"project mismatch", Query{Project: "Racer"}, false, false},
		{"session prefix", Query{Session: "swift"}, true, false},
		{"session exact", Query{Session: "swift-otter"}, true, true},
		{"session mismatch", Query{Session: "brave"}, false, false},
		{"project decides before session", Query{Project: "Plat", Session: "brave"}, true, false},
		{"unresolvable path falls through", Query{Path: "/nonexistent/other", Project: "Platformer"}, true, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			matched, definitive := test.query.match(session)
			if matched != test.matched || definitive != test.definitive {
				t.Errorf("match = (%v, %v), want (%v, %v)", matched, definitive, test.matched, test.definitive)
			}
		})
	}
}

func TestQueryMatchPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	project := filepath.Join(root, "project")
	other := filepath.Join(root, "other")
	for _, dir := range []string{project, other} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	link := filepath.Join(root, "link")
	if err := os.Symlink(project, link); err != nil {
		t.Fatal(err)
	}

	session := Session{Name: "calm-heron", ProjectName: "Game", ProjectPath: project}

	if matched, definitive := (Query{Path: link}).match(session); !matched || !definitive {
		t.Errorf("symlinked path: match = (%v, %v), want definitive", matched, definitive)
	}
	if matched, _ := (Query{Path: other, Project: "Game"}).match(session); matched {
		t.Error("different resolvable path matched")
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	t.Run("gathers until channel closes", func(t *testing.T) {
		entries := make(chan *zeroconf.ServiceEntry, 4)
		entries <- entry("swift-otter", "Game", "/a")
		entries <- entry("swift-otter", "Game", "/a")
		entries <- entry("calm-heron", "Tool", "/b")
		entries <- entry("brave-lynx", "Game Demo", "/c")
		close(entries)

		sessions := collect(t.Context(), Query{Project: "Game"}, entries)
		var names []string
		for _, session := range sessions {
			names = append(names, session.Name)
		}
		if !slices.Equal(names, []string{"swift-otter", "brave-lynx"}) {
			t.Errorf("sessions = %v", names)
		}
	})

	t.Run("definitive match stops early", func(t *testing.T) {
		entries := make(chan *zeroconf.ServiceEntry, 2)
		entries <- entry("swift-otter", "Game Demo", "/a")
		entries <- entry("calm-heron", "Game", "/b")

		result := make(chan []Session, 1)
		go func() { result <- collect(context.Background(), Query{Project: "Game"}, entries) }()
		sessions := testutil.RequireReceive(t, result, 5*time.Second, "collect returns without waiting for close")
		if len(sessions) != 1 || sessions[0].Name != "calm-heron" {
			t.Errorf("sessions = %+v, want only calm-heron", sessions)
		}
	})

	t.Run("stops at deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()
		entries := make(chan *zeroconf.ServiceEntry)
		if sessions := collect(ctx, Query{}, entries); len(sessions) != 0 {
			t.Errorf("sessions = %+v", sessions)
		}
	})
}

func TestSelect(t *testing.T) {
	t.Parallel()

	if _, err := Select(nil); !errors.Is(err, ErrNoSession) {
		t.Errorf("Select(nil) error = %v, want ErrNoSession", err)
	}

	one := Session{Name: "swift-otter"}
	got, err := Select([]Session{one})
	if err != nil || got.Name != one.Name {
		t.Errorf("Select(one) = (%+v, %v)", got, err)
	}

	_, err = Select([]Session{{Name: "a", ProjectName: "Game"}, {Name: "b", ProjectName: "Game"}})
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Select(two) error = %v, want *AmbiguousError", err)
	}
	if len(ambiguous.Sessions) != 2 || !strings.Contains(err.Error(), "a (Game)") {
		t.Errorf("ambiguous error = %v", err)
	}
}

func TestGenerateName(t *testing.T) {
	t.Parallel()

	for range 50 {
		name := GenerateName()
		adjective, noun, ok := strings.Cut(name, "-")
		if !ok || !slices.Contains(adjectives, adjective) || !slices.Contains(nouns, noun) {
			t.Fatalf("GenerateName() = %q", name)
		}
	}
}
