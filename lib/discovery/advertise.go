// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/ucli-foundation/ucli/lib/server"
)

// Advertiser registers servers with multicast DNS.
type Advertiser struct {
	logger *slog.Logger

	// Interfaces restricts advertising to these network interfaces.
	// Nil advertises on every multicast-capable interface.
	Interfaces []net.Interface

	// generateName picks instance names for unnamed services.
	generateName func() string

	// hostName names the host in address records published for a
	// listener bound to a specific address.
	hostName func() (string, error)
}

var _ server.Advertiser = (*Advertiser)(nil)

// NewAdvertiser returns an Advertiser logging to logger.
func NewAdvertiser(logger *slog.Logger) *Advertiser {
	return &Advertiser{logger: logger, generateName: GenerateName, hostName: os.Hostname}
}

// Advertise registers service. An empty instance name is replaced with
// a generated one.
//
// A service listening on every interface is published with the
// addresses of the interfaces it is advertised on. A service bound to
// one address, such as loopback, is published with that address only,
// so resolvers never dial an interface that refuses the connection.
func (a *Advertiser) Advertise(service server.Service) (server.Registration, error) {
	instance := service.Instance
	if instance == "" {
		instance = a.generateName()
	}
	text := encodeText(service.Properties)
	ips := pinnedAddresses(service.IP)

	var zeroconfServer *zeroconf.Server
	var err error
	if ips == nil {
		zeroconfServer, err = zeroconf.Register(instance, server.ServiceType, server.ServiceDomain,
			service.Port, text, a.Interfaces)
	} else {
		var hostName string
		hostName, err = a.hostName()
		if err != nil {
			return nil, fmt.Errorf("resolving host name for %q: %w", instance, err)
		}
		zeroconfServer, err = zeroconf.RegisterProxy(instance, server.ServiceType, server.ServiceDomain,
			service.Port, hostName, ips, text, a.Interfaces)
	}
	if err != nil {
		return nil, fmt.Errorf("registering %q with mdns: %w", instance, err)
	}
	a.logger.Info("advertising session",
		"instance", instance,
		"service", server.ServiceType,
		"port", service.Port,
		"addresses", ips,
	)
	return &registration{instance: instance, server: zeroconfServer, logger: a.logger}, nil
}

type registration struct {
	instance string
	server   *zeroconf.Server
	logger   *slog.Logger
	once     sync.Once
}

func (r *registration) Instance() string { return r.instance }

// Withdraw sends goodbye packets and stops responding to queries.
func (r *registration) Withdraw() {
	r.once.Do(func() {
		r.server.Shutdown()
		r.logger.Info("withdrew session", "instance", r.instance)
	})
}

// pinnedAddresses returns the addresses to publish for a listener bound
// to ip, or nil when the listener accepts on every interface.
func pinnedAddresses(ip net.IP) []string {
	if ip == nil || ip.IsUnspecified() {
		return nil
	}
	return []string{ip.String()}
}
