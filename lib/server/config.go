// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net"
	"time"
)

// Defaults applied by Start to zero-valued Config fields.
const (
	DefaultListenAddress    = "127.0.0.1:0"
	DefaultOutboundCapacity = 8
	DefaultCommandCapacity  = 10
	DefaultMaxFrameSize     = 16 * 1024 * 1024
	DefaultKeepAlive        = 15 * time.Second
)

// Config describes one server instance.
type Config struct {
	// Advertised metadata.
	ProjectPath  string
	ProjectName  string
	UnityVersion string

	// InstanceName is the advertised session name. Empty lets the
	// Advertiser choose.
	InstanceName string

	// ListenAddress is the TCP address to bind. The default binds an
	// ephemeral loopback port.
	ListenAddress string

	// KeepAlive is the TCP keep-alive period for accepted connections.
	// Negative disables keep-alive.
	KeepAlive time.Duration

	// OutboundCapacity bounds each connection's outbound channel.
	OutboundCapacity int

	// CommandCapacity bounds the channel between the read pumps and the
	// command-dispatch loop.
	CommandCapacity int

	// MaxFrameSize is the largest payload a client may send. Larger
	// frames close the connection.
	MaxFrameSize int
}

func (c Config) withDefaults() Config {
	if c.ListenAddress == "" {
		c.ListenAddress = DefaultListenAddress
	}
	if c.KeepAlive == 0 {
		c.KeepAlive = DefaultKeepAlive
	}
	if c.OutboundCapacity <= 0 {
		c.OutboundCapacity = DefaultOutboundCapacity
	}
	if c.CommandCapacity <= 0 {
		c.CommandCapacity = DefaultCommandCapacity
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = DefaultMaxFrameSize
	}
	return c
}

func (c Config) service(addr *net.TCPAddr) Service {
	return Service{
		Instance: c.InstanceName,
		IP:       addr.IP,
		Port:     addr.Port,
		Properties: map[string]string{
			PropertyProjectPath:  c.ProjectPath,
			PropertyProjectName:  c.ProjectName,
			PropertyUnityVersion: c.UnityVersion,
		},
	}
}
