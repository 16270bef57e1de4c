// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

// Package discovery publishes and finds ucli servers on the local
// network using DNS-based service discovery over multicast DNS.
//
// A server advertises the service type [server.ServiceType] with TXT
// properties describing the project it belongs to. [Advertiser]
// implements [server.Advertiser]; when a server is started without an
// instance name the advertiser picks a random adjective-noun name (see
// [GenerateName]), which clients use as the session name.
//
// Clients call [Browse] with a [Query]. Browsing collects resolved
// sessions until the query's timeout elapses or a session matches the
// query definitively, then [Select] picks the one session to connect
// to.
package discovery
