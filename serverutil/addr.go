// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serverutil

import (
	"net"
)

// Host returns the host part of a network address such as the one
// returned by net.Conn.RemoteAddr. It is the key the server rate-limits
// failed logins by. An address without a port is returned as is.
func Host(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// IsLoopback returns true if the name only resolves to loopback addresses.
// An empty host, as in ":9090", listens on every interface and is not
// loopback.
func IsLoopback(addr string) bool {
	host := Host(addr)
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return true
	}
	if host == "" {
		return false
	}
	// Check for loopback network.
	ips, err := net.LookupIP(host)
	if err != nil {
		return false
	}
	for _, ip := range ips {
		if !ip.IsLoopback() {
			return false
		}
	}
	return len(ips) > 0
}
