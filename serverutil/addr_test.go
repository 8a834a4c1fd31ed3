// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serverutil

import "testing"

func TestHost(t *testing.T) {
	tests := []struct {
		addr, host string
	}{
		{"10.1.2.3:5555", "10.1.2.3"},
		{"[::1]:9090", "::1"},
		{"pipe", "pipe"},
		{":9090", ""},
	}
	for _, test := range tests {
		if got := Host(test.addr); got != test.host {
			t.Errorf("Host(%q) = %q, want %q", test.addr, got, test.host)
		}
	}
}

func TestIsLoopback(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"localhost:9090", true},
		{"127.0.0.1:9090", true},
		{"[::1]:9090", true},
		{":9090", false},
		{"192.0.2.7:9090", false},
	}
	for _, test := range tests {
		if got := IsLoopback(test.addr); got != test.want {
			t.Errorf("IsLoopback(%q) = %v, want %v", test.addr, got, test.want)
		}
	}
}
