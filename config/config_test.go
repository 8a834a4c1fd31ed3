// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flatbank.io/errors"
)

func TestParse(t *testing.T) {
	const file = `
data: /var/lib/flatbank
addr: 0.0.0.0:7070
max_conns: 8
log: debug
language: de
login_backoff: 2s
login_backoff_max: 30s
`
	cfg, err := Parse(strings.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}
	want := Server{
		Data:            "/var/lib/flatbank",
		Addr:            "0.0.0.0:7070",
		MaxConns:        8,
		Log:             "debug",
		Language:        "de",
		LoginBackoff:    2 * time.Second,
		LoginBackoffMax: 30 * time.Second,
	}
	if *cfg != want {
		t.Errorf("Parse = %+v, want %+v", *cfg, want)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("addr: localhost:1234\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := *Default()
	want.Addr = "localhost:1234"
	if *cfg != want {
		t.Errorf("Parse = %+v, want %+v", *cfg, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, file string
	}{
		{"unknown key", "port: 9090\n"},
		{"bad yaml", "addr: [unterminated\n"},
		{"bad max_conns", "max_conns: lots\n"},
		{"zero max_conns", "max_conns: 0\n"},
		{"bad log", "log: loud\n"},
		{"bad language", "language: not-a-tag!\n"},
		{"bad duration", "login_backoff: soon\n"},
		{"max below backoff", "login_backoff: 10s\nlogin_backoff_max: 1s\n"},
		{"list value", "data:\n  - a\n  - b\n"},
	}
	for _, test := range tests {
		_, err := Parse(strings.NewReader(test.file))
		if !errors.Is(errors.Invalid, err) {
			t.Errorf("%s: err = %v, want Invalid", test.name, err)
		}
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := FromFile(filepath.Join(dir, "missing.yaml")); !errors.Is(errors.NotExist, err) {
		t.Errorf("missing file: err = %v, want NotExist", err)
	}
	name := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(name, []byte("data: /tmp/bank\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := FromFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data != "/tmp/bank" || cfg.Addr != DefaultAddr {
		t.Errorf("FromFile = %+v", cfg)
	}
}

func TestParseClient(t *testing.T) {
	cfg, err := ParseClient(strings.NewReader("[server]\naddr = bank.example.com:9090\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cfg.Addr, "bank.example.com:9090"; got != want {
		t.Errorf("Addr = %q, want %q", got, want)
	}
	cfg, err = ParseClient(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("empty file Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
}

func TestClientFromHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg, err := ClientFromHome()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("no file: Addr = %q, want default", cfg.Addr)
	}
	if err := os.WriteFile(filepath.Join(home, ClientFile), []byte("[server]\naddr = 10.0.0.5:9090\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err = ClientFromHome()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "10.0.0.5:9090" {
		t.Errorf("Addr = %q, want 10.0.0.5:9090", cfg.Addr)
	}
}
