// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"bytes"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"testing"
)

func testingUserLookup(who string) (*user.User, error) {
	if who == "ann" {
		return &user.User{HomeDir: filepath.Join("/usr", "ann")}, nil
	}
	return nil, fmt.Errorf("no such user")
}

func testingUserHome() (string, error) {
	return filepath.Join("/usr", "default"), nil
}

var tildeTests = []struct{ in, out string }{
	{"", ""},
	{"data", "data"},
	{"~", filepath.Join("/usr", "default")},
	{"~/", filepath.Join("/usr", "default")},
	{"~/bank", filepath.Join("/usr", "default", "bank")},
	{"~ann", filepath.Join("/usr", "ann")},
	{"~ann/", filepath.Join("/usr", "ann")},
	{"~ann/bank", filepath.Join("/usr", "ann", "bank")},
	{"~xxx", "~xxx"},
	{"~xxx/", "~xxx"},
	{"~xxx/bank", filepath.Join("~xxx", "bank")},
}

func TestTilde(t *testing.T) {
	userLookup, userHome = testingUserLookup, testingUserHome
	defer func() {
		userLookup, userHome = user.Lookup, os.UserHomeDir
	}()
	for _, test := range tildeTests {
		out := Tilde(test.in)
		if out != test.out {
			t.Errorf("Tilde(%q) = %q; expected %q", test.in, out, test.out)
		}
	}
}

func TestFailf(t *testing.T) {
	var stdout, stderr bytes.Buffer
	s := NewState("bankadm", "list")
	s.SetIO(&stdout, &stderr)
	s.Failf("no role %q", "teller")
	if got, want := stderr.String(), "bankadm: list: no role \"teller\"\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
	if s.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", s.ExitCode)
	}
	s.Printf("%d users\n", 3)
	if got := stdout.String(); got != "3 users\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bank")
	s := NewState("bankadm", "list")
	s.Init(dir)
	defer s.Store.Close()
	if s.Bank == nil || s.Register == nil {
		t.Fatal("Init left Bank or Register unset")
	}
	if _, err := os.Stat(filepath.Join(dir, "customer.txt")); err != nil {
		t.Error(err)
	}
}
