// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"io"
	"os"
	"path/filepath"

	ini "github.com/lars-t-hansen/ini"

	"flatbank.io/errors"
)

// Client holds the defaults of the bank client.
type Client struct {
	// Addr is the address of the bank server.
	Addr string
}

// ClientFile is the name of the client defaults file in the home directory.
const ClientFile = ".flatbank"

// The client defaults file is an INI file:
//
//	[server]
//	addr = bank.example.com:9090
var (
	clientParser  = ini.NewParser()
	serverSection = clientParser.AddSection("server")
	serverAddr    = serverSection.AddString("addr")
)

// ClientFromHome loads the client defaults from $HOME/.flatbank. A missing
// file or home directory yields the built-in defaults.
func ClientFromHome() (*Client, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return &Client{Addr: DefaultAddr}, nil
	}
	cfg, err := ClientFromFile(filepath.Join(filepath.Clean(home), ClientFile))
	if errors.Is(errors.NotExist, err) {
		return &Client{Addr: DefaultAddr}, nil
	}
	return cfg, err
}

// ClientFromFile loads the client defaults from the named INI file.
func ClientFromFile(name string) (*Client, error) {
	const op errors.Op = "config.ClientFromFile"
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.E(op, errors.NotExist, err)
		}
		return nil, errors.E(op, errors.IO, err)
	}
	defer f.Close()
	cfg, err := ParseClient(f)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return cfg, nil
}

// ParseClient reads client defaults in INI format from r.
func ParseClient(r io.Reader) (*Client, error) {
	const op errors.Op = "config.ParseClient"
	store, err := clientParser.Parse(r)
	if err != nil {
		return nil, errors.E(op, errors.Invalid, err)
	}
	cfg := &Client{Addr: DefaultAddr}
	if serverAddr.Present(store) {
		cfg.Addr = os.ExpandEnv(serverAddr.StringVal(store))
	}
	return cfg, nil
}
