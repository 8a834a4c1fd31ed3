// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the configuration of the bank server and client.
package config // import "flatbank.io/config"

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v2"

	"flatbank.io/errors"
	"flatbank.io/log"
)

// Server holds the settings of a bank server.
type Server struct {
	// Data is the directory holding the table files.
	Data string

	// Addr is the TCP address to listen on.
	Addr string

	// MaxConns caps the number of simultaneous client connections.
	MaxConns int

	// Log is the logging level: debug, info, error or disabled.
	Log string

	// Language is the BCP 47 tag whose conventions format amounts.
	Language string

	// LoginBackoff is the wait imposed on a host after a failed login.
	// It doubles with each further failure, up to LoginBackoffMax.
	LoginBackoff    time.Duration
	LoginBackoffMax time.Duration
}

// Known keys. All others are treated as errors.
const (
	data            = "data"
	addr            = "addr"
	maxConns        = "max_conns"
	logLevel        = "log"
	lang            = "language"
	loginBackoff    = "login_backoff"
	loginBackoffMax = "login_backoff_max"
)

// Default values.
const (
	DefaultData     = "data"
	DefaultAddr     = "localhost:9090"
	DefaultMaxConns = 64
	DefaultLog      = "info"
	DefaultLanguage = "en"
)

// Default returns the configuration used when no file is given.
func Default() *Server {
	return &Server{
		Data:            DefaultData,
		Addr:            DefaultAddr,
		MaxConns:        DefaultMaxConns,
		Log:             DefaultLog,
		Language:        DefaultLanguage,
		LoginBackoff:    time.Second,
		LoginBackoffMax: time.Minute,
	}
}

// FromFile loads a server configuration from the named YAML file.
func FromFile(name string) (*Server, error) {
	const op errors.Op = "config.FromFile"
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.E(op, errors.NotExist, err)
		}
		return nil, errors.E(op, errors.IO, err)
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return cfg, nil
}

// Parse reads a server configuration in YAML from r. Keys not present
// keep their default values.
//
// A configuration file looks like
//
//	data: /var/lib/flatbank
//	addr: localhost:9090
//	max_conns: 64
//	log: info
//	language: en
//	login_backoff: 1s
//	login_backoff_max: 1m
func Parse(r io.Reader) (*Server, error) {
	const op errors.Op = "config.Parse"
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	vals := map[string]string{
		data:            "",
		addr:            "",
		maxConns:        "",
		logLevel:        "",
		lang:            "",
		loginBackoff:    "",
		loginBackoffMax: "",
	}
	if err := valsFromYAML(vals, buf); err != nil {
		return nil, errors.E(op, err)
	}

	cfg := Default()
	if v := vals[data]; v != "" {
		cfg.Data = v
	}
	if v := vals[addr]; v != "" {
		cfg.Addr = v
	}
	if v := vals[maxConns]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.E(op, errors.Invalid, errors.Errorf("bad %s %q", maxConns, v))
		}
		cfg.MaxConns = n
	}
	if v := vals[logLevel]; v != "" {
		if _, err := log.ParseLevel(v); err != nil {
			return nil, errors.E(op, errors.Invalid, err)
		}
		cfg.Log = v
	}
	if v := vals[lang]; v != "" {
		if _, err := language.Parse(v); err != nil {
			return nil, errors.E(op, errors.Invalid, errors.Errorf("bad %s %q", lang, v))
		}
		cfg.Language = v
	}
	if v := vals[loginBackoff]; v != "" {
		if cfg.LoginBackoff, err = parseDuration(loginBackoff, v); err != nil {
			return nil, errors.E(op, err)
		}
	}
	if v := vals[loginBackoffMax]; v != "" {
		if cfg.LoginBackoffMax, err = parseDuration(loginBackoffMax, v); err != nil {
			return nil, errors.E(op, err)
		}
	}
	if cfg.LoginBackoffMax < cfg.LoginBackoff {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("%s is less than %s", loginBackoffMax, loginBackoff))
	}
	return cfg, nil
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, errors.E(errors.Invalid, errors.Errorf("bad %s %q", key, v))
	}
	return d, nil
}

// valsFromYAML parses YAML from the given map and puts the values
// into the provided map. Unrecognized keys generate an error.
func valsFromYAML(vals map[string]string, data []byte) error {
	newVals := map[string]interface{}{}
	if err := yaml.Unmarshal(data, newVals); err != nil {
		return errors.E(errors.Invalid, errors.Errorf("parsing YAML file: %v", err))
	}
	for k, v := range newVals {
		if _, ok := vals[k]; !ok {
			return errors.E(errors.Invalid, errors.Errorf("unrecognized key %q", k))
		}
		s, err := asString(v)
		if err != nil {
			return errors.E(errors.Invalid, errors.Errorf("%q: %v", k, err))
		}
		vals[k] = s
	}
	return nil
}

// asString tries to convert a value back into its original string. This will not
// always be possible but should be for all our expected use cases.
func asString(v interface{}) (string, error) {
	switch vc := v.(type) {
	case int, int32, int64, uint, uint32, uint64, float32, float64, bool:
		return fmt.Sprintf("%v", vc), nil
	case string:
		return vc, nil
	}
	return "", errors.Errorf("unrecognized value %T", v)
}
