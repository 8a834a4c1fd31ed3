// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flags defines command-line flags to make them consistent between binaries.
// Not all flags make sense for all binaries; each binary names the ones it
// wants when it calls Parse.
package flags // import "flatbank.io/flags"

import (
	"flag"
	"fmt"
	"os"

	"flatbank.io/config"
	"flatbank.io/log"
)

// We define the flags in two steps so clients don't have to write *flags.Flag.
// It also makes the documentation easier to read.

var (
	// Config names the YAML configuration file of the server.
	Config = ""

	// Data is the directory holding the table files.
	Data = config.DefaultData

	// Addr is the network address to listen on or dial.
	Addr = config.DefaultAddr

	// MaxConns caps the number of simultaneous client connections.
	MaxConns = config.DefaultMaxConns

	// Log sets the level of logging.
	Log logFlag
)

// flags is a map of flag registration functions keyed by flag name,
// used by Parse to register specific (or all) flags.
var flags = map[string]func(fs *flag.FlagSet){
	"config": func(fs *flag.FlagSet) {
		fs.StringVar(&Config, "config", Config, "YAML configuration `file`")
	},
	"data": func(fs *flag.FlagSet) {
		fs.StringVar(&Data, "data", Data, "`directory` holding the table files")
	},
	"addr": func(fs *flag.FlagSet) {
		fs.StringVar(&Addr, "addr", Addr, "network `address` of the bank server")
	},
	"max_conns": func(fs *flag.FlagSet) {
		fs.IntVar(&MaxConns, "max_conns", MaxConns, "maximum simultaneous client connections")
	},
	"log": func(fs *flag.FlagSet) {
		Log.set(log.CurrentLevel())
		fs.Var(&Log, "log", "`level` of logging: debug, info, error, disabled")
	},
}

// set records which flags were given explicitly on the command line.
var set = map[string]bool{}

// Parse registers the command-line flags for the given flag names
// and calls flag.Parse. Passing zero names registers all flags.
// Passing an unknown name triggers a panic.
//
// For example:
//
//	flags.Parse("config", "data") // Register Config and Data.
//	flags.Parse()                 // Register all flags.
func Parse(names ...string) {
	if err := ParseArgs(flag.CommandLine, os.Args[1:], names...); err != nil {
		// flag.CommandLine exits on error; this is unreachable.
		panic(err)
	}
}

// ParseArgs is like Parse but registers the flags in fs and parses args.
func ParseArgs(fs *flag.FlagSet, args []string, names ...string) error {
	Register(fs, names...)
	if err := fs.Parse(args); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return nil
}

// Register registers the command-line flags for the given flag names
// in fs without parsing. Passing zero names registers all flags.
func Register(fs *flag.FlagSet, names ...string) {
	if len(names) == 0 {
		for _, fn := range flags {
			fn(fs)
		}
		return
	}
	for _, n := range names {
		fn, ok := flags[n]
		if !ok {
			panic(fmt.Sprintf("unknown flag %q", n))
		}
		fn(fs)
	}
}

// Set reports whether the named flag was given on the command line.
func Set(name string) bool {
	return set[name]
}

type logFlag struct {
	level log.Level
}

func (l *logFlag) set(level log.Level) { l.level = level }

// Level returns the level the flag holds.
func (l *logFlag) Level() log.Level { return l.level }

// String implements flag.Value.
func (l *logFlag) String() string {
	if l == nil {
		return ""
	}
	return l.level.String()
}

// Set implements flag.Value.
func (l *logFlag) Set(level string) error {
	lv, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	l.level = lv
	log.SetLevel(lv)
	return nil
}
