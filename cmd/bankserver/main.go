// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bankserver serves the bank's menus to clients over TCP.
//
// Settings come from built-in defaults, then the YAML file named by
// -config, then the command-line flags.
package main // import "flatbank.io/cmd/bankserver"

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"flatbank.io/bank"
	"flatbank.io/config"
	"flatbank.io/flags"
	"flatbank.io/flatbank"
	"flatbank.io/log"
	"flatbank.io/server"
	"flatbank.io/serverutil"
	"flatbank.io/session"
	"flatbank.io/shutdown"
	"flatbank.io/store"
	"flatbank.io/subcmd"
	"flatbank.io/version"
)

var (
	clearSessions = flag.Bool("clear_sessions", false, "mark every user logged out before serving; use after a crash")
	printVersion  = flag.Bool("version", false, "print build version and exit")
)

func main() {
	flags.Parse("config", "data", "addr", "max_conns", "log")
	if *printVersion {
		fmt.Print(version.Version())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	log.Info.Printf("bankserver: version %s", strings.ReplaceAll(strings.TrimSpace(version.Version()), "\n", "; "))
	st, err := store.Open(subcmd.Tilde(cfg.Data))
	if err != nil {
		log.Fatal(err)
	}
	shutdown.Handle(func() {
		if err := st.Close(); err != nil {
			log.Error.Printf("bankserver: closing store: %v", err)
		}
	})

	reg := session.New(st)
	if *clearSessions {
		for _, role := range flatbank.Roles {
			n, err := reg.Clear(role)
			if err != nil {
				log.Error.Printf("bankserver: %v", err)
				shutdown.Now(1)
			}
			if n > 0 {
				log.Info.Printf("bankserver: logged out %d %s users", n, role)
			}
		}
	}

	if !serverutil.IsLoopback(cfg.Addr) {
		log.Info.Printf("bankserver: warning: %s is not a loopback address and the protocol is not encrypted", cfg.Addr)
	}
	l, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Error.Printf("bankserver: %v", err)
		shutdown.Now(1)
	}

	srv := server.New(server.Config{
		MaxConns:        cfg.MaxConns,
		LoginBackoff:    cfg.LoginBackoff,
		LoginBackoffMax: cfg.LoginBackoffMax,
	}, bank.New(st, bank.WithLanguage(language.Make(cfg.Language))), reg)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, l)
	})
	g.Go(func() error {
		if sig := shutdown.Wait(gctx); sig != nil {
			cancel()
		}
		return nil
	})
	code := 0
	if err := g.Wait(); err != nil {
		log.Error.Printf("bankserver: %v", err)
		code = 1
	}
	cancel()
	shutdown.Now(code)
}

// loadConfig merges the configuration file, if any, with the flags given
// on the command line. Flags win.
func loadConfig() (*config.Server, error) {
	cfg := config.Default()
	if flags.Config != "" {
		var err error
		cfg, err = config.FromFile(subcmd.Tilde(flags.Config))
		if err != nil {
			return nil, err
		}
	}
	if flags.Set("data") {
		cfg.Data = flags.Data
	}
	if flags.Set("addr") {
		cfg.Addr = flags.Addr
	}
	if flags.Set("max_conns") {
		cfg.MaxConns = flags.MaxConns
	}
	if !flags.Set("log") {
		if err := log.SetLevelName(cfg.Log); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
