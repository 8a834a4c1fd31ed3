// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server serves the bank's line-oriented protocol over TCP.
//
// Every line the server sends ends in a newline. A line beginning with
// "? " is a prompt, and the server then waits for exactly one line of
// input. Each connection runs a login loop followed by the menu of the
// logged-in user's role, in its own goroutine.
package server // import "flatbank.io/server"

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/netutil"

	"flatbank.io/bank"
	"flatbank.io/errors"
	"flatbank.io/log"
	"flatbank.io/serverutil"
	"flatbank.io/session"
)

// Config holds the tunables of a Server.
type Config struct {
	// MaxConns caps simultaneous connections. Zero means no cap.
	MaxConns int

	// LoginBackoff and LoginBackoffMax throttle hosts that fail to log in.
	LoginBackoff    time.Duration
	LoginBackoffMax time.Duration
}

// Server accepts client connections and runs a menu session on each.
type Server struct {
	cfg     Config
	bank    *bank.Bank
	reg     *session.Register
	limiter *serverutil.RateLimiter

	mu     sync.Mutex
	conns  map[uuid.UUID]net.Conn // Open connections by session id.
	closed bool
	wg     sync.WaitGroup
}

// New returns a Server that performs operations with b and tracks logins
// with reg.
func New(cfg Config, b *bank.Bank, reg *session.Register) *Server {
	return &Server{
		cfg:  cfg,
		bank: b,
		reg:  reg,
		limiter: &serverutil.RateLimiter{
			Backoff: cfg.LoginBackoff,
			Max:     cfg.LoginBackoffMax,
		},
		conns: make(map[uuid.UUID]net.Conn),
	}
}

// Serve accepts connections on l until ctx is done or l fails. When ctx
// is done it closes l and every open connection, and returns once each
// connection's user has been logged out.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	const op errors.Op = "server.Serve"
	if s.cfg.MaxConns > 0 {
		l = netutil.LimitListener(l, s.cfg.MaxConns)
	}
	log.Info.Printf("%s: listening on %s", op, l.Addr())

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			l.Close()
		case <-stop:
		}
	}()

	var err error
	for {
		var c net.Conn
		c, err = l.Accept()
		if err != nil {
			break
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, c)
		}()
	}

	s.closeAll()
	s.wg.Wait()
	if ctx.Err() != nil {
		log.Info.Printf("%s: shut down", op)
		return nil
	}
	return errors.E(op, errors.IO, err)
}

// track registers an open connection. It reports false if the server is
// shutting down, in which case the connection must be dropped.
func (s *Server) track(id uuid.UUID, c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[id] = c
	return true
}

func (s *Server) untrack(id uuid.UUID) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
}

// closeAll closes every open connection. Their workers then see read
// errors and log their users out.
func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, c := range s.conns {
		log.Debug.Printf("server: closing session %s", id)
		c.Close()
	}
}

// serveConn runs the login loop and menus for one connection. Whatever
// way it returns, the logged-in user is logged out and c is closed.
func (s *Server) serveConn(ctx context.Context, c net.Conn) {
	id := uuid.New()
	defer c.Close()
	if !s.track(id, c) {
		return
	}
	defer s.untrack(id)

	sess := newConn(s, id, c)
	log.Info.Printf("server: session %s from %s", id, sess.host)
	defer func() {
		sess.logout()
		log.Info.Printf("server: session %s ended", id)
	}()
	if err := sess.run(ctx); err != nil {
		log.Debug.Printf("server: session %s: %v", id, err)
	}
}
