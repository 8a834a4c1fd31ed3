// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/log"
	"flatbank.io/serverutil"
)

// maxLine is the longest input line accepted.
const maxLine = 4096

// PromptPrefix marks a line that awaits one line of input.
const PromptPrefix = "? "

// errExit ends a connection at the client's request.
var errExit = errors.Str("exit")

// conn is the state of one client connection.
type conn struct {
	srv  *Server
	id   uuid.UUID
	host string
	in   *bufio.Scanner
	out  *bufio.Writer

	// Set while a user is logged in.
	role flatbank.Role
	user flatbank.UserName
}

func newConn(s *Server, id uuid.UUID, c net.Conn) *conn {
	in := bufio.NewScanner(c)
	in.Buffer(make([]byte, 0, 256), maxLine)
	return &conn{
		srv:  s,
		id:   id,
		host: serverutil.Host(c.RemoteAddr().String()),
		in:   in,
		out:  bufio.NewWriter(c),
	}
}

// printf writes one line of output. Output is buffered until the next
// prompt or the end of the connection.
func (c *conn) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
	c.out.WriteByte('\n')
}

// prompt sends a prompt and returns the trimmed line the client answers
// with.
func (c *conn) prompt(text string) (string, error) {
	c.out.WriteString(PromptPrefix)
	c.out.WriteString(text)
	c.out.WriteByte('\n')
	if err := c.out.Flush(); err != nil {
		return "", err
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// run serves the connection until the client exits or goes away.
func (c *conn) run(ctx context.Context) error {
	defer c.out.Flush()
	c.printf("Welcome to Flatbank.")
	for ctx.Err() == nil {
		ok, err := c.login()
		if err != nil {
			return c.bye(err)
		}
		if !ok {
			continue
		}
		err = c.menu()
		c.logout()
		if err != nil {
			return c.bye(err)
		}
	}
	return ctx.Err()
}

// bye says goodbye if the client asked to leave.
func (c *conn) bye(err error) error {
	if err == errExit {
		c.printf("Goodbye.")
		return nil
	}
	return err
}

// login runs one login attempt. It reports whether a user is now logged in.
func (c *conn) login() (bool, error) {
	if wait := c.srv.limiter.Wait(c.host); wait > 0 {
		c.printf("Too many failed logins. Try again in %v.", wait.Round(time.Second))
		if _, err := c.prompt("Press enter to continue:"); err != nil {
			return false, err
		}
		return false, nil
	}
	roleName, err := c.prompt("Role (admin, manager, employee, customer) or exit:")
	if err != nil {
		return false, err
	}
	if strings.EqualFold(roleName, "exit") {
		return false, errExit
	}
	role, ok := flatbank.ParseRole(strings.ToLower(roleName))
	if !ok {
		c.printf("Unknown role %q.", roleName)
		return false, nil
	}
	name, err := c.prompt("Username:")
	if err != nil {
		return false, err
	}
	password, err := c.prompt("Password:")
	if err != nil {
		return false, err
	}
	user := flatbank.UserName(name)
	result, err := c.srv.reg.Login(role, user, password)
	if err != nil {
		log.Error.Printf("server: session %s: %v", c.id, err)
		c.printf("Login failed: internal error.")
		return false, nil
	}
	switch result {
	case flatbank.Success:
		c.srv.limiter.Reset(c.host)
		c.role, c.user = role, user
		log.Info.Printf("server: session %s: %s %s logged in", c.id, role, user)
		c.printf("Login successful. Welcome, %s.", user)
		return true, nil
	case flatbank.InvalidCredentials:
		c.srv.limiter.Fail(c.host)
		c.printf("Invalid username or password.")
	case flatbank.Inactive:
		c.printf("Account is inactive. Contact the bank.")
	case flatbank.AlreadyLoggedIn:
		c.printf("User %s is already logged in elsewhere.", user)
	}
	return false, nil
}

// logout logs out the current user, if any. It is safe to call more
// than once.
func (c *conn) logout() {
	if c.user == "" {
		return
	}
	if err := c.srv.reg.Logout(c.role, c.user); err != nil {
		log.Error.Printf("server: session %s: %v", c.id, err)
	}
	c.role, c.user = flatbank.NoRole, ""
}
