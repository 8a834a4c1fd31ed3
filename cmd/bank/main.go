// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bank is the interactive client of the bank server.
//
// The server address defaults to the addr key of the [server] section of
// $HOME/.flatbank and may be overridden with -addr.
package main // import "flatbank.io/cmd/bank"

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"golang.org/x/crypto/ssh/terminal"

	"flatbank.io/config"
	"flatbank.io/server"
)

func main() {
	addr := flag.String("addr", "", "network `address` of the bank server (default from $HOME/"+config.ClientFile+")")
	flag.Parse()

	cfg, err := config.ClientFromHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bank: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	conn, err := net.Dial("tcp", cfg.Addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bank: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	stdin := bufio.NewReader(os.Stdin)
	c := &client{
		server:   conn,
		stdin:    stdin,
		stdout:   os.Stdout,
		password: readPassword(stdin),
	}
	if err := c.run(); err != nil {
		fmt.Fprintf(os.Stderr, "bank: %v\n", err)
		os.Exit(1)
	}
}

// readPassword reads a password without echo when standard input is a
// terminal.
func readPassword(stdin *bufio.Reader) func() (string, error) {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return func() (string, error) { return readLine(stdin) }
	}
	return func() (string, error) {
		pw, err := terminal.ReadPassword(fd)
		fmt.Println()
		return string(pw), err
	}
}

// client relays server output to the user and the user's answers to the
// server.
type client struct {
	server   io.ReadWriter
	stdin    *bufio.Reader
	stdout   io.Writer
	password func() (string, error)
}

// run relays until the server closes the connection.
func (c *client) run() error {
	r := bufio.NewReader(c.server)
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSuffix(line, "\n")
		prompt, ok := strings.CutPrefix(line, server.PromptPrefix)
		if !ok {
			fmt.Fprintln(c.stdout, line)
			continue
		}
		fmt.Fprint(c.stdout, prompt+" ")
		var answer string
		if strings.Contains(strings.ToLower(prompt), "password") {
			answer, err = c.password()
		} else {
			answer, err = readLine(c.stdin)
		}
		if err != nil {
			return err
		}
		if _, err := io.WriteString(c.server, answer+"\n"); err != nil {
			return err
		}
	}
}

// readLine returns the next line of r without its line ending. At end of
// input it answers "exit" so the server ends the session.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && line == "" {
		return "exit", nil
	}
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
