// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package subcmd holds the state shared by the subcommands of the bank's
// administration tools.
package subcmd // import "flatbank.io/subcmd"

import (
	"fmt"
	"io"
	"os"

	"flatbank.io/bank"
	"flatbank.io/session"
	"flatbank.io/shutdown"
	"flatbank.io/store"
)

// State describes the state of a subcommand.
type State struct {
	Prog     string            // Name of the program, such as "bankadm".
	Name     string            // Name of the subcommand we are running.
	Store    *store.Store      // Store of the data directory; nil before Init.
	Bank     *bank.Bank        // Bank over Store; nil before Init.
	Register *session.Register // Session register over Store; nil before Init.
	Stdout   io.Writer         // Where to write standard output.
	Stderr   io.Writer         // Where to write error output.
	ExitCode int               // Exit with non-zero status for minor problems.
}

// NewState returns a new State for the named subcommand of prog.
func NewState(prog, name string) *State {
	s := &State{Prog: prog, Name: name}
	s.DefaultIO()
	return s
}

// Init opens the data directory. The store is closed when the program
// exits through ExitNow or shutdown.Now.
func (s *State) Init(dataDir string) {
	st, err := store.Open(Tilde(dataDir))
	if err != nil {
		s.Exit(err)
	}
	s.Store = st
	s.Bank = bank.New(st)
	s.Register = session.New(st)
	shutdown.Handle(func() { st.Close() })
}

func (s *State) SetIO(stdout, stderr io.Writer) {
	s.Stdout = stdout
	s.Stderr = stderr
}

func (s *State) DefaultIO() {
	s.SetIO(os.Stdout, os.Stderr)
}

// Exitf prints the error and exits the program.
// We don't use log (although the packages we call do) because the errors
// are for regular people.
func (s *State) Exitf(format string, args ...interface{}) {
	s.Failf(format, args...)
	s.ExitNow()
}

// Exit calls s.Exitf with the error.
func (s *State) Exit(err error) {
	s.Exitf("%s", err)
}

// ExitNow terminates the process with the current ExitCode.
func (s *State) ExitNow() {
	shutdown.Now(s.ExitCode)
}

// Failf logs the error and sets the exit code. It does not exit the program.
func (s *State) Failf(format string, args ...interface{}) {
	format = fmt.Sprintf("%s: %s: %s\n", s.Prog, s.Name, format)
	fmt.Fprintf(s.Stderr, format, args...)
	s.ExitCode = 1
}

// Fail calls s.Failf with the error.
func (s *State) Fail(err error) {
	s.Failf("%v", err)
}

// Printf writes to standard output.
func (s *State) Printf(format string, args ...interface{}) {
	fmt.Fprintf(s.Stdout, format, args...)
}
