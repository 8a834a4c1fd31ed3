// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bankadm administers a bank data directory directly. It takes the
// same locks as the server, so it is safe to run while a server is up,
// except for clear-sessions, which must only run after a crash.
package main // import "flatbank.io/cmd/bankadm"

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"flatbank.io/flags"
	"flatbank.io/flatbank"
	"flatbank.io/store"
	"flatbank.io/subcmd"
	"flatbank.io/version"
)

const prog = "bankadm"

var commands = map[string]func(*subcmd.State, ...string){
	"adduser":        adduser,
	"list":           list,
	"clear-sessions": clearSessions,
	"floor":          floor,
	"version":        printVersion,
}

func main() {
	flag.Usage = usage
	flags.Parse("data", "log")

	if flag.NArg() < 1 {
		usage()
	}
	name := strings.ToLower(flag.Arg(0))
	fn, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: no such command %q\n", prog, name)
		usage()
	}
	s := subcmd.NewState(prog, name)
	fn(s, flag.Args()[1:]...)
	s.ExitNow()
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", prog)
	fmt.Fprintf(os.Stderr, "\t%s [globalflags] <command> [flags] <args>\n", prog)
	fmt.Fprintf(os.Stderr, "Commands:\n")
	var names []string
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "\t%s\n", name)
	}
	fmt.Fprintf(os.Stderr, "Global flags:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

// role parses a role argument or exits.
func role(s *subcmd.State, arg string) flatbank.Role {
	r, ok := flatbank.ParseRole(strings.ToLower(arg))
	if !ok {
		s.Exitf("unknown role %q", arg)
	}
	return r
}

func adduser(s *subcmd.State, args ...string) {
	const help = `
Adduser adds an active user to the table of the given role. It is how the
first admin is created; after that, admins add staff through the server.
`
	fs := flag.NewFlagSet("adduser", flag.ExitOnError)
	s.ParseFlags(fs, args, help, "adduser <role> <username> <password>")
	s.NArg(fs, 3)
	r := role(s, fs.Arg(0))
	s.Init(flags.Data)
	u, err := s.Bank.AddUser(r, flatbank.UserName(fs.Arg(1)), fs.Arg(2))
	if err != nil {
		s.Exit(err)
	}
	s.Printf("%d %s\n", u.ID, u.Username)
}

func list(s *subcmd.State, args ...string) {
	const help = `
List prints the users of a role, one per line: id, username, whether the
user is active and whether the user is logged in.
`
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	s.ParseFlags(fs, args, help, "list <role>")
	s.NArg(fs, 1)
	r := role(s, fs.Arg(0))
	s.Init(flags.Data)
	users, err := s.Bank.Users(r)
	if err != nil {
		s.Exit(err)
	}
	for _, u := range users {
		s.Printf("%d %s active=%t logged_in=%t\n", u.ID, u.Username, u.Active, u.LoggedIn)
	}
}

func clearSessions(s *subcmd.State, args ...string) {
	const help = `
Clear-sessions marks every user of a role, or of all roles, logged out. It
recovers from a server that crashed with users logged in and must not be
run while a server is serving the data directory.
`
	fs := flag.NewFlagSet("clear-sessions", flag.ExitOnError)
	s.ParseFlags(fs, args, help, "clear-sessions <role>|all")
	s.NArg(fs, 1)
	roles := flatbank.Roles
	if fs.Arg(0) != "all" {
		roles = []flatbank.Role{role(s, fs.Arg(0))}
	}
	s.Init(flags.Data)
	for _, r := range roles {
		n, err := s.Register.Clear(r)
		if err != nil {
			s.Fail(err)
			continue
		}
		s.Printf("%s: %d logged out\n", r, n)
	}
}

func floor(s *subcmd.State, args ...string) {
	const help = `
Floor prints the id floor of the named table, such as customer.txt. The
first record inserted into an empty table gets the floor plus one.
`
	fs := flag.NewFlagSet("floor", flag.ExitOnError)
	s.ParseFlags(fs, args, help, "floor <table>")
	s.NArg(fs, 1)
	s.Printf("%d\n", store.Floor(flatbank.Table(fs.Arg(0))))
}

func printVersion(s *subcmd.State, args ...string) {
	const help = `
Version prints the version control revision the program was built from.
`
	fs := flag.NewFlagSet("version", flag.ExitOnError)
	s.ParseFlags(fs, args, help, "version")
	s.NArg(fs, 0)
	s.Printf("%s", version.Version())
}
