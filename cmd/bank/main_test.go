// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	cc, sc := net.Pipe()
	defer cc.Close()

	// A scripted server that asks two questions and reports the answers.
	got := make(chan []string, 1)
	go func() {
		defer sc.Close()
		r := bufio.NewReader(sc)
		var answers []string
		for _, p := range []string{"? Username:\n", "? Password:\n"} {
			if _, err := io.WriteString(sc, p); err != nil {
				got <- nil
				return
			}
			line, err := r.ReadString('\n')
			if err != nil {
				got <- nil
				return
			}
			answers = append(answers, strings.TrimSuffix(line, "\n"))
		}
		io.WriteString(sc, "Goodbye.\n")
		got <- answers
	}()

	var stdout bytes.Buffer
	hidden := 0
	c := &client{
		server: cc,
		stdin:  bufio.NewReader(strings.NewReader("alice\r\n")),
		stdout: &stdout,
		password: func() (string, error) {
			hidden++
			return "pw1", nil
		},
	}
	if err := c.run(); err != nil {
		t.Fatal(err)
	}
	answers := <-got
	if len(answers) != 2 || answers[0] != "alice" || answers[1] != "pw1" {
		t.Errorf("server got %q, want [alice pw1]", answers)
	}
	if hidden != 1 {
		t.Errorf("password read %d times without echo, want 1", hidden)
	}
	if want := "Username: Password: Goodbye.\n"; stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestReadLineEOF(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("last"))
	tests := []string{"last", "exit", "exit"}
	for _, want := range tests {
		got, err := readLine(r)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("readLine = %q, want %q", got, want)
		}
	}
}
