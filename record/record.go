// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package record encodes and decodes the single-line records stored in
// Flatbank table files.
//
// A record is one line of space-separated fields in a fixed order. Decoding
// fails closed: a line with the wrong number of fields, or a field that does
// not parse as the expected type, yields an error of kind errors.Malformed
// and the caller keeps the raw line as opaque text.
package record // import "flatbank.io/record"

import (
	"strconv"
	"strings"

	"flatbank.io/errors"
)

// A Codec converts records of type T to and from lines of text.
// Encode is the inverse of Decode for every record Decode can return.
type Codec[T any] interface {
	// Decode parses one line, without its trailing newline.
	Decode(line string) (T, error)

	// Encode formats a record as one line, without a trailing newline.
	Encode(rec T) string
}

// Line is one line of a table file as seen by a scan. If OK is set, Rec
// holds the decoded record. Raw always holds the line as read, and it is
// what a rewrite writes back for lines that did not decode.
type Line[T any] struct {
	Rec T
	Raw string
	OK  bool
}

// Parse decodes line with c and returns the tagged result.
func Parse[T any](c Codec[T], line string) Line[T] {
	rec, err := c.Decode(line)
	if err != nil {
		return Line[T]{Raw: line}
	}
	return Line[T]{Rec: rec, Raw: line, OK: true}
}

// Split breaks file contents into lines. A missing newline after the last
// line is tolerated, as is a carriage return before a newline.
func Split(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ID returns the leading integer field of line, which is the key of every
// record type, and reports whether there was one.
func ID(line string) (int, bool) {
	f := line
	if i := strings.IndexByte(line, ' '); i >= 0 {
		f = line[:i]
	}
	id, err := strconv.Atoi(f)
	if err != nil {
		return 0, false
	}
	return id, true
}

// fields splits line on single spaces and checks the field count.
func fields(op errors.Op, line string, n int) ([]string, error) {
	f := strings.Split(line, " ")
	if len(f) != n {
		return nil, errors.E(op, errors.Malformed, errors.Errorf("%d fields, want %d", len(f), n))
	}
	return f, nil
}

func atoi(op errors.Op, name, s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.E(op, errors.Malformed, errors.Errorf("bad %s %q", name, s))
	}
	return i, nil
}

func atoi64(op errors.Op, name, s string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.E(op, errors.Malformed, errors.Errorf("bad %s %q", name, s))
	}
	return i, nil
}

func atob(op errors.Op, name, s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, errors.E(op, errors.Malformed, errors.Errorf("bad %s %q", name, s))
}

func btoa(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func itoa(i int) string     { return strconv.Itoa(i) }
func i64toa(i int64) string { return strconv.FormatInt(i, 10) }

// word rejects empty string fields, which would not survive a round trip.
func word(op errors.Op, name, s string) (string, error) {
	if s == "" {
		return "", errors.E(op, errors.Malformed, errors.Errorf("empty %s", name))
	}
	return s, nil
}
