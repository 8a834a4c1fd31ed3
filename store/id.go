// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"strings"

	"flatbank.io/flatbank"
	"flatbank.io/record"
)

// floors maps a table name fragment to the base of its id range. The
// first match wins.
var floors = []struct {
	substr string
	base   int
}{
	{"admin", 100},
	{"manager", 200},
	{"employee", 300},
	{"customer", 400},
	{"account", 500},
	{"loan", 600},
	{"feedback", 700},
}

// DefaultFloor is the id floor of a table whose name matches no fragment.
const DefaultFloor = 1000

// Floor returns the id floor of the named table. Ids of the table are
// greater than its floor, which keeps the ranges of different tables
// apart by convention.
func Floor(t flatbank.Table) int {
	for _, f := range floors {
		if strings.Contains(string(t), f.substr) {
			return f.base
		}
	}
	return DefaultFloor
}

// NextID returns max(largest id among lines, Floor(t)) + 1.
func NextID(t flatbank.Table, lines []string) int {
	top := Floor(t)
	for _, l := range lines {
		if id, ok := record.ID(l); ok && id > top {
			top = id
		}
	}
	return top + 1
}
