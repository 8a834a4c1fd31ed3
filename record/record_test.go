// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

import (
	"reflect"
	"testing"

	"flatbank.io/errors"
	"flatbank.io/flatbank"
)

func TestUserRoundTrip(t *testing.T) {
	recs := []flatbank.UserRecord{
		{ID: 401, Username: "alice", Password: "pw1", Active: true},
		{ID: 101, Username: "root", Password: "s3cret", Active: true, LoggedIn: true},
		{ID: 305, Username: "bob", Password: "x", Active: false, LoggedIn: false},
	}
	for _, r := range recs {
		line := Users.Encode(r)
		got, err := Users.Decode(line)
		if err != nil {
			t.Errorf("Decode(%q): %v", line, err)
			continue
		}
		if got != r {
			t.Errorf("round trip of %q: got %+v, want %+v", line, got, r)
		}
	}
}

func TestUserEncode(t *testing.T) {
	r := flatbank.UserRecord{ID: 401, Username: "alice", Password: "pw1", Active: true}
	if got, want := Users.Encode(r), "401 alice pw1 1 0"; got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

func TestOtherRoundTrips(t *testing.T) {
	acct := flatbank.AccountRecord{AccountID: 501, Username: "alice", Balance: 100}
	if got, err := Accounts.Decode(Accounts.Encode(acct)); err != nil || got != acct {
		t.Errorf("account round trip: got %+v, %v; want %+v", got, err, acct)
	}
	loan := flatbank.LoanRecord{LoanID: 601, Username: "alice", Amount: 5000, Employee: flatbank.NoEmployee, Status: flatbank.LoanPending}
	if got, err := Loans.Decode(Loans.Encode(loan)); err != nil || got != loan {
		t.Errorf("loan round trip: got %+v, %v; want %+v", got, err, loan)
	}
	fb := flatbank.FeedbackRecord{ID: 701, Username: "alice", Message: "great service, thanks"}
	if got, err := Feedback.Decode(Feedback.Encode(fb)); err != nil || got != fb {
		t.Errorf("feedback round trip: got %+v, %v; want %+v", got, err, fb)
	}
	tx := flatbank.TransactionRecord{TxID: 1001, Username: "bob", Type: flatbank.TransferIn, Amount: 50, Timestamp: "2026-01-02T03:04:05Z", Balance: 60}
	line := Transactions.Encode(tx)
	if want := "1001 bob transfer-in 50 2026-01-02T03:04:05Z 60"; line != want {
		t.Errorf("Encode = %q, want %q", line, want)
	}
	if got, err := Transactions.Decode(line); err != nil || got != tx {
		t.Errorf("transaction round trip: got %+v, %v; want %+v", got, err, tx)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		dec  func(string) error
		line string
	}{
		{"users/short", userDec, "401 alice pw1 1"},
		{"users/long", userDec, "401 alice pw1 1 0 extra"},
		{"users/id", userDec, "x401 alice pw1 1 0"},
		{"users/bool", userDec, "401 alice pw1 yes 0"},
		{"users/empty", userDec, ""},
		{"users/doublespace", userDec, "401  alice pw1 1"},
		{"accounts/balance", func(s string) error { _, err := Accounts.Decode(s); return err }, "501 alice lots"},
		{"loans/status", func(s string) error { _, err := Loans.Decode(s); return err }, "601 alice 10 none maybe"},
		{"feedback/short", func(s string) error { _, err := Feedback.Decode(s); return err }, "701 alice"},
		{"transactions/type", func(s string) error { _, err := Transactions.Decode(s); return err }, "1001 bob refund 5 2026-01-02T03:04:05Z 5"},
	}
	for _, test := range tests {
		err := test.dec(test.line)
		if !errors.Is(errors.Malformed, err) {
			t.Errorf("%s: Decode(%q) = %v, want Malformed", test.name, test.line, err)
		}
	}
}

func userDec(s string) error {
	_, err := Users.Decode(s)
	return err
}

func TestParse(t *testing.T) {
	l := Parse(Users, "garbage")
	if l.OK || l.Raw != "garbage" {
		t.Errorf("Parse(garbage) = %+v, want raw only", l)
	}
	l = Parse(Users, "401 alice pw1 1 0")
	if !l.OK || l.Rec.Username != "alice" {
		t.Errorf("Parse(valid) = %+v", l)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a\n", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb\n", []string{"a", "", "b"}},
	}
	for _, test := range tests {
		got := Split([]byte(test.in))
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("Split(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestID(t *testing.T) {
	tests := []struct {
		line string
		id   int
		ok   bool
	}{
		{"401 alice pw1 1 0", 401, true},
		{"17", 17, true},
		{"abc 1 2", 0, false},
		{"", 0, false},
	}
	for _, test := range tests {
		id, ok := ID(test.line)
		if id != test.id || ok != test.ok {
			t.Errorf("ID(%q) = %d, %v; want %d, %v", test.line, id, ok, test.id, test.ok)
		}
	}
}
