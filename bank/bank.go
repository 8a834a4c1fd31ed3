// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bank implements the operations offered to each role on top of
// the record store.
//
// Arguments arrive as already trimmed strings and integers from the menu
// layer. String fields that would not survive the space-separated table
// format are rejected with errors.Invalid before anything is written.
package bank // import "flatbank.io/bank"

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/store"
	"flatbank.io/valid"
)

// ErrInsufficientFunds is wrapped by the errors.Conflict error returned
// when a withdrawal or transfer exceeds the balance.
var ErrInsufficientFunds = errors.Str("insufficient funds")

// ErrBalanceOverflow is wrapped by the errors.Invalid error returned when
// a deposit or transfer would raise a balance past the largest int64.
var ErrBalanceOverflow = errors.Str("balance would overflow")

// Bank performs banking operations against a store.
type Bank struct {
	st      *store.Store
	now     func() time.Time
	printer *message.Printer

	customers    *store.Table[flatbank.UserRecord]
	employees    *store.Table[flatbank.UserRecord]
	accounts     *store.Table[flatbank.AccountRecord]
	loans        *store.Table[flatbank.LoanRecord]
	feedback     *store.Table[flatbank.FeedbackRecord]
	transactions *store.Table[flatbank.TransactionRecord]
}

// Option configures a Bank.
type Option func(*Bank)

// WithClock sets the source of transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

// WithLanguage sets the language used to format amounts.
func WithLanguage(tag language.Tag) Option {
	return func(b *Bank) { b.printer = message.NewPrinter(tag) }
}

// New returns a Bank that keeps its tables in st.
func New(st *store.Store, opts ...Option) *Bank {
	b := &Bank{
		st:           st,
		now:          time.Now,
		printer:      message.NewPrinter(language.English),
		customers:    store.UserTable(st, flatbank.Customer),
		employees:    store.UserTable(st, flatbank.Employee),
		accounts:     store.AccountTable(st),
		loans:        store.LoanTable(st),
		feedback:     store.FeedbackTable(st),
		transactions: store.TransactionTable(st),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// users returns the user table of a role, or an error for NoRole.
func (b *Bank) users(op errors.Op, role flatbank.Role) (*store.Table[flatbank.UserRecord], error) {
	if role.Table() == "" {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("bad role %d", role))
	}
	return store.UserTable(b.st, role), nil
}

// first returns an edit that applies change to the first record matching
// match and leaves all others alone.
func first[T any](match func(T) bool, change func(T) (T, error)) store.Edit[T] {
	done := false
	return func(rec T) (T, bool, error) {
		if done || !match(rec) {
			return rec, false, nil
		}
		done = true
		repl, err := change(rec)
		if err != nil {
			return rec, false, err
		}
		return repl, true, nil
	}
}

func userNamed(name flatbank.UserName) func(flatbank.UserRecord) bool {
	return func(r flatbank.UserRecord) bool { return r.Username == name }
}

func accountOf(name flatbank.UserName) func(flatbank.AccountRecord) bool {
	return func(r flatbank.AccountRecord) bool { return r.Username == name }
}

// ChangePassword replaces the password of a user of any role after
// checking the old one.
func (b *Bank) ChangePassword(role flatbank.Role, user flatbank.UserName, oldPassword, newPassword string) error {
	const op errors.Op = "bank.ChangePassword"
	if err := valid.Password(newPassword); err != nil {
		return errors.E(op, err)
	}
	t, err := b.users(op, role)
	if err != nil {
		return err
	}
	err = b.st.Do(func(tx *store.Tx) error {
		_, err := t.Rewrite(tx, first(userNamed(user), func(r flatbank.UserRecord) (flatbank.UserRecord, error) {
			if r.Password != oldPassword {
				return r, errors.E(errors.Permission, errors.Str("wrong password"))
			}
			r.Password = newPassword
			return r, nil
		}))
		return err
	}, store.Users)
	if err != nil {
		return errors.E(op, user, err)
	}
	return nil
}

// Amount formats an amount for display, with digit grouping.
func (b *Bank) Amount(a int64) string {
	return b.printer.Sprintf("%d", a)
}

// Statement formats transactions one per line for display.
func (b *Bank) Statement(txs []flatbank.TransactionRecord) []string {
	lines := make([]string, len(txs))
	for i, t := range txs {
		lines[i] = b.printer.Sprintf("%s  %s  %-12s %12d  balance %d",
			strconv.Itoa(t.TxID), t.Timestamp, t.Type, t.Amount, t.Balance)
	}
	return lines
}

// logTx appends one transaction with an id the caller read from the ledger
// under the same tx. The Accounts lock must be held by tx.
func (b *Bank) logTx(tx *store.Tx, id int, user flatbank.UserName, typ flatbank.TxType, amount, balance int64, when string) error {
	return b.transactions.Append(tx, flatbank.TransactionRecord{
		TxID:      id,
		Username:  user,
		Type:      typ,
		Amount:    amount,
		Timestamp: when,
		Balance:   balance,
	})
}

func (b *Bank) timestamp() string {
	return b.now().UTC().Format(flatbank.TimeFormat)
}
