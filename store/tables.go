// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"flatbank.io/flatbank"
	"flatbank.io/record"
)

// UserTable returns the user table of the role.
func UserTable(s *Store, r flatbank.Role) *Table[flatbank.UserRecord] {
	return NewTable(s, r.Table(), record.Users)
}

// AccountTable returns the account table.
func AccountTable(s *Store) *Table[flatbank.AccountRecord] {
	return NewTable(s, flatbank.AccountTable, record.Accounts)
}

// LoanTable returns the loan table.
func LoanTable(s *Store) *Table[flatbank.LoanRecord] {
	return NewTable(s, flatbank.LoanTable, record.Loans)
}

// FeedbackTable returns the feedback table.
func FeedbackTable(s *Store) *Table[flatbank.FeedbackRecord] {
	return NewTable(s, flatbank.FeedbackTable, record.Feedback)
}

// TransactionTable returns the transaction ledger.
func TransactionTable(s *Store) *Table[flatbank.TransactionRecord] {
	return NewTable(s, flatbank.TransactionTable, record.Transactions)
}
