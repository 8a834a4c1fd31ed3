// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bank

import (
	stderrors "errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/store"
)

var testTime = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

// setup returns a Bank over a fresh data directory holding the given
// table contents.
func setup(t *testing.T, tables map[flatbank.Table]string) *Bank {
	t.Helper()
	dir := t.TempDir()
	for name, content := range tables {
		if err := os.WriteFile(filepath.Join(dir, string(name)), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	st, err := store.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, WithClock(func() time.Time { return testTime }))
}

func read(t *testing.T, b *Bank, name flatbank.Table) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(b.st.Dir(), string(name)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestTransfer(t *testing.T) {
	b := setup(t, map[flatbank.Table]string{
		flatbank.AccountTable: "501 alice 100\n502 bob 10\n",
	})
	bal, err := b.Transfer("alice", "bob", 50)
	if err != nil {
		t.Fatal(err)
	}
	if bal != 50 {
		t.Errorf("sender balance = %d, want 50", bal)
	}
	if got, want := read(t, b, flatbank.AccountTable), "501 alice 50\n502 bob 60\n"; got != want {
		t.Errorf("accounts = %q, want %q", got, want)
	}
	want := "1001 alice transfer-out 50 2026-03-04T05:06:07Z 50\n" +
		"1002 bob transfer-in 50 2026-03-04T05:06:07Z 60\n"
	if got := read(t, b, flatbank.TransactionTable); got != want {
		t.Errorf("transactions = %q, want %q", got, want)
	}
}

func TestTransferErrors(t *testing.T) {
	const accounts = "501 alice 100\n502 bob 10\n"
	tests := []struct {
		from, to flatbank.UserName
		amount   int64
		kind     errors.Kind
	}{
		{"alice", "bob", 0, errors.Invalid},
		{"alice", "bob", -5, errors.Invalid},
		{"alice", "alice", 5, errors.Invalid},
		{"alice", "nobody", 5, errors.NotExist},
		{"nobody", "bob", 5, errors.NotExist},
		{"bob", "alice", 11, errors.Conflict},
	}
	for _, test := range tests {
		b := setup(t, map[flatbank.Table]string{flatbank.AccountTable: accounts})
		_, err := b.Transfer(test.from, test.to, test.amount)
		if !errors.Is(test.kind, err) {
			t.Errorf("Transfer(%s, %s, %d) = %v, want kind %v", test.from, test.to, test.amount, err, test.kind)
		}
		if got := read(t, b, flatbank.AccountTable); got != accounts {
			t.Errorf("Transfer(%s, %s, %d) changed accounts to %q", test.from, test.to, test.amount, got)
		}
		if got := read(t, b, flatbank.TransactionTable); got != "" {
			t.Errorf("Transfer(%s, %s, %d) logged %q", test.from, test.to, test.amount, got)
		}
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	const accounts = "501 alice 30\n"
	b := setup(t, map[flatbank.Table]string{flatbank.AccountTable: accounts})
	_, err := b.Withdraw("alice", 31)
	if !errors.Is(errors.Conflict, err) {
		t.Errorf("err = %v, want Conflict", err)
	}
	if !stderrors.Is(err, ErrInsufficientFunds) {
		t.Errorf("err = %v, want ErrInsufficientFunds in chain", err)
	}
	if got := read(t, b, flatbank.AccountTable); got != accounts {
		t.Errorf("accounts = %q, want unchanged %q", got, accounts)
	}
}

func TestBalanceOverflow(t *testing.T) {
	const accounts = "501 alice 9223372036854775800\n502 bob 10\n"
	tests := []struct {
		name string
		op   func(b *Bank) error
	}{
		{"deposit", func(b *Bank) error {
			_, err := b.Deposit("alice", 8)
			return err
		}},
		{"deposit max", func(b *Bank) error {
			_, err := b.Deposit("bob", math.MaxInt64)
			return err
		}},
		{"transfer in", func(b *Bank) error {
			_, err := b.Transfer("bob", "alice", 10)
			return err
		}},
		{"transfer to small balance", func(b *Bank) error {
			_, err := b.Transfer("alice", "bob", 9223372036854775800)
			return err
		}},
	}
	for _, test := range tests {
		b := setup(t, map[flatbank.Table]string{flatbank.AccountTable: accounts})
		err := test.op(b)
		if !errors.Is(errors.Invalid, err) || !stderrors.Is(err, ErrBalanceOverflow) {
			t.Errorf("%s: err = %v, want Invalid wrapping ErrBalanceOverflow", test.name, err)
		}
		if got := read(t, b, flatbank.AccountTable); got != accounts {
			t.Errorf("%s: accounts = %q, want unchanged", test.name, got)
		}
		if got := read(t, b, flatbank.TransactionTable); got != "" {
			t.Errorf("%s: transactions = %q, want none", test.name, got)
		}
	}

	// Reaching the largest balance exactly is fine.
	b := setup(t, map[flatbank.Table]string{flatbank.AccountTable: accounts})
	if bal, err := b.Deposit("alice", 7); err != nil || bal != math.MaxInt64 {
		t.Errorf("Deposit to max = %d, %v; want %d", bal, err, int64(math.MaxInt64))
	}
}

// breakLedger replaces the transaction table with a directory so that
// reading it fails.
func breakLedger(t *testing.T, b *Bank) {
	t.Helper()
	path := filepath.Join(b.st.Dir(), string(flatbank.TransactionTable))
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0700); err != nil {
		t.Fatal(err)
	}
}

func TestUnreadableLedgerChangesNothing(t *testing.T) {
	const accounts = "501 alice 100\n502 bob 10\n"
	b := setup(t, map[flatbank.Table]string{
		flatbank.AccountTable:  accounts,
		flatbank.CustomerTable: "401 alice pw1 1 0\n402 bob pw2 1 0\n",
	})
	breakLedger(t, b)

	if _, err := b.Deposit("alice", 5); !errors.Is(errors.IO, err) {
		t.Errorf("Deposit: %v, want IO", err)
	}
	if _, err := b.Transfer("alice", "bob", 5); !errors.Is(errors.IO, err) {
		t.Errorf("Transfer: %v, want IO", err)
	}
	if _, _, err := b.AddCustomer("carol", "pw3", 50); !errors.Is(errors.IO, err) {
		t.Errorf("AddCustomer: %v, want IO", err)
	}
	if got := read(t, b, flatbank.AccountTable); got != accounts {
		t.Errorf("accounts = %q, want unchanged", got)
	}
	if got := read(t, b, flatbank.CustomerTable); strings.Contains(got, "carol") {
		t.Errorf("customer appended without account: %q", got)
	}
}

func TestDepositWithdraw(t *testing.T) {
	b := setup(t, map[flatbank.Table]string{flatbank.AccountTable: "501 alice 30\n"})
	if bal, err := b.Deposit("alice", 70); err != nil || bal != 100 {
		t.Fatalf("Deposit = %d, %v; want 100", bal, err)
	}
	if bal, err := b.Withdraw("alice", 100); err != nil || bal != 0 {
		t.Fatalf("Withdraw = %d, %v; want 0", bal, err)
	}
	if bal, err := b.Balance("alice"); err != nil || bal != 0 {
		t.Fatalf("Balance = %d, %v; want 0", bal, err)
	}
	hist, err := b.History("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 || hist[0].Type != flatbank.Deposit || hist[1].Type != flatbank.Withdraw || hist[1].Amount != 100 {
		t.Errorf("History = %+v", hist)
	}
	if _, err := b.Deposit("nobody", 1); !errors.Is(errors.NotExist, err) {
		t.Errorf("Deposit to missing account: %v, want NotExist", err)
	}
}

func TestAddCustomer(t *testing.T) {
	b := setup(t, nil)
	cust, acct, err := b.AddCustomer("alice", "pw1", 100)
	if err != nil {
		t.Fatal(err)
	}
	if cust.ID != 401 || acct.AccountID != 501 {
		t.Errorf("ids = %d, %d; want 401, 501", cust.ID, acct.AccountID)
	}
	if got, want := read(t, b, flatbank.CustomerTable), "401 alice pw1 1 0\n"; got != want {
		t.Errorf("customers = %q, want %q", got, want)
	}
	if got, want := read(t, b, flatbank.AccountTable), "501 alice 100\n"; got != want {
		t.Errorf("accounts = %q, want %q", got, want)
	}
	if got, want := read(t, b, flatbank.TransactionTable), "1001 alice deposit 100 2026-03-04T05:06:07Z 100\n"; got != want {
		t.Errorf("transactions = %q, want %q", got, want)
	}

	if _, _, err := b.AddCustomer("alice", "other", 0); !errors.Is(errors.Exist, err) {
		t.Errorf("duplicate AddCustomer: %v, want Exist", err)
	}
	if _, _, err := b.AddCustomer("bob", "pw2", 0); err != nil {
		t.Fatal(err)
	}
	if got := read(t, b, flatbank.TransactionTable); strings.Contains(got, "bob") {
		t.Errorf("zero deposit was logged: %q", got)
	}
}

func TestInvalidFields(t *testing.T) {
	b := setup(t, nil)
	tests := []struct {
		name string
		err  error
	}{
		{"space in username", second(b.AddCustomer("al ice", "pw", 0))},
		{"empty password", second(b.AddCustomer("alice", "", 0))},
		{"tab in password", func() error { _, err := b.AddStaff(flatbank.Employee, "eve", "p\tw"); return err }()},
		{"negative deposit", second(b.AddCustomer("alice", "pw", -1))},
		{"admin staff", func() error { _, err := b.AddStaff(flatbank.Admin, "root", "pw"); return err }()},
		{"no role", b.ChangePassword(flatbank.NoRole, "x", "a", "b")},
		{"empty feedback", func() error { _, err := b.AddFeedback("alice", "  \t "); return err }()},
		{"zero loan", func() error { _, err := b.ApplyLoan("alice", 0); return err }()},
	}
	for _, test := range tests {
		if !errors.Is(errors.Invalid, test.err) {
			t.Errorf("%s: err = %v, want Invalid", test.name, test.err)
		}
	}
	for _, name := range flatbank.Tables {
		if got := read(t, b, name); got != "" {
			t.Errorf("%s written: %q", name, got)
		}
	}
}

func second(_ flatbank.UserRecord, _ flatbank.AccountRecord, err error) error { return err }

func TestChangePassword(t *testing.T) {
	b := setup(t, map[flatbank.Table]string{flatbank.ManagerTable: "201 mia old 1 1\n"})
	if err := b.ChangePassword(flatbank.Manager, "mia", "bad", "new"); !errors.Is(errors.Permission, err) {
		t.Errorf("wrong old password: %v, want Permission", err)
	}
	if err := b.ChangePassword(flatbank.Manager, "mia", "old", "new"); err != nil {
		t.Fatal(err)
	}
	if got, want := read(t, b, flatbank.ManagerTable), "201 mia new 1 1\n"; got != want {
		t.Errorf("managers = %q, want %q", got, want)
	}
}

func TestChangeRole(t *testing.T) {
	b := setup(t, map[flatbank.Table]string{
		flatbank.ManagerTable:  "201 mia pm 1 0\n",
		flatbank.EmployeeTable: "301 ed pe 1 0\n302 mia oldpw 0 0\n",
	})
	// Reactivates mia's old employee record.
	rec, err := b.ChangeRole(flatbank.Manager, flatbank.Employee, "mia")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != 302 {
		t.Errorf("reactivated id = %d, want 302", rec.ID)
	}
	if got, want := read(t, b, flatbank.EmployeeTable), "301 ed pe 1 0\n302 mia pm 1 0\n"; got != want {
		t.Errorf("employees = %q, want %q", got, want)
	}
	if got, want := read(t, b, flatbank.ManagerTable), "201 mia pm 0 0\n"; got != want {
		t.Errorf("managers = %q, want %q", got, want)
	}

	// Appends a new manager record for ed.
	rec, err = b.ChangeRole(flatbank.Employee, flatbank.Manager, "ed")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != 202 {
		t.Errorf("new id = %d, want 202", rec.ID)
	}

	// And back again.
	if _, err := b.ChangeRole(flatbank.Employee, flatbank.Manager, "mia"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.ChangeRole(flatbank.Manager, flatbank.Employee, "nobody"); !errors.Is(errors.NotExist, err) {
		t.Errorf("missing user: %v, want NotExist", err)
	}
	if _, err := b.ChangeRole(flatbank.Employee, flatbank.Employee, "ed"); !errors.Is(errors.Invalid, err) {
		t.Errorf("same role: %v, want Invalid", err)
	}
}

func TestChangeRoleLogsOutSource(t *testing.T) {
	b := setup(t, map[flatbank.Table]string{
		flatbank.ManagerTable: "201 mia pm 1 1\n",
	})
	if _, err := b.ChangeRole(flatbank.Manager, flatbank.Employee, "mia"); err != nil {
		t.Fatal(err)
	}
	if got, want := read(t, b, flatbank.ManagerTable), "201 mia pm 0 0\n"; got != want {
		t.Errorf("managers = %q, want %q", got, want)
	}
	if got, want := read(t, b, flatbank.EmployeeTable), "301 mia pm 1 0\n"; got != want {
		t.Errorf("employees = %q, want %q", got, want)
	}
}

func TestChangeRoleActiveDestination(t *testing.T) {
	const managers = "201 mia pm 1 0\n"
	b := setup(t, map[flatbank.Table]string{
		flatbank.ManagerTable:  managers,
		flatbank.EmployeeTable: "301 mia pe 1 0\n",
	})
	if _, err := b.ChangeRole(flatbank.Manager, flatbank.Employee, "mia"); !errors.Is(errors.Exist, err) {
		t.Errorf("err = %v, want Exist", err)
	}
	if got := read(t, b, flatbank.ManagerTable); got != managers {
		t.Errorf("managers changed to %q", got)
	}
}

func TestLoanLifecycle(t *testing.T) {
	b := setup(t, map[flatbank.Table]string{
		flatbank.EmployeeTable: "301 ed pe 1 0\n302 fay pf 0 0\n",
	})
	loan, err := b.ApplyLoan("alice", 5000)
	if err != nil {
		t.Fatal(err)
	}
	if loan.LoanID != 601 {
		t.Errorf("loan id = %d, want 601", loan.LoanID)
	}
	if got, want := read(t, b, flatbank.LoanTable), "601 alice 5000 none pending\n"; got != want {
		t.Errorf("loans = %q, want %q", got, want)
	}
	if _, err := b.AssignLoan(601, "fay"); !errors.Is(errors.Permission, err) {
		t.Errorf("assign to inactive employee: %v, want Permission", err)
	}
	if _, err := b.AssignLoan(601, "nobody"); !errors.Is(errors.NotExist, err) {
		t.Errorf("assign to missing employee: %v, want NotExist", err)
	}
	if _, err := b.AssignLoan(699, "ed"); !errors.Is(errors.NotExist, err) {
		t.Errorf("assign missing loan: %v, want NotExist", err)
	}
	if _, err := b.AssignLoan(601, "ed"); err != nil {
		t.Fatal(err)
	}
	pending, err := b.PendingLoans("ed")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].LoanID != 601 || pending[0].Status != flatbank.LoanAssigned {
		t.Errorf("PendingLoans = %+v", pending)
	}
	if _, err := b.DecideLoan("fay", 601, true); !errors.Is(errors.Permission, err) {
		t.Errorf("decide by other employee: %v, want Permission", err)
	}
	if _, err := b.DecideLoan("ed", 601, true); err != nil {
		t.Fatal(err)
	}
	if got, want := read(t, b, flatbank.LoanTable), "601 alice 5000 ed approved\n"; got != want {
		t.Errorf("loans = %q, want %q", got, want)
	}
	if _, err := b.DecideLoan("ed", 601, false); !errors.Is(errors.Conflict, err) {
		t.Errorf("second decision: %v, want Conflict", err)
	}
	if _, err := b.AssignLoan(601, "ed"); !errors.Is(errors.Conflict, err) {
		t.Errorf("reassign decided loan: %v, want Conflict", err)
	}
}

func TestFeedback(t *testing.T) {
	b := setup(t, nil)
	if _, err := b.AddFeedback("alice", "  great   service\tthanks "); err != nil {
		t.Fatal(err)
	}
	fb, err := b.Feedback()
	if err != nil {
		t.Fatal(err)
	}
	if len(fb) != 1 || fb[0].ID != 701 || fb[0].Message != "great service thanks" {
		t.Errorf("Feedback = %+v", fb)
	}
}

func TestModifyAndSetActive(t *testing.T) {
	b := setup(t, map[flatbank.Table]string{
		flatbank.CustomerTable: "401 alice pw1 1 0\n",
		flatbank.EmployeeTable: "301 ed pe 1 0\n",
	})
	if err := b.SetActive("alice", false); err != nil {
		t.Fatal(err)
	}
	if err := b.ModifyCustomer("alice", "pw9"); err != nil {
		t.Fatal(err)
	}
	if got, want := read(t, b, flatbank.CustomerTable), "401 alice pw9 0 0\n"; got != want {
		t.Errorf("customers = %q, want %q", got, want)
	}
	if err := b.ModifyUser(flatbank.Employee, "ed", "pe2", false); err != nil {
		t.Fatal(err)
	}
	if got, want := read(t, b, flatbank.EmployeeTable), "301 ed pe2 0 0\n"; got != want {
		t.Errorf("employees = %q, want %q", got, want)
	}
	if err := b.ModifyUser(flatbank.Manager, "mia", "x", true); !errors.Is(errors.Invalid, err) {
		t.Errorf("modify manager: %v, want Invalid", err)
	}
	if err := b.SetActive("nobody", true); !errors.Is(errors.NotExist, err) {
		t.Errorf("SetActive missing: %v, want NotExist", err)
	}
}

func TestStatement(t *testing.T) {
	b := setup(t, nil)
	if got, want := b.Amount(1234567), "1,234,567"; got != want {
		t.Errorf("Amount = %q, want %q", got, want)
	}
	lines := b.Statement([]flatbank.TransactionRecord{
		{TxID: 1001, Username: "alice", Type: flatbank.Deposit, Amount: 2500, Timestamp: "2026-03-04T05:06:07Z", Balance: 2500},
	})
	if len(lines) != 1 {
		t.Fatalf("%d lines, want 1", len(lines))
	}
	for _, frag := range []string{"1001 ", "deposit", "2,500", "balance 2,500"} {
		if !strings.Contains(lines[0], frag) {
			t.Errorf("statement line %q lacks %q", lines[0], frag)
		}
	}

	de := New(b.st, WithLanguage(language.German))
	if got, want := de.Amount(1234567), "1.234.567"; got != want {
		t.Errorf("German Amount = %q, want %q", got, want)
	}
}
