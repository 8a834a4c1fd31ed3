// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flatbank contains global interface and other definitions for the
// components of the system.
package flatbank // import "flatbank.io/flatbank"

// A Table is the file name of one flat-file record set, such as
// "customer.txt". It is relative to the data directory.
type Table string

// A UserName is the name a user logs in with. It is unique only within
// the table of its role.
type UserName string

// Role is the kind of user. Each role has its own user table.
type Role uint8

// Roles.
const (
	NoRole Role = iota
	Admin
	Manager
	Employee
	Customer
)

// Roles lists every valid role in table order.
var Roles = []Role{Admin, Manager, Employee, Customer}

func (r Role) String() string {
	switch r {
	case Admin:
		return "admin"
	case Manager:
		return "manager"
	case Employee:
		return "employee"
	case Customer:
		return "customer"
	}
	return "unknown role"
}

// ParseRole returns the role named by s and whether s names a role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if r.String() == s {
			return r, true
		}
	}
	return NoRole, false
}

// Table returns the user table of the role.
func (r Role) Table() Table {
	switch r {
	case Admin:
		return AdminTable
	case Manager:
		return ManagerTable
	case Employee:
		return EmployeeTable
	case Customer:
		return CustomerTable
	}
	return ""
}

// The tables of the system.
const (
	AdminTable       Table = "admin.txt"
	ManagerTable     Table = "manager.txt"
	EmployeeTable    Table = "employee.txt"
	CustomerTable    Table = "customer.txt"
	AccountTable     Table = "account_db.txt"
	LoanTable        Table = "loan_db.txt"
	FeedbackTable    Table = "feedback_db.txt"
	TransactionTable Table = "transaction_db.txt"
)

// Tables lists every table the store creates when it opens a data directory.
var Tables = []Table{
	AdminTable, ManagerTable, EmployeeTable, CustomerTable,
	AccountTable, LoanTable, FeedbackTable, TransactionTable,
}

// UserRecord is one line of a user table.
type UserRecord struct {
	ID       int
	Username UserName
	Password string
	Active   bool
	LoggedIn bool
}

// AccountRecord is one line of the account table.
type AccountRecord struct {
	AccountID int
	Username  UserName // A user in the customer table.
	Balance   int64
}

// LoanStatus is the state of a loan application.
type LoanStatus uint8

// Loan states. A loan starts pending, becomes assigned when a manager
// hands it to an employee, and ends approved or rejected.
const (
	LoanPending LoanStatus = iota
	LoanAssigned
	LoanApproved
	LoanRejected
)

var loanStatusNames = [...]string{
	LoanPending:  "pending",
	LoanAssigned: "assigned",
	LoanApproved: "approved",
	LoanRejected: "rejected",
}

func (s LoanStatus) String() string {
	if int(s) < len(loanStatusNames) {
		return loanStatusNames[s]
	}
	return "unknown"
}

// ParseLoanStatus returns the status named by s and whether s names one.
func ParseLoanStatus(s string) (LoanStatus, bool) {
	for i, name := range loanStatusNames {
		if name == s {
			return LoanStatus(i), true
		}
	}
	return 0, false
}

// NoEmployee is stored in the assigned_employee field of an unassigned loan.
const NoEmployee UserName = "none"

// LoanRecord is one line of the loan table.
type LoanRecord struct {
	LoanID   int
	Username UserName
	Amount   int64
	Employee UserName
	Status   LoanStatus
}

// FeedbackRecord is one line of the feedback table.
type FeedbackRecord struct {
	ID       int
	Username UserName
	Message  string
}

// TxType is the kind of a ledger transaction.
type TxType uint8

// Transaction types.
const (
	Deposit TxType = iota
	Withdraw
	TransferIn
	TransferOut
)

var txTypeNames = [...]string{
	Deposit:     "deposit",
	Withdraw:    "withdraw",
	TransferIn:  "transfer-in",
	TransferOut: "transfer-out",
}

func (t TxType) String() string {
	if int(t) < len(txTypeNames) {
		return txTypeNames[t]
	}
	return "unknown"
}

// ParseTxType returns the transaction type named by s and whether s names one.
func ParseTxType(s string) (TxType, bool) {
	for i, name := range txTypeNames {
		if name == s {
			return TxType(i), true
		}
	}
	return 0, false
}

// TimeFormat is the layout of TransactionRecord.Timestamp. It contains no
// spaces so a timestamp is a single field.
const TimeFormat = "2006-01-02T15:04:05Z07:00"

// TransactionRecord is one line of the transaction table.
type TransactionRecord struct {
	TxID      int
	Username  UserName
	Type      TxType
	Amount    int64
	Timestamp string
	Balance   int64 // Balance of the account after the transaction.
}

// LoginResult is the outcome of a login attempt.
type LoginResult uint8

// Login results.
const (
	Success LoginResult = iota
	InvalidCredentials
	Inactive
	AlreadyLoggedIn
)

func (r LoginResult) String() string {
	switch r {
	case Success:
		return "success"
	case InvalidCredentials:
		return "invalid credentials"
	case Inactive:
		return "account inactive"
	case AlreadyLoggedIn:
		return "already logged in"
	}
	return "unknown login result"
}
