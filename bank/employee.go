// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bank

import (
	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/log"
	"flatbank.io/store"
	"flatbank.io/valid"
)

// AddCustomer creates a customer and their account in one critical
// section over the user and account tables. A positive initial deposit
// is recorded in the ledger. Every check and id is read before the first
// append, so only the appends themselves can fail part way.
func (b *Bank) AddCustomer(user flatbank.UserName, password string, deposit int64) (flatbank.UserRecord, flatbank.AccountRecord, error) {
	const op errors.Op = "bank.AddCustomer"
	var (
		cust flatbank.UserRecord
		acct flatbank.AccountRecord
	)
	if err := valid.UserName(user); err != nil {
		return cust, acct, errors.E(op, err)
	}
	if err := valid.Password(password); err != nil {
		return cust, acct, errors.E(op, err)
	}
	if deposit < 0 {
		return cust, acct, errors.E(op, errors.Invalid, errors.Errorf("deposit %d is negative", deposit))
	}
	err := b.st.Do(func(tx *store.Tx) error {
		taken, err := b.customers.Exists(tx, userNamed(user))
		if err != nil {
			return err
		}
		if taken {
			return errors.E(b.customers.Name, errors.Exist)
		}
		if taken, err = b.accounts.Exists(tx, accountOf(user)); err != nil {
			return err
		}
		if taken {
			return errors.E(b.accounts.Name, errors.Exist)
		}
		custID, err := b.customers.NextID(tx)
		if err != nil {
			return err
		}
		acctID, err := b.accounts.NextID(tx)
		if err != nil {
			return err
		}
		txID, err := b.transactions.NextID(tx)
		if err != nil {
			return err
		}

		cust = flatbank.UserRecord{ID: custID, Username: user, Password: password, Active: true}
		if err := b.customers.Append(tx, cust); err != nil {
			return err
		}
		acct = flatbank.AccountRecord{AccountID: acctID, Username: user, Balance: deposit}
		if err := b.accounts.Append(tx, acct); err != nil {
			return err
		}
		if deposit > 0 {
			return b.logTx(tx, txID, user, flatbank.Deposit, deposit, deposit, b.timestamp())
		}
		return nil
	}, store.Users, store.Accounts)
	if err != nil {
		return cust, acct, errors.E(op, user, err)
	}
	log.Info.Printf("%s: %s id %d account %d", op, user, cust.ID, acct.AccountID)
	return cust, acct, nil
}

// ModifyCustomer sets a customer's password.
func (b *Bank) ModifyCustomer(user flatbank.UserName, password string) error {
	const op errors.Op = "bank.ModifyCustomer"
	if err := valid.Password(password); err != nil {
		return errors.E(op, err)
	}
	err := b.st.Do(func(tx *store.Tx) error {
		_, err := b.customers.Rewrite(tx, first(userNamed(user), func(r flatbank.UserRecord) (flatbank.UserRecord, error) {
			r.Password = password
			return r, nil
		}))
		return err
	}, store.Users)
	if err != nil {
		return errors.E(op, user, err)
	}
	return nil
}

func undecided(r flatbank.LoanRecord) bool {
	return r.Status == flatbank.LoanPending || r.Status == flatbank.LoanAssigned
}

// PendingLoans lists the undecided loans assigned to an employee.
func (b *Bank) PendingLoans(employee flatbank.UserName) ([]flatbank.LoanRecord, error) {
	const op errors.Op = "bank.PendingLoans"
	all, err := b.loans.All()
	if err != nil {
		return nil, errors.E(op, employee, err)
	}
	var mine []flatbank.LoanRecord
	for _, r := range all {
		if r.Employee == employee && undecided(r) {
			mine = append(mine, r)
		}
	}
	return mine, nil
}

// DecideLoan approves or rejects an undecided loan assigned to employee.
func (b *Bank) DecideLoan(employee flatbank.UserName, loanID int, approve bool) (flatbank.LoanRecord, error) {
	const op errors.Op = "bank.DecideLoan"
	var loan flatbank.LoanRecord
	err := b.st.Do(func(tx *store.Tx) error {
		_, err := b.loans.Rewrite(tx, first(loanNumbered(loanID), func(r flatbank.LoanRecord) (flatbank.LoanRecord, error) {
			if r.Employee != employee {
				return r, errors.E(errors.Permission, errors.Errorf("loan %d is not assigned to %s", r.LoanID, employee))
			}
			if !undecided(r) {
				return r, errors.E(errors.Conflict, errors.Errorf("loan %d is already %s", r.LoanID, r.Status))
			}
			if approve {
				r.Status = flatbank.LoanApproved
			} else {
				r.Status = flatbank.LoanRejected
			}
			loan = r
			return r, nil
		}))
		return err
	}, store.Loans)
	if err != nil {
		return loan, errors.E(op, employee, err)
	}
	log.Info.Printf("%s: loan %d %s by %s", op, loanID, loan.Status, employee)
	return loan, nil
}

// Passbook returns a customer's transactions, oldest first.
func (b *Bank) Passbook(customer flatbank.UserName) ([]flatbank.TransactionRecord, error) {
	const op errors.Op = "bank.Passbook"
	all, err := b.transactions.All()
	if err != nil {
		return nil, errors.E(op, customer, err)
	}
	var txs []flatbank.TransactionRecord
	for _, r := range all {
		if r.Username == customer {
			txs = append(txs, r)
		}
	}
	return txs, nil
}
