// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bank

import (
	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/log"
	"flatbank.io/store"
)

// Customers lists every customer record.
func (b *Bank) Customers() ([]flatbank.UserRecord, error) {
	return b.Users(flatbank.Customer)
}

// SetActive activates or deactivates a customer.
func (b *Bank) SetActive(user flatbank.UserName, active bool) error {
	const op errors.Op = "bank.SetActive"
	err := b.st.Do(func(tx *store.Tx) error {
		_, err := b.customers.Rewrite(tx, first(userNamed(user), func(r flatbank.UserRecord) (flatbank.UserRecord, error) {
			r.Active = active
			return r, nil
		}))
		return err
	}, store.Users)
	if err != nil {
		return errors.E(op, user, err)
	}
	log.Info.Printf("%s: customer %s active=%v", op, user, active)
	return nil
}

// Loans lists every loan application.
func (b *Bank) Loans() ([]flatbank.LoanRecord, error) {
	const op errors.Op = "bank.Loans"
	recs, err := b.loans.All()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return recs, nil
}

// AssignLoan hands a pending or assigned loan to an active employee.
func (b *Bank) AssignLoan(loanID int, employee flatbank.UserName) (flatbank.LoanRecord, error) {
	const op errors.Op = "bank.AssignLoan"
	var loan flatbank.LoanRecord
	err := b.st.Do(func(tx *store.Tx) error {
		emp, err := b.employees.Find(tx, userNamed(employee))
		if err != nil {
			return err
		}
		if !emp.Active {
			return errors.E(b.employees.Name, errors.Permission, errors.Str("employee is not active"))
		}
		_, err = b.loans.Rewrite(tx, first(loanNumbered(loanID), func(r flatbank.LoanRecord) (flatbank.LoanRecord, error) {
			if r.Status != flatbank.LoanPending && r.Status != flatbank.LoanAssigned {
				return r, errors.E(errors.Conflict, errors.Errorf("loan %d is %s", r.LoanID, r.Status))
			}
			r.Employee = employee
			r.Status = flatbank.LoanAssigned
			loan = r
			return r, nil
		}))
		return err
	}, store.Users, store.Loans)
	if err != nil {
		return loan, errors.E(op, employee, err)
	}
	log.Info.Printf("%s: loan %d to %s", op, loanID, employee)
	return loan, nil
}

func loanNumbered(id int) func(flatbank.LoanRecord) bool {
	return func(r flatbank.LoanRecord) bool { return r.LoanID == id }
}

// Feedback lists all customer feedback.
func (b *Bank) Feedback() ([]flatbank.FeedbackRecord, error) {
	const op errors.Op = "bank.Feedback"
	recs, err := b.feedback.All()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return recs, nil
}
