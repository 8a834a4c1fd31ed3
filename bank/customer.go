// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bank

import (
	"math"
	"strings"

	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/log"
	"flatbank.io/store"
	"flatbank.io/valid"
)

// Balance returns the balance of a customer's account.
func (b *Bank) Balance(user flatbank.UserName) (int64, error) {
	const op errors.Op = "bank.Balance"
	acct, err := b.accounts.Get(accountOf(user))
	if err != nil {
		return 0, errors.E(op, user, err)
	}
	return acct.Balance, nil
}

// Deposit adds amount to a customer's account and returns the new balance.
func (b *Bank) Deposit(user flatbank.UserName, amount int64) (int64, error) {
	const op errors.Op = "bank.Deposit"
	if err := valid.Amount(amount); err != nil {
		return 0, errors.E(op, err)
	}
	return b.adjust(op, user, flatbank.Deposit, amount)
}

// Withdraw takes amount from a customer's account and returns the new
// balance. If the balance is too small nothing changes and the error is
// an errors.Conflict wrapping ErrInsufficientFunds.
func (b *Bank) Withdraw(user flatbank.UserName, amount int64) (int64, error) {
	const op errors.Op = "bank.Withdraw"
	if err := valid.Amount(amount); err != nil {
		return 0, errors.E(op, err)
	}
	return b.adjust(op, user, flatbank.Withdraw, -amount)
}

// adjust adds delta to the balance of user and records it in the ledger.
// The ledger id is read before the balance is committed, so the ledger
// append is the only step that can fail after it.
func (b *Bank) adjust(op errors.Op, user flatbank.UserName, typ flatbank.TxType, delta int64) (int64, error) {
	var balance int64
	err := b.st.Do(func(tx *store.Tx) error {
		txID, err := b.transactions.NextID(tx)
		if err != nil {
			return err
		}
		_, err = b.accounts.Rewrite(tx, first(accountOf(user), func(r flatbank.AccountRecord) (flatbank.AccountRecord, error) {
			switch {
			case delta > 0:
				if err := credit(&r, delta); err != nil {
					return r, err
				}
			case r.Balance+delta < 0:
				return r, errors.E(errors.Conflict, ErrInsufficientFunds)
			default:
				r.Balance += delta
			}
			balance = r.Balance
			return r, nil
		}))
		if err != nil {
			return err
		}
		amount := delta
		if amount < 0 {
			amount = -amount
		}
		return b.logTx(tx, txID, user, typ, amount, balance, b.timestamp())
	}, store.Accounts)
	if err != nil {
		return 0, errors.E(op, user, err)
	}
	log.Debug.Printf("%s: %s %d, balance %d", op, user, delta, balance)
	return balance, nil
}

// credit adds a positive amount to r unless the balance would overflow.
func credit(r *flatbank.AccountRecord, amount int64) error {
	if r.Balance > math.MaxInt64-amount {
		return errors.E(errors.Invalid, ErrBalanceOverflow)
	}
	r.Balance += amount
	return nil
}

// Transfer moves amount from one customer's account to another's in one
// rewrite of the account table, and records a transfer-out and a
// transfer-in. It returns the sender's new balance.
func (b *Bank) Transfer(from, to flatbank.UserName, amount int64) (int64, error) {
	const op errors.Op = "bank.Transfer"
	if err := valid.Amount(amount); err != nil {
		return 0, errors.E(op, err)
	}
	if from == to {
		return 0, errors.E(op, from, errors.Invalid, errors.Str("cannot transfer to the same account"))
	}
	var fromBal, toBal int64
	err := b.st.Do(func(tx *store.Tx) error {
		src, err := b.accounts.Find(tx, accountOf(from))
		if err != nil {
			return errors.E(from, err)
		}
		dst, err := b.accounts.Find(tx, accountOf(to))
		if err != nil {
			return errors.E(to, err)
		}
		if src.Balance < amount {
			return errors.E(errors.Conflict, ErrInsufficientFunds)
		}
		if err := credit(&dst, amount); err != nil {
			return errors.E(to, err)
		}
		txID, err := b.transactions.NextID(tx)
		if err != nil {
			return err
		}
		debitFrom := first(accountOf(from), func(r flatbank.AccountRecord) (flatbank.AccountRecord, error) {
			r.Balance -= amount
			fromBal = r.Balance
			return r, nil
		})
		creditTo := first(accountOf(to), func(r flatbank.AccountRecord) (flatbank.AccountRecord, error) {
			if err := credit(&r, amount); err != nil {
				return r, err
			}
			toBal = r.Balance
			return r, nil
		})
		_, err = b.accounts.Rewrite(tx, func(r flatbank.AccountRecord) (flatbank.AccountRecord, bool, error) {
			if r, hit, err := debitFrom(r); hit || err != nil {
				return r, hit, err
			}
			return creditTo(r)
		})
		if err != nil {
			return err
		}
		when := b.timestamp()
		if err := b.logTx(tx, txID, from, flatbank.TransferOut, amount, fromBal, when); err != nil {
			return err
		}
		return b.logTx(tx, txID+1, to, flatbank.TransferIn, amount, toBal, when)
	}, store.Accounts)
	if err != nil {
		return 0, errors.E(op, err)
	}
	log.Info.Printf("%s: %d from %s to %s", op, amount, from, to)
	return fromBal, nil
}

// ApplyLoan files a pending, unassigned loan application.
func (b *Bank) ApplyLoan(user flatbank.UserName, amount int64) (flatbank.LoanRecord, error) {
	const op errors.Op = "bank.ApplyLoan"
	var loan flatbank.LoanRecord
	if err := valid.Amount(amount); err != nil {
		return loan, errors.E(op, err)
	}
	err := b.st.Do(func(tx *store.Tx) (err error) {
		loan, err = b.loans.Insert(tx, func(id int) (flatbank.LoanRecord, error) {
			return flatbank.LoanRecord{
				LoanID:   id,
				Username: user,
				Amount:   amount,
				Employee: flatbank.NoEmployee,
				Status:   flatbank.LoanPending,
			}, nil
		})
		return err
	}, store.Loans)
	if err != nil {
		return loan, errors.E(op, user, err)
	}
	log.Info.Printf("%s: loan %d for %s", op, loan.LoanID, user)
	return loan, nil
}

// AddFeedback stores a message from a customer. Runs of white space in
// the message are collapsed to single spaces.
func (b *Bank) AddFeedback(user flatbank.UserName, message string) (flatbank.FeedbackRecord, error) {
	const op errors.Op = "bank.AddFeedback"
	var fb flatbank.FeedbackRecord
	msg := strings.Join(strings.Fields(message), " ")
	if msg == "" {
		return fb, errors.E(op, user, errors.Invalid, errors.Str("empty feedback"))
	}
	err := b.st.Do(func(tx *store.Tx) (err error) {
		fb, err = b.feedback.Insert(tx, func(id int) (flatbank.FeedbackRecord, error) {
			return flatbank.FeedbackRecord{ID: id, Username: user, Message: msg}, nil
		})
		return err
	}, store.Misc)
	if err != nil {
		return fb, errors.E(op, user, err)
	}
	return fb, nil
}

// History returns a customer's own transactions.
func (b *Bank) History(user flatbank.UserName) ([]flatbank.TransactionRecord, error) {
	return b.Passbook(user)
}
