// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

import (
	"strings"

	"flatbank.io/errors"
	"flatbank.io/flatbank"
)

// The codecs for each record type.
var (
	Users        Codec[flatbank.UserRecord]        = userCodec{}
	Accounts     Codec[flatbank.AccountRecord]     = accountCodec{}
	Loans        Codec[flatbank.LoanRecord]        = loanCodec{}
	Feedback     Codec[flatbank.FeedbackRecord]    = feedbackCodec{}
	Transactions Codec[flatbank.TransactionRecord] = transactionCodec{}
)

// userCodec handles "id username password active logged_in".
type userCodec struct{}

func (userCodec) Decode(line string) (flatbank.UserRecord, error) {
	const op errors.Op = "record.Users.Decode"
	var r flatbank.UserRecord
	f, err := fields(op, line, 5)
	if err != nil {
		return r, err
	}
	if r.ID, err = atoi(op, "id", f[0]); err != nil {
		return r, err
	}
	name, err := word(op, "username", f[1])
	if err != nil {
		return r, err
	}
	r.Username = flatbank.UserName(name)
	if r.Password, err = word(op, "password", f[2]); err != nil {
		return r, err
	}
	if r.Active, err = atob(op, "active", f[3]); err != nil {
		return r, err
	}
	if r.LoggedIn, err = atob(op, "logged_in", f[4]); err != nil {
		return r, err
	}
	return r, nil
}

func (userCodec) Encode(r flatbank.UserRecord) string {
	return strings.Join([]string{
		itoa(r.ID), string(r.Username), r.Password, btoa(r.Active), btoa(r.LoggedIn),
	}, " ")
}

// accountCodec handles "account_id username balance".
type accountCodec struct{}

func (accountCodec) Decode(line string) (flatbank.AccountRecord, error) {
	const op errors.Op = "record.Accounts.Decode"
	var r flatbank.AccountRecord
	f, err := fields(op, line, 3)
	if err != nil {
		return r, err
	}
	if r.AccountID, err = atoi(op, "account_id", f[0]); err != nil {
		return r, err
	}
	name, err := word(op, "username", f[1])
	if err != nil {
		return r, err
	}
	r.Username = flatbank.UserName(name)
	if r.Balance, err = atoi64(op, "balance", f[2]); err != nil {
		return r, err
	}
	return r, nil
}

func (accountCodec) Encode(r flatbank.AccountRecord) string {
	return itoa(r.AccountID) + " " + string(r.Username) + " " + i64toa(r.Balance)
}

// loanCodec handles "loan_id username amount assigned_employee status".
type loanCodec struct{}

func (loanCodec) Decode(line string) (flatbank.LoanRecord, error) {
	const op errors.Op = "record.Loans.Decode"
	var r flatbank.LoanRecord
	f, err := fields(op, line, 5)
	if err != nil {
		return r, err
	}
	if r.LoanID, err = atoi(op, "loan_id", f[0]); err != nil {
		return r, err
	}
	name, err := word(op, "username", f[1])
	if err != nil {
		return r, err
	}
	r.Username = flatbank.UserName(name)
	if r.Amount, err = atoi64(op, "amount", f[2]); err != nil {
		return r, err
	}
	emp, err := word(op, "assigned_employee", f[3])
	if err != nil {
		return r, err
	}
	r.Employee = flatbank.UserName(emp)
	status, ok := flatbank.ParseLoanStatus(f[4])
	if !ok {
		return r, errors.E(op, errors.Malformed, errors.Errorf("bad status %q", f[4]))
	}
	r.Status = status
	return r, nil
}

func (loanCodec) Encode(r flatbank.LoanRecord) string {
	return strings.Join([]string{
		itoa(r.LoanID), string(r.Username), i64toa(r.Amount), string(r.Employee), r.Status.String(),
	}, " ")
}

// feedbackCodec handles "id username message". The message is the rest of
// the line and may contain single spaces.
type feedbackCodec struct{}

func (feedbackCodec) Decode(line string) (flatbank.FeedbackRecord, error) {
	const op errors.Op = "record.Feedback.Decode"
	var r flatbank.FeedbackRecord
	f := strings.SplitN(line, " ", 3)
	if len(f) != 3 {
		return r, errors.E(op, errors.Malformed, errors.Errorf("%d fields, want 3", len(f)))
	}
	var err error
	if r.ID, err = atoi(op, "id", f[0]); err != nil {
		return r, err
	}
	name, err := word(op, "username", f[1])
	if err != nil {
		return r, err
	}
	r.Username = flatbank.UserName(name)
	if r.Message, err = word(op, "message", f[2]); err != nil {
		return r, err
	}
	return r, nil
}

func (feedbackCodec) Encode(r flatbank.FeedbackRecord) string {
	return itoa(r.ID) + " " + string(r.Username) + " " + r.Message
}

// transactionCodec handles
// "tx_id username type amount timestamp resulting_balance".
type transactionCodec struct{}

func (transactionCodec) Decode(line string) (flatbank.TransactionRecord, error) {
	const op errors.Op = "record.Transactions.Decode"
	var r flatbank.TransactionRecord
	f, err := fields(op, line, 6)
	if err != nil {
		return r, err
	}
	if r.TxID, err = atoi(op, "tx_id", f[0]); err != nil {
		return r, err
	}
	name, err := word(op, "username", f[1])
	if err != nil {
		return r, err
	}
	r.Username = flatbank.UserName(name)
	typ, ok := flatbank.ParseTxType(f[2])
	if !ok {
		return r, errors.E(op, errors.Malformed, errors.Errorf("bad type %q", f[2]))
	}
	r.Type = typ
	if r.Amount, err = atoi64(op, "amount", f[3]); err != nil {
		return r, err
	}
	if r.Timestamp, err = word(op, "timestamp", f[4]); err != nil {
		return r, err
	}
	if r.Balance, err = atoi64(op, "resulting_balance", f[5]); err != nil {
		return r, err
	}
	return r, nil
}

func (transactionCodec) Encode(r flatbank.TransactionRecord) string {
	return strings.Join([]string{
		itoa(r.TxID), string(r.Username), r.Type.String(), i64toa(r.Amount), r.Timestamp, i64toa(r.Balance),
	}, " ")
}
