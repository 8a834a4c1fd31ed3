// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package valid does validation of the values users type into the bank.
// Table fields are separated by spaces, so names and passwords must be
// single words.
package valid // import "flatbank.io/valid"

import (
	"strings"
	"unicode"

	"flatbank.io/errors"
	"flatbank.io/flatbank"
)

// UserName verifies that the name can be stored in a user table.
// The name flatbank.NoEmployee is reserved for unassigned loans.
func UserName(user flatbank.UserName) error {
	const op errors.Op = "valid.UserName"
	if err := word("user name", string(user)); err != nil {
		return errors.E(op, err)
	}
	if user == flatbank.NoEmployee {
		return errors.E(op, user, errors.Invalid, errors.Errorf("user name %q is reserved", user))
	}
	return nil
}

// Password verifies that the password can be stored in a user table.
func Password(password string) error {
	const op errors.Op = "valid.Password"
	if err := word("password", password); err != nil {
		return errors.E(op, err)
	}
	return nil
}

// Amount verifies that an amount of money to move is positive.
func Amount(amount int64) error {
	const op errors.Op = "valid.Amount"
	if amount <= 0 {
		return errors.E(op, errors.Invalid, errors.Errorf("amount %d must be positive", amount))
	}
	return nil
}

func word(what, s string) error {
	if s == "" {
		return errors.E(errors.Invalid, errors.Errorf("empty %s", what))
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return errors.E(errors.Invalid, errors.Errorf("%s must not contain spaces", what))
	}
	if strings.IndexFunc(s, notPrint) >= 0 {
		return errors.E(errors.Invalid, errors.Errorf("%s contains unprintable characters", what))
	}
	return nil
}

func notPrint(r rune) bool { return !unicode.IsPrint(r) }
