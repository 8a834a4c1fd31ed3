// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session tracks which users are logged in. A user may have at
// most one session at a time across every connection and every process
// sharing the data directory.
package session // import "flatbank.io/session"

import (
	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/log"
	"flatbank.io/store"
)

// Register marks users logged in and out in their user tables.
type Register struct {
	st *store.Store
}

// New returns a Register backed by st.
func New(st *store.Store) *Register {
	return &Register{st: st}
}

func (r *Register) table(op errors.Op, role flatbank.Role) (*store.Table[flatbank.UserRecord], error) {
	if role.Table() == "" {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("bad role %d", role))
	}
	return store.UserTable(r.st, role), nil
}

// Login checks the credentials of a user and, if they are good and the
// user is active and not logged in elsewhere, marks the user logged in.
// The check and the update are one atomic rewrite. The result is
// Success only if this call marked the user.
func (r *Register) Login(role flatbank.Role, user flatbank.UserName, password string) (flatbank.LoginResult, error) {
	const op errors.Op = "session.Login"
	t, err := r.table(op, role)
	if err != nil {
		return flatbank.InvalidCredentials, err
	}
	result := flatbank.InvalidCredentials
	matched := false
	err = r.st.Do(func(tx *store.Tx) error {
		_, err := t.Rewrite(tx, func(rec flatbank.UserRecord) (flatbank.UserRecord, bool, error) {
			// Only the first record with the name counts, as in Find.
			if matched || rec.Username != user {
				return rec, false, nil
			}
			matched = true
			switch {
			case rec.Password != password:
				result = flatbank.InvalidCredentials
			case !rec.Active:
				result = flatbank.Inactive
			case rec.LoggedIn:
				result = flatbank.AlreadyLoggedIn
			default:
				result = flatbank.Success
				rec.LoggedIn = true
				return rec, true, nil
			}
			return rec, false, nil
		})
		return err
	}, store.Users)
	switch {
	case errors.Is(errors.NotExist, err):
		// Nothing was rewritten; result says why.
		log.Debug.Printf("%s: %s %s: %s", op, role, user, result)
		return result, nil
	case err != nil:
		return flatbank.InvalidCredentials, errors.E(op, role.Table(), user, err)
	}
	log.Info.Printf("%s: %s %s logged in", op, role, user)
	return flatbank.Success, nil
}

// Logout marks the user logged out. It is idempotent, and logging out a
// user who does not exist is not an error.
func (r *Register) Logout(role flatbank.Role, user flatbank.UserName) error {
	const op errors.Op = "session.Logout"
	t, err := r.table(op, role)
	if err != nil {
		return err
	}
	err = r.st.Do(func(tx *store.Tx) error {
		_, err := t.Rewrite(tx, func(rec flatbank.UserRecord) (flatbank.UserRecord, bool, error) {
			if rec.Username != user || !rec.LoggedIn {
				return rec, false, nil
			}
			rec.LoggedIn = false
			return rec, true, nil
		})
		return err
	}, store.Users)
	if errors.Is(errors.NotExist, err) {
		return nil
	}
	if err != nil {
		return errors.E(op, role.Table(), user, err)
	}
	log.Info.Printf("%s: %s %s logged out", op, role, user)
	return nil
}

// LoggedIn returns the users of the role that are marked logged in.
func (r *Register) LoggedIn(role flatbank.Role) ([]flatbank.UserName, error) {
	const op errors.Op = "session.LoggedIn"
	t, err := r.table(op, role)
	if err != nil {
		return nil, err
	}
	recs, err := t.All()
	if err != nil {
		return nil, errors.E(op, err)
	}
	var names []flatbank.UserName
	for _, rec := range recs {
		if rec.LoggedIn {
			names = append(names, rec.Username)
		}
	}
	return names, nil
}

// Clear marks every user of the role logged out and returns how many were
// logged in. It is for an operator recovering from a crashed server; it
// must not run while that server's sessions are live.
func (r *Register) Clear(role flatbank.Role) (int, error) {
	const op errors.Op = "session.Clear"
	t, err := r.table(op, role)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.st.Do(func(tx *store.Tx) (err error) {
		n, err = t.Rewrite(tx, func(rec flatbank.UserRecord) (flatbank.UserRecord, bool, error) {
			if !rec.LoggedIn {
				return rec, false, nil
			}
			rec.LoggedIn = false
			return rec, true, nil
		})
		return err
	}, store.Users)
	if errors.Is(errors.NotExist, err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.E(op, role.Table(), err)
	}
	log.Info.Printf("%s: cleared %d %s sessions", op, n, role)
	return n, nil
}
