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

// AddUser creates an active user of any role. The name must not be taken
// within the role's table. It is used to bootstrap a data directory.
func (b *Bank) AddUser(role flatbank.Role, user flatbank.UserName, password string) (flatbank.UserRecord, error) {
	const op errors.Op = "bank.AddUser"
	var rec flatbank.UserRecord
	if err := valid.UserName(user); err != nil {
		return rec, errors.E(op, err)
	}
	if err := valid.Password(password); err != nil {
		return rec, errors.E(op, err)
	}
	t, err := b.users(op, role)
	if err != nil {
		return rec, err
	}
	err = b.st.Do(func(tx *store.Tx) error {
		rec, err = b.insertUser(tx, t, user, password)
		return err
	}, store.Users)
	if err != nil {
		return rec, errors.E(op, user, err)
	}
	log.Info.Printf("%s: %s %s id %d", op, role, user, rec.ID)
	return rec, nil
}

// insertUser appends a new active user unless the name is taken.
func (b *Bank) insertUser(tx *store.Tx, t *store.Table[flatbank.UserRecord], user flatbank.UserName, password string) (flatbank.UserRecord, error) {
	taken, err := t.Exists(tx, userNamed(user))
	if err != nil {
		return flatbank.UserRecord{}, err
	}
	if taken {
		return flatbank.UserRecord{}, errors.E(t.Name, errors.Exist)
	}
	return t.Insert(tx, func(id int) (flatbank.UserRecord, error) {
		return flatbank.UserRecord{ID: id, Username: user, Password: password, Active: true}, nil
	})
}

// AddStaff creates a manager or an employee.
func (b *Bank) AddStaff(role flatbank.Role, user flatbank.UserName, password string) (flatbank.UserRecord, error) {
	const op errors.Op = "bank.AddStaff"
	if role != flatbank.Manager && role != flatbank.Employee {
		return flatbank.UserRecord{}, errors.E(op, errors.Invalid, errors.Errorf("cannot add staff with role %s", role))
	}
	return b.AddUser(role, user, password)
}

// ModifyUser sets the password and active flag of a customer or employee.
func (b *Bank) ModifyUser(role flatbank.Role, user flatbank.UserName, password string, active bool) error {
	const op errors.Op = "bank.ModifyUser"
	if role != flatbank.Customer && role != flatbank.Employee {
		return errors.E(op, errors.Invalid, errors.Errorf("cannot modify users with role %s", role))
	}
	if err := valid.Password(password); err != nil {
		return errors.E(op, err)
	}
	t, _ := b.users(op, role)
	err := b.st.Do(func(tx *store.Tx) error {
		_, err := t.Rewrite(tx, first(userNamed(user), func(r flatbank.UserRecord) (flatbank.UserRecord, error) {
			r.Password = password
			r.Active = active
			return r, nil
		}))
		return err
	}, store.Users)
	if err != nil {
		return errors.E(op, user, err)
	}
	log.Info.Printf("%s: %s %s active=%v", op, role, user, active)
	return nil
}

// ChangeRole moves a user between the manager and employee tables. The
// source record is deactivated and marked logged out. In the destination table an inactive
// record with the same name is reactivated, or else a new record is
// appended with a fresh id. The user keeps their password.
func (b *Bank) ChangeRole(from, to flatbank.Role, user flatbank.UserName) (flatbank.UserRecord, error) {
	const op errors.Op = "bank.ChangeRole"
	var rec flatbank.UserRecord
	staff := func(r flatbank.Role) bool { return r == flatbank.Manager || r == flatbank.Employee }
	if !staff(from) || !staff(to) || from == to {
		return rec, errors.E(op, errors.Invalid, errors.Errorf("cannot change role from %s to %s", from, to))
	}
	src, _ := b.users(op, from)
	dst, _ := b.users(op, to)
	err := b.st.Do(func(tx *store.Tx) error {
		cur, err := src.Find(tx, userNamed(user))
		if err != nil {
			return err
		}
		if !cur.Active {
			return errors.E(src.Name, errors.Permission, errors.Str("user is not active"))
		}
		old, err := dst.Find(tx, userNamed(user))
		switch {
		case err == nil && old.Active:
			return errors.E(dst.Name, errors.Exist)
		case err == nil:
			_, err = dst.Rewrite(tx, first(userNamed(user), func(r flatbank.UserRecord) (flatbank.UserRecord, error) {
				r.Password = cur.Password
				r.Active = true
				r.LoggedIn = false
				rec = r
				return r, nil
			}))
		case errors.Is(errors.NotExist, err):
			rec, err = dst.Insert(tx, func(id int) (flatbank.UserRecord, error) {
				return flatbank.UserRecord{ID: id, Username: user, Password: cur.Password, Active: true}, nil
			})
		}
		if err != nil {
			return err
		}
		_, err = src.Rewrite(tx, first(userNamed(user), func(r flatbank.UserRecord) (flatbank.UserRecord, error) {
			r.Active = false
			r.LoggedIn = false
			return r, nil
		}))
		return err
	}, store.Users)
	if err != nil {
		return rec, errors.E(op, user, err)
	}
	log.Info.Printf("%s: %s from %s to %s as id %d", op, user, from, to, rec.ID)
	return rec, nil
}

// Users lists every record of a role's table.
func (b *Bank) Users(role flatbank.Role) ([]flatbank.UserRecord, error) {
	const op errors.Op = "bank.Users"
	t, err := b.users(op, role)
	if err != nil {
		return nil, err
	}
	recs, err := t.All()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return recs, nil
}
