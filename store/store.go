// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store implements the flat-file record store. It is the only
// package that reads or writes table files.
//
// Each table belongs to one lock domain. Every access to a table happens
// inside Do, which holds the locks of the domains it names for the whole
// read-modify-write sequence. A rewrite writes the complete new contents
// to a temporary file in the data directory and renames it over the
// table; the rename is the only commit point.
package store // import "flatbank.io/store"

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/lock"
	"flatbank.io/log"
)

// Domain identifies a group of tables guarded by one lock.
type Domain uint8

// The lock domains, in acquisition order.
const (
	Users    Domain = iota // The four user tables.
	Accounts               // Accounts and the transaction ledger.
	Loans                  // Loan applications.
	Misc                   // Feedback and any other table.
	numDomains
)

func (d Domain) String() string {
	switch d {
	case Users:
		return "users"
	case Accounts:
		return "accounts"
	case Loans:
		return "loans"
	case Misc:
		return "misc"
	}
	return "unknown"
}

// DomainOf returns the lock domain of a table.
func DomainOf(t flatbank.Table) Domain {
	switch t {
	case flatbank.AdminTable, flatbank.ManagerTable, flatbank.EmployeeTable, flatbank.CustomerTable:
		return Users
	case flatbank.AccountTable, flatbank.TransactionTable:
		return Accounts
	case flatbank.LoanTable:
		return Loans
	}
	return Misc
}

// Store is a directory of table files and the locks that guard them.
type Store struct {
	dir   string
	locks [numDomains]lock.Locker

	// beforeCommit, if set, runs after a rewrite's temporary file is
	// written and synced and before it is renamed over the table.
	// A non-nil error abandons the rewrite. For testing.
	beforeCommit func(table flatbank.Table, tmp string) error
}

// Option configures a Store.
type Option func(*Store)

// WithLocker makes the store use l as the lock of domain d instead of
// the lock file in the data directory.
func WithLocker(d Domain, l lock.Locker) Option {
	return func(s *Store) {
		if d < numDomains {
			s.locks[d] = l
		}
	}
}

// Open returns a store for the tables in dir, creating the directory and
// any missing table file.
func Open(dir string, opts ...Option) (*Store, error) {
	const op errors.Op = "store.Open"
	s := &Store{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	for _, t := range flatbank.Tables {
		f, err := os.OpenFile(s.path(t), os.O_RDONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, errors.E(op, t, errors.IO, err)
		}
		f.Close()
	}
	for d := Domain(0); d < numDomains; d++ {
		if s.locks[d] == nil {
			s.locks[d] = lock.NewFile(filepath.Join(dir, ".lock-"+d.String()))
		}
	}
	log.Debug.Printf("%s: %s", op, dir)
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Close releases the lock files. The store must not be used afterwards.
func (s *Store) Close() error {
	var first error
	for _, l := range s.locks {
		if c, ok := l.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = errors.E(errors.Op("store.Close"), errors.IO, err)
			}
		}
	}
	return first
}

func (s *Store) path(t flatbank.Table) string {
	return filepath.Join(s.dir, string(t))
}

// Tx is the right to access the tables of a set of locked domains.
// It is valid only inside the function passed to Do.
type Tx struct {
	s    *Store
	held [numDomains]bool
	done bool
}

// Do acquires the locks of the named domains in canonical order, calls fn
// and releases the locks, whatever way fn returns. Any table of a held
// domain may be read or written through the Tx.
func (s *Store) Do(fn func(*Tx) error, domains ...Domain) (err error) {
	const op errors.Op = "store.Do"
	if len(domains) == 0 {
		return errors.E(op, errors.Invalid, errors.Str("no domains"))
	}
	ds := append([]Domain(nil), domains...)
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })

	tx := &Tx{s: s}
	var locked []Domain
	defer func() {
		tx.done = true
		for i := len(locked) - 1; i >= 0; i-- {
			d := locked[i]
			if uerr := s.locks[d].Unlock(); uerr != nil {
				log.Error.Printf("%s: unlock %s: %v", op, d, uerr)
				if err == nil {
					err = errors.E(op, errors.IO, uerr)
				}
			}
		}
	}()
	for _, d := range ds {
		if d >= numDomains {
			return errors.E(op, errors.Invalid, errors.Errorf("bad domain %d", d))
		}
		if tx.held[d] {
			continue
		}
		if err := s.locks[d].Lock(); err != nil {
			return errors.E(op, err)
		}
		locked = append(locked, d)
		tx.held[d] = true
	}
	return fn(tx)
}

// check reports whether tx may access table t of store s.
func (tx *Tx) check(op errors.Op, s *Store, t flatbank.Table) error {
	if tx == nil || tx.done {
		return errors.E(op, t, errors.Invalid, errors.Str("transaction not active"))
	}
	if tx.s != s {
		return errors.E(op, t, errors.Invalid, errors.Str("transaction belongs to another store"))
	}
	if d := DomainOf(t); !tx.held[d] {
		return errors.E(op, t, errors.Invalid, errors.Errorf("%s lock not held", d))
	}
	return nil
}
