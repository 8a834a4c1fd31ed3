// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lock provides the domain locks that serialize access to groups of
// table files.
//
// A File lock excludes both goroutines of the same process and other
// processes that open the same lock file. Acquisition never times out.
package lock // import "flatbank.io/lock"

import (
	"os"
	"sync"

	"flatbank.io/errors"
)

// Locker is a mutual-exclusion region. Unlike sync.Locker, acquiring or
// releasing it may fail.
type Locker interface {
	Lock() error
	Unlock() error
}

// File is a Locker backed by an in-process mutex and an exclusive
// advisory lock on a file.
type File struct {
	path string

	mu sync.Mutex // Held by the goroutine that holds the file lock.
	f  *os.File   // Opened lazily, kept open for the life of the process.
}

var _ Locker = (*File)(nil)

// NewFile returns a lock on the named file. The file is created if needed
// on first use.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the name of the lock file.
func (l *File) Path() string { return l.path }

// Lock blocks until the calling goroutine holds both the in-process mutex
// and the file lock.
func (l *File) Lock() error {
	const op errors.Op = "lock.Lock"
	l.mu.Lock()
	if l.f == nil {
		f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0600)
		if err != nil {
			l.mu.Unlock()
			return errors.E(op, errors.IO, err)
		}
		l.f = f
	}
	if err := flock(l.f); err != nil {
		l.mu.Unlock()
		return errors.E(op, errors.IO, errors.Errorf("%s: %v", l.path, err))
	}
	return nil
}

// Unlock releases the file lock and then the mutex.
func (l *File) Unlock() error {
	const op errors.Op = "lock.Unlock"
	defer l.mu.Unlock()
	if l.f == nil {
		return errors.E(op, errors.Invalid, errors.Str("unlock of unlocked lock"))
	}
	if err := funlock(l.f); err != nil {
		return errors.E(op, errors.IO, errors.Errorf("%s: %v", l.path, err))
	}
	return nil
}

// Close releases the lock file. The lock must not be held.
func (l *File) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// Mutex is a Locker for a single process.
type Mutex struct {
	mu sync.Mutex
}

var _ Locker = (*Mutex)(nil)

// NewMutex returns an in-memory Locker.
func NewMutex() *Mutex { return new(Mutex) }

func (m *Mutex) Lock() error {
	m.mu.Lock()
	return nil
}

func (m *Mutex) Unlock() error {
	m.mu.Unlock()
	return nil
}
