// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"bytes"
	"os"
	"path/filepath"

	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/log"
	"flatbank.io/record"
)

// Table is a typed view of one table file of a store.
type Table[T any] struct {
	Name   flatbank.Table
	Domain Domain
	Codec  record.Codec[T]

	s *Store
}

// NewTable returns a view of the named table of s that decodes lines with c.
func NewTable[T any](s *Store, name flatbank.Table, c record.Codec[T]) *Table[T] {
	return &Table[T]{Name: name, Domain: DomainOf(name), Codec: c, s: s}
}

// Edit is applied to every record of a table during Rewrite. It returns
// the replacement record and hit=true to replace the line, or hit=false to
// keep the line as it was. A non-nil error abandons the rewrite.
type Edit[T any] func(rec T) (repl T, hit bool, err error)

// readLines returns the raw lines of the table. A missing file has no lines.
func (t *Table[T]) readLines(op errors.Op, tx *Tx) ([]string, error) {
	if err := tx.check(op, t.s, t.Name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(t.s.path(t.Name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.E(op, t.Name, errors.IO, err)
	}
	return record.Split(data), nil
}

// Scan reads every line of the table. It may be called any number of
// times within one transaction.
func (t *Table[T]) Scan(tx *Tx) ([]record.Line[T], error) {
	const op errors.Op = "store.Scan"
	raw, err := t.readLines(op, tx)
	if err != nil {
		return nil, err
	}
	lines := make([]record.Line[T], len(raw))
	for i, l := range raw {
		lines[i] = record.Parse(t.Codec, l)
	}
	return lines, nil
}

// Find returns the first record that satisfies pred. If there is none the
// error is of kind errors.NotExist.
func (t *Table[T]) Find(tx *Tx, pred func(T) bool) (T, error) {
	const op errors.Op = "store.Find"
	var zero T
	lines, err := t.Scan(tx)
	if err != nil {
		return zero, err
	}
	for _, l := range lines {
		if l.OK && pred(l.Rec) {
			return l.Rec, nil
		}
	}
	return zero, errors.E(op, t.Name, errors.NotExist)
}

// Exists reports whether any record satisfies pred.
func (t *Table[T]) Exists(tx *Tx, pred func(T) bool) (bool, error) {
	_, err := t.Find(tx, pred)
	if errors.Is(errors.NotExist, err) {
		return false, nil
	}
	return err == nil, err
}

// Rewrite applies edit to every record of the table and atomically
// replaces the file with the result. Lines that do not decode are written
// back unchanged. It returns the number of records edit replaced; if that
// is zero the table is left alone and the error is of kind errors.NotExist.
func (t *Table[T]) Rewrite(tx *Tx, edit Edit[T]) (int, error) {
	const op errors.Op = "store.Rewrite"
	lines, err := t.Scan(tx)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	hits := 0
	for _, l := range lines {
		if !l.OK {
			buf.WriteString(l.Raw)
			buf.WriteByte('\n')
			continue
		}
		repl, hit, err := edit(l.Rec)
		if err != nil {
			return 0, err
		}
		if hit {
			hits++
			buf.WriteString(t.Codec.Encode(repl))
		} else {
			buf.WriteString(l.Raw)
		}
		buf.WriteByte('\n')
	}
	if hits == 0 {
		return 0, errors.E(op, t.Name, errors.NotExist, errors.Str("no matching record"))
	}
	if err := t.s.commit(t.Name, buf.Bytes()); err != nil {
		return 0, err
	}
	return hits, nil
}

// Append adds rec to the end of the table, first terminating the last line
// if it lacks a newline.
func (t *Table[T]) Append(tx *Tx, rec T) error {
	const op errors.Op = "store.Append"
	if err := tx.check(op, t.s, t.Name); err != nil {
		return err
	}
	f, err := os.OpenFile(t.s.path(t.Name), os.O_RDWR|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return errors.E(op, t.Name, errors.IO, err)
	}
	line := t.Codec.Encode(rec) + "\n"
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return errors.E(op, t.Name, errors.IO, err)
	}
	if size := fi.Size(); size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			f.Close()
			return errors.E(op, t.Name, errors.IO, err)
		}
		if last[0] != '\n' {
			line = "\n" + line
		}
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return errors.E(op, t.Name, errors.IO, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.E(op, t.Name, errors.IO, err)
	}
	if err := f.Close(); err != nil {
		return errors.E(op, t.Name, errors.IO, err)
	}
	return nil
}

// NextID returns the id for a new record: one more than the largest id in
// the table, or than the table's floor if that is larger. Lines without a
// leading integer are ignored.
func (t *Table[T]) NextID(tx *Tx) (int, error) {
	raw, err := t.readLines("store.NextID", tx)
	if err != nil {
		return 0, err
	}
	return NextID(t.Name, raw), nil
}

// Insert allocates an id, builds the record for it and appends it, all
// under the locks held by tx.
func (t *Table[T]) Insert(tx *Tx, build func(id int) (T, error)) (T, error) {
	var zero T
	id, err := t.NextID(tx)
	if err != nil {
		return zero, err
	}
	rec, err := build(id)
	if err != nil {
		return zero, err
	}
	if err := t.Append(tx, rec); err != nil {
		return zero, err
	}
	return rec, nil
}

// Get is Find in a transaction of its own.
func (t *Table[T]) Get(pred func(T) bool) (rec T, err error) {
	err = t.s.Do(func(tx *Tx) error {
		rec, err = t.Find(tx, pred)
		return err
	}, t.Domain)
	return rec, err
}

// All returns every decodable record of the table, taking the lock.
func (t *Table[T]) All() ([]T, error) {
	var recs []T
	err := t.s.Do(func(tx *Tx) error {
		lines, err := t.Scan(tx)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if l.OK {
				recs = append(recs, l.Rec)
			}
		}
		return nil
	}, t.Domain)
	return recs, err
}

// commit writes data to a temporary file next to the table and renames
// it over the table. On any failure the table is unchanged.
func (s *Store) commit(t flatbank.Table, data []byte) error {
	const op errors.Op = "store.commit"
	tmp, err := os.CreateTemp(s.dir, "."+string(t)+".*.tmp")
	if err != nil {
		return errors.E(op, t, errors.IO, err)
	}
	tmpName := tmp.Name()
	removeTmp := func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			log.Error.Printf("%s: removing %s: %v", op, tmpName, err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		removeTmp()
		return errors.E(op, t, errors.IO, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		removeTmp()
		return errors.E(op, t, errors.IO, err)
	}
	if err := tmp.Close(); err != nil {
		removeTmp()
		return errors.E(op, t, errors.IO, err)
	}
	if s.beforeCommit != nil {
		if err := s.beforeCommit(t, tmpName); err != nil {
			removeTmp()
			return errors.E(op, t, errors.IO, err)
		}
	}
	if err := os.Rename(tmpName, s.path(t)); err != nil {
		removeTmp()
		return errors.E(op, t, errors.IO, err)
	}
	syncDir(s.dir)
	log.Debug.Printf("%s: %s: %d bytes", op, t, len(data))
	return nil
}

// syncDir makes a completed rename durable. Failure is logged only; the
// rename itself has already succeeded.
func syncDir(dir string) {
	d, err := os.Open(filepath.Clean(dir))
	if err != nil {
		return
	}
	if err := d.Sync(); err != nil {
		log.Debug.Printf("store: sync %s: %v", dir, err)
	}
	d.Close()
}
