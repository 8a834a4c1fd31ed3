// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package serverutil provides helpers for the bank server's connection
// handling.
package serverutil // import "flatbank.io/serverutil"

import (
	"sync"
	"time"
)

// The maximum number of keys that a RateLimiter can track.
const rateMaxVisitors = 100000

// RateLimiter throttles keys that keep failing, such as the hosts of
// clients that present bad credentials. After a failure the key must wait
// out a backoff before trying again; each further failure before Max has
// elapsed doubles the backoff, up to Max.
//
// The zero value is usable once Backoff and Max are set.
type RateLimiter struct {
	// Backoff is the wait imposed after a first failure.
	Backoff time.Duration

	// Max caps the wait. A key with no failure for Max starts over.
	Max time.Duration

	mu          sync.Mutex // Guards the fields below.
	m           map[string]*visitor
	first, last *visitor // Least recently failed first.
}

type visitor struct {
	key     string
	failed  time.Time // Time of the latest failure.
	backoff time.Duration

	prev, next *visitor
}

// Wait returns how long key must wait before its next attempt, or zero
// if it may try now.
func (r *RateLimiter) Wait(key string) time.Duration {
	return r.wait(time.Now(), key)
}

// Fail records a failed attempt by key.
func (r *RateLimiter) Fail(key string) {
	r.fail(time.Now(), key)
}

// Reset forgets the failures of key, typically after it succeeds.
func (r *RateLimiter) Reset(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.m[key]; ok {
		r.unlink(v)
		delete(r.m, key)
	}
}

func (r *RateLimiter) wait(now time.Time, key string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[key]
	if !ok {
		return 0
	}
	until := v.failed.Add(v.backoff)
	if now.Before(until) {
		return until.Sub(now)
	}
	return 0
}

func (r *RateLimiter) fail(now time.Time, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Initialize the map lazily so that RateLimiter
	// may be useful in its zero form.
	if r.m == nil {
		r.m = map[string]*visitor{}
	}

	v, ok := r.m[key]
	switch {
	case !ok:
		v = &visitor{key: key, backoff: r.Backoff}
		r.m[key] = v
	case now.After(v.failed.Add(r.Max)):
		// Quiet for long enough; start over.
		v.backoff = r.Backoff
		r.unlink(v)
	default:
		v.backoff *= 2
		if v.backoff > r.Max {
			v.backoff = r.Max
		}
		r.unlink(v)
	}
	v.failed = now

	// Attach v to the end of the list.
	v.prev = r.last
	if r.last != nil {
		r.last.next = v
	}
	r.last = v
	if r.first == nil {
		r.first = v
	}

	r.prune(now)
}

// unlink removes v from the list but not from the map.
func (r *RateLimiter) unlink(v *visitor) {
	if v.prev != nil {
		v.prev.next = v.next
	} else {
		r.first = v.next
	}
	if v.next != nil {
		v.next.prev = v.prev
	} else {
		r.last = v.prev
	}
	v.prev, v.next = nil, nil
}

// prune deletes keys whose failures are older than Max, and the oldest
// keys beyond the number we can track.
func (r *RateLimiter) prune(now time.Time) {
	drop := 0
	if len(r.m) > rateMaxVisitors {
		drop = len(r.m) - rateMaxVisitors
	}
	for v, i := r.first, 0; v != nil && v != r.last; i++ {
		if !now.After(v.failed.Add(r.Max)) && i >= drop {
			break
		}
		next := v.next
		r.unlink(v)
		delete(r.m, v.key)
		v = next
	}
}
