// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package lock

import "os"

// Without flock only goroutines of one process are excluded.
func flock(*os.File) error   { return nil }
func funlock(*os.File) error { return nil }
