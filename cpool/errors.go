// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cpool

import (
	"errors"
	"fmt"
)

// ErrCyclicReference is returned when resolving a constant-pool entry
// requires resolving itself, directly or transitively. A well-formed
// pool is acyclic; this only fires on malformed input.
var ErrCyclicReference = errors.New("cpool: cyclic constant-pool reference")

// ErrPoolLengthMismatch is returned when the physical entries handed to
// Lift do not consume exactly cp_count-1 logical slots.
var ErrPoolLengthMismatch = errors.New("cpool: physical entries do not match cp_count")

// IndexOutOfRangeError is returned when a constant-pool index is zero or
// exceeds the pool's logical length.
type IndexOutOfRangeError struct {
	Index  uint16
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("cpool: index %d out of range (pool has %d logical slots)", e.Index, e.Length)
}

// WrongReferentError is returned when an index resolves to an entry of a
// kind the referencing entry did not expect.
type WrongReferentError struct {
	Index    uint16
	Expected string
	Got      string
}

func (e *WrongReferentError) Error() string {
	return fmt.Sprintf("cpool: index %d: expected %s, got %s", e.Index, e.Expected, e.Got)
}
