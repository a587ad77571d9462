// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package mutf8 implements the VM's modified-UTF-8 string encoding: a
// literal nul is escaped as the two-byte sequence 0xC0 0x80, and
// supplementary code points are encoded as a synthetic surrogate pair,
// each half written out as a 3-byte sequence.
package mutf8

import (
	"errors"
	"fmt"
)

// ErrNullByteInInput is returned when a raw 0x00 byte appears in the
// input stream being decoded.
var ErrNullByteInInput = errors.New("mutf8: raw nul byte in input")

// ErrInvalidEncoding is returned when a leading byte does not match any
// recognised modified-UTF-8 pattern.
var ErrInvalidEncoding = errors.New("mutf8: invalid encoding")

// ErrInvalidUTF8Output is returned when a decoded code point cannot form
// valid UTF-8 output (should not occur for well-formed VM input).
var ErrInvalidUTF8Output = errors.New("mutf8: decoded code point is not valid UTF-8")

// CodepointBadInputLengthError is returned when a multi-byte sequence is
// missing one or more of its continuation bytes.
type CodepointBadInputLengthError struct {
	// N is the number of bytes the sequence required.
	N byte
}

func (e *CodepointBadInputLengthError) Error() string {
	return fmt.Sprintf("mutf8: incomplete %d-byte sequence", e.N)
}

// EncodeMUTF8 encodes s into the VM's modified-UTF-8 byte representation.
func EncodeMUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, c := range s {
		out = appendCodepoint(out, uint32(c))
	}
	return out
}

func appendCodepoint(out []byte, c uint32) []byte {
	switch {
	case c == 0:
		return append(out, 0xC0, 0x80)
	case c <= 0x7F:
		return append(out, byte(c))
	case c <= 0x7FF:
		return append(out,
			0xC0|byte(c>>6),
			0x80|byte(c&0x3F))
	case c <= 0xFFFF:
		return append(out,
			0xE0|byte(c>>12),
			0x80|byte((c>>6)&0x3F),
			0x80|byte(c&0x3F))
	default:
		// Supplementary code point: synthesize a surrogate pair and
		// encode each half as its own 3-byte sequence.
		return append(out,
			0xED,
			0xA0|byte((c>>16)&0x0F),
			0x80|byte((c>>10)&0x3F),
			0xED,
			0xB0|byte((c>>6)&0x0F),
			0x80|byte(c&0x3F))
	}
}

// DecodeMUTF8 decodes b, which must be in the VM's modified-UTF-8 format,
// into a standard Go string.
func DecodeMUTF8(b []byte) (string, error) {
	out := make([]rune, 0, len(b))
	i := 0
	n := len(b)

	// Fast path: bulk-copy a run of plain ASCII bytes.
	for i < n {
		start := i
		for i < n && b[i] != 0 && b[i] < 0x80 {
			i++
		}
		for _, c := range b[start:i] {
			out = append(out, rune(c))
		}
		if i >= n {
			break
		}

		b0 := b[i]
		switch {
		case b0 == 0:
			return "", ErrNullByteInInput

		case b0&0xE0 == 0xC0:
			if i+1 >= n {
				return "", &CodepointBadInputLengthError{N: 2}
			}
			b1 := b[i+1]
			if b0 == 0xC0 && b1 == 0x80 {
				out = append(out, 0)
			} else {
				c := (uint32(b0&0x1F) << 6) | uint32(b1&0x3F)
				out = append(out, rune(c))
			}
			i += 2

		case b0&0xF0 == 0xE0:
			if i+2 >= n {
				return "", &CodepointBadInputLengthError{N: 3}
			}
			b1, b2 := b[i+1], b[i+2]

			// Possible start of a synthetic 6-byte surrogate pair.
			if b0 == 0xED && b1&0xF0 == 0xA0 && i+5 < n &&
				b[i+3] == 0xED && b[i+4]&0xF0 == 0xB0 {
				b4, b5 := b[i+4], b[i+5]
				c := (uint32(b1&0x0F) << 16) |
					(uint32(b2&0x3F) << 10) |
					(uint32(b4&0x0F) << 6) |
					uint32(b5&0x3F)
				out = append(out, rune(c))
				i += 6
				continue
			}

			c := (uint32(b0&0x0F) << 12) | (uint32(b1&0x3F) << 6) | uint32(b2&0x3F)
			out = append(out, rune(c))
			i += 3

		default:
			return "", ErrInvalidEncoding
		}
	}

	return string(out), nil
}
