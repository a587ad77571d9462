// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mutf8

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"hello world",
		"café",
		"\U0001F600", // supplementary code point, needs a surrogate pair
		"a b",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			got, err := DecodeMUTF8(EncodeMUTF8(s))
			if err != nil {
				t.Fatalf("DecodeMUTF8(EncodeMUTF8(%q)) err = %v", s, err)
			}
			if got != s {
				t.Fatalf("round trip = %q, want %q", got, s)
			}
		})
	}
}

func TestEncodeNul(t *testing.T) {
	got := EncodeMUTF8("\x00")
	want := []byte{0xC0, 0x80}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeMUTF8(nul) = %x, want %x", got, want)
	}
}

func TestDecodeNulPair(t *testing.T) {
	got, err := DecodeMUTF8([]byte{0xC0, 0x80})
	if err != nil {
		t.Fatalf("DecodeMUTF8() err = %v", err)
	}
	if got != "\x00" {
		t.Fatalf("DecodeMUTF8([0xC0,0x80]) = %q, want U+0000", got)
	}
}

func TestDecodeRawNulIsError(t *testing.T) {
	_, err := DecodeMUTF8([]byte{0x41, 0x00, 0x42})
	if !errors.Is(err, ErrNullByteInInput) {
		t.Fatalf("err = %v, want ErrNullByteInInput", err)
	}
}

func TestDecodeTruncatedSequence(t *testing.T) {
	_, err := DecodeMUTF8([]byte{0xC0})
	var badLen *CodepointBadInputLengthError
	if !errors.As(err, &badLen) {
		t.Fatalf("err = %v, want *CodepointBadInputLengthError", err)
	}
	if badLen.N != 2 {
		t.Fatalf("N = %d, want 2", badLen.N)
	}
}

func TestDecodeInvalidLeader(t *testing.T) {
	_, err := DecodeMUTF8([]byte{0xFF})
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("err = %v, want ErrInvalidEncoding", err)
	}
}

func TestSupplementarySixByteForm(t *testing.T) {
	// U+1F600 GRINNING FACE.
	encoded := EncodeMUTF8("\U0001F600")
	if len(encoded) != 6 {
		t.Fatalf("len(encoded) = %d, want 6", len(encoded))
	}
	if encoded[0] != 0xED || encoded[3] != 0xED {
		t.Fatalf("encoded = %x, want both triplets led by 0xED", encoded)
	}
}
