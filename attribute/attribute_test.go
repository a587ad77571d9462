// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package attribute

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-classfile/classfile/bio"
	"github.com/go-classfile/classfile/cpool"
	"github.com/go-classfile/classfile/ioclass"
)

// poolWithUtf8 builds a one-entry pool whose logical index 1 is the
// given Utf8 value, for tests that only need a name to dispatch on.
func poolWithUtf8(name string) *cpool.Pool {
	pool, err := cpool.Lift([]ioclass.CpEntry{
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte(name)},
	}, 2)
	if err != nil {
		panic(err)
	}
	return pool
}

// TestSameLocals1StackItemFrame is scenario E6: frame-type byte 65 with
// a following vti tag 1 decodes to offset_delta=1, stack=Integer.
func TestSameLocals1StackItemFrame(t *testing.T) {
	r := bio.NewReader([]byte{65, 1})
	f, err := readStackMapFrame(r)
	if err != nil {
		t.Fatalf("readStackMapFrame() err = %v", err)
	}
	if f.OffsetDelta != 1 {
		t.Errorf("OffsetDelta = %d, want 1", f.OffsetDelta)
	}
	if len(f.Stack) != 1 || f.Stack[0].Tag != VTInteger {
		t.Errorf("Stack = %+v, want [Integer]", f.Stack)
	}
}

// TestFullFrameRoundTrip is scenario E7: frame-type 255, offset_delta 10,
// 2 locals {Object(5), Integer}, 1 stack {Null} — decode then re-encode
// must reproduce the original bytes exactly.
func TestFullFrameRoundTrip(t *testing.T) {
	original := []byte{
		255,
		0, 10, // offset_delta
		0, 2, // n_locals
		7, 0, 5, // Object, cp index 5
		1, // Integer
		0, 1, // n_stack
		5, // Null
	}
	f, err := readStackMapFrame(bio.NewReader(original))
	if err != nil {
		t.Fatalf("readStackMapFrame() err = %v", err)
	}
	if f.OffsetDelta != 10 {
		t.Fatalf("OffsetDelta = %d, want 10", f.OffsetDelta)
	}
	if len(f.Locals) != 2 || f.Locals[0].Tag != VTObject || f.Locals[0].CPIndex != 5 || f.Locals[1].Tag != VTInteger {
		t.Fatalf("Locals = %+v", f.Locals)
	}
	if len(f.Stack) != 1 || f.Stack[0].Tag != VTNull {
		t.Fatalf("Stack = %+v", f.Stack)
	}

	var buf bytes.Buffer
	if err := writeStackMapFrame(bio.NewWriter(&buf), f); err != nil {
		t.Fatalf("writeStackMapFrame() err = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), original) {
		t.Fatalf("round trip mismatch:\n got %x\nwant %x", buf.Bytes(), original)
	}
}

func TestUnknownStackMapFrameTag(t *testing.T) {
	_, err := readStackMapFrame(bio.NewReader([]byte{200}))
	var unk *UnknownStackMapFrameTagError
	if !errors.As(err, &unk) {
		t.Fatalf("err = %v, want *UnknownStackMapFrameTagError", err)
	}
	if unk.Tag != 200 {
		t.Errorf("Tag = %d, want 200", unk.Tag)
	}
}

func TestDecodeSyntheticMarker(t *testing.T) {
	pool := poolWithUtf8("Synthetic")
	raw := ioclass.AttributeInfo{NameIndex: 1, Length: 0, Info: nil}
	a, err := Decode(pool, raw, false)
	if err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	if a.Kind != KindSynthetic {
		t.Fatalf("Kind = %v, want Synthetic", a.Kind)
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	pool := poolWithUtf8("Synthetic")
	raw := ioclass.AttributeInfo{NameIndex: 1, Length: 1, Info: []byte{0x00}}
	if _, err := Decode(pool, raw, false); err != ErrTrailingBytes {
		t.Fatalf("err = %v, want ErrTrailingBytes", err)
	}
}

func TestDecodeUnknownAttributeStrict(t *testing.T) {
	pool := poolWithUtf8("NotARealAttribute")
	raw := ioclass.AttributeInfo{NameIndex: 1}
	_, err := Decode(pool, raw, false)
	var unk *UnknownAttributeError
	if !errors.As(err, &unk) {
		t.Fatalf("err = %v, want *UnknownAttributeError", err)
	}
}

func TestDecodeUnknownAttributeLenient(t *testing.T) {
	pool := poolWithUtf8("NotARealAttribute")
	raw := ioclass.AttributeInfo{NameIndex: 1, Info: []byte{1, 2, 3}}
	a, err := Decode(pool, raw, true)
	if err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	if a.Kind != KindUnrecognized || !bytes.Equal(a.Unrecognized, []byte{1, 2, 3}) {
		t.Fatalf("a = %+v", a)
	}
}

// TestNestedAnnotation exercises the '@' element_value case, which this
// implementation recurses into instead of failing.
func TestNestedAnnotation(t *testing.T) {
	pool, err := cpool.Lift([]ioclass.CpEntry{
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("RuntimeVisibleAnnotations")}, // 1
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("LOuter;")},                  // 2
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("inner")},                    // 3
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("LInner;")},                  // 4
	}, 5)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(w.WriteU16(1))       // n_annotations
	must(w.WriteU16(2))       // outer type name index
	must(w.WriteU16(1))       // n_pairs
	must(w.WriteU16(3))       // pair name "inner"
	must(w.WriteU8('@'))      // nested annotation tag
	must(w.WriteU16(4))       // nested type name index
	must(w.WriteU16(0))       // nested n_pairs

	raw := ioclass.AttributeInfo{NameIndex: 1, Length: uint32(buf.Len()), Info: buf.Bytes()}
	a, err := Decode(pool, raw, false)
	if err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	if a.Kind != KindRuntimeVisibleAnnotations {
		t.Fatalf("Kind = %v", a.Kind)
	}
	anns := a.VisibleAnnotations
	if len(anns) != 1 || anns[0].Type.Value != "LOuter;" {
		t.Fatalf("anns = %+v", anns)
	}
	pair := anns[0].Pairs[0]
	if pair.Value.Kind != AVAnnotation || pair.Value.NestedAnnotation.Type.Value != "LInner;" {
		t.Fatalf("pair.Value = %+v", pair.Value)
	}
}
