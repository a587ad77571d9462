// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cpool

import (
	"errors"
	"testing"

	"github.com/go-classfile/classfile/ioclass"
)

// TestForwardReference is scenario E5: a Class entry at logical index 1
// names a Utf8 entry at logical index 2, which appears later in the
// physical sequence than its referrer.
func TestForwardReference(t *testing.T) {
	physical := []ioclass.CpEntry{
		{Tag: ioclass.CpClass, NameIndex: 2},
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("java/lang/Object")},
	}
	pool, err := Lift(physical, 3)
	if err != nil {
		t.Fatalf("Lift() err = %v", err)
	}
	if len(pool.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(pool.Entries))
	}
	class, err := pool.ClassAt(1)
	if err != nil {
		t.Fatalf("ClassAt(1) err = %v", err)
	}
	if class.Name.Value != "java/lang/Object" {
		t.Fatalf("class.Name.Value = %q", class.Name.Value)
	}
}

// TestLongReservesFollowingSlot verifies a Long at logical index 1 burns
// logical index 2, so a Utf8 placed after it in the physical sequence
// lands at logical index 3, and index 2 resolves to a Reserved entry.
func TestLongReservesFollowingSlot(t *testing.T) {
	physical := []ioclass.CpEntry{
		{Tag: ioclass.CpLong, LongBytes: [8]byte{0, 0, 0, 0, 0, 0, 0, 42}},
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("x")},
	}
	pool, err := Lift(physical, 4)
	if err != nil {
		t.Fatalf("Lift() err = %v", err)
	}
	if len(pool.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(pool.Entries))
	}
	if pool.Entries[0].Kind != KindLong || pool.Entries[0].AsInt64() != 42 {
		t.Fatalf("Entries[0] = %+v", pool.Entries[0])
	}
	if pool.Entries[1].Kind != KindReserved {
		t.Fatalf("Entries[1].Kind = %v, want Reserved", pool.Entries[1].Kind)
	}
	utf8, err := pool.Utf8At(3)
	if err != nil {
		t.Fatalf("Utf8At(3) err = %v", err)
	}
	if utf8.Value != "x" {
		t.Fatalf("utf8.Value = %q", utf8.Value)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	physical := []ioclass.CpEntry{{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("a")}}
	pool, err := Lift(physical, 2)
	if err != nil {
		t.Fatalf("Lift() err = %v", err)
	}
	if _, err := pool.At(0); err == nil {
		t.Fatal("At(0) should fail")
	}
	var oor *IndexOutOfRangeError
	if _, err := pool.At(2); !errors.As(err, &oor) {
		t.Fatalf("At(2) err = %v, want *IndexOutOfRangeError", err)
	}
}

func TestWrongReferentKind(t *testing.T) {
	physical := []ioclass.CpEntry{
		{Tag: ioclass.CpClass, NameIndex: 2}, // names an Integer, not a Utf8
		{Tag: ioclass.CpInteger, IntValue: 1},
	}
	_, err := Lift(physical, 3)
	var wr *WrongReferentError
	if !errors.As(err, &wr) {
		t.Fatalf("err = %v, want *WrongReferentError", err)
	}
}

func TestCyclicReference(t *testing.T) {
	// A MethodHandle whose reference_index is its own slot can only be
	// resolved by resolving itself, so Lift must reject it.
	physical := []ioclass.CpEntry{
		{Tag: ioclass.CpMethodHandle, RefKind: 1, RefIndex: 1},
	}
	_, err := Lift(physical, 2)
	if err == nil {
		t.Fatal("expected an error for a self-referential MethodHandle")
	}
}

func TestMethodHandleResolvesTarget(t *testing.T) {
	physical := []ioclass.CpEntry{
		{Tag: ioclass.CpMethodHandle, RefKind: uint8(InvokeStatic), RefIndex: 2},
		{Tag: ioclass.CpMethodRef, ClassIndex: 3, NameAndTypeIndex: 5},
		{Tag: ioclass.CpClass, NameIndex: 4},
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("Helper")},
		{Tag: ioclass.CpNameAndType, NameIndex: 6, DescriptorIndex: 7},
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("run")},
		{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("()V")},
	}
	pool, err := Lift(physical, 8)
	if err != nil {
		t.Fatalf("Lift() err = %v", err)
	}
	mhEntry, err := pool.At(1)
	if err != nil {
		t.Fatal(err)
	}
	if mhEntry.Kind != KindMethodHandle {
		t.Fatalf("Kind = %v", mhEntry.Kind)
	}
	mh := mhEntry.MethodHandle
	if mh.Kind != InvokeStatic {
		t.Fatalf("mh.Kind = %v, want InvokeStatic", mh.Kind)
	}
	if mh.Method == nil || mh.Method.Class.Name.Value != "Helper" {
		t.Fatalf("mh.Method = %+v", mh.Method)
	}
	if mh.Method.NameAndType.Name.Value != "run" || mh.Method.NameAndType.Descriptor.Value != "()V" {
		t.Fatalf("mh.Method.NameAndType = %+v", mh.Method.NameAndType)
	}
}

func TestConstValueAt(t *testing.T) {
	physical := []ioclass.CpEntry{{Tag: ioclass.CpInteger, IntValue: -7}}
	pool, err := Lift(physical, 2)
	if err != nil {
		t.Fatal(err)
	}
	cv, err := pool.ConstValueAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Kind != ConstInt || cv.IntValue != -7 {
		t.Fatalf("cv = %+v", cv)
	}
}

func TestPoolLengthMismatch(t *testing.T) {
	physical := []ioclass.CpEntry{{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("a")}}
	if _, err := Lift(physical, 1); !errors.Is(err, ErrPoolLengthMismatch) {
		t.Fatalf("err = %v, want ErrPoolLengthMismatch", err)
	}
}
