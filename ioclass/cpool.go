// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package ioclass

import (
	"fmt"

	"github.com/go-classfile/classfile/bio"
)

// CpTag identifies the kind of a constant-pool entry.
type CpTag byte

// Constant-pool tag values, per the VM's class-file specification.
const (
	CpUtf8               CpTag = 1
	CpInteger            CpTag = 3
	CpFloat              CpTag = 4
	CpLong               CpTag = 5
	CpDouble             CpTag = 6
	CpClass              CpTag = 7
	CpString             CpTag = 8
	CpFieldRef           CpTag = 9
	CpMethodRef          CpTag = 10
	CpInterfaceMethodRef CpTag = 11
	CpNameAndType        CpTag = 12
	CpMethodHandle       CpTag = 15
	CpMethodType         CpTag = 16
	CpInvokeDynamic      CpTag = 18
	CpModule             CpTag = 19
	CpPackage            CpTag = 20
)

// String names the tag for diagnostics.
func (t CpTag) String() string {
	names := map[CpTag]string{
		CpUtf8:               "Utf8",
		CpInteger:            "Integer",
		CpFloat:              "Float",
		CpLong:               "Long",
		CpDouble:             "Double",
		CpClass:              "Class",
		CpString:             "String",
		CpFieldRef:           "FieldRef",
		CpMethodRef:          "MethodRef",
		CpInterfaceMethodRef: "InterfaceMethodRef",
		CpNameAndType:        "NameAndType",
		CpMethodHandle:       "MethodHandle",
		CpMethodType:         "MethodType",
		CpInvokeDynamic:      "InvokeDynamic",
		CpModule:             "Module",
		CpPackage:            "Package",
	}
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("CpTag(%d)", byte(t))
}

// occupiesTwoSlots reports whether a pool entry of this tag consumes the
// logical slot that follows it.
func (t CpTag) occupiesTwoSlots() bool {
	return t == CpLong || t == CpDouble
}

// UnknownCpTagError is returned when a tag byte is outside the set this
// decoder knows about.
type UnknownCpTagError struct {
	Tag byte
}

func (e *UnknownCpTagError) Error() string {
	return fmt.Sprintf("ioclass: unknown constant-pool tag %d", e.Tag)
}

// CpEntry is the untyped, byte-faithful form of one physical
// constant-pool entry. Only the fields relevant to Tag are meaningful;
// others are left at their zero value.
type CpEntry struct {
	Tag CpTag

	Utf8Bytes   []byte // Utf8
	IntValue    int32  // Integer
	FloatBits   uint32 // Float, raw IEEE-754 bits
	LongBytes   [8]byte // Long, raw big-endian bytes
	DoubleBytes [8]byte // Double, raw big-endian bytes

	NameIndex       uint16 // Class (name), NameAndType (name), Module (name), Package (name)
	DescriptorIndex uint16 // NameAndType (descriptor), MethodType (descriptor)
	StringIndex     uint16 // String

	ClassIndex       uint16 // FieldRef, MethodRef, InterfaceMethodRef
	NameAndTypeIndex uint16 // FieldRef, MethodRef, InterfaceMethodRef, InvokeDynamic

	RefKind uint8  // MethodHandle
	RefIndex uint16 // MethodHandle

	BootstrapMethodAttrIndex uint16 // InvokeDynamic
}

// AsFloat32 decodes the raw bits of a Float entry.
func (e *CpEntry) AsFloat32() float32 {
	return math32frombits(e.FloatBits)
}

// AsInt64 decodes the raw bytes of a Long entry as a big-endian integer.
func (e *CpEntry) AsInt64() int64 {
	return int64(beUint64(e.LongBytes))
}

// AsFloat64 decodes the raw bytes of a Double entry as an IEEE-754 value.
func (e *CpEntry) AsFloat64() float64 {
	return math64frombits(beUint64(e.DoubleBytes))
}

// readCpEntries reads the physical entries that fill the cpCount-1
// logical slots following the header; a Long/Double fills two slots.
// No placeholder is inserted for the slot after a Long/Double:
// at the I/O layer the sequence is exactly what was physically present
// on disk, matching the format's own "pushes a single entry" wording.
// Logical/physical index translation is an IR-layer concern (see
// package cpool).
func readCpEntries(r *bio.Reader, cpCount uint16) ([]CpEntry, error) {
	n := int(cpCount) - 1
	if n < 0 {
		n = 0
	}
	entries := make([]CpEntry, 0, n)
	for slot := 0; slot < n; slot++ {
		e, err := readCpEntry(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
		if e.Tag.occupiesTwoSlots() {
			slot++
		}
	}
	return entries, nil
}

func readCpEntry(r *bio.Reader) (CpEntry, error) {
	tagByte, err := r.ReadU8()
	if err != nil {
		return CpEntry{}, err
	}
	tag := CpTag(tagByte)
	e := CpEntry{Tag: tag}

	switch tag {
	case CpUtf8:
		length, err := r.ReadU16()
		if err != nil {
			return e, err
		}
		e.Utf8Bytes, err = r.ReadNBytes(int(length))
		if err != nil {
			return e, err
		}

	case CpInteger:
		v, err := r.ReadI32()
		if err != nil {
			return e, err
		}
		e.IntValue = v

	case CpFloat:
		v, err := r.ReadU32()
		if err != nil {
			return e, err
		}
		e.FloatBits = v

	case CpLong:
		b, err := r.ReadNBytes(8)
		if err != nil {
			return e, err
		}
		copy(e.LongBytes[:], b)

	case CpDouble:
		b, err := r.ReadNBytes(8)
		if err != nil {
			return e, err
		}
		copy(e.DoubleBytes[:], b)

	case CpClass:
		if e.NameIndex, err = r.ReadU16(); err != nil {
			return e, err
		}

	case CpString:
		if e.StringIndex, err = r.ReadU16(); err != nil {
			return e, err
		}

	case CpFieldRef, CpMethodRef, CpInterfaceMethodRef:
		if e.ClassIndex, err = r.ReadU16(); err != nil {
			return e, err
		}
		if e.NameAndTypeIndex, err = r.ReadU16(); err != nil {
			return e, err
		}

	case CpNameAndType:
		if e.NameIndex, err = r.ReadU16(); err != nil {
			return e, err
		}
		if e.DescriptorIndex, err = r.ReadU16(); err != nil {
			return e, err
		}

	case CpMethodHandle:
		kind, err := r.ReadU8()
		if err != nil {
			return e, err
		}
		e.RefKind = kind
		if e.RefIndex, err = r.ReadU16(); err != nil {
			return e, err
		}

	case CpMethodType:
		if e.DescriptorIndex, err = r.ReadU16(); err != nil {
			return e, err
		}

	case CpInvokeDynamic:
		if e.BootstrapMethodAttrIndex, err = r.ReadU16(); err != nil {
			return e, err
		}
		if e.NameAndTypeIndex, err = r.ReadU16(); err != nil {
			return e, err
		}

	case CpModule, CpPackage:
		if e.NameIndex, err = r.ReadU16(); err != nil {
			return e, err
		}

	default:
		return e, &UnknownCpTagError{Tag: tagByte}
	}

	return e, nil
}

func writeCpEntries(w *bio.Writer, entries []CpEntry) error {
	for _, e := range entries {
		if err := writeCpEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}

func writeCpEntry(w *bio.Writer, e CpEntry) error {
	if err := w.WriteU8(byte(e.Tag)); err != nil {
		return err
	}

	switch e.Tag {
	case CpUtf8:
		if err := w.WriteU16(uint16(len(e.Utf8Bytes))); err != nil {
			return err
		}
		return w.WriteBytes(e.Utf8Bytes)

	case CpInteger:
		return w.WriteI32(e.IntValue)

	case CpFloat:
		return w.WriteU32(e.FloatBits)

	case CpLong:
		return w.WriteBytes(e.LongBytes[:])

	case CpDouble:
		return w.WriteBytes(e.DoubleBytes[:])

	case CpClass:
		return w.WriteU16(e.NameIndex)

	case CpString:
		return w.WriteU16(e.StringIndex)

	case CpFieldRef, CpMethodRef, CpInterfaceMethodRef:
		if err := w.WriteU16(e.ClassIndex); err != nil {
			return err
		}
		return w.WriteU16(e.NameAndTypeIndex)

	case CpNameAndType:
		if err := w.WriteU16(e.NameIndex); err != nil {
			return err
		}
		return w.WriteU16(e.DescriptorIndex)

	case CpMethodHandle:
		if err := w.WriteU8(e.RefKind); err != nil {
			return err
		}
		return w.WriteU16(e.RefIndex)

	case CpMethodType:
		return w.WriteU16(e.DescriptorIndex)

	case CpInvokeDynamic:
		if err := w.WriteU16(e.BootstrapMethodAttrIndex); err != nil {
			return err
		}
		return w.WriteU16(e.NameAndTypeIndex)

	case CpModule, CpPackage:
		return w.WriteU16(e.NameIndex)

	default:
		return &UnknownCpTagError{Tag: byte(e.Tag)}
	}
}
