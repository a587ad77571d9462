// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cpool

import (
	"fmt"

	"github.com/go-classfile/classfile/ioclass"
	"github.com/go-classfile/classfile/mutf8"
)

// EntryKind discriminates the sixteen live constant-pool entry kinds
// plus the synthetic Reserved placeholder that occupies the slot after
// a Long or Double.
type EntryKind int

// Entry kinds.
const (
	KindReserved EntryKind = iota
	KindUtf8
	KindInteger
	KindFloat
	KindLong
	KindDouble
	KindClass
	KindString
	KindFieldRef
	KindMethodRef
	KindInterfaceMethodRef
	KindNameAndType
	KindMethodHandle
	KindMethodType
	KindInvokeDynamic
	KindModule
	KindPackage
)

func (k EntryKind) String() string {
	names := [...]string{
		"Reserved", "Utf8", "Integer", "Float", "Long", "Double",
		"Class", "String", "FieldRef", "MethodRef", "InterfaceMethodRef",
		"NameAndType", "MethodHandle", "MethodType", "InvokeDynamic",
		"Module", "Package",
	}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("EntryKind(%d)", int(k))
}

// Entry is one logical constant-pool slot after lifting. Exactly one of
// the kind-specific fields is populated, selected by Kind. A Reserved
// entry carries no payload: it exists only so that logical index n+1
// stays addressable (and invalid to use directly) after a Long or
// Double at index n.
type Entry struct {
	Kind  EntryKind
	Index uint16

	Utf8            *Utf8Ref
	Int             int32
	FloatBits       uint32
	LongBytes       [8]byte
	DoubleBytes     [8]byte
	Class           *ClassRef
	Str             *Utf8Ref
	Field           *FieldRef
	Method          *MethodRef
	InterfaceMethod *InterfaceMethodRef
	NameAndType     *NameAndTypeRef
	MethodHandle    *MethodHandleRef
	MethodType      *Utf8Ref
	InvokeDynamic   *InvokeDynamicRef
	Module          *ModuleRef
	Package         *PackageRef
}

// AsFloat32 decodes a Float entry's raw bits.
func (e *Entry) AsFloat32() float32 { return ioclassFloat32(e.FloatBits) }

// AsInt64 decodes a Long entry's raw bytes as a big-endian integer.
func (e *Entry) AsInt64() int64 { return ioclassInt64(e.LongBytes) }

// AsFloat64 decodes a Double entry's raw bytes as an IEEE-754 value.
func (e *Entry) AsFloat64() float64 { return ioclassFloat64(e.DoubleBytes) }

// Pool is the fully resolved constant pool of one class file. Entries[i]
// holds logical index i+1; logical index 0 is never materialized, same
// as the on-disk format.
type Pool struct {
	Entries []*Entry
}

// At returns the entry at the given 1-based logical index.
func (p *Pool) At(index uint16) (*Entry, error) {
	if index == 0 || int(index) > len(p.Entries) {
		return nil, &IndexOutOfRangeError{Index: index, Length: len(p.Entries)}
	}
	return p.Entries[index-1], nil
}

// Utf8At resolves index and requires it to name a Utf8 entry.
func (p *Pool) Utf8At(index uint16) (*Utf8Ref, error) {
	e, err := p.At(index)
	if err != nil {
		return nil, err
	}
	if e.Kind != KindUtf8 {
		return nil, &WrongReferentError{Index: index, Expected: "Utf8", Got: e.Kind.String()}
	}
	return e.Utf8, nil
}

// ClassAt resolves index and requires it to name a Class entry.
func (p *Pool) ClassAt(index uint16) (*ClassRef, error) {
	e, err := p.At(index)
	if err != nil {
		return nil, err
	}
	if e.Kind != KindClass {
		return nil, &WrongReferentError{Index: index, Expected: "Class", Got: e.Kind.String()}
	}
	return e.Class, nil
}

// ConstValueAt resolves index into a ConstValueRef, as used by the
// ConstantValue attribute. index must name an Integer, Float, Long,
// Double, or String entry.
func (p *Pool) ConstValueAt(index uint16) (*ConstValueRef, error) {
	e, err := p.At(index)
	if err != nil {
		return nil, err
	}
	switch e.Kind {
	case KindInteger:
		return &ConstValueRef{Index: index, Kind: ConstInt, IntValue: e.Int}, nil
	case KindFloat:
		return &ConstValueRef{Index: index, Kind: ConstFloat, FloatBits: e.FloatBits}, nil
	case KindLong:
		return &ConstValueRef{Index: index, Kind: ConstLong, LongBytes: e.LongBytes}, nil
	case KindDouble:
		return &ConstValueRef{Index: index, Kind: ConstDouble, DoubleBytes: e.DoubleBytes}, nil
	case KindString:
		return &ConstValueRef{Index: index, Kind: ConstString, StringValue: e.Str}, nil
	default:
		return nil, &WrongReferentError{Index: index, Expected: "Integer, Float, Long, Double, or String", Got: e.Kind.String()}
	}
}

// Lift walks the flat physical entries produced by ioclass.Read and
// resolves every cross-reference into a typed Entry, tolerating forward
// references (an entry may reference a pool slot that appears later in
// the physical sequence). cpCount is the class file's declared
// constant_pool_count; physical must consume exactly cpCount-1 logical
// slots once Long/Double double-occupancy is accounted for.
func Lift(physical []ioclass.CpEntry, cpCount uint16) (*Pool, error) {
	logicalLen := int(cpCount) - 1
	if logicalLen < 0 {
		logicalLen = 0
	}

	logicalToPhysical := make([]int, logicalLen)
	for i := range logicalToPhysical {
		logicalToPhysical[i] = -1
	}

	logical := 0
	for physIdx, e := range physical {
		if logical >= logicalLen {
			return nil, ErrPoolLengthMismatch
		}
		logicalToPhysical[logical] = physIdx
		logical++
		if e.Tag == ioclass.CpLong || e.Tag == ioclass.CpDouble {
			logical++
		}
	}
	if logical != logicalLen {
		return nil, ErrPoolLengthMismatch
	}

	resolved := make([]*Entry, logicalLen)
	visiting := make([]bool, logicalLen)

	var resolve func(index uint16) (*Entry, error)
	resolve = func(index uint16) (*Entry, error) {
		if index == 0 || int(index) > logicalLen {
			return nil, &IndexOutOfRangeError{Index: index, Length: logicalLen}
		}
		i := int(index) - 1
		if resolved[i] != nil {
			return resolved[i], nil
		}
		if visiting[i] {
			return nil, ErrCyclicReference
		}
		visiting[i] = true

		physIdx := logicalToPhysical[i]
		var entry *Entry
		var err error
		if physIdx == -1 {
			entry = &Entry{Kind: KindReserved, Index: index}
		} else {
			entry, err = buildEntry(index, physical[physIdx], resolve)
		}
		visiting[i] = false
		if err != nil {
			return nil, err
		}
		resolved[i] = entry
		return entry, nil
	}

	for i := 1; i <= logicalLen; i++ {
		if _, err := resolve(uint16(i)); err != nil {
			return nil, err
		}
	}

	return &Pool{Entries: resolved}, nil
}

func buildEntry(index uint16, raw ioclass.CpEntry, resolve func(uint16) (*Entry, error)) (*Entry, error) {
	switch raw.Tag {
	case ioclass.CpUtf8:
		s, err := mutf8.DecodeMUTF8(raw.Utf8Bytes)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindUtf8, Index: index, Utf8: &Utf8Ref{Index: index, Value: s}}, nil

	case ioclass.CpInteger:
		return &Entry{Kind: KindInteger, Index: index, Int: raw.IntValue}, nil

	case ioclass.CpFloat:
		return &Entry{Kind: KindFloat, Index: index, FloatBits: raw.FloatBits}, nil

	case ioclass.CpLong:
		return &Entry{Kind: KindLong, Index: index, LongBytes: raw.LongBytes}, nil

	case ioclass.CpDouble:
		return &Entry{Kind: KindDouble, Index: index, DoubleBytes: raw.DoubleBytes}, nil

	case ioclass.CpClass:
		name, err := resolveUtf8(resolve, raw.NameIndex)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindClass, Index: index, Class: &ClassRef{Index: index, Name: name}}, nil

	case ioclass.CpString:
		s, err := resolveUtf8(resolve, raw.StringIndex)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindString, Index: index, Str: s}, nil

	case ioclass.CpFieldRef, ioclass.CpMethodRef, ioclass.CpInterfaceMethodRef:
		class, err := resolveClass(resolve, raw.ClassIndex)
		if err != nil {
			return nil, err
		}
		nt, err := resolveNameAndType(resolve, raw.NameAndTypeIndex)
		if err != nil {
			return nil, err
		}
		switch raw.Tag {
		case ioclass.CpFieldRef:
			return &Entry{Kind: KindFieldRef, Index: index, Field: &FieldRef{Index: index, Class: class, NameAndType: nt}}, nil
		case ioclass.CpMethodRef:
			return &Entry{Kind: KindMethodRef, Index: index, Method: &MethodRef{Index: index, Class: class, NameAndType: nt}}, nil
		default:
			return &Entry{Kind: KindInterfaceMethodRef, Index: index, InterfaceMethod: &InterfaceMethodRef{Index: index, Class: class, NameAndType: nt}}, nil
		}

	case ioclass.CpNameAndType:
		name, err := resolveUtf8(resolve, raw.NameIndex)
		if err != nil {
			return nil, err
		}
		desc, err := resolveUtf8(resolve, raw.DescriptorIndex)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindNameAndType, Index: index, NameAndType: &NameAndTypeRef{Index: index, Name: name, Descriptor: desc}}, nil

	case ioclass.CpMethodHandle:
		target, err := resolve(raw.RefIndex)
		if err != nil {
			return nil, err
		}
		mh := &MethodHandleRef{Index: index, Kind: MethodHandleKind(raw.RefKind)}
		switch target.Kind {
		case KindFieldRef:
			mh.Field = target.Field
		case KindMethodRef:
			mh.Method = target.Method
		case KindInterfaceMethodRef:
			mh.InterfaceMethod = target.InterfaceMethod
		default:
			return nil, &WrongReferentError{Index: raw.RefIndex, Expected: "FieldRef, MethodRef, or InterfaceMethodRef", Got: target.Kind.String()}
		}
		return &Entry{Kind: KindMethodHandle, Index: index, MethodHandle: mh}, nil

	case ioclass.CpMethodType:
		desc, err := resolveUtf8(resolve, raw.DescriptorIndex)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindMethodType, Index: index, MethodType: desc}, nil

	case ioclass.CpInvokeDynamic:
		nt, err := resolveNameAndType(resolve, raw.NameAndTypeIndex)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindInvokeDynamic, Index: index, InvokeDynamic: &InvokeDynamicRef{
			Index:                    index,
			BootstrapMethodAttrIndex: raw.BootstrapMethodAttrIndex,
			NameAndType:              nt,
		}}, nil

	case ioclass.CpModule:
		name, err := resolveUtf8(resolve, raw.NameIndex)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindModule, Index: index, Module: &ModuleRef{Index: index, Name: name}}, nil

	case ioclass.CpPackage:
		name, err := resolveUtf8(resolve, raw.NameIndex)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindPackage, Index: index, Package: &PackageRef{Index: index, Name: name}}, nil

	default:
		return nil, &ioclass.UnknownCpTagError{Tag: byte(raw.Tag)}
	}
}

func resolveUtf8(resolve func(uint16) (*Entry, error), index uint16) (*Utf8Ref, error) {
	e, err := resolve(index)
	if err != nil {
		return nil, err
	}
	if e.Kind != KindUtf8 {
		return nil, &WrongReferentError{Index: index, Expected: "Utf8", Got: e.Kind.String()}
	}
	return e.Utf8, nil
}

func resolveClass(resolve func(uint16) (*Entry, error), index uint16) (*ClassRef, error) {
	e, err := resolve(index)
	if err != nil {
		return nil, err
	}
	if e.Kind != KindClass {
		return nil, &WrongReferentError{Index: index, Expected: "Class", Got: e.Kind.String()}
	}
	return e.Class, nil
}

func resolveNameAndType(resolve func(uint16) (*Entry, error), index uint16) (*NameAndTypeRef, error) {
	e, err := resolve(index)
	if err != nil {
		return nil, err
	}
	if e.Kind != KindNameAndType {
		return nil, &WrongReferentError{Index: index, Expected: "NameAndType", Got: e.Kind.String()}
	}
	return e.NameAndType, nil
}
