// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package cpool implements the two-phase, forward-reference-tolerant
// lift from the flat I/O constant pool (package ioclass) into a typed
// IR pool in which every cross-reference is resolved into a reference
// that bundles the original index with the resolved referent.
package cpool

// Utf8Ref bundles a constant-pool index with the decoded string it
// points to.
type Utf8Ref struct {
	Index uint16
	Value string
}

// ClassRef resolves a Class entry's name index into its Utf8Ref.
type ClassRef struct {
	Index uint16
	Name  *Utf8Ref
}

// NameAndTypeRef resolves a NameAndType entry's two indices.
type NameAndTypeRef struct {
	Index      uint16
	Name       *Utf8Ref
	Descriptor *Utf8Ref
}

// FieldRef resolves a FieldRef entry.
type FieldRef struct {
	Index       uint16
	Class       *ClassRef
	NameAndType *NameAndTypeRef
}

// MethodRef resolves a MethodRef entry.
type MethodRef struct {
	Index       uint16
	Class       *ClassRef
	NameAndType *NameAndTypeRef
}

// InterfaceMethodRef resolves an InterfaceMethodRef entry.
type InterfaceMethodRef struct {
	Index       uint16
	Class       *ClassRef
	NameAndType *NameAndTypeRef
}

// MethodHandleKind is the symbolic reference-kind byte (1..=9) of a
// MethodHandle entry.
type MethodHandleKind uint8

// Method handle reference kinds.
const (
	GetField MethodHandleKind = iota + 1
	GetStatic
	PutField
	PutStatic
	InvokeVirtual
	InvokeStatic
	InvokeSpecial
	NewInvokeSpecial
	InvokeInterface
)

func (k MethodHandleKind) String() string {
	names := [...]string{
		"GetField", "GetStatic", "PutField", "PutStatic",
		"InvokeVirtual", "InvokeStatic", "InvokeSpecial",
		"NewInvokeSpecial", "InvokeInterface",
	}
	if k >= 1 && int(k) <= len(names) {
		return names[k-1]
	}
	return "Unknown"
}

// MethodHandleRef resolves a MethodHandle entry. Exactly one of Field,
// Method, or InterfaceMethod is set, matching the actual kind of the
// resolved reference_index entry.
type MethodHandleRef struct {
	Index           uint16
	Kind            MethodHandleKind
	Field           *FieldRef
	Method          *MethodRef
	InterfaceMethod *InterfaceMethodRef
}

// InvokeDynamicRef resolves an InvokeDynamic entry.
type InvokeDynamicRef struct {
	Index                    uint16
	BootstrapMethodAttrIndex uint16
	NameAndType              *NameAndTypeRef
}

// ModuleRef resolves a Module entry.
type ModuleRef struct {
	Index uint16
	Name  *Utf8Ref
}

// PackageRef resolves a Package entry.
type PackageRef struct {
	Index uint16
	Name  *Utf8Ref
}

// ConstValueKind discriminates the scalar kind held by a ConstValueRef.
type ConstValueKind int

// ConstValueRef scalar kinds.
const (
	ConstInt ConstValueKind = iota
	ConstFloat
	ConstLong
	ConstDouble
	ConstString
)

// ConstValueRef is a tagged scalar used by the ConstantValue attribute:
// an Int, Float, Long, Double, or String constant-pool entry. Long and
// Double keep their raw big-endian bytes rather than a normalized
// int64/float64 to avoid renormalizing a signalling NaN on a later
// write.
type ConstValueRef struct {
	Index       uint16
	Kind        ConstValueKind
	IntValue    int32
	FloatBits   uint32
	LongBytes   [8]byte
	DoubleBytes [8]byte
	StringValue *Utf8Ref
}
