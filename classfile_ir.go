// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"github.com/go-classfile/classfile/attribute"
	"github.com/go-classfile/classfile/cpool"
	"github.com/go-classfile/classfile/ioclass"
	"github.com/go-classfile/classfile/mutf8"
)

// IRClassFile is the fully resolved, cross-referenced form of one class
// file: every constant-pool index has been followed to the Ref/Entry it
// names, and every attribute has been decoded into its typed shape.
//
// SuperClass is nil exactly when the raw super_class index is 0, which
// is only legal for java/lang/Object. Treating that slot as a reference
// to logical index 1 (the common off-by-one) would silently resolve to
// the wrong entry.
type IRClassFile struct {
	Magic      uint32
	Version    ClassFileVersion
	CP         *cpool.Pool
	AccessFlags uint16
	ThisClass  *cpool.ClassRef
	SuperClass *cpool.ClassRef
	Interfaces []*cpool.ClassRef
	Fields     []*IRFieldInfo
	Methods    []*IRMethodInfo
	Attributes []*attribute.Attribute
}

// IRFieldInfo is the resolved form of one field_info record.
type IRFieldInfo struct {
	AccessFlags uint16
	Name        *cpool.Utf8Ref
	Descriptor  *cpool.Utf8Ref
	Attributes  []*attribute.Attribute
}

// IRMethodInfo is the resolved form of one method_info record.
type IRMethodInfo struct {
	AccessFlags uint16
	Name        *cpool.Utf8Ref
	Descriptor  *cpool.Utf8Ref
	Attributes  []*attribute.Attribute
}

// FromIO lifts the byte-faithful I/O form of a class file into its IR,
// resolving the constant pool once and reusing it to decode every
// attribute list in the file. lenient controls whether an unrecognized
// attribute name is a hard error or is kept as an opaque Unrecognized
// attribute.
func FromIO(cf *ioclass.ClassFile, lenient bool) (*IRClassFile, error) {
	pool, err := cpool.Lift(cf.CP, cf.CPCount)
	if err != nil {
		return nil, err
	}

	ir := &IRClassFile{
		Magic:       cf.Magic,
		Version:     ClassFileVersion{Major: cf.MajorVer, Minor: cf.MinorVer},
		CP:          pool,
		AccessFlags: cf.AccessFlags,
	}

	if ir.ThisClass, err = pool.ClassAt(cf.ThisClass); err != nil {
		return nil, err
	}

	if cf.SuperClass != 0 {
		if ir.SuperClass, err = pool.ClassAt(cf.SuperClass); err != nil {
			return nil, err
		}
	}

	ir.Interfaces = make([]*cpool.ClassRef, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		if ir.Interfaces[i], err = pool.ClassAt(idx); err != nil {
			return nil, err
		}
	}

	ir.Fields = make([]*IRFieldInfo, len(cf.Fields))
	for i, f := range cf.Fields {
		fi, err := fromIOFieldOrMethod(pool, f.AccessFlags, f.NameIndex, f.DescriptorIndex, f.Attributes, lenient)
		if err != nil {
			return nil, err
		}
		ir.Fields[i] = (*IRFieldInfo)(fi)
	}

	ir.Methods = make([]*IRMethodInfo, len(cf.Methods))
	for i, m := range cf.Methods {
		mi, err := fromIOFieldOrMethod(pool, m.AccessFlags, m.NameIndex, m.DescriptorIndex, m.Attributes, lenient)
		if err != nil {
			return nil, err
		}
		ir.Methods[i] = (*IRMethodInfo)(mi)
	}

	if ir.Attributes, err = attribute.DecodeAll(pool, cf.Attributes, lenient); err != nil {
		return nil, err
	}

	return ir, nil
}

// irFieldOrMethod is the shared shape FromIO builds before the caller
// retags it as *IRFieldInfo or *IRMethodInfo.
type irFieldOrMethod struct {
	AccessFlags uint16
	Name        *cpool.Utf8Ref
	Descriptor  *cpool.Utf8Ref
	Attributes  []*attribute.Attribute
}

func fromIOFieldOrMethod(pool *cpool.Pool, accessFlags, nameIndex, descIndex uint16, raws []ioclass.AttributeInfo, lenient bool) (*irFieldOrMethod, error) {
	name, err := pool.Utf8At(nameIndex)
	if err != nil {
		return nil, err
	}
	desc, err := pool.Utf8At(descIndex)
	if err != nil {
		return nil, err
	}
	attrs, err := attribute.DecodeAll(pool, raws, lenient)
	if err != nil {
		return nil, err
	}
	return &irFieldOrMethod{
		AccessFlags: accessFlags,
		Name:        name,
		Descriptor:  desc,
		Attributes:  attrs,
	}, nil
}

// ToIO lowers the IR back to its byte-faithful form, the inverse of
// FromIO. Every cross-reference was already resolved to a concrete
// Index at lift time, so lowering never needs to re-consult the pool
// beyond re-deriving its physical layout from ir.CP.
func (ir *IRClassFile) ToIO() (*ioclass.ClassFile, error) {
	cf := &ioclass.ClassFile{
		Magic:       ir.Magic,
		MinorVer:    ir.Version.Minor,
		MajorVer:    ir.Version.Major,
		CPCount:     uint16(len(ir.CP.Entries) + 1),
		AccessFlags: ir.AccessFlags,
		ThisClass:   ir.ThisClass.Index,
	}

	if ir.SuperClass != nil {
		cf.SuperClass = ir.SuperClass.Index
	}

	cp, err := lowerPool(ir.CP)
	if err != nil {
		return nil, err
	}
	cf.CP = cp

	cf.Interfaces = make([]uint16, len(ir.Interfaces))
	for i, c := range ir.Interfaces {
		cf.Interfaces[i] = c.Index
	}

	cf.Fields = make([]ioclass.FieldInfo, len(ir.Fields))
	for i, f := range ir.Fields {
		attrs, err := attribute.EncodeAll(f.Attributes)
		if err != nil {
			return nil, err
		}
		cf.Fields[i] = ioclass.FieldInfo{
			AccessFlags:     f.AccessFlags,
			NameIndex:       f.Name.Index,
			DescriptorIndex: f.Descriptor.Index,
			Attributes:      attrs,
		}
	}

	cf.Methods = make([]ioclass.MethodInfo, len(ir.Methods))
	for i, m := range ir.Methods {
		attrs, err := attribute.EncodeAll(m.Attributes)
		if err != nil {
			return nil, err
		}
		cf.Methods[i] = ioclass.MethodInfo{
			AccessFlags:     m.AccessFlags,
			NameIndex:       m.Name.Index,
			DescriptorIndex: m.Descriptor.Index,
			Attributes:      attrs,
		}
	}

	if cf.Attributes, err = attribute.EncodeAll(ir.Attributes); err != nil {
		return nil, err
	}

	return cf, nil
}

// lowerPool re-derives the physical constant-pool sequence from the
// logical entries, dropping the Reserved placeholders Lift inserted
// after each Long/Double: the inverse of cpool.Lift's slot accounting.
func lowerPool(pool *cpool.Pool) ([]ioclass.CpEntry, error) {
	physical := make([]ioclass.CpEntry, 0, len(pool.Entries))
	for _, e := range pool.Entries {
		if e.Kind == cpool.KindReserved {
			continue
		}
		ce, err := lowerEntry(e)
		if err != nil {
			return nil, err
		}
		physical = append(physical, ce)
	}
	return physical, nil
}

func lowerEntry(e *cpool.Entry) (ioclass.CpEntry, error) {
	switch e.Kind {
	case cpool.KindUtf8:
		return ioclass.CpEntry{Tag: ioclass.CpUtf8, Utf8Bytes: mutf8.EncodeMUTF8(e.Utf8.Value)}, nil

	case cpool.KindInteger:
		return ioclass.CpEntry{Tag: ioclass.CpInteger, IntValue: e.Int}, nil

	case cpool.KindFloat:
		return ioclass.CpEntry{Tag: ioclass.CpFloat, FloatBits: e.FloatBits}, nil

	case cpool.KindLong:
		return ioclass.CpEntry{Tag: ioclass.CpLong, LongBytes: e.LongBytes}, nil

	case cpool.KindDouble:
		return ioclass.CpEntry{Tag: ioclass.CpDouble, DoubleBytes: e.DoubleBytes}, nil

	case cpool.KindClass:
		return ioclass.CpEntry{Tag: ioclass.CpClass, NameIndex: e.Class.Name.Index}, nil

	case cpool.KindString:
		return ioclass.CpEntry{Tag: ioclass.CpString, StringIndex: e.Str.Index}, nil

	case cpool.KindFieldRef:
		return ioclass.CpEntry{
			Tag:              ioclass.CpFieldRef,
			ClassIndex:       e.Field.Class.Index,
			NameAndTypeIndex: e.Field.NameAndType.Index,
		}, nil

	case cpool.KindMethodRef:
		return ioclass.CpEntry{
			Tag:              ioclass.CpMethodRef,
			ClassIndex:       e.Method.Class.Index,
			NameAndTypeIndex: e.Method.NameAndType.Index,
		}, nil

	case cpool.KindInterfaceMethodRef:
		return ioclass.CpEntry{
			Tag:              ioclass.CpInterfaceMethodRef,
			ClassIndex:       e.InterfaceMethod.Class.Index,
			NameAndTypeIndex: e.InterfaceMethod.NameAndType.Index,
		}, nil

	case cpool.KindNameAndType:
		return ioclass.CpEntry{
			Tag:             ioclass.CpNameAndType,
			NameIndex:       e.NameAndType.Name.Index,
			DescriptorIndex: e.NameAndType.Descriptor.Index,
		}, nil

	case cpool.KindMethodHandle:
		return ioclass.CpEntry{
			Tag:      ioclass.CpMethodHandle,
			RefKind:  uint8(e.MethodHandle.Kind),
			RefIndex: methodHandleTargetIndex(e.MethodHandle),
		}, nil

	case cpool.KindMethodType:
		return ioclass.CpEntry{Tag: ioclass.CpMethodType, DescriptorIndex: e.MethodType.Index}, nil

	case cpool.KindInvokeDynamic:
		return ioclass.CpEntry{
			Tag:                      ioclass.CpInvokeDynamic,
			BootstrapMethodAttrIndex: e.InvokeDynamic.BootstrapMethodAttrIndex,
			NameAndTypeIndex:         e.InvokeDynamic.NameAndType.Index,
		}, nil

	case cpool.KindModule:
		return ioclass.CpEntry{Tag: ioclass.CpModule, NameIndex: e.Module.Name.Index}, nil

	case cpool.KindPackage:
		return ioclass.CpEntry{Tag: ioclass.CpPackage, NameIndex: e.Package.Name.Index}, nil

	default:
		return ioclass.CpEntry{}, &ioclass.UnknownCpTagError{Tag: byte(e.Kind)}
	}
}

// methodHandleTargetIndex returns the constant-pool index of the
// method handle's resolved target: whichever of its FieldRef, MethodRef
// or InterfaceMethodRef Lift set.
func methodHandleTargetIndex(h *cpool.MethodHandleRef) uint16 {
	switch {
	case h.Field != nil:
		return h.Field.Index
	case h.InterfaceMethod != nil:
		return h.InterfaceMethod.Index
	default:
		return h.Method.Index
	}
}
