// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package ioclass implements the byte-faithful I/O model of a class file:
// structs and Read/Write methods that mirror the on-disk layout exactly,
// with untyped u16 indices into the constant pool. Nothing in this
// package resolves a cross-reference; that is the job of package cpool.
package ioclass

import (
	"errors"

	"github.com/go-classfile/classfile/bio"
)

// ClassFileMagic is the required leading 4 bytes of every class file.
const ClassFileMagic = 0xCAFEBABE

// ErrInvalidMagic is returned when the leading 4 bytes are not
// ClassFileMagic.
var ErrInvalidMagic = errors.New("ioclass: invalid magic number")

// ErrTrailingBytes is returned when a fixed-grammar byte region has
// unconsumed bytes left after the grammar accepts.
var ErrTrailingBytes = errors.New("ioclass: trailing bytes")

// ClassFile is the byte-faithful form of one class file, in file order.
type ClassFile struct {
	Magic      uint32
	MinorVer   uint16
	MajorVer   uint16
	CPCount    uint16
	CP         []CpEntry
	AccessFlags uint16
	ThisClass  uint16
	SuperClass uint16
	Interfaces []uint16
	Fields     []FieldInfo
	Methods    []MethodInfo
	Attributes []AttributeInfo
}

// Read parses a ClassFile from r, in exactly the order the format is
// laid out on disk.
func Read(r *bio.Reader) (*ClassFile, error) {
	magic, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != ClassFileMagic {
		return nil, ErrInvalidMagic
	}

	cf := &ClassFile{Magic: magic}

	if cf.MinorVer, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if cf.MajorVer, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if cf.CPCount, err = r.ReadU16(); err != nil {
		return nil, err
	}

	// cp_count - 1 entries are present; slot 0 is reserved and never
	// materialized. Long/Double entries additionally burn the slot that
	// follows them, which readCpEntries accounts for.
	cf.CP, err = readCpEntries(r, cf.CPCount)
	if err != nil {
		return nil, err
	}

	if cf.AccessFlags, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if cf.ThisClass, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if cf.SuperClass, err = r.ReadU16(); err != nil {
		return nil, err
	}

	ifaceCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	cf.Interfaces = make([]uint16, ifaceCount)
	for i := range cf.Interfaces {
		if cf.Interfaces[i], err = r.ReadU16(); err != nil {
			return nil, err
		}
	}

	fieldCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	cf.Fields = make([]FieldInfo, fieldCount)
	for i := range cf.Fields {
		fi, err := readFieldOrMethod(r)
		if err != nil {
			return nil, err
		}
		cf.Fields[i] = FieldInfo(fi)
	}

	methodCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	cf.Methods = make([]MethodInfo, methodCount)
	for i := range cf.Methods {
		mi, err := readFieldOrMethod(r)
		if err != nil {
			return nil, err
		}
		cf.Methods[i] = MethodInfo(mi)
	}

	attrCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	cf.Attributes, err = ReadAttributes(r, attrCount)
	if err != nil {
		return nil, err
	}

	return cf, nil
}

// Write emits cf back to w in file order. It echoes the stored CPCount
// and each attribute's stored Length rather than recomputing them, so a
// ClassFile built by hand whose CPCount or Length disagrees with its
// contents is written exactly as given. The interface, field, method and
// attribute counts are written from the lengths of their slices.
func (cf *ClassFile) Write(w *bio.Writer) error {
	if err := w.WriteU32(cf.Magic); err != nil {
		return err
	}
	if err := w.WriteU16(cf.MinorVer); err != nil {
		return err
	}
	if err := w.WriteU16(cf.MajorVer); err != nil {
		return err
	}
	if err := w.WriteU16(cf.CPCount); err != nil {
		return err
	}
	if err := writeCpEntries(w, cf.CP); err != nil {
		return err
	}
	if err := w.WriteU16(cf.AccessFlags); err != nil {
		return err
	}
	if err := w.WriteU16(cf.ThisClass); err != nil {
		return err
	}
	if err := w.WriteU16(cf.SuperClass); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(len(cf.Interfaces))); err != nil {
		return err
	}
	for _, idx := range cf.Interfaces {
		if err := w.WriteU16(idx); err != nil {
			return err
		}
	}
	if err := w.WriteU16(uint16(len(cf.Fields))); err != nil {
		return err
	}
	for _, f := range cf.Fields {
		if err := writeFieldOrMethod(w, fieldOrMethod(f)); err != nil {
			return err
		}
	}
	if err := w.WriteU16(uint16(len(cf.Methods))); err != nil {
		return err
	}
	for _, m := range cf.Methods {
		if err := writeFieldOrMethod(w, fieldOrMethod(m)); err != nil {
			return err
		}
	}
	if err := w.WriteU16(uint16(len(cf.Attributes))); err != nil {
		return err
	}
	return WriteAttributes(w, cf.Attributes)
}
