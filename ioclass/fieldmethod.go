// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package ioclass

import "github.com/go-classfile/classfile/bio"

// fieldOrMethod is the shared shape of FieldInfo and MethodInfo: they
// differ only in which attribute names are meaningful, never in layout.
type fieldOrMethod struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

// FieldInfo is the I/O form of one field_info record.
type FieldInfo fieldOrMethod

// MethodInfo is the I/O form of one method_info record.
type MethodInfo fieldOrMethod

func readFieldOrMethod(r *bio.Reader) (fieldOrMethod, error) {
	var fm fieldOrMethod
	var err error
	if fm.AccessFlags, err = r.ReadU16(); err != nil {
		return fm, err
	}
	if fm.NameIndex, err = r.ReadU16(); err != nil {
		return fm, err
	}
	if fm.DescriptorIndex, err = r.ReadU16(); err != nil {
		return fm, err
	}
	attrCount, err := r.ReadU16()
	if err != nil {
		return fm, err
	}
	fm.Attributes, err = ReadAttributes(r, attrCount)
	return fm, err
}

func writeFieldOrMethod(w *bio.Writer, fm fieldOrMethod) error {
	if err := w.WriteU16(fm.AccessFlags); err != nil {
		return err
	}
	if err := w.WriteU16(fm.NameIndex); err != nil {
		return err
	}
	if err := w.WriteU16(fm.DescriptorIndex); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(len(fm.Attributes))); err != nil {
		return err
	}
	return WriteAttributes(w, fm.Attributes)
}
