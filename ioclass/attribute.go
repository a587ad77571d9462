// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package ioclass

import "github.com/go-classfile/classfile/bio"

// AttributeInfo is the I/O form of one attribute_info record. Its
// payload is opaque at this layer; decoding it into a typed Attribute
// is package attribute's job.
type AttributeInfo struct {
	NameIndex uint16
	Length    uint32
	Info      []byte
}

// ReadAttributes reads count AttributeInfo records from r. It is exported
// so package attribute can decode the nested attribute list inside a
// Code attribute without duplicating the I/O-level grammar.
func ReadAttributes(r *bio.Reader, count uint16) ([]AttributeInfo, error) {
	attrs := make([]AttributeInfo, count)
	for i := range attrs {
		a, err := ReadAttribute(r)
		if err != nil {
			return nil, err
		}
		attrs[i] = a
	}
	return attrs, nil
}

// ReadAttribute reads a single AttributeInfo record from r.
func ReadAttribute(r *bio.Reader) (AttributeInfo, error) {
	var a AttributeInfo
	var err error
	if a.NameIndex, err = r.ReadU16(); err != nil {
		return a, err
	}
	if a.Length, err = r.ReadU32(); err != nil {
		return a, err
	}
	a.Info, err = r.ReadNBytes(int(a.Length))
	return a, err
}

// WriteAttributes writes attrs in order. It is exported so package
// attribute can re-serialize a Code attribute's nested attribute list.
func WriteAttributes(w *bio.Writer, attrs []AttributeInfo) error {
	for _, a := range attrs {
		if err := WriteAttribute(w, a); err != nil {
			return err
		}
	}
	return nil
}

// WriteAttribute writes a single AttributeInfo record.
func WriteAttribute(w *bio.Writer, a AttributeInfo) error {
	if err := w.WriteU16(a.NameIndex); err != nil {
		return err
	}
	if err := w.WriteU32(a.Length); err != nil {
		return err
	}
	return w.WriteBytes(a.Info)
}
