// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"testing"

	"github.com/go-classfile/classfile/bio"
	"github.com/go-classfile/classfile/ioclass"
)

func encodeObjectClass(t *testing.T) []byte {
	t.Helper()
	cf := &ioclass.ClassFile{
		Magic:    ioclass.ClassFileMagic,
		MinorVer: 0,
		MajorVer: 61,
		CPCount:  3,
		CP: []ioclass.CpEntry{
			{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("java/lang/Object")},
			{Tag: ioclass.CpClass, NameIndex: 1},
		},
		AccessFlags: AccPublic | AccSuper,
		ThisClass:   2,
		SuperClass:  0,
	}
	var buf bytes.Buffer
	if err := cf.Write(bio.NewWriter(&buf)); err != nil {
		t.Fatalf("Write() err = %v", err)
	}
	return buf.Bytes()
}

func TestNewBytesParse(t *testing.T) {
	f, err := NewBytes(encodeObjectClass(t), nil)
	if err != nil {
		t.Fatalf("NewBytes() err = %v", err)
	}
	if err := f.Parse(); err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	if f.IR.ThisClass.Name.Value != "java/lang/Object" {
		t.Fatalf("ThisClass.Name.Value = %q", f.IR.ThisClass.Name.Value)
	}
	if f.IR.SuperClass != nil {
		t.Fatalf("SuperClass = %+v, want nil", f.IR.SuperClass)
	}
}

func TestParseFileTooSmall(t *testing.T) {
	f, err := NewBytes([]byte{0xCA, 0xFE}, nil)
	if err != nil {
		t.Fatalf("NewBytes() err = %v", err)
	}
	if err := f.Parse(); err != ErrFileTooSmall {
		t.Fatalf("Parse() err = %v, want ErrFileTooSmall", err)
	}
}

func TestParsePoolTooLarge(t *testing.T) {
	data := encodeObjectClass(t)
	f, err := NewBytes(data, &Options{MaxPoolEntries: 1})
	if err != nil {
		t.Fatalf("NewBytes() err = %v", err)
	}
	if err := f.Parse(); err != ErrPoolTooLarge {
		t.Fatalf("Parse() err = %v, want ErrPoolTooLarge", err)
	}
}

func TestParseLenientAnomalies(t *testing.T) {
	cf := &ioclass.ClassFile{
		Magic:    ioclass.ClassFileMagic,
		MinorVer: 0,
		MajorVer: 61,
		CPCount:  4,
		CP: []ioclass.CpEntry{
			{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("java/lang/Object")}, // 1
			{Tag: ioclass.CpClass, NameIndex: 1},                        // 2
			{Tag: ioclass.CpUtf8, Utf8Bytes: []byte("NotARealAttribute")}, // 3
		},
		AccessFlags: AccPublic | AccSuper,
		ThisClass:   2,
		SuperClass:  0,
		Attributes: []ioclass.AttributeInfo{
			{NameIndex: 3, Length: 2, Info: []byte{1, 2}},
		},
	}
	var buf bytes.Buffer
	if err := cf.Write(bio.NewWriter(&buf)); err != nil {
		t.Fatalf("Write() err = %v", err)
	}

	f, err := NewBytes(buf.Bytes(), &Options{Lenient: true})
	if err != nil {
		t.Fatalf("NewBytes() err = %v", err)
	}
	if err := f.Parse(); err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	if len(f.Anomalies) != 1 {
		t.Fatalf("Anomalies = %v, want 1 entry", f.Anomalies)
	}
}
