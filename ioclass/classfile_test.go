// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package ioclass

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-classfile/classfile/bio"
)

// minimalClassBytes is scenario E1/E2 from the specification: magic,
// minor=0, major=52, cp_count=1 (only the reserved slot), zero flags,
// zero this/super, and empty interface/field/method/attribute lists.
func minimalClassBytes() []byte {
	return []byte{
		0xCA, 0xFE, 0xBA, 0xBE, // magic
		0x00, 0x00, // minor
		0x00, 0x34, // major
		0x00, 0x01, // cp_count = 1
		0x00, 0x00, // access_flags
		0x00, 0x00, // this_class
		0x00, 0x00, // super_class
		0x00, 0x00, // interfaces_count
		0x00, 0x00, // fields_count
		0x00, 0x00, // methods_count
		0x00, 0x00, // attributes_count
	}
}

func TestReadMinimalClass(t *testing.T) {
	cf, err := Read(bio.NewReader(minimalClassBytes()))
	if err != nil {
		t.Fatalf("Read() err = %v", err)
	}
	if cf.Magic != ClassFileMagic {
		t.Errorf("Magic = %x", cf.Magic)
	}
	if cf.MajorVer != 52 {
		t.Errorf("MajorVer = %d, want 52", cf.MajorVer)
	}
	if cf.CPCount != 1 {
		t.Errorf("CPCount = %d, want 1", cf.CPCount)
	}
	if len(cf.CP) != 0 {
		t.Errorf("len(CP) = %d, want 0", len(cf.CP))
	}
}

func TestRoundTripMinimalClass(t *testing.T) {
	original := minimalClassBytes()
	cf, err := Read(bio.NewReader(original))
	if err != nil {
		t.Fatalf("Read() err = %v", err)
	}

	var buf bytes.Buffer
	if err := cf.Write(bio.NewWriter(&buf)); err != nil {
		t.Fatalf("Write() err = %v", err)
	}

	if !bytes.Equal(buf.Bytes(), original) {
		t.Fatalf("round trip mismatch:\n got %x\nwant %x", buf.Bytes(), original)
	}
}

func TestReadInvalidMagic(t *testing.T) {
	data := append([]byte{0x00, 0x00, 0x00, 0x00}, minimalClassBytes()[4:]...)
	_, err := Read(bio.NewReader(data))
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("err = %v, want ErrInvalidMagic", err)
	}
}

func TestRoundTripWithLongAndUtf8(t *testing.T) {
	// Scenario E4: a pool containing [Long, Utf8("x")] with cp_count=4
	// (the Long consumes slots 1 and 2; the Utf8 lands at logical slot 3).
	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(w.WriteU32(ClassFileMagic))
	must(w.WriteU16(0))
	must(w.WriteU16(52))
	must(w.WriteU16(4)) // cp_count
	must(w.WriteU8(byte(CpLong)))
	must(w.WriteBytes(make([]byte, 8)))
	must(w.WriteU8(byte(CpUtf8)))
	must(w.WriteU16(1))
	must(w.WriteBytes([]byte("x")))
	must(w.WriteU16(0)) // access_flags
	must(w.WriteU16(0)) // this_class
	must(w.WriteU16(0)) // super_class
	must(w.WriteU16(0)) // interfaces
	must(w.WriteU16(0)) // fields
	must(w.WriteU16(0)) // methods
	must(w.WriteU16(0)) // attributes

	original := append([]byte(nil), buf.Bytes()...)

	cf, err := Read(bio.NewReader(original))
	if err != nil {
		t.Fatalf("Read() err = %v", err)
	}
	if len(cf.CP) != 2 {
		t.Fatalf("len(CP) = %d, want 2 physical entries", len(cf.CP))
	}
	if cf.CP[0].Tag != CpLong {
		t.Fatalf("CP[0].Tag = %v, want Long", cf.CP[0].Tag)
	}
	if cf.CP[1].Tag != CpUtf8 || string(cf.CP[1].Utf8Bytes) != "x" {
		t.Fatalf("CP[1] = %+v", cf.CP[1])
	}

	var rewritten bytes.Buffer
	if err := cf.Write(bio.NewWriter(&rewritten)); err != nil {
		t.Fatalf("Write() err = %v", err)
	}
	if !bytes.Equal(rewritten.Bytes(), original) {
		t.Fatalf("round trip mismatch:\n got %x\nwant %x", rewritten.Bytes(), original)
	}
}

func TestUnknownCpTag(t *testing.T) {
	data := append(minimalClassBytes()[:10], 0x02) // tag 2 is not a known kind
	data = append(data, minimalClassBytes()[10:]...)
	// cp_count must be 2 for the reader to attempt parsing one entry.
	data[9] = 0x02
	_, err := Read(bio.NewReader(data))
	var unk *UnknownCpTagError
	if !errors.As(err, &unk) {
		t.Fatalf("err = %v, want *UnknownCpTagError", err)
	}
	if unk.Tag != 0x02 {
		t.Fatalf("Tag = %d, want 2", unk.Tag)
	}
}
