// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package classfile implements a reader, in-memory IR, and writer for
// JVM class files: the constant pool, fields, methods, and attributes
// that make up one compiled .class unit.
package classfile

import "fmt"

// Access and property flags shared by classes, fields, methods, and
// inner-class entries. Not every flag is meaningful in every context;
// callers interpret them per §4.1/§4.5/§4.6 of the class file format.
const (
	AccPublic       uint16 = 0x0001
	AccPrivate      uint16 = 0x0002
	AccProtected    uint16 = 0x0004
	AccStatic       uint16 = 0x0008
	AccFinal        uint16 = 0x0010
	AccSuper        uint16 = 0x0020
	AccSynchronized uint16 = 0x0020
	AccVolatile     uint16 = 0x0040
	AccBridge       uint16 = 0x0040
	AccTransient    uint16 = 0x0080
	AccVarargs      uint16 = 0x0080
	AccNative       uint16 = 0x0100
	AccInterface    uint16 = 0x0200
	AccAbstract     uint16 = 0x0400
	AccStrict       uint16 = 0x0800
	AccSynthetic    uint16 = 0x1000
	AccAnnotation   uint16 = 0x2000
	AccEnum         uint16 = 0x4000
	AccModule       uint16 = 0x8000
)

// ClassFileVersion is the (major, minor) version pair stored in every
// class file header. Two versions compare by major first, then minor,
// matching how the JVM itself decides whether it can load a class.
type ClassFileVersion struct {
	Major uint16
	Minor uint16
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than other.
func (v ClassFileVersion) Compare(other ClassFileVersion) int {
	switch {
	case v.Major != other.Major:
		if v.Major < other.Major {
			return -1
		}
		return 1
	case v.Minor != other.Minor:
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Less reports whether v is an older version than other.
func (v ClassFileVersion) Less(other ClassFileVersion) bool {
	return v.Compare(other) < 0
}

func (v ClassFileVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
