// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package attribute implements recursive-descent decoding of the opaque
// attribute_info byte payloads into typed Attribute values, dispatched
// by the UTF-8 name an attribute references from the constant pool.
package attribute

import "github.com/go-classfile/classfile/cpool"

// Kind discriminates which fields of an Attribute are meaningful.
type Kind int

// Attribute kinds.
const (
	KindConstantValue Kind = iota
	KindCode
	KindStackMapTable
	KindExceptions
	KindInnerClasses
	KindEnclosingMethod
	KindSynthetic
	KindDeprecated
	KindSignature
	KindSourceFile
	KindLineNumberTable
	KindNestMembers
	KindNestHost
	KindMethodParameters
	KindRuntimeVisibleAnnotations
	KindRuntimeInvisibleAnnotations
	KindRuntimeVisibleParameterAnnotations
	KindRuntimeInvisibleParameterAnnotations
	KindAnnotationDefault
	KindBootstrapMethods
	KindUnrecognized
)

func (k Kind) String() string {
	names := [...]string{
		"ConstantValue", "Code", "StackMapTable", "Exceptions",
		"InnerClasses", "EnclosingMethod", "Synthetic", "Deprecated",
		"Signature", "SourceFile", "LineNumberTable", "NestMembers",
		"NestHost", "MethodParameters", "RuntimeVisibleAnnotations",
		"RuntimeInvisibleAnnotations", "RuntimeVisibleParameterAnnotations",
		"RuntimeInvisibleParameterAnnotations", "AnnotationDefault",
		"BootstrapMethods", "Unrecognized",
	}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "Unrecognized"
}

// VerificationType is one verification_type_info entry of a stack-map
// frame. Tag 7 (Object) additionally carries CPIndex; tag 8
// (Uninitialized) carries Offset.
type VerificationType struct {
	Tag     byte
	CPIndex uint16
	Offset  uint16
}

// Verification-type tags. Long and Double are swapped relative to the
// naive ordering one would guess from the constant-pool tag values —
// this is spec-correct, not a transcription error.
const (
	VTTop               byte = 0
	VTInteger           byte = 1
	VTFloat             byte = 2
	VTDouble            byte = 3
	VTLong              byte = 4
	VTNull              byte = 5
	VTUninitializedThis byte = 6
	VTObject            byte = 7
	VTUninitialized     byte = 8
)

// StackMapFrame is one entry of a StackMapTable attribute. Which fields
// are meaningful is determined by FrameType's range; Locals and Stack
// are used only by the frame kinds that carry them (AppendFrame and
// FullFrame for Locals; SameLocals1StackItemFrame[Extended] and
// FullFrame for Stack).
type StackMapFrame struct {
	FrameType   uint8
	OffsetDelta uint16
	Locals      []VerificationType
	Stack       []VerificationType
}

// CodeException is one entry of a Code attribute's exception table.
type CodeException struct {
	StartPC, EndPC, HandlerPC uint16
	CatchType                 *cpool.ClassRef // nil means catch-all (catch_type 0)
}

// Code is the decoded form of a Code attribute.
type Code struct {
	MaxStack       uint16
	MaxLocals      uint16
	Bytecode       []byte
	ExceptionTable []CodeException
	Attributes     []*Attribute
}

// InnerClassEntry is one entry of an InnerClasses attribute.
type InnerClassEntry struct {
	InnerClass  *cpool.ClassRef
	OuterClass  *cpool.ClassRef // nil when outer_class_info_index is 0
	InnerName   *cpool.Utf8Ref  // nil when inner_name_index is 0
	AccessFlags uint16
}

// EnclosingMethod is the decoded form of an EnclosingMethod attribute.
type EnclosingMethod struct {
	Class  *cpool.ClassRef
	Method *cpool.NameAndTypeRef // nil when method_index is 0
}

// LineNumberEntry is one entry of a LineNumberTable attribute.
type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

// MethodParameter is one entry of a MethodParameters attribute.
type MethodParameter struct {
	Name        *cpool.Utf8Ref // nil when name_index is 0
	AccessFlags uint16
}

// AnnotationValueKind discriminates an element_value's payload.
type AnnotationValueKind int

// Annotation element_value kinds.
const (
	AVConst AnnotationValueKind = iota
	AVEnum
	AVClass
	AVAnnotation
	AVArray
)

// Annotation is a single runtime-visible or -invisible annotation.
type Annotation struct {
	Type  *cpool.Utf8Ref
	Pairs []AnnotationEVPair
}

// AnnotationEVPair is one element_name/element_value pair of an
// Annotation.
type AnnotationEVPair struct {
	Name  *cpool.Utf8Ref
	Value *AnnotationElementValue
}

// AnnotationElementValue is one element_value. Exactly the field(s)
// matching Kind are meaningful, plus Tag, which records the original
// tag byte for every kind; for AVConst it tells apart the primitive tags
// (one of BCDFIJSZs), which share the same u16-index payload shape but
// mean different constant-pool referent kinds.
type AnnotationElementValue struct {
	Kind             AnnotationValueKind
	Tag              byte
	ConstIndex       uint16
	EnumTypeName     uint16
	EnumConstName    uint16
	ClassInfoIndex   uint16
	NestedAnnotation *Annotation
	ArrayValues      []*AnnotationElementValue
}

// BootstrapMethod is one entry of a BootstrapMethods attribute.
type BootstrapMethod struct {
	Method    *cpool.MethodHandleRef
	Arguments []*cpool.Entry
}

// Attribute is the decoded, tagged form of one attribute_info. Exactly
// the field(s) matching Kind are meaningful. Unrecognized carries the
// original payload verbatim, and is only ever produced in lenient mode.
type Attribute struct {
	Name   *cpool.Utf8Ref
	Length uint32
	Kind   Kind

	ConstantValue *cpool.ConstValueRef
	Code          *Code
	StackMapTable []StackMapFrame
	Exceptions    []*cpool.ClassRef
	InnerClasses  []InnerClassEntry
	Enclosing     *EnclosingMethod
	Signature     *cpool.Utf8Ref
	SourceFile    *cpool.Utf8Ref
	LineNumbers   []LineNumberEntry
	NestMembers   []*cpool.ClassRef
	NestHost      *cpool.ClassRef
	Parameters    []MethodParameter

	VisibleAnnotations            []Annotation
	InvisibleAnnotations          []Annotation
	VisibleParameterAnnotations   [][]Annotation
	InvisibleParameterAnnotations [][]Annotation
	AnnotationDefault             *AnnotationElementValue
	BootstrapMethods              []BootstrapMethod

	Unrecognized []byte
}
