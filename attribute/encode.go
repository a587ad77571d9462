// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package attribute

import (
	"bytes"

	"github.com/go-classfile/classfile/bio"
	"github.com/go-classfile/classfile/cpool"
	"github.com/go-classfile/classfile/ioclass"
)

// EncodeAll lowers a decoded attribute list back to its I/O form, the
// exact inverse of DecodeAll.
func EncodeAll(attrs []*Attribute) ([]ioclass.AttributeInfo, error) {
	out := make([]ioclass.AttributeInfo, len(attrs))
	for i, a := range attrs {
		raw, err := Encode(a)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

// Encode lowers a into its I/O form. Every cross-reference was already
// resolved to an Entry/Ref at decode time, so encoding only needs each
// ref's stored Index, never the pool itself.
func Encode(a *Attribute) (ioclass.AttributeInfo, error) {
	var buf bytes.Buffer
	w := bio.NewWriter(&buf)

	switch a.Kind {
	case KindConstantValue:
		if err := w.WriteU16(a.ConstantValue.Index); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindCode:
		if err := encodeCode(w, a.Code); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindStackMapTable:
		if err := w.WriteU16(uint16(len(a.StackMapTable))); err != nil {
			return ioclass.AttributeInfo{}, err
		}
		for _, f := range a.StackMapTable {
			if err := writeStackMapFrame(w, f); err != nil {
				return ioclass.AttributeInfo{}, err
			}
		}

	case KindExceptions:
		if err := w.WriteU16(uint16(len(a.Exceptions))); err != nil {
			return ioclass.AttributeInfo{}, err
		}
		for _, c := range a.Exceptions {
			if err := w.WriteU16(c.Index); err != nil {
				return ioclass.AttributeInfo{}, err
			}
		}

	case KindInnerClasses:
		if err := w.WriteU16(uint16(len(a.InnerClasses))); err != nil {
			return ioclass.AttributeInfo{}, err
		}
		for _, e := range a.InnerClasses {
			if err := w.WriteU16(e.InnerClass.Index); err != nil {
				return ioclass.AttributeInfo{}, err
			}
			if err := w.WriteU16(indexOrZeroClass(e.OuterClass)); err != nil {
				return ioclass.AttributeInfo{}, err
			}
			if err := w.WriteU16(indexOrZeroUtf8(e.InnerName)); err != nil {
				return ioclass.AttributeInfo{}, err
			}
			if err := w.WriteU16(e.AccessFlags); err != nil {
				return ioclass.AttributeInfo{}, err
			}
		}

	case KindEnclosingMethod:
		if err := w.WriteU16(a.Enclosing.Class.Index); err != nil {
			return ioclass.AttributeInfo{}, err
		}
		methodIdx := uint16(0)
		if a.Enclosing.Method != nil {
			methodIdx = a.Enclosing.Method.Index
		}
		if err := w.WriteU16(methodIdx); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindSynthetic, KindDeprecated:
		// marker attributes carry no payload

	case KindSignature:
		if err := w.WriteU16(a.Signature.Index); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindSourceFile:
		if err := w.WriteU16(a.SourceFile.Index); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindLineNumberTable:
		if err := w.WriteU16(uint16(len(a.LineNumbers))); err != nil {
			return ioclass.AttributeInfo{}, err
		}
		for _, l := range a.LineNumbers {
			if err := w.WriteU16(l.StartPC); err != nil {
				return ioclass.AttributeInfo{}, err
			}
			if err := w.WriteU16(l.LineNumber); err != nil {
				return ioclass.AttributeInfo{}, err
			}
		}

	case KindNestMembers:
		if err := w.WriteU16(uint16(len(a.NestMembers))); err != nil {
			return ioclass.AttributeInfo{}, err
		}
		for _, c := range a.NestMembers {
			if err := w.WriteU16(c.Index); err != nil {
				return ioclass.AttributeInfo{}, err
			}
		}

	case KindNestHost:
		if err := w.WriteU16(a.NestHost.Index); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindMethodParameters:
		if err := w.WriteU8(uint8(len(a.Parameters))); err != nil {
			return ioclass.AttributeInfo{}, err
		}
		for _, p := range a.Parameters {
			if err := w.WriteU16(indexOrZeroUtf8(p.Name)); err != nil {
				return ioclass.AttributeInfo{}, err
			}
			if err := w.WriteU16(p.AccessFlags); err != nil {
				return ioclass.AttributeInfo{}, err
			}
		}

	case KindRuntimeVisibleAnnotations:
		if err := writeAnnotationList(w, a.VisibleAnnotations); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindRuntimeInvisibleAnnotations:
		if err := writeAnnotationList(w, a.InvisibleAnnotations); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindRuntimeVisibleParameterAnnotations:
		if err := writeParameterAnnotations(w, a.VisibleParameterAnnotations); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindRuntimeInvisibleParameterAnnotations:
		if err := writeParameterAnnotations(w, a.InvisibleParameterAnnotations); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindAnnotationDefault:
		if err := writeAnnotationElementValue(w, a.AnnotationDefault); err != nil {
			return ioclass.AttributeInfo{}, err
		}

	case KindBootstrapMethods:
		if err := w.WriteU16(uint16(len(a.BootstrapMethods))); err != nil {
			return ioclass.AttributeInfo{}, err
		}
		for _, m := range a.BootstrapMethods {
			if err := w.WriteU16(m.Method.Index); err != nil {
				return ioclass.AttributeInfo{}, err
			}
			if err := w.WriteU16(uint16(len(m.Arguments))); err != nil {
				return ioclass.AttributeInfo{}, err
			}
			for _, arg := range m.Arguments {
				if err := w.WriteU16(arg.Index); err != nil {
					return ioclass.AttributeInfo{}, err
				}
			}
		}

	case KindUnrecognized:
		if err := w.WriteBytes(a.Unrecognized); err != nil {
			return ioclass.AttributeInfo{}, err
		}
	}

	return ioclass.AttributeInfo{
		NameIndex: a.Name.Index,
		Length:    uint32(buf.Len()),
		Info:      buf.Bytes(),
	}, nil
}

func indexOrZeroClass(c *cpool.ClassRef) uint16 {
	if c == nil {
		return 0
	}
	return c.Index
}

func indexOrZeroUtf8(u *cpool.Utf8Ref) uint16 {
	if u == nil {
		return 0
	}
	return u.Index
}

func writeStackMapFrame(w *bio.Writer, f StackMapFrame) error {
	if err := w.WriteU8(f.FrameType); err != nil {
		return err
	}
	switch {
	case f.FrameType <= 63:
		return nil
	case f.FrameType <= 127:
		return writeVerificationType(w, f.Stack[0])
	case f.FrameType == 247:
		if err := w.WriteU16(f.OffsetDelta); err != nil {
			return err
		}
		return writeVerificationType(w, f.Stack[0])
	case f.FrameType >= 248 && f.FrameType <= 251:
		return w.WriteU16(f.OffsetDelta)
	case f.FrameType >= 252 && f.FrameType <= 254:
		if err := w.WriteU16(f.OffsetDelta); err != nil {
			return err
		}
		for _, l := range f.Locals {
			if err := writeVerificationType(w, l); err != nil {
				return err
			}
		}
		return nil
	case f.FrameType == 255:
		if err := w.WriteU16(f.OffsetDelta); err != nil {
			return err
		}
		if err := w.WriteU16(uint16(len(f.Locals))); err != nil {
			return err
		}
		for _, l := range f.Locals {
			if err := writeVerificationType(w, l); err != nil {
				return err
			}
		}
		if err := w.WriteU16(uint16(len(f.Stack))); err != nil {
			return err
		}
		for _, s := range f.Stack {
			if err := writeVerificationType(w, s); err != nil {
				return err
			}
		}
		return nil
	}
	return &UnknownStackMapFrameTagError{Tag: f.FrameType}
}

func writeVerificationType(w *bio.Writer, vt VerificationType) error {
	if err := w.WriteU8(vt.Tag); err != nil {
		return err
	}
	switch vt.Tag {
	case VTObject:
		return w.WriteU16(vt.CPIndex)
	case VTUninitialized:
		return w.WriteU16(vt.Offset)
	}
	return nil
}

func writeAnnotationList(w *bio.Writer, anns []Annotation) error {
	if err := w.WriteU16(uint16(len(anns))); err != nil {
		return err
	}
	for _, a := range anns {
		if err := writeAnnotation(w, a); err != nil {
			return err
		}
	}
	return nil
}

func writeAnnotation(w *bio.Writer, a Annotation) error {
	if err := w.WriteU16(a.Type.Index); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(len(a.Pairs))); err != nil {
		return err
	}
	for _, p := range a.Pairs {
		if err := w.WriteU16(p.Name.Index); err != nil {
			return err
		}
		if err := writeAnnotationElementValue(w, p.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeParameterAnnotations(w *bio.Writer, params [][]Annotation) error {
	if err := w.WriteU8(uint8(len(params))); err != nil {
		return err
	}
	for _, anns := range params {
		if err := writeAnnotationList(w, anns); err != nil {
			return err
		}
	}
	return nil
}

func writeAnnotationElementValue(w *bio.Writer, v *AnnotationElementValue) error {
	if err := w.WriteU8(v.Tag); err != nil {
		return err
	}
	switch v.Kind {
	case AVConst:
		return w.WriteU16(v.ConstIndex)
	case AVEnum:
		if err := w.WriteU16(v.EnumTypeName); err != nil {
			return err
		}
		return w.WriteU16(v.EnumConstName)
	case AVClass:
		return w.WriteU16(v.ClassInfoIndex)
	case AVAnnotation:
		return writeAnnotation(w, *v.NestedAnnotation)
	case AVArray:
		if err := w.WriteU16(uint16(len(v.ArrayValues))); err != nil {
			return err
		}
		for _, e := range v.ArrayValues {
			if err := writeAnnotationElementValue(w, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func encodeCode(w *bio.Writer, c *Code) error {
	if err := w.WriteU16(c.MaxStack); err != nil {
		return err
	}
	if err := w.WriteU16(c.MaxLocals); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(len(c.Bytecode))); err != nil {
		return err
	}
	if err := w.WriteBytes(c.Bytecode); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(len(c.ExceptionTable))); err != nil {
		return err
	}
	for _, e := range c.ExceptionTable {
		if err := w.WriteU16(e.StartPC); err != nil {
			return err
		}
		if err := w.WriteU16(e.EndPC); err != nil {
			return err
		}
		if err := w.WriteU16(e.HandlerPC); err != nil {
			return err
		}
		if err := w.WriteU16(indexOrZeroClass(e.CatchType)); err != nil {
			return err
		}
	}
	nested, err := EncodeAll(c.Attributes)
	if err != nil {
		return err
	}
	if err := w.WriteU16(uint16(len(nested))); err != nil {
		return err
	}
	return ioclass.WriteAttributes(w, nested)
}
