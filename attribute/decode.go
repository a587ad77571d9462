// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package attribute

import (
	"github.com/go-classfile/classfile/bio"
	"github.com/go-classfile/classfile/cpool"
	"github.com/go-classfile/classfile/ioclass"
)

// DecodeAll decodes every raw AttributeInfo in raws against pool. In
// lenient mode, an attribute whose name is unrecognised is retained as
// an opaque Unrecognized payload instead of failing the whole class
// file.
func DecodeAll(pool *cpool.Pool, raws []ioclass.AttributeInfo, lenient bool) ([]*Attribute, error) {
	out := make([]*Attribute, len(raws))
	for i, raw := range raws {
		a, err := Decode(pool, raw, lenient)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// Decode dispatches on the UTF-8 name raw.NameIndex resolves to and
// parses raw.Info's opaque payload into a typed Attribute. Every
// dispatch branch must consume the payload exactly; leftover bytes are
// ErrTrailingBytes.
func Decode(pool *cpool.Pool, raw ioclass.AttributeInfo, lenient bool) (*Attribute, error) {
	name, err := pool.Utf8At(raw.NameIndex)
	if err != nil {
		return nil, err
	}

	a := &Attribute{Name: name, Length: raw.Length}
	r := bio.NewReader(raw.Info)

	switch name.Value {
	case "ConstantValue":
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		cv, err := pool.ConstValueAt(idx)
		if err != nil {
			return nil, err
		}
		a.Kind = KindConstantValue
		a.ConstantValue = cv

	case "Code":
		code, err := decodeCode(pool, r, lenient)
		if err != nil {
			return nil, err
		}
		a.Kind = KindCode
		a.Code = code

	case "StackMapTable":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		frames := make([]StackMapFrame, n)
		for i := range frames {
			f, err := readStackMapFrame(r)
			if err != nil {
				return nil, err
			}
			frames[i] = f
		}
		a.Kind = KindStackMapTable
		a.StackMapTable = frames

	case "Exceptions":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		classes := make([]*cpool.ClassRef, n)
		for i := range classes {
			c, err := readClassRef(r, pool)
			if err != nil {
				return nil, err
			}
			classes[i] = c
		}
		a.Kind = KindExceptions
		a.Exceptions = classes

	case "InnerClasses":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		entries := make([]InnerClassEntry, n)
		for i := range entries {
			e, err := readInnerClassEntry(r, pool)
			if err != nil {
				return nil, err
			}
			entries[i] = e
		}
		a.Kind = KindInnerClasses
		a.InnerClasses = entries

	case "EnclosingMethod":
		classIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		class, err := pool.ClassAt(classIdx)
		if err != nil {
			return nil, err
		}
		methodIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		var method *cpool.NameAndTypeRef
		if methodIdx != 0 {
			entry, err := pool.At(methodIdx)
			if err != nil {
				return nil, err
			}
			if entry.Kind != cpool.KindNameAndType {
				return nil, &cpool.WrongReferentError{Index: methodIdx, Expected: "NameAndType", Got: entry.Kind.String()}
			}
			method = entry.NameAndType
		}
		a.Kind = KindEnclosingMethod
		a.Enclosing = &EnclosingMethod{Class: class, Method: method}

	case "Synthetic":
		a.Kind = KindSynthetic

	case "Deprecated":
		a.Kind = KindDeprecated

	case "Signature":
		sig, err := readUtf8Ref(r, pool)
		if err != nil {
			return nil, err
		}
		a.Kind = KindSignature
		a.Signature = sig

	case "SourceFile":
		sf, err := readUtf8Ref(r, pool)
		if err != nil {
			return nil, err
		}
		a.Kind = KindSourceFile
		a.SourceFile = sf

	case "LineNumberTable":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		lines := make([]LineNumberEntry, n)
		for i := range lines {
			startPC, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			lineNo, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			lines[i] = LineNumberEntry{StartPC: startPC, LineNumber: lineNo}
		}
		a.Kind = KindLineNumberTable
		a.LineNumbers = lines

	case "NestMembers":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		classes := make([]*cpool.ClassRef, n)
		for i := range classes {
			c, err := readClassRef(r, pool)
			if err != nil {
				return nil, err
			}
			classes[i] = c
		}
		a.Kind = KindNestMembers
		a.NestMembers = classes

	case "NestHost":
		c, err := readClassRef(r, pool)
		if err != nil {
			return nil, err
		}
		a.Kind = KindNestHost
		a.NestHost = c

	case "MethodParameters":
		n, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		params := make([]MethodParameter, n)
		for i := range params {
			p, err := readMethodParameter(r, pool)
			if err != nil {
				return nil, err
			}
			params[i] = p
		}
		a.Kind = KindMethodParameters
		a.Parameters = params

	case "RuntimeVisibleAnnotations":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		anns, err := readAnnotations(r, pool, int(n))
		if err != nil {
			return nil, err
		}
		a.Kind = KindRuntimeVisibleAnnotations
		a.VisibleAnnotations = anns

	case "RuntimeInvisibleAnnotations":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		anns, err := readAnnotations(r, pool, int(n))
		if err != nil {
			return nil, err
		}
		a.Kind = KindRuntimeInvisibleAnnotations
		a.InvisibleAnnotations = anns

	case "RuntimeVisibleParameterAnnotations":
		params, err := readParameterAnnotations(r, pool)
		if err != nil {
			return nil, err
		}
		a.Kind = KindRuntimeVisibleParameterAnnotations
		a.VisibleParameterAnnotations = params

	case "RuntimeInvisibleParameterAnnotations":
		params, err := readParameterAnnotations(r, pool)
		if err != nil {
			return nil, err
		}
		a.Kind = KindRuntimeInvisibleParameterAnnotations
		a.InvisibleParameterAnnotations = params

	case "AnnotationDefault":
		v, err := readAnnotationElementValue(r, pool)
		if err != nil {
			return nil, err
		}
		a.Kind = KindAnnotationDefault
		a.AnnotationDefault = v

	case "BootstrapMethods":
		methods, err := readBootstrapMethods(r, pool)
		if err != nil {
			return nil, err
		}
		a.Kind = KindBootstrapMethods
		a.BootstrapMethods = methods

	default:
		if !lenient {
			return nil, &UnknownAttributeError{Name: name.Value}
		}
		a.Kind = KindUnrecognized
		a.Unrecognized = append([]byte(nil), raw.Info...)
		return a, nil
	}

	if r.Len() != 0 {
		return nil, ErrTrailingBytes
	}
	return a, nil
}

func readInnerClassEntry(r *bio.Reader, pool *cpool.Pool) (InnerClassEntry, error) {
	innerIdx, err := r.ReadU16()
	if err != nil {
		return InnerClassEntry{}, err
	}
	outerIdx, err := r.ReadU16()
	if err != nil {
		return InnerClassEntry{}, err
	}
	nameIdx, err := r.ReadU16()
	if err != nil {
		return InnerClassEntry{}, err
	}
	flags, err := r.ReadU16()
	if err != nil {
		return InnerClassEntry{}, err
	}

	inner, err := pool.ClassAt(innerIdx)
	if err != nil {
		return InnerClassEntry{}, err
	}
	var outer *cpool.ClassRef
	if outerIdx != 0 {
		if outer, err = pool.ClassAt(outerIdx); err != nil {
			return InnerClassEntry{}, err
		}
	}
	var innerName *cpool.Utf8Ref
	if nameIdx != 0 {
		if innerName, err = pool.Utf8At(nameIdx); err != nil {
			return InnerClassEntry{}, err
		}
	}

	return InnerClassEntry{
		InnerClass:  inner,
		OuterClass:  outer,
		InnerName:   innerName,
		AccessFlags: flags,
	}, nil
}

func readMethodParameter(r *bio.Reader, pool *cpool.Pool) (MethodParameter, error) {
	nameIdx, err := r.ReadU16()
	if err != nil {
		return MethodParameter{}, err
	}
	flags, err := r.ReadU16()
	if err != nil {
		return MethodParameter{}, err
	}
	var name *cpool.Utf8Ref
	if nameIdx != 0 {
		if name, err = pool.Utf8At(nameIdx); err != nil {
			return MethodParameter{}, err
		}
	}
	return MethodParameter{Name: name, AccessFlags: flags}, nil
}

func readParameterAnnotations(r *bio.Reader, pool *cpool.Pool) ([][]Annotation, error) {
	nParams, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	params := make([][]Annotation, nParams)
	for i := range params {
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		anns, err := readAnnotations(r, pool, int(n))
		if err != nil {
			return nil, err
		}
		params[i] = anns
	}
	return params, nil
}

func readBootstrapMethods(r *bio.Reader, pool *cpool.Pool) ([]BootstrapMethod, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	methods := make([]BootstrapMethod, n)
	for i := range methods {
		refIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		entry, err := pool.At(refIdx)
		if err != nil {
			return nil, err
		}
		if entry.Kind != cpool.KindMethodHandle {
			return nil, &cpool.WrongReferentError{Index: refIdx, Expected: "MethodHandle", Got: entry.Kind.String()}
		}
		nArgs, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		args := make([]*cpool.Entry, nArgs)
		for j := range args {
			argIdx, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			arg, err := pool.At(argIdx)
			if err != nil {
				return nil, err
			}
			args[j] = arg
		}
		methods[i] = BootstrapMethod{Method: entry.MethodHandle, Arguments: args}
	}
	return methods, nil
}

func decodeCode(pool *cpool.Pool, r *bio.Reader, lenient bool) (*Code, error) {
	maxStack, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	codeLen, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	bytecode, err := r.ReadNBytes(int(codeLen))
	if err != nil {
		return nil, err
	}

	excCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	excTable := make([]CodeException, excCount)
	for i := range excTable {
		startPC, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		endPC, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		handlerPC, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		catchIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		var catchType *cpool.ClassRef
		if catchIdx != 0 {
			if catchType, err = pool.ClassAt(catchIdx); err != nil {
				return nil, err
			}
		}
		excTable[i] = CodeException{StartPC: startPC, EndPC: endPC, HandlerPC: handlerPC, CatchType: catchType}
	}

	attrCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	rawAttrs, err := ioclass.ReadAttributes(r, attrCount)
	if err != nil {
		return nil, err
	}
	nested, err := DecodeAll(pool, rawAttrs, lenient)
	if err != nil {
		return nil, err
	}

	return &Code{
		MaxStack:       maxStack,
		MaxLocals:      maxLocals,
		Bytecode:       bytecode,
		ExceptionTable: excTable,
		Attributes:     nested,
	}, nil
}
