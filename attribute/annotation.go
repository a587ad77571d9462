// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package attribute

import (
	"github.com/go-classfile/classfile/bio"
	"github.com/go-classfile/classfile/cpool"
)

func readUtf8Ref(r *bio.Reader, pool *cpool.Pool) (*cpool.Utf8Ref, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return pool.Utf8At(idx)
}

func readClassRef(r *bio.Reader, pool *cpool.Pool) (*cpool.ClassRef, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return pool.ClassAt(idx)
}

func readAnnotation(r *bio.Reader, pool *cpool.Pool) (Annotation, error) {
	typeRef, err := readUtf8Ref(r, pool)
	if err != nil {
		return Annotation{}, err
	}
	nPairs, err := r.ReadU16()
	if err != nil {
		return Annotation{}, err
	}
	pairs := make([]AnnotationEVPair, nPairs)
	for i := range pairs {
		name, err := readUtf8Ref(r, pool)
		if err != nil {
			return Annotation{}, err
		}
		value, err := readAnnotationElementValue(r, pool)
		if err != nil {
			return Annotation{}, err
		}
		pairs[i] = AnnotationEVPair{Name: name, Value: value}
	}
	return Annotation{Type: typeRef, Pairs: pairs}, nil
}

func readAnnotations(r *bio.Reader, pool *cpool.Pool, n int) ([]Annotation, error) {
	out := make([]Annotation, n)
	for i := range out {
		a, err := readAnnotation(r, pool)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// readAnnotationElementValue reads one element_value. The '@' case
// recurses into a full nested Annotation rather than failing, unlike a
// naive transcription of the grammar that stops one level short.
func readAnnotationElementValue(r *bio.Reader, pool *cpool.Pool) (*AnnotationElementValue, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &AnnotationElementValue{Kind: AVConst, Tag: tag, ConstIndex: idx}, nil

	case 'e':
		typeName, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		constName, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &AnnotationElementValue{Kind: AVEnum, Tag: tag, EnumTypeName: typeName, EnumConstName: constName}, nil

	case 'c':
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &AnnotationElementValue{Kind: AVClass, Tag: tag, ClassInfoIndex: idx}, nil

	case '@':
		nested, err := readAnnotation(r, pool)
		if err != nil {
			return nil, err
		}
		return &AnnotationElementValue{Kind: AVAnnotation, Tag: tag, NestedAnnotation: &nested}, nil

	case '[':
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		values := make([]*AnnotationElementValue, n)
		for i := range values {
			v, err := readAnnotationElementValue(r, pool)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return &AnnotationElementValue{Kind: AVArray, Tag: tag, ArrayValues: values}, nil

	default:
		return nil, &UnknownAnnotationValueTagError{Tag: tag}
	}
}
