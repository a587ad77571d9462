// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package attribute

import (
	"errors"
	"fmt"
)

// ErrTrailingBytes is returned when an attribute payload has unconsumed
// bytes left after its grammar accepts.
var ErrTrailingBytes = errors.New("attribute: trailing bytes in payload")

// UnknownAttributeError is returned in strict mode when an attribute
// name is not one this decoder recognises.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("attribute: unknown attribute %q", e.Name)
}

// UnknownStackMapFrameTagError is returned when a stack-map frame tag
// falls outside the documented ranges (0..=255 minus the 128..=246 gap).
type UnknownStackMapFrameTagError struct {
	Tag byte
}

func (e *UnknownStackMapFrameTagError) Error() string {
	return fmt.Sprintf("attribute: reserved stack-map frame tag %d", e.Tag)
}

// UnknownVerificationTypeTagError is returned when a verification_type_info
// tag is outside 0..=8.
type UnknownVerificationTypeTagError struct {
	Tag byte
}

func (e *UnknownVerificationTypeTagError) Error() string {
	return fmt.Sprintf("attribute: unknown verification_type_info tag %d", e.Tag)
}

// UnknownAnnotationValueTagError is returned when an element_value tag
// byte is not one of BCDFIJSZsec@[.
type UnknownAnnotationValueTagError struct {
	Tag byte
}

func (e *UnknownAnnotationValueTagError) Error() string {
	return fmt.Sprintf("attribute: unknown annotation value tag %q", string(rune(e.Tag)))
}
