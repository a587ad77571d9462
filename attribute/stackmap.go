// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package attribute

import "github.com/go-classfile/classfile/bio"

func readVerificationType(r *bio.Reader) (VerificationType, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return VerificationType{}, err
	}
	vt := VerificationType{Tag: tag}
	switch tag {
	case VTTop, VTInteger, VTFloat, VTDouble, VTLong, VTNull, VTUninitializedThis:
		// no further payload
	case VTObject:
		if vt.CPIndex, err = r.ReadU16(); err != nil {
			return vt, err
		}
	case VTUninitialized:
		if vt.Offset, err = r.ReadU16(); err != nil {
			return vt, err
		}
	default:
		return vt, &UnknownVerificationTypeTagError{Tag: tag}
	}
	return vt, nil
}

func readVerificationTypes(r *bio.Reader, n int) ([]VerificationType, error) {
	out := make([]VerificationType, n)
	for i := range out {
		vt, err := readVerificationType(r)
		if err != nil {
			return nil, err
		}
		out[i] = vt
	}
	return out, nil
}

// readStackMapFrame reads one stack_map_frame, dispatched by its leading
// frame_type byte. The offset_delta formula for SameLocals1StackItemFrame
// is frame_type - 64; the naive mirror image (64 - frame_type) that some
// references use is wrong for every frame_type above 64.
func readStackMapFrame(r *bio.Reader) (StackMapFrame, error) {
	frameType, err := r.ReadU8()
	if err != nil {
		return StackMapFrame{}, err
	}

	switch {
	case frameType <= 63:
		return StackMapFrame{FrameType: frameType, OffsetDelta: uint16(frameType)}, nil

	case frameType <= 127:
		stack, err := readVerificationType(r)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{
			FrameType:   frameType,
			OffsetDelta: uint16(frameType) - 64,
			Stack:       []VerificationType{stack},
		}, nil

	case frameType == 247:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		stack, err := readVerificationType(r)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta, Stack: []VerificationType{stack}}, nil

	case frameType >= 248 && frameType <= 250:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta}, nil

	case frameType == 251:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta}, nil

	case frameType >= 252 && frameType <= 254:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		locals, err := readVerificationTypes(r, int(frameType)-251)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta, Locals: locals}, nil

	case frameType == 255:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		nLocals, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		locals, err := readVerificationTypes(r, int(nLocals))
		if err != nil {
			return StackMapFrame{}, err
		}
		nStack, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		stack, err := readVerificationTypes(r, int(nStack))
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta, Locals: locals, Stack: stack}, nil

	default:
		return StackMapFrame{}, &UnknownStackMapFrameTagError{Tag: frameType}
	}
}
