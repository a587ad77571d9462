// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cpool

import (
	"encoding/binary"
	"math"
)

func ioclassFloat32(bits uint32) float32 {
	return math.Float32frombits(bits)
}

func ioclassInt64(b [8]byte) int64 {
	return int64(binary.BigEndian.Uint64(b[:]))
}

func ioclassFloat64(b [8]byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b[:]))
}
