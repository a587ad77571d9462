// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package ioclass

import (
	"encoding/binary"
	"math"
)

func beUint64(b [8]byte) uint64 {
	return binary.BigEndian.Uint64(b[:])
}

func math32frombits(bits uint32) float32 {
	return math.Float32frombits(bits)
}

func math64frombits(bits uint64) float64 {
	return math.Float64frombits(bits)
}
