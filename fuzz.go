// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// +build gofuzz

package classfile

// Fuzz is a go-fuzz entry point: parse arbitrary bytes as a class file
// and report whether they were accepted. Lenient mode is on so the
// fuzzer spends its time past the strict-mode unrecognized-attribute
// bailout, deeper in the constant-pool and attribute grammars.
func Fuzz(data []byte) int {
	f, err := NewBytes(data, &Options{Lenient: true})
	if err != nil {
		return 0
	}
	if err := f.Parse(); err != nil {
		return 0
	}
	return 1
}
