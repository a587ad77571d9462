// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"encoding/hex"
	"path/filepath"
	"runtime"
	"testing"

	"golang.org/x/tools/txtar"
)

// getAbsoluteFilePath resolves testfile relative to this source file,
// the same runtime.Caller-based convention the model's own test suite
// uses to locate fixtures regardless of the caller's working directory.
func getAbsoluteFilePath(testfile string) string {
	_, p, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(p), testfile)
}

// TestFixturesTxtar loads every hex-encoded fixture bundled in
// test/fixtures.txtar and confirms each parses to a class named
// java/lang/Object with no superclass.
func TestFixturesTxtar(t *testing.T) {
	archive, err := txtar.ParseFile(getAbsoluteFilePath("test/fixtures.txtar"))
	if err != nil {
		t.Fatalf("txtar.ParseFile() err = %v", err)
	}
	if len(archive.Files) == 0 {
		t.Fatal("archive has no files")
	}

	for _, tf := range archive.Files {
		tf := tf
		t.Run(tf.Name, func(t *testing.T) {
			trimmed := bytes.TrimSpace(tf.Data)
			data, err := hex.DecodeString(string(trimmed))
			if err != nil {
				t.Fatalf("hex.DecodeString(%s) err = %v", tf.Name, err)
			}

			f, err := NewBytes(data, nil)
			if err != nil {
				t.Fatalf("NewBytes() err = %v", err)
			}
			if err := f.Parse(); err != nil {
				t.Fatalf("Parse() err = %v", err)
			}
			if f.IR.ThisClass.Name.Value != "java/lang/Object" {
				t.Errorf("ThisClass.Name.Value = %q, want java/lang/Object", f.IR.ThisClass.Name.Value)
			}
			if f.IR.SuperClass != nil {
				t.Errorf("SuperClass = %+v, want nil", f.IR.SuperClass)
			}
		})
	}
}
