// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"errors"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/go-classfile/classfile/attribute"
	"github.com/go-classfile/classfile/bio"
	"github.com/go-classfile/classfile/ioclass"
	"github.com/go-classfile/classfile/log"
)

// MaxDefaultPoolEntries is the default ceiling on constant_pool_count
// before Parse refuses to continue, guarding against a corrupt or
// adversarial file claiming an implausibly large pool.
const MaxDefaultPoolEntries = 65535

// ErrFileTooSmall is returned when the input is shorter than the
// smallest possible well-formed class file.
var ErrFileTooSmall = errors.New("classfile: file too small to be a class file")

// ErrPoolTooLarge is returned when constant_pool_count exceeds
// Options.MaxPoolEntries.
var ErrPoolTooLarge = errors.New("classfile: constant pool exceeds configured maximum")

// minClassFileSize is magic(4) + minor(2) + major(2) + cp_count(2) +
// access_flags(2) + this_class(2) + super_class(2) + interfaces_count(2)
// + fields_count(2) + methods_count(2) + attributes_count(2).
const minClassFileSize = 24

// A File represents one open class file: its raw bytes, the parsed IR,
// and the soft findings collected while getting there.
type File struct {
	IR        *IRClassFile `json:"ir,omitempty"`
	Anomalies []string     `json:"anomalies,omitempty"`

	raw    ioclass.ClassFile
	data   mmap.MMap
	f      *os.File
	bytes  []byte
	opts   *Options
	logger *log.Helper
}

// Options configures parsing.
type Options struct {
	// Lenient makes Parse tolerate attribute names this decoder does
	// not recognize, recording them as Unrecognized attributes and an
	// Anomalies entry instead of failing. By default (false) an
	// unrecognized attribute name is a hard error.
	Lenient bool

	// MaxPoolEntries caps constant_pool_count, by default
	// (MaxDefaultPoolEntries).
	MaxPoolEntries uint16

	// A custom logger.
	Logger log.Logger
}

// New instantiates a File by memory-mapping the file at name.
func New(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := newFile(opts)
	file.f = f
	file.data = data
	file.bytes = data
	return file, nil
}

// NewBytes instantiates a File from an in-memory buffer.
func NewBytes(data []byte, opts *Options) (*File, error) {
	file := newFile(opts)
	file.bytes = data
	return file, nil
}

func newFile(opts *Options) *File {
	file := &File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}
	if file.opts.MaxPoolEntries == 0 {
		file.opts.MaxPoolEntries = MaxDefaultPoolEntries
	}

	if file.opts.Logger == nil {
		stdLogger := log.NewStdLogger(os.Stdout)
		file.logger = log.NewHelper(log.NewFilter(stdLogger, log.FilterLevel(log.LevelError)))
	} else {
		file.logger = log.NewHelper(file.opts.Logger)
	}

	return file
}

// Close releases the memory mapping and underlying file handle, if any.
func (c *File) Close() error {
	if c.data != nil {
		_ = c.data.Unmap()
	}
	if c.f != nil {
		return c.f.Close()
	}
	return nil
}

// Parse reads the I/O-level class file, lifts it to IR, and stores the
// result on c.IR. Non-fatal findings are logged and appended to
// c.Anomalies rather than aborting the parse.
func (c *File) Parse() error {
	if len(c.bytes) < minClassFileSize {
		return ErrFileTooSmall
	}

	r := bio.NewReader(c.bytes)
	raw, err := ioclass.Read(r)
	if err != nil {
		return err
	}
	c.raw = *raw

	if raw.CPCount > c.opts.MaxPoolEntries {
		return ErrPoolTooLarge
	}

	ir, err := FromIO(raw, c.opts.Lenient)
	if err != nil {
		return err
	}
	c.IR = ir

	if c.opts.Lenient {
		c.collectUnrecognizedAnomalies(ir)
	}

	return nil
}

func (c *File) collectUnrecognizedAnomalies(ir *IRClassFile) {
	for _, a := range ir.Attributes {
		c.noteIfUnrecognized("class", a)
	}
	for _, f := range ir.Fields {
		for _, a := range f.Attributes {
			c.noteIfUnrecognized("field "+f.Name.Value, a)
		}
	}
	for _, m := range ir.Methods {
		for _, a := range m.Attributes {
			c.noteIfUnrecognized("method "+m.Name.Value, a)
		}
	}
}

func (c *File) noteIfUnrecognized(where string, a *attribute.Attribute) {
	if a.Kind == attribute.KindCode {
		for _, nested := range a.Code.Attributes {
			c.noteIfUnrecognized(where+" Code", nested)
		}
		return
	}
	if a.Kind != attribute.KindUnrecognized {
		return
	}
	msg := "unrecognized attribute " + a.Name.Value + " on " + where
	c.Anomalies = append(c.Anomalies, msg)
	c.logger.Warnf("%s", msg)
}
