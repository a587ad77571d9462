// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log re-exports the pieces of go-kratos/kratos's structured
// logger that the rest of this module needs, so callers depend on this
// package rather than reaching into kratos directly.
package log

import kratoslog "github.com/go-kratos/kratos/v2/log"

// Logger is the sink every Helper eventually writes through.
type Logger = kratoslog.Logger

// Helper is the logging handle stored on a File; it adds leveled
// convenience methods (Errorf, Warnf, ...) on top of a Logger.
type Helper = kratoslog.Helper

// Level is a log severity, used with FilterLevel.
type Level = kratoslog.Level

// Severity levels, lowest to highest.
const (
	LevelDebug = kratoslog.LevelDebug
	LevelInfo  = kratoslog.LevelInfo
	LevelWarn  = kratoslog.LevelWarn
	LevelError = kratoslog.LevelError
	LevelFatal = kratoslog.LevelFatal
)

// NewStdLogger wraps an io.Writer (typically os.Stdout) as a Logger.
var NewStdLogger = kratoslog.NewStdLogger

// NewHelper builds a Helper around logger.
var NewHelper = kratoslog.NewHelper

// NewFilter wraps logger with the given filter options, most commonly
// FilterLevel to drop everything below a severity.
var NewFilter = kratoslog.NewFilter

// FilterLevel is a NewFilter option that drops log entries below level.
var FilterLevel = kratoslog.FilterLevel
