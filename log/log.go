// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log exports logging primitives that log to stderr or to a
// file chosen by the server configuration.
package log // import "flatbank.io/log"

// We call this log instead of logging for two reasons:
// 1) It's shorter to type;
// 2) it mimics Go's log package and can be used as a drop-in replacement for it.

import (
	"fmt"
	"io"
	goLog "log"
	"os"
	"sync"
)

// Logger is the interface for logging messages.
type Logger interface {
	// Printf writes a formated message to the log.
	Printf(format string, v ...interface{})

	// Print writes a message to the log.
	Print(v ...interface{})

	// Println writes a line to the log.
	Println(v ...interface{})

	// Fatal writes a message to the log and aborts.
	Fatal(v ...interface{})

	// Fatalf writes a formated message to the log and aborts.
	Fatalf(format string, v ...interface{})
}

// Level represents the level of logging.
type Level int

// Different levels of logging.
const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
	DisabledLevel
)

// The set of default loggers for each log level.
var (
	Debug = &logger{DebugLevel}
	Info  = &logger{InfoLevel}
	Error = &logger{ErrorLevel}
)

type globalState struct {
	mu            sync.Mutex
	currentLevel  Level
	defaultLogger Logger
	output        io.Writer
}

var state = globalState{
	currentLevel:  InfoLevel,
	defaultLogger: newDefaultLogger(os.Stderr),
	output:        os.Stderr,
}

func globals() (Level, Logger) {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.currentLevel, state.defaultLogger
}

func newDefaultLogger(w io.Writer) Logger {
	return goLog.New(w, "", goLog.Ldate|goLog.Ltime|goLog.LUTC|goLog.Lmicroseconds)
}

// SetOutput sets the default loggers to write to w.
// If w is nil, the default loggers are disabled.
func SetOutput(w io.Writer) {
	state.mu.Lock()
	defer state.mu.Unlock()

	state.output = w
	if w == nil {
		state.defaultLogger = nil
	} else {
		state.defaultLogger = newDefaultLogger(w)
	}
}

type logger struct {
	level Level
}

var _ Logger = (*logger)(nil)

// Printf writes a formatted message to the log.
func (l *logger) Printf(format string, v ...interface{}) {
	current, def := globals()
	if l.level < current || def == nil {
		return // Don't log at lower levels.
	}
	def.Printf(format, v...)
}

// Print writes a message to the log.
func (l *logger) Print(v ...interface{}) {
	current, def := globals()
	if l.level < current || def == nil {
		return // Don't log at lower levels.
	}
	def.Print(v...)
}

// Println writes a line to the log.
func (l *logger) Println(v ...interface{}) {
	current, def := globals()
	if l.level < current || def == nil {
		return // Don't log at lower levels.
	}
	def.Println(v...)
}

// Fatal writes a message to the log and aborts, regardless of the current log level.
func (l *logger) Fatal(v ...interface{}) {
	_, def := globals()
	if def == nil {
		def = newDefaultLogger(os.Stderr)
	}
	def.Fatal(v...)
}

// Fatalf writes a formatted message to the log and aborts, regardless of the current log level.
func (l *logger) Fatalf(format string, v ...interface{}) {
	_, def := globals()
	if def == nil {
		def = newDefaultLogger(os.Stderr)
	}
	def.Fatalf(format, v...)
}

// String returns the name of the logger.
func (l *logger) String() string {
	return l.level.String()
}

func (l Level) String() string {
	switch l {
	case InfoLevel:
		return "info"
	case DebugLevel:
		return "debug"
	case ErrorLevel:
		return "error"
	case DisabledLevel:
		return "disabled"
	}
	return "unknown"
}

// ParseLevel returns the level named by s.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "info":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	case "error":
		return ErrorLevel, nil
	case "disabled":
		return DisabledLevel, nil
	}
	return DisabledLevel, fmt.Errorf("invalid log level %q", s)
}

// CurrentLevel returns the current logging level.
func CurrentLevel() Level {
	l, _ := globals()
	return l
}

// SetLevel sets the current level of logging.
func SetLevel(level Level) {
	state.mu.Lock()
	state.currentLevel = level
	state.mu.Unlock()
}

// SetLevelName sets the current level of logging by name.
func SetLevelName(name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	SetLevel(l)
	return nil
}

// At returns whether the level will be logged currently.
func At(level Level) bool {
	return CurrentLevel() <= level
}

// Flush syncs the log output to stable storage if it is a file.
func Flush() {
	state.mu.Lock()
	defer state.mu.Unlock()
	if f, ok := state.output.(*os.File); ok && f != os.Stderr && f != os.Stdout {
		f.Sync()
	}
}

// Printf writes a formatted message to the log.
func Printf(format string, v ...interface{}) {
	Info.Printf(format, v...)
}

// Print writes a message to the log.
func Print(v ...interface{}) {
	Info.Print(v...)
}

// Println writes a line to the log.
func Println(v ...interface{}) {
	Info.Println(v...)
}

// Fatal writes a message to the log and aborts.
func Fatal(v ...interface{}) {
	Info.Fatal(v...)
}

// Fatalf writes a formatted message to the log and aborts.
func Fatalf(format string, v ...interface{}) {
	Info.Fatalf(format, v...)
}
