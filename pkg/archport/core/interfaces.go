package core

import "fmt"

// Logger is the structured logger the packages below archport write to.
type Logger interface {
	Info() LogEvent
	Debug() LogEvent
	Warn() LogEvent
	Error() LogEvent
	Trace() LogEvent
}

// LogEvent is a single log record under construction.
type LogEvent interface {
	Str(key, val string) LogEvent
	Stringer(key string, val fmt.Stringer) LogEvent
	Int(key string, val int) LogEvent
	Int64(key string, val int64) LogEvent
	Bool(key string, val bool) LogEvent
	Err(err error) LogEvent
	Msg(msg string)
}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info() LogEvent  { return nopEvent{} }
func (nopLogger) Debug() LogEvent { return nopEvent{} }
func (nopLogger) Warn() LogEvent  { return nopEvent{} }
func (nopLogger) Error() LogEvent { return nopEvent{} }
func (nopLogger) Trace() LogEvent { return nopEvent{} }

type nopEvent struct{}

func (e nopEvent) Str(string, string) LogEvent            { return e }
func (e nopEvent) Stringer(string, fmt.Stringer) LogEvent { return e }
func (e nopEvent) Int(string, int) LogEvent               { return e }
func (e nopEvent) Int64(string, int64) LogEvent           { return e }
func (e nopEvent) Bool(string, bool) LogEvent             { return e }
func (e nopEvent) Err(error) LogEvent                     { return e }
func (e nopEvent) Msg(string)                             {}
