package archport

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/archport/pkg/archport/core"
)

// NewLoggerAdapter exposes a zerolog logger as a core.Logger. Events below
// the logger's level are discarded by zerolog before any field is added.
func NewLoggerAdapter(logger *zerolog.Logger) core.Logger {
	return zerologLogger{logger: logger}
}

type zerologLogger struct {
	logger *zerolog.Logger
}

func (l zerologLogger) at(level zerolog.Level) core.LogEvent {
	return zerologEvent{event: l.logger.WithLevel(level)}
}

func (l zerologLogger) Info() core.LogEvent  { return l.at(zerolog.InfoLevel) }
func (l zerologLogger) Debug() core.LogEvent { return l.at(zerolog.DebugLevel) }
func (l zerologLogger) Warn() core.LogEvent  { return l.at(zerolog.WarnLevel) }
func (l zerologLogger) Error() core.LogEvent { return l.at(zerolog.ErrorLevel) }
func (l zerologLogger) Trace() core.LogEvent { return l.at(zerolog.TraceLevel) }

// zerologEvent wraps a possibly nil *zerolog.Event; zerolog makes every
// method on a nil event a no-op.
type zerologEvent struct {
	event *zerolog.Event
}

func (e zerologEvent) Str(key, val string) core.LogEvent {
	return zerologEvent{event: e.event.Str(key, val)}
}

func (e zerologEvent) Stringer(key string, val fmt.Stringer) core.LogEvent {
	return zerologEvent{event: e.event.Stringer(key, val)}
}

func (e zerologEvent) Int(key string, val int) core.LogEvent {
	return zerologEvent{event: e.event.Int(key, val)}
}

func (e zerologEvent) Int64(key string, val int64) core.LogEvent {
	return zerologEvent{event: e.event.Int64(key, val)}
}

func (e zerologEvent) Bool(key string, val bool) core.LogEvent {
	return zerologEvent{event: e.event.Bool(key, val)}
}

func (e zerologEvent) Err(err error) core.LogEvent {
	return zerologEvent{event: e.event.Err(err)}
}

func (e zerologEvent) Msg(msg string) {
	e.event.Msg(msg)
}
