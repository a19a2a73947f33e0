// Package logging provides the single logging indirection used across the
// pipeline, modeled on go.viam.com/rdk/logging. Every stage logs through a
// Logger; nothing in the module calls fmt.Println or the stdlib log package.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Level mirrors the small closed set the teacher's logging package exposes.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	default:
		return "unknown"
	}
}

// Logger is the interface every pipeline stage depends on.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	With(args ...interface{}) Logger
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func (z *zapLogger) Debugf(template string, args ...interface{}) { z.s.Debugf(template, args...) }
func (z *zapLogger) Infof(template string, args ...interface{})  { z.s.Infof(template, args...) }
func (z *zapLogger) Warnf(template string, args ...interface{})  { z.s.Warnf(template, args...) }
func (z *zapLogger) Errorf(template string, args ...interface{}) { z.s.Errorf(template, args...) }

func (z *zapLogger) With(args ...interface{}) Logger {
	return &zapLogger{s: z.s.With(args...)}
}

// NewLogger returns a production logger named name.
func NewLogger(name string) Logger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return &zapLogger{s: base.Sugar().Named(name)}
}

// NewDebugLogger returns a logger with debug-level verbosity, for local runs
// and CLI diagnostics.
func NewDebugLogger(name string) Logger {
	base, err := zap.NewDevelopment()
	if err != nil {
		base = zap.NewNop()
	}
	return &zapLogger{s: base.Sugar().Named(name)}
}

// NewTestLogger returns a logger that writes to the test's own log output,
// matching go.viam.com/rdk/logging.NewTestLogger(t)'s call convention.
func NewTestLogger(t *testing.T) Logger {
	t.Helper()
	return &zapLogger{s: zaptest.NewLogger(t).Sugar()}
}
