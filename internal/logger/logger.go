package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is a thin wrapper over slog that carries a scope (package or
// component name) and an optional function/file qualifier on every line.
// The zero value is usable and logs through slog.Default().
type Logger struct {
	handler  *slog.Logger
	scope    string
	function string
	file     string
}

func New(scope string) Logger {
	return Logger{
		handler: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
		scope:   scope,
	}
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) base() *slog.Logger {
	log := l.handler
	if log == nil {
		log = slog.Default()
	}

	if l.scope != "" {
		log = log.With("scope", l.scope)
	}
	if l.function != "" {
		log = log.With("function", l.function)
	}
	if l.file != "" {
		log = log.With("file", l.file)
	}

	return log
}

func (l Logger) Info(msg string, args ...any) {
	l.base().Info(msg, args...)
}

func (l Logger) Debug(msg string, args ...any) {
	l.base().Debug(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.base().Warn(msg, args...)
}

// Err logs the error and returns it wrapped with the message so callers can
// propagate the result directly.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.base().Error(msg, append(args, "error", err)...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs and returns a new error built from the message alone.
func (l Logger) Error(msg string, args ...any) error {
	l.base().Error(msg, args...)
	return fmt.Errorf("%s", msg)
}

// ErrMsg is Error without key-value context.
func (l Logger) ErrMsg(msg string) error {
	l.base().Error(msg)
	return fmt.Errorf("%s", msg)
}

// Er logs an error without returning one.
func (l Logger) Er(msg string, err error, args ...any) {
	l.base().Error(msg, append(args, "error", err)...)
}

// ErMsg logs an error message without returning one.
func (l Logger) ErMsg(msg string) {
	l.base().Error(msg)
}
