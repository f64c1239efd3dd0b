// Package diagnostics is the logging/debug-printing sink the core treats
// as an external collaborator: a severity plus a message, with
// no opinion on where it ends up. It wraps logrus the way the rest of
// this module's ambient stack does.
package diagnostics

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Sink is the interpreter's diagnostic collaborator: a severity plus a
// message and optional key/value fields, with no opinion on formatting.
type Sink interface {
	Error(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Trace(msg string, fields ...interface{})
}

type logrusSink struct {
	log *logrus.Logger
}

// New builds a Sink writing to w at the given level ("error", "warn",
// "info", "trace", case-insensitively; an unrecognized level falls back
// to Info).
func New(w io.Writer, level string) Sink {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return &logrusSink{log: log}
}

func fieldsOf(args []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		f[key] = args[i+1]
	}
	return f
}

func (s *logrusSink) Error(msg string, fields ...interface{}) {
	s.log.WithFields(fieldsOf(fields)).Error(msg)
}
func (s *logrusSink) Warn(msg string, fields ...interface{}) {
	s.log.WithFields(fieldsOf(fields)).Warn(msg)
}
func (s *logrusSink) Info(msg string, fields ...interface{}) {
	s.log.WithFields(fieldsOf(fields)).Info(msg)
}
func (s *logrusSink) Trace(msg string, fields ...interface{}) {
	s.log.WithFields(fieldsOf(fields)).Trace(msg)
}
