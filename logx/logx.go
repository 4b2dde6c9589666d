// Package logx adapts the physics core's logging calls to
// github.com/heroiclabs/nakama-common/runtime.Logger, the same interface
// the teacher repository threads through its PhysicsEngine, DatabaseManager
// and ScriptEngine. The core never depends on a running Nakama instance;
// callers outside one can use Std() or Null().
package logx

import (
	"log"
	"os"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Null returns a Logger that discards everything. Useful for tests and for
// callers that don't care about diagnostics.
func Null() runtime.Logger { return nullLogger{} }

// Std returns a Logger backed by the standard library's log package,
// prefixed so physics-core output is easy to grep out of a larger program.
func Std() runtime.Logger {
	return &stdLogger{l: log.New(os.Stderr, "physics: ", log.LstdFlags)}
}

type nullLogger struct{}

func (nullLogger) Debug(string, ...interface{}) {}
func (nullLogger) Info(string, ...interface{})  {}
func (nullLogger) Warn(string, ...interface{})  {}
func (nullLogger) Error(string, ...interface{}) {}
func (l nullLogger) WithField(string, interface{}) runtime.Logger     { return l }
func (l nullLogger) WithFields(map[string]interface{}) runtime.Logger { return l }
func (nullLogger) Fields() map[string]interface{}                     { return nil }

type stdLogger struct {
	l      *log.Logger
	fields map[string]interface{}
}

func (s *stdLogger) Debug(format string, args ...interface{}) { s.l.Printf("DEBUG "+format, args...) }
func (s *stdLogger) Info(format string, args ...interface{})  { s.l.Printf("INFO  "+format, args...) }
func (s *stdLogger) Warn(format string, args ...interface{})  { s.l.Printf("WARN  "+format, args...) }
func (s *stdLogger) Error(format string, args ...interface{}) { s.l.Printf("ERROR "+format, args...) }

func (s *stdLogger) WithField(key string, value interface{}) runtime.Logger {
	return s.WithFields(map[string]interface{}{key: value})
}

func (s *stdLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(s.fields)+len(fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &stdLogger{l: s.l, fields: merged}
}

func (s *stdLogger) Fields() map[string]interface{} { return s.fields }
