// Package log provides the logging abstraction of the module. A logger is set up once and
// can be carried in a context, so actions log with the fields of their caller.
package log

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/beatlabs/resource/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// The Level type definition.
type Level string

const (
	// DebugLevel level.
	DebugLevel Level = "debug"
	// InfoLevel level.
	InfoLevel Level = "info"
	// WarnLevel level.
	WarnLevel Level = "warn"
	// ErrorLevel level.
	ErrorLevel Level = "error"
	// NoLevel level.
	NoLevel Level = ""
)

var levelOrder = map[Level]int{
	DebugLevel: 0,
	InfoLevel:  1,
	WarnLevel:  2,
	ErrorLevel: 3,
	NoLevel:    4,
}

var logCounter = metric.MustRegister(metric.NewCounter("log", "counter", "Counts logger calls per level", "level"))

// Logger interface definition of a logger.
type Logger interface {
	Sub(map[string]interface{}) Logger
	Error(...interface{})
	Errorf(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Debug(...interface{})
	Debugf(string, ...interface{})
	Level() Level
}

type ctxKey struct{}

var (
	mu     sync.RWMutex
	logger Logger = nopLogger{}
)

// ParseLevel returns the level of its name, case insensitive.
func ParseLevel(s string) (Level, error) {
	lvl := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelOrder[lvl]; !ok || lvl == NoLevel {
		return NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// LevelOrder returns the numerical order of the level.
func LevelOrder(lvl Level) int {
	return levelOrder[lvl]
}

// LevelCount returns the counter of the level.
func LevelCount(level Level) prometheus.Counter {
	return logCounter.WithLabelValues(string(level))
}

// ResetLogCounter resets the log counter.
func ResetLogCounter() {
	logCounter.Reset()
}

// Setup logging by providing the logger used when the context carries none.
func Setup(l Logger) error {
	if l == nil {
		return errors.New("logger is nil")
	}
	mu.Lock()
	defer mu.Unlock()
	logger = l
	return nil
}

func global() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// FromContext returns the logger in the context or the global one.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return global()
	}
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok && l != nil {
		return l
	}
	return global()
}

// WithContext associates a logger with a context for later reuse.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Sub returns a sub logger with new fields attached.
func Sub(ff map[string]interface{}) Logger {
	return global().Sub(ff)
}

// Error logging.
func Error(args ...interface{}) {
	global().Error(args...)
}

// Errorf logging.
func Errorf(msg string, args ...interface{}) {
	global().Errorf(msg, args...)
}

// Warn logging.
func Warn(args ...interface{}) {
	global().Warn(args...)
}

// Warnf logging.
func Warnf(msg string, args ...interface{}) {
	global().Warnf(msg, args...)
}

// Info logging.
func Info(args ...interface{}) {
	global().Info(args...)
}

// Infof logging.
func Infof(msg string, args ...interface{}) {
	global().Infof(msg, args...)
}

// Debug logging.
func Debug(args ...interface{}) {
	global().Debug(args...)
}

// Debugf logging.
func Debugf(msg string, args ...interface{}) {
	global().Debugf(msg, args...)
}

// Enabled shows if the logger logs for the given level.
func Enabled(l Level) bool {
	return levelOrder[global().Level()] <= levelOrder[l]
}

// nopLogger is used until Setup is called, a library stays silent unless asked.
type nopLogger struct{}

func (n nopLogger) Sub(map[string]interface{}) Logger { return n }
func (nopLogger) Error(...interface{}) {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Warn(...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}
func (nopLogger) Info(...interface{}) {}
func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Debug(...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Level() Level                        { return NoLevel }
