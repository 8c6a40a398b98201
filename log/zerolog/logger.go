// Package zerolog implements the logger interface with github.com/rs/zerolog.
package zerolog

import (
	"fmt"
	"io"

	"github.com/beatlabs/resource/log"
	"github.com/rs/zerolog"
)

var levelMap = map[log.Level]zerolog.Level{
	log.NoLevel:    zerolog.Disabled,
	log.DebugLevel: zerolog.DebugLevel,
	log.InfoLevel:  zerolog.InfoLevel,
	log.WarnLevel:  zerolog.WarnLevel,
	log.ErrorLevel: zerolog.ErrorLevel,
}

func init() {
	zerolog.LevelFieldName = "lvl"
	zerolog.MessageFieldName = "msg"
}

var _ log.Logger = &Logger{}

// Logger implements logging with zerolog.
type Logger struct {
	logger *zerolog.Logger
	fields map[string]interface{}
	lvl    log.Level
}

// New returns a JSON logger writing to out. The source of every call is logged in "caller".
func New(out io.Writer, lvl log.Level, fields map[string]interface{}) log.Logger {
	zl := zerolog.New(out).With().Timestamp().CallerWithSkipFrameCount(3).Logger()
	return newLogger(&zl, lvl, fields)
}

// FromLogger wraps an existing zerolog logger.
func FromLogger(l *zerolog.Logger, lvl log.Level, fields map[string]interface{}) log.Logger {
	return newLogger(l, lvl, fields)
}

func newLogger(l *zerolog.Logger, lvl log.Level, fields map[string]interface{}) *Logger {
	if len(fields) == 0 {
		fields = make(map[string]interface{})
	}
	zl := l.Level(levelMap[lvl]).With().Fields(fields).Logger()
	return &Logger{logger: &zl, fields: fields, lvl: lvl}
}

// Sub returns a sub logger with new fields attached.
func (l *Logger) Sub(fields map[string]interface{}) log.Logger {
	if len(fields) == 0 {
		return l
	}
	all := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}
	zl := l.logger.With().Fields(fields).Logger()
	return &Logger{logger: &zl, fields: all, lvl: l.lvl}
}

// Level returns the minimum level.
func (l *Logger) Level() log.Level {
	return l.lvl
}

// Error logging.
func (l *Logger) Error(args ...interface{}) {
	l.count(log.ErrorLevel)
	l.logger.Error().Msg(fmt.Sprint(args...))
}

// Errorf logging.
func (l *Logger) Errorf(msg string, args ...interface{}) {
	l.count(log.ErrorLevel)
	l.logger.Error().Msgf(msg, args...)
}

// Warn logging.
func (l *Logger) Warn(args ...interface{}) {
	l.count(log.WarnLevel)
	l.logger.Warn().Msg(fmt.Sprint(args...))
}

// Warnf logging.
func (l *Logger) Warnf(msg string, args ...interface{}) {
	l.count(log.WarnLevel)
	l.logger.Warn().Msgf(msg, args...)
}

// Info logging.
func (l *Logger) Info(args ...interface{}) {
	l.count(log.InfoLevel)
	l.logger.Info().Msg(fmt.Sprint(args...))
}

// Infof logging.
func (l *Logger) Infof(msg string, args ...interface{}) {
	l.count(log.InfoLevel)
	l.logger.Info().Msgf(msg, args...)
}

// Debug logging.
func (l *Logger) Debug(args ...interface{}) {
	l.count(log.DebugLevel)
	l.logger.Debug().Msg(fmt.Sprint(args...))
}

// Debugf logging.
func (l *Logger) Debugf(msg string, args ...interface{}) {
	l.count(log.DebugLevel)
	l.logger.Debug().Msgf(msg, args...)
}

func (l *Logger) count(lvl log.Level) {
	if l.lvl == log.NoLevel || log.LevelOrder(l.lvl) > log.LevelOrder(lvl) {
		return
	}
	log.LevelCount(lvl).Inc()
}
