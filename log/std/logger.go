// Package std implements the logger interface with the standard log package, writing
// logfmt-like lines. It suits tests and tools that do not want JSON output.
package std

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	rlog "github.com/beatlabs/resource/log"
)

var levelMap = map[rlog.Level]string{
	rlog.DebugLevel: "DBG",
	rlog.InfoLevel:  "INF",
	rlog.WarnLevel:  "WRN",
	rlog.ErrorLevel: "ERR",
}

var _ rlog.Logger = &Logger{}

// Logger implementation of the std log.
type Logger struct {
	level      rlog.Level
	fields     map[string]interface{}
	fieldsLine string
	out        io.Writer
	flags      int
	logger     *log.Logger
}

// New constructor.
func New(out io.Writer, lvl rlog.Level, fields map[string]interface{}) *Logger {
	return NewWithFlags(out, lvl, fields, log.LstdFlags|log.Lmicroseconds|log.LUTC)
}

// NewWithFlags constructor with the flags of the standard logger.
func NewWithFlags(out io.Writer, lvl rlog.Level, fields map[string]interface{}, flags int) *Logger {
	return &Logger{
		level:      lvl,
		fields:     fields,
		fieldsLine: createFieldsLine(fields),
		out:        out,
		flags:      flags,
		logger:     log.New(out, "", flags),
	}
}

func createFieldsLine(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	// always return the fields in the same order
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sb := strings.Builder{}
	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteRune('=')
		sb.WriteString(quote(fmt.Sprintf("%v", fields[key])))
		sb.WriteRune(' ')
	}
	return sb.String()
}

func quote(s string) string {
	if strings.ContainsAny(s, " \t\n\"\\") {
		return strconv.Quote(s)
	}
	return s
}

// Sub returns a sub logger with additional fields.
func (l *Logger) Sub(fields map[string]interface{}) rlog.Logger {
	all := make(map[string]interface{}, len(l.fields)+len(fields))
	for key, value := range l.fields {
		all[key] = value
	}
	for key, value := range fields {
		all[key] = value
	}
	return NewWithFlags(l.out, l.level, all, l.flags)
}

// Error logging.
func (l *Logger) Error(args ...interface{}) {
	l.output(rlog.ErrorLevel, fmt.Sprint(args...))
}

// Errorf logging.
func (l *Logger) Errorf(msg string, args ...interface{}) {
	l.output(rlog.ErrorLevel, fmt.Sprintf(msg, args...))
}

// Warn logging.
func (l *Logger) Warn(args ...interface{}) {
	l.output(rlog.WarnLevel, fmt.Sprint(args...))
}

// Warnf logging.
func (l *Logger) Warnf(msg string, args ...interface{}) {
	l.output(rlog.WarnLevel, fmt.Sprintf(msg, args...))
}

// Info logging.
func (l *Logger) Info(args ...interface{}) {
	l.output(rlog.InfoLevel, fmt.Sprint(args...))
}

// Infof logging.
func (l *Logger) Infof(msg string, args ...interface{}) {
	l.output(rlog.InfoLevel, fmt.Sprintf(msg, args...))
}

// Debug logging.
func (l *Logger) Debug(args ...interface{}) {
	l.output(rlog.DebugLevel, fmt.Sprint(args...))
}

// Debugf logging.
func (l *Logger) Debugf(msg string, args ...interface{}) {
	l.output(rlog.DebugLevel, fmt.Sprintf(msg, args...))
}

// Level of the logging.
func (l *Logger) Level() rlog.Level {
	return l.level
}

func (l *Logger) shouldLog(lvl rlog.Level) bool {
	return l.level != rlog.NoLevel && rlog.LevelOrder(l.level) <= rlog.LevelOrder(lvl)
}

func (l *Logger) output(lvl rlog.Level, msg string) {
	if !l.shouldLog(lvl) {
		return
	}
	rlog.LevelCount(lvl).Inc()
	_ = l.logger.Output(3, levelMap[lvl]+" "+l.fieldsLine+"message="+strconv.Quote(msg))
}
