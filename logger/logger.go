package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
)

// Level defines the severity of the log
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelWarn
	LevelInfo
)

// Format defines the output format of the log
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Logger is the interface for logging SQL and internal messages
type Logger interface {
	SetLevel(level Level)
	SetFormat(format Format)
	SetOutput(w io.Writer)
	WithFields(fields map[string]any) Logger
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	// SQL logs an executed statement. Failed statements are logged at error
	// level, the rest at info level.
	SQL(sql string, duration time.Duration, err error, args ...any)
}

// output is shared by a logger and every logger derived from it through WithFields.
type output struct {
	mu     sync.Mutex
	level  Level
	format Format
	writer io.Writer
}

type stdLogger struct {
	out    *output
	fields map[string]any
}

// NewStdLogger creates a text logger writing info and above to stdout.
func NewStdLogger() Logger {
	return &stdLogger{
		out: &output{
			level:  LevelInfo,
			format: FormatText,
			writer: os.Stdout,
		},
	}
}

// Discard returns a logger that drops every message.
func Discard() Logger {
	l := NewStdLogger()
	l.SetLevel(LevelSilent)
	l.SetOutput(io.Discard)
	return l
}

func (l *stdLogger) SetLevel(level Level) {
	l.out.mu.Lock()
	l.out.level = level
	l.out.mu.Unlock()
}

func (l *stdLogger) SetFormat(format Format) {
	l.out.mu.Lock()
	l.out.format = format
	l.out.mu.Unlock()
}

func (l *stdLogger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	l.out.writer = w
	l.out.mu.Unlock()
}

func (l *stdLogger) WithFields(fields map[string]any) Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &stdLogger{out: l.out, fields: merged}
}

func (l *stdLogger) enabled(level Level) bool {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return l.out.level >= level
}

func (l *stdLogger) Info(format string, args ...any) {
	if l.enabled(LevelInfo) {
		l.log("INFO", fmt.Sprintf(format, args...), nil)
	}
}

func (l *stdLogger) Warn(format string, args ...any) {
	if l.enabled(LevelWarn) {
		l.log("WARN", fmt.Sprintf(format, args...), nil)
	}
}

func (l *stdLogger) Error(format string, args ...any) {
	if l.enabled(LevelError) {
		l.log("ERROR", fmt.Sprintf(format, args...), nil)
	}
}

func (l *stdLogger) SQL(sql string, duration time.Duration, err error, args ...any) {
	if args == nil {
		args = []any{}
	}
	if err != nil {
		if l.enabled(LevelError) {
			l.log("SQL-ERROR", fmt.Sprintf("[%v] %s | args: %v | error: %v", duration, sql, args, err),
				map[string]any{"sql": sql, "duration": duration.String(), "args": args, "error": err.Error()})
		}
		return
	}
	if l.enabled(LevelInfo) {
		l.log("SQL", fmt.Sprintf("%s[%v] %s | args: %v%s", sqlColor(sql), duration, sql, args, ansiReset),
			map[string]any{"sql": sql, "duration": duration.String(), "args": args})
	}
}

// log writes one entry. data replaces msg in JSON output when set.
func (l *stdLogger) log(level, msg string, data map[string]any) {
	now := time.Now()
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.format == FormatJSON {
		entry := make(map[string]any, len(l.fields)+len(data)+3)
		for k, v := range l.fields {
			entry[k] = v
		}
		for k, v := range data {
			entry[k] = v
		}
		entry["time"] = now.Format(time.RFC3339)
		entry["level"] = level
		if data == nil {
			entry["msg"] = msg
		}
		_ = json.NewEncoder(l.out.writer).Encode(entry)
		return
	}

	fieldStr := ""
	if len(l.fields) > 0 {
		fieldStr = fmt.Sprintf(" fields: %v", l.fields)
	}
	fmt.Fprintf(l.out.writer, "[ORAMAP] %s %s: %s%s\n", now.Format("2006-01-02 15:04:05"), level, msg, fieldStr)
}

func sqlColor(sqlStr string) string {
	s := strings.TrimSpace(strings.ToUpper(sqlStr))
	switch {
	case strings.HasPrefix(s, "SELECT"):
		return ansiYellow
	case strings.HasPrefix(s, "INSERT"), strings.HasPrefix(s, "UPDATE"):
		return ansiGreen
	case strings.HasPrefix(s, "MERGE"):
		return ansiBlue
	case strings.HasPrefix(s, "DELETE"):
		return ansiRed
	default:
		return ansiCyan
	}
}
