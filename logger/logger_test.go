package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newBuffered(level Level, format Format) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewStdLogger()
	l.SetLevel(level)
	l.SetOutput(buf)
	l.SetFormat(format)
	return l, buf
}

func TestStructuredLogger(t *testing.T) {
	t.Run("TextFormat", func(t *testing.T) {
		l, buf := newBuffered(LevelInfo, FormatText)
		l.Info("hello %s", "world")

		output := buf.String()
		if !strings.Contains(output, "[ORAMAP]") || !strings.Contains(output, "INFO: hello world") {
			t.Errorf("Unexpected text output: %s", output)
		}
	})

	t.Run("JSONFormat", func(t *testing.T) {
		l, buf := newBuffered(LevelInfo, FormatJSON)
		l.Info("hello %s", "world")

		var data map[string]any
		if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
			t.Fatalf("Failed to unmarshal JSON output: %v", err)
		}
		if data["level"] != "INFO" || data["msg"] != "hello world" {
			t.Errorf("Unexpected JSON output: %v", data)
		}
		if _, ok := data["time"]; !ok {
			t.Errorf("Missing time field in JSON output")
		}
	})

	t.Run("WithFields", func(t *testing.T) {
		l, buf := newBuffered(LevelInfo, FormatJSON)
		l.WithFields(map[string]any{"table": "N_USER"}).Info("built")

		var data map[string]any
		if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
			t.Fatalf("Failed to unmarshal JSON output: %v", err)
		}
		if data["table"] != "N_USER" || data["msg"] != "built" {
			t.Errorf("Unexpected JSON output with fields: %v", data)
		}
	})

	t.Run("SQLJSON", func(t *testing.T) {
		l, buf := newBuffered(LevelInfo, FormatJSON)
		l.SQL(`SELECT N_USER."AGE" FROM N_USER WHERE N_USER."USER_ID"=:0`, 10*time.Millisecond, nil, "u1")

		var data map[string]any
		if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
			t.Fatalf("Failed to unmarshal JSON output: %v", err)
		}
		if data["level"] != "SQL" || data["duration"] != "10ms" {
			t.Errorf("Unexpected SQL JSON output: %v", data)
		}
		if _, ok := data["msg"]; ok {
			t.Errorf("SQL entries should not carry msg: %v", data)
		}
	})
}

func TestSQLError(t *testing.T) {
	l, buf := newBuffered(LevelError, FormatText)
	l.SQL("SELECT 1 FROM DUAL", time.Millisecond, nil)
	if buf.Len() != 0 {
		t.Fatalf("successful statement logged at error level: %s", buf.String())
	}

	l.SQL("DELETE FROM N_USER", time.Millisecond, errors.New("ORA-02292"))
	if out := buf.String(); !strings.Contains(out, "SQL-ERROR") || !strings.Contains(out, "ORA-02292") {
		t.Errorf("Unexpected error output: %s", out)
	}
}

func TestLevels(t *testing.T) {
	l, buf := newBuffered(LevelWarn, FormatText)
	l.Info("hidden")
	l.Warn("shown")
	l.Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "WARN: shown") || !strings.Contains(out, "ERROR: also shown") {
		t.Errorf("Unexpected level filtering: %s", out)
	}

	d := Discard()
	d.Error("nothing")
	d.SQL("SELECT 1", 0, errors.New("x"))
}

func TestDerivedLoggersShareOutput(t *testing.T) {
	l, buf := newBuffered(LevelInfo, FormatText)
	child := l.WithFields(map[string]any{"k": "v"})
	l.SetLevel(LevelSilent)
	child.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("level change did not reach derived logger: %s", buf.String())
	}
}

func TestSQLColor(t *testing.T) {
	tests := map[string]string{
		"select 1":       ansiYellow,
		" INSERT INTO T": ansiGreen,
		"UPDATE T SET":   ansiGreen,
		"MERGE INTO T":   ansiBlue,
		"DELETE FROM T":  ansiRed,
		"BEGIN":          ansiCyan,
	}
	for in, want := range tests {
		if got := sqlColor(in); got != want {
			t.Errorf("sqlColor(%q) = %q, want %q", in, got, want)
		}
	}
}
