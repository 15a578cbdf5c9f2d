package logger

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes one JSON object per line. Every entry carries ts, level,
// component and event; callers add their own fields.
type Logger struct {
	mu        *sync.Mutex
	out       io.Writer
	loc       *time.Location
	component string
}

// New returns a Logger writing to out with timestamps rendered in loc.
// A nil out defaults to stdout and a nil loc to UTC.
func New(out io.Writer, loc *time.Location) *Logger {
	if out == nil {
		out = os.Stdout
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, out: out, loc: loc}
}

// Nop discards everything. Handy for tests and optional dependencies.
func Nop() *Logger {
	return New(io.Discard, time.UTC)
}

// With returns a child logger tagged with component. The child shares the
// parent's writer and lock.
func (l *Logger) With(component string) *Logger {
	child := *l
	child.component = component
	return &child
}

// Location returns the time zone used for the ts field.
func (l *Logger) Location() *time.Location {
	return l.loc
}

func (l *Logger) Info(event string, fields map[string]any) {
	l.write("info", event, nil, fields)
}

func (l *Logger) Warn(event string, fields map[string]any) {
	l.write("warn", event, nil, fields)
}

func (l *Logger) Error(event string, err error, fields map[string]any) {
	l.write("error", event, err, fields)
}

func (l *Logger) write(level, event string, err error, fields map[string]any) {
	entry := make(map[string]any, len(fields)+5)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	entry["level"] = level
	entry["event"] = event
	if l.component != "" {
		entry["component"] = l.component
	}
	if err != nil {
		entry["error_message"] = err.Error()
	}

	b, mErr := json.Marshal(entry)
	if mErr != nil {
		b, _ = json.Marshal(map[string]any{
			"ts":            entry["ts"],
			"level":         "error",
			"event":         "log_marshal_failed",
			"error_message": mErr.Error(),
		})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(b, '\n'))
}
