// Package audit appends one JSON line per dispatched chat request to a
// local trail file. Best effort only: trail problems never fail a
// request.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Trail captures how one request moved through the dispatcher.
type Trail struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
	CallerID   int64     `json:"caller_id"`
	Query      string    `json:"query"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Branch     string    `json:"branch"`
	Steps      []Step    `json:"steps,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Step is one timed phase of a dispatch (classify, fetch, retrieve,
// search, generate).
type Step struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"duration_ms"`
}

// Logger serializes trail writes. A nil Logger or an empty path
// disables the trail.
type Logger struct {
	mu   sync.Mutex
	path string
}

// NewLogger writes trails to path. An empty path returns a disabled
// logger.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Record appends one trail entry. Failures are swallowed.
func (l *Logger) Record(t Trail) {
	if l == nil || l.path == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = f.Write(data)
}
