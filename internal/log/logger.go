// Package log provides structured event logging.
// This file appends JSON events to log.jsonl.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event type constants.
const (
	EventRunStarted     = "run_started"
	EventUploadStarted  = "upload_started"
	EventUploadComplete = "upload_complete"
	EventUploadFailed   = "upload_failed"
	EventHistoryLoaded  = "history_loaded"
	EventChatSent       = "chat_sent"
	EventChatReply      = "chat_reply"
	EventChatFailed     = "chat_failed"
	EventProfileLoaded  = "profile_loaded"
	EventProfileSaved   = "profile_saved"
	EventResetComplete  = "reset_complete"
	EventResetFailed    = "reset_failed"
)

// LogEvent represents a single structured event written to the log.
type LogEvent struct {
	Time       time.Time `json:"time"`
	Event      string    `json:"event"`
	RunID      string    `json:"run,omitempty"`
	DatasetID  string    `json:"dataset,omitempty"`
	File       string    `json:"file,omitempty"`
	SampleRows int       `json:"sample_rows,omitempty"`
	Rows       int       `json:"rows,omitempty"`
	Columns    int       `json:"columns,omitempty"`
	Turns      int       `json:"turns,omitempty"`
	Facts      int       `json:"facts,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
}

// Logger writes append-only JSONL events to a log file. Every event carries
// the run ID assigned when the Logger was created.
type Logger struct {
	path  string
	runID string
	mu    sync.Mutex
}

// NewLogger creates a Logger that writes to .datadeck/log.jsonl inside dir.
// Creates the .datadeck/ directory if it does not already exist.
// Does not truncate an existing log file.
func NewLogger(dir string) (*Logger, error) {
	deckDir := filepath.Join(dir, ".datadeck")
	if err := os.MkdirAll(deckDir, 0755); err != nil {
		return nil, fmt.Errorf("create .datadeck directory: %w", err)
	}

	return &Logger{
		path:  filepath.Join(deckDir, "log.jsonl"),
		runID: uuid.NewString(),
	}, nil
}

// RunID returns the identifier stamped on this logger's events.
func (l *Logger) RunID() string {
	return l.runID
}

// Append writes a single LogEvent as one JSON line to the log file.
// If event.Time is the zero value, it is automatically set to time.Now().UTC().
// The file is opened in append mode, written to, and then closed.
// Thread-safe via mutex.
func (l *Logger) Append(event LogEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	if event.RunID == "" {
		event.RunID = l.runID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}

	return nil
}

// ReadAll reads and parses all events from the log file.
// Returns an empty slice (not an error) if the file does not exist.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []LogEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event LogEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	return events, nil
}
