package log

import (
	"testing"
)

func TestAppendAndReadAll(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewLogger(tmpDir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events := []LogEvent{
		{Event: EventUploadStarted, File: "data.csv", SampleRows: 100},
		{Event: EventUploadComplete, DatasetID: "ds-1", Rows: 120, Columns: 3, DurationMs: 840},
		{Event: EventChatSent},
	}
	for _, e := range events {
		if err := logger.Append(e); err != nil {
			t.Fatalf("Append(%s) failed: %v", e.Event, err)
		}
	}

	got, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ReadAll returned %d events, want 3", len(got))
	}

	if got[0].Event != EventUploadStarted || got[0].File != "data.csv" {
		t.Errorf("event[0] = %+v", got[0])
	}
	if got[1].DatasetID != "ds-1" || got[1].Rows != 120 || got[1].DurationMs != 840 {
		t.Errorf("event[1] = %+v", got[1])
	}
	for i, e := range got {
		if e.Time.IsZero() {
			t.Errorf("event[%d] has zero time", i)
		}
		if e.RunID != logger.RunID() {
			t.Errorf("event[%d].RunID = %q, want %q", i, e.RunID, logger.RunID())
		}
	}
}

func TestReadAllMissingFile(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestDistinctRunIDs(t *testing.T) {
	dir := t.TempDir()
	a, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	b, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if a.RunID() == b.RunID() {
		t.Error("two loggers share a run ID")
	}
}
