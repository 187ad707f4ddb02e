package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trail", "dispatch.json")
	logger := NewLogger(path)

	logger.Record(Trail{
		Timestamp:  time.Now(),
		RequestID:  "req-1",
		CallerID:   42,
		Query:      "my attendance",
		Intent:     "attendance",
		Confidence: 0.93,
		Branch:     "records",
		Steps:      []Step{{Name: "classify", DurationMs: 3}, {Name: "generate", DurationMs: 210}},
	})
	logger.Record(Trail{RequestID: "req-2", Intent: "general", Error: "generation failed"})

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Trail file not written: %v", err)
	}
	defer f.Close()

	var trails []Trail
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var tr Trail
		if err := json.Unmarshal(scanner.Bytes(), &tr); err != nil {
			t.Fatalf("Trail line is not valid JSON: %v", err)
		}
		trails = append(trails, tr)
	}

	if len(trails) != 2 {
		t.Fatalf("Expected 2 trail lines, got %d", len(trails))
	}
	if trails[0].RequestID != "req-1" || trails[0].Intent != "attendance" {
		t.Errorf("Unexpected first trail: %+v", trails[0])
	}
	if len(trails[0].Steps) != 2 || trails[0].Steps[1].Name != "generate" {
		t.Errorf("Unexpected steps: %+v", trails[0].Steps)
	}
	if trails[1].Error != "generation failed" {
		t.Errorf("Expected error recorded, got %+v", trails[1])
	}
}

func TestRecordDisabled(t *testing.T) {
	// Neither a nil logger nor an empty path may panic or write.
	var nilLogger *Logger
	nilLogger.Record(Trail{RequestID: "x"})

	NewLogger("").Record(Trail{RequestID: "y"})
}
