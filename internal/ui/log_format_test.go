package ui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatLogLine(t *testing.T) {
	oldLocal := time.Local
	time.Local = time.FixedZone("TestLocal", -5*60*60)
	defer func() {
		time.Local = oldLocal
	}()

	line := `{"level":"warn","component":"books","id":"b1","status":400,"time":"2025-12-13T10:11:12Z","message":" save failed: bad request "}`
	got := formatLogLine(line)
	if wantSub := "2025-12-13 05:11:12 WARN [books] – save failed: bad request"; !strings.HasPrefix(got, wantSub) {
		t.Fatalf("formatLogLine = %q, want prefix %q", got, wantSub)
	}
	if !strings.Contains(got, "\n    - id: b1\n    - status: 400") {
		t.Fatalf("formatLogLine details not sorted or missing: %q", got)
	}
}

func TestFormatLogLinePassesThroughPlainText(t *testing.T) {
	for _, line := range []string{"plain text", "{not json", ""} {
		if got := formatLogLine(line); got != line {
			t.Fatalf("formatLogLine(%q) = %q, want unchanged", line, got)
		}
	}
}

func TestFormatLogLineDefaultsLevel(t *testing.T) {
	got := formatLogLine(`{"message":"hi"}`)
	if got != "INFO – hi" {
		t.Fatalf("formatLogLine = %q, want %q", got, "INFO – hi")
	}
}

func TestFormatLogLinesSplitsDetails(t *testing.T) {
	lines := formatLogLines([]string{
		`{"level":"info","message":"a","count":2}`,
		"raw",
	})
	if len(lines) != 3 {
		t.Fatalf("formatLogLines = %q, want 3 lines", lines)
	}
	if lines[1] != "    - count: 2" || lines[2] != "raw" {
		t.Fatalf("formatLogLines = %q", lines)
	}
	if formatLogLines(nil) != nil {
		t.Fatalf("formatLogLines(nil) should be nil")
	}
}

func TestTrimLogBuffer(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	got := trimLogBuffer(lines, 2)
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Fatalf("trimLogBuffer = %q, want [c d]", got)
	}
	if got := trimLogBuffer(lines, 10); len(got) != 4 {
		t.Fatalf("trimLogBuffer under limit = %q", got)
	}
}
