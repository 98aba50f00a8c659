package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStdoutWriterEmitsJSONLines(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &StdoutWriter{out: buf}
	row := RunRow{RunID: "r1", Scenario: "s1", Algorithm: "berkeley", Timestamp: time.Unix(0, 0)}
	if err := w.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.WriteNode(NodeRow{RunID: "r1", NodeID: 3}); err != nil {
		t.Fatalf("node write failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var got RunRow
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	if got.RunID != "r1" || got.Algorithm != "berkeley" {
		t.Errorf("decoded row mismatch: %+v", got)
	}
}

func TestStdoutWriterBatch(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &StdoutWriter{out: buf}
	rows := []NodeRow{{RunID: "r1", NodeID: 0}, {RunID: "r1", NodeID: 1}}
	if err := w.WriteNodes(rows); err != nil {
		t.Fatalf("WriteNodes: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("expected 2 lines, got %d", got)
	}
}
