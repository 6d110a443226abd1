package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/papapumpkin/pheno/internal/telemetry"
	"github.com/papapumpkin/pheno/internal/ui"
)

func TestEventFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter eventFilter
		evt    telemetry.RawEvent
		want   bool
	}{
		{"empty filter matches", eventFilter{}, telemetry.RawEvent{Kind: "run_start"}, true},
		{"run prefix", eventFilter{run: "abc"}, telemetry.RawEvent{RunID: "abcdef"}, true},
		{"run mismatch", eventFilter{run: "xyz"}, telemetry.RawEvent{RunID: "abcdef"}, false},
		{"kind selected", eventFilter{kinds: map[string]bool{"phase_changed": true}}, telemetry.RawEvent{Kind: "phase_changed"}, true},
		{"kind excluded", eventFilter{kinds: map[string]bool{"phase_changed": true}}, telemetry.RawEvent{Kind: "post_phenology"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.filter.match(tt.evt); got != tt.want {
				t.Errorf("match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrintLines(t *testing.T) {
	t.Parallel()
	input := `{"ts":"2025-01-01T00:00:00Z","kind":"run_start","run":"r1"}
not json
{"ts":"2025-01-01T00:00:01Z","kind":"post_phenology","run":"r1","day":1}
{"ts":"2025-01-01T00:00:02Z","kind":"phase_changed","run":"r1","day":1}`

	var buf bytes.Buffer
	printer := ui.NewWriter(&buf, true)
	filter := eventFilter{kinds: map[string]bool{"run_start": true, "phase_changed": true}}
	if err := printLines(bufio.NewReader(strings.NewReader(input)), printer, filter); err != nil {
		t.Fatalf("printLines: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "run_start") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "??? not json") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "day 1 phase_changed") {
		t.Errorf("line 2 = %q", lines[2])
	}
}
