package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/varalys/fic/internal/compare"
	"github.com/varalys/fic/internal/types"
)

func sampleResult() compare.Result {
	return compare.Compare(
		types.Entries{"a.txt": strings.Repeat("1", 64), "b.txt": strings.Repeat("2", 64), "gone.txt": "x"},
		types.Entries{"a.txt": strings.Repeat("1", 64), "b.txt": strings.Repeat("3", 64), "c.txt": "y"},
	)
}

func TestPrintText_NoChanges(t *testing.T) {
	var buf bytes.Buffer
	res := compare.Compare(types.Entries{"a": "1"}, types.Entries{"a": "1"})
	PrintText(&buf, res, PrintOptions{NoColor: true, Duration: 1200 * time.Millisecond})
	out := buf.String()
	if !strings.Contains(out, "No changes detected") {
		t.Fatalf("expected no-changes banner; got: %q", out)
	}
	if !strings.Contains(out, "Scan duration:  1.20s") {
		t.Fatalf("expected duration footer; got: %q", out)
	}
}

func TestPrintText_WithChanges(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, sampleResult(), PrintOptions{NoColor: true, BaselineTimestamp: "2026-01-01 00:00:00", BaselineDirectory: "/data"})
	out := buf.String()
	for _, want := range []string{
		"Baseline created:   2026-01-01 00:00:00",
		"Original directory: /data",
		"CHANGES DETECTED",
		"MODIFIED FILES (1):",
		"[~] b.txt",
		"old: 2222222222222222...",
		"new: 3333333333333333...",
		"NEW FILES (1):",
		"[+] c.txt",
		"DELETED FILES (1):",
		"[-] gone.txt",
		"Baseline files: 3",
		"Current files:  3",
		"Removed:        1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("NoColor output must not contain ANSI escapes")
	}
}

func TestPrintText_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	PrintText(&a, sampleResult(), PrintOptions{NoColor: true})
	PrintText(&b, sampleResult(), PrintOptions{NoColor: true})
	if a.String() != b.String() {
		t.Fatalf("reports differ between identical runs")
	}
}

func TestPrintText_OnlyUnreadable(t *testing.T) {
	var buf bytes.Buffer
	res := compare.CompareScan(types.Entries{"x": "1"}, types.Entries{}, []types.Skip{{Path: "x"}})
	PrintText(&buf, res, PrintOptions{NoColor: true})
	out := buf.String()
	if !strings.Contains(out, "COULD NOT BE VERIFIED") || !strings.Contains(out, "[?] x") {
		t.Fatalf("expected unreadable section; got: %q", out)
	}
}

func TestPrintTable_WithChanges(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTable(&buf, sampleResult(), PrintOptions{NoColor: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "STATUS") {
		t.Fatalf("expected table header with STATUS; got: %q", out)
	}
	for _, want := range []string{"modified", "added", "removed", "b.txt", "c.txt", "gone.txt"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in table: %q", want, out)
		}
	}
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	PrintInfo(&buf, Info{Timestamp: "2026-01-01 10:00:00", Directory: "/srv", FileCount: 42})
	out := buf.String()
	if !strings.Contains(out, "Files monitored: 42") || !strings.Contains(out, "Directory:       /srv") {
		t.Fatalf("unexpected info output: %q", out)
	}
}

func TestCheckDocument_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	doc := NewCheckDocument("/srv", sampleResult(), nil, PrintOptions{Duration: 2 * time.Second})
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	for _, k := range []string{"modified", "added", "removed", "unreadable", "skipped", "baseline_files", "current_files", "fingerprint", "clean"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing key %q in %v", k, m)
		}
	}
	if m["clean"] != false || m["duration_ms"] != float64(2000) {
		t.Fatalf("unexpected values: %v", m)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(sampleResult()); got != "modified=1 added=1 removed=1" {
		t.Fatalf("summary=%q", got)
	}
}
