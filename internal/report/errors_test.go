package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/varalys/fic/internal/baseline"
)

func TestExplain(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", fmt.Errorf("%w: /b.json", baseline.ErrNotFound), "Baseline file not found: /b.json"},
		{"corrupt", &baseline.CorruptError{Path: "/b.json", Err: errors.New("unexpected EOF")}, "Baseline file is corrupt: /b.json"},
		{"write", &baseline.WriteError{Path: "/b.json", Err: errors.New("read-only file system")}, "previous baseline was left unchanged"},
		{"canceled", fmt.Errorf("scan: %w", context.Canceled), "Interrupted."},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Explain(tc.err, "/b.json")
			if tc.want == "" {
				if got != "" {
					t.Fatalf("expected empty, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tc.want) {
				t.Fatalf("Explain() = %q, want substring %q", got, tc.want)
			}
		})
	}
}
