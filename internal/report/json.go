package report

import (
	"encoding/json"
	"io"

	"github.com/varalys/fic/internal/compare"
	"github.com/varalys/fic/internal/types"
)

// CheckDocument is the machine-readable form of one integrity check.
type CheckDocument struct {
	Directory         string `json:"directory"`
	BaselineTimestamp string `json:"baseline_timestamp"`
	BaselineDirectory string `json:"baseline_directory"`
	compare.Result
	Skipped     []types.Skip `json:"skipped"`
	Clean       bool         `json:"clean"`
	Fingerprint string       `json:"fingerprint"`
	DurationMS  int64        `json:"duration_ms"`
}

// NewCheckDocument assembles a CheckDocument. Skipped is never null.
func NewCheckDocument(dir string, res compare.Result, skipped []types.Skip, opts PrintOptions) CheckDocument {
	if skipped == nil {
		skipped = []types.Skip{}
	}
	return CheckDocument{
		Directory:         dir,
		BaselineTimestamp: opts.BaselineTimestamp,
		BaselineDirectory: opts.BaselineDirectory,
		Result:            res,
		Skipped:           skipped,
		Clean:             res.Clean(),
		Fingerprint:       res.Fingerprint(),
		DurationMS:        opts.Duration.Milliseconds(),
	}
}

// WriteJSON pretty-prints v as JSON for humans or pipelines.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
