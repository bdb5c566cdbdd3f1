package core

import (
	"encoding/json"
	"io"
)

// MarshalComparison pretty-prints a comparison as JSON for humans or pipelines.
func MarshalComparison(w io.Writer, c Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// UnmarshalComparison decodes comparison JSON, useful for ingestion tests.
func UnmarshalComparison(r io.Reader) (Comparison, error) {
	var c Comparison
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return Comparison{}, err
	}
	return c, nil
}
