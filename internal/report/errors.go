package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/varalys/fic/internal/baseline"
)

// Explain turns a create/check/info failure into the message shown to a
// person, with a hint for what to do next where one exists.
func Explain(err error, baselinePath string) string {
	var corrupt *baseline.CorruptError
	var werr *baseline.WriteError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "Interrupted."
	case errors.Is(err, baseline.ErrNotFound):
		return fmt.Sprintf("Baseline file not found: %s\nCreate a baseline first with `fic baseline create DIR`.", baselinePath)
	case errors.As(err, &corrupt):
		return fmt.Sprintf("Baseline file is corrupt: %s\n%v\nRecreate it with `fic baseline create DIR`.", corrupt.Path, corrupt.Err)
	case errors.As(err, &werr):
		return fmt.Sprintf("Failed to save baseline: %s\n%v\nThe previous baseline was left unchanged.", werr.Path, werr.Err)
	default:
		return err.Error()
	}
}
