package compare

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/varalys/fic/internal/types"
)

// genEntries draws from a small key and digest space so generated baselines
// and scans overlap often.
func genEntries() gopter.Gen {
	keys := gen.OneConstOf("a.txt", "b.txt", "c.txt", "d/e.txt", "d/f.txt", "g")
	sums := gen.OneConstOf("H1", "H2", "H3")
	return gen.MapOf(keys, sums).Map(func(m map[string]string) types.Entries {
		return types.Entries(m)
	})
}

func TestCompare_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("compare(B, B) reports nothing", prop.ForAll(
		func(b types.Entries) bool {
			res := Compare(b, b)
			return !res.HasChanges() && res.Unchanged == len(b)
		},
		genEntries(),
	))

	properties.Property("every path is classified exactly once", prop.ForAll(
		func(b, c types.Entries) bool {
			res := Compare(b, c)
			seen := map[string]int{}
			for _, p := range res.ModifiedPaths() {
				seen[p]++
			}
			for _, p := range res.Added {
				seen[p]++
			}
			for _, p := range res.Removed {
				seen[p]++
			}
			unchanged := 0
			for p, sum := range c {
				if old, ok := b[p]; ok && old == sum {
					seen[p]++
					unchanged++
				}
			}
			union := map[string]bool{}
			for p := range b {
				union[p] = true
			}
			for p := range c {
				union[p] = true
			}
			if len(seen) != len(union) || unchanged != res.Unchanged {
				return false
			}
			for p := range union {
				if seen[p] != 1 {
					return false
				}
			}
			return true
		},
		genEntries(), genEntries(),
	))

	properties.Property("empty baseline marks everything added", prop.ForAll(
		func(c types.Entries) bool {
			res := Compare(types.Entries{}, c)
			return len(res.Added) == len(c) && len(res.Modified) == 0 && len(res.Removed) == 0
		},
		genEntries(),
	))

	properties.Property("empty scan marks everything removed", prop.ForAll(
		func(b types.Entries) bool {
			res := Compare(b, types.Entries{})
			return len(res.Removed) == len(b) && len(res.Modified) == 0 && len(res.Added) == 0
		},
		genEntries(),
	))

	properties.Property("inputs are not mutated", prop.ForAll(
		func(b, c types.Entries) bool {
			nb, nc := len(b), len(c)
			Compare(b, c)
			return len(b) == nb && len(c) == nc
		},
		genEntries(), genEntries(),
	))

	properties.TestingRun(t)
}
