// Package core provides a small, stable facade over fic's internal scanner,
// baseline store and comparator for external integrations.
//
// Example:
//
//	c := core.New(core.Options{BaselinePath: "/var/lib/fic/baseline.json"})
//	if _, err := c.CreateBaseline(ctx, "/etc"); err != nil { /* handle */ }
//	res, err := c.Check(ctx, "/etc")
//	if err != nil { /* handle */ }
//	_ = core.MarshalComparison(os.Stdout, res.Comparison)
package core
