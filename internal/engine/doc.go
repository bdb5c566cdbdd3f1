// Package engine contains the tree scanner. It walks a root directory,
// prunes excluded entries before descending, hashes every remaining regular
// file and returns a mapping keyed by root-relative paths. External
// consumers should use the stable facade in pkg/core.
package engine
