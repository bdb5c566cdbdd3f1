// Package fic provides the command-line interface for the fic file
// integrity checker. It configures subcommands (baseline, check,
// interactive, history, etc.), parses flags, and executes the selected
// command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/varalys/fic/cmd/fic"
//	func main() { fic.Execute() }
package fic
