// Package scanner orchestrates external analysis binaries: probing
// which tools are installed, fanning review requests out to them
// concurrently, and normalizing each tool's output into the common
// finding model.
//
// Tools are opaque black boxes. Each one is described by a registry
// entry implementing Tool; adding a scanner means adding one entry,
// never touching the controller.
package scanner

import (
	"time"

	"revet/internal/finding"
)

// Tool describes one external scanner: how to invoke it, which exit
// codes count as a successful run, and how to turn its stdout into
// findings.
type Tool interface {
	// Name identifies the tool in findings and logs.
	Name() string

	// Command is the executable name looked up at probe time.
	Command() string

	// BuildArgs returns the invocation arguments for reviewing path.
	// Stdin-fed tools may ignore path here.
	BuildArgs(path string) []string

	// WantsStdin reports whether the tool receives the file content on
	// standard input instead of a path argument. Stream scanners
	// (secret detectors) are built around diffs and pipes, not paths.
	WantsStdin() bool

	// ExitOK reports whether the exit code means the tool ran
	// successfully. Most tools use a nonzero code for "findings
	// present", which is still a successful run.
	ExitOK(code int) bool

	// Timeout bounds one invocation.
	Timeout() time.Duration

	// ExtraPaths returns additional directories searched for the
	// binary, for tools distributed via side-channel installers.
	// Resolved at lookup time; the process PATH is never mutated.
	ExtraPaths() []string

	// Parse converts the tool's raw stdout into findings for path.
	Parse(output []byte, path string) ([]finding.Finding, error)
}

// Scanner pairs a tool with its probed availability. Available and Bin
// are written once by the prober before any review is accepted and are
// read-only afterwards.
type Scanner struct {
	Tool      Tool
	Available bool
	Bin       string // resolved executable path, set when Available
}

// Registry returns the known external tools. Order is not significant;
// the controller joins results regardless of completion order.
func Registry() []Tool {
	return []Tool{
		newSemgrep(),
		newESLint(),
		newGitleaks(),
		newDevSkim(),
	}
}
