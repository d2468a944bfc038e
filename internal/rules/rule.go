// Package rules implements the in-process detection layer of the review
// engine: declarative rule registries evaluated against raw file content
// with no I/O and no subprocesses.
package rules

import (
	"regexp"

	"revet/internal/finding"
)

// Match is one hit produced by a predicate rule. The engine fills in the
// rule's static metadata; a predicate only decides what and where.
type Match struct {
	Message string
	Line    int
}

// CheckFunc is a pure detection function for rules that a single-line
// regex cannot express (cross-line structure, parsed frontmatter).
// It receives the whole file content and returns zero or more matches.
type CheckFunc func(content string) []Match

// Rule is one detection definition. Exactly one of Regex or Check is
// set; the engine switches on which variant is present. Rules are
// immutable once the registry is built.
type Rule struct {
	ID          string
	Name        string
	Severity    finding.Severity
	Description string
	Fix         string
	Category    string

	// Detection variant. Regex rules are scanned line by line, every
	// matching substring yields one finding. Check rules see the whole
	// file.
	Regex *regexp.Regexp
	Check CheckFunc
}

// Registry is a named, immutable collection of rules plus the file
// classes it applies to.
type Registry struct {
	Name  string
	Rules []Rule

	// Extensions the registry applies to. Empty means every file.
	Extensions []string
}

// Applies reports whether the registry should run against the given
// file extension (lowercase, including the dot).
func (r Registry) Applies(ext string) bool {
	if len(r.Extensions) == 0 {
		return true
	}
	for _, e := range r.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// All returns every built-in registry. The slice is rebuilt on each call
// so callers cannot mutate shared state.
func All() []Registry {
	return []Registry{
		SecurityRegistry(),
		TypeScriptRegistry(),
		DocsRegistry(),
	}
}

// ForFile returns the registries that apply to the given file path's
// extension.
func ForFile(ext string) []Registry {
	var out []Registry
	for _, reg := range All() {
		if reg.Applies(ext) {
			out = append(out, reg)
		}
	}
	return out
}
