package scanner

import (
	"encoding/json"
	"fmt"
	"time"

	"revet/internal/finding"
)

// gitleaks detects exposed credentials. It is the one stdin-fed tool:
// stream scanners are built around pipes and commit diffs, not file
// paths, so the controller hands it the staged content directly. Exit 1
// means leaks were found.
type gitleaks struct{}

func newGitleaks() gitleaks { return gitleaks{} }

func (gitleaks) Name() string    { return "gitleaks" }
func (gitleaks) Command() string { return "gitleaks" }

func (gitleaks) BuildArgs(path string) []string {
	return []string{"stdin", "--no-banner", "--report-format", "json", "--report-path", "/dev/stdout"}
}

func (gitleaks) WantsStdin() bool       { return true }
func (gitleaks) ExitOK(code int) bool   { return code == 0 || code == 1 }
func (gitleaks) Timeout() time.Duration { return 10 * time.Second }
func (gitleaks) ExtraPaths() []string   { return nil }

// gitleaksJSON is the report array written by --report-format json.
type gitleaksJSON []struct {
	RuleID      string `json:"RuleID"`
	Description string `json:"Description"`
	StartLine   int    `json:"StartLine"`
	StartColumn int    `json:"StartColumn"`
}

func (g gitleaks) Parse(output []byte, path string) ([]finding.Finding, error) {
	var doc gitleaksJSON
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, fmt.Errorf("decoding gitleaks output: %w", err)
	}

	out := make([]finding.Finding, 0, len(doc))
	for _, leak := range doc {
		msg := leak.Description
		if msg == "" {
			msg = "Potential secret detected"
		}
		out = append(out, finding.Finding{
			// Any exposed credential is maximal risk: severity is
			// forced to critical regardless of tool opinion.
			Severity:   finding.SeverityCritical,
			Rule:       leak.RuleID,
			Message:    msg,
			File:       path,
			Line:       safeLine(leak.StartLine),
			Column:     leak.StartColumn,
			Suggestion: "Rotate the credential and move it to a secret store",
			Tool:       g.Name(),
			Category:   "security",
		})
	}
	return out, nil
}
