package scanner

import (
	"encoding/json"
	"fmt"
	"time"

	"revet/internal/finding"
)

// semgrep runs with its bundled auto config and JSON output. Exit 0
// means clean, exit 1 means findings were reported; both are successful
// runs.
type semgrep struct{}

func newSemgrep() semgrep { return semgrep{} }

func (semgrep) Name() string    { return "semgrep" }
func (semgrep) Command() string { return "semgrep" }

func (semgrep) BuildArgs(path string) []string {
	return []string{"scan", "--json", "--quiet", "--disable-version-check", "--config", "auto", path}
}

func (semgrep) WantsStdin() bool       { return false }
func (semgrep) ExitOK(code int) bool   { return code == 0 || code == 1 }
func (semgrep) Timeout() time.Duration { return 30 * time.Second }
func (semgrep) ExtraPaths() []string   { return nil }

// semgrepJSON covers the fields we consume from `semgrep scan --json`.
type semgrepJSON struct {
	Results []struct {
		CheckID string `json:"check_id"`
		Path    string `json:"path"`
		Start   struct {
			Line int `json:"line"`
			Col  int `json:"col"`
		} `json:"start"`
		Extra struct {
			Message  string `json:"message"`
			Severity string `json:"severity"` // ERROR | WARNING | INFO
			Fix      string `json:"fix"`
		} `json:"extra"`
	} `json:"results"`
}

var semgrepSeverities = map[string]finding.Severity{
	"error":   finding.SeverityHigh,
	"warning": finding.SeverityMedium,
	"info":    finding.SeverityInfo,
}

func (s semgrep) Parse(output []byte, path string) ([]finding.Finding, error) {
	var doc semgrepJSON
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, fmt.Errorf("decoding semgrep output: %w", err)
	}

	out := make([]finding.Finding, 0, len(doc.Results))
	for _, r := range doc.Results {
		out = append(out, finding.Finding{
			Severity:   mapSeverity(semgrepSeverities, r.Extra.Severity),
			Rule:       r.CheckID,
			Message:    r.Extra.Message,
			File:       path,
			Line:       safeLine(r.Start.Line),
			Column:     r.Start.Col,
			Suggestion: r.Extra.Fix,
			Tool:       s.Name(),
			Category:   "security",
		})
	}
	return out, nil
}
