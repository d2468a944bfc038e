package scanner

import (
	"encoding/json"
	"fmt"
	"time"

	"revet/internal/finding"
)

// devskim is Microsoft's security linter, distributed as a dotnet
// global tool, so its binary usually lives in ~/.dotnet/tools rather
// than on PATH. Its exit code encodes the result class (0 through 5),
// all of which mean the tool itself ran.
type devskim struct{}

func newDevSkim() devskim { return devskim{} }

func (devskim) Name() string    { return "devskim" }
func (devskim) Command() string { return "devskim" }

func (devskim) BuildArgs(path string) []string {
	return []string{"analyze", "--source-code", path, "--file-format", "json"}
}

func (devskim) WantsStdin() bool       { return false }
func (devskim) ExitOK(code int) bool   { return code >= 0 && code <= 5 }
func (devskim) Timeout() time.Duration { return 20 * time.Second }

func (devskim) ExtraPaths() []string {
	return []string{"~/.dotnet/tools"}
}

// devskimJSON is the serialized result array from --file-format json.
type devskimJSON []struct {
	RuleID      string `json:"rule_id"`
	RuleName    string `json:"rule_name"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	Fix         string `json:"fix"`
}

var devskimSeverities = map[string]finding.Severity{
	"critical":     finding.SeverityCritical,
	"important":    finding.SeverityHigh,
	"moderate":     finding.SeverityMedium,
	"bestpractice": finding.SeverityLow,
	"manualreview": finding.SeverityInfo,
}

func (d devskim) Parse(output []byte, path string) ([]finding.Finding, error) {
	var doc devskimJSON
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, fmt.Errorf("decoding devskim output: %w", err)
	}

	out := make([]finding.Finding, 0, len(doc))
	for _, r := range doc {
		msg := r.Description
		if msg == "" {
			msg = r.RuleName
		}
		out = append(out, finding.Finding{
			Severity:   mapSeverity(devskimSeverities, r.Severity),
			Rule:       r.RuleID,
			Message:    msg,
			File:       path,
			Line:       safeLine(r.StartLine),
			Column:     r.StartColumn,
			Suggestion: r.Fix,
			Tool:       d.Name(),
			Category:   "security",
		})
	}
	return out, nil
}
