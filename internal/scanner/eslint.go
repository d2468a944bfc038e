package scanner

import (
	"encoding/json"
	"fmt"
	"time"

	"revet/internal/finding"
)

// eslint lints JavaScript/TypeScript with the project's own config.
// Exit 1 means lint problems were found; exit 2 and above is a tool or
// configuration failure.
type eslint struct{}

func newESLint() eslint { return eslint{} }

func (eslint) Name() string    { return "eslint" }
func (eslint) Command() string { return "eslint" }

func (eslint) BuildArgs(path string) []string {
	return []string{"--format", "json", "--no-color", path}
}

func (eslint) WantsStdin() bool       { return false }
func (eslint) ExitOK(code int) bool   { return code == 0 || code == 1 }
func (eslint) Timeout() time.Duration { return 20 * time.Second }
func (eslint) ExtraPaths() []string   { return nil }

// eslintJSON is the per-file result array emitted by --format json.
type eslintJSON []struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		RuleID   string `json:"ruleId"`
		Severity int    `json:"severity"` // 1 = warn, 2 = error
		Message  string `json:"message"`
		Line     int    `json:"line"`
		Column   int    `json:"column"`
	} `json:"messages"`
}

// eslint reports severities as integers, not words, so the table is
// keyed by their decimal form.
var eslintSeverities = map[string]finding.Severity{
	"2": finding.SeverityHigh,
	"1": finding.SeverityMedium,
}

func (e eslint) Parse(output []byte, path string) ([]finding.Finding, error) {
	var doc eslintJSON
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, fmt.Errorf("decoding eslint output: %w", err)
	}

	var out []finding.Finding
	for _, file := range doc {
		for _, m := range file.Messages {
			rule := m.RuleID
			if rule == "" {
				rule = "eslint"
			}
			out = append(out, finding.Finding{
				Severity: mapSeverity(eslintSeverities, fmt.Sprintf("%d", m.Severity)),
				Rule:     rule,
				Message:  m.Message,
				File:     path,
				Line:     safeLine(m.Line),
				Column:   m.Column,
				Tool:     e.Name(),
				Category: "typescript",
			})
		}
	}
	return out, nil
}
