// Package finding defines the common vocabulary shared by the pattern
// engine, the external scanner controller, and the review aggregator.
// Every detection channel produces values of this package's types and
// nothing else, so downstream consumers (CLI, MCP, git hook) only ever
// deal with one schema.
package finding

import (
	"fmt"
	"strings"
)

// Severity is the importance level of a finding. Higher values are more
// severe; the integer rank gives the total order the threshold gate and
// the aggregator sort rely on.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityInfo:     "info",
	SeverityLow:      "low",
	SeverityMedium:   "medium",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

// String returns the canonical lowercase name of the severity.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// AtLeast reports whether s is at or above the given threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s >= threshold
}

// ParseSeverity converts a string into a Severity. Unlike tool
// normalizers, parsing is strict: unknown input is an error, not a
// default, because it comes from configuration rather than from an
// external tool we have to tolerate.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical, nil
	case "high":
		return SeverityHigh, nil
	case "medium":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityMedium, fmt.Errorf("unknown severity %q (expected critical, high, medium, low or info)", s)
	}
}

// MarshalJSON encodes the severity as its canonical string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a canonical severity string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSeverity(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML encodes the severity as its canonical string form.
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML decodes a canonical severity string.
func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Finding is one detected issue, from either a pattern rule or an
// external scanner. Findings are value objects: once produced they are
// copied into reports, never mutated.
type Finding struct {
	Severity   Severity `json:"severity"`
	Rule       string   `json:"rule"`
	Message    string   `json:"message"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Column     int      `json:"column,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Tool       string   `json:"tool"`
	Category   string   `json:"category"`
}

// Validate checks the invariants every finding must carry before it is
// allowed into a report.
func (f Finding) Validate() error {
	if f.Rule == "" {
		return fmt.Errorf("finding missing rule id")
	}
	if f.Message == "" {
		return fmt.Errorf("finding %s missing message", f.Rule)
	}
	if f.File == "" {
		return fmt.Errorf("finding %s missing file", f.Rule)
	}
	if f.Tool == "" {
		return fmt.Errorf("finding %s missing tool", f.Rule)
	}
	if _, ok := severityNames[f.Severity]; !ok {
		return fmt.Errorf("finding %s has invalid severity %d", f.Rule, int(f.Severity))
	}
	return nil
}

// Report is the ordered, verdict-bearing result of a review.
type Report struct {
	File     string    `json:"file"`
	Findings []Finding `json:"findings"`
	Passed   bool      `json:"passed"`
}
