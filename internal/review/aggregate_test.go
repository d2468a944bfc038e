package review

import (
	"testing"

	"revet/internal/finding"
)

func f(sev finding.Severity, file string, line int, rule string) finding.Finding {
	return finding.Finding{
		Severity: sev,
		Rule:     rule,
		Message:  "m",
		File:     file,
		Line:     line,
		Tool:     "t",
		Category: "test",
	}
}

func TestAggregateOrdering(t *testing.T) {
	pattern := []finding.Finding{
		f(finding.SeverityLow, "a.ts", 10, "rule-b"),
		f(finding.SeverityCritical, "a.ts", 50, "rule-a"),
	}
	external := []finding.Finding{
		f(finding.SeverityLow, "a.ts", 2, "rule-c"),
		f(finding.SeverityCritical, "a.ts", 50, "rule-b"),
	}

	report := Aggregate(pattern, external, finding.SeverityHigh)

	if len(report.Findings) != 4 {
		t.Fatalf("expected 4 findings, got %d", len(report.Findings))
	}

	want := []struct {
		sev  finding.Severity
		line int
		rule string
	}{
		{finding.SeverityCritical, 50, "rule-a"},
		{finding.SeverityCritical, 50, "rule-b"},
		{finding.SeverityLow, 2, "rule-c"},
		{finding.SeverityLow, 10, "rule-b"},
	}
	for i, w := range want {
		got := report.Findings[i]
		if got.Severity != w.sev || got.Line != w.line || got.Rule != w.rule {
			t.Errorf("position %d: got %v %d %s, want %v %d %s",
				i, got.Severity, got.Line, got.Rule, w.sev, w.line, w.rule)
		}
	}
}

func TestAggregateNoDeduplication(t *testing.T) {
	a := f(finding.SeverityMedium, "a.ts", 5, "same-rule")
	b := a
	b.Tool = "other"

	report := Aggregate([]finding.Finding{a}, []finding.Finding{b}, finding.SeverityCritical)
	if len(report.Findings) != 2 {
		t.Errorf("co-located findings from different tools must both survive, got %d", len(report.Findings))
	}
}

func TestAggregateVerdict(t *testing.T) {
	tests := []struct {
		name       string
		severities []finding.Severity
		threshold  finding.Severity
		passed     bool
	}{
		{"empty passes", nil, finding.SeverityInfo, true},
		{"below threshold passes", []finding.Severity{finding.SeverityMedium}, finding.SeverityHigh, true},
		{"at threshold fails", []finding.Severity{finding.SeverityHigh}, finding.SeverityHigh, false},
		{"above threshold fails", []finding.Severity{finding.SeverityCritical}, finding.SeverityHigh, false},
		{"one bad one among many", []finding.Severity{finding.SeverityInfo, finding.SeverityLow, finding.SeverityHigh}, finding.SeverityHigh, false},
		{"info threshold fails on anything", []finding.Severity{finding.SeverityInfo}, finding.SeverityInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fs []finding.Finding
			for i, sev := range tt.severities {
				fs = append(fs, f(sev, "a.ts", i+1, "r"))
			}
			report := Aggregate(fs, nil, tt.threshold)
			if report.Passed != tt.passed {
				t.Errorf("passed = %v, want %v", report.Passed, tt.passed)
			}
		})
	}
}
