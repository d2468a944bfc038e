package rules

import (
	"fmt"
	"strings"

	"revet/internal/finding"
	"revet/internal/logging"
)

// Evaluate runs every rule of the registry against the file content and
// returns the findings. Rules are independent: they cannot short-circuit
// each other, the same rule may fire once per match, and no
// deduplication happens at this layer.
func Evaluate(reg Registry, content, filePath string) []finding.Finding {
	var out []finding.Finding
	for _, rule := range reg.Rules {
		switch {
		case rule.Regex != nil:
			out = append(out, evalRegex(reg, rule, content, filePath)...)
		case rule.Check != nil:
			out = append(out, evalCheck(reg, rule, content, filePath)...)
		default:
			logging.Warn("Rule has no detection variant, skipping", "registry", reg.Name, "rule", rule.ID)
		}
	}
	return out
}

// evalRegex emits one finding per matching substring, not per matching
// line: a line with two hits yields two findings, each with the match's
// 1-based column.
func evalRegex(reg Registry, rule Rule, content, filePath string) []finding.Finding {
	var out []finding.Finding
	for i, line := range strings.Split(content, "\n") {
		for _, loc := range rule.Regex.FindAllStringIndex(line, -1) {
			out = append(out, toFinding(reg, rule, rule.Description, i+1, loc[0]+1, filePath))
		}
	}
	return out
}

// evalCheck invokes a predicate rule, recovering a panic so one broken
// rule cannot abort the scan. Remaining rules still run.
func evalCheck(reg Registry, rule Rule, content, filePath string) (out []finding.Finding) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Rule check panicked, skipping rule",
				"registry", reg.Name,
				"rule", rule.ID,
				"panic", fmt.Sprintf("%v", r),
			)
			out = nil
		}
	}()

	for _, m := range rule.Check(content) {
		line := m.Line
		if line < 1 {
			line = 1
		}
		msg := m.Message
		if msg == "" {
			msg = rule.Description
		}
		out = append(out, toFinding(reg, rule, msg, line, 0, filePath))
	}
	return out
}

func toFinding(reg Registry, rule Rule, message string, line, column int, filePath string) finding.Finding {
	return finding.Finding{
		Severity:   rule.Severity,
		Rule:       rule.ID,
		Message:    message,
		File:       filePath,
		Line:       line,
		Column:     column,
		Suggestion: rule.Fix,
		Tool:       "pattern:" + reg.Name,
		Category:   rule.Category,
	}
}
