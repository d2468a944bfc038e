package scanner

import (
	"strings"

	"revet/internal/finding"
)

// mapSeverity normalizes a tool-native severity word onto the common
// five-level scale through an explicit lookup table. Unknown values map
// to medium: never silently dropped, never defaulted to an extreme.
func mapSeverity(table map[string]finding.Severity, raw string) finding.Severity {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	if sev, ok := table[key]; ok {
		return sev
	}
	return finding.SeverityMedium
}

// safeLine clamps tool-reported line numbers to the 1-based contract.
// Tools that cannot localize a finding report line 1.
func safeLine(line int) int {
	if line < 1 {
		return 1
	}
	return line
}
