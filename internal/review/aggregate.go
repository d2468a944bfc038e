// Package review composes the pattern engine and the scanner controller
// into a single review operation and owns report construction.
package review

import (
	"sort"

	"revet/internal/finding"
)

// Aggregate merges pattern and scanner findings into one ordered report
// and computes the pass/fail verdict against the threshold.
//
// No cross-tool deduplication happens: two tools flagging the same line
// are both reported, since they may detect different underlying issues
// even when co-located. Ordering is severity descending, then file,
// line and rule, so the worst issues surface first.
func Aggregate(patternFindings, scannerFindings []finding.Finding, threshold finding.Severity) finding.Report {
	all := make([]finding.Finding, 0, len(patternFindings)+len(scannerFindings))
	all = append(all, patternFindings...)
	all = append(all, scannerFindings...)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Severity != all[j].Severity {
			return all[i].Severity > all[j].Severity
		}
		if all[i].File != all[j].File {
			return all[i].File < all[j].File
		}
		if all[i].Line != all[j].Line {
			return all[i].Line < all[j].Line
		}
		return all[i].Rule < all[j].Rule
	})

	passed := true
	for _, f := range all {
		if f.Severity.AtLeast(threshold) {
			passed = false
			break
		}
	}

	return finding.Report{Findings: all, Passed: passed}
}
