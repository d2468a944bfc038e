package rules

import (
	"regexp"

	"revet/internal/finding"
)

var (
	reExplicitAny = regexp.MustCompile(`:\s*any\b`)
	reTSIgnore    = regexp.MustCompile(`@ts-ignore\b`)
	reConsoleLog  = regexp.MustCompile(`\bconsole\.(log|debug)\s*\(`)
	reVarDecl     = regexp.MustCompile(`\bvar\s+[A-Za-z_$]`)
	reLooseEquals = regexp.MustCompile(`(^|[^=!<>])(==|!=)([^=]|$)`)
)

// TypeScriptRegistry returns rules for TypeScript/JavaScript sources.
func TypeScriptRegistry() Registry {
	return Registry{
		Name:       "typescript",
		Extensions: []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"},
		Rules: []Rule{
			{
				ID:          "explicit-any",
				Name:        "Explicit any type",
				Severity:    finding.SeverityMedium,
				Description: "Explicit 'any' defeats the type checker",
				Fix:         "Use a concrete type or 'unknown'",
				Category:    "typescript",
				Regex:       reExplicitAny,
			},
			{
				ID:          "ts-ignore",
				Name:        "Suppressed type error",
				Severity:    finding.SeverityMedium,
				Description: "@ts-ignore hides a type error instead of fixing it",
				Fix:         "Fix the underlying type error or use @ts-expect-error with a reason",
				Category:    "typescript",
				Regex:       reTSIgnore,
			},
			{
				ID:          "console-log",
				Name:        "Leftover console logging",
				Severity:    finding.SeverityLow,
				Description: "console.log/debug left in source",
				Fix:         "Remove it or use the project's logger",
				Category:    "typescript",
				Regex:       reConsoleLog,
			},
			{
				ID:          "var-declaration",
				Name:        "var declaration",
				Severity:    finding.SeverityLow,
				Description: "'var' has function scoping surprises",
				Fix:         "Use 'const' or 'let'",
				Category:    "typescript",
				Regex:       reVarDecl,
			},
			{
				ID:          "loose-equality",
				Name:        "Loose equality",
				Severity:    finding.SeverityLow,
				Description: "== and != coerce types",
				Fix:         "Use === / !==",
				Category:    "typescript",
				Regex:       reLooseEquals,
			},
		},
	}
}
