package rules

import (
	"regexp"
	"strings"

	"revet/internal/finding"
)

var (
	reHardcodedSecret = regexp.MustCompile(`(?i)(password|passwd|secret|api[_-]?key|auth[_-]?token|private[_-]?key)\s*[:=]\s*["'][^"']{6,}["']`)
	reDynamicExec     = regexp.MustCompile(`\beval\s*\(|new\s+Function\s*\(`)
	reWeakHash        = regexp.MustCompile(`(?i)createHash\(\s*["'](md5|sha1)["']\s*\)|\bmd5\s*\(|\bsha1\s*\(`)
	reEmptyCatch      = regexp.MustCompile(`catch\s*(\([^)]*\))?\s*\{\s*\}`)
	reHTTPURL         = regexp.MustCompile(`http://[^\s"'` + "`" + `)>]+`)
)

// SecurityRegistry returns the language-independent security rules.
// These run against every reviewed file.
func SecurityRegistry() Registry {
	return Registry{
		Name: "security",
		Rules: []Rule{
			{
				ID:          "hardcoded-secret",
				Name:        "Hardcoded credential",
				Severity:    finding.SeverityCritical,
				Description: "Credential or API key appears to be hardcoded",
				Fix:         "Move the value to an environment variable or secret store",
				Category:    "security",
				Regex:       reHardcodedSecret,
			},
			{
				ID:          "dynamic-execution",
				Name:        "Dynamic code execution",
				Severity:    finding.SeverityHigh,
				Description: "eval/new Function executes arbitrary strings as code",
				Fix:         "Replace dynamic evaluation with explicit logic",
				Category:    "security",
				Regex:       reDynamicExec,
			},
			{
				ID:          "weak-hash",
				Name:        "Weak hash algorithm",
				Severity:    finding.SeverityMedium,
				Description: "MD5/SHA-1 are broken for security purposes",
				Fix:         "Use SHA-256 or stronger",
				Category:    "security",
				Regex:       reWeakHash,
			},
			{
				ID:          "insecure-http",
				Name:        "Insecure HTTP URL",
				Severity:    finding.SeverityLow,
				Description: "Plain HTTP URL in source",
				Fix:         "Use https:// unless the endpoint is local",
				Category:    "security",
				Check:       checkInsecureHTTP,
			},
			{
				ID:          "empty-catch",
				Name:        "Swallowed error",
				Severity:    finding.SeverityMedium,
				Description: "Empty catch block silently discards errors",
				Fix:         "Handle or at least log the caught error",
				Category:    "security",
				Check:       checkEmptyCatch,
			},
		},
	}
}

// checkInsecureHTTP flags plain-HTTP URLs. Local and documentation hosts
// are fine over HTTP, and Go regexp has no lookahead, so the exclusion
// lives in a predicate instead of the pattern.
func checkInsecureHTTP(content string) []Match {
	var out []Match
	for i, line := range strings.Split(content, "\n") {
		url := reHTTPURL.FindString(line)
		if url == "" {
			continue
		}
		host := strings.TrimPrefix(url, "http://")
		if strings.HasPrefix(host, "localhost") ||
			strings.HasPrefix(host, "127.0.0.1") ||
			strings.HasPrefix(host, "0.0.0.0") ||
			strings.HasPrefix(host, "example.") ||
			strings.HasPrefix(host, "www.w3.org") {
			continue
		}
		out = append(out, Match{
			Message: "Plain HTTP URL: " + url,
			Line:    i + 1,
		})
	}
	return out
}

// checkEmptyCatch finds catch blocks with empty bodies. The pattern can
// span lines, so it runs against the whole file and maps byte offsets
// back to line numbers.
func checkEmptyCatch(content string) []Match {
	var out []Match
	for _, loc := range reEmptyCatch.FindAllStringIndex(content, -1) {
		out = append(out, Match{
			Message: "Empty catch block silently discards errors",
			Line:    lineOf(content, loc[0]),
		})
	}
	return out
}

// lineOf returns the 1-based line number of a byte offset.
func lineOf(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}
