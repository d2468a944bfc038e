package rules

import (
	"regexp"
	"strings"

	"revet/internal/finding"

	"github.com/adrg/frontmatter"
)

var (
	reTodoMarker = regexp.MustCompile(`\b(TODO|FIXME|XXX)\b`)
	reH2Heading  = regexp.MustCompile(`^##\s+`)
	rePrereqH2   = regexp.MustCompile(`^##\s+Prerequisites\b`)
)

// docFrontmatter is the minimal metadata contract for instruction and
// guide files: a description is required so assistants can select the
// right document without reading all of them.
type docFrontmatter struct {
	Description string `yaml:"description"`
}

// DocsRegistry returns rules for markdown documentation files.
func DocsRegistry() Registry {
	return Registry{
		Name:       "docs",
		Extensions: []string{".md", ".mdx"},
		Rules: []Rule{
			{
				ID:          "missing-frontmatter-description",
				Name:        "Missing frontmatter description",
				Severity:    finding.SeverityMedium,
				Description: "Document has no frontmatter 'description' field",
				Fix:         "Add YAML frontmatter with a one-line description",
				Category:    "documentation",
				Check:       checkFrontmatterDescription,
			},
			{
				ID:          "missing-prerequisites",
				Name:        "Missing Prerequisites section",
				Severity:    finding.SeverityLow,
				Description: "Guide has sections but no '## Prerequisites'",
				Fix:         "Add a '## Prerequisites' section",
				Category:    "documentation",
				Check:       checkPrerequisitesSection,
			},
			{
				ID:          "todo-marker",
				Name:        "Unresolved TODO marker",
				Severity:    finding.SeverityLow,
				Description: "TODO/FIXME marker left in published documentation",
				Fix:         "Resolve the item or track it in an issue",
				Category:    "documentation",
				Regex:       reTodoMarker,
			},
		},
	}
}

// checkFrontmatterDescription parses YAML frontmatter and reports a
// match when the document has none, or has one without a description.
// Whole-file check, reported on line 1.
func checkFrontmatterDescription(content string) []Match {
	var matter docFrontmatter
	_, err := frontmatter.MustParse(strings.NewReader(content), &matter)
	if err != nil {
		return []Match{{Message: "Document has no YAML frontmatter", Line: 1}}
	}
	if strings.TrimSpace(matter.Description) == "" {
		return []Match{{Message: "Frontmatter is missing a 'description' field", Line: 1}}
	}
	return nil
}

// checkPrerequisitesSection fires only for structured guides: documents
// that already use second-level headings but lack a Prerequisites
// section. Unstructured notes are left alone.
func checkPrerequisitesSection(content string) []Match {
	hasSections := false
	for _, line := range strings.Split(content, "\n") {
		if rePrereqH2.MatchString(line) {
			return nil
		}
		if reH2Heading.MatchString(line) {
			hasSections = true
		}
	}
	if !hasSections {
		return nil
	}
	return []Match{{Message: "Guide has sections but no '## Prerequisites'", Line: 1}}
}
