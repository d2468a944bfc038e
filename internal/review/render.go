package review

import (
	"encoding/json"
	"fmt"
	"strings"

	"revet/internal/finding"

	"github.com/charmbracelet/lipgloss"
)

var (
	severityStyles = map[finding.Severity]lipgloss.Style{
		finding.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		finding.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		finding.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		finding.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		finding.SeverityInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}

	stylePass = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleFail = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleFile = lipgloss.NewStyle().Bold(true)
	styleDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderText renders one report for terminal output.
func RenderText(report *finding.Report) string {
	var b strings.Builder

	b.WriteString(styleFile.Render(report.File))
	b.WriteString("\n")

	if len(report.Findings) == 0 {
		b.WriteString("  no findings\n")
	}
	for _, f := range report.Findings {
		style, ok := severityStyles[f.Severity]
		if !ok {
			style = severityStyles[finding.SeverityMedium]
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(fmt.Sprintf("%-8s", f.Severity)),
			styleDim.Render(fmt.Sprintf("%s:%d", report.File, f.Line)),
			f.Message,
		))
		b.WriteString(styleDim.Render(fmt.Sprintf("           %s (%s)", f.Rule, f.Tool)))
		b.WriteString("\n")
		if f.Suggestion != "" {
			b.WriteString(styleDim.Render("           fix: " + f.Suggestion))
			b.WriteString("\n")
		}
	}

	verdict := stylePass.Render("PASS")
	if !report.Passed {
		verdict = styleFail.Render("FAIL")
	}
	b.WriteString(fmt.Sprintf("  %s (%d findings)\n", verdict, len(report.Findings)))
	return b.String()
}

// RenderJSON renders reports as indented JSON for machine consumers.
func RenderJSON(reports []*finding.Report) (string, error) {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return string(data), nil
}
