package review

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"revet/internal/finding"
	"revet/internal/logging"
	"revet/internal/rules"
	"revet/internal/scanner"
	"revet/pkg/fileops"
)

// maxFileSize caps how much content the engine will review. Larger
// files are rejected up front rather than fed to every scanner.
const maxFileSize = 2 * 1024 * 1024

// Options controls a single review request.
type Options struct {
	// IncludeExternal runs the scanner controller in addition to the
	// pattern engine. False means pattern-only review.
	IncludeExternal bool

	// Threshold is the minimum severity that fails the review.
	Threshold finding.Severity
}

// Reviewer runs reviews confined to a project root. The scanner
// controller is probed once at construction; a nil controller disables
// external scanning entirely.
type Reviewer struct {
	root       string
	controller *scanner.Controller
}

// NewReviewer validates the project root and returns a reviewer over
// it. An invalid root is a configuration error: reported before any
// scan begins.
func NewReviewer(root string, controller *scanner.Controller) (*Reviewer, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("project root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}
	return &Reviewer{root: abs, controller: controller}, nil
}

// Root returns the validated project root.
func (r *Reviewer) Root() string { return r.root }

// Scanners returns the probed scanner table, or nil when external
// scanning is disabled.
func (r *Reviewer) Scanners() []*scanner.Scanner {
	if r.controller == nil {
		return nil
	}
	return r.controller.Scanners()
}

// ReviewFile reviews one file. When content is empty it is read from
// disk. The path must resolve inside the project root; a path escaping
// it rejects the request before any rule or scanner runs.
//
// The review always completes with a report unless the request itself
// is invalid: scanner failures degrade the tool set, they never fail
// the operation.
func (r *Reviewer) ReviewFile(ctx context.Context, path, content string, opts Options) (*finding.Report, error) {
	resolved, err := r.resolve(path)
	if err != nil {
		return nil, err
	}

	if content == "" {
		if err := fileops.ValidateFileAccess(resolved); err != nil {
			return nil, fmt.Errorf("file access: %w", err)
		}
		if err := fileops.ValidateFileSizeLimit(resolved, maxFileSize); err != nil {
			return nil, fmt.Errorf("file size: %w", err)
		}
		raw, err := os.ReadFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		content = string(raw)
	}

	display := r.displayPath(resolved)

	var patternFindings []finding.Finding
	ext := strings.ToLower(filepath.Ext(resolved))
	for _, reg := range rules.ForFile(ext) {
		patternFindings = append(patternFindings, rules.Evaluate(reg, content, display)...)
	}

	var scannerFindings []finding.Finding
	if opts.IncludeExternal && r.controller != nil {
		scannerFindings = r.controller.Run(ctx, resolved, content)
		// Scanner adapters report the resolved path; normalize to the
		// root-relative display path used by pattern findings.
		for i := range scannerFindings {
			scannerFindings[i].File = display
		}
	}

	report := Aggregate(patternFindings, scannerFindings, opts.Threshold)
	report.File = display

	logging.Debug("Review completed",
		"file", display,
		"pattern_findings", len(patternFindings),
		"scanner_findings", len(scannerFindings),
		"passed", report.Passed,
	)
	return &report, nil
}

// resolve turns a request path into an absolute path confined to the
// project root. Escaping paths are a per-request security violation:
// rejected with no partial scan attempted.
func (r *Reviewer) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	abs := path
	if !filepath.IsAbs(abs) {
		if err := fileops.ValidatePathSecurity(path); err != nil {
			return "", fmt.Errorf("path security: %w", err)
		}
		abs = filepath.Join(r.root, path)
	}
	if err := fileops.ValidateFileInDirectory(abs, r.root); err != nil {
		return "", fmt.Errorf("path security: %w", err)
	}
	return filepath.Clean(abs), nil
}

func (r *Reviewer) displayPath(resolved string) string {
	if rel, err := filepath.Rel(r.root, resolved); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(resolved)
}
