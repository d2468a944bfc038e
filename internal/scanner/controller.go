package scanner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"time"

	"revet/internal/finding"
	"revet/internal/logging"
)

// killGrace is how long a timed-out child gets between SIGKILL and
// abandoning its pipes, so Wait cannot hang on a slow-dying process.
const killGrace = 2 * time.Second

// Options tunes the controller from user configuration.
type Options struct {
	// Timeout overrides every tool's own timeout when positive.
	Timeout time.Duration

	// Disabled lists tool names that are never probed or invoked.
	Disabled []string

	// ExtraPaths are additional binary search directories applied to
	// all tools, on top of each tool's own extra paths.
	ExtraPaths []string
}

// Controller fans a review out to every available scanner. It holds the
// availability table produced by Probe; the table is never written
// after construction.
type Controller struct {
	scanners []*Scanner
	timeout  time.Duration
}

// NewController probes the given tools once and returns a controller
// over the resulting availability table. Disabled tools are dropped
// before probing, so they appear in no table and spawn no process.
func NewController(tools []Tool, opts Options) *Controller {
	enabled := make([]Tool, 0, len(tools))
	for _, tool := range tools {
		if slices.Contains(opts.Disabled, tool.Name()) {
			logging.Debug("Scanner disabled by configuration", "scanner", tool.Name())
			continue
		}
		enabled = append(enabled, tool)
	}
	return &Controller{
		scanners: Probe(enabled, opts.ExtraPaths),
		timeout:  opts.Timeout,
	}
}

// Scanners exposes the probed table for status displays.
func (c *Controller) Scanners() []*Scanner {
	return c.scanners
}

// Run invokes all available scanners against the file concurrently and
// joins their results with settle-all semantics: one tool failing or
// timing out never cancels the others. The caller's context is a hard
// deadline; when it fires, still-pending scanner results are discarded
// and whatever has settled is returned.
func (c *Controller) Run(ctx context.Context, path, content string) []finding.Finding {
	type result struct {
		tool     string
		findings []finding.Finding
	}

	var active []*Scanner
	for _, sc := range c.scanners {
		if sc.Available {
			active = append(active, sc)
		}
	}
	if len(active) == 0 {
		return nil
	}

	results := make(chan result, len(active))
	for _, sc := range active {
		go func(sc *Scanner) {
			results <- result{tool: sc.Tool.Name(), findings: c.runOne(ctx, sc, path, content)}
		}(sc)
	}

	var all []finding.Finding
	for i := 0; i < len(active); i++ {
		select {
		case r := <-results:
			all = append(all, r.findings...)
		case <-ctx.Done():
			logging.Warn("Review cancelled, discarding pending scanner results",
				"settled", i, "pending", len(active)-i)
			return all
		}
	}
	return all
}

// runOne executes a single scanner invocation, bounded by the tool's
// timeout. Every failure mode (timeout, spawn failure, unexpected exit
// code, malformed output) is recovered locally: logged, zero findings.
// External tool instability must never crash the review.
func (c *Controller) runOne(ctx context.Context, sc *Scanner, path, content string) []finding.Finding {
	tool := sc.Tool
	timeout := tool.Timeout()
	if c.timeout > 0 {
		timeout = c.timeout
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, sc.Bin, tool.BuildArgs(path)...)
	cmd.WaitDelay = killGrace
	if tool.WantsStdin() {
		cmd.Stdin = strings.NewReader(content)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	logging.LogPerformance("scanner "+tool.Name(), start)

	exitCode := 0
	if err != nil {
		if tctx.Err() == context.DeadlineExceeded {
			logging.Warn("Scanner timed out", "scanner", tool.Name(), "timeout", timeout)
			return nil
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			logging.Warn("Scanner failed to run", "scanner", tool.Name(), "error", err)
			return nil
		}
		exitCode = exitErr.ExitCode()
	}

	if !tool.ExitOK(exitCode) {
		logging.Warn("Scanner exited with unexpected code",
			"scanner", tool.Name(),
			"exit_code", exitCode,
			"stderr", truncate(stderr.String(), 300),
		)
		return nil
	}

	findings, err := tool.Parse(stdout.Bytes(), path)
	if err != nil {
		logging.Warn("Scanner output could not be parsed",
			"scanner", tool.Name(), "error", err)
		return nil
	}
	return findings
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
