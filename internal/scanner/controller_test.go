package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"revet/internal/finding"
)

// fakeTool is a scriptable registry entry for controller tests. The
// backing executables are shell scripts dropped into a temp dir that is
// passed to the prober as an extra search path.
type fakeTool struct {
	name    string
	command string
	args    []string
	stdin   bool
	timeout time.Duration
	exitOK  func(int) bool
	parse   func(output []byte, path string) ([]finding.Finding, error)

	parseCalls atomic.Int32
}

func (f *fakeTool) Name() string { return f.name }

func (f *fakeTool) Command() string { return f.command }

func (f *fakeTool) BuildArgs(path string) []string { return f.args }

func (f *fakeTool) WantsStdin() bool { return f.stdin }

func (f *fakeTool) ExtraPaths() []string { return nil }

func (f *fakeTool) ExitOK(code int) bool {
	if f.exitOK != nil {
		return f.exitOK(code)
	}
	return code == 0
}

func (f *fakeTool) Timeout() time.Duration {
	if f.timeout > 0 {
		return f.timeout
	}
	return 10 * time.Second
}

func (f *fakeTool) Parse(output []byte, path string) ([]finding.Finding, error) {
	f.parseCalls.Add(1)
	if f.parse != nil {
		return f.parse(output, path)
	}
	return nil, nil
}

// writeScript installs an executable shell script. Every script answers
// --version with exit 0 so the probe accepts it.
func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	script := "#!/bin/sh\nif [ \"$1\" = \"--version\" ]; then exit 0; fi\n" + body + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("writing script %s: %v", name, err)
	}
}

func oneFinding(tool string) func([]byte, string) ([]finding.Finding, error) {
	return func(output []byte, path string) ([]finding.Finding, error) {
		return []finding.Finding{{
			Severity: finding.SeverityMedium,
			Rule:     "fake-rule",
			Message:  strings.TrimSpace(string(output)),
			File:     path,
			Line:     1,
			Tool:     tool,
			Category: "security",
		}}, nil
	}
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "goodscan", "exit 0")

	if err := os.WriteFile(filepath.Join(dir, "badscan"), []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	tools := []Tool{
		&fakeTool{name: "good", command: "goodscan"},
		&fakeTool{name: "bad-probe", command: "badscan"},
		&fakeTool{name: "missing", command: "no-such-scanner-binary"},
	}

	scanners := Probe(tools, []string{dir})
	if len(scanners) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(scanners))
	}

	if !scanners[0].Available {
		t.Error("goodscan should be available")
	}
	if scanners[0].Bin != filepath.Join(dir, "goodscan") {
		t.Errorf("unexpected resolved bin %q", scanners[0].Bin)
	}
	if scanners[1].Available {
		t.Error("a tool failing its version probe should be unavailable")
	}
	if scanners[2].Available {
		t.Error("a missing binary should be unavailable")
	}
}

func TestControllerDropsDisabled(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "enabledscan", "exit 0")
	writeScript(t, dir, "disabledscan", "exit 0")

	c := NewController(
		[]Tool{
			&fakeTool{name: "enabled", command: "enabledscan"},
			&fakeTool{name: "unwanted", command: "disabledscan"},
		},
		Options{Disabled: []string{"unwanted"}, ExtraPaths: []string{dir}},
	)

	scanners := c.Scanners()
	if len(scanners) != 1 {
		t.Fatalf("expected 1 scanner after disabling, got %d", len(scanners))
	}
	if scanners[0].Tool.Name() != "enabled" {
		t.Errorf("wrong scanner survived: %s", scanners[0].Tool.Name())
	}
}

func TestRunNeverInvokesUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "okscan", "echo hit")

	present := &fakeTool{name: "present", command: "okscan"}
	present.parse = oneFinding("present")
	absent := &fakeTool{name: "absent", command: "no-such-scanner-binary"}

	c := NewController([]Tool{present, absent}, Options{ExtraPaths: []string{dir}})

	got := c.Run(context.Background(), "a.ts", "content")
	if len(got) != 1 {
		t.Fatalf("expected 1 finding from the present tool, got %d", len(got))
	}
	if absent.parseCalls.Load() != 0 {
		t.Error("unavailable scanner must never be invoked")
	}
}

func TestRunParseFailureIsolated(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "garbagescan", "echo not-json")
	writeScript(t, dir, "cleanscan", "echo fine")

	broken := &fakeTool{
		name:    "broken",
		command: "garbagescan",
		parse: func([]byte, string) ([]finding.Finding, error) {
			return nil, errors.New("unparseable")
		},
	}
	healthy := &fakeTool{name: "healthy", command: "cleanscan"}
	healthy.parse = oneFinding("healthy")

	c := NewController([]Tool{broken, healthy}, Options{ExtraPaths: []string{dir}})

	got := c.Run(context.Background(), "a.ts", "content")
	if len(got) != 1 {
		t.Fatalf("expected the healthy tool's finding only, got %d", len(got))
	}
	if got[0].Tool != "healthy" {
		t.Errorf("finding came from %s", got[0].Tool)
	}
}

func TestRunRejectsBadExitCode(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "crashscan", "echo '[]'; exit 7")

	crashing := &fakeTool{name: "crashing", command: "crashscan"}

	c := NewController([]Tool{crashing}, Options{ExtraPaths: []string{dir}})

	if got := c.Run(context.Background(), "a.ts", ""); len(got) != 0 {
		t.Errorf("exit 7 should yield no findings, got %d", len(got))
	}
	if crashing.parseCalls.Load() != 0 {
		t.Error("output from a failed run must not be parsed")
	}
}

func TestRunAcceptsFindingsExitCode(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "findscan", "echo found; exit 1")

	tool := &fakeTool{
		name:    "finder",
		command: "findscan",
		exitOK:  func(code int) bool { return code == 0 || code == 1 },
	}
	tool.parse = oneFinding("finder")

	c := NewController([]Tool{tool}, Options{ExtraPaths: []string{dir}})

	got := c.Run(context.Background(), "a.ts", "")
	if len(got) != 1 {
		t.Fatalf("exit 1 is a successful run for this tool, got %d findings", len(got))
	}
	if got[0].Message != "found" {
		t.Errorf("parse did not see stdout: %q", got[0].Message)
	}
}

func TestRunStdinTool(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "catscan", "cat")

	var seen string
	tool := &fakeTool{
		name:    "stdin-fed",
		command: "catscan",
		stdin:   true,
		parse: func(output []byte, _ string) ([]finding.Finding, error) {
			seen = string(output)
			return nil, nil
		},
	}

	c := NewController([]Tool{tool}, Options{ExtraPaths: []string{dir}})

	content := "password = \"hunter2-hunter2\"\n"
	c.Run(context.Background(), "a.env", content)
	if seen != content {
		t.Errorf("stdin tool saw %q, want the file content", seen)
	}
}

func TestRunTimeoutBounded(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "slowscan", "sleep 30")
	writeScript(t, dir, "fastscan", "echo quick")

	slow := &fakeTool{name: "slow", command: "slowscan", timeout: 200 * time.Millisecond}
	fast := &fakeTool{name: "fast", command: "fastscan"}
	fast.parse = oneFinding("fast")

	c := NewController([]Tool{slow, fast}, Options{ExtraPaths: []string{dir}})

	start := time.Now()
	got := c.Run(context.Background(), "a.ts", "")
	elapsed := time.Since(start)

	if elapsed > 10*time.Second {
		t.Fatalf("run was not bounded by the tool timeout, took %v", elapsed)
	}
	if len(got) != 1 || got[0].Tool != "fast" {
		t.Errorf("expected only the fast tool's finding, got %+v", got)
	}
	if slow.parseCalls.Load() != 0 {
		t.Error("timed-out tool output must not be parsed")
	}
}

func TestRunCallerCancellation(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "stuckscan", "sleep 30")

	stuck := &fakeTool{name: "stuck", command: "stuckscan"}

	c := NewController([]Tool{stuck}, Options{ExtraPaths: []string{dir}})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	got := c.Run(ctx, "a.ts", "")
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("cancellation did not unblock Run, took %v", elapsed)
	}
	if len(got) != 0 {
		t.Errorf("cancelled run should return only settled findings, got %d", len(got))
	}
}

func TestTimeoutOverride(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "patientscan", "sleep 30")

	// The tool's own timeout is generous; the configured override wins.
	patient := &fakeTool{name: "patient", command: "patientscan", timeout: time.Minute}

	c := NewController([]Tool{patient}, Options{
		Timeout:    200 * time.Millisecond,
		ExtraPaths: []string{dir},
	})

	start := time.Now()
	c.Run(context.Background(), "a.ts", "")
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("configured timeout was not applied, took %v", elapsed)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  short  ", 300); got != "short" {
		t.Errorf("truncate trims whitespace, got %q", got)
	}
	long := strings.Repeat("x", 400)
	got := truncate(long, 300)
	if len(got) != 303 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(%d chars) = %d chars", len(long), len(got))
	}
}

func TestLookupBinaryExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	binDir := filepath.Join(home, ".revet-test-bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Skipf("cannot create dir under home: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(binDir) })

	name := fmt.Sprintf("homescan-%d", os.Getpid())
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(filepath.Join(binDir, name), script, 0o755); err != nil {
		t.Fatal(err)
	}

	bin, err := lookupBinary(name, []string{"~/.revet-test-bin"})
	if err != nil {
		t.Fatalf("lookupBinary: %v", err)
	}
	if bin != filepath.Join(binDir, name) {
		t.Errorf("resolved bin = %q", bin)
	}
}

func TestLookupBinarySkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	name := fmt.Sprintf("plainfile-%d", os.Getpid())
	if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := lookupBinary(name, []string{dir}); err == nil {
		t.Error("non-executable files must not resolve as scanner binaries")
	}
}
