package scanner

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"revet/internal/logging"
	"revet/pkg/fileops"
)

// probeTimeout bounds the --version invocation. A tool that cannot
// print its version inside this window is not usable for reviews.
const probeTimeout = 5 * time.Second

// Probe determines which of the given tools are installed and usable.
// It runs once per process lifetime, before any review is accepted, so
// the returned table can be read without locking afterwards.
//
// A tool is available only when its binary resolves and
// `<command> --version` exits zero. A missing binary and a nonzero exit
// are treated identically: the scanner is excluded, which is not an
// error (the report just reflects a reduced tool set).
func Probe(tools []Tool, extraPaths []string) []*Scanner {
	scanners := make([]*Scanner, 0, len(tools))
	for _, tool := range tools {
		sc := &Scanner{Tool: tool}
		search := append(append([]string{}, tool.ExtraPaths()...), extraPaths...)
		bin, err := lookupBinary(tool.Command(), search)
		if err != nil {
			logging.Debug("Scanner binary not found", "scanner", tool.Name(), "command", tool.Command())
			scanners = append(scanners, sc)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		cmd := exec.CommandContext(ctx, bin, "--version")
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
		err = cmd.Run()
		cancel()

		if err != nil {
			logging.Debug("Scanner probe failed", "scanner", tool.Name(), "error", err)
			scanners = append(scanners, sc)
			continue
		}

		sc.Available = true
		sc.Bin = bin
		logging.Debug("Scanner available", "scanner", tool.Name(), "bin", bin)
		scanners = append(scanners, sc)
	}
	return scanners
}

// lookupBinary resolves a command name via the process PATH first, then
// via the tool's extra search directories. Extra paths cover installers
// that drop binaries outside PATH (dotnet tools, user-local pipx dirs)
// without mutating process-wide environment state.
func lookupBinary(command string, extraPaths []string) (string, error) {
	if bin, err := exec.LookPath(command); err == nil {
		return bin, nil
	}

	var lastErr error = exec.ErrNotFound
	for _, dir := range extraPaths {
		candidate := filepath.Join(fileops.ExpandPath(dir), command)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0o111 == 0 {
			lastErr = os.ErrPermission
			continue
		}
		return candidate, nil
	}
	return "", lastErr
}
