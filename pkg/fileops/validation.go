// Package fileops provides the path-security primitives the review
// engine calls before any read or scan: traversal checks, containment
// within a project root, and file access/size validation.
//
// All review entry points (CLI, MCP, git hook) funnel file paths
// through this package first. The ordering matters: static path checks
// run before any filesystem access, and containment runs before any
// content is handed to an external scanner.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePathSecurity performs static validation on a file path. It
// rejects empty input and traversal sequences both in the raw input and
// after cleaning, so "a/../../b" cannot sneak past a naive prefix
// check. No filesystem access happens here.
func ValidatePathSecurity(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}

	// Check raw input before cleaning: traversal intent is rejected
	// even when the cleaned path would land inside the root.
	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	if strings.Contains(filepath.Clean(path), "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	return nil
}

// ValidateFileInDirectory validates that filePath is a regular,
// accessible file contained in baseDir. Symlinked files must also
// resolve inside baseDir.
func ValidateFileInDirectory(filePath, baseDir string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("cannot resolve file path: %w", err)
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("cannot resolve base directory: %w", err)
	}

	relPath, err := filepath.Rel(absBaseDir, absFilePath)
	if err != nil {
		return fmt.Errorf("cannot determine relative path: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("file is not within base directory")
	}

	info, err := os.Lstat(absFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filepath.Base(filePath))
		}
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file")
	}

	if info.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(absFilePath)
		if err != nil {
			return fmt.Errorf("cannot resolve symlink: %w", err)
		}
		relResolved, err := filepath.Rel(absBaseDir, resolved)
		if err != nil {
			return fmt.Errorf("cannot determine resolved relative path: %w", err)
		}
		if relResolved == ".." || strings.HasPrefix(relResolved, ".."+string(filepath.Separator)) {
			return fmt.Errorf("symlink resolves outside base directory")
		}
	}

	return nil
}

// ValidateFileAccess checks that the file exists, is a regular file,
// and is readable.
func ValidateFileAccess(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filePath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("file is not readable: %w", err)
	}
	f.Close()

	return nil
}

// ValidateFileSizeLimit rejects files larger than maxSize bytes, to
// prevent resource exhaustion before content is loaded or piped to
// scanners.
func ValidateFileSizeLimit(filePath string, maxSize int64) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	if info.Size() > maxSize {
		return fmt.Errorf("file exceeds size limit: %d bytes (max %d)", info.Size(), maxSize)
	}
	return nil
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
