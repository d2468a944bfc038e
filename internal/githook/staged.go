// Package githook enumerates the files a pre-commit review should
// cover: paths staged in the git index, filtered to the kinds of files
// the review engine understands.
package githook

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	git "github.com/go-git/go-git/v6"
)

// reviewableExtensions are the file classes at least one pattern
// registry or scanner handles. Binary and unknown files are skipped.
var reviewableExtensions = []string{
	".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs",
	".md", ".mdx",
	".py", ".go", ".sh", ".yaml", ".yml", ".json", ".env",
}

// StagedFiles returns the paths staged for commit in the repository at
// repoPath, relative to the worktree root. Deleted files are excluded;
// there is nothing on disk left to review for them.
func StagedFiles(repoPath string) ([]string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return nil, fmt.Errorf("directory is not a git repository: %s", repoPath)
		}
		return nil, fmt.Errorf("cannot open git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("cannot get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("cannot get worktree status: %w", err)
	}

	var staged []string
	for path, fileStatus := range status {
		switch fileStatus.Staging {
		case git.Added, git.Modified, git.Renamed, git.Copied:
			if reviewable(path) {
				staged = append(staged, path)
			}
		}
	}

	slices.Sort(staged)
	return staged, nil
}

func reviewable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(reviewableExtensions, ext)
}
