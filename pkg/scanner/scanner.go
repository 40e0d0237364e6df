// Package scanner discovers Python files under a directory, honoring
// configured exclusions and .gitignore patterns.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/svergne/pyscope/pkg/config"
)

// Scanner walks a directory tree collecting .py files.
type Scanner struct {
	cfg *config.Config
}

// New creates a scanner with the given configuration.
func New(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Scan returns the sorted paths of all Python files under root that
// are not excluded by configuration or gitignore.
func (s *Scanner) Scan(root string) ([]string, error) {
	var matcher gitignore.Matcher
	if s.cfg.Exclude.Gitignore {
		if patterns, err := gitignore.ReadPatterns(osfs.New(root), nil); err == nil && len(patterns) > 0 {
			matcher = gitignore.NewMatcher(patterns)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		if d.IsDir() {
			if s.excludedDir(d.Name()) || (matcher != nil && matcher.Match(parts, true)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".py" {
			return nil
		}
		if s.cfg.ShouldExclude(rel) {
			return nil
		}
		if matcher != nil && matcher.Match(parts, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func (s *Scanner) excludedDir(name string) bool {
	for _, dir := range s.cfg.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}
