// Package source abstracts where file content comes from, so analyses
// run the same way against a working tree or a committed git tree.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// ContentSource reads file content by path.
type ContentSource interface {
	ReadFile(path string) ([]byte, error)
}

// FilesystemSource reads from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem returns a filesystem-backed source.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

func (s *FilesystemSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// TreeSource reads from a git tree object, letting analyses target a
// committed revision without a checkout. go-git tree lookups are not
// goroutine safe, hence the mutex.
type TreeSource struct {
	tree *object.Tree
	root string
	mu   sync.Mutex
}

// NewTree wraps a git tree. Paths passed to ReadFile are made
// relative to root before lookup.
func NewTree(tree *object.Tree, root string) *TreeSource {
	return &TreeSource{tree: tree, root: root}
}

func (s *TreeSource) ReadFile(path string) ([]byte, error) {
	rel := path
	if s.root != "" {
		if r, err := filepath.Rel(s.root, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.tree.File(rel)
	if err != nil {
		return nil, fmt.Errorf("reading %s from git tree: %w", rel, err)
	}
	content, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading %s from git tree: %w", rel, err)
	}
	return []byte(content), nil
}
