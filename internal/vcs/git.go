// Package vcs resolves git revisions to trees for revision-pinned
// analysis.
package vcs

import (
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ResolveTree opens the repository containing path and returns the
// tree for the given revision. An empty revision means HEAD.
func ResolveTree(path, rev string) (*object.Tree, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading tree for %s: %w", hash, err)
	}
	return tree, nil
}

// ListPythonFiles returns the repo-relative paths of all .py files in
// the tree.
func ListPythonFiles(tree *object.Tree) ([]string, error) {
	var files []string
	err := tree.Files().ForEach(func(f *object.File) error {
		if strings.HasSuffix(f.Name, ".py") {
			files = append(files, f.Name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking git tree: %w", err)
	}
	return files, nil
}
