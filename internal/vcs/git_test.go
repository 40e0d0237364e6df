package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print('hi')\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "mod.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestResolveTreeHead(t *testing.T) {
	dir := initRepo(t)
	tree, err := ResolveTree(dir, "")
	require.NoError(t, err)
	require.NotNil(t, tree)

	f, err := tree.File("main.py")
	require.NoError(t, err)
	content, err := f.Contents()
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", content)
}

func TestResolveTreeBadRevision(t *testing.T) {
	dir := initRepo(t)
	_, err := ResolveTree(dir, "no-such-ref")
	assert.Error(t, err)
}

func TestResolveTreeOutsideRepo(t *testing.T) {
	_, err := ResolveTree(t.TempDir(), "")
	assert.Error(t, err)
}

func TestListPythonFiles(t *testing.T) {
	dir := initRepo(t)
	tree, err := ResolveTree(dir, "HEAD")
	require.NoError(t, err)

	files, err := ListPythonFiles(tree)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.py", "pkg/mod.py"}, files)
}
