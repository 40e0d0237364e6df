package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svergne/pyscope/pkg/config"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x = 1\n"), 0o644))
	}
}

func relAll(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestScanFindsPythonFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "main.py", "pkg/mod.py", "README.md", "data.txt")

	files, err := New(config.DefaultConfig()).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py", "pkg/mod.py"}, relAll(t, root, files))
}

func TestScanSkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "app.py", "__pycache__/app.py", ".venv/lib/site.py")

	files, err := New(config.DefaultConfig()).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, relAll(t, root, files))
}

func TestScanHonorsPatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "app.py", "test_app.py")

	cfg := config.DefaultConfig()
	cfg.Exclude.Patterns = []string{"test_*.py"}
	files, err := New(cfg).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, relAll(t, root, files))
}

func TestScanHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "app.py", "generated/schema.py")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("generated/\n"), 0o644))

	files, err := New(config.DefaultConfig()).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, relAll(t, root, files))
}

func TestScanGitignoreDisabled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "app.py", "generated/schema.py")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("generated/\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	files, err := New(cfg).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py", "generated/schema.py"}, relAll(t, root, files))
}
