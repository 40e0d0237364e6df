package fileproc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svergne/pyscope/pkg/parser"
)

func TestMapFilesPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 20; i++ {
		path := filepath.Join(dir, fmt.Sprintf("f%02d.py", i))
		src := ""
		for j := 0; j <= i; j++ {
			src += fmt.Sprintf("def fn_%d():\n    pass\n", j)
		}
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		files = append(files, path)
	}

	counts := MapFiles(context.Background(), files, func(psr *parser.Parser, path string) int {
		res, err := psr.ParseFile(path)
		if err != nil {
			return -1
		}
		defer res.Close()
		return len(parser.FindNodesByKind(res.Tree.RootNode(), parser.KindFunctionDef))
	})

	require.Len(t, counts, 20)
	for i, n := range counts {
		assert.Equal(t, i+1, n, "file %d", i)
	}
}

func TestMapFilesEmptyInput(t *testing.T) {
	results := MapFiles(context.Background(), nil, func(psr *parser.Parser, path string) int {
		return 1
	})
	assert.Empty(t, results)
}

func TestMapFilesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := MapFiles(ctx, []string{"a.py", "b.py"}, func(psr *parser.Parser, path string) int {
		return 1
	})
	// Zero values remain for skipped work.
	assert.Equal(t, []int{0, 0}, results)
}
