package graph

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svergne/pyscope/pkg/models"
)

type mapSource map[string]string

func (m mapSource) ReadFile(path string) ([]byte, error) {
	if content, ok := m[path]; ok {
		return []byte(content), nil
	}
	return nil, os.ErrNotExist
}

func TestBuildProject(t *testing.T) {
	src := mapSource{
		"app/main.py":         "import os\nimport utils\n\ndef run():\n    pass\n",
		"app/utils.py":        "def helper():\n    pass\n",
		"app/pkg/__init__.py": "",
		"app/cli.py":          "from pkg.commands import main\n",
	}
	files := []string{"app/main.py", "app/utils.py", "app/pkg/__init__.py", "app/cli.py"}

	g, err := BuildProject(context.Background(), "app", files, src)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, 4, g.ModuleCount)

	ids := make(map[string]models.GraphNode)
	for _, n := range g.Nodes {
		ids[n.ID] = n
	}
	require.Contains(t, ids, "main")
	require.Contains(t, ids, "utils")
	// __init__.py collapses onto the package name.
	require.Contains(t, ids, "pkg")
	require.Contains(t, ids, "cli")

	main := ids["main"]
	assert.Equal(t, models.NodeModule, main.Kind)
	assert.Equal(t, "main", main.Label)
	assert.Equal(t, []string{"run"}, main.Functions)
	assert.Equal(t, []string{"os", "utils"}, main.Imports)
	assert.Equal(t, 5, main.Lines)

	// main imports a local module, cli imports through a dotted path
	// whose first segment is local.
	assert.Len(t, g.Edges, 2)
	assert.True(t, hasEdge(g.Edges, "main", "utils", models.EdgeImports))
	assert.True(t, hasEdge(g.Edges, "cli", "pkg", models.EdgeImports))
}

func TestBuildProjectSkipsBrokenFiles(t *testing.T) {
	src := mapSource{
		"app/good.py":   "x = 1\n",
		"app/broken.py": "def broken(:\n",
	}
	files := []string{"app/good.py", "app/broken.py", "app/gone.py"}

	g, err := BuildProject(context.Background(), "app", files, src)
	require.NoError(t, err)
	assert.Equal(t, 1, g.ModuleCount)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "good", g.Nodes[0].ID)
}

func TestBuildProjectCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildProject(ctx, "app", []string{"app/a.py"}, mapSource{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	nodes := []models.GraphNode{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
	}
	edges := []models.GraphEdge{
		{From: "a", To: "b", Kind: models.EdgeImports},
		{From: "b", To: "a", Kind: models.EdgeImports},
		{From: "b", To: "c", Kind: models.EdgeImports},
		{From: "x", To: "a", Kind: models.EdgeImports}, // unknown endpoint
		{From: "a", To: "a", Kind: models.EdgeImports}, // self loop
	}
	s := Summarize(nodes, edges)
	assert.Equal(t, 4, s.Nodes)
	assert.Equal(t, 3, s.Edges)
	assert.Equal(t, 2, s.Components)
	assert.Equal(t, 3, s.LargestComponent)
	assert.Equal(t, 1, s.Cycles)
	assert.InDelta(t, 0.75, s.AvgDegree, 1e-9)
	assert.InDelta(t, 0.25, s.Density, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	assert.Equal(t, 0, s.Nodes)
	assert.Equal(t, 0, s.Components)
}
