package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svergne/pyscope/pkg/models"
	"github.com/svergne/pyscope/pkg/parser"
)

const fixture = `import os
import numpy as np
from pathlib import Path


class B:
    pass


class A(B):
    """Doc."""

    rate = 1

    def run(self):
        pass


def make():
    return A()


def use():
    make()
    Path('x')
`

func buildGraph(t *testing.T, source string) *models.FileGraph {
	t.Helper()
	p := parser.New()
	t.Cleanup(p.Close)
	res, err := p.Parse([]byte(source), "sample.py")
	require.NoError(t, err)
	t.Cleanup(res.Close)
	return Build(res)
}

func nodeIDs(g *models.FileGraph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func hasEdge(edges []models.GraphEdge, from, to string, kind models.EdgeKind) bool {
	for _, e := range edges {
		if e.From == from && e.To == to && e.Kind == kind {
			return true
		}
	}
	return false
}

func TestBuildNodes(t *testing.T) {
	g := buildGraph(t, fixture)
	assert.Equal(t, "sample.py", g.Filename)
	assert.Empty(t, g.Error)
	assert.Equal(t, []string{
		"import_Path", "import_np", "import_os",
		"class_B", "class_A",
		"func_make", "func_use",
	}, nodeIDs(g))
}

func TestBuildClassNode(t *testing.T) {
	g := buildGraph(t, fixture)
	var class models.GraphNode
	for _, n := range g.Nodes {
		if n.ID == "class_A" {
			class = n
		}
	}
	require.Equal(t, "class_A", class.ID)
	assert.Equal(t, models.NodeClass, class.Kind)
	assert.Equal(t, []models.MethodRef{{Name: "run", Line: 15}}, class.Methods)
	assert.Equal(t, []string{"rate"}, class.Attributes)
	require.Len(t, class.Children, 1)
	assert.Equal(t, "method_A_run", class.Children[0].ID)
	assert.Equal(t, models.NodeMethod, class.Children[0].Kind)
}

func TestBuildEdges(t *testing.T) {
	g := buildGraph(t, fixture)
	assert.True(t, hasEdge(g.Edges, "class_A", "class_B", models.EdgeInherits))
	assert.True(t, hasEdge(g.Edges, "func_make", "class_A", models.EdgeInstantiates))
	assert.True(t, hasEdge(g.Edges, "func_use", "func_make", models.EdgeCalls))
	assert.True(t, hasEdge(g.Edges, "func_use", "import_Path", models.EdgeCalls))
}

func TestInheritEdgeWithoutLocalBase(t *testing.T) {
	// The base class need not be defined in the file for the edge to
	// exist.
	g := buildGraph(t, "class A(B):\n    def m(self):\n        \"\"\"Doc.\"\"\"\n        pass\n")
	assert.True(t, hasEdge(g.Edges, "class_A", "class_B", models.EdgeInherits))
}

func TestDottedBaseIgnored(t *testing.T) {
	g := buildGraph(t, "import abc\n\nclass A(abc.ABC):\n    pass\n")
	for _, e := range g.Edges {
		assert.NotEqual(t, models.EdgeInherits, e.Kind)
	}
}

func TestNestedDefinitionsExcluded(t *testing.T) {
	g := buildGraph(t, "def outer():\n    def inner():\n        pass\n    class Local:\n        pass\n")
	assert.Equal(t, []string{"func_outer"}, nodeIDs(g))
}

func TestSyntaxErrorGraph(t *testing.T) {
	g := buildGraph(t, "class Broken(:\n    pass\n")
	assert.NotEmpty(t, g.Error)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestToMermaid(t *testing.T) {
	g := buildGraph(t, fixture)
	mermaid := g.ToMermaid()
	assert.Contains(t, mermaid, "graph TD")
	assert.Contains(t, mermaid, "class_A")
	assert.Contains(t, mermaid, "|inherits|")
}
