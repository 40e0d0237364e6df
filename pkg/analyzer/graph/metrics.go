package graph

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/svergne/pyscope/pkg/models"
)

// Summary holds structural metrics over a dependency graph.
type Summary struct {
	Nodes            int     `json:"nodes"`
	Edges            int     `json:"edges"`
	AvgDegree        float64 `json:"avg_degree"`
	Density          float64 `json:"density"`
	Components       int     `json:"components"`
	LargestComponent int     `json:"largest_component"`
	Cycles           int     `json:"cycles"`
}

// Summarize computes structural metrics for a set of nodes and edges.
// Edges referencing unknown nodes and self loops are ignored, which
// covers inheritance edges pointing at classes defined elsewhere.
func Summarize(nodes []models.GraphNode, edges []models.GraphEdge) Summary {
	index := make(map[string]int64, len(nodes))
	for i, n := range nodes {
		index[n.ID] = int64(i)
	}

	dg := simple.NewDirectedGraph()
	ug := simple.NewUndirectedGraph()
	for i := range nodes {
		dg.AddNode(simple.Node(int64(i)))
		ug.AddNode(simple.Node(int64(i)))
	}

	edgeCount := 0
	seen := map[[2]int64]bool{}
	for _, e := range edges {
		from, okF := index[e.From]
		to, okT := index[e.To]
		if !okF || !okT || from == to {
			continue
		}
		key := [2]int64{from, to}
		if seen[key] {
			continue
		}
		seen[key] = true
		dg.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		ug.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		edgeCount++
	}

	s := Summary{Nodes: len(nodes), Edges: edgeCount}
	if len(nodes) == 0 {
		return s
	}

	s.AvgDegree = float64(edgeCount) / float64(len(nodes))
	if len(nodes) > 1 {
		s.Density = float64(edgeCount) / float64(len(nodes)*(len(nodes)-1))
	}

	components := topo.ConnectedComponents(ug)
	s.Components = len(components)
	for _, c := range components {
		if len(c) > s.LargestComponent {
			s.LargestComponent = len(c)
		}
	}

	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) > 1 {
			s.Cycles++
		}
	}
	return s
}
