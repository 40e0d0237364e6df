package models

import (
	"fmt"
	"strings"
)

// NodeKind classifies dependency graph nodes.
type NodeKind string

const (
	NodeImport   NodeKind = "import"
	NodeClass    NodeKind = "class"
	NodeFunction NodeKind = "function"
	NodeMethod   NodeKind = "method"
	NodeModule   NodeKind = "module"
)

// EdgeKind classifies dependency graph edges.
type EdgeKind string

const (
	EdgeInherits     EdgeKind = "inherits"
	EdgeCalls        EdgeKind = "calls"
	EdgeInstantiates EdgeKind = "instantiates"
	EdgeImports      EdgeKind = "imports"
)

// MethodRef is a method summary attached to a class node.
type MethodRef struct {
	Name string `json:"name"`
	Line uint32 `json:"line"`
}

// GraphNode is a node in a per-file or project dependency graph. Only
// the fields relevant to its kind are populated.
type GraphNode struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"type"`
	Line  uint32   `json:"line,omitempty"`

	// Class nodes.
	Methods    []MethodRef `json:"methods,omitempty"`
	Attributes []string    `json:"attributes,omitempty"`
	Children   []GraphNode `json:"children,omitempty"`

	// Function nodes.
	Calls []string `json:"calls,omitempty"`

	// Module nodes (project graph).
	Filepath  string   `json:"filepath,omitempty"`
	Classes   []string `json:"classes,omitempty"`
	Functions []string `json:"functions,omitempty"`
	Imports   []string `json:"imports,omitempty"`
	Lines     int      `json:"lines,omitempty"`
}

// GraphEdge is a directed edge between two graph nodes.
type GraphEdge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"type"`
}

// FileGraph is the dependency graph of a single file's top level.
type FileGraph struct {
	Filename string      `json:"filename,omitempty"`
	Error    string      `json:"error,omitempty"`
	Nodes    []GraphNode `json:"nodes"`
	Edges    []GraphEdge `json:"edges"`
}

// ProjectGraph links the modules of a project through their local
// imports.
type ProjectGraph struct {
	Nodes       []GraphNode `json:"nodes"`
	Edges       []GraphEdge `json:"edges"`
	ModuleCount int         `json:"module_count"`
}

// ToMermaid renders the graph as a Mermaid flowchart.
func (g *FileGraph) ToMermaid() string {
	return mermaid(g.Nodes, g.Edges)
}

// ToMermaid renders the project graph as a Mermaid flowchart.
func (g *ProjectGraph) ToMermaid() string {
	return mermaid(g.Nodes, g.Edges)
}

func mermaid(nodes []GraphNode, edges []GraphEdge) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for _, n := range nodes {
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", mermaidID(n.ID), mermaidEscape(n.Label)))
	}
	for _, e := range edges {
		arrow := "-->"
		if e.Kind == EdgeImports {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s|%s| %s\n", mermaidID(e.From), arrow, e.Kind, mermaidID(e.To)))
	}
	return sb.String()
}

func mermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "/", "_", "-", "_", " ", "_")
	return r.Replace(id)
}

func mermaidEscape(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
