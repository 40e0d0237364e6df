// Package graph builds dependency graphs: a per-file graph over one
// module's top-level declarations and a project graph linking modules
// through their local imports.
package graph

import (
	"fmt"
	"path/filepath"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/svergne/pyscope/pkg/models"
	"github.com/svergne/pyscope/pkg/parser"
)

// Build constructs the dependency graph of a single parsed file. Only
// top-level statements contribute nodes: imported names, classes with
// their methods nested as children, and free functions. Edges connect
// classes to the bases they inherit from and functions to what they
// call, with calls to class names reported as instantiation and calls
// to imported names falling back to the import node.
func Build(res *parser.ParseResult) *models.FileGraph {
	g := &models.FileGraph{
		Filename: filepath.Base(res.Path),
		Nodes:    []models.GraphNode{},
		Edges:    []models.GraphEdge{},
	}
	if res.HasSyntaxError() {
		g.Error = "syntax error"
		return g
	}

	root := res.Tree.RootNode()
	src := res.Source

	imports := map[string]bool{}
	var classes []classDecl
	var funcs []funcDecl

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if parser.KindOf(stmt) == parser.KindDecoratedDef {
			if def := stmt.ChildByFieldName("definition"); def != nil {
				stmt = def
			}
		}
		switch parser.KindOf(stmt) {
		case parser.KindImport, parser.KindImportFrom:
			for _, name := range boundNames(stmt, src) {
				imports[name] = true
			}
		case parser.KindClassDef:
			classes = append(classes, newClassDecl(stmt, src))
		case parser.KindFunctionDef:
			funcs = append(funcs, funcDecl{
				name:  parser.GetNodeText(stmt.ChildByFieldName("name"), src),
				line:  parser.StartLine(stmt),
				calls: collectCalls(stmt, src),
			})
		}
	}

	importNames := make([]string, 0, len(imports))
	for name := range imports {
		importNames = append(importNames, name)
	}
	sort.Strings(importNames)
	for _, name := range importNames {
		g.Nodes = append(g.Nodes, models.GraphNode{
			ID:    "import_" + name,
			Label: name,
			Kind:  models.NodeImport,
		})
	}

	classNames := map[string]bool{}
	for _, c := range classes {
		classNames[c.name] = true
	}
	funcNames := map[string]bool{}
	for _, f := range funcs {
		funcNames[f.name] = true
	}

	for _, c := range classes {
		node := models.GraphNode{
			ID:         "class_" + c.name,
			Label:      c.name,
			Kind:       models.NodeClass,
			Line:       c.line,
			Methods:    c.methods,
			Attributes: c.attributes,
		}
		for _, m := range c.methods {
			node.Children = append(node.Children, models.GraphNode{
				ID:    fmt.Sprintf("method_%s_%s", c.name, m.Name),
				Label: m.Name,
				Kind:  models.NodeMethod,
				Line:  m.Line,
			})
		}
		g.Nodes = append(g.Nodes, node)

		for _, base := range c.bases {
			g.Edges = append(g.Edges, models.GraphEdge{
				From: "class_" + c.name,
				To:   "class_" + base,
				Kind: models.EdgeInherits,
			})
		}
	}

	for _, f := range funcs {
		g.Nodes = append(g.Nodes, models.GraphNode{
			ID:    "func_" + f.name,
			Label: f.name,
			Kind:  models.NodeFunction,
			Line:  f.line,
			Calls: f.calls,
		})
		for _, call := range f.calls {
			switch {
			case funcNames[call]:
				g.Edges = append(g.Edges, models.GraphEdge{
					From: "func_" + f.name,
					To:   "func_" + call,
					Kind: models.EdgeCalls,
				})
			case classNames[call]:
				g.Edges = append(g.Edges, models.GraphEdge{
					From: "func_" + f.name,
					To:   "class_" + call,
					Kind: models.EdgeInstantiates,
				})
			case imports[call]:
				g.Edges = append(g.Edges, models.GraphEdge{
					From: "func_" + f.name,
					To:   "import_" + call,
					Kind: models.EdgeCalls,
				})
			}
		}
	}

	return g
}

type classDecl struct {
	name       string
	line       uint32
	bases      []string
	methods    []models.MethodRef
	attributes []string
}

type funcDecl struct {
	name  string
	line  uint32
	calls []string
}

func newClassDecl(n *sitter.Node, src []byte) classDecl {
	c := classDecl{
		name: parser.GetNodeText(n.ChildByFieldName("name"), src),
		line: parser.StartLine(n),
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			base := supers.NamedChild(i)
			// Only simple-name bases resolve to class_ node ids.
			if parser.KindOf(base) == parser.KindIdentifier {
				c.bases = append(c.bases, parser.GetNodeText(base, src))
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			stmt := body.NamedChild(i)
			if parser.KindOf(stmt) == parser.KindDecoratedDef {
				if def := stmt.ChildByFieldName("definition"); def != nil {
					stmt = def
				}
			}
			switch parser.KindOf(stmt) {
			case parser.KindFunctionDef:
				c.methods = append(c.methods, models.MethodRef{
					Name: parser.GetNodeText(stmt.ChildByFieldName("name"), src),
					Line: parser.StartLine(stmt),
				})
			case parser.KindExpressionStmt:
				if stmt.NamedChildCount() == 0 {
					continue
				}
				expr := stmt.NamedChild(0)
				if parser.KindOf(expr) != parser.KindAssignment {
					continue
				}
				if left := expr.ChildByFieldName("left"); left != nil && parser.KindOf(left) == parser.KindIdentifier {
					c.attributes = append(c.attributes, parser.GetNodeText(left, src))
				}
			}
		}
	}
	return c
}

// boundNames returns the local names an import statement binds: the
// alias when present, the first dotted segment for plain imports, and
// the imported name for from-imports.
func boundNames(stmt *sitter.Node, src []byte) []string {
	var names []string
	isFrom := parser.KindOf(stmt) == parser.KindImportFrom
	var moduleNode *sitter.Node
	if isFrom {
		moduleNode = stmt.ChildByFieldName("module_name")
	}
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
			continue
		}
		switch parser.KindOf(child) {
		case parser.KindDottedName:
			name := parser.GetNodeText(child, src)
			if !isFrom {
				name = firstSegment(name)
			}
			names = append(names, name)
		case parser.KindAliasedImport:
			names = append(names, parser.GetNodeText(child.ChildByFieldName("alias"), src))
		}
	}
	return names
}

func firstSegment(dotted string) string {
	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

// collectCalls gathers the distinct called names under a node, sorted.
func collectCalls(node *sitter.Node, src []byte) []string {
	seen := map[string]bool{}
	for _, call := range parser.FindNodesByKind(node, parser.KindCall) {
		fn := call.ChildByFieldName("function")
		if fn == nil {
			continue
		}
		switch parser.KindOf(fn) {
		case parser.KindIdentifier:
			seen[parser.GetNodeText(fn, src)] = true
		case parser.KindAttribute:
			if attr := fn.ChildByFieldName("attribute"); attr != nil {
				seen[parser.GetNodeText(attr, src)] = true
			}
		}
	}
	calls := make([]string, 0, len(seen))
	for name := range seen {
		calls = append(calls, name)
	}
	sort.Strings(calls)
	return calls
}
