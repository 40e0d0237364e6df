package graph

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/svergne/pyscope/pkg/analyzer"
	"github.com/svergne/pyscope/pkg/models"
	"github.com/svergne/pyscope/pkg/parser"
	"github.com/svergne/pyscope/pkg/source"
)

const maxFunctionsPerModule = 10

// BuildProject parses every file and builds the module-level graph.
// Each file becomes one module node named by its dotted path relative
// to root (package __init__ modules collapse onto the package name).
// Edges connect a module to the local modules it imports, matching
// either the full imported path or its first dotted segment. Files
// that fail to read or parse are skipped.
func BuildProject(ctx context.Context, root string, files []string, src source.ContentSource) (*models.ProjectGraph, error) {
	tracker := analyzer.TrackerFromContext(ctx)
	tracker.Start(len(files))
	defer tracker.Finish()

	p := parser.New()
	defer p.Close()

	type moduleInfo struct {
		node    models.GraphNode
		imports []string
	}
	var order []string
	modules := map[string]*moduleInfo{}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tracker.Increment()

		content, err := src.ReadFile(file)
		if err != nil {
			continue
		}
		res, err := p.Parse(content, file)
		if err != nil || res.HasSyntaxError() {
			if res != nil {
				res.Close()
			}
			continue
		}

		name := moduleName(root, file)
		info := &moduleInfo{node: models.GraphNode{
			ID:       name,
			Label:    moduleStem(file),
			Kind:     models.NodeModule,
			Filepath: filepath.ToSlash(file),
			Lines:    countLines(content),
		}}

		rootNode := res.Tree.RootNode()
		for _, class := range parser.FindNodesByKind(rootNode, parser.KindClassDef) {
			info.node.Classes = append(info.node.Classes, parser.GetNodeText(class.ChildByFieldName("name"), content))
		}
		for _, fn := range parser.FindNodesByKind(rootNode, parser.KindFunctionDef) {
			if len(info.node.Functions) >= maxFunctionsPerModule {
				break
			}
			info.node.Functions = append(info.node.Functions, parser.GetNodeText(fn.ChildByFieldName("name"), content))
		}
		info.imports = moduleImports(rootNode, content)
		info.node.Imports = info.imports
		res.Close()

		if _, ok := modules[name]; !ok {
			order = append(order, name)
		}
		modules[name] = info
	}

	g := &models.ProjectGraph{
		Nodes:       []models.GraphNode{},
		Edges:       []models.GraphEdge{},
		ModuleCount: len(modules),
	}
	for _, name := range order {
		g.Nodes = append(g.Nodes, modules[name].node)
	}
	for _, name := range order {
		for _, imp := range modules[name].imports {
			target := ""
			if _, ok := modules[imp]; ok {
				target = imp
			} else if first := firstSegment(imp); first != imp {
				if _, ok := modules[first]; ok {
					target = first
				}
			}
			if target == "" || target == name {
				continue
			}
			g.Edges = append(g.Edges, models.GraphEdge{
				From: name,
				To:   target,
				Kind: models.EdgeImports,
			})
		}
	}
	return g, nil
}

// moduleName derives the dotted module path of a file relative to the
// project root. a/b/c.py becomes a.b.c; a package's __init__.py
// collapses onto the package path.
func moduleName(root, file string) string {
	rel := file
	if root != "" {
		if r, err := filepath.Rel(root, file); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, ".py")
	name := strings.ReplaceAll(rel, "/", ".")
	name = strings.TrimSuffix(name, ".__init__")
	return name
}

func moduleStem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, ".py")
}

// moduleImports collects the modules a file imports: full dotted paths
// for plain imports, the source module for from-imports with relative
// dots stripped. Sorted and deduplicated.
func moduleImports(root *sitter.Node, src []byte) []string {
	seen := map[string]bool{}
	parser.WalkTyped(root, func(n *sitter.Node, kind parser.Kind) bool {
		switch kind {
		case parser.KindImport:
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				switch parser.KindOf(child) {
				case parser.KindDottedName:
					seen[parser.GetNodeText(child, src)] = true
				case parser.KindAliasedImport:
					seen[parser.GetNodeText(child.ChildByFieldName("name"), src)] = true
				}
			}
		case parser.KindImportFrom:
			if mod := n.ChildByFieldName("module_name"); mod != nil {
				name := strings.TrimLeft(parser.GetNodeText(mod, src), ".")
				if name != "" {
					seen[name] = true
				}
			}
		}
		return true
	})
	imports := make([]string, 0, len(seen))
	for name := range seen {
		imports = append(imports, name)
	}
	sort.Strings(imports)
	return imports
}

// countLines matches Python splitlines semantics: a trailing newline
// does not start a new line.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		return len(lines) - 1
	}
	return len(lines)
}
