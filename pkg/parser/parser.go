// Package parser wraps tree-sitter to parse Python source files and
// exposes the traversal helpers the analyzers are built on.
//
// tree-sitter always produces a tree, even for broken input; syntax
// failure is signalled by ERROR/MISSING nodes in the tree, surfaced
// here as ParseResult.HasSyntaxError.
package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Kind is the tree-sitter node type of a Python syntax node. The
// analyzers dispatch on this closed set instead of matching on raw
// strings at each call site.
type Kind string

const (
	KindModule             Kind = "module"
	KindComment            Kind = "comment"
	KindImport             Kind = "import_statement"
	KindImportFrom         Kind = "import_from_statement"
	KindAliasedImport      Kind = "aliased_import"
	KindDottedName         Kind = "dotted_name"
	KindWildcardImport     Kind = "wildcard_import"
	KindRelativeImport     Kind = "relative_import"
	KindFunctionDef        Kind = "function_definition"
	KindClassDef           Kind = "class_definition"
	KindDecoratedDef       Kind = "decorated_definition"
	KindBlock              Kind = "block"
	KindExpressionStmt     Kind = "expression_statement"
	KindAssignment         Kind = "assignment"
	KindCall               Kind = "call"
	KindAttribute          Kind = "attribute"
	KindIdentifier         Kind = "identifier"
	KindArgumentList       Kind = "argument_list"
	KindKeywordArgument    Kind = "keyword_argument"
	KindString             Kind = "string"
	KindConcatenatedString Kind = "concatenated_string"
	KindInteger            Kind = "integer"
	KindFloat              Kind = "float"
	KindTrue               Kind = "true"
	KindFalse              Kind = "false"
	KindNone               Kind = "none"
	KindList               Kind = "list"
	KindDictionary         Kind = "dictionary"
	KindSet                Kind = "set"
	KindTuple              Kind = "tuple"
	KindIf                 Kind = "if_statement"
	KindElif               Kind = "elif_clause"
	KindWhile              Kind = "while_statement"
	KindFor                Kind = "for_statement"
	KindWith               Kind = "with_statement"
	KindExcept             Kind = "except_clause"
	KindAssert             Kind = "assert_statement"
	KindBooleanOperator    Kind = "boolean_operator"
	KindConditional        Kind = "conditional_expression"
	KindListComp           Kind = "list_comprehension"
	KindDictComp           Kind = "dictionary_comprehension"
	KindSetComp            Kind = "set_comprehension"
	KindGeneratorExp       Kind = "generator_expression"
	KindParameters         Kind = "parameters"
	KindTypedParameter     Kind = "typed_parameter"
	KindDefaultParameter   Kind = "default_parameter"
	KindTypedDefaultParam  Kind = "typed_default_parameter"
	KindListSplat          Kind = "list_splat_pattern"
	KindDictSplat          Kind = "dictionary_splat_pattern"
	KindError              Kind = "ERROR"
)

// KindOf returns the Kind tag for a node.
func KindOf(n *sitter.Node) Kind {
	return Kind(n.Type())
}

// Parser parses Python source into tree-sitter syntax trees. It is not
// safe for concurrent use; create one per worker.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult holds a parsed tree together with its source text.
type ParseResult struct {
	Tree   *sitter.Tree
	Source []byte
	Path   string
}

// New creates a parser configured with the Python grammar.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile reads and parses a Python file from disk.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return p.Parse(content, path)
}

// Parse parses Python source. The path is informational and may be
// empty for in-memory snippets.
func (p *Parser) Parse(source []byte, path string) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &ParseResult{Tree: tree, Source: source, Path: path}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// HasSyntaxError reports whether the tree contains ERROR or MISSING
// nodes, i.e. the source did not parse cleanly.
func (r *ParseResult) HasSyntaxError() bool {
	root := r.Tree.RootNode()
	return root != nil && root.HasError()
}

// Close releases the underlying tree.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}

// Walk traverses all nodes in the tree depth-first, calling visit for
// each. Returning false from visit skips that node's children.
func Walk(node *sitter.Node, visit func(n *sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		Walk(node.Child(i), visit)
	}
}

// WalkTyped is Walk with the node's Kind tag resolved for the visitor.
func WalkTyped(node *sitter.Node, visit func(n *sitter.Node, kind Kind) bool) {
	Walk(node, func(n *sitter.Node) bool {
		return visit(n, KindOf(n))
	})
}

// FindNodesByKind collects all nodes of the given kinds.
func FindNodesByKind(node *sitter.Node, kinds ...Kind) []*sitter.Node {
	var result []*sitter.Node
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	WalkTyped(node, func(n *sitter.Node, kind Kind) bool {
		if want[kind] {
			result = append(result, n)
		}
		return true
	})
	return result
}

// GetNodeText extracts the source text for a node.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

// StartLine returns the 1-based line a node starts on.
func StartLine(node *sitter.Node) uint32 {
	return node.StartPoint().Row + 1
}

// EndLine returns the 1-based line a node ends on.
func EndLine(node *sitter.Node) uint32 {
	return node.EndPoint().Row + 1
}

// IsAsync reports whether a function or loop definition carries the
// async keyword, which tree-sitter exposes as a leading "async" token.
func IsAsync(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

// Docstring returns the docstring of a function, class, or module
// body: the string literal that is the body's first statement. The
// second return is false when no docstring is present.
func Docstring(body *sitter.Node, source []byte) (string, bool) {
	if body == nil || body.NamedChildCount() == 0 {
		return "", false
	}
	first := body.NamedChild(0)
	if KindOf(first) != KindExpressionStmt || first.NamedChildCount() == 0 {
		return "", false
	}
	expr := first.NamedChild(0)
	switch KindOf(expr) {
	case KindString, KindConcatenatedString:
		return StringValue(expr, source), true
	}
	return "", false
}

// StringValue unquotes a Python string literal node, stripping any
// prefix (r, b, f, u in any case or combination) and the surrounding
// single, double, or triple quotes. Adjacent literals in a
// concatenated_string node are unquoted individually and joined.
func StringValue(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if KindOf(node) == KindConcatenatedString {
		var b strings.Builder
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); KindOf(child) == KindString {
				b.WriteString(StringValue(child, source))
			}
		}
		return b.String()
	}
	text := GetNodeText(node, source)
	for len(text) > 0 {
		switch text[0] {
		case 'r', 'R', 'b', 'B', 'f', 'F', 'u', 'U':
			text = text[1:]
			continue
		}
		break
	}
	for _, q := range []string{`"""`, "'''", `"`, `'`} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
			return text[len(q) : len(text)-len(q)]
		}
	}
	return text
}
