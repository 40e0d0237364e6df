// Package complexity computes cyclomatic complexity for Python
// functions from their syntax subtree.
package complexity

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/svergne/pyscope/pkg/parser"
)

// Count returns the cyclomatic complexity of the given subtree,
// normally a function definition. The base is 1; each decision point
// adds 1:
//
//   - if statements and each elif clause
//   - while and for loops (async included)
//   - except clauses
//   - with statements
//   - assert statements
//   - comprehensions and generator expressions
//   - boolean operators, where an n-ary and/or chain parses into n-1
//     nested binary nodes and so contributes n-1
//
// The walk is unscoped: decision points inside nested functions count
// toward the enclosing definition. Conditional expressions (x if c
// else y) are not decision points.
func Count(node *sitter.Node, source []byte) int {
	complexity := 1
	parser.WalkTyped(node, func(n *sitter.Node, kind parser.Kind) bool {
		switch kind {
		case parser.KindIf, parser.KindElif,
			parser.KindWhile, parser.KindFor,
			parser.KindExcept,
			parser.KindWith,
			parser.KindAssert,
			parser.KindBooleanOperator,
			parser.KindListComp, parser.KindDictComp,
			parser.KindSetComp, parser.KindGeneratorExp:
			complexity++
		}
		return true
	})
	return complexity
}

// Grade buckets a complexity value for display.
func Grade(complexity int) string {
	switch {
	case complexity <= 5:
		return "low"
	case complexity <= 10:
		return "moderate"
	default:
		return "high"
	}
}
