// Package symbols extracts the declared structure of a Python module:
// imports, classes with their methods and attributes, free functions,
// and module-level variables and constants.
package symbols

import (
	"sort"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/svergne/pyscope/pkg/analyzer/complexity"
	"github.com/svergne/pyscope/pkg/models"
	"github.com/svergne/pyscope/pkg/parser"
)

const (
	docstringMaxLen  = 200
	constValueMaxLen = 50
)

// Result holds every symbol extracted from one module.
type Result struct {
	Imports   []models.ImportRecord
	Classes   []models.ClassRecord
	Functions []models.FunctionRecord
	Variables []models.VariableRecord
	Constants []models.ConstantRecord
}

// defKey identifies a definition by position so methods collected
// under their class are not double-reported as free functions. A
// (line, name) pair is unique per definition.
type defKey struct {
	line uint32
	name string
}

// Extract walks the parsed module and collects its symbols. Imports
// and classes come from a whole-tree walk; variables and constants
// only from the module's immediate body.
func Extract(res *parser.ParseResult) *Result {
	root := res.Tree.RootNode()
	src := res.Source
	out := &Result{
		Imports:   []models.ImportRecord{},
		Classes:   []models.ClassRecord{},
		Functions: []models.FunctionRecord{},
		Variables: []models.VariableRecord{},
		Constants: []models.ConstantRecord{},
	}

	methods := methodPositions(root, src)

	parser.WalkTyped(root, func(n *sitter.Node, kind parser.Kind) bool {
		switch kind {
		case parser.KindImport:
			out.Imports = append(out.Imports, plainImports(n, src)...)
		case parser.KindImportFrom:
			out.Imports = append(out.Imports, fromImports(n, src)...)
		case parser.KindClassDef:
			out.Classes = append(out.Classes, extractClass(n, src))
		case parser.KindFunctionDef:
			key := defKey{parser.StartLine(n), fieldText(n, "name", src)}
			if !methods[key] {
				out.Functions = append(out.Functions, extractFunction(n, src, false))
			}
		}
		return true
	})

	out.Variables, out.Constants = moduleBindings(root, src)
	return out
}

// methodPositions records the (line, name) of every definition that
// sits directly in a class body, so the function walk can skip them.
func methodPositions(root *sitter.Node, src []byte) map[defKey]bool {
	keys := make(map[defKey]bool)
	for _, class := range parser.FindNodesByKind(root, parser.KindClassDef) {
		body := class.ChildByFieldName("body")
		if body == nil {
			continue
		}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			if fn := asFunctionDef(body.NamedChild(i)); fn != nil {
				keys[defKey{parser.StartLine(fn), fieldText(fn, "name", src)}] = true
			}
		}
	}
	return keys
}

// asFunctionDef unwraps decorated definitions and returns the inner
// function definition, or nil when the statement is not one.
func asFunctionDef(n *sitter.Node) *sitter.Node {
	if parser.KindOf(n) == parser.KindDecoratedDef {
		n = n.ChildByFieldName("definition")
		if n == nil {
			return nil
		}
	}
	if parser.KindOf(n) == parser.KindFunctionDef {
		return n
	}
	return nil
}

func plainImports(n *sitter.Node, src []byte) []models.ImportRecord {
	var records []models.ImportRecord
	line := parser.StartLine(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch parser.KindOf(child) {
		case parser.KindDottedName:
			records = append(records, models.ImportRecord{
				Kind:   "import",
				Module: parser.GetNodeText(child, src),
				Line:   line,
			})
		case parser.KindAliasedImport:
			records = append(records, models.ImportRecord{
				Kind:   "import",
				Module: fieldText(child, "name", src),
				Alias:  fieldText(child, "alias", src),
				Line:   line,
			})
		}
	}
	return records
}

func fromImports(n *sitter.Node, src []byte) []models.ImportRecord {
	var records []models.ImportRecord
	line := parser.StartLine(n)
	moduleNode := n.ChildByFieldName("module_name")
	module := parser.GetNodeText(moduleNode, src)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
			continue
		}
		rec := models.ImportRecord{Kind: "from", Module: module, Line: line}
		switch parser.KindOf(child) {
		case parser.KindDottedName:
			rec.Name = parser.GetNodeText(child, src)
		case parser.KindAliasedImport:
			rec.Name = fieldText(child, "name", src)
			rec.Alias = fieldText(child, "alias", src)
		case parser.KindWildcardImport:
			rec.Name = "*"
		default:
			continue
		}
		records = append(records, rec)
	}
	return records
}

func extractClass(n *sitter.Node, src []byte) models.ClassRecord {
	name := fieldText(n, "name", src)
	body := n.ChildByFieldName("body")
	doc, hasDoc := parser.Docstring(body, src)

	record := models.ClassRecord{
		Name:         name,
		Line:         parser.StartLine(n),
		EndLine:      parser.EndLine(n),
		Methods:      []models.FunctionRecord{},
		HasDocstring: hasDoc,
		Docstring:    truncate(doc, docstringMaxLen),
		IsPrivate:    strings.HasPrefix(name, "_"),
	}

	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			base := supers.NamedChild(i)
			switch parser.KindOf(base) {
			case parser.KindIdentifier, parser.KindAttribute:
				record.Bases = append(record.Bases, parser.GetNodeText(base, src))
			}
		}
	}

	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			stmt := body.NamedChild(i)
			if fn := asFunctionDef(stmt); fn != nil {
				record.Methods = append(record.Methods, extractFunction(fn, src, true))
				continue
			}
			if parser.KindOf(stmt) == parser.KindExpressionStmt && stmt.NamedChildCount() > 0 {
				expr := stmt.NamedChild(0)
				if parser.KindOf(expr) == parser.KindAssignment {
					if left := expr.ChildByFieldName("left"); left != nil && parser.KindOf(left) == parser.KindIdentifier {
						record.Attributes = append(record.Attributes, parser.GetNodeText(left, src))
					}
				}
			}
		}
	}
	record.MethodCount = len(record.Methods)
	return record
}

func extractFunction(n *sitter.Node, src []byte, isMethod bool) models.FunctionRecord {
	name := fieldText(n, "name", src)
	line := parser.StartLine(n)
	endLine := parser.EndLine(n)
	doc, hasDoc := parser.Docstring(n.ChildByFieldName("body"), src)

	params := extractParams(n.ChildByFieldName("parameters"), src)
	if isMethod && len(params) > 0 && params[0].Name == "self" {
		params = params[1:]
	}

	isMagic := strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
	var isPrivate bool
	if isMethod {
		isPrivate = strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__")
	} else {
		isPrivate = strings.HasPrefix(name, "_")
	}

	return models.FunctionRecord{
		Name:         name,
		Line:         line,
		EndLine:      endLine,
		Params:       params,
		ArgCount:     len(params),
		ReturnType:   fieldText(n, "return_type", src),
		HasDocstring: hasDoc,
		Docstring:    truncate(doc, docstringMaxLen),
		Complexity:   complexity.Count(n, src),
		Calls:        CollectCalls(n, src),
		Lines:        int(endLine-line) + 1,
		IsAsync:      parser.IsAsync(n),
		IsPrivate:    isPrivate,
		IsMagic:      isMagic,
	}
}

func extractParams(params *sitter.Node, src []byte) []models.Parameter {
	out := []models.Parameter{}
	if params == nil {
		return out
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch parser.KindOf(p) {
		case parser.KindIdentifier:
			out = append(out, models.Parameter{Name: parser.GetNodeText(p, src)})
		case parser.KindTypedParameter:
			param := models.Parameter{Type: fieldText(p, "type", src)}
			if p.NamedChildCount() > 0 {
				param.Name = parser.GetNodeText(p.NamedChild(0), src)
			}
			out = append(out, param)
		case parser.KindDefaultParameter:
			out = append(out, models.Parameter{Name: fieldText(p, "name", src)})
		case parser.KindTypedDefaultParam:
			out = append(out, models.Parameter{
				Name: fieldText(p, "name", src),
				Type: fieldText(p, "type", src),
			})
		}
		// Splat and separator parameters are not positional arguments.
	}
	return out
}

// CollectCalls gathers the distinct names called anywhere under node:
// the identifier for plain calls, the final attribute name for method
// calls. Sorted for deterministic output.
func CollectCalls(node *sitter.Node, src []byte) []string {
	seen := make(map[string]bool)
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
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// moduleBindings collects variables and constants from assignments in
// the module's immediate body only.
func moduleBindings(root *sitter.Node, src []byte) ([]models.VariableRecord, []models.ConstantRecord) {
	variables := []models.VariableRecord{}
	constants := []models.ConstantRecord{}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if parser.KindOf(stmt) != parser.KindExpressionStmt || stmt.NamedChildCount() == 0 {
			continue
		}
		assign := stmt.NamedChild(0)
		if parser.KindOf(assign) != parser.KindAssignment {
			continue
		}
		left := assign.ChildByFieldName("left")
		if left == nil || parser.KindOf(left) != parser.KindIdentifier {
			continue
		}
		name := parser.GetNodeText(left, src)
		line := parser.StartLine(assign)
		right := assign.ChildByFieldName("right")

		varType := fieldText(assign, "type", src)
		if varType == "" {
			varType = typeTag(right)
		}
		constant := isUpperName(name)
		variables = append(variables, models.VariableRecord{Name: name, Line: line, Type: varType, IsConstant: constant})

		if constant {
			value := ""
			if right != nil && isLiteral(parser.KindOf(right)) {
				value = truncate(parser.GetNodeText(right, src), constValueMaxLen)
			}
			constants = append(constants, models.ConstantRecord{Name: name, Line: line, Value: value})
		}
	}
	return variables, constants
}

// typeTag maps an assigned value node to a coarse type tag.
func typeTag(right *sitter.Node) string {
	if right == nil {
		return ""
	}
	switch parser.KindOf(right) {
	case parser.KindString, parser.KindConcatenatedString:
		return "str"
	case parser.KindInteger:
		return "int"
	case parser.KindFloat:
		return "float"
	case parser.KindTrue, parser.KindFalse:
		return "bool"
	case parser.KindNone:
		return "NoneType"
	case parser.KindList:
		return "list"
	case parser.KindDictionary:
		return "dict"
	case parser.KindSet:
		return "set"
	case parser.KindTuple:
		return "tuple"
	case parser.KindCall:
		return "call"
	case parser.KindIdentifier:
		return "name"
	case parser.KindAttribute:
		return "attribute"
	default:
		return "expr"
	}
}

func isLiteral(kind parser.Kind) bool {
	switch kind {
	case parser.KindString, parser.KindConcatenatedString, parser.KindInteger,
		parser.KindFloat, parser.KindTrue, parser.KindFalse, parser.KindNone:
		return true
	}
	return false
}

// isUpperName follows Python's str.isupper: at least one uppercase
// letter and no lowercase ones.
func isUpperName(name string) bool {
	hasUpper := false
	for _, r := range name {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func fieldText(n *sitter.Node, field string, src []byte) string {
	return parser.GetNodeText(n.ChildByFieldName(field), src)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
