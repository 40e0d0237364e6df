// Package models defines the analysis report and dependency graph
// records shared across the analyzers and the CLI. Everything here is
// plain data with JSON tags so reports serialize directly.
package models

// ImportRecord captures one imported binding. Kind is "import" for
// plain imports and "from" for from-imports.
type ImportRecord struct {
	Kind   string `json:"kind"`
	Module string `json:"module"`
	Name   string `json:"name,omitempty"`
	Alias  string `json:"alias,omitempty"`
	Line   uint32 `json:"line"`
}

// Parameter is a function parameter with its optional annotation.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// FunctionRecord describes a function or method definition.
type FunctionRecord struct {
	Name         string      `json:"name"`
	Line         uint32      `json:"line"`
	EndLine      uint32      `json:"end_line"`
	Params       []Parameter `json:"args"`
	ArgCount     int         `json:"arg_count"`
	ReturnType   string      `json:"return_type,omitempty"`
	HasDocstring bool        `json:"has_docstring"`
	Docstring    string      `json:"docstring,omitempty"`
	Complexity   int         `json:"complexity"`
	Calls        []string    `json:"calls,omitempty"`
	Lines        int         `json:"lines"`
	IsAsync      bool        `json:"is_async"`
	IsPrivate    bool        `json:"is_private"`
	IsMagic      bool        `json:"is_magic"`
}

// ClassRecord describes a class definition and its methods.
type ClassRecord struct {
	Name         string           `json:"name"`
	Line         uint32           `json:"line"`
	EndLine      uint32           `json:"end_line"`
	Bases        []string         `json:"bases,omitempty"`
	Methods      []FunctionRecord `json:"methods"`
	MethodCount  int              `json:"method_count"`
	Attributes   []string         `json:"attributes,omitempty"`
	HasDocstring bool             `json:"has_docstring"`
	Docstring    string           `json:"docstring,omitempty"`
	IsPrivate    bool             `json:"is_private"`
}

// VariableRecord is a module-level assignment with an inferred or
// annotated type tag.
type VariableRecord struct {
	Name       string `json:"name"`
	Line       uint32 `json:"line"`
	Type       string `json:"type,omitempty"`
	IsConstant bool   `json:"is_constant"`
}

// ConstantRecord is an uppercase module-level assignment. Value is the
// literal source text, truncated, or empty for non-literal values.
type ConstantRecord struct {
	Name  string `json:"name"`
	Line  uint32 `json:"line"`
	Value string `json:"value,omitempty"`
}

// Report is the full per-file analysis result. A failed read or parse
// produces a degraded report with Error set and empty collections; it
// still scores (as zero) and serializes like any other report.
type Report struct {
	Path     string `json:"filepath,omitempty"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`

	Lines        int     `json:"lines"`
	CodeLines    int     `json:"code_lines"`
	BlankLines   int     `json:"blank_lines"`
	CommentLines int     `json:"comment_lines"`
	CommentRatio float64 `json:"comment_ratio"`

	Imports   []ImportRecord   `json:"imports"`
	Classes   []ClassRecord    `json:"classes"`
	Functions []FunctionRecord `json:"functions"`
	Variables []VariableRecord `json:"variables,omitempty"`
	Constants []ConstantRecord `json:"constants,omitempty"`

	TotalComplexity int     `json:"total_complexity"`
	AvgComplexity   float64 `json:"avg_complexity"`
	MaxComplexity   int     `json:"max_complexity"`

	DocCoverage         float64 `json:"doc_coverage"`
	DocumentedFunctions int     `json:"documented_functions"`
	DocumentedClasses   int     `json:"documented_classes"`

	StyleIssues []string `json:"style_issues"`

	Graph *FileGraph `json:"dependency_graph,omitempty"`

	QualityScore int `json:"quality_score"`
}

// AllFunctions returns free functions plus every class method.
func (r *Report) AllFunctions() []FunctionRecord {
	all := make([]FunctionRecord, 0, len(r.Functions))
	all = append(all, r.Functions...)
	for _, c := range r.Classes {
		all = append(all, c.Methods...)
	}
	return all
}
