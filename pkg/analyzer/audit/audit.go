// Package audit assembles the full per-file analysis report: line
// classification, symbols, complexity totals, documentation coverage,
// style issues, the file dependency graph, and the quality score.
//
// Analysis never fails outward. Unreadable or unparseable input
// produces a degraded report with the error marker set and empty
// collections; it scores zero and serializes like any other report.
package audit

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/svergne/pyscope/internal/lint"
	"github.com/svergne/pyscope/pkg/analyzer/graph"
	"github.com/svergne/pyscope/pkg/analyzer/score"
	"github.com/svergne/pyscope/pkg/analyzer/symbols"
	"github.com/svergne/pyscope/pkg/models"
	"github.com/svergne/pyscope/pkg/parser"
	"github.com/svergne/pyscope/pkg/source"
)

// Analyzer analyzes Python files one at a time. It owns a parser and
// is not safe for concurrent use; for pooled analysis call AnalyzeWith
// with per-worker parsers.
type Analyzer struct {
	parser *parser.Parser
	linter *lint.Runner
	src    source.ContentSource
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLinter attaches a style checker; without one reports carry no
// style issues.
func WithLinter(r *lint.Runner) Option {
	return func(a *Analyzer) { a.linter = r }
}

// WithSource overrides where file content is read from.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) { a.src = src }
}

// New creates an analyzer reading from the filesystem.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		parser: parser.New(),
		src:    source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Close releases parser resources.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// AnalyzeFile analyzes one file by path.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) *models.Report {
	return AnalyzeWith(ctx, a.parser, a.linter, a.src, path)
}

// AnalyzeSource analyzes in-memory source text. The name labels the
// report; no style checker runs since there is no file to hand it.
func (a *Analyzer) AnalyzeSource(ctx context.Context, src []byte, name string) *models.Report {
	return analyze(ctx, a.parser, nil, src, "", name)
}

// AnalyzeWith analyzes one file using a caller-owned parser, so a
// worker pool can run analyses concurrently with one parser per
// worker.
func AnalyzeWith(ctx context.Context, psr *parser.Parser, linter *lint.Runner, src source.ContentSource, path string) *models.Report {
	content, err := src.ReadFile(path)
	if err != nil {
		report := emptyReport(path, filepath.Base(path))
		report.Error = fmt.Sprintf("reading file: %v", err)
		report.QualityScore = score.Compute(report)
		return report
	}
	return analyze(ctx, psr, linter, content, path, filepath.Base(path))
}

func analyze(ctx context.Context, psr *parser.Parser, linter *lint.Runner, content []byte, path, name string) *models.Report {
	report := emptyReport(path, name)
	countLines(content, report)

	res, err := psr.Parse(content, path)
	if err != nil || res.HasSyntaxError() {
		if res != nil {
			res.Close()
		}
		report.Error = "syntax error: file could not be parsed"
		report.QualityScore = score.Compute(report)
		return report
	}
	defer res.Close()

	syms := symbols.Extract(res)
	report.Imports = syms.Imports
	report.Classes = syms.Classes
	report.Functions = syms.Functions
	report.Variables = syms.Variables
	report.Constants = syms.Constants

	all := report.AllFunctions()
	for _, fn := range all {
		report.TotalComplexity += fn.Complexity
		if fn.Complexity > report.MaxComplexity {
			report.MaxComplexity = fn.Complexity
		}
	}
	if len(all) > 0 {
		report.AvgComplexity = round(float64(report.TotalComplexity)/float64(len(all)), 2)
	}

	for _, fn := range report.Functions {
		if fn.HasDocstring {
			report.DocumentedFunctions++
		}
	}
	for _, c := range report.Classes {
		if c.HasDocstring {
			report.DocumentedClasses++
		}
	}
	documentable := len(report.Functions) + len(report.Classes)
	if documentable == 0 {
		report.DocCoverage = 100.0
	} else {
		documented := report.DocumentedFunctions + report.DocumentedClasses
		report.DocCoverage = round(float64(documented)/float64(documentable)*100, 1)
	}

	if linter != nil && path != "" {
		report.StyleIssues = linter.Check(ctx, path)
	}

	report.Graph = graph.Build(res)
	report.QualityScore = score.Compute(report)
	return report
}

func emptyReport(path, name string) *models.Report {
	return &models.Report{
		Path:        path,
		Filename:    name,
		Imports:     []models.ImportRecord{},
		Classes:     []models.ClassRecord{},
		Functions:   []models.FunctionRecord{},
		Variables:   []models.VariableRecord{},
		Constants:   []models.ConstantRecord{},
		StyleIssues: []string{},
	}
}

// countLines classifies every line as blank, comment, or code. A
// comment line starts with '#' after stripping whitespace, so trailing
// comments count as code.
func countLines(content []byte, report *models.Report) {
	lines := strings.Split(string(content), "\n")
	report.Lines = len(lines)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			report.BlankLines++
		case strings.HasPrefix(trimmed, "#"):
			report.CommentLines++
		default:
			report.CodeLines++
		}
	}
	if report.CodeLines > 0 {
		report.CommentRatio = round(float64(report.CommentLines)/float64(report.CodeLines)*100, 1)
	}
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
