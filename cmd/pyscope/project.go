package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/svergne/pyscope/internal/fileproc"
	"github.com/svergne/pyscope/internal/lint"
	"github.com/svergne/pyscope/internal/vcs"
	"github.com/svergne/pyscope/pkg/analyzer"
	"github.com/svergne/pyscope/pkg/analyzer/audit"
	"github.com/svergne/pyscope/pkg/analyzer/graph"
	"github.com/svergne/pyscope/pkg/models"
	"github.com/svergne/pyscope/pkg/output"
	"github.com/svergne/pyscope/pkg/parser"
	"github.com/svergne/pyscope/pkg/progress"
	"github.com/svergne/pyscope/pkg/scanner"
	"github.com/svergne/pyscope/pkg/source"
)

func projectCommand() *cli.Command {
	return &cli.Command{
		Name:      "project",
		Usage:     "Analyze every Python file in a directory",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rev",
				Usage: "analyze a committed git revision instead of the working tree",
			},
		},
		Action: runProject,
	}
}

// projectResult is the aggregate output of a project run.
type projectResult struct {
	Files   []*models.Report     `json:"files"`
	Graph   *models.ProjectGraph `json:"graph"`
	Summary graph.Summary        `json:"summary"`
}

func runProject(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		dir = "."
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var (
		files      []string
		contentSrc source.ContentSource
		linter     *lint.Runner
		root       string
	)
	if rev := c.String("rev"); rev != "" {
		tree, err := vcs.ResolveTree(dir, rev)
		if err != nil {
			return err
		}
		files, err = vcs.ListPythonFiles(tree)
		if err != nil {
			return err
		}
		// Tree paths have no working-tree counterpart for the linter.
		contentSrc = source.NewTree(tree, "")
		root = ""
	} else {
		files, err = scanner.New(cfg).Scan(dir)
		if err != nil {
			return err
		}
		contentSrc = source.NewFilesystem()
		linter = newLinter(cfg)
		root = dir
	}

	ctx := c.Context
	reports := fileproc.MapFiles(ctx, files, func(psr *parser.Parser, path string) *models.Report {
		return audit.AnalyzeWith(ctx, psr, linter, contentSrc, path)
	})

	if formatter.Format() == output.FormatText {
		ctx = analyzer.WithTracker(ctx, progress.NewBar("building graph"))
	}
	projectGraph, err := graph.BuildProject(ctx, root, files, contentSrc)
	if err != nil {
		return err
	}

	result := &projectResult{
		Files:   reports,
		Graph:   projectGraph,
		Summary: graph.Summarize(projectGraph.Nodes, projectGraph.Edges),
	}
	return formatter.Output(&projectView{result})
}

type projectView struct {
	result *projectResult
}

func (v *projectView) RenderData() any {
	return v.result
}

func (v *projectView) RenderText(w io.Writer, colored bool) error {
	if err := v.filesTable().RenderText(w, colored); err != nil {
		return err
	}
	return v.summaryTable().RenderText(w, colored)
}

func (v *projectView) RenderMarkdown(w io.Writer) error {
	if err := v.filesTable().RenderMarkdown(w); err != nil {
		return err
	}
	return v.summaryTable().RenderMarkdown(w)
}

func (v *projectView) filesTable() *output.Table {
	rows := make([][]string, 0, len(v.result.Files))
	for _, r := range v.result.Files {
		if r == nil {
			continue
		}
		status := "ok"
		if r.Error != "" {
			status = "error"
		}
		rows = append(rows, []string{
			r.Filename,
			strconv.Itoa(r.QualityScore),
			fmt.Sprintf("%.2f", r.AvgComplexity),
			fmt.Sprintf("%.1f%%", r.DocCoverage),
			strconv.Itoa(len(r.StyleIssues)),
			status,
		})
	}
	footer := []string{fmt.Sprintf("%d files", len(rows)), "", "", "", "", ""}
	return output.NewTable("Project", []string{"File", "Score", "Avg Cx", "Docs", "Issues", "Status"}, rows, footer, nil)
}

func (v *projectView) summaryTable() *output.Table {
	s := v.result.Summary
	rows := [][]string{
		{"Modules", strconv.Itoa(v.result.Graph.ModuleCount)},
		{"Import edges", strconv.Itoa(s.Edges)},
		{"Components", strconv.Itoa(s.Components)},
		{"Largest component", strconv.Itoa(s.LargestComponent)},
		{"Cycles", strconv.Itoa(s.Cycles)},
		{"Density", fmt.Sprintf("%.3f", s.Density)},
	}
	return output.NewTable("Dependency graph", []string{"Metric", "Value"}, rows, nil, nil)
}
