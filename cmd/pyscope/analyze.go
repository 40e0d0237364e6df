package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/svergne/pyscope/pkg/analyzer/audit"
	"github.com/svergne/pyscope/pkg/models"
	"github.com/svergne/pyscope/pkg/output"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze one or more Python files",
		ArgsUsage: "<file>...",
		Action:    runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("at least one file is required", 1)
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

	a := audit.New(audit.WithLinter(newLinter(cfg)))
	defer a.Close()

	for _, path := range c.Args().Slice() {
		report := a.AnalyzeFile(c.Context, path)
		if err := formatter.Output(&reportView{report}); err != nil {
			return err
		}
	}
	return nil
}

// reportView renders a file report: tables for humans, the raw report
// for machines.
type reportView struct {
	report *models.Report
}

func (v *reportView) RenderData() any {
	return v.report
}

func (v *reportView) RenderText(w io.Writer, colored bool) error {
	r := v.report
	if r.Error != "" {
		if colored {
			color.New(color.FgRed).Fprintf(w, "%s: %s (score 0)\n", r.Filename, r.Error)
		} else {
			fmt.Fprintf(w, "%s: %s (score 0)\n", r.Filename, r.Error)
		}
		return nil
	}

	if err := v.summaryTable().RenderText(w, colored); err != nil {
		return err
	}
	if table := v.functionsTable(); table != nil {
		if err := table.RenderText(w, colored); err != nil {
			return err
		}
	}
	v.renderIssues(w, colored)
	return nil
}

func (v *reportView) RenderMarkdown(w io.Writer) error {
	r := v.report
	if r.Error != "" {
		fmt.Fprintf(w, "## %s\n\n**Error:** %s\n\n", r.Filename, r.Error)
		return nil
	}
	if err := v.summaryTable().RenderMarkdown(w); err != nil {
		return err
	}
	if table := v.functionsTable(); table != nil {
		if err := table.RenderMarkdown(w); err != nil {
			return err
		}
	}
	for _, issue := range r.StyleIssues {
		fmt.Fprintf(w, "- %s\n", issue)
	}
	return nil
}

func (v *reportView) summaryTable() *output.Table {
	r := v.report
	rows := [][]string{
		{"Lines", strconv.Itoa(r.Lines)},
		{"Code / comment / blank", fmt.Sprintf("%d / %d / %d", r.CodeLines, r.CommentLines, r.BlankLines)},
		{"Comment ratio", fmt.Sprintf("%.1f%%", r.CommentRatio)},
		{"Imports", strconv.Itoa(len(r.Imports))},
		{"Classes", strconv.Itoa(len(r.Classes))},
		{"Functions", strconv.Itoa(len(r.Functions))},
		{"Avg / max complexity", fmt.Sprintf("%.2f / %d", r.AvgComplexity, r.MaxComplexity)},
		{"Doc coverage", fmt.Sprintf("%.1f%%", r.DocCoverage)},
		{"Style issues", strconv.Itoa(len(r.StyleIssues))},
		{"Quality score", strconv.Itoa(r.QualityScore)},
	}
	return output.NewTable(r.Filename, []string{"Metric", "Value"}, rows, nil, r)
}

func (v *reportView) functionsTable() *output.Table {
	all := v.report.AllFunctions()
	if len(all) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(all))
	for _, fn := range all {
		doc := "no"
		if fn.HasDocstring {
			doc = "yes"
		}
		rows = append(rows, []string{
			fn.Name,
			strconv.Itoa(int(fn.Line)),
			strconv.Itoa(fn.Complexity),
			strconv.Itoa(fn.ArgCount),
			doc,
		})
	}
	return output.NewTable("Functions", []string{"Name", "Line", "Complexity", "Args", "Doc"}, rows, nil, nil)
}

func (v *reportView) renderIssues(w io.Writer, colored bool) {
	if len(v.report.StyleIssues) == 0 {
		return
	}
	if colored {
		color.New(color.Bold).Fprintln(w, "Style issues")
	} else {
		fmt.Fprintln(w, "Style issues")
	}
	for _, issue := range v.report.StyleIssues {
		fmt.Fprintf(w, "  %s\n", issue)
	}
	fmt.Fprintln(w)
}
