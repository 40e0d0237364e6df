package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/svergne/pyscope/pkg/analyzer/graph"
	"github.com/svergne/pyscope/pkg/models"
	"github.com/svergne/pyscope/pkg/parser"
	"github.com/svergne/pyscope/pkg/scanner"
	"github.com/svergne/pyscope/pkg/source"
)

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Usage:     "Build the dependency graph of a file or project",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "mermaid",
				Usage: "emit a Mermaid flowchart instead of structured output",
			},
		},
		Action: runGraph,
	}
}

func runGraph(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = "."
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

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		files, err := scanner.New(cfg).Scan(path)
		if err != nil {
			return err
		}
		g, err := graph.BuildProject(c.Context, path, files, source.NewFilesystem())
		if err != nil {
			return err
		}
		if c.Bool("mermaid") {
			_, err = fmt.Fprint(formatter.Writer(), g.ToMermaid())
			return err
		}
		summary := graph.Summarize(g.Nodes, g.Edges)
		return formatter.Output(&projectGraphView{g, summary})
	}

	p := parser.New()
	defer p.Close()
	res, err := p.ParseFile(path)
	if err != nil {
		return err
	}
	defer res.Close()

	g := graph.Build(res)
	if c.Bool("mermaid") {
		_, err = fmt.Fprint(formatter.Writer(), g.ToMermaid())
		return err
	}
	return formatter.Output(&fileGraphView{g})
}

type fileGraphView struct {
	graph *models.FileGraph
}

func (v *fileGraphView) RenderData() any { return v.graph }

func (v *fileGraphView) RenderText(w io.Writer, colored bool) error {
	g := v.graph
	if g.Error != "" {
		fmt.Fprintf(w, "%s: %s\n", g.Filename, g.Error)
		return nil
	}
	fmt.Fprintf(w, "%s: %d nodes, %d edges\n\n", g.Filename, len(g.Nodes), len(g.Edges))
	_, err := fmt.Fprint(w, g.ToMermaid())
	return err
}

func (v *fileGraphView) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "```mermaid")
	fmt.Fprint(w, v.graph.ToMermaid())
	fmt.Fprintln(w, "```")
	return nil
}

type projectGraphView struct {
	graph   *models.ProjectGraph
	summary graph.Summary
}

func (v *projectGraphView) RenderData() any {
	return map[string]any{"graph": v.graph, "summary": v.summary}
}

func (v *projectGraphView) RenderText(w io.Writer, colored bool) error {
	s := v.summary
	fmt.Fprintf(w, "%d modules, %d edges, %d components, %d cycles\n\n",
		v.graph.ModuleCount, s.Edges, s.Components, s.Cycles)
	_, err := fmt.Fprint(w, v.graph.ToMermaid())
	return err
}

func (v *projectGraphView) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "```mermaid")
	fmt.Fprint(w, v.graph.ToMermaid())
	fmt.Fprintln(w, "```")
	return nil
}
