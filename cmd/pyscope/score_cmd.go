package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/svergne/pyscope/pkg/analyzer/audit"
	"github.com/svergne/pyscope/pkg/output"
)

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "Print quality scores for Python files",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "min",
				Usage: "fail when any file scores below this threshold",
			},
		},
		Action: runScore,
	}
}

func runScore(c *cli.Context) error {
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

	type fileScore struct {
		File  string `json:"file"`
		Score int    `json:"score"`
		Error string `json:"error,omitempty"`
	}

	var scores []fileScore
	failed := false
	min := c.Int("min")
	for _, path := range c.Args().Slice() {
		report := a.AnalyzeFile(c.Context, path)
		scores = append(scores, fileScore{File: path, Score: report.QualityScore, Error: report.Error})
		if report.QualityScore < min {
			failed = true
		}
	}

	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		note := s.Error
		if note == "" {
			note = "ok"
		}
		rows = append(rows, []string{s.File, fmt.Sprintf("%d", s.Score), note})
	}
	table := output.NewTable("Scores", []string{"File", "Score", "Status"}, rows, nil, scores)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if min > 0 && failed {
		return cli.Exit(fmt.Sprintf("one or more files scored below %d", min), 1)
	}
	return nil
}
