package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/svergne/pyscope/pkg/analyzer/audit"
	"github.com/svergne/pyscope/pkg/watch"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Re-analyze Python files as they change",
		ArgsUsage: "[dir]",
		Action:    runWatch,
	}
}

func runWatch(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		dir = "."
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	a := audit.New(audit.WithLinter(newLinter(cfg)))
	defer a.Close()

	colored := cfg.Output.Color && !c.Bool("no-color")
	// Debounce timers fire on their own goroutines; the analyzer's
	// parser is single-threaded.
	var mu sync.Mutex
	onChange := func(path string) {
		mu.Lock()
		report := a.AnalyzeFile(c.Context, path)
		mu.Unlock()

		line := fmt.Sprintf("%s  score %d  complexity %.2f  docs %.1f%%",
			path, report.QualityScore, report.AvgComplexity, report.DocCoverage)
		if report.Error != "" {
			line = fmt.Sprintf("%s  %s", path, report.Error)
		}
		switch {
		case !colored:
			fmt.Println(line)
		case report.Error != "" || report.QualityScore < 50:
			color.Red(line)
		case report.QualityScore < 80:
			color.Yellow(line)
		default:
			color.Green(line)
		}
	}

	w, err := watch.New(cfg, watch.DefaultDebounce, onChange)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	fmt.Printf("Watching %s (ctrl-c to stop)\n", dir)
	return w.Watch(ctx, dir)
}
