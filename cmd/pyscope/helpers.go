package main

import (
	"github.com/urfave/cli/v2"

	"github.com/svergne/pyscope/internal/lint"
	"github.com/svergne/pyscope/pkg/config"
	"github.com/svergne/pyscope/pkg/output"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.LoadOrDefault(c.String("config"))
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	colored := cfg.Output.Color && !c.Bool("no-color")
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), colored)
}

// newLinter builds the style checker from config, or nil when the
// linter is disabled.
func newLinter(cfg *config.Config) *lint.Runner {
	if !cfg.Linter.Enabled {
		return nil
	}
	return lint.New(
		lint.WithCommand(cfg.Linter.Command),
		lint.WithMaxLineLength(cfg.Linter.MaxLineLength),
		lint.WithTimeout(cfg.Linter.Timeout()),
	)
}
