package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/svergne/pyscope/pkg/config"
)

const configFileName = "pyscope.yaml"

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default pyscope.yaml to the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing config file",
			},
		},
		Action: runInit,
	}
}

func runInit(c *cli.Context) error {
	if _, err := os.Stat(configFileName); err == nil && !c.Bool("force") {
		return cli.Exit(configFileName+" already exists (use --force to overwrite)", 1)
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(configFileName, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configFileName, err)
	}
	fmt.Printf("Wrote %s\n", configFileName)
	return nil
}
