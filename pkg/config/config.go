// Package config loads pyscope configuration from toml, yaml, or json
// files via koanf. All collaborator settings live here: nothing in the
// analysis core reads the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root configuration.
type Config struct {
	Linter  LinterConfig  `koanf:"linter" yaml:"linter"`
	LLM     LLMConfig     `koanf:"llm" yaml:"llm"`
	Exclude ExcludeConfig `koanf:"exclude" yaml:"exclude"`
	Output  OutputConfig  `koanf:"output" yaml:"output"`
}

// LinterConfig controls the external style checker.
type LinterConfig struct {
	Enabled        bool   `koanf:"enabled" yaml:"enabled"`
	Command        string `koanf:"command" yaml:"command"`
	MaxLineLength  int    `koanf:"max_line_length" yaml:"max_line_length"`
	TimeoutSeconds int    `koanf:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the checker timeout as a duration.
func (l LinterConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// LLMConfig holds the connection settings for the optional docstring
// generation service. Only carried, never read by the analyzers.
type LLMConfig struct {
	URL   string `koanf:"url" yaml:"url"`
	Token string `koanf:"token" yaml:"token"`
	Model string `koanf:"model" yaml:"model"`
}

// ExcludeConfig controls which files the scanner skips.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" yaml:"patterns"`
	Dirs      []string `koanf:"dirs" yaml:"dirs"`
	Gitignore bool     `koanf:"gitignore" yaml:"gitignore"`
}

// OutputConfig sets default rendering options.
type OutputConfig struct {
	Format string `koanf:"format" yaml:"format"`
	Color  bool   `koanf:"color" yaml:"color"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Linter: LinterConfig{
			Enabled:        true,
			Command:        "flake8",
			MaxLineLength:  120,
			TimeoutSeconds: 30,
		},
		LLM: LLMConfig{
			Model: "llama3.2:3b",
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				".git", "__pycache__", ".venv", "venv",
				"node_modules", "build", "dist",
				".mypy_cache", ".pytest_cache", ".tox",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load reads configuration from the given file, layered over the
// defaults. The parser is chosen by extension.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the given config file, or searches the working
// directory for a pyscope config when path is empty. Missing files
// fall back to defaults; a file that exists but fails to parse is an
// error.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	candidates := []string{
		"pyscope.toml", "pyscope.yaml", "pyscope.yml", "pyscope.json",
		".pyscope.toml", ".pyscope.yaml", ".pyscope.yml", ".pyscope.json",
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
	}
	return DefaultConfig(), nil
}

// ShouldExclude reports whether a file path matches the exclusion
// patterns or sits under an excluded directory.
func (c *Config) ShouldExclude(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, dir := range c.Exclude.Dirs {
			if part == dir {
				return true
			}
		}
	}
	return false
}
