// Package config loads shapediff.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"shapediff/internal/diag"
	"shapediff/internal/diagfmt"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = "shapediff.toml"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the decoded shapediff.toml.
type Config struct {
	// Path is the file the config came from, empty for Default().
	Path string `toml:"-"`

	Diff       DiffConfig       `toml:"diff"`
	Evaluators EvaluatorsConfig `toml:"evaluators"`
	Output     OutputConfig     `toml:"output"`
}

type DiffConfig struct {
	MinSeverity       diag.Severity `toml:"min_severity"`
	BreakingThreshold diag.Severity `toml:"breaking_threshold"`
	Jobs              int64         `toml:"jobs"`
	Timeout           string        `toml:"timeout"`
}

type EvaluatorsConfig struct {
	Enable  []string `toml:"enable"`
	Disable []string `toml:"disable"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// ColorModes lists accepted [output].color values.
var ColorModes = []string{"auto", "on", "off"}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Diff: DiffConfig{
			MinSeverity:       diag.SevNote,
			BreakingThreshold: diag.DefaultPolicy.Threshold,
		},
		Output: OutputConfig{Format: diagfmt.FormatPretty.String(), Color: "auto"},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover loads the nearest FileName above startDir, or Default() when none exists.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over Default() and validates the result. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: %s: unknown keys: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("output", "format") && strings.TrimSpace(cfg.Output.Format) == "" {
		return Config{}, fmt.Errorf("%w: %s: [output].format is empty", ErrInvalidConfig, path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if c.Diff.Jobs < 0 {
		return fmt.Errorf("%w: [diff].jobs must be >= 0, got %d", ErrInvalidConfig, c.Diff.Jobs)
	}
	if _, err := c.JobCount(); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := diagfmt.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: [output].format: %w", ErrInvalidConfig, err)
	}
	if !slices.Contains(ColorModes, c.Output.Color) {
		return fmt.Errorf("%w: [output].color must be one of %s, got %q", ErrInvalidConfig, strings.Join(ColorModes, "|"), c.Output.Color)
	}
	for _, name := range c.Evaluators.Enable {
		if slices.Contains(c.Evaluators.Disable, name) {
			return fmt.Errorf("%w: evaluator %q is both enabled and disabled", ErrInvalidConfig, name)
		}
	}
	return nil
}

// JobCount narrows [diff].jobs to int.
func (c Config) JobCount() (int, error) {
	n, err := safecast.Conv[int](c.Diff.Jobs)
	if err != nil {
		return 0, fmt.Errorf("%w: [diff].jobs: %w", ErrInvalidConfig, err)
	}
	return n, nil
}

// TimeoutDuration parses [diff].timeout; empty means no timeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Diff.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Diff.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: [diff].timeout: %w", ErrInvalidConfig, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: [diff].timeout must not be negative", ErrInvalidConfig)
	}
	return d, nil
}

// Policy returns the breaking policy configured by [diff].breaking_threshold.
func (c Config) Policy() diag.Policy {
	return diag.Policy{Threshold: c.Diff.BreakingThreshold}
}
