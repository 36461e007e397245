package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shapediff/internal/config"
	"shapediff/internal/diag"
	"shapediff/internal/diagfmt"
	"shapediff/internal/evaluator"
)

// diffSettings is shapediff.toml with command-line overrides applied.
type diffSettings struct {
	configPath  string
	format      diagfmt.Format
	minSeverity diag.Severity
	policy      diag.Policy
	jobs        int
	timeout     time.Duration
	selection   evaluator.Selection
	color       bool
	ui          uiMode
	quiet       bool
	timings     bool
	maxEvents   int
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Discover(wd)
}

func resolveDiffSettings(cmd *cobra.Command) (diffSettings, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return diffSettings{}, err
	}
	flags := cmd.Flags()
	global := cmd.Root().PersistentFlags()

	s := diffSettings{
		configPath:  cfg.Path,
		minSeverity: cfg.Diff.MinSeverity,
		policy:      cfg.Policy(),
		selection: evaluator.Selection{
			Enable:  cfg.Evaluators.Enable,
			Disable: cfg.Evaluators.Disable,
		},
	}
	if s.jobs, err = cfg.JobCount(); err != nil {
		return diffSettings{}, err
	}
	if s.timeout, err = cfg.TimeoutDuration(); err != nil {
		return diffSettings{}, err
	}

	formatName := cfg.Output.Format
	if flags.Changed("format") {
		if formatName, err = flags.GetString("format"); err != nil {
			return diffSettings{}, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if s.format, err = diagfmt.ParseFormat(formatName); err != nil {
		return diffSettings{}, err
	}

	if flags.Changed("min-severity") {
		name, err := flags.GetString("min-severity")
		if err != nil {
			return diffSettings{}, fmt.Errorf("failed to get min-severity flag: %w", err)
		}
		if s.minSeverity, err = diag.ParseSeverity(name); err != nil {
			return diffSettings{}, err
		}
	}
	if flags.Changed("breaking-threshold") {
		name, err := flags.GetString("breaking-threshold")
		if err != nil {
			return diffSettings{}, fmt.Errorf("failed to get breaking-threshold flag: %w", err)
		}
		if s.policy.Threshold, err = diag.ParseSeverity(name); err != nil {
			return diffSettings{}, err
		}
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return diffSettings{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		if s.jobs < 0 {
			return diffSettings{}, fmt.Errorf("--jobs must be >= 0, got %d", s.jobs)
		}
	}
	if flags.Changed("timeout") {
		if s.timeout, err = flags.GetDuration("timeout"); err != nil {
			return diffSettings{}, fmt.Errorf("failed to get timeout flag: %w", err)
		}
	}
	if flags.Changed("enable") {
		if s.selection.Enable, err = flags.GetStringSlice("enable"); err != nil {
			return diffSettings{}, fmt.Errorf("failed to get enable flag: %w", err)
		}
	}
	if flags.Changed("disable") {
		if s.selection.Disable, err = flags.GetStringSlice("disable"); err != nil {
			return diffSettings{}, fmt.Errorf("failed to get disable flag: %w", err)
		}
	}

	uiValue, err := flags.GetString("ui")
	if err != nil {
		return diffSettings{}, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return diffSettings{}, err
	}

	colorMode := cfg.Output.Color
	if global.Changed("color") {
		if colorMode, err = global.GetString("color"); err != nil {
			return diffSettings{}, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if s.color, err = useColor(colorMode); err != nil {
		return diffSettings{}, err
	}

	if s.quiet, err = global.GetBool("quiet"); err != nil {
		return diffSettings{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = global.GetBool("timings"); err != nil {
		return diffSettings{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxEvents, err = global.GetInt("max-events"); err != nil {
		return diffSettings{}, fmt.Errorf("failed to get max-events flag: %w", err)
	}
	return s, nil
}
