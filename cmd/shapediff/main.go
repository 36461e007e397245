package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"shapediff/internal/version"
)

// logger is replaced in PersistentPreRunE once --verbose is known.
var logger = zap.NewNop()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shapediff",
		Short: "Classify the differences between two versions of a service model",
		Long: `shapediff compares two versions of a service model and reports every
difference as an event with a severity. Events at or above the breaking
threshold make the command exit with status 1.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
			if err != nil {
				return fmt.Errorf("failed to get verbose flag: %w", err)
			}
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	// Глобальные флаги
	root.PersistentFlags().String("color", "", "colorize output (auto|on|off); defaults to [output].color")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging on stderr")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-events", 0, "maximum number of events to show (0 = all)")
	root.PersistentFlags().String("config", "", "path to shapediff.toml (default: search upwards from the working directory)")
	root.PersistentFlags().String("trace", "", "trace output file ('-' for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")

	root.AddCommand(newDiffCmd())
	root.AddCommand(newEvaluatorsCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// newLogger builds the CLI logger: warnings and errors by default, everything
// with --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// main runs the root command. A breaking diff exits with status 1 silently;
// other errors are printed first.
func main() {
	err := newRootCmd().Execute()
	_ = logger.Sync()
	if err == nil {
		return
	}
	var exit exitError
	if !errors.As(err, &exit) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}

// exitError ends the process with status 1 without printing anything.
type exitError struct {
	reason string
}

func (e exitError) Error() string { return e.reason }

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
