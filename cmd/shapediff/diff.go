package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shapediff/internal/diag"
	"shapediff/internal/diagfmt"
	"shapediff/internal/diff"
	"shapediff/internal/evaluator"
	"shapediff/internal/evaluator/rules"
	"shapediff/internal/modelio"
	"shapediff/internal/observ"
	"shapediff/internal/runner"
	"shapediff/internal/shape"
	"shapediff/internal/trace"
	"shapediff/internal/version"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [flags] <old-model> <new-model>",
		Short: "Compare two model files and report classified differences",
		Long: `Load two model files (.json, .yaml, .yml, .mp, .msgpack), run every
selected evaluator against their differences and print the events.
Exits with status 1 when at least one event reaches the breaking threshold.`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().String("min-severity", "NOTE", "drop events below this severity (NOTE|WARNING|DANGER|ERROR)")
	cmd.Flags().String("breaking-threshold", "DANGER", "lowest severity that fails the run")
	cmd.Flags().Int("jobs", 0, "max parallel evaluators (0=auto)")
	cmd.Flags().Duration("timeout", 0, "per-evaluator time budget (0=none)")
	cmd.Flags().StringSlice("enable", nil, "run only these evaluators")
	cmd.Flags().StringSlice("disable", nil, "skip these evaluators")
	cmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	settings, err := resolveDiffSettings(cmd)
	if err != nil {
		return err
	}
	if settings.configPath != "" {
		logger.Debug("using config", zap.String("path", settings.configPath))
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	timer := observ.NewTimer()

	oldModel, err := loadModel(ctx, timer, "old", args[0])
	if err != nil {
		return err
	}
	newModel, err := loadModel(ctx, timer, "new", args[1])
	if err != nil {
		return err
	}

	phase := timer.Begin("diff")
	d, err := diff.New(oldModel, newModel)
	if err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d added, %d removed, %d changed",
		len(d.AddedIDs()), len(d.RemovedIDs()), len(d.ChangedIDs())))

	registry := rules.DefaultRegistry()
	evaluators, err := registry.Instantiate(settings.selection)
	if err != nil {
		return err
	}

	opts := runner.Options{
		Jobs:        settings.jobs,
		Timeout:     settings.timeout,
		MinSeverity: visibleSeverity(settings),
		Logger:      logger,
	}

	phase = timer.Begin("evaluate")
	var res runner.Result
	if !settings.quiet && shouldUseTUI(settings.ui) {
		title := fmt.Sprintf("%s → %s", filepath.Base(args[0]), filepath.Base(args[1]))
		res, err = runDiffWithUI(ctx, title, d, evaluators, opts)
	} else {
		res, err = runner.New(d, evaluators, opts).Run(ctx)
	}
	if err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d evaluators, %d events", len(evaluators), len(res.Events)))
	timer.Merge(res.Timings)

	report := timer.Report()
	renderOpts := diagfmt.Options{
		Color:  settings.color,
		Max:    settings.maxEvents,
		Policy: &settings.policy,
		Tool: diagfmt.SarifRunMeta{
			ToolName:       "shapediff",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			Rules:          ruleDescriptions(registry),
		},
	}
	if settings.timings {
		renderOpts.Timings = &report
	}
	if err := diagfmt.Render(cmd.OutOrStdout(), settings.format, res.Events, renderOpts); err != nil {
		return fmt.Errorf("failed to render events: %w", err)
	}

	if settings.timings && !settings.quiet {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if res.Breaking(settings.policy) {
		return exitError{reason: fmt.Sprintf("breaking differences at or above %s", settings.policy.Threshold)}
	}
	return nil
}

func loadModel(ctx context.Context, timer *observ.Timer, label, path string) (*shape.Model, error) {
	_, span := trace.Start(ctx, trace.ScopeLoad, "load:"+label)
	phase := timer.Begin("load " + label)
	m, err := modelio.Load(path)
	if err != nil {
		span.End(err.Error())
		return nil, fmt.Errorf("failed to load %s model: %w", label, err)
	}
	timer.End(phase, fmt.Sprintf("%d shapes", m.Len()))
	span.End(fmt.Sprintf("%d shapes", m.Len()))
	logger.Debug("model loaded",
		zap.String("which", label),
		zap.String("path", path),
		zap.Int("shapes", m.Len()))
	return m, nil
}

// visibleSeverity is the lowest severity printed. Breaking events are never
// filtered out, so the report always agrees with the exit status.
func visibleSeverity(s diffSettings) diag.Severity {
	if s.policy.Threshold < s.minSeverity {
		logger.Debug("min severity lowered to breaking threshold",
			zap.Stringer("min_severity", s.minSeverity),
			zap.Stringer("threshold", s.policy.Threshold))
		return s.policy.Threshold
	}
	return s.minSeverity
}

// ruleDescriptions maps every event ID to the summary of the evaluator owning it.
func ruleDescriptions(r *evaluator.Registry) map[string]string {
	out := map[string]string{
		runner.FailureEventID: "An evaluator failed to run",
	}
	for _, reg := range r.Registrations() {
		for _, id := range reg.EventIDs {
			out[id] = reg.Summary
		}
	}
	return out
}

func runDiffWithUI(ctx context.Context, title string, d *diff.Differences, evaluators []evaluator.Named, opts runner.Options) (runner.Result, error) {
	names := make([]string, 0, len(evaluators))
	for _, ev := range evaluators {
		names = append(names, ev.Name)
	}
	events := make(chan runner.Progress, 256)
	return runWithProgressUI(title, names, events, func() (runner.Result, error) {
		opts.Progress = runner.ChannelSink{Ch: events}
		return runner.New(d, evaluators, opts).Run(ctx)
	})
}
