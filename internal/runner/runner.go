// Package runner executes evaluators against one diff and merges their events
// into a single deterministic list.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shapediff/internal/diag"
	"shapediff/internal/diff"
	"shapediff/internal/evaluator"
	"shapediff/internal/observ"
	"shapediff/internal/shape"
	"shapediff/internal/trace"
)

// ErrTimeout is wrapped into the failure of an evaluator that overran Options.Timeout.
var ErrTimeout = errors.New("evaluator timed out")

var zeroShape shape.ShapeID

// Options tune a run. The zero value runs on GOMAXPROCS workers with no timeout,
// keeps every event and logs nothing.
type Options struct {
	Jobs        int
	Timeout     time.Duration // per evaluator, 0 = none
	MinSeverity diag.Severity
	Progress    ProgressSink
	Logger      *zap.Logger
}

// Runner runs a fixed evaluator set over one Differences.
type Runner struct {
	d          *diff.Differences
	evaluators []evaluator.Named
	opts       Options
}

// New prepares a run. evaluators is copied.
func New(d *diff.Differences, evaluators []evaluator.Named, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	return &Runner{d: d, evaluators: slices.Clone(evaluators), opts: opts}
}

// slot is what one worker produces; each worker owns exactly one slot.
type slot struct {
	events  []diag.Event
	failure *Failure
	elapsed time.Duration
}

// Run executes every evaluator. Evaluator failures are recorded in the result;
// the only error returned is the context's.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.d == nil {
		return Result{}, diff.ErrNilModel
	}
	ctx, runSpan := trace.Start(ctx, trace.ScopeRun, "evaluate")
	defer runSpan.End("")

	for _, ev := range r.evaluators {
		r.progress(Progress{Evaluator: ev.Name, Status: StatusQueued})
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен.
	slots := make([]slot, len(r.evaluators))
	if len(r.evaluators) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(r.opts.Jobs, len(r.evaluators)))
		for i, ev := range r.evaluators {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				slots[i] = r.runOne(gctx, ev)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := r.merge(slots)
	runSpan.WithExtra("events", strconv.Itoa(len(res.all)))
	r.opts.Logger.Debug("evaluation finished",
		zap.Int("evaluators", len(r.evaluators)),
		zap.Int("events", len(res.all)),
		zap.Int("failures", len(res.Failures)),
	)
	return res, nil
}

func (r *Runner) merge(slots []slot) Result {
	timer := observ.NewTimer()
	var res Result
	total := 0
	for _, s := range slots {
		total += len(s.events) + 1
	}
	res.all = make([]diag.Event, 0, total)
	for i, s := range slots {
		name := r.evaluators[i].Name
		note := fmt.Sprintf("%d events", len(s.events))
		res.all = append(res.all, s.events...)
		if s.failure != nil {
			res.Failures = append(res.Failures, *s.failure)
			res.all = append(res.all, s.failure.Event())
			note = "failed"
		}
		timer.Record("evaluator:"+name, s.elapsed, note)
	}
	slices.SortStableFunc(res.all, diag.Compare)
	res.Events = res.AtLeast(r.opts.MinSeverity)
	res.Timings = timer.Report()
	return res
}

type outcome struct {
	events []diag.Event
	err    error
}

func (r *Runner) runOne(ctx context.Context, ev evaluator.Named) slot {
	_, span := trace.Start(ctx, trace.ScopeEvaluator, "evaluator:"+ev.Name)
	r.progress(Progress{Evaluator: ev.Name, Status: StatusWorking})
	start := time.Now()

	events, err := r.invoke(ctx, ev)
	s := slot{events: events, elapsed: time.Since(start)}
	if err != nil {
		s.events = nil
		s.failure = &Failure{Evaluator: ev.Name, Err: err}
		r.opts.Logger.Warn("evaluator failed", zap.String("evaluator", ev.Name), zap.Error(err))
		r.progress(Progress{Evaluator: ev.Name, Status: StatusError, Err: err, Elapsed: s.elapsed})
		span.End("error")
		return s
	}
	r.progress(Progress{Evaluator: ev.Name, Status: StatusDone, Elapsed: s.elapsed})
	tracer := trace.FromContext(ctx)
	for _, e := range events {
		trace.Point(tracer, trace.ScopeShape, e.ID, e.Shape.String(), span.ID())
	}
	span.WithExtra("events", strconv.Itoa(len(events))).End("")
	return s
}

// invoke calls the evaluator, converting a panic into an error. With a timeout
// the call runs on its own goroutine; an overrunning evaluator is abandoned and
// its late result discarded.
func (r *Runner) invoke(ctx context.Context, ev evaluator.Named) ([]diag.Event, error) {
	if r.opts.Timeout <= 0 {
		o := r.call(ev)
		return o.events, o.err
	}
	done := make(chan outcome, 1)
	go func() { done <- r.call(ev) }()

	timer := time.NewTimer(r.opts.Timeout)
	defer timer.Stop()
	select {
	case o := <-done:
		return o.events, o.err
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrTimeout, r.opts.Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Runner) call(ev evaluator.Named) (o outcome) {
	defer func() {
		if p := recover(); p != nil {
			o = outcome{err: fmt.Errorf("panic: %v", p)}
		}
	}()
	return outcome{events: ev.Evaluate(r.d)}
}

func (r *Runner) progress(p Progress) {
	if r.opts.Progress != nil {
		r.opts.Progress.OnProgress(p)
	}
}
