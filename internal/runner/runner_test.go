package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shapediff/internal/diag"
	"shapediff/internal/diff"
	"shapediff/internal/evaluator"
	"shapediff/internal/shape"
	"shapediff/internal/testkit"
	"shapediff/internal/trace"
)

func sampleDiff(t *testing.T) *diff.Differences {
	t.Helper()
	oldModel := testkit.Model(testkit.Service("ns#S", nil, nil))
	newModel := testkit.Model(testkit.Service("ns#S", []string{"ns#Op"}, nil), testkit.Operation("ns#Op"))
	d, err := diff.New(oldModel, newModel)
	require.NoError(t, err)
	return d
}

// emitter returns fixed events in the given (deliberately unsorted) order.
func emitter(name string, events ...diag.Event) evaluator.Named {
	return evaluator.Named{Name: name, Evaluator: evaluator.Func(func(*diff.Differences) []diag.Event {
		return events
	})}
}

func ev(id string, sev diag.Severity, target, msg string) diag.Event {
	return diag.New(id, sev, testkit.ID(target), msg)
}

func fixture() []evaluator.Named {
	return []evaluator.Named{
		emitter("b", ev("B1", diag.SevNote, "ns#Z", "z"), ev("B2", diag.SevDanger, "ns#A", "a")),
		emitter("a", ev("A1", diag.SevWarning, "ns#A", "a"), ev("A2", diag.SevNote, "ns#A", "a")),
		emitter("c"),
		emitter("d", ev("D1", diag.SevDanger, "ns#A", "a")),
	}
}

func TestRunOrdersEvents(t *testing.T) {
	res, err := New(sampleDiff(t), fixture(), Options{}).Run(context.Background())
	require.NoError(t, err)

	var got []string
	for _, e := range res.Events {
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{"B2", "D1", "A1", "A2", "B1"}, got)
	assert.Empty(t, res.Failures)
	assert.Len(t, res.Timings.Phases, 4)
}

func TestRunIsDeterministicAcrossJobs(t *testing.T) {
	d := sampleDiff(t)
	want, err := New(d, fixture(), Options{Jobs: 1}).Run(context.Background())
	require.NoError(t, err)

	for jobs := 2; jobs <= 8; jobs++ {
		for range 10 {
			got, err := New(d, fixture(), Options{Jobs: jobs}).Run(context.Background())
			require.NoError(t, err)
			if diff := cmp.Diff(want.Events, got.Events, cmp.Comparer(func(a, b shape.ShapeID) bool { return a == b })); diff != "" {
				t.Fatalf("jobs=%d events differ (-want +got):\n%s", jobs, diff)
			}
		}
	}
}

func TestRunEmptyEvaluatorSet(t *testing.T) {
	res, err := New(sampleDiff(t), nil, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Events)
	assert.Empty(t, res.Failures)
	assert.False(t, res.Breaking(diag.DefaultPolicy))
}

func TestRunNilDifferences(t *testing.T) {
	_, err := New(nil, fixture(), Options{}).Run(context.Background())
	assert.ErrorIs(t, err, diff.ErrNilModel)
}

func TestRunIsolatesPanics(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	evs := []evaluator.Named{
		{Name: "boom", Evaluator: evaluator.Func(func(*diff.Differences) []diag.Event { panic("bad rule") })},
		emitter("ok", ev("OK", diag.SevNote, "ns#S", "fine")),
	}

	res, err := New(sampleDiff(t), evs, Options{Logger: zap.New(core)}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "boom", res.Failures[0].Evaluator)
	assert.ErrorContains(t, res.Failures[0].Err, "bad rule")

	require.Len(t, res.Events, 2)
	failure := res.Events[0]
	assert.Equal(t, FailureEventID, failure.ID)
	assert.Equal(t, diag.SevError, failure.Severity)
	assert.True(t, failure.Shape.IsZero())
	assert.Contains(t, failure.Message, "`boom`")
	assert.Equal(t, "OK", res.Events[1].ID)
	assert.True(t, res.Breaking(diag.DefaultPolicy))

	entries := logs.FilterMessage("evaluator failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["evaluator"])
}

func TestRunTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	evs := []evaluator.Named{
		{Name: "slow", Evaluator: evaluator.Func(func(*diff.Differences) []diag.Event {
			<-release
			return []diag.Event{ev("LATE", diag.SevNote, "ns#S", "late")}
		})},
		emitter("fast", ev("FAST", diag.SevNote, "ns#S", "fast")),
	}

	res, err := New(sampleDiff(t), evs, Options{Timeout: 20 * time.Millisecond}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "slow", res.Failures[0].Evaluator)
	assert.True(t, errors.Is(res.Failures[0], ErrTimeout))
	for _, e := range res.Events {
		assert.NotEqual(t, "LATE", e.ID)
	}
}

func TestRunMinSeverity(t *testing.T) {
	res, err := New(sampleDiff(t), fixture(), Options{MinSeverity: diag.SevDanger}).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Events, 2)
	assert.Len(t, res.AtLeast(diag.SevNote), 5)
	assert.Len(t, res.AtLeast(diag.SevWarning), 3)
	assert.Equal(t, 1, res.Bag(1).Len())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(sampleDiff(t), fixture(), Options{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReportsProgress(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[string][]Status{}
	)
	sink := SinkFunc(func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		seen[p.Evaluator] = append(seen[p.Evaluator], p.Status)
	})
	evs := append(fixture(), evaluator.Named{Name: "boom", Evaluator: evaluator.Func(func(*diff.Differences) []diag.Event {
		panic("rule")
	})})

	_, err := New(sampleDiff(t), evs, Options{Progress: sink, Jobs: 3}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Status{StatusQueued, StatusWorking, StatusDone}, seen["a"])
	assert.Equal(t, []Status{StatusQueued, StatusWorking, StatusError}, seen["boom"])
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Progress, 8)
	_, err := New(sampleDiff(t), fixture()[:1], Options{Progress: ChannelSink{Ch: ch}}).Run(context.Background())
	require.NoError(t, err)
	close(ch)

	var statuses []Status
	for p := range ch {
		statuses = append(statuses, p.Status)
	}
	assert.Equal(t, []Status{StatusQueued, StatusWorking, StatusDone}, statuses)
}

func TestRunTracesEvaluatorsAndEvents(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	evaluators := []evaluator.Named{emitter("d", ev("D1", diag.SevDanger, "ns#A", "a"))}
	_, err := New(sampleDiff(t), evaluators, Options{Jobs: 1}).Run(ctx)
	require.NoError(t, err)

	var names []string
	for _, e := range ring.Snapshot() {
		names = append(names, e.Kind.String()+":"+e.Name)
	}
	assert.Equal(t, []string{
		"begin:evaluate",
		"begin:evaluator:d",
		"point:D1",
		"end:evaluator:d",
		"end:evaluate",
	}, names)
}
