package executor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/variantplan/internal/config"
	"github.com/specialistvlad/variantplan/internal/ctxlog"
	"github.com/specialistvlad/variantplan/internal/plan"
	"github.com/specialistvlad/variantplan/internal/signing"
	"github.com/specialistvlad/variantplan/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() *config.Model {
	m := config.NewModel()
	m.Application = config.Application{ID: "com.example.app", VersionName: "1.0"}
	m.Dimensions = []variant.Dimension{
		{Name: "flavor", Values: []variant.Value{{Name: "production"}, {Name: "staging"}, {Name: "beta"}}},
		{Name: "build_type", Values: []variant.Value{{Name: "debug"}, {Name: "release"}}},
	}
	return m
}

func testSpecs(t *testing.T, m *config.Model) []variant.Spec {
	t.Helper()
	specs, err := variant.Build(m.Dimensions)
	require.NoError(t, err)
	return specs
}

func newTestExecutor(t *testing.T, workers int, fn ResolveFunc) (*Executor, []variant.Spec) {
	t.Helper()
	m := testModel()
	e, err := New(m, workers)
	require.NoError(t, err)
	if fn != nil {
		e.resolve = fn
	}
	return e, testSpecs(t, m)
}

func TestRun_ResolvesEveryVariantInMatrixOrder(t *testing.T) {
	t.Parallel()
	e, specs := newTestExecutor(t, 4, nil)

	batch := e.Run(context.Background(), specs)
	require.True(t, batch.OK())
	require.Len(t, batch.Plans, 6)
	for i, p := range batch.Plans {
		assert.Equal(t, specs[i].ID, p.Variant)
	}
}

func TestRun_FailureDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()
	e, specs := newTestExecutor(t, 3, func(ctx context.Context, m *config.Model, s *signing.Selector, spec variant.Spec) (*plan.PackagingPlan, error) {
		if spec.BuildType == "release" {
			return nil, errors.New("release is broken")
		}
		return plan.Resolve(ctx, m, s, spec)
	})

	batch := e.Run(context.Background(), specs)
	assert.Len(t, batch.Plans, 3)
	require.Len(t, batch.Failures, 3)
	assert.Equal(t, []string{"betaRelease", "productionRelease", "stagingRelease"}, []string{
		batch.Failures[0].Variant, batch.Failures[1].Variant, batch.Failures[2].Variant,
	})
	assert.EqualError(t, batch.Failures[0].Err, "release is broken")
	assert.False(t, batch.OK())
}

func TestRun_WorkersRunConcurrently(t *testing.T) {
	t.Parallel()
	const workers = 3
	var (
		arrived sync.WaitGroup
		calls   atomic.Int32
	)
	arrived.Add(workers)
	release := make(chan struct{})
	go func() {
		arrived.Wait()
		close(release)
	}()

	e, specs := newTestExecutor(t, workers, func(ctx context.Context, m *config.Model, s *signing.Selector, spec variant.Spec) (*plan.PackagingPlan, error) {
		if calls.Add(1) <= workers {
			arrived.Done()
		}
		select {
		case <-release:
			return plan.Resolve(ctx, m, s, spec)
		case <-time.After(5 * time.Second):
			return nil, errors.New("workers did not overlap")
		}
	})

	batch := e.Run(context.Background(), specs)
	require.Empty(t, batch.Failures)
	assert.Len(t, batch.Plans, len(specs))
}

func TestRun_CancelledBeforeStartSkipsEverything(t *testing.T) {
	t.Parallel()
	e, specs := newTestExecutor(t, 2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := e.Run(ctx, specs)
	assert.Empty(t, batch.Plans)
	assert.Empty(t, batch.Failures)
	assert.Len(t, batch.Skipped, len(specs))
}

func TestRun_CancelLetsInFlightVariantFinish(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e, specs := newTestExecutor(t, 1, func(rctx context.Context, m *config.Model, s *signing.Selector, spec variant.Spec) (*plan.PackagingPlan, error) {
		// Cancel while this variant is in flight.
		cancel()
		assert.NoError(t, rctx.Err(), "in-flight resolution must not see the cancellation")
		return plan.Resolve(rctx, m, s, spec)
	})

	batch := e.Run(ctx, specs)
	require.Len(t, batch.Plans, 1)
	assert.Equal(t, specs[0].ID, batch.Plans[0].Variant)
	assert.Empty(t, batch.Failures)
	assert.Len(t, batch.Skipped, len(specs)-1)
	assert.NotContains(t, batch.Skipped, specs[0].ID)
}

func TestRun_LogsCancellation(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), logger))
	cancel()

	e, specs := newTestExecutor(t, 2, nil)
	batch := e.Run(ctx, specs)
	assert.Len(t, batch.Skipped, len(specs))
	assert.Contains(t, buf.String(), "Run cancelled, unstarted variants skipped.")
	assert.Contains(t, buf.String(), "cause=\"context canceled\"")
}

func queue(specs ...variant.Spec) <-chan task {
	ch := make(chan task, len(specs))
	for i, s := range specs {
		ch <- task{index: i, spec: s}
	}
	close(ch)
	return ch
}

func TestWorker_ReturnsCancellationCause(t *testing.T) {
	t.Parallel()
	e, specs := newTestExecutor(t, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var skipped []string
	sink := &plan.Sink{}
	err := e.worker(ctx, queue(specs[0]), 0, func(result) {}, func(id string) { skipped = append(skipped, id) }, sink)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{specs[0].ID}, skipped)
	assert.Zero(t, sink.Len())
}

func TestWorker_VariantFailuresDoNotStopTheLoop(t *testing.T) {
	t.Parallel()
	e, specs := newTestExecutor(t, 1, func(context.Context, *config.Model, *signing.Selector, variant.Spec) (*plan.PackagingPlan, error) {
		return nil, errors.New("broken")
	})

	sink := &plan.Sink{}
	err := e.worker(context.Background(), queue(specs[0], specs[1]), 0, func(result) {}, func(string) {}, sink)

	require.NoError(t, err)
	assert.Equal(t, 2, sink.Len())
}

func TestNew_ClampsWorkerCount(t *testing.T) {
	t.Parallel()
	e, err := New(testModel(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, e.workerCount)
}

func TestNew_RejectsBrokenSigning(t *testing.T) {
	t.Parallel()
	m := testModel()
	m.Signing.ByBuildType["release"] = "missing"
	_, err := New(m, 2)
	assert.ErrorContains(t, err, "invalid signing configuration")
}
