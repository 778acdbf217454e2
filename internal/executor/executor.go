// Package executor resolves the variants of a build request concurrently.
//
// Each variant is an independent task: it reads the shared configuration
// model and never writes to it. A fixed pool of workers pulls tasks from a
// channel; failures go to a concurrent sink and never stop sibling
// variants. Cancelling the request context stops new variants from
// starting, while variants already in flight run to completion so the
// partial result stays consistent.
package executor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/variantplan/internal/config"
	"github.com/specialistvlad/variantplan/internal/ctxlog"
	"github.com/specialistvlad/variantplan/internal/plan"
	"github.com/specialistvlad/variantplan/internal/signing"
	"github.com/specialistvlad/variantplan/internal/variant"
	"golang.org/x/sync/errgroup"
)

// ResolveFunc resolves one variant. It is plan.Resolve outside of tests.
type ResolveFunc func(ctx context.Context, model *config.Model, signer *signing.Selector, spec variant.Spec) (*plan.PackagingPlan, error)

// Executor schedules variant resolutions over a worker pool.
type Executor struct {
	model       *config.Model
	signer      *signing.Selector
	workerCount int
	resolve     ResolveFunc
}

// task is one variant waiting for a worker. index keeps matrix order.
type task struct {
	index int
	spec  variant.Spec
}

type result struct {
	index int
	plan  *plan.PackagingPlan
}

// New creates an executor for a validated model.
func New(model *config.Model, workerCount int) (*Executor, error) {
	signer, err := model.Selector()
	if err != nil {
		return nil, fmt.Errorf("invalid signing configuration: %w", err)
	}
	if workerCount < 1 {
		workerCount = 1
	}
	return &Executor{
		model:       model,
		signer:      signer,
		workerCount: workerCount,
		resolve:     plan.Resolve,
	}, nil
}

// Run resolves every spec and returns the batch result. Plans are ordered
// as the specs were; failures are ordered by variant identifier.
func (e *Executor) Run(ctx context.Context, specs []variant.Spec) *plan.Batch {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executor starting run.", "variants", len(specs), "workers", e.workerCount)

	readyChan := make(chan task)
	sink := &plan.Sink{}
	var (
		mu      sync.Mutex
		results []result
		skipped []string
	)
	record := func(r result) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}
	skip := func(id string) {
		mu.Lock()
		defer mu.Unlock()
		skipped = append(skipped, id)
	}

	var g errgroup.Group
	for i := 0; i < e.workerCount; i++ {
		workerID := i
		g.Go(func() error {
			return e.worker(ctx, readyChan, workerID, record, skip, sink)
		})
	}

	// Feed tasks until done or cancelled. Unsent tasks are skipped.
	sent := 0
feed:
	for ; sent < len(specs); sent++ {
		select {
		case <-ctx.Done():
			break feed
		case readyChan <- task{index: sent, spec: specs[sent]}:
		}
	}
	close(readyChan)
	for _, s := range specs[sent:] {
		skip(s.ID)
	}
	// Variant errors travel through the sink so siblings keep running; a
	// worker only reports the cancellation that made it skip work.
	if err := g.Wait(); err != nil {
		logger.Info("Run cancelled, unstarted variants skipped.", "cause", err)
	} else if sent < len(specs) {
		logger.Info("Run cancelled, unstarted variants skipped.", "cause", context.Cause(ctx))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	batch := &plan.Batch{Failures: sink.Failures(), Skipped: skipped}
	for _, r := range results {
		batch.Plans = append(batch.Plans, r.plan)
	}
	sort.SliceStable(batch.Failures, func(i, j int) bool { return batch.Failures[i].Variant < batch.Failures[j].Variant })
	sort.Strings(batch.Skipped)

	logger.Debug("Executor finished run.", "plans", len(batch.Plans), "failures", len(batch.Failures), "skipped", len(batch.Skipped))
	return batch
}
