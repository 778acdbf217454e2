package executor

import (
	"context"

	"github.com/specialistvlad/variantplan/internal/ctxlog"
	"github.com/specialistvlad/variantplan/internal/plan"
)

// worker is the core processing loop for a single concurrent worker.
// Variant failures go to the sink and never stop the loop. The returned
// error is the cancellation cause when the worker had to skip a variant.
func (e *Executor) worker(ctx context.Context, readyChan <-chan task, workerID int, record func(result), skip func(string), sink *plan.Sink) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)
	var stopped error

	for t := range readyChan {
		workerLogger := logger.With("workerID", workerID, "variant", t.spec.ID)

		// A task can win the race against cancellation in the feeder's
		// select; it has not started yet, so it is skipped.
		if ctx.Err() != nil {
			workerLogger.Debug("Request cancelled, skipping variant.")
			skip(t.spec.ID)
			stopped = context.Cause(ctx)
			continue
		}

		workerLogger.Debug("Worker picked up variant for resolution.")
		// In-flight work must not observe the request cancellation.
		resolveCtx := ctxlog.With(context.WithoutCancel(ctx), "workerID", workerID)
		p, err := e.resolve(resolveCtx, e.model, e.signer, t.spec)
		if err != nil {
			workerLogger.Error("Variant resolution failed.", "error", err)
			sink.Add(t.spec.ID, err)
			continue
		}

		workerLogger.Debug("Variant resolution succeeded.")
		record(result{index: t.index, plan: p})
	}
	logger.Debug("Worker finished.", "workerID", workerID)
	return stopped
}
