package reconciler

import (
	"context"
	"log"
	"time"

	"zanopay/internal/application/dto"
	portsin "zanopay/internal/application/ports/in"
)

// Worker drives reconciliation on a fixed interval. It runs one pass
// immediately on start so a freshly deployed instance does not wait a full
// interval before looking at the chain.
type Worker struct {
	enabled      bool
	pollInterval time.Duration
	workerID     string
	useCase      portsin.ReconcilePaymentsUseCase
	logger       *log.Logger
}

func NewWorker(
	enabled bool,
	pollInterval time.Duration,
	workerID string,
	useCase portsin.ReconcilePaymentsUseCase,
	logger *log.Logger,
) *Worker {
	return &Worker{
		enabled:      enabled,
		pollInterval: pollInterval,
		workerID:     workerID,
		useCase:      useCase,
		logger:       logger,
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.enabled
}

func (w *Worker) Start(ctx context.Context) {
	if w == nil || !w.enabled || w.useCase == nil {
		return
	}

	w.logf(
		"payment reconciler started worker_id=%s poll_interval=%s",
		w.workerID,
		w.pollInterval,
	)

	w.runCycle(ctx)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logf("payment reconciler stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) {
	startedAt := time.Now().UTC()
	output, appErr := w.useCase.Execute(ctx, dto.ReconcilePaymentsCommand{
		Now:      startedAt,
		WorkerID: w.workerID,
	})
	if appErr != nil {
		w.logf(
			"payment reconcile cycle failed code=%s message=%s details=%v",
			appErr.Code,
			appErr.Message,
			appErr.Details,
		)
		return
	}

	w.logf(
		"payment reconcile cycle completed worker_id=%s scanned=%d matched=%d confirmed=%d failed=%d expired=%d skipped=%d errors=%d latency_ms=%d",
		w.workerID,
		output.Scanned,
		output.Matched,
		output.Confirmed,
		output.Failed,
		output.Expired,
		output.Skipped,
		output.Errors,
		time.Since(startedAt).Milliseconds(),
	)
}

func (w *Worker) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf(format, args...)
}
