//go:build !integration

package reconciler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type fakeReconcileUseCase struct {
	calls  atomic.Int64
	worker atomic.Value
	err    *apperrors.AppError
}

func (u *fakeReconcileUseCase) Execute(_ context.Context, command dto.ReconcilePaymentsCommand) (dto.ReconcilePaymentsOutput, *apperrors.AppError) {
	u.calls.Add(1)
	u.worker.Store(command.WorkerID)
	if u.err != nil {
		return dto.ReconcilePaymentsOutput{}, u.err
	}
	return dto.ReconcilePaymentsOutput{Scanned: 1}, nil
}

func TestWorkerDisabledRunsNothing(t *testing.T) {
	useCase := &fakeReconcileUseCase{}
	worker := NewWorker(false, time.Millisecond, "worker-a", useCase, nil)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	worker.Start(ctx)

	if useCase.calls.Load() != 0 {
		t.Fatalf("expected no cycles when disabled, got %d", useCase.calls.Load())
	}
	if worker.Enabled() {
		t.Fatalf("expected Enabled() to be false")
	}
}

func TestWorkerRunsImmediatelyAndOnTicks(t *testing.T) {
	useCase := &fakeReconcileUseCase{}
	worker := NewWorker(true, 5*time.Millisecond, "worker-a", useCase, nil)

	ctx, cancel := context.WithTimeout(t.Context(), 60*time.Millisecond)
	defer cancel()
	worker.Start(ctx)

	if calls := useCase.calls.Load(); calls < 2 {
		t.Fatalf("expected an immediate cycle plus ticks, got %d", calls)
	}
	if got := useCase.worker.Load(); got != "worker-a" {
		t.Fatalf("expected worker-a, got %v", got)
	}
	if !worker.Enabled() {
		t.Fatalf("expected Enabled() to be true")
	}
}

func TestWorkerKeepsTickingAfterCycleError(t *testing.T) {
	useCase := &fakeReconcileUseCase{
		err: apperrors.NewInternal("chain_rpc_failed", "node unreachable", nil),
	}
	worker := NewWorker(true, 5*time.Millisecond, "worker-a", useCase, nil)

	ctx, cancel := context.WithTimeout(t.Context(), 60*time.Millisecond)
	defer cancel()
	worker.Start(ctx)

	if calls := useCase.calls.Load(); calls < 2 {
		t.Fatalf("expected failing cycles to keep ticking, got %d", calls)
	}
}
