package out

import (
	"context"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

// OrderNotifier is the commerce platform's callback surface. The driver
// invokes it exactly once per terminal transition, guarded by the status
// compare-and-swap.
type OrderNotifier interface {
	NotifyOrderCompleted(ctx context.Context, event dto.OrderCompletionEvent) *apperrors.AppError
	NotifyOrderCancelled(ctx context.Context, event dto.OrderCancellationEvent) *apperrors.AppError
}
