package in

import (
	"context"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type ReconcilePaymentsUseCase interface {
	Execute(ctx context.Context, command dto.ReconcilePaymentsCommand) (dto.ReconcilePaymentsOutput, *apperrors.AppError)
}
