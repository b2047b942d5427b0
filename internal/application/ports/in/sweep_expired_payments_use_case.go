package in

import (
	"context"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type SweepExpiredPaymentsUseCase interface {
	Execute(ctx context.Context, command dto.SweepExpiredPaymentsCommand) (dto.SweepExpiredPaymentsOutput, *apperrors.AppError)
}
