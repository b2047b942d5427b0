package in

import (
	"context"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type GetHealthUseCase interface {
	Execute(ctx context.Context, command dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError)
}
