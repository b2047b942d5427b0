package in

import (
	"context"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type ListAssetsUseCase interface {
	Execute(ctx context.Context) (dto.ListAssetsOutput, *apperrors.AppError)
}
