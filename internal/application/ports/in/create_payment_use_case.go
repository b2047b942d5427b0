package in

import (
	"context"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type CreatePaymentUseCase interface {
	Execute(ctx context.Context, command dto.CreatePaymentCommand) (dto.CreatePaymentOutput, *apperrors.AppError)
}
