package in

import (
	"context"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type GetPaymentUseCase interface {
	Execute(ctx context.Context, query dto.GetPaymentQuery) (dto.PaymentResource, *apperrors.AppError)
}
