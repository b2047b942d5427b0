package use_cases

import (
	"context"
	"strings"

	"zanopay/internal/application/dto"
	portsin "zanopay/internal/application/ports/in"
	portsout "zanopay/internal/application/ports/out"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type getPaymentUseCase struct {
	repository            portsout.PaymentRepository
	requiredConfirmations int64
}

func NewGetPaymentUseCase(repository portsout.PaymentRepository, requiredConfirmations int64) portsin.GetPaymentUseCase {
	return &getPaymentUseCase{
		repository:            repository,
		requiredConfirmations: requiredConfirmations,
	}
}

func (u *getPaymentUseCase) Execute(ctx context.Context, query dto.GetPaymentQuery) (dto.PaymentResource, *apperrors.AppError) {
	orderID := strings.TrimSpace(query.OrderID)
	if orderID == "" {
		return dto.PaymentResource{}, apperrors.NewValidation(
			"invalid_request",
			"order id is required",
			map[string]any{"field": "order_id"},
		)
	}

	payment, appErr := u.repository.FindByOrderID(ctx, orderID)
	if appErr != nil {
		return dto.PaymentResource{}, appErr
	}

	return presentPayment(payment, u.requiredConfirmations), nil
}
