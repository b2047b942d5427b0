package out

import (
	"context"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

// PaymentDecodeGateway calls the external verification service that recovers
// the payment identifier embedded in a transaction. A decode failure must be
// treated as "do not trust this candidate", never as a reason to fall back
// to unverified data.
type PaymentDecodeGateway interface {
	DecodeTransaction(ctx context.Context, txHash string) (dto.DecodedTransfer, *apperrors.AppError)
}
