package out

import (
	"context"
	"time"

	"zanopay/internal/application/dto"
	"zanopay/internal/domain/entities"
	apperrors "zanopay/internal/shared_kernel/errors"
)

// PaymentRepository is the payment record store. ClaimTransaction and
// TransitionStatusIfCurrent are compare-and-swap primitives; together with
// the unique constraint on tx_hash they are the only coordination between
// overlapping reconciliation passes.
type PaymentRepository interface {
	Insert(ctx context.Context, payment entities.Payment) (entities.Payment, *apperrors.AppError)

	// ListOpenPayments returns all non-terminal records, oldest first.
	ListOpenPayments(ctx context.Context) ([]entities.Payment, *apperrors.AppError)

	FindByOrderID(ctx context.Context, orderID string) (entities.Payment, *apperrors.AppError)

	// IsTxHashClaimedByOther reports whether any record other than paymentID
	// already holds txHash.
	IsTxHashClaimedByOther(ctx context.Context, txHash string, paymentID int64) (bool, *apperrors.AppError)

	// ClaimTransaction binds a transaction to a payment only if the record's
	// tx_hash is still null. Returns false when the conditional update
	// affects zero rows or the unique constraint rejects the hash; losing
	// the race is not an error.
	ClaimTransaction(ctx context.Context, input dto.ClaimTransactionInput) (bool, *apperrors.AppError)

	// TransitionStatusIfCurrent moves a record from currentStatus to
	// nextStatus only if it still holds currentStatus. Returns false when
	// another pass transitioned it first.
	TransitionStatusIfCurrent(ctx context.Context, paymentID int64, currentStatus, nextStatus string, now time.Time) (bool, *apperrors.AppError)

	// UpdateConfirmations persists one tracker result. received_block is
	// written only when still unset.
	UpdateConfirmations(ctx context.Context, update dto.ConfirmationUpdate) *apperrors.AppError

	IncrementVerificationAttempts(ctx context.Context, paymentID int64, now time.Time) (int, *apperrors.AppError)

	// ListExpiredPending returns pending records with no tx_hash created
	// before the cutoff, oldest first.
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]entities.Payment, *apperrors.AppError)
}
