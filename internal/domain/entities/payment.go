package entities

import (
	"time"

	"github.com/shopspring/decimal"

	valueobjects "zanopay/internal/domain/value_objects"
	apperrors "zanopay/internal/shared_kernel/errors"
)

// Payment is one order-payment attempt. PaymentIdentifier, IntegratedAddress
// and RequiredAmount are immutable after creation; TxHash is set exactly once
// by the atomic claim; ReceivedBlock is write-once and never overwritten by
// later polls.
type Payment struct {
	ID                   int64
	OrderID              string
	PaymentIdentifier    string
	IntegratedAddress    string
	AssetID              string
	AssetSymbol          string
	RequiredAmount       decimal.Decimal
	ReceivedAmount       *decimal.Decimal
	TxHash               *string
	Status               valueobjects.PaymentStatus
	Confirmations        int64
	ReceivedBlock        *int64
	CurrentBlock         *int64
	KeeperBlock          *int64
	VerificationAttempts int
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CompletedAt          *time.Time
}

type NewPaymentInput struct {
	OrderID           string
	PaymentIdentifier string
	IntegratedAddress string
	Asset             valueobjects.Asset
	RequiredAmount    decimal.Decimal
	CreatedAt         time.Time
}

func NewPendingPayment(input NewPaymentInput) (Payment, *apperrors.AppError) {
	if input.OrderID == "" {
		return Payment{}, apperrors.NewValidation(
			"order_id_missing",
			"order id is required",
			nil,
		)
	}

	identifier, appErr := valueobjects.ParsePaymentIdentifier(input.PaymentIdentifier)
	if appErr != nil {
		return Payment{}, appErr
	}

	if input.IntegratedAddress == "" {
		return Payment{}, apperrors.NewInternal(
			"integrated_address_missing",
			"integrated address is required",
			map[string]any{"order_id": input.OrderID},
		)
	}
	if !input.RequiredAmount.IsPositive() {
		return Payment{}, apperrors.NewValidation(
			"required_amount_invalid",
			"required amount must be greater than zero",
			map[string]any{"required_amount": input.RequiredAmount.String()},
		)
	}

	return Payment{
		OrderID:           input.OrderID,
		PaymentIdentifier: identifier,
		IntegratedAddress: input.IntegratedAddress,
		AssetID:           input.Asset.ID,
		AssetSymbol:       input.Asset.Symbol,
		RequiredAmount:    input.RequiredAmount,
		Status:            valueobjects.NewPendingPaymentStatus(),
		CreatedAt:         input.CreatedAt.UTC(),
		UpdatedAt:         input.CreatedAt.UTC(),
	}, nil
}

// Asset resolves the asset bound to this payment. AssetID may still be empty
// on records created before a matching transaction was classified; those
// default to the native coin.
func (p Payment) Asset() valueobjects.Asset {
	if p.AssetID == "" {
		return valueobjects.AssetZano
	}

	asset, appErr := valueobjects.AssetByID(p.AssetID)
	if appErr != nil {
		return valueobjects.AssetZano
	}

	return asset
}

func (p Payment) HasTxHash() bool {
	return p.TxHash != nil && *p.TxHash != ""
}

func (p Payment) AgeAt(now time.Time) time.Duration {
	return now.UTC().Sub(p.CreatedAt.UTC())
}
