package valueobjects

import apperrors "zanopay/internal/shared_kernel/errors"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusConfirmed  PaymentStatus = "confirmed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusExpired    PaymentStatus = "expired"
)

func NewPendingPaymentStatus() PaymentStatus {
	return PaymentStatusPending
}

func ParsePaymentStatus(raw string) (PaymentStatus, *apperrors.AppError) {
	switch raw {
	case string(PaymentStatusPending):
		return PaymentStatusPending, nil
	case string(PaymentStatusProcessing):
		return PaymentStatusProcessing, nil
	case string(PaymentStatusConfirmed):
		return PaymentStatusConfirmed, nil
	case string(PaymentStatusFailed):
		return PaymentStatusFailed, nil
	case string(PaymentStatusExpired):
		return PaymentStatusExpired, nil
	default:
		return "", apperrors.NewInternal(
			"payment_status_invalid",
			"payment status is invalid",
			map[string]any{"status": raw},
		)
	}
}

// IsTerminal reports whether the status ends the payment lifecycle.
// Terminal statuses are never re-opened.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusConfirmed, PaymentStatusFailed, PaymentStatusExpired:
		return true
	default:
		return false
	}
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s.IsTerminal() {
		return false
	}

	switch s {
	case PaymentStatusPending:
		switch next {
		case PaymentStatusProcessing, PaymentStatusConfirmed, PaymentStatusFailed, PaymentStatusExpired:
			return true
		}
	case PaymentStatusProcessing:
		switch next {
		case PaymentStatusConfirmed, PaymentStatusFailed:
			return true
		}
	}

	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}
