package valueobjects

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	apperrors "zanopay/internal/shared_kernel/errors"
)

const paymentIdentifierBytes = 8

var paymentIdentifierPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// NewPaymentIdentifier mints the opaque token that binds an order to a chain
// transaction: 8 random bytes, hex encoded. Collisions are treated as
// negligible and not guarded against.
func NewPaymentIdentifier() (string, *apperrors.AppError) {
	buf := make([]byte, paymentIdentifierBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.NewInternal(
			"payment_identifier_generation_failed",
			"failed to generate payment identifier",
			map[string]any{"error": err.Error()},
		)
	}

	return hex.EncodeToString(buf), nil
}

func ParsePaymentIdentifier(raw string) (string, *apperrors.AppError) {
	value := strings.TrimSpace(raw)
	if !paymentIdentifierPattern.MatchString(value) {
		return "", apperrors.NewValidation(
			"payment_identifier_invalid",
			"payment identifier must be 16 lowercase hex characters",
			map[string]any{"payment_identifier": raw},
		)
	}

	return value, nil
}
