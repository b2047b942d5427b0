package out

import (
	"context"

	"github.com/shopspring/decimal"

	apperrors "zanopay/internal/shared_kernel/errors"
)

// PriceOracle returns the current native-coin spot price in USD.
type PriceOracle interface {
	GetSpotPriceUSD(ctx context.Context) (decimal.Decimal, *apperrors.AppError)
}
