package valueobjects

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "zanopay/internal/shared_kernel/errors"
)

// On-chain asset ids for the two supported assets. ZANO is the native coin,
// FUSD the pegged stablecoin issued on the same chain.
const (
	ZanoAssetID = "d6329b5b1f7c0805b5c345f4957554002a2f557845f64d7645dae0e051a6498a"
	FUSDAssetID = "86143388bd056a8f0bab669f78f14873fac8e2dd8d57898cdb725a2d5e2e4f8f"
)

type Asset struct {
	ID       string
	Symbol   string
	Decimals int32
}

var (
	AssetZano = Asset{ID: ZanoAssetID, Symbol: "ZANO", Decimals: 12}
	AssetFUSD = Asset{ID: FUSDAssetID, Symbol: "FUSD", Decimals: 4}
)

func SupportedAssets() []Asset {
	return []Asset{AssetZano, AssetFUSD}
}

func AssetByID(assetID string) (Asset, *apperrors.AppError) {
	switch strings.TrimSpace(assetID) {
	case ZanoAssetID:
		return AssetZano, nil
	case FUSDAssetID:
		return AssetFUSD, nil
	default:
		return Asset{}, apperrors.NewNotFound(
			"asset_unknown",
			"asset id is not supported",
			map[string]any{"asset_id": assetID},
		)
	}
}

func AssetBySymbol(symbol string) (Asset, *apperrors.AppError) {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case AssetZano.Symbol:
		return AssetZano, nil
	case AssetFUSD.Symbol:
		return AssetFUSD, nil
	default:
		return Asset{}, apperrors.NewValidation(
			"asset_symbol_unknown",
			"asset symbol is not supported",
			map[string]any{"symbol": symbol},
		)
	}
}

// IsStableToken reports whether the matcher must skip the amount check for
// this asset. The decode service does not report FUSD transfer amounts
// reliably, so identity verification alone gates a stablecoin match.
func (a Asset) IsStableToken() bool {
	return a.ID == FUSDAssetID
}

// FromAtomic converts a raw on-chain amount into display units
// (10^12 atomic units per ZANO, 10^4 per FUSD).
func (a Asset) FromAtomic(atomic uint64) decimal.Decimal {
	return decimal.NewFromUint64(atomic).Shift(-a.Decimals)
}
