//go:build !integration

package valueobjects

import (
	"testing"
)

func TestAssetByID(t *testing.T) {
	asset, appErr := AssetByID(ZanoAssetID)
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if asset.Symbol != "ZANO" || asset.Decimals != 12 {
		t.Fatalf("unexpected asset %+v", asset)
	}

	if _, appErr := AssetByID("deadbeef"); appErr == nil || appErr.Code != "asset_unknown" {
		t.Fatalf("expected asset_unknown, got %+v", appErr)
	}
}

func TestAssetBySymbolIsCaseInsensitive(t *testing.T) {
	for _, symbol := range []string{"fusd", "FUSD", " Fusd "} {
		asset, appErr := AssetBySymbol(symbol)
		if appErr != nil {
			t.Fatalf("expected %q to resolve, got %+v", symbol, appErr)
		}
		if asset.ID != FUSDAssetID {
			t.Fatalf("expected FUSD for %q, got %+v", symbol, asset)
		}
	}

	if _, appErr := AssetBySymbol("DOGE"); appErr == nil || appErr.Code != "asset_symbol_unknown" {
		t.Fatalf("expected asset_symbol_unknown, got %+v", appErr)
	}
}

func TestAssetIsStableToken(t *testing.T) {
	if AssetZano.IsStableToken() {
		t.Fatalf("native coin must not be a stable token")
	}
	if !AssetFUSD.IsStableToken() {
		t.Fatalf("FUSD must be a stable token")
	}
}

func TestAssetFromAtomic(t *testing.T) {
	if got := AssetZano.FromAtomic(1_500_000_000_000); got.String() != "1.5" {
		t.Fatalf("expected 1.5 ZANO, got %s", got.String())
	}
	if got := AssetFUSD.FromAtomic(12345); got.String() != "1.2345" {
		t.Fatalf("expected 1.2345 FUSD, got %s", got.String())
	}
	if got := AssetZano.FromAtomic(0); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got.String())
	}
}
