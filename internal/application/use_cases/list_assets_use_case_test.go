//go:build !integration

package use_cases

import (
	"context"
	"testing"

	valueobjects "zanopay/internal/domain/value_objects"
)

func TestListAssets(t *testing.T) {
	output, appErr := NewListAssetsUseCase().Execute(context.Background())
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if len(output.Assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(output.Assets))
	}
	if output.Assets[0].Symbol != "ZANO" || output.Assets[0].ID != valueobjects.ZanoAssetID || output.Assets[0].Decimals != 12 {
		t.Fatalf("unexpected native asset %+v", output.Assets[0])
	}
	if output.Assets[1].Symbol != "FUSD" || output.Assets[1].Decimals != 4 {
		t.Fatalf("unexpected stable asset %+v", output.Assets[1])
	}
}
