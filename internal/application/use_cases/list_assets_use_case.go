package use_cases

import (
	"context"

	"zanopay/internal/application/dto"
	portsin "zanopay/internal/application/ports/in"
	valueobjects "zanopay/internal/domain/value_objects"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type listAssetsUseCase struct{}

func NewListAssetsUseCase() portsin.ListAssetsUseCase {
	return &listAssetsUseCase{}
}

func (u *listAssetsUseCase) Execute(_ context.Context) (dto.ListAssetsOutput, *apperrors.AppError) {
	assets := valueobjects.SupportedAssets()
	output := dto.ListAssetsOutput{Assets: make([]dto.AssetResource, 0, len(assets))}
	for _, asset := range assets {
		output.Assets = append(output.Assets, dto.AssetResource{
			ID:       asset.ID,
			Symbol:   asset.Symbol,
			Decimals: asset.Decimals,
		})
	}

	return output, nil
}
