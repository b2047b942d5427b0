//go:build !integration

package use_cases

import (
	"context"
	"testing"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

func TestGetHealthHealthyWhenNodeResponds(t *testing.T) {
	useCase := NewGetHealthUseCase(&fakeChainGateway{}, nil)

	output, appErr := useCase.Execute(context.Background(), dto.GetHealthCommand{})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Status != "healthy" {
		t.Fatalf("expected healthy, got %s", output.Status)
	}
}

func TestGetHealthDegradedWhenNodeUnreachable(t *testing.T) {
	chain := &fakeChainGateway{
		nodeErr: apperrors.NewInternal("chain_rpc_failed", "node unreachable", nil),
	}
	useCase := NewGetHealthUseCase(chain, nil)

	output, appErr := useCase.Execute(context.Background(), dto.GetHealthCommand{})
	if appErr != nil {
		t.Fatalf("expected degraded status, not an error, got %+v", appErr)
	}
	if output.Status != "degraded" {
		t.Fatalf("expected degraded, got %s", output.Status)
	}
}
