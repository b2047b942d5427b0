//go:build !integration

package use_cases

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"zanopay/internal/application/dto"
	valueobjects "zanopay/internal/domain/value_objects"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) NowUTC() time.Time {
	return c.now.UTC()
}

var createTestPolicy = CreatePaymentPolicy{
	PriceBufferPercent:    decimal.NewFromInt(1),
	RequiredConfirmations: 10,
}

func TestCreatePaymentRequiresOrderID(t *testing.T) {
	useCase := NewCreatePaymentUseCase(&fakePaymentRepository{}, &fakeChainGateway{}, &fakePriceOracle{}, fixedClock{now: time.Now()}, createTestPolicy)

	_, appErr := useCase.Execute(context.Background(), dto.CreatePaymentCommand{
		OrderID:   "   ",
		AmountUSD: "10",
	})
	if appErr == nil || appErr.Code != "invalid_request" {
		t.Fatalf("expected invalid_request, got %+v", appErr)
	}
}

func TestCreatePaymentRejectsBadAmount(t *testing.T) {
	useCase := NewCreatePaymentUseCase(&fakePaymentRepository{}, &fakeChainGateway{}, &fakePriceOracle{}, fixedClock{now: time.Now()}, createTestPolicy)

	for _, amount := range []string{"", "abc", "0", "-5"} {
		_, appErr := useCase.Execute(context.Background(), dto.CreatePaymentCommand{
			OrderID:   "order-1",
			AmountUSD: amount,
		})
		if appErr == nil || appErr.Code != "invalid_request" {
			t.Fatalf("expected invalid_request for %q, got %+v", amount, appErr)
		}
	}
}

func TestCreatePaymentRejectsUnknownAssetSymbol(t *testing.T) {
	useCase := NewCreatePaymentUseCase(&fakePaymentRepository{}, &fakeChainGateway{}, &fakePriceOracle{}, fixedClock{now: time.Now()}, createTestPolicy)

	_, appErr := useCase.Execute(context.Background(), dto.CreatePaymentCommand{
		OrderID:     "order-1",
		AssetSymbol: "DOGE",
		AmountUSD:   "10",
	})
	if appErr == nil || appErr.Code != "asset_symbol_unknown" {
		t.Fatalf("expected asset_symbol_unknown, got %+v", appErr)
	}
}

func TestCreatePaymentStableTokenTakenAtFaceValue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := &fakePaymentRepository{}
	oracle := &fakePriceOracle{err: apperrors.NewInternal("price_unavailable", "oracle must not be called", nil)}
	useCase := NewCreatePaymentUseCase(repo, &fakeChainGateway{}, oracle, fixedClock{now: now}, createTestPolicy)

	output, appErr := useCase.Execute(context.Background(), dto.CreatePaymentCommand{
		OrderID:     "order-1",
		AssetSymbol: "FUSD",
		AmountUSD:   "19.99999",
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Resource.RequiredAmount != "20" {
		t.Fatalf("expected face value rounded to token precision, got %s", output.Resource.RequiredAmount)
	}
	if output.Resource.AssetSymbol != "FUSD" {
		t.Fatalf("expected FUSD, got %s", output.Resource.AssetSymbol)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
}

func TestCreatePaymentNativeCoinConvertedWithBuffer(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := &fakePaymentRepository{}
	oracle := &fakePriceOracle{price: decimal.RequireFromString("5")}
	useCase := NewCreatePaymentUseCase(repo, &fakeChainGateway{}, oracle, fixedClock{now: now}, createTestPolicy)

	output, appErr := useCase.Execute(context.Background(), dto.CreatePaymentCommand{
		OrderID:   "order-1",
		AmountUSD: "10",
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	// 10 USD / 5 USD = 2 ZANO, plus the 1% drift buffer.
	if output.Resource.RequiredAmount != "2.02" {
		t.Fatalf("expected 2.02, got %s", output.Resource.RequiredAmount)
	}
	if output.Resource.AssetSymbol != "ZANO" {
		t.Fatalf("expected default asset ZANO, got %s", output.Resource.AssetSymbol)
	}
	if output.Resource.Status != "pending" {
		t.Fatalf("expected pending, got %s", output.Resource.Status)
	}
	if output.Resource.RequiredConfirmations != 10 {
		t.Fatalf("expected 10 required confirmations, got %d", output.Resource.RequiredConfirmations)
	}
}

func TestCreatePaymentRejectsNonPositiveSpotPrice(t *testing.T) {
	oracle := &fakePriceOracle{price: decimal.Zero}
	useCase := NewCreatePaymentUseCase(&fakePaymentRepository{}, &fakeChainGateway{}, oracle, fixedClock{now: time.Now()}, createTestPolicy)

	_, appErr := useCase.Execute(context.Background(), dto.CreatePaymentCommand{
		OrderID:   "order-1",
		AmountUSD: "10",
	})
	if appErr == nil || appErr.Code != "spot_price_invalid" {
		t.Fatalf("expected spot_price_invalid, got %+v", appErr)
	}
}

func TestCreatePaymentDerivesIntegratedAddressFromIdentifier(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := &fakePaymentRepository{}
	useCase := NewCreatePaymentUseCase(repo, &fakeChainGateway{}, &fakePriceOracle{price: decimal.NewFromInt(5)}, fixedClock{now: now}, createTestPolicy)

	output, appErr := useCase.Execute(context.Background(), dto.CreatePaymentCommand{
		OrderID:   "order-1",
		AmountUSD: "10",
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if _, parseErr := valueobjects.ParsePaymentIdentifier(output.Resource.PaymentIdentifier); parseErr != nil {
		t.Fatalf("expected a well-formed payment identifier, got %q", output.Resource.PaymentIdentifier)
	}
	if output.Resource.IntegratedAddress != "iZ"+output.Resource.PaymentIdentifier {
		t.Fatalf("expected derived address bound to the identifier, got %s", output.Resource.IntegratedAddress)
	}
}
