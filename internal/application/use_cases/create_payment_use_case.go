package use_cases

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"zanopay/internal/application/dto"
	portsin "zanopay/internal/application/ports/in"
	portsout "zanopay/internal/application/ports/out"
	"zanopay/internal/domain/entities"
	valueobjects "zanopay/internal/domain/value_objects"
	apperrors "zanopay/internal/shared_kernel/errors"
)

var percentDivisor = decimal.NewFromInt(100)

// CreatePaymentPolicy holds the store-wide pricing settings applied at
// checkout time.
type CreatePaymentPolicy struct {
	// PriceBufferPercent pads the converted native-coin amount against spot
	// price drift between checkout and payment (default 1).
	PriceBufferPercent    decimal.Decimal
	RequiredConfirmations int64
}

type createPaymentUseCase struct {
	repository portsout.PaymentRepository
	chain      portsout.ChainGateway
	oracle     portsout.PriceOracle
	clock      Clock
	policy     CreatePaymentPolicy
}

func NewCreatePaymentUseCase(
	repository portsout.PaymentRepository,
	chain portsout.ChainGateway,
	oracle portsout.PriceOracle,
	clock Clock,
	policy CreatePaymentPolicy,
) portsin.CreatePaymentUseCase {
	return &createPaymentUseCase{
		repository: repository,
		chain:      chain,
		oracle:     oracle,
		clock:      clock,
		policy:     policy,
	}
}

func (u *createPaymentUseCase) Execute(
	ctx context.Context,
	command dto.CreatePaymentCommand,
) (dto.CreatePaymentOutput, *apperrors.AppError) {
	orderID := strings.TrimSpace(command.OrderID)
	if orderID == "" {
		return dto.CreatePaymentOutput{}, apperrors.NewValidation(
			"invalid_request",
			"order_id is required",
			map[string]any{"field": "order_id"},
		)
	}

	assetSymbol := strings.TrimSpace(command.AssetSymbol)
	if assetSymbol == "" {
		assetSymbol = valueobjects.AssetZano.Symbol
	}
	asset, appErr := valueobjects.AssetBySymbol(assetSymbol)
	if appErr != nil {
		return dto.CreatePaymentOutput{}, appErr
	}

	amountUSD, err := decimal.NewFromString(strings.TrimSpace(command.AmountUSD))
	if err != nil || !amountUSD.IsPositive() {
		return dto.CreatePaymentOutput{}, apperrors.NewValidation(
			"invalid_request",
			"amount_usd must be a positive decimal string",
			map[string]any{"field": "amount_usd"},
		)
	}

	requiredAmount, appErr := u.requiredAmountFor(ctx, asset, amountUSD)
	if appErr != nil {
		return dto.CreatePaymentOutput{}, appErr
	}

	identifier, appErr := valueobjects.NewPaymentIdentifier()
	if appErr != nil {
		return dto.CreatePaymentOutput{}, appErr
	}

	address, appErr := u.chain.DeriveIntegratedAddress(ctx, identifier)
	if appErr != nil {
		return dto.CreatePaymentOutput{}, appErr
	}

	payment, appErr := entities.NewPendingPayment(entities.NewPaymentInput{
		OrderID:           orderID,
		PaymentIdentifier: identifier,
		IntegratedAddress: address,
		Asset:             asset,
		RequiredAmount:    requiredAmount,
		CreatedAt:         u.clock.NowUTC(),
	})
	if appErr != nil {
		return dto.CreatePaymentOutput{}, appErr
	}

	stored, appErr := u.repository.Insert(ctx, payment)
	if appErr != nil {
		return dto.CreatePaymentOutput{}, appErr
	}

	return dto.CreatePaymentOutput{
		Resource: presentPayment(stored, u.policy.RequiredConfirmations),
	}, nil
}

// requiredAmountFor computes what the payer must send. The stablecoin is
// dollar-pegged and taken at face value; the native coin is converted at the
// spot price and padded with the configured buffer.
func (u *createPaymentUseCase) requiredAmountFor(
	ctx context.Context,
	asset valueobjects.Asset,
	amountUSD decimal.Decimal,
) (decimal.Decimal, *apperrors.AppError) {
	if asset.IsStableToken() {
		return amountUSD.Round(asset.Decimals), nil
	}

	price, appErr := u.oracle.GetSpotPriceUSD(ctx)
	if appErr != nil {
		return decimal.Zero, appErr
	}
	if !price.IsPositive() {
		return decimal.Zero, apperrors.NewInternal(
			"spot_price_invalid",
			"spot price must be greater than zero",
			map[string]any{"price": price.String()},
		)
	}

	buffer := decimal.NewFromInt(1).Add(u.policy.PriceBufferPercent.Div(percentDivisor))

	return amountUSD.Div(price).Mul(buffer).Round(asset.Decimals), nil
}
