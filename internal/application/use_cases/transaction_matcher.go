package use_cases

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"zanopay/internal/application/dto"
	portsout "zanopay/internal/application/ports/out"
	"zanopay/internal/domain/entities"
	valueobjects "zanopay/internal/domain/value_objects"
	apperrors "zanopay/internal/shared_kernel/errors"
)

// amountTolerance is the relative tolerance for native-coin amount matching,
// boundary inclusive.
var amountTolerance = decimal.NewFromFloat(0.02)

type matchResult struct {
	Claimed        bool
	TxHash         string
	Asset          valueobjects.Asset
	ReceivedAmount decimal.Decimal
	Confirmations  int64
}

// transactionMatcher decides which candidate output, if any, pays a given
// open payment. Candidates are scanned in node order and the first one that
// survives the rejection pipeline wins; every rejection skips to the next
// candidate without aborting the scan.
type transactionMatcher struct {
	repository portsout.PaymentRepository
	decoder    portsout.PaymentDecodeGateway
	logger     *log.Logger
}

func newTransactionMatcher(
	repository portsout.PaymentRepository,
	decoder portsout.PaymentDecodeGateway,
	logger *log.Logger,
) *transactionMatcher {
	return &transactionMatcher{
		repository: repository,
		decoder:    decoder,
		logger:     logger,
	}
}

func (m *transactionMatcher) MatchPayment(
	ctx context.Context,
	payment entities.Payment,
	recent dto.RecentOutputs,
	now time.Time,
) (matchResult, *apperrors.AppError) {
	for _, output := range recent.Outputs {
		if output.TxHash == "" {
			continue
		}

		// Asset filter: a payment bound to an asset only matches outputs of
		// that asset.
		if payment.AssetID != "" && output.AssetID != "" && payment.AssetID != output.AssetID {
			m.logf("asset mismatch tx=%s expected_asset=%s got_asset=%s", output.TxHash, payment.AssetID, output.AssetID)
			continue
		}

		// Identity verification is the primary anti-fraud control: a decode
		// failure means the candidate cannot be trusted, not that the raw
		// output data may be used instead.
		decoded, decodeErr := m.decoder.DecodeTransaction(ctx, output.TxHash)
		if decodeErr != nil {
			m.logf("decode failed tx=%s code=%s", output.TxHash, decodeErr.Code)
			continue
		}
		if decoded.PaymentIdentifier != payment.PaymentIdentifier {
			m.logf("payment identifier mismatch tx=%s expected=%s got=%s", output.TxHash, payment.PaymentIdentifier, decoded.PaymentIdentifier)
			continue
		}

		claimed, claimErr := m.repository.IsTxHashClaimedByOther(ctx, output.TxHash, payment.ID)
		if claimErr != nil {
			return matchResult{}, claimErr
		}
		if claimed {
			m.logf("transaction already claimed by another payment tx=%s", output.TxHash)
			continue
		}

		asset, ok := m.classifyAsset(payment, output, decoded)
		if !ok {
			continue
		}

		receivedAmount, ok := m.checkAmount(payment, output, decoded, asset)
		if !ok {
			continue
		}

		won, appErr := m.claim(ctx, payment, output, receivedAmount, asset, recent.TopBlockHeight, now)
		if appErr != nil {
			return matchResult{}, appErr
		}
		if !won {
			// Lost the race against a concurrent pass; not an error.
			m.logf("claim lost tx=%s payment=%d", output.TxHash, payment.ID)
			continue
		}

		confirmations := output.Confirmations
		if confirmations < 0 {
			confirmations = 0
		}

		return matchResult{
			Claimed:        true,
			TxHash:         output.TxHash,
			Asset:          asset,
			ReceivedAmount: receivedAmount,
			Confirmations:  confirmations,
		}, nil
	}

	return matchResult{}, nil
}

// classifyAsset resolves the candidate's asset. An explicit asset id always
// wins; the zero-decoded-amount stablecoin heuristic applies only when the
// output carries no asset id at all.
func (m *transactionMatcher) classifyAsset(
	payment entities.Payment,
	output dto.ChainOutput,
	decoded dto.DecodedTransfer,
) (valueobjects.Asset, bool) {
	if output.AssetID != "" {
		asset, appErr := valueobjects.AssetByID(output.AssetID)
		if appErr != nil {
			m.logf("unsupported asset tx=%s asset_id=%s", output.TxHash, output.AssetID)
			return valueobjects.Asset{}, false
		}
		return asset, true
	}

	if payment.AssetID != "" {
		return payment.Asset(), true
	}
	if decoded.Amount.IsZero() {
		return valueobjects.AssetFUSD, true
	}

	return valueobjects.AssetZano, true
}

// checkAmount applies the per-asset amount policy and returns the amount to
// record on success. Stablecoin matches are gated by identity alone, with
// the listed output amount recorded as received.
func (m *transactionMatcher) checkAmount(
	payment entities.Payment,
	output dto.ChainOutput,
	decoded dto.DecodedTransfer,
	asset valueobjects.Asset,
) (decimal.Decimal, bool) {
	if asset.IsStableToken() {
		return output.Amount, true
	}

	txAmount := output.Amount
	if decoded.Amount.IsPositive() {
		txAmount = decoded.Amount
	}

	diff := txAmount.Sub(payment.RequiredAmount).Abs()
	allowed := payment.RequiredAmount.Mul(amountTolerance)
	if diff.GreaterThan(allowed) {
		m.logf(
			"amount mismatch tx=%s required=%s got=%s diff=%s",
			output.TxHash,
			payment.RequiredAmount.String(),
			txAmount.String(),
			diff.String(),
		)
		return decimal.Zero, false
	}

	return txAmount, true
}

func (m *transactionMatcher) claim(
	ctx context.Context,
	payment entities.Payment,
	output dto.ChainOutput,
	receivedAmount decimal.Decimal,
	asset valueobjects.Asset,
	topBlockHeight int64,
	now time.Time,
) (bool, *apperrors.AppError) {
	confirmations := output.Confirmations
	if confirmations < 0 {
		confirmations = 0
	}

	// Mempool outputs have no mined height yet; fall back to the current
	// chain height so the first-observed height is recorded at claim time.
	receivedBlock := output.BlockHeight
	var keeperBlock *int64
	if output.BlockHeight > 0 {
		height := output.BlockHeight
		keeperBlock = &height
	} else {
		receivedBlock = topBlockHeight
	}

	return m.repository.ClaimTransaction(ctx, dto.ClaimTransactionInput{
		PaymentID:      payment.ID,
		TxHash:         output.TxHash,
		AssetID:        asset.ID,
		AssetSymbol:    asset.Symbol,
		ReceivedAmount: receivedAmount,
		Confirmations:  confirmations,
		ReceivedBlock:  receivedBlock,
		CurrentBlock:   topBlockHeight,
		KeeperBlock:    keeperBlock,
		UpdatedAt:      now,
	})
}

func (m *transactionMatcher) logf(format string, args ...any) {
	if m.logger == nil {
		return
	}
	m.logger.Printf(format, args...)
}
