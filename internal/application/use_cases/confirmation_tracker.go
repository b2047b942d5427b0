package use_cases

import (
	"context"
	"log"
	"time"

	"zanopay/internal/application/dto"
	portsout "zanopay/internal/application/ports/out"
	"zanopay/internal/domain/entities"
	apperrors "zanopay/internal/shared_kernel/errors"
)

// confirmationTracker recomputes a claimed payment's confirmation count from
// fresh chain data. Confirmations use one convention in every branch:
// currentHeight - referenceHeight + 1, clamped to zero, where the reference
// is the mined (keeper) height when known and the first-observed height
// otherwise. received_block is write-once; later polls never move it, which
// keeps the count from regressing if the node reports a different mined
// height after a reorg.
type confirmationTracker struct {
	chain  portsout.ChainGateway
	logger *log.Logger
}

func newConfirmationTracker(chain portsout.ChainGateway, logger *log.Logger) *confirmationTracker {
	return &confirmationTracker{chain: chain, logger: logger}
}

func (t *confirmationTracker) Track(
	ctx context.Context,
	payment entities.Payment,
	recent dto.RecentOutputs,
	currentHeight int64,
	now time.Time,
) (dto.ConfirmationUpdate, *apperrors.AppError) {
	if !payment.HasTxHash() {
		return dto.ConfirmationUpdate{}, apperrors.NewInternal(
			"payment_tx_hash_missing",
			"cannot track confirmations without a transaction hash",
			map[string]any{"payment_id": payment.ID},
		)
	}
	txHash := *payment.TxHash

	keeperBlock := int64(-1)
	if height, appErr := t.chain.GetTxKeeperBlock(ctx, txHash); appErr == nil {
		keeperBlock = height
	} else {
		t.logf("tx details lookup failed tx=%s code=%s", txHash, appErr.Code)
	}

	update := dto.ConfirmationUpdate{
		PaymentID:    payment.ID,
		CurrentBlock: currentHeight,
		UpdatedAt:    now,
	}

	switch {
	case keeperBlock > 0 && currentHeight > 0:
		update.Confirmations = clampConfirmations(currentHeight - keeperBlock + 1)
		update.KeeperBlock = &keeperBlock
		if payment.ReceivedBlock == nil {
			update.ReceivedBlock = &keeperBlock
		}

	case payment.ReceivedBlock != nil && currentHeight > 0:
		// Unconfirmed by the node: count from first detection as a
		// conservative proxy.
		update.Confirmations = clampConfirmations(currentHeight - *payment.ReceivedBlock + 1)

	default:
		// No mined height and no first-observed height: borrow whatever the
		// recent-output listing reports for this hash. Best effort, not
		// authoritative.
		for _, output := range recent.Outputs {
			if output.TxHash != txHash {
				continue
			}
			update.Confirmations = clampConfirmations(output.Confirmations)
			if output.BlockHeight > 0 {
				height := output.BlockHeight
				update.KeeperBlock = &height
				update.ReceivedBlock = &height
			}
			break
		}
	}

	return update, nil
}

func clampConfirmations(value int64) int64 {
	if value < 0 {
		return 0
	}
	return value
}

func (t *confirmationTracker) logf(format string, args ...any) {
	if t.logger == nil {
		return
	}
	t.logger.Printf(format, args...)
}
