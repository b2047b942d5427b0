package use_cases

import (
	"context"
	"log"
	"strings"
	"time"

	"zanopay/internal/application/dto"
	portsin "zanopay/internal/application/ports/in"
	portsout "zanopay/internal/application/ports/out"
	"zanopay/internal/domain/entities"
	valueobjects "zanopay/internal/domain/value_objects"
	apperrors "zanopay/internal/shared_kernel/errors"
)

// ReconcilePaymentsPolicy tunes one reconciliation pass.
type ReconcilePaymentsPolicy struct {
	// RequiredConfirmations is the depth at which a claimed payment is
	// considered settled.
	RequiredConfirmations int64

	// PaymentTimeout bounds how long a pending payment waits for a matching
	// transaction before it is expired.
	PaymentTimeout time.Duration

	// MaxVerificationAttempts caps consecutive re-verification failures on a
	// claimed payment before it is failed.
	MaxVerificationAttempts int
}

// reconcilePaymentsUseCase runs one full pass over every open payment:
// match unclaimed records against recent chain outputs, re-verify and track
// confirmations on claimed ones, then sweep expired records. Chain data is
// fetched once per pass and shared across all payments; the record store is
// the only coordination between concurrent passes.
type reconcilePaymentsUseCase struct {
	repository portsout.PaymentRepository
	chain      portsout.ChainGateway
	decoder    portsout.PaymentDecodeGateway
	notifier   portsout.OrderNotifier
	sweeper    portsin.SweepExpiredPaymentsUseCase
	matcher    *transactionMatcher
	tracker    *confirmationTracker
	policy     ReconcilePaymentsPolicy
	logger     *log.Logger
}

func NewReconcilePaymentsUseCase(
	repository portsout.PaymentRepository,
	chain portsout.ChainGateway,
	decoder portsout.PaymentDecodeGateway,
	notifier portsout.OrderNotifier,
	sweeper portsin.SweepExpiredPaymentsUseCase,
	policy ReconcilePaymentsPolicy,
	logger *log.Logger,
) portsin.ReconcilePaymentsUseCase {
	return &reconcilePaymentsUseCase{
		repository: repository,
		chain:      chain,
		decoder:    decoder,
		notifier:   notifier,
		sweeper:    sweeper,
		matcher:    newTransactionMatcher(repository, decoder, logger),
		tracker:    newConfirmationTracker(chain, logger),
		policy:     policy,
		logger:     logger,
	}
}

func (u *reconcilePaymentsUseCase) Execute(
	ctx context.Context,
	command dto.ReconcilePaymentsCommand,
) (dto.ReconcilePaymentsOutput, *apperrors.AppError) {
	if strings.TrimSpace(command.WorkerID) == "" {
		return dto.ReconcilePaymentsOutput{}, apperrors.NewValidation(
			"worker_id_required",
			"worker id is required",
			nil,
		)
	}
	if u.policy.RequiredConfirmations <= 0 || u.policy.PaymentTimeout <= 0 || u.policy.MaxVerificationAttempts <= 0 {
		return dto.ReconcilePaymentsOutput{}, apperrors.NewInternal(
			"reconcile_policy_invalid",
			"reconciliation policy is misconfigured",
			map[string]any{
				"required_confirmations":    u.policy.RequiredConfirmations,
				"payment_timeout":           u.policy.PaymentTimeout.String(),
				"max_verification_attempts": u.policy.MaxVerificationAttempts,
			},
		)
	}

	now := command.Now.UTC()
	output := dto.ReconcilePaymentsOutput{}

	open, appErr := u.repository.ListOpenPayments(ctx)
	if appErr != nil {
		return output, appErr
	}

	if len(open) > 0 {
		recent, recentErr := u.chain.FindOutsInRecentBlocks(ctx)
		if recentErr != nil {
			// Without the output listing nothing in this pass can be decided
			// safely; leave every record untouched and try again next tick.
			return output, recentErr
		}

		currentHeight := recent.TopBlockHeight
		if height, heightErr := u.chain.GetCurrentHeight(ctx); heightErr == nil {
			currentHeight = height
		} else {
			u.logf("height lookup failed worker=%s code=%s", command.WorkerID, heightErr.Code)
		}

		for _, payment := range open {
			output.Scanned++
			if err := u.reconcileOne(ctx, payment, recent, currentHeight, now, &output); err != nil {
				output.Errors++
				u.logf("reconcile failed worker=%s payment=%d order=%s code=%s", command.WorkerID, payment.ID, payment.OrderID, err.Code)
			}
		}
	}

	sweepOut, sweepErr := u.sweeper.Execute(ctx, dto.SweepExpiredPaymentsCommand{
		Now:     now,
		Timeout: u.policy.PaymentTimeout,
	})
	if sweepErr != nil {
		output.Errors++
		u.logf("expiry sweep failed worker=%s code=%s", command.WorkerID, sweepErr.Code)
	}
	output.Expired = sweepOut.Expired

	return output, nil
}

func (u *reconcilePaymentsUseCase) reconcileOne(
	ctx context.Context,
	payment entities.Payment,
	recent dto.RecentOutputs,
	currentHeight int64,
	now time.Time,
	output *dto.ReconcilePaymentsOutput,
) *apperrors.AppError {
	if !payment.HasTxHash() {
		return u.matchPending(ctx, payment, recent, now, output)
	}
	return u.trackClaimed(ctx, payment, recent, currentHeight, now, output)
}

// matchPending scans the recent outputs for a transaction paying this
// record. On a won claim the status advances immediately; a claim that is
// already deep enough skips the processing stage entirely.
func (u *reconcilePaymentsUseCase) matchPending(
	ctx context.Context,
	payment entities.Payment,
	recent dto.RecentOutputs,
	now time.Time,
	output *dto.ReconcilePaymentsOutput,
) *apperrors.AppError {
	if payment.Status != valueobjects.PaymentStatusPending {
		output.Skipped++
		return nil
	}

	result, appErr := u.matcher.MatchPayment(ctx, payment, recent, now)
	if appErr != nil {
		return appErr
	}
	if !result.Claimed {
		output.Skipped++
		return nil
	}

	output.Matched++
	u.logf("transaction matched payment=%d order=%s tx=%s asset=%s amount=%s confirmations=%d",
		payment.ID, payment.OrderID, result.TxHash, result.Asset.Symbol, result.ReceivedAmount.String(), result.Confirmations)

	if result.Confirmations >= u.policy.RequiredConfirmations {
		return u.confirm(ctx, payment, valueobjects.PaymentStatusPending, dto.OrderCompletionEvent{
			OrderID:        payment.OrderID,
			TxHash:         result.TxHash,
			AssetSymbol:    result.Asset.Symbol,
			ReceivedAmount: result.ReceivedAmount.String(),
			Confirmations:  result.Confirmations,
			CompletedAt:    now,
		}, now, output)
	}

	moved, transitionErr := u.repository.TransitionStatusIfCurrent(
		ctx,
		payment.ID,
		valueobjects.PaymentStatusPending.String(),
		valueobjects.PaymentStatusProcessing.String(),
		now,
	)
	if transitionErr != nil {
		return transitionErr
	}
	if !moved {
		u.logf("processing transition lost payment=%d", payment.ID)
	}
	return nil
}

// trackClaimed re-verifies a claimed payment's transaction identity and
// refreshes its confirmation count. Identity is re-checked every pass so a
// transaction that stops decoding to this record's identifier cannot settle.
func (u *reconcilePaymentsUseCase) trackClaimed(
	ctx context.Context,
	payment entities.Payment,
	recent dto.RecentOutputs,
	currentHeight int64,
	now time.Time,
	output *dto.ReconcilePaymentsOutput,
) *apperrors.AppError {
	txHash := *payment.TxHash

	decoded, decodeErr := u.decoder.DecodeTransaction(ctx, txHash)
	if decodeErr != nil || decoded.PaymentIdentifier != payment.PaymentIdentifier {
		if decodeErr != nil {
			u.logf("re-verification decode failed payment=%d tx=%s code=%s", payment.ID, txHash, decodeErr.Code)
		} else {
			u.logf("re-verification identifier mismatch payment=%d tx=%s expected=%s got=%s",
				payment.ID, txHash, payment.PaymentIdentifier, decoded.PaymentIdentifier)
		}
		return u.recordVerificationFailure(ctx, payment, now, output)
	}

	update, trackErr := u.tracker.Track(ctx, payment, recent, currentHeight, now)
	if trackErr != nil {
		return trackErr
	}
	if updateErr := u.repository.UpdateConfirmations(ctx, update); updateErr != nil {
		return updateErr
	}

	if update.Confirmations < u.policy.RequiredConfirmations {
		output.Skipped++
		return nil
	}

	return u.confirm(ctx, payment, payment.Status, dto.OrderCompletionEvent{
		OrderID:        payment.OrderID,
		TxHash:         txHash,
		AssetSymbol:    payment.Asset().Symbol,
		ReceivedAmount: receivedAmountString(payment),
		Confirmations:  update.Confirmations,
		CompletedAt:    now,
	}, now, output)
}

// recordVerificationFailure bumps the attempt counter and fails the payment
// once the ceiling is reached. The failing transition is CAS-guarded so the
// cancellation callback fires at most once across concurrent passes.
func (u *reconcilePaymentsUseCase) recordVerificationFailure(
	ctx context.Context,
	payment entities.Payment,
	now time.Time,
	output *dto.ReconcilePaymentsOutput,
) *apperrors.AppError {
	attempts, appErr := u.repository.IncrementVerificationAttempts(ctx, payment.ID, now)
	if appErr != nil {
		return appErr
	}
	if attempts < u.policy.MaxVerificationAttempts {
		output.Skipped++
		return nil
	}

	moved, transitionErr := u.repository.TransitionStatusIfCurrent(
		ctx,
		payment.ID,
		payment.Status.String(),
		valueobjects.PaymentStatusFailed.String(),
		now,
	)
	if transitionErr != nil {
		return transitionErr
	}
	if !moved {
		return nil
	}

	output.Failed++
	u.logf("payment failed after verification attempts payment=%d order=%s attempts=%d", payment.ID, payment.OrderID, attempts)
	if u.notifier != nil {
		if notifyErr := u.notifier.NotifyOrderCancelled(ctx, dto.OrderCancellationEvent{
			OrderID:     payment.OrderID,
			Reason:      "verification_failed",
			CancelledAt: now,
		}); notifyErr != nil {
			u.logf("order cancellation notify failed order=%s code=%s", payment.OrderID, notifyErr.Code)
		}
	}
	return nil
}

func (u *reconcilePaymentsUseCase) confirm(
	ctx context.Context,
	payment entities.Payment,
	from valueobjects.PaymentStatus,
	event dto.OrderCompletionEvent,
	now time.Time,
	output *dto.ReconcilePaymentsOutput,
) *apperrors.AppError {
	moved, transitionErr := u.repository.TransitionStatusIfCurrent(
		ctx,
		payment.ID,
		from.String(),
		valueobjects.PaymentStatusConfirmed.String(),
		now,
	)
	if transitionErr != nil {
		return transitionErr
	}
	if !moved {
		// Another pass confirmed (or failed) it first; that pass owns the
		// callback.
		return nil
	}

	output.Confirmed++
	u.logf("payment confirmed payment=%d order=%s tx=%s confirmations=%d", payment.ID, payment.OrderID, event.TxHash, event.Confirmations)
	if u.notifier != nil {
		if notifyErr := u.notifier.NotifyOrderCompleted(ctx, event); notifyErr != nil {
			u.logf("order completion notify failed order=%s code=%s", payment.OrderID, notifyErr.Code)
		}
	}
	return nil
}

func receivedAmountString(payment entities.Payment) string {
	if payment.ReceivedAmount == nil {
		return ""
	}
	return payment.ReceivedAmount.String()
}

func (u *reconcilePaymentsUseCase) logf(format string, args ...any) {
	if u.logger == nil {
		return
	}
	u.logger.Printf(format, args...)
}
