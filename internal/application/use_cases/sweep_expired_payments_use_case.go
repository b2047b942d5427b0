package use_cases

import (
	"context"
	"log"

	"zanopay/internal/application/dto"
	portsin "zanopay/internal/application/ports/in"
	portsout "zanopay/internal/application/ports/out"
	valueobjects "zanopay/internal/domain/value_objects"
	apperrors "zanopay/internal/shared_kernel/errors"
)

// sweepExpiredPaymentsUseCase terminates pending payments that never
// produced a matching transaction within the timeout window. Idempotent:
// the status compare-and-swap makes a re-run find nothing to do, and the
// cancellation callback fires at most once per record.
type sweepExpiredPaymentsUseCase struct {
	repository portsout.PaymentRepository
	notifier   portsout.OrderNotifier
	logger     *log.Logger
}

func NewSweepExpiredPaymentsUseCase(
	repository portsout.PaymentRepository,
	notifier portsout.OrderNotifier,
	logger *log.Logger,
) portsin.SweepExpiredPaymentsUseCase {
	return &sweepExpiredPaymentsUseCase{
		repository: repository,
		notifier:   notifier,
		logger:     logger,
	}
}

func (u *sweepExpiredPaymentsUseCase) Execute(
	ctx context.Context,
	command dto.SweepExpiredPaymentsCommand,
) (dto.SweepExpiredPaymentsOutput, *apperrors.AppError) {
	if u.repository == nil {
		return dto.SweepExpiredPaymentsOutput{}, apperrors.NewInternal(
			"payment_repository_missing",
			"payment repository is required",
			nil,
		)
	}
	if command.Timeout <= 0 {
		return dto.SweepExpiredPaymentsOutput{}, apperrors.NewValidation(
			"sweep_timeout_invalid",
			"sweep timeout must be greater than zero",
			map[string]any{"timeout": command.Timeout.String()},
		)
	}

	now := command.Now.UTC()
	cutoff := now.Add(-command.Timeout)

	stale, appErr := u.repository.ListExpiredPending(ctx, cutoff)
	if appErr != nil {
		return dto.SweepExpiredPaymentsOutput{}, appErr
	}

	output := dto.SweepExpiredPaymentsOutput{}
	for _, payment := range stale {
		updated, transitionErr := u.repository.TransitionStatusIfCurrent(
			ctx,
			payment.ID,
			valueobjects.PaymentStatusPending.String(),
			valueobjects.PaymentStatusExpired.String(),
			now,
		)
		if transitionErr != nil {
			return output, transitionErr
		}
		if !updated {
			continue
		}

		output.Expired++
		if u.notifier != nil {
			if notifyErr := u.notifier.NotifyOrderCancelled(ctx, dto.OrderCancellationEvent{
				OrderID:     payment.OrderID,
				Reason:      "payment_expired",
				CancelledAt: now,
			}); notifyErr != nil {
				u.logf("order cancellation notify failed order=%s code=%s", payment.OrderID, notifyErr.Code)
			}
		}
	}

	return output, nil
}

func (u *sweepExpiredPaymentsUseCase) logf(format string, args ...any) {
	if u.logger == nil {
		return
	}
	u.logger.Printf(format, args...)
}
