package payment

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"zanopay/internal/application/dto"
	portsout "zanopay/internal/application/ports/out"
	"zanopay/internal/domain/entities"
	valueobjects "zanopay/internal/domain/value_objects"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

var _ portsout.PaymentRepository = (*Repository)(nil)

func NewRepository(db *sql.DB, logger *log.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const paymentColumns = `
  id,
  order_id,
  payment_identifier,
  integrated_address,
  asset_id,
  asset_symbol,
  required_amount::text,
  received_amount::text,
  tx_hash,
  status,
  confirmations,
  received_block,
  current_block,
  keeper_block,
  verification_attempts,
  created_at,
  updated_at,
  completed_at
`

func (r *Repository) Insert(ctx context.Context, payment entities.Payment) (entities.Payment, *apperrors.AppError) {
	const query = `
INSERT INTO app.payments (
  order_id,
  payment_identifier,
  integrated_address,
  asset_id,
  asset_symbol,
  required_amount,
  status,
  confirmations,
  verification_attempts,
  created_at,
  updated_at
) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, 0, 0, $8, $8)
RETURNING id, created_at, updated_at
`

	createdAt := payment.CreatedAt.UTC()
	err := r.db.QueryRowContext(
		ctx,
		query,
		strings.TrimSpace(payment.OrderID),
		payment.PaymentIdentifier,
		payment.IntegratedAddress,
		payment.AssetID,
		payment.AssetSymbol,
		payment.RequiredAmount.String(),
		payment.Status.String(),
		createdAt,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.Payment{}, apperrors.NewConflict(
				"payment_exists",
				"a payment already exists for this order",
				map[string]any{"order_id": payment.OrderID},
			)
		}
		return entities.Payment{}, apperrors.NewInternal(
			"payment_insert_failed",
			"failed to insert payment",
			map[string]any{"error": err.Error(), "order_id": payment.OrderID},
		)
	}

	payment.CreatedAt = payment.CreatedAt.UTC()
	payment.UpdatedAt = payment.UpdatedAt.UTC()
	return payment, nil
}

func (r *Repository) ListOpenPayments(ctx context.Context) ([]entities.Payment, *apperrors.AppError) {
	const query = `
SELECT ` + paymentColumns + `
FROM app.payments
WHERE status IN ('pending', 'processing')
ORDER BY created_at ASC, id ASC
`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternal(
			"payment_query_failed",
			"failed to list open payments",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (entities.Payment, *apperrors.AppError) {
	const query = `
SELECT ` + paymentColumns + `
FROM app.payments
WHERE order_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1
`

	row := r.db.QueryRowContext(ctx, query, strings.TrimSpace(orderID))
	payment, appErr := scanPayment(row.Scan)
	if appErr != nil {
		return entities.Payment{}, appErr
	}
	if payment == nil {
		return entities.Payment{}, apperrors.NewNotFound(
			"payment_not_found",
			"no payment exists for this order",
			map[string]any{"order_id": orderID},
		)
	}
	return *payment, nil
}

func (r *Repository) IsTxHashClaimedByOther(ctx context.Context, txHash string, paymentID int64) (bool, *apperrors.AppError) {
	const query = `
SELECT EXISTS (
  SELECT 1 FROM app.payments WHERE tx_hash = $1 AND id <> $2
)
`

	var claimed bool
	if err := r.db.QueryRowContext(ctx, query, txHash, paymentID).Scan(&claimed); err != nil {
		return false, apperrors.NewInternal(
			"payment_query_failed",
			"failed to check transaction claim",
			map[string]any{"error": err.Error(), "tx_hash": txHash},
		)
	}
	return claimed, nil
}

func (r *Repository) ClaimTransaction(ctx context.Context, input dto.ClaimTransactionInput) (bool, *apperrors.AppError) {
	const query = `
UPDATE app.payments
SET
  tx_hash = $2,
  asset_id = $3,
  asset_symbol = $4,
  received_amount = $5::numeric,
  confirmations = $6,
  received_block = $7,
  current_block = $8,
  keeper_block = $9,
  updated_at = $10
WHERE id = $1
  AND tx_hash IS NULL
`

	result, err := r.db.ExecContext(
		ctx,
		query,
		input.PaymentID,
		input.TxHash,
		input.AssetID,
		input.AssetSymbol,
		input.ReceivedAmount.String(),
		input.Confirmations,
		input.ReceivedBlock,
		input.CurrentBlock,
		input.KeeperBlock,
		input.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Another record already holds this hash; the claim is lost, not
			// broken.
			return false, nil
		}
		return false, apperrors.NewInternal(
			"payment_update_failed",
			"failed to claim transaction",
			map[string]any{"error": err.Error(), "payment_id": input.PaymentID, "tx_hash": input.TxHash},
		)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternal(
			"payment_update_failed",
			"failed to verify transaction claim",
			map[string]any{"error": err.Error(), "payment_id": input.PaymentID},
		)
	}
	return affected == 1, nil
}

func (r *Repository) TransitionStatusIfCurrent(
	ctx context.Context,
	paymentID int64,
	currentStatus string,
	nextStatus string,
	now time.Time,
) (bool, *apperrors.AppError) {
	const query = `
UPDATE app.payments
SET
  status = $3,
  updated_at = $4,
  completed_at = CASE WHEN $3 = 'confirmed' THEN $4 ELSE completed_at END
WHERE id = $1
  AND status = $2
`

	result, err := r.db.ExecContext(
		ctx,
		query,
		paymentID,
		strings.ToLower(strings.TrimSpace(currentStatus)),
		strings.ToLower(strings.TrimSpace(nextStatus)),
		now.UTC(),
	)
	if err != nil {
		return false, apperrors.NewInternal(
			"payment_update_failed",
			"failed to transition payment status",
			map[string]any{"error": err.Error(), "payment_id": paymentID},
		)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternal(
			"payment_update_failed",
			"failed to verify payment status transition",
			map[string]any{"error": err.Error(), "payment_id": paymentID},
		)
	}
	return affected == 1, nil
}

func (r *Repository) UpdateConfirmations(ctx context.Context, update dto.ConfirmationUpdate) *apperrors.AppError {
	const query = `
UPDATE app.payments
SET
  confirmations = $2,
  current_block = $3,
  keeper_block = COALESCE($4, keeper_block),
  received_block = COALESCE(received_block, $5),
  updated_at = $6
WHERE id = $1
`

	_, err := r.db.ExecContext(
		ctx,
		query,
		update.PaymentID,
		update.Confirmations,
		update.CurrentBlock,
		update.KeeperBlock,
		update.ReceivedBlock,
		update.UpdatedAt.UTC(),
	)
	if err != nil {
		return apperrors.NewInternal(
			"payment_update_failed",
			"failed to update confirmations",
			map[string]any{"error": err.Error(), "payment_id": update.PaymentID},
		)
	}
	return nil
}

func (r *Repository) IncrementVerificationAttempts(ctx context.Context, paymentID int64, now time.Time) (int, *apperrors.AppError) {
	const query = `
UPDATE app.payments
SET
  verification_attempts = verification_attempts + 1,
  updated_at = $2
WHERE id = $1
RETURNING verification_attempts
`

	var attempts int
	err := r.db.QueryRowContext(ctx, query, paymentID, now.UTC()).Scan(&attempts)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.NewNotFound(
				"payment_not_found",
				"payment does not exist",
				map[string]any{"payment_id": paymentID},
			)
		}
		return 0, apperrors.NewInternal(
			"payment_update_failed",
			"failed to increment verification attempts",
			map[string]any{"error": err.Error(), "payment_id": paymentID},
		)
	}
	return attempts, nil
}

func (r *Repository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]entities.Payment, *apperrors.AppError) {
	const query = `
SELECT ` + paymentColumns + `
FROM app.payments
WHERE status = 'pending'
  AND tx_hash IS NULL
  AND created_at < $1
ORDER BY created_at ASC, id ASC
`

	rows, err := r.db.QueryContext(ctx, query, cutoff.UTC())
	if err != nil {
		return nil, apperrors.NewInternal(
			"payment_query_failed",
			"failed to list expired pending payments",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows *sql.Rows) ([]entities.Payment, *apperrors.AppError) {
	payments := []entities.Payment{}
	for rows.Next() {
		payment, appErr := scanPayment(rows.Scan)
		if appErr != nil {
			return nil, appErr
		}
		if payment != nil {
			payments = append(payments, *payment)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"payment_query_failed",
			"failed while iterating payments",
			map[string]any{"error": err.Error()},
		)
	}
	return payments, nil
}

// scanPayment reads one row through the provided scan function. A nil
// payment with a nil error means no row was present.
func scanPayment(scan func(dest ...any) error) (*entities.Payment, *apperrors.AppError) {
	var (
		payment        entities.Payment
		requiredAmount string
		receivedAmount sql.NullString
		txHash         sql.NullString
		status         string
		receivedBlock  sql.NullInt64
		currentBlock   sql.NullInt64
		keeperBlock    sql.NullInt64
		completedAt    sql.NullTime
	)

	err := scan(
		&payment.ID,
		&payment.OrderID,
		&payment.PaymentIdentifier,
		&payment.IntegratedAddress,
		&payment.AssetID,
		&payment.AssetSymbol,
		&requiredAmount,
		&receivedAmount,
		&txHash,
		&status,
		&payment.Confirmations,
		&receivedBlock,
		&currentBlock,
		&keeperBlock,
		&payment.VerificationAttempts,
		&payment.CreatedAt,
		&payment.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewInternal(
			"payment_scan_failed",
			"failed to parse payment row",
			map[string]any{"error": err.Error()},
		)
	}

	parsedAmount, parseErr := decimal.NewFromString(strings.TrimSpace(requiredAmount))
	if parseErr != nil {
		return nil, apperrors.NewInternal(
			"payment_scan_failed",
			"stored required amount is not numeric",
			map[string]any{"error": parseErr.Error(), "payment_id": payment.ID},
		)
	}
	payment.RequiredAmount = parsedAmount

	if receivedAmount.Valid && strings.TrimSpace(receivedAmount.String) != "" {
		parsed, parseErr := decimal.NewFromString(strings.TrimSpace(receivedAmount.String))
		if parseErr != nil {
			return nil, apperrors.NewInternal(
				"payment_scan_failed",
				"stored received amount is not numeric",
				map[string]any{"error": parseErr.Error(), "payment_id": payment.ID},
			)
		}
		payment.ReceivedAmount = &parsed
	}

	if txHash.Valid && strings.TrimSpace(txHash.String) != "" {
		value := strings.TrimSpace(txHash.String)
		payment.TxHash = &value
	}

	parsedStatus, appErr := valueobjects.ParsePaymentStatus(status)
	if appErr != nil {
		return nil, apperrors.NewInternal(
			"payment_scan_failed",
			"stored payment status is invalid",
			map[string]any{"status": status, "payment_id": payment.ID},
		)
	}
	payment.Status = parsedStatus

	if receivedBlock.Valid {
		value := receivedBlock.Int64
		payment.ReceivedBlock = &value
	}
	if currentBlock.Valid {
		value := currentBlock.Int64
		payment.CurrentBlock = &value
	}
	if keeperBlock.Valid {
		value := keeperBlock.Int64
		payment.KeeperBlock = &value
	}
	if completedAt.Valid {
		value := completedAt.Time.UTC()
		payment.CompletedAt = &value
	}

	payment.CreatedAt = payment.CreatedAt.UTC()
	payment.UpdatedAt = payment.UpdatedAt.UTC()
	return &payment, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505"
}
