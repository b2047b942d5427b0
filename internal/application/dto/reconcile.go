package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReconcilePaymentsCommand struct {
	Now      time.Time
	WorkerID string
}

type ReconcilePaymentsOutput struct {
	Scanned   int
	Matched   int
	Confirmed int
	Failed    int
	Expired   int
	Skipped   int
	Errors    int
}

// ClaimTransactionInput carries everything the atomic claim writes in one
// conditional update. KeeperBlock is nil while the transaction is unmined.
type ClaimTransactionInput struct {
	PaymentID      int64
	TxHash         string
	AssetID        string
	AssetSymbol    string
	ReceivedAmount decimal.Decimal
	Confirmations  int64
	ReceivedBlock  int64
	CurrentBlock   int64
	KeeperBlock    *int64
	UpdatedAt      time.Time
}

// ConfirmationUpdate is the tracker's output for one poll. ReceivedBlock is
// only honored by the store when the column is still unset.
type ConfirmationUpdate struct {
	PaymentID     int64
	Confirmations int64
	CurrentBlock  int64
	KeeperBlock   *int64
	ReceivedBlock *int64
	UpdatedAt     time.Time
}

type SweepExpiredPaymentsCommand struct {
	Now     time.Time
	Timeout time.Duration
}

type SweepExpiredPaymentsOutput struct {
	Expired int
}

type OrderCompletionEvent struct {
	OrderID        string
	TxHash         string
	AssetSymbol    string
	ReceivedAmount string
	Confirmations  int64
	CompletedAt    time.Time
}

type OrderCancellationEvent struct {
	OrderID     string
	Reason      string
	CancelledAt time.Time
}

type InitializePersistenceCommand struct {
	ReadinessTimeout       time.Duration
	ReadinessRetryInterval time.Duration
}
