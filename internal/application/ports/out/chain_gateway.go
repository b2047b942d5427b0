package out

import (
	"context"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

// ChainGateway wraps the Zano node. All calls are blocking network round
// trips with no business logic behind them.
type ChainGateway interface {
	// CheckNode is a liveness probe (get_info).
	CheckNode(ctx context.Context) *apperrors.AppError

	// FindOutsInRecentBlocks lists incoming outputs observed over the last
	// few blocks for the configured wallet. One call serves a whole
	// reconciliation pass.
	FindOutsInRecentBlocks(ctx context.Context) (dto.RecentOutputs, *apperrors.AppError)

	// GetTxKeeperBlock returns the height the node reports the transaction
	// mined at, or -1 while it is unconfirmed.
	GetTxKeeperBlock(ctx context.Context, txHash string) (int64, *apperrors.AppError)

	// GetCurrentHeight reads the dedicated height endpoint; preferred over
	// deriving height from transaction listings.
	GetCurrentHeight(ctx context.Context) (int64, *apperrors.AppError)

	// DeriveIntegratedAddress binds a payment identifier into a single-use
	// receiving address for the configured wallet.
	DeriveIntegratedAddress(ctx context.Context, paymentIdentifier string) (string, *apperrors.AppError)
}
