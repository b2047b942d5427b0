package dto

import "github.com/shopspring/decimal"

// ChainOutput is one incoming output reported by find_outs_in_recent_blocks,
// already converted from atomic units. BlockHeight is -1 while the
// transaction sits in the mempool.
type ChainOutput struct {
	TxHash        string
	AssetID       string
	AssetSymbol   string
	Amount        decimal.Decimal
	BlockHeight   int64
	Confirmations int64
}

type RecentOutputs struct {
	Outputs        []ChainOutput
	TopBlockHeight int64
}

// DecodedTransfer is the decode service's view of a transaction: the payment
// identifier recovered from the integrated address plus the transferred
// amount (zero for stablecoin transfers, which the service cannot price).
type DecodedTransfer struct {
	PaymentIdentifier string
	Amount            decimal.Decimal
}
