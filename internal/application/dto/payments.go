package dto

import "time"

type CreatePaymentCommand struct {
	OrderID     string
	AssetSymbol string
	AmountUSD   string
}

type CreatePaymentOutput struct {
	Resource PaymentResource
}

type GetPaymentQuery struct {
	OrderID string
}

// PaymentResource is the payer-visible view of a payment. Internal failure
// detail never appears here; the payer only sees the generic status.
type PaymentResource struct {
	OrderID               string     `json:"order_id"`
	PaymentIdentifier     string     `json:"payment_id"`
	IntegratedAddress     string     `json:"integrated_address"`
	AssetSymbol           string     `json:"asset_symbol"`
	RequiredAmount        string     `json:"required_amount"`
	ReceivedAmount        *string    `json:"received_amount,omitempty"`
	TxHash                *string    `json:"tx_hash,omitempty"`
	Status                string     `json:"status"`
	Confirmations         int64      `json:"confirmations"`
	RequiredConfirmations int64      `json:"required_confirmations"`
	CreatedAt             time.Time  `json:"created_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
}

type AssetResource struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

type ListAssetsOutput struct {
	Assets []AssetResource `json:"assets"`
}

type GetHealthCommand struct{}

type HealthOutput struct {
	Status string `json:"status"`
}

type GetOpenAPISpecQuery struct{}

type OpenAPISpecOutput struct {
	Content     []byte
	ContentType string
}
