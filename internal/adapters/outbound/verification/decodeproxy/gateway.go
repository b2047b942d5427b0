package decodeproxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"zanopay/internal/application/dto"
	portsout "zanopay/internal/application/ports/out"
	apperrors "zanopay/internal/shared_kernel/errors"
)

const defaultHTTPTimeout = 10 * time.Second

type Config struct {
	// BaseURL is the decode service root; the transaction path is appended
	// to it.
	BaseURL       string
	WalletAddress string
	WalletViewKey string
	Timeout       time.Duration
}

// Gateway calls the external decode service that recovers the payment
// identifier a sender embedded in a transaction. The service needs the
// receiving wallet's view key to decrypt the transfer.
type Gateway struct {
	config Config
	client *http.Client
}

var _ portsout.PaymentDecodeGateway = (*Gateway)(nil)

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Gateway{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type decodeResponse struct {
	Success   bool            `json:"success"`
	PaymentID string          `json:"paymentId"`
	Amount    json.RawMessage `json:"amount"`
	Error     string          `json:"error"`
}

func (g *Gateway) DecodeTransaction(ctx context.Context, txHash string) (dto.DecodedTransfer, *apperrors.AppError) {
	txHash = strings.TrimSpace(txHash)
	if txHash == "" {
		return dto.DecodedTransfer{}, apperrors.NewValidation(
			"tx_hash_required",
			"transaction hash is required",
			nil,
		)
	}
	if g.config.BaseURL == "" {
		return dto.DecodedTransfer{}, apperrors.NewInternal(
			"decode_service_not_configured",
			"decode service base url is missing",
			nil,
		)
	}

	query := url.Values{}
	query.Set("walletAddress", g.config.WalletAddress)
	query.Set("privateViewKey", g.config.WalletViewKey)
	endpoint := strings.TrimRight(g.config.BaseURL, "/") + "/api/decode-transaction/" + url.PathEscape(txHash) + "?" + query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return dto.DecodedTransfer{}, apperrors.NewInternal(
			"decode_request_build_failed",
			"failed to build decode request",
			map[string]any{"error": err.Error(), "tx_hash": txHash},
		)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := g.client.Do(request)
	if err != nil {
		return dto.DecodedTransfer{}, apperrors.NewInternal(
			"decode_request_failed",
			"failed to call decode service",
			map[string]any{"error": err.Error(), "tx_hash": txHash},
		)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return dto.DecodedTransfer{}, apperrors.NewInternal(
			"decode_request_failed",
			"decode service returned non-200 status",
			map[string]any{"status_code": response.StatusCode, "tx_hash": txHash},
		)
	}

	decoded := decodeResponse{}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return dto.DecodedTransfer{}, apperrors.NewInternal(
			"decode_response_invalid",
			"failed to decode decode-service response",
			map[string]any{"error": err.Error(), "tx_hash": txHash},
		)
	}
	if !decoded.Success {
		return dto.DecodedTransfer{}, apperrors.NewInternal(
			"decode_verification_failed",
			"decode service could not verify the transaction",
			map[string]any{"tx_hash": txHash, "service_error": decoded.Error},
		)
	}
	if decoded.PaymentID == "" {
		return dto.DecodedTransfer{}, apperrors.NewInternal(
			"decode_payment_id_missing",
			"decode service returned no payment identifier",
			map[string]any{"tx_hash": txHash},
		)
	}

	// The service reports the amount as either a JSON number or a quoted
	// string depending on magnitude; accept both. A missing or unreadable
	// amount decodes to zero, which the caller treats as "amount unknown".
	amount := decimal.Zero
	if len(decoded.Amount) > 0 {
		raw := strings.Trim(string(decoded.Amount), `"`)
		if raw != "" && raw != "null" {
			if parsed, parseErr := decimal.NewFromString(raw); parseErr == nil {
				amount = parsed
			}
		}
	}

	return dto.DecodedTransfer{
		PaymentIdentifier: decoded.PaymentID,
		Amount:            amount,
	}, nil
}
