package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"zanopay/internal/application/dto"
	portsout "zanopay/internal/application/ports/out"
	apperrors "zanopay/internal/shared_kernel/errors"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	maxErrorBodyBytes  = 1024

	eventTypeOrderCompleted = "order.completed"
	eventTypeOrderCancelled = "order.cancelled"
)

type Config struct {
	// DestinationURL is the commerce platform's callback endpoint. Empty
	// disables delivery; the notifier then reports success without sending,
	// so single-binary deployments work without a storefront.
	DestinationURL string
	HMACSecret     string
	Timeout        time.Duration
}

// Gateway delivers order lifecycle callbacks over HTTP. Every request is
// signed with a timestamped HMAC and carries an idempotency key derived
// from the order and event type, so the receiver can drop duplicates from
// overlapping reconciliation passes.
type Gateway struct {
	destinationURL string
	hmacSecret     string
	client         *http.Client
}

var _ portsout.OrderNotifier = (*Gateway)(nil)

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Gateway{
		destinationURL: strings.TrimSpace(cfg.DestinationURL),
		hmacSecret:     strings.TrimSpace(cfg.HMACSecret),
		client:         &http.Client{Timeout: timeout},
	}
}

type completedPayload struct {
	Event          string `json:"event"`
	OrderID        string `json:"order_id"`
	TxHash         string `json:"tx_hash"`
	AssetSymbol    string `json:"asset_symbol"`
	ReceivedAmount string `json:"received_amount"`
	Confirmations  int64  `json:"confirmations"`
	CompletedAt    string `json:"completed_at"`
}

type cancelledPayload struct {
	Event       string `json:"event"`
	OrderID     string `json:"order_id"`
	Reason      string `json:"reason"`
	CancelledAt string `json:"cancelled_at"`
}

func (g *Gateway) NotifyOrderCompleted(ctx context.Context, event dto.OrderCompletionEvent) *apperrors.AppError {
	payload := completedPayload{
		Event:          eventTypeOrderCompleted,
		OrderID:        event.OrderID,
		TxHash:         event.TxHash,
		AssetSymbol:    event.AssetSymbol,
		ReceivedAmount: event.ReceivedAmount,
		Confirmations:  event.Confirmations,
		CompletedAt:    event.CompletedAt.UTC().Format(time.RFC3339),
	}
	return g.deliver(ctx, eventTypeOrderCompleted, event.OrderID, payload)
}

func (g *Gateway) NotifyOrderCancelled(ctx context.Context, event dto.OrderCancellationEvent) *apperrors.AppError {
	payload := cancelledPayload{
		Event:       eventTypeOrderCancelled,
		OrderID:     event.OrderID,
		Reason:      event.Reason,
		CancelledAt: event.CancelledAt.UTC().Format(time.RFC3339),
	}
	return g.deliver(ctx, eventTypeOrderCancelled, event.OrderID, payload)
}

func (g *Gateway) deliver(ctx context.Context, eventType string, orderID string, payload any) *apperrors.AppError {
	if g.destinationURL == "" {
		return nil
	}
	if orderID == "" {
		return apperrors.NewValidation(
			"order_id_required",
			"order id is required",
			nil,
		)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewInternal(
			"notify_payload_encode_failed",
			"failed to encode callback payload",
			map[string]any{"error": err.Error(), "order_id": orderID},
		)
	}

	timestamp := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	idempotencyKey := eventType + ":" + orderID

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, g.destinationURL, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternal(
			"notify_request_build_failed",
			"failed to build callback request",
			map[string]any{"error": err.Error(), "order_id": orderID},
		)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-ZanoPay-Event-Type", eventType)
	request.Header.Set("Idempotency-Key", idempotencyKey)
	request.Header.Set("X-ZanoPay-Timestamp", timestamp)
	if g.hmacSecret != "" {
		request.Header.Set("X-ZanoPay-Signature", "sha256="+callbackSignature(g.hmacSecret, timestamp, body))
	}

	response, err := g.client.Do(request)
	if err != nil {
		return apperrors.NewInternal(
			"notify_delivery_failed",
			"failed to send callback request",
			map[string]any{"error": err.Error(), "order_id": orderID},
		)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		bodyPreview := ""
		raw, readErr := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		if readErr == nil {
			bodyPreview = strings.TrimSpace(string(raw))
		}
		return apperrors.NewInternal(
			"notify_delivery_failed",
			"callback endpoint returned non-2xx status",
			map[string]any{
				"status_code": response.StatusCode,
				"order_id":    orderID,
				"body":        bodyPreview,
			},
		)
	}

	return nil
}

func callbackSignature(secret string, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(timestamp))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildExpectedSignatureHeader lets receivers verify a callback signature in
// tests.
func BuildExpectedSignatureHeader(secret string, timestamp string, body []byte) string {
	return "sha256=" + callbackSignature(secret, timestamp, body)
}
