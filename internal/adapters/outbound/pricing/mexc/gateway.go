package mexc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	portsout "zanopay/internal/application/ports/out"
	apperrors "zanopay/internal/shared_kernel/errors"
)

const (
	// DefaultTickerURL is the spot ticker for the native coin against USDT,
	// used as a USD proxy.
	DefaultTickerURL = "https://api.mexc.com/api/v3/ticker/price?symbol=ZANOUSDT"

	defaultHTTPTimeout = 10 * time.Second
)

type Config struct {
	TickerURL string
	Timeout   time.Duration
}

// Gateway reads the native-coin spot price from the MEXC public ticker.
type Gateway struct {
	tickerURL string
	client    *http.Client
}

var _ portsout.PriceOracle = (*Gateway)(nil)

func NewGateway(cfg Config) *Gateway {
	tickerURL := cfg.TickerURL
	if tickerURL == "" {
		tickerURL = DefaultTickerURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Gateway{
		tickerURL: tickerURL,
		client:    &http.Client{Timeout: timeout},
	}
}

type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func (g *Gateway) GetSpotPriceUSD(ctx context.Context) (decimal.Decimal, *apperrors.AppError) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, g.tickerURL, nil)
	if err != nil {
		return decimal.Zero, apperrors.NewInternal(
			"price_request_build_failed",
			"failed to build price request",
			map[string]any{"error": err.Error()},
		)
	}

	response, err := g.client.Do(request)
	if err != nil {
		return decimal.Zero, apperrors.NewInternal(
			"price_request_failed",
			"failed to call price endpoint",
			map[string]any{"error": err.Error()},
		)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return decimal.Zero, apperrors.NewInternal(
			"price_request_failed",
			"price endpoint returned non-200 status",
			map[string]any{"status_code": response.StatusCode},
		)
	}

	ticker := tickerResponse{}
	if err := json.NewDecoder(response.Body).Decode(&ticker); err != nil {
		return decimal.Zero, apperrors.NewInternal(
			"price_response_invalid",
			"failed to decode price response",
			map[string]any{"error": err.Error()},
		)
	}

	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return decimal.Zero, apperrors.NewInternal(
			"price_response_invalid",
			"price endpoint returned a non-numeric price",
			map[string]any{"price": ticker.Price},
		)
	}
	if !price.IsPositive() {
		return decimal.Zero, apperrors.NewInternal(
			"price_unavailable",
			"price endpoint returned a non-positive price",
			map[string]any{"price": price.String()},
		)
	}
	return price, nil
}
