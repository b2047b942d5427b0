//go:build !integration

package mexc

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetSpotPriceUSD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol": "ZANOUSDT", "price": "11.32"}`))
	}))
	defer server.Close()

	gateway := NewGateway(Config{TickerURL: server.URL})

	price, appErr := gateway.GetSpotPriceUSD(t.Context())
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if price.String() != "11.32" {
		t.Fatalf("expected 11.32, got %s", price.String())
	}
}

func TestGetSpotPriceUSDRejectsNonNumericPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol": "ZANOUSDT", "price": "n/a"}`))
	}))
	defer server.Close()

	gateway := NewGateway(Config{TickerURL: server.URL})

	_, appErr := gateway.GetSpotPriceUSD(t.Context())
	if appErr == nil || appErr.Code != "price_response_invalid" {
		t.Fatalf("expected price_response_invalid, got %+v", appErr)
	}
}

func TestGetSpotPriceUSDRejectsNonPositivePrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol": "ZANOUSDT", "price": "0"}`))
	}))
	defer server.Close()

	gateway := NewGateway(Config{TickerURL: server.URL})

	_, appErr := gateway.GetSpotPriceUSD(t.Context())
	if appErr == nil || appErr.Code != "price_unavailable" {
		t.Fatalf("expected price_unavailable, got %+v", appErr)
	}
}

func TestGetSpotPriceUSDNon200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gateway := NewGateway(Config{TickerURL: server.URL})

	_, appErr := gateway.GetSpotPriceUSD(t.Context())
	if appErr == nil || appErr.Code != "price_request_failed" {
		t.Fatalf("expected price_request_failed, got %+v", appErr)
	}
}
