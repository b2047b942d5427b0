//go:build !integration

package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func sampleResource() dto.PaymentResource {
	return dto.PaymentResource{
		OrderID:               "order-1",
		PaymentIdentifier:     "00ff00ff00ff00ff",
		IntegratedAddress:     "iZxABC123",
		AssetSymbol:           "ZANO",
		RequiredAmount:        "2.02",
		Status:                "pending",
		RequiredConfirmations: 10,
		CreatedAt:             time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestCreatePaymentReturns201WithLocation(t *testing.T) {
	create := &fakeCreatePaymentUseCase{output: dto.CreatePaymentOutput{Resource: sampleResource()}}
	controller := NewPaymentsController(create, &fakeGetPaymentUseCase{}, discardLogger())

	body := strings.NewReader(`{"order_id": "order-1", "asset_symbol": "ZANO", "amount_usd": "10"}`)
	request := httptest.NewRequest(http.MethodPost, "/v1/payments", body)
	recorder := httptest.NewRecorder()

	controller.CreatePayment(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", recorder.Code, recorder.Body.String())
	}
	if location := recorder.Header().Get("Location"); location != "/v1/payments/order-1" {
		t.Fatalf("unexpected Location %q", location)
	}
	if create.command.OrderID != "order-1" || create.command.AmountUSD != "10" {
		t.Fatalf("unexpected command %+v", create.command)
	}

	resource := dto.PaymentResource{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resource); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resource.IntegratedAddress != "iZxABC123" {
		t.Fatalf("unexpected resource %+v", resource)
	}
}

func TestCreatePaymentRejectsMalformedBody(t *testing.T) {
	controller := NewPaymentsController(&fakeCreatePaymentUseCase{}, &fakeGetPaymentUseCase{}, discardLogger())

	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "unknown field", body: `{"order_id": "o", "amount_usd": "1", "extra": true}`},
		{name: "two objects", body: `{"order_id": "o", "amount_usd": "1"}{}`},
		{name: "missing order id", body: `{"amount_usd": "1"}`},
		{name: "missing amount", body: `{"order_id": "o"}`},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/v1/payments", strings.NewReader(testCase.body))
			recorder := httptest.NewRecorder()

			controller.CreatePayment(recorder, request)

			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", recorder.Code, recorder.Body.String())
			}
			response := errorResponse{}
			if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if response.Error.Code != "invalid_request" {
				t.Fatalf("expected invalid_request, got %s", response.Error.Code)
			}
		})
	}
}

func TestCreatePaymentMapsConflictToStatus409(t *testing.T) {
	create := &fakeCreatePaymentUseCase{
		err: apperrors.NewConflict("payment_exists", "a payment already exists for this order", nil),
	}
	controller := NewPaymentsController(create, &fakeGetPaymentUseCase{}, discardLogger())

	body := strings.NewReader(`{"order_id": "order-1", "amount_usd": "10"}`)
	request := httptest.NewRequest(http.MethodPost, "/v1/payments", body)
	recorder := httptest.NewRecorder()

	controller.CreatePayment(recorder, request)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", recorder.Code)
	}
}

func TestGetPaymentUsesPathValue(t *testing.T) {
	get := &fakeGetPaymentUseCase{resource: sampleResource()}
	controller := NewPaymentsController(&fakeCreatePaymentUseCase{}, get, discardLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/payments/{order_id}", controller.GetPayment)

	request := httptest.NewRequest(http.MethodGet, "/v1/payments/order-1", nil)
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", recorder.Code, recorder.Body.String())
	}
	if get.query.OrderID != "order-1" {
		t.Fatalf("expected order-1, got %q", get.query.OrderID)
	}
}

func TestGetPaymentNotFoundMapsToStatus404(t *testing.T) {
	get := &fakeGetPaymentUseCase{
		err: apperrors.NewNotFound("payment_not_found", "no payment exists for this order", nil),
	}
	controller := NewPaymentsController(&fakeCreatePaymentUseCase{}, get, discardLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/payments/{order_id}", controller.GetPayment)

	request := httptest.NewRequest(http.MethodGet, "/v1/payments/missing", nil)
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

type fakeCreatePaymentUseCase struct {
	command dto.CreatePaymentCommand
	output  dto.CreatePaymentOutput
	err     *apperrors.AppError
}

func (u *fakeCreatePaymentUseCase) Execute(_ context.Context, command dto.CreatePaymentCommand) (dto.CreatePaymentOutput, *apperrors.AppError) {
	u.command = command
	if u.err != nil {
		return dto.CreatePaymentOutput{}, u.err
	}
	return u.output, nil
}

type fakeGetPaymentUseCase struct {
	query    dto.GetPaymentQuery
	resource dto.PaymentResource
	err      *apperrors.AppError
}

func (u *fakeGetPaymentUseCase) Execute(_ context.Context, query dto.GetPaymentQuery) (dto.PaymentResource, *apperrors.AppError) {
	u.query = query
	if u.err != nil {
		return dto.PaymentResource{}, u.err
	}
	return u.resource, nil
}
