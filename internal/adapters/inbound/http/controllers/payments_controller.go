package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"zanopay/internal/application/dto"
	portsin "zanopay/internal/application/ports/in"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type PaymentsController struct {
	createUseCase portsin.CreatePaymentUseCase
	getUseCase    portsin.GetPaymentUseCase
	logger        *log.Logger
}

type createPaymentPayload struct {
	OrderID     string `json:"order_id"`
	AssetSymbol string `json:"asset_symbol"`
	AmountUSD   string `json:"amount_usd"`
}

func NewPaymentsController(
	createUseCase portsin.CreatePaymentUseCase,
	getUseCase portsin.GetPaymentUseCase,
	logger *log.Logger,
) *PaymentsController {
	return &PaymentsController{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		logger:        logger,
	}
}

func (c *PaymentsController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	payload, appErr := parseCreatePaymentPayload(r.Body)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.createUseCase.Execute(r.Context(), dto.CreatePaymentCommand{
		OrderID:     payload.OrderID,
		AssetSymbol: payload.AssetSymbol,
		AmountUSD:   payload.AmountUSD,
	})
	if appErr != nil {
		c.logger.Printf("request error path=/v1/payments method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	w.Header().Set("Location", "/v1/payments/"+output.Resource.OrderID)
	writeJSON(w, http.StatusCreated, output.Resource)
}

func (c *PaymentsController) GetPayment(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("order_id")
	resource, appErr := c.getUseCase.Execute(r.Context(), dto.GetPaymentQuery{OrderID: orderID})
	if appErr != nil {
		c.logger.Printf("request error path=/v1/payments/{order_id} method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

func parseCreatePaymentPayload(body io.Reader) (createPaymentPayload, *apperrors.AppError) {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	decoder.UseNumber()

	payload := createPaymentPayload{}
	if err := decoder.Decode(&payload); err != nil {
		return createPaymentPayload{}, apperrors.NewValidation(
			"invalid_request",
			"request body must be valid JSON",
			map[string]any{"error": err.Error()},
		)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return createPaymentPayload{}, apperrors.NewValidation(
			"invalid_request",
			"request body must contain a single JSON object",
			nil,
		)
	}

	payload.OrderID = strings.TrimSpace(payload.OrderID)
	if payload.OrderID == "" {
		return createPaymentPayload{}, apperrors.NewValidation(
			"invalid_request",
			"order_id is required",
			map[string]any{"field": "order_id"},
		)
	}
	payload.AmountUSD = strings.TrimSpace(payload.AmountUSD)
	if payload.AmountUSD == "" {
		return createPaymentPayload{}, apperrors.NewValidation(
			"invalid_request",
			"amount_usd is required",
			map[string]any{"field": "amount_usd"},
		)
	}

	return payload, nil
}
