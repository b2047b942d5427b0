package router

import (
	"net/http"

	"zanopay/internal/adapters/inbound/http/controllers"
)

type Dependencies struct {
	HealthController   *controllers.HealthController
	SwaggerController  *controllers.SwaggerController
	AssetsController   *controllers.AssetsController
	PaymentsController *controllers.PaymentsController
}

func New(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", deps.HealthController.GetHealth)
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)
	mux.HandleFunc("GET /v1/assets", deps.AssetsController.ListAssets)
	mux.HandleFunc("POST /v1/payments", deps.PaymentsController.CreatePayment)
	mux.HandleFunc("GET /v1/payments/{order_id}", deps.PaymentsController.GetPayment)

	return mux
}
