package di

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"zanopay/internal/adapters/inbound/http/controllers"
	httpRouter "zanopay/internal/adapters/inbound/http/router"
	"zanopay/internal/adapters/outbound/chain/zanod"
	"zanopay/internal/adapters/outbound/docs"
	webhooknotifier "zanopay/internal/adapters/outbound/notifier/webhook"
	postgresqlbootstrap "zanopay/internal/adapters/outbound/persistence/postgresql/bootstrap"
	postgresqlpayment "zanopay/internal/adapters/outbound/persistence/postgresql/payment"
	postgresqlshared "zanopay/internal/adapters/outbound/persistence/postgresql/shared"
	"zanopay/internal/adapters/outbound/pricing/mexc"
	"zanopay/internal/adapters/outbound/verification/decodeproxy"
	portsin "zanopay/internal/application/ports/in"
	"zanopay/internal/application/use_cases"
	"zanopay/internal/infrastructure/config"
	"zanopay/internal/infrastructure/httpserver"
	"zanopay/internal/infrastructure/reconciler"
)

type Container struct {
	Database                     *sql.DB
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
	ReconcilerWorker             *reconciler.Worker
}

func Build(cfg config.Config, logger *log.Logger) (Container, error) {
	priceBuffer, err := decimal.NewFromString(cfg.PriceBufferPercent)
	if err != nil {
		return Container{}, fmt.Errorf("invalid price buffer percent %q: %w", cfg.PriceBufferPercent, err)
	}

	openAPIReadModel := docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(openAPIReadModel)
	persistenceGateway := postgresqlbootstrap.NewGateway(
		cfg.DatabaseURL,
		cfg.DatabaseTarget,
		cfg.MigrationsPath,
		logger,
	)
	initializePersistenceUseCase := use_cases.NewInitializePersistenceUseCase(persistenceGateway)
	databasePool := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, logger)

	paymentRepository := postgresqlpayment.NewRepository(databasePool, logger)
	chainGateway := zanod.NewGateway(zanod.Config{
		RPCURL:        cfg.NodeRPCURL,
		WalletAddress: cfg.WalletAddress,
		WalletViewKey: cfg.WalletViewKey,
		BlocksLimit:   cfg.BlocksLimit,
	}, logger)
	decodeGateway := decodeproxy.NewGateway(decodeproxy.Config{
		BaseURL:       cfg.DecodeAPIURL,
		WalletAddress: cfg.WalletAddress,
		WalletViewKey: cfg.WalletViewKey,
	})
	priceOracle := mexc.NewGateway(mexc.Config{TickerURL: cfg.PriceAPIURL})
	orderNotifier := webhooknotifier.NewGateway(webhooknotifier.Config{
		DestinationURL: cfg.OrderWebhookURL,
		HMACSecret:     cfg.OrderWebhookHMACSecret,
	})

	healthUseCase := use_cases.NewGetHealthUseCase(chainGateway, logger)

	listAssetsUseCase := use_cases.NewListAssetsUseCase()
	createPaymentUseCase := use_cases.NewCreatePaymentUseCase(
		paymentRepository,
		chainGateway,
		priceOracle,
		use_cases.NewSystemClock(),
		use_cases.CreatePaymentPolicy{
			PriceBufferPercent:    priceBuffer,
			RequiredConfirmations: cfg.RequiredConfirmations,
		},
	)
	getPaymentUseCase := use_cases.NewGetPaymentUseCase(paymentRepository, cfg.RequiredConfirmations)
	sweepUseCase := use_cases.NewSweepExpiredPaymentsUseCase(paymentRepository, orderNotifier, logger)
	reconcileUseCase := use_cases.NewReconcilePaymentsUseCase(
		paymentRepository,
		chainGateway,
		decodeGateway,
		orderNotifier,
		sweepUseCase,
		use_cases.ReconcilePaymentsPolicy{
			RequiredConfirmations:   cfg.RequiredConfirmations,
			PaymentTimeout:          cfg.PaymentTimeout,
			MaxVerificationAttempts: cfg.MaxVerificationAttempts,
		},
		logger,
	)
	reconcilerWorker := reconciler.NewWorker(
		cfg.ReconcilerEnabled,
		cfg.ReconcilerPollInterval,
		cfg.ReconcilerWorkerID,
		reconcileUseCase,
		logger,
	)

	healthController := controllers.NewHealthController(healthUseCase, logger)
	swaggerController := controllers.NewSwaggerController(openAPIUseCase, logger)
	assetsController := controllers.NewAssetsController(listAssetsUseCase, logger)
	paymentsController := controllers.NewPaymentsController(
		createPaymentUseCase,
		getPaymentUseCase,
		logger,
	)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:   healthController,
		SwaggerController:  swaggerController,
		AssetsController:   assetsController,
		PaymentsController: paymentsController,
	})

	server := httpserver.New(cfg.Address(), router, logger)

	return Container{
		Database:                     databasePool,
		Server:                       server,
		InitializePersistenceUseCase: initializePersistenceUseCase,
		ReconcilerWorker:             reconcilerWorker,
	}, nil
}
