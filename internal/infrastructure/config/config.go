package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort                     = "8080"
	defaultOpenAPISpec              = "api/openapi.yaml"
	defaultShutdownTimeout          = 10 * time.Second
	defaultDBReadinessTimeout       = 30 * time.Second
	defaultDBReadinessRetryInterval = 2 * time.Second
	defaultMigrationsPath           = "db/migrations"

	defaultDecodeAPIURL = "https://zanowordpressplugin.com"
	defaultPriceAPIURL  = "https://api.mexc.com/api/v3/ticker/price?symbol=ZANOUSDT"

	defaultRequiredConfirmations   = 10
	defaultPaymentTimeoutSeconds   = 1200
	defaultPriceBufferPercent      = "1"
	defaultBlocksLimit             = 5
	defaultMaxVerificationAttempts = 3
	defaultReconcilerPollInterval  = 5 * time.Minute
	defaultReconcilerWorkerID      = "reconciler-1"
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

type Config struct {
	Port            string
	OpenAPISpecPath string
	ShutdownTimeout time.Duration

	DatabaseURL              string
	DatabaseTarget           string
	DBReadinessTimeout       time.Duration
	DBReadinessRetryInterval time.Duration
	MigrationsPath           string

	NodeRPCURL    string
	WalletAddress string
	WalletViewKey string
	BlocksLimit   int

	DecodeAPIURL string
	PriceAPIURL  string

	RequiredConfirmations   int64
	PaymentTimeout          time.Duration
	PriceBufferPercent      string
	MaxVerificationAttempts int

	ReconcilerEnabled      bool
	ReconcilerPollInterval time.Duration
	ReconcilerWorkerID     string

	OrderWebhookURL        string
	OrderWebhookHMACSecret string
}

func LoadConfig() (Config, *ConfigError) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, &ConfigError{
			Code:    "config_database_url_required",
			Message: "DATABASE_URL is required",
		}
	}

	databaseTarget, parseErr := parseDatabaseTarget(databaseURL)
	if parseErr != nil {
		return Config{}, parseErr
	}

	nodeRPCURL := strings.TrimSpace(os.Getenv("NODE_RPC_URL"))
	if nodeRPCURL == "" {
		return Config{}, &ConfigError{
			Code:    "config_node_rpc_url_required",
			Message: "NODE_RPC_URL is required",
		}
	}

	walletAddress := strings.TrimSpace(os.Getenv("WALLET_ADDRESS"))
	if walletAddress == "" {
		return Config{}, &ConfigError{
			Code:    "config_wallet_address_required",
			Message: "WALLET_ADDRESS is required",
		}
	}

	walletViewKey := strings.TrimSpace(os.Getenv("WALLET_VIEW_KEY"))
	if walletViewKey == "" {
		return Config{}, &ConfigError{
			Code:    "config_wallet_view_key_required",
			Message: "WALLET_VIEW_KEY is required",
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	openAPISpecPath := os.Getenv("OPENAPI_SPEC_PATH")
	if openAPISpecPath == "" {
		openAPISpecPath = defaultOpenAPISpec
	}

	migrationsPath := strings.TrimSpace(os.Getenv("MIGRATIONS_PATH"))
	if migrationsPath == "" {
		migrationsPath = defaultMigrationsPath
	}

	decodeAPIURL := strings.TrimSpace(os.Getenv("DECODE_API_URL"))
	if decodeAPIURL == "" {
		decodeAPIURL = defaultDecodeAPIURL
	}

	priceAPIURL := strings.TrimSpace(os.Getenv("PRICE_API_URL"))
	if priceAPIURL == "" {
		priceAPIURL = defaultPriceAPIURL
	}

	requiredConfirmations, confErr := parsePositiveInt64("REQUIRED_CONFIRMATIONS", defaultRequiredConfirmations)
	if confErr != nil {
		return Config{}, confErr
	}

	paymentTimeoutSeconds, timeoutErr := parsePositiveInt64("PAYMENT_TIMEOUT_SECONDS", defaultPaymentTimeoutSeconds)
	if timeoutErr != nil {
		return Config{}, timeoutErr
	}

	priceBufferPercent := strings.TrimSpace(os.Getenv("PRICE_BUFFER_PERCENT"))
	if priceBufferPercent == "" {
		priceBufferPercent = defaultPriceBufferPercent
	}
	if _, err := strconv.ParseFloat(priceBufferPercent, 64); err != nil {
		return Config{}, &ConfigError{
			Code:    "config_price_buffer_invalid",
			Message: "PRICE_BUFFER_PERCENT must be numeric",
		}
	}

	blocksLimit, blocksErr := parsePositiveInt64("BLOCKS_LIMIT", defaultBlocksLimit)
	if blocksErr != nil {
		return Config{}, blocksErr
	}

	maxAttempts, attemptsErr := parsePositiveInt64("MAX_VERIFICATION_ATTEMPTS", defaultMaxVerificationAttempts)
	if attemptsErr != nil {
		return Config{}, attemptsErr
	}

	reconcilerEnabled := true
	rawEnabled := strings.TrimSpace(os.Getenv("RECONCILER_ENABLED"))
	if rawEnabled != "" {
		parsedEnabled, err := strconv.ParseBool(rawEnabled)
		if err != nil {
			return Config{}, &ConfigError{
				Code:    "config_reconciler_enabled_invalid",
				Message: "RECONCILER_ENABLED must be a boolean",
			}
		}
		reconcilerEnabled = parsedEnabled
	}

	pollInterval := defaultReconcilerPollInterval
	rawPollInterval := strings.TrimSpace(os.Getenv("RECONCILER_POLL_INTERVAL"))
	if rawPollInterval != "" {
		parsedInterval, err := time.ParseDuration(rawPollInterval)
		if err != nil || parsedInterval <= 0 {
			return Config{}, &ConfigError{
				Code:    "config_reconciler_poll_interval_invalid",
				Message: "RECONCILER_POLL_INTERVAL must be a positive duration",
			}
		}
		pollInterval = parsedInterval
	}

	workerID := strings.TrimSpace(os.Getenv("RECONCILER_WORKER_ID"))
	if workerID == "" {
		if hostname, err := os.Hostname(); err == nil && hostname != "" {
			workerID = hostname
		} else {
			workerID = defaultReconcilerWorkerID
		}
	}

	return Config{
		Port:                     port,
		OpenAPISpecPath:          openAPISpecPath,
		ShutdownTimeout:          defaultShutdownTimeout,
		DatabaseURL:              databaseURL,
		DatabaseTarget:           databaseTarget,
		DBReadinessTimeout:       defaultDBReadinessTimeout,
		DBReadinessRetryInterval: defaultDBReadinessRetryInterval,
		MigrationsPath:           migrationsPath,
		NodeRPCURL:               nodeRPCURL,
		WalletAddress:            walletAddress,
		WalletViewKey:            walletViewKey,
		BlocksLimit:              int(blocksLimit),
		DecodeAPIURL:             decodeAPIURL,
		PriceAPIURL:              priceAPIURL,
		RequiredConfirmations:    requiredConfirmations,
		PaymentTimeout:           time.Duration(paymentTimeoutSeconds) * time.Second,
		PriceBufferPercent:       priceBufferPercent,
		MaxVerificationAttempts:  int(maxAttempts),
		ReconcilerEnabled:        reconcilerEnabled,
		ReconcilerPollInterval:   pollInterval,
		ReconcilerWorkerID:       workerID,
		OrderWebhookURL:          strings.TrimSpace(os.Getenv("ORDER_WEBHOOK_URL")),
		OrderWebhookHMACSecret:   strings.TrimSpace(os.Getenv("ORDER_WEBHOOK_HMAC_SECRET")),
	}, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "config_database_url_invalid",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "config_database_url_scheme_invalid",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "config_database_url_host_missing",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "config_database_name_missing",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}

func parsePositiveInt64(envName string, fallback int64) (int64, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(envName))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:     "config_" + strings.ToLower(envName) + "_invalid",
			Message:  envName + " must be a positive integer",
			Metadata: map[string]string{"value": raw},
		}
	}
	return parsed, nil
}
