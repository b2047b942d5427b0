package zanod

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"zanopay/internal/application/dto"
	portsout "zanopay/internal/application/ports/out"
	valueobjects "zanopay/internal/domain/value_objects"
	apperrors "zanopay/internal/shared_kernel/errors"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultBlocksLimit = 5
)

type Config struct {
	// RPCURL is the node's /json_rpc endpoint. The height endpoint is
	// derived from it by path substitution.
	RPCURL        string
	WalletAddress string

	// WalletViewKey is sent in full; the node rejects truncated keys with
	// an invalid-params error.
	WalletViewKey string

	BlocksLimit int
	HTTPTimeout time.Duration
}

// Gateway speaks to a Zano node over JSON-RPC plus the plain /getheight
// endpoint. It converts atomic amounts to display units and leaves every
// matching decision to the caller.
type Gateway struct {
	config    Config
	rpcClient *jsonRPCClient
	logger    *log.Logger
}

var _ portsout.ChainGateway = (*Gateway)(nil)

func NewGateway(cfg Config, logger *log.Logger) *Gateway {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.BlocksLimit <= 0 {
		cfg.BlocksLimit = defaultBlocksLimit
	}

	httpClient := &http.Client{}

	return &Gateway{
		config:    cfg,
		rpcClient: newJSONRPCClient(httpClient, cfg.HTTPTimeout),
		logger:    logger,
	}
}

func (g *Gateway) CheckNode(ctx context.Context) *apperrors.AppError {
	_, appErr := g.rpcClient.Call(ctx, g.config.RPCURL, "get_info", nil)
	return appErr
}

type recentOutputsResult struct {
	BlockchainTopBlockHeight int64 `json:"blockchain_top_block_height"`
	Outputs                  []struct {
		TxID          string `json:"tx_id"`
		AssetID       string `json:"asset_id"`
		Amount        uint64 `json:"amount"`
		Value         uint64 `json:"value"`
		TxBlockHeight int64  `json:"tx_block_height"`
	} `json:"outputs"`
}

func (g *Gateway) FindOutsInRecentBlocks(ctx context.Context) (dto.RecentOutputs, *apperrors.AppError) {
	if g.config.WalletAddress == "" || g.config.WalletViewKey == "" {
		return dto.RecentOutputs{}, apperrors.NewInternal(
			"wallet_credentials_missing",
			"wallet address and view key are required",
			nil,
		)
	}

	params := map[string]any{
		"address":      g.config.WalletAddress,
		"viewkey":      g.config.WalletViewKey,
		"blocks_limit": g.config.BlocksLimit,
	}
	raw, appErr := g.rpcClient.Call(ctx, g.config.RPCURL, "find_outs_in_recent_blocks", params)
	if appErr != nil {
		return dto.RecentOutputs{}, appErr
	}

	result := recentOutputsResult{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return dto.RecentOutputs{}, apperrors.NewInternal(
			"chain_rpc_failed",
			"failed to decode recent outputs result",
			map[string]any{"error": err.Error()},
		)
	}

	recent := dto.RecentOutputs{TopBlockHeight: result.BlockchainTopBlockHeight}
	for _, output := range result.Outputs {
		if output.TxID == "" {
			continue
		}

		assetID := output.AssetID
		if assetID == "" {
			assetID = valueobjects.ZanoAssetID
		}
		// Unknown asset ids keep the native-coin divisor so the raw amount
		// still surfaces in logs; the reported asset id is preserved and the
		// caller rejects the output on it.
		asset := valueobjects.AssetZano
		if known, lookupErr := valueobjects.AssetByID(assetID); lookupErr == nil {
			asset = known
		}

		atomic := output.Amount
		if atomic == 0 {
			atomic = output.Value
		}

		blockHeight := output.TxBlockHeight
		if blockHeight <= 0 {
			blockHeight = -1
		}

		confirmations := int64(0)
		if blockHeight > 0 && recent.TopBlockHeight > 0 {
			confirmations = recent.TopBlockHeight - blockHeight
			if confirmations < 0 {
				confirmations = 0
			}
		}

		recent.Outputs = append(recent.Outputs, dto.ChainOutput{
			TxHash:        output.TxID,
			AssetID:       assetID,
			AssetSymbol:   asset.Symbol,
			Amount:        asset.FromAtomic(atomic),
			BlockHeight:   blockHeight,
			Confirmations: confirmations,
		})
	}

	g.logf("recent outputs fetched count=%d top_height=%d", len(recent.Outputs), recent.TopBlockHeight)
	return recent, nil
}

type txDetailsResult struct {
	TxInfo struct {
		KeeperBlock *int64 `json:"keeper_block"`
	} `json:"tx_info"`
}

func (g *Gateway) GetTxKeeperBlock(ctx context.Context, txHash string) (int64, *apperrors.AppError) {
	raw, appErr := g.rpcClient.Call(ctx, g.config.RPCURL, "get_tx_details", map[string]any{"tx_hash": txHash})
	if appErr != nil {
		return -1, appErr
	}

	result := txDetailsResult{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return -1, apperrors.NewInternal(
			"chain_rpc_failed",
			"failed to decode tx details result",
			map[string]any{"error": err.Error(), "tx_hash": txHash},
		)
	}
	if result.TxInfo.KeeperBlock == nil {
		return -1, nil
	}
	return *result.TxInfo.KeeperBlock, nil
}

type heightResponse struct {
	Height int64  `json:"height"`
	Status string `json:"status"`
}

func (g *Gateway) GetCurrentHeight(ctx context.Context) (int64, *apperrors.AppError) {
	heightURL := strings.Replace(g.config.RPCURL, "/json_rpc", "/getheight", 1)

	requestCtx, cancel := context.WithTimeout(ctx, g.config.HTTPTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, heightURL, nil)
	if err != nil {
		return 0, apperrors.NewInternal(
			"chain_rpc_failed",
			"failed to build height request",
			map[string]any{"error": err.Error()},
		)
	}

	response, err := g.rpcClient.httpClient.Do(request)
	if err != nil {
		return 0, apperrors.NewInternal(
			"chain_rpc_failed",
			"failed to call height endpoint",
			map[string]any{"error": err.Error()},
		)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return 0, apperrors.NewInternal(
			"chain_rpc_failed",
			"height endpoint returned non-200 status",
			map[string]any{"status_code": response.StatusCode},
		)
	}

	decoded := heightResponse{}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return 0, apperrors.NewInternal(
			"chain_rpc_failed",
			"failed to decode height response",
			map[string]any{"error": err.Error()},
		)
	}
	if decoded.Height <= 0 {
		return 0, apperrors.NewInternal(
			"chain_rpc_failed",
			"height endpoint returned no height",
			map[string]any{"status": decoded.Status},
		)
	}
	return decoded.Height, nil
}

type integratedAddressResult struct {
	IntegratedAddress string `json:"integrated_address"`
}

func (g *Gateway) DeriveIntegratedAddress(ctx context.Context, paymentIdentifier string) (string, *apperrors.AppError) {
	if g.config.WalletAddress == "" {
		return "", apperrors.NewInternal(
			"wallet_credentials_missing",
			"wallet address is required",
			nil,
		)
	}

	params := map[string]any{
		"regular_address": g.config.WalletAddress,
		"payment_id":      paymentIdentifier,
	}
	raw, appErr := g.rpcClient.Call(ctx, g.config.RPCURL, "get_integrated_address", params)
	if appErr != nil {
		return "", appErr
	}

	result := integratedAddressResult{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", apperrors.NewInternal(
			"chain_rpc_failed",
			"failed to decode integrated address result",
			map[string]any{"error": err.Error()},
		)
	}
	if result.IntegratedAddress == "" {
		return "", apperrors.NewInternal(
			"integrated_address_missing",
			"node returned no integrated address",
			map[string]any{"payment_identifier": paymentIdentifier},
		)
	}
	return result.IntegratedAddress, nil
}

func (g *Gateway) logf(format string, args ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Printf(format, args...)
}
