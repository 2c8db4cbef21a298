package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"l1gauge/internal/config"
	"l1gauge/internal/estimator"
)

// Exercises every estimate operation once against the configured RPC. Meant
// as a deploy-time check, not a test.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	to := flag.String("to", "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "recipient for the probe transaction")
	valueWei := flag.String("value-wei", "1000000000000000", "probe value in wei")
	timeout := flag.Duration("timeout", 30*time.Second, "per-operation timeout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	rpcClient, err := rpc.DialContext(ctx, cfg.RPC.HTTP)
	if err != nil {
		logger.Error("rpc dial failed", "url", cfg.RPC.HTTP, "error", err)
		os.Exit(1)
	}
	defer rpcClient.Close()
	rpcClient.SetHeader("User-Agent", "l1gauge-smoke")
	ethClient := ethclient.NewClient(rpcClient)
	defer ethClient.Close()

	est, err := estimator.NewFromConfig(ethClient, cfg)
	if err != nil {
		logger.Error("estimator init failed", "error", err)
		os.Exit(1)
	}

	if !common.IsHexAddress(*to) {
		logger.Error("invalid to address", "to", *to)
		os.Exit(1)
	}
	value, err := estimator.ParseBig(*valueWei)
	if err != nil {
		logger.Error("invalid value", "value", *valueWei, "error", err)
		os.Exit(1)
	}
	req := &estimator.GasEstimateRequest{
		To:    common.HexToAddress(*to),
		Value: value,
	}

	ops := []struct {
		name string
		fn   func(context.Context, *estimator.GasEstimateRequest) (*big.Int, error)
	}{
		{"l1-gas", est.EstimateL1Gas},
		{"l1-fee", est.EstimateL1Fee},
		{"total-gas", est.EstimateTotalGas},
		{"total-fee", est.EstimateTotalFee},
	}

	failed := false
	for _, op := range ops {
		opCtx, cancel := context.WithTimeout(ctx, *timeout)
		started := time.Now()
		result, err := op.fn(opCtx, req)
		cancel()
		if err != nil {
			logger.Error("smoke op failed", "op", op.name, "error", err)
			failed = true
			continue
		}
		logger.Info("smoke op ok", "op", op.name, "result", result.String(), "elapsed", time.Since(started))
	}
	if failed {
		os.Exit(1)
	}
	logger.Info("smoke check passed", "chain", cfg.Chain, "chain_id", cfg.ChainID)
}
