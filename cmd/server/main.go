package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"l1gauge/internal/api"
	"l1gauge/internal/config"
	"l1gauge/internal/estimator"
	"l1gauge/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rpcClient *rpc.Client
	dialCtx, cancel := context.WithTimeout(ctx, cfg.Startup.DialTimeout.Duration)
	err = util.Retry(dialCtx, cfg.Startup.RetryMax, cfg.Startup.RetryBackoff.Duration, func() error {
		var dialErr error
		rpcClient, dialErr = rpc.DialContext(dialCtx, cfg.RPC.HTTP)
		return dialErr
	})
	cancel()
	if err != nil {
		logger.Error("rpc dial failed", "url", cfg.RPC.HTTP, "error", err)
		os.Exit(1)
	}
	defer rpcClient.Close()
	rpcClient.SetHeader("User-Agent", "l1gauge-api")
	ethClient := ethclient.NewClient(rpcClient)
	defer ethClient.Close()

	est, err := estimator.NewFromConfig(ethClient, cfg)
	if err != nil {
		logger.Error("estimator init failed", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(cfg, logger, est)

	logger.Info("api starting", "listen", cfg.API.Listen, "chain", cfg.Chain, "chain_id", cfg.ChainID)
	if err := server.Start(ctx); err != nil && err.Error() != "http: Server closed" {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}
}
