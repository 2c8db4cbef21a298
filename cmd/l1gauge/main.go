package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"l1gauge/internal/config"
	"l1gauge/internal/estimator"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mode := flag.String("mode", "l1-gas", "l1-gas|l1-fee|total-gas|total-fee")
	to := flag.String("to", "", "recipient address")
	from := flag.String("from", "", "sender address (for nonce/gas estimation)")
	valueEth := flag.String("value-eth", "", "value in ETH (decimal, e.g. 0.01)")
	valueWei := flag.String("value-wei", "", "value in wei (decimal or 0x hex)")
	data := flag.String("data", "", "calldata (0x hex)")
	chainName := flag.String("chain", "", "chain name override (e.g. base, optimism)")
	oracle := flag.String("oracle", "", "gas price oracle address override")

	nonce := flag.Uint64("nonce", 0, "manual nonce")
	nonceSet := flag.Bool("nonce-set", false, "use the manual nonce even if zero")
	gasLimit := flag.Uint64("gas-limit", 0, "manual gas limit")
	maxFeeGwei := flag.Float64("max-fee-gwei", 0, "manual max fee per gas in gwei")
	priorityFeeGwei := flag.Float64("priority-fee-gwei", 0, "manual priority fee in gwei")

	debug := flag.Bool("debug", false, "enable debug logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	ctx := context.Background()

	rpcClient, err := rpc.DialContext(ctx, cfg.RPC.HTTP)
	if err != nil {
		logger.Error("rpc dial failed", "url", cfg.RPC.HTTP, "error", err)
		os.Exit(1)
	}
	defer rpcClient.Close()
	rpcClient.SetHeader("User-Agent", "l1gauge-cli")
	ethClient := ethclient.NewClient(rpcClient)
	defer ethClient.Close()

	est, err := estimator.NewFromConfig(ethClient, cfg)
	if err != nil {
		logger.Error("estimator init failed", "error", err)
		os.Exit(1)
	}

	req, err := buildRequest(*to, *from, *valueEth, *valueWei, *data, *chainName, *oracle,
		*nonce, *nonceSet, *gasLimit, *maxFeeGwei, *priorityFeeGwei)
	if err != nil {
		logger.Error("bad arguments", "error", err)
		os.Exit(1)
	}

	logger.Debug("estimating", "mode", *mode, "to", req.To.Hex(), "data_bytes", len(req.Data))
	result, err := runEstimate(ctx, est, strings.ToLower(strings.TrimSpace(*mode)), req)
	if err != nil {
		logger.Error("estimate failed", "mode", *mode, "error", err)
		os.Exit(1)
	}
	fmt.Println(result.String())
}

func runEstimate(ctx context.Context, est *estimator.Estimator, mode string, req *estimator.GasEstimateRequest) (*big.Int, error) {
	switch mode {
	case "l1-gas":
		return est.EstimateL1Gas(ctx, req)
	case "l1-fee":
		return est.EstimateL1Fee(ctx, req)
	case "total-gas":
		return est.EstimateTotalGas(ctx, req)
	case "total-fee":
		return est.EstimateTotalFee(ctx, req)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func buildRequest(
	to string,
	from string,
	valueEth string,
	valueWei string,
	data string,
	chainName string,
	oracle string,
	nonce uint64,
	nonceSet bool,
	gasLimit uint64,
	maxFeeGwei float64,
	priorityFeeGwei float64,
) (*estimator.GasEstimateRequest, error) {
	toAddr, err := parseAddressRequired("to", to)
	if err != nil {
		return nil, err
	}
	req := &estimator.GasEstimateRequest{To: toAddr, GasLimit: gasLimit}

	if from != "" {
		fromAddr, err := parseAddressRequired("from", from)
		if err != nil {
			return nil, err
		}
		req.From = &fromAddr
	}
	switch {
	case valueEth != "" && valueWei != "":
		return nil, fmt.Errorf("specify value-eth or value-wei, not both")
	case valueEth != "":
		if req.Value, err = estimator.ParseEther(valueEth); err != nil {
			return nil, err
		}
	case valueWei != "":
		if req.Value, err = estimator.ParseBig(valueWei); err != nil {
			return nil, err
		}
	}
	if data != "" {
		if req.Data, err = hexutil.Decode(data); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
	}
	if chainName != "" {
		chain, ok := estimator.ChainByName(chainName)
		if !ok {
			return nil, fmt.Errorf("unknown chain %q", chainName)
		}
		req.Chain = chain
	}
	if oracle != "" {
		oracleAddr, err := parseAddressRequired("oracle", oracle)
		if err != nil {
			return nil, err
		}
		req.OracleAddress = &oracleAddr
	}
	if nonceSet || nonce != 0 {
		n := nonce
		req.Nonce = &n
	}
	if maxFeeGwei > 0 {
		if req.MaxFeePerGas, err = estimator.GweiToWei(maxFeeGwei); err != nil {
			return nil, err
		}
	}
	if priorityFeeGwei > 0 {
		if req.MaxPriorityFeePerGas, err = estimator.GweiToWei(priorityFeeGwei); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func parseAddressRequired(name, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return common.Address{}, fmt.Errorf("%s is required", name)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s address", name)
	}
	return common.HexToAddress(value), nil
}
