package estimator

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// Config carries the fee/gas defaulting knobs. Zero values fall back to
// sensible defaults in New.
type Config struct {
	MaxFeeMultiplier   float64
	MinPriorityFeeWei  *big.Int
	GasLimitMultiplier float64
}

// Estimator computes the L1 data-availability cost of a transaction on an
// OP-stack rollup by serializing it with a stub signature and asking the
// chain's gas price oracle. All state is call-scoped; an Estimator is safe
// for concurrent use.
type Estimator struct {
	client ChainClient
	chain  *Chain // optional bound chain; nil means resolve from the network
	cfg    Config

	// oracleOverride pins the oracle address for every request that does
	// not carry its own override.
	oracleOverride *common.Address
}

// SetOracleOverride pins the oracle address ahead of chain-registry
// resolution. Per-request overrides still win.
func (e *Estimator) SetOracleOverride(addr common.Address) {
	e.oracleOverride = &addr
}

func New(client ChainClient, chain *Chain, cfg Config) (*Estimator, error) {
	if client == nil {
		return nil, errors.New("chain client is required")
	}
	if cfg.MaxFeeMultiplier <= 0 {
		cfg.MaxFeeMultiplier = 2.0
	}
	if cfg.GasLimitMultiplier <= 0 {
		cfg.GasLimitMultiplier = 1.0
	}
	return &Estimator{client: client, chain: chain, cfg: cfg}, nil
}

// EstimateL1Gas returns the L1 gas the serialized transaction bytes would
// consume when posted to the data-availability layer.
func (e *Estimator) EstimateL1Gas(ctx context.Context, req *GasEstimateRequest) (*big.Int, error) {
	gas, _, err := e.estimate(ctx, req, methodGetL1GasUsed)
	return gas, err
}

// EstimateL1Fee returns the current L1 data fee in wei for the transaction.
func (e *Estimator) EstimateL1Fee(ctx context.Context, req *GasEstimateRequest) (*big.Int, error) {
	fee, _, err := e.estimate(ctx, req, methodGetL1Fee)
	return fee, err
}

// EstimateTotalGas returns L1 data gas plus the prepared L2 gas limit.
func (e *Estimator) EstimateTotalGas(ctx context.Context, req *GasEstimateRequest) (*big.Int, error) {
	l1Gas, prepared, err := e.estimate(ctx, req, methodGetL1GasUsed)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(l1Gas, new(big.Int).SetUint64(prepared.Gas)), nil
}

// EstimateTotalFee returns the L1 data fee plus the L2 execution fee ceiling
// (gas limit times maxFeePerGas), in wei.
func (e *Estimator) EstimateTotalFee(ctx context.Context, req *GasEstimateRequest) (*big.Int, error) {
	l1Fee, prepared, err := e.estimate(ctx, req, methodGetL1Fee)
	if err != nil {
		return nil, err
	}
	l2Fee := new(big.Int).Mul(new(big.Int).SetUint64(prepared.Gas), prepared.GasFeeCap)
	return new(big.Int).Add(l1Fee, l2Fee), nil
}

// estimate runs the full pipeline: validate, resolve the oracle, prepare the
// transaction and resolve the chain id concurrently, serialize with the stub
// signature, then read the oracle.
func (e *Estimator) estimate(ctx context.Context, req *GasEstimateRequest, method string) (*big.Int, *PreparedTransaction, error) {
	if err := req.validate(); err != nil {
		return nil, nil, err
	}
	oracle, err := e.resolveOracle(req)
	if err != nil {
		return nil, nil, err
	}

	// Preparation and the chain-id lookup are independent network reads;
	// the first failure cancels the other branch.
	var (
		prepared *PreparedTransaction
		chainID  *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prepared, err = e.prepareTransaction(gctx, req)
		return err
	})
	g.Go(func() error {
		var err error
		chainID, err = e.resolveChainID(gctx, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	prepared.ChainID = chainID

	serialized, err := serializeTransaction(prepared, stubSignature())
	if err != nil {
		return nil, nil, err
	}
	result, err := e.readOracle(ctx, oracle, method, serialized)
	if err != nil {
		return nil, nil, err
	}
	return result, prepared, nil
}

// resolveOracle picks the oracle address: explicit override, then the
// chain's registered contract, then the predeploy default when no chain
// context exists at all.
func (e *Estimator) resolveOracle(req *GasEstimateRequest) (common.Address, error) {
	if req.OracleAddress != nil {
		return *req.OracleAddress, nil
	}
	if e.oracleOverride != nil {
		return *e.oracleOverride, nil
	}
	if chain := e.effectiveChain(req); chain != nil {
		return chain.ContractAddress(ContractGasPriceOracle)
	}
	return DefaultGasPriceOracleAddr, nil
}

func (e *Estimator) resolveChainID(ctx context.Context, req *GasEstimateRequest) (*big.Int, error) {
	if chain := e.effectiveChain(req); chain != nil {
		return new(big.Int).SetUint64(chain.ID), nil
	}
	return e.client.ChainID(ctx)
}

func (e *Estimator) effectiveChain(req *GasEstimateRequest) *Chain {
	if req.Chain != nil {
		return req.Chain
	}
	return e.chain
}
