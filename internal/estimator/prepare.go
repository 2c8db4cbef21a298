package estimator

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PreparedTransaction carries every field the canonical encoding requires.
// ChainID is populated by the orchestrator after the concurrent chain-id
// lookup joins; everything else is filled by prepareTransaction.
type PreparedTransaction struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int
	GasFeeCap  *big.Int
	Gas        uint64
	To         *common.Address
	Value      *big.Int
	Data       []byte
	AccessList types.AccessList
}

type FeeParams struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// prepareTransaction fills in nonce, fee fields and gas limit from network
// state, honoring any overrides the request carries. The request must already
// be validated.
func (e *Estimator) prepareTransaction(ctx context.Context, req *GasEstimateRequest) (*PreparedTransaction, error) {
	from := req.from()
	to := req.To

	value := big.NewInt(0)
	if req.Value != nil {
		value = new(big.Int).Set(req.Value)
	}

	nonce, err := e.resolveNonce(ctx, req, from)
	if err != nil {
		return nil, err
	}

	fees, err := e.resolveFees(ctx, req)
	if err != nil {
		return nil, err
	}

	gas := req.GasLimit
	if gas == 0 {
		gas, err = e.client.EstimateGas(ctx, ethereum.CallMsg{
			From:      from,
			To:        &to,
			Value:     value,
			Data:      req.Data,
			GasFeeCap: fees.MaxFeePerGas,
			GasTipCap: fees.MaxPriorityFeePerGas,
		})
		if err != nil {
			return nil, err
		}
		gas = applyGasMultiplier(gas, e.cfg.GasLimitMultiplier)
	}

	return &PreparedTransaction{
		Nonce:     nonce,
		GasTipCap: fees.MaxPriorityFeePerGas,
		GasFeeCap: fees.MaxFeePerGas,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      req.Data,
	}, nil
}

func (e *Estimator) resolveNonce(ctx context.Context, req *GasEstimateRequest, from common.Address) (uint64, error) {
	if req.Nonce != nil {
		return *req.Nonce, nil
	}
	return e.client.PendingNonceAt(ctx, from)
}

func (e *Estimator) resolveFees(ctx context.Context, req *GasEstimateRequest) (FeeParams, error) {
	// A legacy gas price is carried over to both fee-market fields so the
	// encoded transaction stays in the dynamic-fee format the oracle prices.
	if req.GasPrice != nil {
		return FeeParams{
			MaxFeePerGas:         new(big.Int).Set(req.GasPrice),
			MaxPriorityFeePerGas: new(big.Int).Set(req.GasPrice),
		}, nil
	}
	if req.MaxFeePerGas != nil && req.MaxPriorityFeePerGas != nil {
		return FeeParams{
			MaxFeePerGas:         new(big.Int).Set(req.MaxFeePerGas),
			MaxPriorityFeePerGas: new(big.Int).Set(req.MaxPriorityFeePerGas),
		}, nil
	}
	suggested, err := e.suggestFees(ctx)
	if err != nil {
		return FeeParams{}, err
	}
	if req.MaxFeePerGas != nil {
		suggested.MaxFeePerGas = new(big.Int).Set(req.MaxFeePerGas)
		if suggested.MaxPriorityFeePerGas.Cmp(suggested.MaxFeePerGas) > 0 {
			suggested.MaxPriorityFeePerGas = new(big.Int).Set(suggested.MaxFeePerGas)
		}
	}
	if req.MaxPriorityFeePerGas != nil {
		suggested.MaxPriorityFeePerGas = new(big.Int).Set(req.MaxPriorityFeePerGas)
		if suggested.MaxFeePerGas.Cmp(suggested.MaxPriorityFeePerGas) < 0 {
			suggested.MaxFeePerGas = new(big.Int).Set(suggested.MaxPriorityFeePerGas)
		}
	}
	return suggested, nil
}

// suggestFees derives fee-market defaults from the head block's base fee and
// the node's tip suggestion.
func (e *Estimator) suggestFees(ctx context.Context) (FeeParams, error) {
	baseFee, err := e.fetchBaseFee(ctx)
	if err != nil {
		return FeeParams{}, err
	}
	tip, err := e.client.SuggestGasTipCap(ctx)
	if err != nil {
		return FeeParams{}, err
	}
	if e.cfg.MinPriorityFeeWei != nil && tip.Cmp(e.cfg.MinPriorityFeeWei) < 0 {
		tip = new(big.Int).Set(e.cfg.MinPriorityFeeWei)
	}
	maxFee := new(big.Int).Add(mulFloat(baseFee, e.cfg.MaxFeeMultiplier), tip)
	return FeeParams{
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: tip,
	}, nil
}

func (e *Estimator) fetchBaseFee(ctx context.Context) (*big.Int, error) {
	header, err := e.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}
	if header.BaseFee != nil {
		return new(big.Int).Set(header.BaseFee), nil
	}
	// Fallback for non-EIP-1559 chains: approximate using gas price.
	return e.client.SuggestGasPrice(ctx)
}

func mulFloat(v *big.Int, f float64) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	if f == 1.0 {
		return new(big.Int).Set(v)
	}
	r := new(big.Rat).SetInt(v)
	r.Mul(r, new(big.Rat).SetFloat64(f))
	out := new(big.Int)
	out.Div(r.Num(), r.Denom())
	return out
}

func applyGasMultiplier(gas uint64, mult float64) uint64 {
	if mult <= 0 || mult == 1.0 {
		return gas
	}
	adjusted := uint64(float64(gas) * mult)
	if adjusted < gas {
		return gas
	}
	return adjusted
}

func GweiToWei(gwei float64) (*big.Int, error) {
	if gwei < 0 {
		return nil, errors.New("gwei must be non-negative")
	}
	v := new(big.Rat).SetFloat64(gwei)
	v.Mul(v, new(big.Rat).SetInt(big.NewInt(1_000_000_000)))
	out := new(big.Int)
	out.Div(v.Num(), v.Denom())
	return out, nil
}
