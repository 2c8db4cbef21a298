package estimator

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// GasEstimateRequest is a partially specified transaction. The estimator
// fills in everything else required for byte-accurate encoding. The request
// is never mutated.
type GasEstimateRequest struct {
	From  *common.Address
	To    common.Address
	Value *big.Int
	Data  []byte

	// Chain overrides the estimator's bound chain for this call.
	Chain *Chain
	// OracleAddress overrides oracle resolution entirely.
	OracleAddress *common.Address

	// Optional overrides. Zero/nil values are populated from the network.
	Nonce                *uint64
	GasLimit             uint64
	GasPrice             *big.Int // legacy; contradicts the fee-market fields
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

func (r *GasEstimateRequest) validate() error {
	if r == nil {
		return &InvalidRequestError{Reason: "request is nil"}
	}
	if r.To == (common.Address{}) {
		return &InvalidRequestError{Reason: "recipient is required"}
	}
	if r.GasPrice != nil && (r.MaxFeePerGas != nil || r.MaxPriorityFeePerGas != nil) {
		return &InvalidRequestError{Reason: "gasPrice cannot be combined with maxFeePerGas or maxPriorityFeePerGas"}
	}
	for _, f := range []struct {
		name  string
		value *big.Int
	}{
		{"value", r.Value},
		{"gasPrice", r.GasPrice},
		{"maxFeePerGas", r.MaxFeePerGas},
		{"maxPriorityFeePerGas", r.MaxPriorityFeePerGas},
	} {
		if f.value != nil && f.value.Sign() < 0 {
			return &InvalidRequestError{Reason: f.name + " must be non-negative"}
		}
	}
	if r.MaxFeePerGas != nil && r.MaxPriorityFeePerGas != nil &&
		r.MaxPriorityFeePerGas.Cmp(r.MaxFeePerGas) > 0 {
		return &InvalidRequestError{Reason: "maxPriorityFeePerGas exceeds maxFeePerGas"}
	}
	return nil
}

func (r *GasEstimateRequest) from() common.Address {
	if r.From != nil {
		return *r.From
	}
	return common.Address{}
}
