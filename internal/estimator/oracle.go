package estimator

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const (
	methodGetL1GasUsed = "getL1GasUsed"
	methodGetL1Fee     = "getL1Fee"
)

const gasPriceOracleABI = `[
	{"inputs":[{"internalType":"bytes","name":"_data","type":"bytes"}],"name":"getL1Fee","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"bytes","name":"_data","type":"bytes"}],"name":"getL1GasUsed","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var oracleABI = mustParseABI(gasPriceOracleABI)

func mustParseABI(src string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	return parsed
}

// readOracle invokes a read-only oracle method with the serialized
// transaction as its sole argument and decodes the uint256 result. Failures
// surface unchanged; there is no retry here.
func (e *Estimator) readOracle(ctx context.Context, oracle common.Address, method string, serialized []byte) (*big.Int, error) {
	input, err := oracleABI.Pack(method, serialized)
	if err != nil {
		return nil, fmt.Errorf("pack %s call: %w", method, err)
	}
	out, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &oracle, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, oracle.Hex(), err)
	}
	results, err := oracleABI.Unpack(method, out)
	if err != nil {
		return nil, &DecodingError{Method: method, Err: err}
	}
	gas, ok := results[0].(*big.Int)
	if !ok {
		return nil, &DecodingError{Method: method, Err: fmt.Errorf("unexpected result type %T", results[0])}
	}
	return gas, nil
}
