package estimator

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// dynamicFeePayload is the canonical EIP-1559 field order. It must stay
// byte-compatible with types.DynamicFeeTx's encoding.
type dynamicFeePayload struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int
	GasFeeCap  *big.Int
	Gas        uint64
	To         *common.Address `rlp:"nil"`
	Value      *big.Int
	Data       []byte
	AccessList types.AccessList
	V          *big.Int
	R          *big.Int
	S          *big.Int
}

// serializeTransaction encodes the prepared transaction plus a signature
// triple exactly as it would appear on chain: the dynamic-fee type tag
// followed by the RLP field list. Identical inputs always yield identical
// bytes.
func serializeTransaction(tx *PreparedTransaction, sig StubSignature) ([]byte, error) {
	if err := checkSerializable(tx, sig); err != nil {
		return nil, err
	}
	yParity, err := normalizeV(sig.V)
	if err != nil {
		return nil, err
	}
	payload := &dynamicFeePayload{
		ChainID:    tx.ChainID,
		Nonce:      tx.Nonce,
		GasTipCap:  tx.GasTipCap,
		GasFeeCap:  tx.GasFeeCap,
		Gas:        tx.Gas,
		To:         tx.To,
		Value:      tx.Value,
		Data:       tx.Data,
		AccessList: tx.AccessList,
		V:          new(big.Int).SetUint64(yParity),
		R:          sig.R,
		S:          sig.S,
	}
	enc, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return nil, &SerializeTransactionError{Field: "payload", Reason: err.Error()}
	}
	out := make([]byte, 0, len(enc)+1)
	out = append(out, types.DynamicFeeTxType)
	return append(out, enc...), nil
}

func checkSerializable(tx *PreparedTransaction, sig StubSignature) error {
	if tx == nil {
		return &SerializeTransactionError{Field: "transaction", Reason: "is missing"}
	}
	for _, f := range []struct {
		name  string
		value *big.Int
	}{
		{"chainId", tx.ChainID},
		{"maxPriorityFeePerGas", tx.GasTipCap},
		{"maxFeePerGas", tx.GasFeeCap},
		{"value", tx.Value},
		{"r", sig.R},
		{"s", sig.S},
	} {
		switch {
		case f.value == nil:
			return &SerializeTransactionError{Field: f.name, Reason: "is missing"}
		case f.value.Sign() < 0:
			return &SerializeTransactionError{Field: f.name, Reason: "is negative"}
		case f.value.BitLen() > 256:
			return &SerializeTransactionError{Field: f.name, Reason: "exceeds 256 bits"}
		}
	}
	if tx.ChainID.Sign() == 0 {
		return &SerializeTransactionError{Field: "chainId", Reason: "is zero"}
	}
	if tx.ChainID.BitLen() > 64 {
		return &SerializeTransactionError{Field: "chainId", Reason: "exceeds 64 bits"}
	}
	if tx.To == nil {
		return &SerializeTransactionError{Field: "to", Reason: "is missing"}
	}
	if tx.Gas == 0 {
		return &SerializeTransactionError{Field: "gasLimit", Reason: "is missing"}
	}
	return nil
}

// normalizeV maps a 27/28 recovery id to the 0/1 parity the typed encoding
// carries.
func normalizeV(v uint64) (uint64, error) {
	switch v {
	case 0, 1:
		return v, nil
	case 27, 28:
		return v - 27, nil
	default:
		return 0, &SerializeTransactionError{Field: "v", Reason: "is not a recovery id"}
	}
}
