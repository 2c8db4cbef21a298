package estimator

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// StubSignature is a fixed placeholder signature. It is never derived from
// the transaction or a key; it only makes the encoded transaction the same
// byte length a real signed transaction would have.
type StubSignature struct {
	R *big.Int
	S *big.Int
	V uint64
}

// Both scalars are the maximum positive 256-bit signed value, so they always
// encode at full 32-byte width and the estimate never undercounts a shorter
// signature.
var (
	stubSigScalar = hexutil.MustDecodeBig("0x7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")

	stubSigV uint64 = 28
)

func stubSignature() StubSignature {
	return StubSignature{
		R: new(big.Int).Set(stubSigScalar),
		S: new(big.Int).Set(stubSigScalar),
		V: stubSigV,
	}
}
