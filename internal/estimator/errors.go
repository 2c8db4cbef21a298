package estimator

import "fmt"

// UnknownContractError is returned when a chain has no registered address for
// a contract the pipeline needs.
type UnknownContractError struct {
	Contract string
	ChainID  uint64
}

func (e *UnknownContractError) Error() string {
	if e == nil {
		return "unknown contract"
	}
	return fmt.Sprintf("no %q contract registered for chain %d", e.Contract, e.ChainID)
}

// InvalidRequestError is returned when caller-supplied transaction fields are
// contradictory or malformed. It is always raised before any network query.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	if e == nil {
		return "invalid request"
	}
	return "invalid request: " + e.Reason
}

// SerializeTransactionError is returned when a prepared transaction is missing
// a field the canonical encoding requires, or a field is outside its
// representable range.
type SerializeTransactionError struct {
	Field  string
	Reason string
}

func (e *SerializeTransactionError) Error() string {
	if e == nil {
		return "serialize transaction failed"
	}
	return fmt.Sprintf("serialize transaction: field %s %s", e.Field, e.Reason)
}

// DecodingError is returned when the oracle's response bytes could not be
// decoded to the expected type.
type DecodingError struct {
	Method string
	Err    error
}

func (e *DecodingError) Error() string {
	if e == nil || e.Err == nil {
		return "decode oracle response failed"
	}
	return "decode " + e.Method + " response: " + e.Err.Error()
}

func (e *DecodingError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
