package indexing

import "errors"

var (
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrDimensionMismatch = errors.New("index dimension mismatch")
	ErrOrdinalOutOfRange = errors.New("ordinal out of range")
	ErrKeyTooLong        = errors.New("key has more fields than the indexer has dimensions")
	ErrIncompleteKey     = errors.New("key does not cover every dimension")
	ErrNotSingle         = errors.New("key selects more than a single element")
	ErrZeroStep          = errors.New("slice step cannot be zero")
	ErrBadIncrementOrder = errors.New("increment order must be a permutation of the dimensions")
	ErrNoDimensions      = errors.New("at least one dimension is required")
)
