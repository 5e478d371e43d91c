package chain

import "errors"

var (
	// ErrNotFound is returned when a block index is outside the chain bounds.
	ErrNotFound = errors.New("block not found")

	// ErrMiningExhausted is returned when the nonce search hit the configured
	// ceiling without satisfying the difficulty predicate. The chain is left
	// untouched.
	ErrMiningExhausted = errors.New("mining exhausted: nonce ceiling reached")
)
