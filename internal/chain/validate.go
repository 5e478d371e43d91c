package chain

import (
	"context"
	"fmt"
)

// InvalidReason identifies which chain invariant a block broke.
type InvalidReason string

const (
	ReasonIndexMismatch  InvalidReason = "index_mismatch"
	ReasonBrokenLinkage  InvalidReason = "broken_linkage"
	ReasonBadProofOfWork InvalidReason = "bad_proof_of_work"
)

// ValidationResult is the outcome of a full chain validation. Corruption is
// reported as a value, not an error: AtIndex and Reason identify the first
// failing block.
type ValidationResult struct {
	Valid   bool          `json:"valid"`
	Length  uint64        `json:"length"`
	AtIndex uint64        `json:"at_index,omitempty"`
	Reason  InvalidReason `json:"reason,omitempty"`
}

func (r ValidationResult) String() string {
	if r.Valid {
		return fmt.Sprintf("chain valid (%d blocks)", r.Length)
	}
	return fmt.Sprintf("chain invalid at block %d: %s", r.AtIndex, r.Reason)
}

// Validate re-walks the whole chain from genesis to tail, recomputing every
// hash and checking index contiguity, hash linkage and proof-of-work
// validity. The chain is not mutated.
func (l *Ledger) Validate(ctx context.Context) (ValidationResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	blocks, err := l.store.List(ctx)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("failed to list blocks: %w", err)
	}

	length := uint64(len(blocks))
	invalid := func(at uint64, reason InvalidReason) ValidationResult {
		return ValidationResult{Length: length, AtIndex: at, Reason: reason}
	}

	for i, b := range blocks {
		pos := uint64(i)
		if b.Index != pos {
			return invalid(pos, ReasonIndexMismatch), nil
		}
		if i > 0 && b.PrevHash != blocks[i-1].Hash {
			return invalid(pos, ReasonBrokenLinkage), nil
		}
		if b.ComputeHash() != b.Hash || !MeetsDifficulty(b.Hash, l.opts.Difficulty) {
			return invalid(pos, ReasonBadProofOfWork), nil
		}
	}

	return ValidationResult{Valid: true, Length: length}, nil
}
