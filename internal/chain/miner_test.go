package chain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monochain/monochain/internal/chain"
)

func TestMiningExhausted(t *testing.T) {
	// A ceiling of 10 at difficulty 8 cannot realistically be satisfied.
	_, err := chain.NewBlock(context.Background(), 1, 1700000000, []byte("tx1"), chain.GenesisPrevHash, chain.Options{
		Difficulty:   8,
		NonceCeiling: 10,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, chain.ErrMiningExhausted)
}

func TestMiningCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	// Difficulty 16 is out of reach, so mining only ends via the context.
	_, err := chain.NewBlock(ctx, 1, 1700000000, []byte("tx1"), chain.GenesisPrevHash, chain.Options{Difficulty: 16})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMiningWorkerCounts(t *testing.T) {
	for _, workers := range []int{1, 2, 8} {
		b, err := chain.NewBlock(context.Background(), 1, 1700000000, []byte("tx1"), chain.GenesisPrevHash, chain.Options{
			Difficulty: 2,
			Workers:    workers,
		})
		require.NoError(t, err, "workers=%d", workers)
		assert.True(t, chain.MeetsDifficulty(b.Hash, 2))
		assert.Equal(t, b.ComputeHash(), b.Hash)
	}
}
