package chain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monochain/monochain/internal/chain"
	"github.com/monochain/monochain/internal/store"
)

func newTestLedger(t *testing.T, difficulty int) (*chain.Ledger, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	ledger, err := chain.CreateGenesis(context.Background(), st, chain.Options{Difficulty: difficulty})
	require.NoError(t, err)
	return ledger, st
}

func TestCreateGenesis(t *testing.T) {
	ledger, _ := newTestLedger(t, 2)
	ctx := context.Background()

	length, err := ledger.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, length)

	genesis, err := ledger.GetBlock(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, genesis.Index)
	assert.Equal(t, []byte(chain.GenesisData), genesis.Data)
	assert.Equal(t, chain.GenesisPrevHash, genesis.PrevHash)
	assert.True(t, chain.MeetsDifficulty(genesis.Hash, 2))
	assert.Equal(t, genesis.ComputeHash(), genesis.Hash)
}

func TestCreateGenesisRejectsNonEmptyStore(t *testing.T) {
	_, st := newTestLedger(t, 1)
	_, err := chain.CreateGenesis(context.Background(), st, chain.Options{Difficulty: 1})
	require.Error(t, err)
}

func TestOpenReusesExistingChain(t *testing.T) {
	ledger, st := newTestLedger(t, 1)
	ctx := context.Background()

	_, err := ledger.Append(ctx, []byte("tx1"))
	require.NoError(t, err)

	reopened, err := chain.Open(ctx, st, chain.Options{Difficulty: 1})
	require.NoError(t, err)

	length, err := reopened.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, length)

	result, err := reopened.Validate(ctx)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestAppendEndToEnd(t *testing.T) {
	ledger, _ := newTestLedger(t, 2)
	ctx := context.Background()

	_, err := ledger.Append(ctx, []byte("tx1"))
	require.NoError(t, err)
	_, err = ledger.Append(ctx, []byte("tx2"))
	require.NoError(t, err)

	blocks, err := ledger.ListBlocks(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	for i, b := range blocks {
		assert.EqualValues(t, i, b.Index)
		assert.True(t, chain.MeetsDifficulty(b.Hash, 2))
		assert.Equal(t, b.ComputeHash(), b.Hash)
		if i > 0 {
			assert.Equal(t, blocks[i-1].Hash, b.PrevHash)
			assert.GreaterOrEqual(t, b.Timestamp, blocks[i-1].Timestamp)
		}
	}

	result, err := ledger.Validate(ctx)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.EqualValues(t, 3, result.Length)
}

func TestAppendAtomicity(t *testing.T) {
	ledger, st := newTestLedger(t, 1)
	ctx := context.Background()

	_, err := ledger.Append(ctx, []byte("tx1"))
	require.NoError(t, err)

	tailBefore, err := st.Tail(ctx)
	require.NoError(t, err)

	// Reopen the same store with an unreachable difficulty and a tiny nonce
	// ceiling so the next append must fail.
	stuck, err := chain.Open(ctx, st, chain.Options{Difficulty: 8, NonceCeiling: 5})
	require.NoError(t, err)

	_, err = stuck.Append(ctx, []byte("tx2"))
	require.ErrorIs(t, err, chain.ErrMiningExhausted)

	length, err := st.Len(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, length)

	tailAfter, err := st.Tail(ctx)
	require.NoError(t, err)
	assert.Equal(t, tailBefore, tailAfter)
}

func TestGetBlockBounds(t *testing.T) {
	ledger, _ := newTestLedger(t, 1)
	ctx := context.Background()

	_, err := ledger.Append(ctx, []byte("tx1"))
	require.NoError(t, err)

	_, err = ledger.GetBlock(ctx, -1)
	assert.ErrorIs(t, err, chain.ErrNotFound)

	_, err = ledger.GetBlock(ctx, 2)
	assert.ErrorIs(t, err, chain.ErrNotFound)

	for i := int64(0); i < 2; i++ {
		b, err := ledger.GetBlock(ctx, i)
		require.NoError(t, err)
		assert.EqualValues(t, i, b.Index)
	}
}

func TestListBlocksSnapshot(t *testing.T) {
	ledger, _ := newTestLedger(t, 1)
	ctx := context.Background()

	_, err := ledger.Append(ctx, []byte("tx1"))
	require.NoError(t, err)

	blocks, err := ledger.ListBlocks(ctx)
	require.NoError(t, err)
	blocks[1].Data[0] = 'X'
	blocks[1].Hash = "tampered"

	fresh, err := ledger.GetBlock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("tx1"), fresh.Data)
	assert.Equal(t, fresh.ComputeHash(), fresh.Hash)
}

func TestPreviewMineDoesNotMutate(t *testing.T) {
	ledger, _ := newTestLedger(t, 1)
	ctx := context.Background()

	tailBefore, err := ledger.GetBlock(ctx, 0)
	require.NoError(t, err)

	first, err := ledger.PreviewMine(ctx, []byte("candidate"))
	require.NoError(t, err)
	second, err := ledger.PreviewMine(ctx, []byte("candidate"))
	require.NoError(t, err)

	for _, b := range []*chain.Block{first, second} {
		assert.EqualValues(t, 1, b.Index)
		assert.Equal(t, tailBefore.Hash, b.PrevHash)
		assert.True(t, chain.MeetsDifficulty(b.Hash, 1))
		assert.Equal(t, b.ComputeHash(), b.Hash)
	}

	length, err := ledger.Length(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, length)

	tailAfter, err := ledger.GetBlock(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, tailBefore, tailAfter)
}

// rebuildTampered copies the ledger's blocks into a fresh store, applies
// tamper to the copy, and reopens a ledger over it.
func rebuildTampered(t *testing.T, ledger *chain.Ledger, difficulty int, tamper func(blocks []*chain.Block)) *chain.Ledger {
	t.Helper()
	ctx := context.Background()

	blocks, err := ledger.ListBlocks(ctx)
	require.NoError(t, err)
	tamper(blocks)

	st := store.NewMemory()
	for _, b := range blocks {
		require.NoError(t, st.Append(ctx, b))
	}

	tampered, err := chain.Open(ctx, st, chain.Options{Difficulty: difficulty})
	require.NoError(t, err)
	return tampered
}

func TestValidateDetectsTampering(t *testing.T) {
	ledger, _ := newTestLedger(t, 1)
	ctx := context.Background()

	_, err := ledger.Append(ctx, []byte("tx1"))
	require.NoError(t, err)
	_, err = ledger.Append(ctx, []byte("tx2"))
	require.NoError(t, err)

	t.Run("TamperedData", func(t *testing.T) {
		tampered := rebuildTampered(t, ledger, 1, func(blocks []*chain.Block) {
			blocks[1].Data[0] ^= 0x01
		})
		result, err := tampered.Validate(ctx)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.EqualValues(t, 1, result.AtIndex)
		assert.Equal(t, chain.ReasonBadProofOfWork, result.Reason)
	})

	t.Run("BrokenLinkage", func(t *testing.T) {
		tampered := rebuildTampered(t, ledger, 1, func(blocks []*chain.Block) {
			blocks[2].PrevHash = chain.GenesisPrevHash
		})
		result, err := tampered.Validate(ctx)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.EqualValues(t, 2, result.AtIndex)
		assert.Equal(t, chain.ReasonBrokenLinkage, result.Reason)
	})

	t.Run("InsufficientDifficulty", func(t *testing.T) {
		// The chain was mined at difficulty 1; validating at a stricter
		// difficulty flags the first block that misses it.
		blocks, err := ledger.ListBlocks(ctx)
		require.NoError(t, err)

		st := store.NewMemory()
		for _, b := range blocks {
			require.NoError(t, st.Append(ctx, b))
		}
		strict, err := chain.Open(ctx, st, chain.Options{Difficulty: 12})
		require.NoError(t, err)

		result, err := strict.Validate(ctx)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, chain.ReasonBadProofOfWork, result.Reason)
	})
}
