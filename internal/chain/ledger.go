package chain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/monochain/monochain/internal/metrics"
)

// Store is an ordered, append-only sequence of blocks. Implementations must
// return copies the caller can mutate freely and must reject appends that
// would break index contiguity.
type Store interface {
	Append(ctx context.Context, b *Block) error
	Get(ctx context.Context, index uint64) (*Block, error)
	List(ctx context.Context) ([]*Block, error)
	Len(ctx context.Context) (uint64, error)
	Tail(ctx context.Context) (*Block, error)
	Close() error
}

// Ledger is the single authority over a chain of blocks. It owns genesis
// creation, mining, appends and validation. Appends hold the write lock for
// the whole mine-and-append, so concurrent writers are serialized and reads
// always observe a consistent chain.
type Ledger struct {
	mu    sync.RWMutex
	store Store
	miner *miner
	opts  Options
}

// CreateGenesis creates a ledger over an empty store by mining and appending
// the genesis block under the configured difficulty.
func CreateGenesis(ctx context.Context, st Store, opts Options) (*Ledger, error) {
	opts = opts.withDefaults()
	l := &Ledger{store: st, miner: newMiner(opts), opts: opts}

	n, err := st.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain length: %w", err)
	}
	if n != 0 {
		return nil, fmt.Errorf("store already holds %d blocks", n)
	}

	genesis, err := l.miner.mine(ctx, 0, time.Now().UnixNano(), []byte(GenesisData), GenesisPrevHash)
	if err != nil {
		return nil, fmt.Errorf("failed to mine genesis block: %w", err)
	}
	if err := st.Append(ctx, genesis); err != nil {
		return nil, fmt.Errorf("failed to append genesis block: %w", err)
	}

	slog.Debug("Genesis block created", "hash", genesis.Hash, "nonce", genesis.Nonce)
	return l, nil
}

// Open attaches a ledger to a store, creating the genesis block when the
// store is empty.
func Open(ctx context.Context, st Store, opts Options) (*Ledger, error) {
	opts = opts.withDefaults()

	n, err := st.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain length: %w", err)
	}
	if n == 0 {
		return CreateGenesis(ctx, st, opts)
	}
	return &Ledger{store: st, miner: newMiner(opts), opts: opts}, nil
}

// Difficulty returns the number of leading zero hex characters required of
// every block hash.
func (l *Ledger) Difficulty() int {
	return l.opts.Difficulty
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length(ctx context.Context) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Len(ctx)
}

// Append mines a block sealing the given payload on the current tail and
// appends it. The append is atomic: on any failure the chain is unchanged.
func (l *Ledger) Append(ctx context.Context, data []byte) (*Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tail, err := l.store.Tail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain tail: %w", err)
	}

	start := time.Now()
	b, err := l.miner.mine(ctx, tail.Index+1, start.UnixNano(), data, tail.Hash)
	if err != nil {
		return nil, err
	}
	if err := l.store.Append(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to append block %d: %w", b.Index, err)
	}

	metrics.BlocksMined.Inc()
	metrics.MiningAttempts.Add(float64(b.Nonce + 1))
	metrics.MiningDuration.Observe(time.Since(start).Seconds())

	slog.Debug("Block appended", "index", b.Index, "hash", b.Hash, "nonce", b.Nonce)
	return b, nil
}

// PreviewMine mines a block on the current tail without appending it. The
// chain is left untouched; the nonce search runs outside any lock.
func (l *Ledger) PreviewMine(ctx context.Context, data []byte) (*Block, error) {
	l.mu.RLock()
	tail, err := l.store.Tail(ctx)
	l.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to read chain tail: %w", err)
	}

	return l.miner.mine(ctx, tail.Index+1, time.Now().UnixNano(), data, tail.Hash)
}

// GetBlock returns the block at the given position, or ErrNotFound when the
// index is outside [0, length).
func (l *Ledger) GetBlock(ctx context.Context, index int64) (*Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 {
		return nil, ErrNotFound
	}
	return l.store.Get(ctx, uint64(index))
}

// ListBlocks returns the full chain in index order. The returned blocks are
// copies; mutating them does not affect the ledger.
func (l *Ledger) ListBlocks(ctx context.Context) ([]*Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.List(ctx)
}
