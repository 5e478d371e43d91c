package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/monochain/monochain/internal/chain"
)

// Memory is a slice-backed block store. Blocks are copied on the way in and
// out, so callers can never reach the stored values.
type Memory struct {
	mu     sync.RWMutex
	blocks []*chain.Block
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(_ context.Context, b *chain.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.Index != uint64(len(m.blocks)) {
		return fmt.Errorf("block index %d does not extend chain of length %d", b.Index, len(m.blocks))
	}
	m.blocks = append(m.blocks, b.Clone())
	return nil
}

func (m *Memory) Get(_ context.Context, index uint64) (*chain.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if index >= uint64(len(m.blocks)) {
		return nil, chain.ErrNotFound
	}
	return m.blocks[index].Clone(), nil
}

func (m *Memory) List(_ context.Context) ([]*chain.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blocks := make([]*chain.Block, len(m.blocks))
	for i, b := range m.blocks {
		blocks[i] = b.Clone()
	}
	return blocks, nil
}

func (m *Memory) Len(_ context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.blocks)), nil
}

func (m *Memory) Tail(_ context.Context) (*chain.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.blocks) == 0 {
		return nil, chain.ErrNotFound
	}
	return m.blocks[len(m.blocks)-1].Clone(), nil
}

func (m *Memory) Close() error {
	return nil
}
