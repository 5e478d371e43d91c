package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/monochain/monochain/internal/chain"
)

// File persists the chain as a single JSON document holding the ordered
// block array, rewritten on every append. It serializes exactly the six
// block fields, so hashes verify after a reload.
type File struct {
	mu     sync.RWMutex
	path   string
	blocks []*chain.Block
}

// OpenFile loads the chain file at path, or starts an empty chain when the
// file does not exist yet.
func OpenFile(path string) (*File, error) {
	f := &File{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chain file: %w", err)
	}

	if err := json.Unmarshal(raw, &f.blocks); err != nil {
		return nil, fmt.Errorf("failed to parse chain file %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Append(_ context.Context, b *chain.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b.Index != uint64(len(f.blocks)) {
		return fmt.Errorf("block index %d does not extend chain of length %d", b.Index, len(f.blocks))
	}

	f.blocks = append(f.blocks, b.Clone())
	if err := f.persist(); err != nil {
		f.blocks = f.blocks[:len(f.blocks)-1]
		return err
	}
	return nil
}

func (f *File) persist() error {
	raw, err := json.MarshalIndent(f.blocks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize chain: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write chain file: %w", err)
	}
	return nil
}

func (f *File) Get(_ context.Context, index uint64) (*chain.Block, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if index >= uint64(len(f.blocks)) {
		return nil, chain.ErrNotFound
	}
	return f.blocks[index].Clone(), nil
}

func (f *File) List(_ context.Context) ([]*chain.Block, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	blocks := make([]*chain.Block, len(f.blocks))
	for i, b := range f.blocks {
		blocks[i] = b.Clone()
	}
	return blocks, nil
}

func (f *File) Len(_ context.Context) (uint64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint64(len(f.blocks)), nil
}

func (f *File) Tail(_ context.Context) (*chain.Block, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.blocks) == 0 {
		return nil, chain.ErrNotFound
	}
	return f.blocks[len(f.blocks)-1].Clone(), nil
}

func (f *File) Close() error {
	return nil
}
