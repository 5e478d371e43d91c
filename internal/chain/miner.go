package chain

import (
	"context"
	"errors"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is the number of nonce attempts between context checks.
const cancelCheckInterval = 4096

// Options configures mining and validation for a Ledger.
type Options struct {
	// Difficulty is the number of leading zero hex characters a block hash
	// must carry.
	Difficulty int

	// NonceCeiling bounds the nonce search; exceeding it fails the mining
	// call with ErrMiningExhausted.
	NonceCeiling uint64

	// Workers is the number of goroutines splitting the nonce search.
	Workers int
}

func (o Options) withDefaults() Options {
	if o.NonceCeiling == 0 {
		o.NonceCeiling = math.MaxUint64
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// miner performs the brute-force proof-of-work search. The candidate fields
// are fixed before the search starts, so candidates differ only in nonce.
type miner struct {
	prefix  string
	ceiling uint64
	workers int
}

func newMiner(opts Options) *miner {
	return &miner{
		prefix:  strings.Repeat("0", opts.Difficulty),
		ceiling: opts.NonceCeiling,
		workers: opts.Workers,
	}
}

// mine searches for the first nonce whose digest satisfies the difficulty
// predicate and returns the sealed block. The search is split across
// workers, each scanning an interleaved nonce stride; the first worker to
// find a solution cancels the rest.
func (m *miner) mine(ctx context.Context, index uint64, timestamp int64, data []byte, prevHash string) (*Block, error) {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, searchCtx := errgroup.WithContext(searchCtx)
	winner := make(chan *Block, m.workers)
	stride := uint64(m.workers)

	for w := 0; w < m.workers; w++ {
		start := uint64(w)
		eg.Go(func() error {
			attempts := 0
			for nonce := start; nonce <= m.ceiling; {
				if attempts%cancelCheckInterval == 0 {
					select {
					case <-searchCtx.Done():
						return searchCtx.Err()
					default:
					}
				}
				attempts++

				hash := ComputeHash(index, timestamp, data, prevHash, nonce)
				if strings.HasPrefix(hash, m.prefix) {
					winner <- &Block{
						Index:     index,
						Timestamp: timestamp,
						Data:      append([]byte(nil), data...),
						PrevHash:  prevHash,
						Nonce:     nonce,
						Hash:      hash,
					}
					cancel()
					return nil
				}

				next := nonce + stride
				if next < nonce {
					break
				}
				nonce = next
			}
			return nil
		})
	}

	err := eg.Wait()

	select {
	case b := <-winner:
		return b, nil
	default:
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	return nil, ErrMiningExhausted
}
