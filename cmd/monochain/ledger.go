package monochain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/monochain/monochain/internal/chain"
	"github.com/monochain/monochain/internal/config"
	"github.com/monochain/monochain/internal/store"
)

// openLedger builds the configured store and attaches a ledger to it,
// creating the genesis block on first use. The caller must close the
// returned store.
func openLedger(ctx context.Context) (*chain.Ledger, chain.Store, error) {
	chainCfg := config.LoadChainConfigFromCLI()
	if err := chainCfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid chain configuration: %w", err)
	}

	storeCfg := config.LoadStoreConfigFromCLI()
	if err := storeCfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid store configuration: %w", err)
	}

	slog.Debug("Opening ledger", "backend", storeCfg.Backend, "difficulty", chainCfg.Difficulty)

	st, err := store.Open(ctx, storeCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open chain store: %w", err)
	}

	ledger, err := chain.Open(ctx, st, chain.Options{
		Difficulty:   chainCfg.Difficulty,
		NonceCeiling: chainCfg.NonceCeiling,
		Workers:      chainCfg.Miners,
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	return ledger, st, nil
}

// printJSON renders a block or block list field-by-field for the terminal.
func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
