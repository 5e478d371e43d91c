package monochain

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [data]",
	Short: "Mine a new block and append it to the chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, st, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		b, err := ledger.Append(cmd.Context(), []byte(args[0]))
		if err != nil {
			return errors.WithMessage(err, "failed to append block")
		}

		slog.Info("Block mined and appended", "index", b.Index, "nonce", b.Nonce)
		return printJSON(cmd.OutOrStdout(), b)
	},
}
