package monochain

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine [data]",
	Short: "Mine a block without appending it (dry run)",
	Long:  `Mine a block sealing the given data on the current chain tail and print it without appending it, to preview the cost and result of a real append.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, st, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		b, err := ledger.PreviewMine(cmd.Context(), []byte(args[0]))
		if err != nil {
			return errors.WithMessage(err, "failed to mine block")
		}

		slog.Info("Block mined (not appended)", "index", b.Index, "nonce", b.Nonce)
		return printJSON(cmd.OutOrStdout(), b)
	},
}
