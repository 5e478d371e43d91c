package monochain

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the whole chain in index order (explorer view)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, st, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		blocks, err := ledger.ListBlocks(cmd.Context())
		if err != nil {
			return errors.WithMessage(err, "failed to list blocks")
		}

		return printJSON(cmd.OutOrStdout(), blocks)
	},
}
