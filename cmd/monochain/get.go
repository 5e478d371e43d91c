package monochain

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [index]",
	Short: "Print the block at the given index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid block index %q", args[0])
		}

		ledger, st, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		b, err := ledger.GetBlock(cmd.Context(), index)
		if err != nil {
			return fmt.Errorf("block %d: %w", index, err)
		}

		return printJSON(cmd.OutOrStdout(), b)
	},
}
