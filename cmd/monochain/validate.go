package monochain

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Re-walk the whole chain and check every block",
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, st, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := ledger.Validate(cmd.Context())
		if err != nil {
			return errors.WithMessage(err, "failed to validate chain")
		}

		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("%s", result)
		}
		return nil
	},
}
