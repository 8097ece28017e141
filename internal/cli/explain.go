package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgset/pkg/pgset"
)

var explainFlagValues commandFlags

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Print the statement and bound arguments for both strategies",
	Long: `Build the statement each strategy would send for the given values and
print it with its bound arguments. Nothing is sent to the database.

Examples:
  pgset explain --table users --column id --values 3,7,11
  pgset explain --table users --column id`,
	Args: cobra.NoArgs,
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
	addQueryFlags(explainCmd, &explainFlagValues.query, false)
}

func runExplain(cmd *cobra.Command, args []string) error {
	inv, err := prepareInvocation(cmd, explainFlagValues.query)
	if err != nil {
		return err
	}

	r := newRenderer(cmd)
	for _, strategy := range []pgset.Strategy{pgset.StrategyAny, pgset.StrategyIn} {
		stmt, ok, err := inv.values.Build(strategy, inv.target)
		if err != nil {
			return err
		}
		if err := r.Statement(strategy, stmt, ok); err != nil {
			return err
		}
	}
	return nil
}
