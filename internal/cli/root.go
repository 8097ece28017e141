package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgset",
	Short: "Query PostgreSQL with a collection of values",
	Long: `pgset passes a list of values to PostgreSQL as query parameters,
either as one array bound to = ANY($1) or as one placeholder per value in
IN ($1, ..., $n). Values are always bound, never written into SQL text.

An empty list with the IN strategy returns no rows without contacting the
server. With the ANY strategy it is sent as an empty array.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration, target, strategy or value
  11 - Database connection failed
  12 - Values do not match the column type
  13 - SQL execution failed (or strategies disagree in compare)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output (logs every statement sent)")
	rootCmd.PersistentFlags().String("config", "", "Path to pgset.yaml (default: ./pgset.yaml if present)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func getConfigFlag(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
