package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgset/internal/config"
	"github.com/vvka-141/pgset/internal/render"
	"github.com/vvka-141/pgset/pkg/pgset"
)

var queryFlagValues commandFlags

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Select rows whose column matches any of the given values",
	Long: `Run one SELECT against --table, keeping rows where --column equals one
of the values.

Strategies:
  any  Bind all values as one array: WHERE col = ANY($1)
  in   Bind one parameter per value: WHERE col IN ($1, ..., $n)

Examples:
  pgset query --table users --column id --values 3,7,11
  pgset query --table users --column id --values 3,7,11 --strategy in
  pgset query --table public.orders --column ref --type uuid --values-file refs.txt
  cat ids.txt | pgset query --table users --column id --values-file -`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	addQueryFlags(queryCmd, &queryFlagValues.query, true)
	addConnectionFlags(queryCmd, &queryFlagValues.conn)
}

// invocation is everything a command needs before touching the database.
type invocation struct {
	projectCfg *config.ProjectConfig
	target     pgset.Target
	values     collection
}

func prepareInvocation(cmd *cobra.Command, f queryFlags) (*invocation, error) {
	projectCfg, err := loadProjectConfig(getConfigFlag(cmd))
	if err != nil {
		return nil, err
	}

	target, err := resolveTarget(f, projectCfg)
	if err != nil {
		return nil, err
	}

	values, err := loadCollection(f, resolveValueType(f, projectCfg), cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	return &invocation{projectCfg: projectCfg, target: target, values: values}, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	flags := queryFlagValues
	logger := newLogger(cmd)

	inv, err := prepareInvocation(cmd, flags.query)
	if err != nil {
		return err
	}

	strategy, err := resolveStrategy(flags.query, inv.projectCfg)
	if err != nil {
		return err
	}

	timeout, err := resolveEffectiveTimeout(cmd, inv.projectCfg, flags.conn.timeout)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
	defer cancel()

	logger.Verbose("Strategy: %s, %d value(s)", strategy, inv.values.Len())

	if strategy == pgset.StrategyIn && inv.values.Len() == 0 {
		logger.Verbose("Empty collection with IN strategy: no statement sent")
		return newRenderer(cmd).Rows(emptyResult(inv.target))
	}

	sess, err := openSession(ctx, flags.conn, inv.projectCfg, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := inv.values.Select(ctx, sess.pool, strategy, inv.target)
	if err != nil {
		return err
	}
	return newRenderer(cmd).Rows(result)
}

func emptyResult(target pgset.Target) render.ResultSet {
	return render.ResultSet{Columns: target.Columns, Rows: [][]any{}}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
