package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgset/internal/config"
	"github.com/vvka-141/pgset/internal/db"
	"github.com/vvka-141/pgset/internal/logging"
	"github.com/vvka-141/pgset/internal/render"
	"github.com/vvka-141/pgset/pkg/pgset"
)

// connectionFlags holds the common connection-related flag values.
type connectionFlags struct {
	connection     string
	host           string
	port           int
	username       string
	database       string
	sslMode        string
	auth           string
	awsRegion      string
	googleInstance string
	azureTenantID  string
	azureClientID  string
	timeout        time.Duration
}

// queryFlags describes the target and the collection.
type queryFlags struct {
	table      string
	column     string
	selectCols []string
	orderBy    string
	valueType  string
	strategy   string
	values     []string
	valuesFile string
}

// commandFlags is the full flag set of query, explain and compare.
type commandFlags struct {
	conn  connectionFlags
	query queryFlags
}

func addConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	cmd.Flags().StringVar(&f.connection, "connection", "", "PostgreSQL connection string (URI or key=value)")
	cmd.Flags().StringVar(&f.host, "host", "", "Database host")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Database port")
	cmd.Flags().StringVarP(&f.username, "username", "U", "", "Database user")
	cmd.Flags().StringVarP(&f.database, "database", "d", "", "Database name")
	cmd.Flags().StringVar(&f.sslMode, "sslmode", "", "SSL mode (disable, prefer, require, verify-ca, verify-full)")
	cmd.Flags().StringVar(&f.auth, "auth", "", "Authentication: standard, aws, azure, google")
	cmd.Flags().StringVar(&f.awsRegion, "aws-region", "", "AWS region for RDS IAM auth")
	cmd.Flags().StringVar(&f.googleInstance, "google-instance", "", "Cloud SQL instance (project:region:instance)")
	cmd.Flags().StringVar(&f.azureTenantID, "azure-tenant-id", "", "Azure tenant ID for Entra ID auth")
	cmd.Flags().StringVar(&f.azureClientID, "azure-client-id", "", "Azure client ID for Entra ID auth")
	cmd.Flags().DurationVar(&f.timeout, "timeout", pgset.DefaultTimeout, "Overall timeout, connect included")
}

func addQueryFlags(cmd *cobra.Command, f *queryFlags, withStrategy bool) {
	cmd.Flags().StringVar(&f.table, "table", "", "Table to read (optionally schema-qualified)")
	cmd.Flags().StringVar(&f.column, "column", "", "Column tested for membership")
	cmd.Flags().StringSliceVar(&f.selectCols, "select", nil, "Columns to return (default: all)")
	cmd.Flags().StringVar(&f.orderBy, "order-by", "", "Column to order results by")
	cmd.Flags().StringVar(&f.valueType, "type", "", "Value type: int, bigint, text, uuid, bool, float (default: bigint)")
	cmd.Flags().StringSliceVar(&f.values, "values", nil, "Comma-separated values")
	cmd.Flags().StringVar(&f.valuesFile, "values-file", "", "File with one value per line ('-' for stdin)")
	if withStrategy {
		cmd.Flags().StringVar(&f.strategy, "strategy", "", "Parameter strategy: any or in (default: any)")
	}
}

// loadProjectConfig loads .env and the project configuration.
// Returns nil config if ./pgset.yaml does not exist (not an error).
// An explicit --config path must exist.
func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %v: %w", path, err, pgset.ErrInvalidConfig)
		}
		return cfg, nil
	}

	cfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %v: %w", config.ConfigFileName, err, pgset.ErrInvalidConfig)
	}
	return cfg, nil
}

// resolveTarget merges flags over pgset.yaml query defaults.
func resolveTarget(f queryFlags, projectCfg *config.ProjectConfig) (pgset.Target, error) {
	var qc config.QueryConfig
	if projectCfg != nil {
		qc = projectCfg.Query
	}

	target := pgset.Target{
		Table:   firstNonEmpty(f.table, qc.Table),
		Column:  firstNonEmpty(f.column, qc.Column),
		Columns: f.selectCols,
		OrderBy: firstNonEmpty(f.orderBy, qc.OrderBy),
	}
	if len(target.Columns) == 0 {
		target.Columns = qc.Select
	}

	if err := target.Validate(); err != nil {
		return pgset.Target{}, err
	}
	return target, nil
}

func resolveStrategy(f queryFlags, projectCfg *config.ProjectConfig) (pgset.Strategy, error) {
	s := f.strategy
	if s == "" && projectCfg != nil {
		s = projectCfg.Query.Strategy
	}
	if s == "" {
		return pgset.StrategyAny, nil
	}
	return pgset.ParseStrategy(s)
}

func resolveValueType(f queryFlags, projectCfg *config.ProjectConfig) string {
	t := f.valueType
	if t == "" && projectCfg != nil {
		t = projectCfg.Query.Type
	}
	if t == "" {
		return "bigint"
	}
	return t
}

// resolveEffectiveTimeout returns the effective timeout, preferring pgset.yaml if flag wasn't set.
func resolveEffectiveTimeout(cmd *cobra.Command, projectCfg *config.ProjectConfig, flagTimeout time.Duration) (time.Duration, error) {
	if !cmd.Flags().Changed("timeout") {
		parsed, err := projectCfg.ParsedTimeout()
		if err != nil {
			return 0, fmt.Errorf("invalid timeout in %s: %v: %w", config.ConfigFileName, err, pgset.ErrInvalidConfig)
		}
		if parsed > 0 {
			return parsed, nil
		}
	}
	if flagTimeout <= 0 {
		return 0, fmt.Errorf("--timeout must be positive: %w", pgset.ErrInvalidConfig)
	}
	return flagTimeout, nil
}

func resolveConnectionFromFlags(f connectionFlags, projectCfg *config.ProjectConfig) (*pgset.ConnectionConfig, error) {
	return db.ResolveConnection(f.connection, &db.ConnFlags{
		Host:           f.host,
		Port:           f.port,
		Username:       f.username,
		Database:       f.database,
		SSLMode:        f.sslMode,
		Auth:           f.auth,
		AWSRegion:      f.awsRegion,
		GoogleInstance: f.googleInstance,
		AzureTenantID:  f.azureTenantID,
		AzureClientID:  f.azureClientID,
	}, db.LoadFromEnvironment(), projectCfg)
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(logger pgset.Logger, cfg *pgset.ConnectionConfig) {
	logger.Verbose("Connection resolved:")
	logger.Verbose("  Host: %s", cfg.Host)
	logger.Verbose("  Port: %d", cfg.Port)
	logger.Verbose("  User: %s", cfg.Username)
	logger.Verbose("  Database: %s", cfg.Database)
	logger.Verbose("  SSL Mode: %s", cfg.SSLMode)
	logger.Verbose("  Auth Method: %s", cfg.AuthMethod)
}

// session is an open pool plus its teardown.
type session struct {
	pool      *pgxpool.Pool
	connector db.Connector
}

func (s *session) Close() {
	s.pool.Close()
	s.connector.Close() //nolint:errcheck
}

func openSession(ctx context.Context, f connectionFlags, projectCfg *config.ProjectConfig, logger pgset.Logger) (*session, error) {
	connConfig, err := resolveConnectionFromFlags(f, projectCfg)
	if err != nil {
		return nil, err
	}
	logConnectionVerbose(logger, connConfig)

	connector, err := db.NewConnector(connConfig, db.Options{
		Logger: logger,
		Tracer: db.NewStatementTracer(logger),
	})
	if err != nil {
		return nil, err
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		connector.Close() //nolint:errcheck
		return nil, err
	}
	return &session{pool: pool, connector: connector}, nil
}

func newLogger(cmd *cobra.Command) pgset.Logger {
	return logging.NewConsoleLogger(getVerboseFlag(cmd))
}

func newRenderer(cmd *cobra.Command) *render.Renderer {
	out := cmd.OutOrStdout()
	f, ok := out.(*os.File)
	return render.New(out, ok && render.IsTerminal(f))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
