package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/pgset/internal/config"
	"github.com/vvka-141/pgset/pkg/pgset"
)

// ConnFlags represents connection parameters from CLI flags.
//
// Password is NOT a flag. Use $PGPASSWORD or a connection string.
type ConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string

	Auth           string
	AWSRegion      string
	GoogleInstance string
	AzureTenantID  string
	AzureClientID  string
}

// hasServerFlags excludes Database, which may override a connection string's database.
func (f *ConnFlags) hasServerFlags() bool {
	return f.Host != "" || f.Port != 0 || f.Username != "" || f.SSLMode != ""
}

// EnvVars represents PostgreSQL and cloud provider environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	ConnectionString string // PGSET_CONNECTION_STRING or DATABASE_URL
	PGHOST           string
	PGPORT           string
	PGUSER           string
	PGPASSWORD       string
	PGDATABASE       string
	PGSSLMODE        string

	AWSRegion         string
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// LoadFromEnvironment reads the variables EnvVars describes.
func LoadFromEnvironment() *EnvVars {
	connStr := os.Getenv("PGSET_CONNECTION_STRING")
	if connStr == "" {
		connStr = os.Getenv("DATABASE_URL")
	}
	return &EnvVars{
		ConnectionString:  connStr,
		PGHOST:            os.Getenv("PGHOST"),
		PGPORT:            os.Getenv("PGPORT"),
		PGUSER:            os.Getenv("PGUSER"),
		PGPASSWORD:        os.Getenv("PGPASSWORD"),
		PGDATABASE:        os.Getenv("PGDATABASE"),
		PGSSLMODE:         os.Getenv("PGSSLMODE"),
		AWSRegion:         os.Getenv("AWS_REGION"),
		AzureTenantID:     os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:     os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnection resolves connection parameters with this precedence:
//
//  1. --connection flag, then $PGSET_CONNECTION_STRING / $DATABASE_URL
//     (only when no granular server flags are given)
//  2. granular flags > PG* environment > pgset.yaml > defaults
//
// -d/--database overrides the database of a connection string. Both a
// connection string flag and granular server flags is an error.
func ResolveConnection(connStrFlag string, flags *ConnFlags, env *EnvVars, project *config.ProjectConfig) (*pgset.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if project != nil {
		pc = project.Connection
	}

	if connStrFlag != "" && flags.hasServerFlags() {
		return nil, fmt.Errorf("cannot specify both --connection and --host/--port/--username/--sslmode: %w", pgset.ErrInvalidConfig)
	}

	connStr := connStrFlag
	if connStr == "" && !flags.hasServerFlags() {
		connStr = env.ConnectionString
	}

	var cfg *pgset.ConnectionConfig
	var err error
	if connStr != "" {
		cfg, err = ParseConnectionString(connStr)
		if err != nil {
			return nil, fmt.Errorf("invalid connection string: %v: %w", err, pgset.ErrInvalidConfig)
		}
		if flags.Database != "" {
			cfg.Database = flags.Database
		}
	} else {
		cfg, err = resolveGranular(flags, env, pc)
		if err != nil {
			return nil, err
		}
	}

	if cfg.SSLMode == "" {
		cfg.SSLMode = firstNonEmpty(env.PGSSLMODE, pc.SSLMode, "prefer")
	}
	if cfg.Password == "" {
		cfg.Password = env.PGPASSWORD
	}

	if err := applyAuth(cfg, flags, env, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveGranular(flags *ConnFlags, env *EnvVars, pc config.ConnectionConfig) (*pgset.ConnectionConfig, error) {
	cfg := defaultConfig()

	cfg.Host = firstNonEmpty(flags.Host, env.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: must be an integer: %w", env.PGPORT, pgset.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	}

	cfg.Username = firstNonEmpty(flags.Username, env.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Database = firstNonEmpty(flags.Database, env.PGDATABASE, pc.Database, pgset.DefaultDatabase)
	cfg.SSLMode = flags.SSLMode

	return cfg, nil
}

func applyAuth(cfg *pgset.ConnectionConfig, flags *ConnFlags, env *EnvVars, pc config.ConnectionConfig) error {
	method, err := pgset.ParseAuthMethod(firstNonEmpty(flags.Auth, pc.AuthMethod))
	if err != nil {
		return err
	}

	switch method {
	case pgset.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWSRegion, pc.AWSRegion)
	case pgset.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	case pgset.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AzureTenantID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AzureClientID, pc.AzureClientID)
		cfg.AzureClientSecret = env.AzureClientSecret
	}
	cfg.AuthMethod = method
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
