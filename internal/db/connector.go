package db

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgset/internal/retry"
	"github.com/vvka-141/pgset/pkg/pgset"
)

// Pool configuration for a short-lived CLI process.
const (
	DefaultMaxConns        = 4
	DefaultMaxConnIdleTime = 5 * time.Minute
)

// Connector opens a ready-to-use pool. Callers close the pool, then call
// Close on the connector.
type Connector interface {
	Connect(ctx context.Context) (*pgxpool.Pool, error)
	Close() error
}

// Options carries the optional collaborators every connector shares.
type Options struct {
	Logger pgset.Logger
	Tracer pgx.QueryTracer
}

// NewConnector creates the Connector matching config.AuthMethod.
func NewConnector(config *pgset.ConnectionConfig, opts Options) (Connector, error) {
	base := newBaseConnector(config, opts)

	switch config.AuthMethod {
	case pgset.AuthMethodStandard:
		return &StandardConnector{base: base}, nil
	case pgset.AuthMethodAWSIAM:
		provider, err := NewAWSIAMTokenProvider(fmt.Sprintf("%s:%d", config.Host, config.Port), config.AWSRegion, config.Username)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, pgset.ErrInvalidConfig)
		}
		return &TokenConnector{base: base, provider: provider}, nil
	case pgset.AuthMethodAzureEntraID:
		provider, err := NewAzureTokenProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, pgset.ErrInvalidConfig)
		}
		return &TokenConnector{base: base, provider: provider}, nil
	case pgset.AuthMethodGoogleIAM:
		if config.GoogleInstance == "" {
			return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", pgset.ErrInvalidConfig)
		}
		if config.Username == "" {
			return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username: %w", pgset.ErrInvalidConfig)
		}
		return &GoogleConnector{base: base}, nil
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, pgset.ErrInvalidConfig)
	}
}

type baseConnector struct {
	config   *pgset.ConnectionConfig
	logger   pgset.Logger
	tracer   pgx.QueryTracer
	executor *retry.Executor
}

func newBaseConnector(config *pgset.ConnectionConfig, opts Options) baseConnector {
	strategy := retry.NewExponentialBackoff(pgset.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(pgset.DefaultRetryInitialDelay),
		retry.WithMaxDelay(pgset.DefaultRetryMaxDelay),
	)
	executor := retry.NewExecutor(retry.NewConnectClassifier(), strategy)
	if opts.Logger != nil {
		logger := opts.Logger
		executor = executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("connect attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
		})
	}
	return baseConnector{config: config, logger: opts.Logger, tracer: opts.Tracer, executor: executor}
}

// open parses connStr, applies pool settings, then connects and pings with retry.
func (b *baseConnector) open(ctx context.Context, connStr string, customize func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %v: %w", err, pgset.ErrInvalidConfig)
	}
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	if b.tracer != nil {
		poolConfig.ConnConfig.Tracer = b.tracer
	}
	if customize != nil {
		customize(poolConfig)
	}

	var pool *pgxpool.Pool
	err = b.executor.Execute(ctx, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, wrapConnectionError(err, b.config)
	}
	return pool, nil
}

// StandardConnector authenticates with username and password.
type StandardConnector struct {
	base baseConnector
}

func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return c.base.open(ctx, BuildConnectionString(c.base.config), nil)
}

func (c *StandardConnector) Close() error { return nil }

// TokenConnector uses a short-lived cloud token as the password.
type TokenConnector struct {
	base     baseConnector
	provider TokenProvider
}

func (c *TokenConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	token, expiresOn, err := c.provider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire token from %s: %w: %w", c.provider, pgset.ErrConnection, err)
	}
	if c.base.logger != nil {
		c.base.logger.Verbose("acquired token from %s, expires in %v", c.provider, time.Until(expiresOn).Round(time.Second))
	}

	withToken := *c.base.config
	withToken.Password = token
	if withToken.SSLMode == "" || withToken.SSLMode == "prefer" || withToken.SSLMode == "disable" {
		withToken.SSLMode = "require"
	}
	return c.base.open(ctx, BuildConnectionString(&withToken), nil)
}

func (c *TokenConnector) Close() error { return nil }

// GoogleConnector dials Cloud SQL through the Cloud SQL Go Connector with
// IAM database authentication. Close releases the dialer.
type GoogleConnector struct {
	base   baseConnector
	dialer *cloudsqlconn.Dialer
}

func (c *GoogleConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w: %w", pgset.ErrConnection, err)
	}

	cfg := c.base.config
	dsn := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable", cfg.GoogleInstance, cfg.Username, cfg.Database)
	pool, err := c.base.open(ctx, dsn, func(pc *pgxpool.Config) {
		pc.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.Dial(ctx, cfg.GoogleInstance)
		}
	})
	if err != nil {
		dialer.Close()
		return nil, err
	}

	c.dialer = dialer
	return pool, nil
}

func (c *GoogleConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}

// wrapConnectionError marks err as a connection failure and adds a hint
// for the common causes.
func wrapConnectionError(err error, config *pgset.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf("connection refused to %s (is PostgreSQL running? check: pg_isready -h %s -p %d)", addr, config.Host, config.Port)
	case strings.Contains(errStr, "no such host"):
		hint = fmt.Sprintf("cannot resolve host %q", config.Host)
	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf("password authentication failed for user %q (check $PGPASSWORD)", config.Username)
	case strings.Contains(errStr, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist", config.Database)
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf("connection timed out to %s", addr)
	default:
		hint = fmt.Sprintf("failed to connect to %s", addr)
	}
	return fmt.Errorf("%s: %w: %w", hint, pgset.ErrConnection, err)
}
