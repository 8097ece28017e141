package testinfra

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgset/internal/db"
	"github.com/vvka-141/pgset/internal/logging"
)

// TestConnEnv overrides the container with an existing database.
const TestConnEnv = "PGSET_TEST_CONN"

var (
	containerOnce sync.Once
	containerConn string
	containerErr  error
)

func getOrStartContainer() (string, error) {
	containerOnce.Do(func() {
		ctr, err := StartPostgres(context.Background())
		if err != nil {
			containerErr = err
			return
		}
		containerConn = ctr.ConnString
	})
	return containerConn, containerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: PGSET_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnv); connString != "" {
		return connString
	}

	connString, err := getOrStartContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnv, err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// NewTracedPool connects to the test database with a StatementTracer
// attached. The pool is closed when the test ends.
func NewTracedPool(t *testing.T) (*pgxpool.Pool, *db.StatementTracer) {
	t.Helper()

	connString := RequireDatabase(t)

	cfg, err := db.ParseConnectionString(connString)
	require.NoError(t, err)

	tracer := db.NewStatementTracer(logging.NewNullLogger())
	connector, err := db.NewConnector(cfg, db.Options{
		Logger: logging.NewNullLogger(),
		Tracer: tracer,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := connector.Connect(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		pool.Close()
		connector.Close() //nolint:errcheck
	})

	return pool, tracer
}
