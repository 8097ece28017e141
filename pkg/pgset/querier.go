package pgset

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the part of a pgx connection that the set queries need.
// *pgxpool.Pool, *pgxpool.Conn, *pgx.Conn and pgx.Tx all satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
