package pgset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SelectAny runs target's query with the whole collection bound as one array
// parameter. An empty collection is executed normally and matches no rows.
func SelectAny[T Scalar, R any](ctx context.Context, q Querier, target Target, values []T, scan pgx.RowToFunc[R]) ([]R, error) {
	stmt, err := BuildAny(target, values)
	if err != nil {
		return nil, err
	}
	return run(ctx, q, stmt, scan)
}

// SelectIn runs target's query with one placeholder per value. An empty
// collection returns an empty result without contacting the database.
func SelectIn[T Scalar, R any](ctx context.Context, q Querier, target Target, values []T, scan pgx.RowToFunc[R]) ([]R, error) {
	stmt, ok, err := BuildIn(target, values)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []R{}, nil
	}
	return run(ctx, q, stmt, scan)
}

// Select dispatches to SelectAny or SelectIn.
func Select[T Scalar, R any](ctx context.Context, q Querier, strategy Strategy, target Target, values []T, scan pgx.RowToFunc[R]) ([]R, error) {
	switch strategy {
	case StrategyAny:
		return SelectAny(ctx, q, target, values, scan)
	case StrategyIn:
		return SelectIn(ctx, q, target, values, scan)
	default:
		return nil, fmt.Errorf("strategy %v: %w", strategy, ErrInvalidStrategy)
	}
}

// Build dispatches to BuildAny or BuildIn. ok is false only for StrategyIn
// with an empty collection.
func Build[T Scalar](strategy Strategy, target Target, values []T) (Statement, bool, error) {
	switch strategy {
	case StrategyAny:
		stmt, err := BuildAny(target, values)
		return stmt, err == nil, err
	case StrategyIn:
		return BuildIn(target, values)
	default:
		return Statement{}, false, fmt.Errorf("strategy %v: %w", strategy, ErrInvalidStrategy)
	}
}

func run[R any](ctx context.Context, q Querier, stmt Statement, scan pgx.RowToFunc[R]) ([]R, error) {
	if err := stmt.Verify(); err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, wrapQueryError(stmt.SQL, err)
	}

	result, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, wrapQueryError(stmt.SQL, err)
	}
	if result == nil {
		result = []R{}
	}
	return result, nil
}
