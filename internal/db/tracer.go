package db

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgset/pkg/pgset"
)

// TracedQuery is one statement as it was handed to the server.
type TracedQuery struct {
	SQL  string
	Args []any
	Err  error
}

// StatementTracer is a pgx.QueryTracer that logs each statement with its
// bound-argument count and keeps a record of what was sent.
// Argument values are never logged.
type StatementTracer struct {
	logger pgset.Logger

	mu      sync.Mutex
	queries []TracedQuery
}

// NewStatementTracer creates a tracer. logger may be nil.
func NewStatementTracer(logger pgset.Logger) *StatementTracer {
	return &StatementTracer{logger: logger}
}

type traceKey struct{}

func (t *StatementTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if t.logger != nil {
		t.logger.Verbose("query: %s [%d bound]", data.SQL, len(data.Args))
	}
	return context.WithValue(ctx, traceKey{}, TracedQuery{SQL: data.SQL, Args: data.Args})
}

func (t *StatementTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	q, _ := ctx.Value(traceKey{}).(TracedQuery)
	q.Err = data.Err

	if data.Err != nil && t.logger != nil {
		t.logger.Verbose("query failed: %v", data.Err)
	}

	t.mu.Lock()
	t.queries = append(t.queries, q)
	t.mu.Unlock()
}

// Queries returns a copy of every statement traced so far.
func (t *StatementTracer) Queries() []TracedQuery {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TracedQuery(nil), t.queries...)
}

// Reset forgets all traced statements.
func (t *StatementTracer) Reset() {
	t.mu.Lock()
	t.queries = nil
	t.mu.Unlock()
}

var _ pgx.QueryTracer = (*StatementTracer)(nil)
