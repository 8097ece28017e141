package pgset_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/pgset/pkg/pgset"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"connection_exception (08006)", &pgconn.PgError{Code: "08006"}, pgset.ErrConnection},
		{"invalid_password (28P01)", &pgconn.PgError{Code: "28P01"}, pgset.ErrConnection},
		{"too_many_connections (53300)", &pgconn.PgError{Code: "53300"}, pgset.ErrConnection},
		{"cannot_connect_now (57P03)", &pgconn.PgError{Code: "57P03"}, pgset.ErrConnection},
		{"invalid_text_representation (22P02)", &pgconn.PgError{Code: "22P02"}, pgset.ErrTypeMismatch},
		{"numeric_value_out_of_range (22003)", &pgconn.PgError{Code: "22003"}, pgset.ErrTypeMismatch},
		{"datatype_mismatch (42804)", &pgconn.PgError{Code: "42804"}, pgset.ErrTypeMismatch},
		{"undefined_function (42883)", &pgconn.PgError{Code: "42883"}, pgset.ErrTypeMismatch},
		{"syntax_error (42601)", &pgconn.PgError{Code: "42601"}, pgset.ErrQueryExecution},
		{"undefined_table (42P01)", &pgconn.PgError{Code: "42P01"}, pgset.ErrQueryExecution},
		{"unique_violation (23505)", &pgconn.PgError{Code: "23505"}, pgset.ErrQueryExecution},
		{"wrapped pg error", fmt.Errorf("outer: %w", &pgconn.PgError{Code: "22P02"}), pgset.ErrTypeMismatch},
		{"net op error", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, pgset.ErrConnection},
		{"deadline exceeded", context.DeadlineExceeded, pgset.ErrConnection},
		{"conn closed", errors.New("conn closed"), pgset.ErrConnection},
		{"encode failure", errors.New("failed to encode args[0]: unable to encode \"x\" into binary format for int8 (OID 20)"), pgset.ErrTypeMismatch},
		{"scan failure", errors.New("can't scan into dest[0]: cannot scan text (OID 25) in text format into *int64"), pgset.ErrTypeMismatch},
		{"anything else", errors.New("something went wrong"), pgset.ErrQueryExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgset.Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestQueryError_Message(t *testing.T) {
	err := &pgset.QueryError{Kind: pgset.ErrTypeMismatch, SQL: "SELECT 1", Err: errors.New("boom")}
	if got, want := err.Error(), "type mismatch: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, pgset.ExitSuccess},
		{"general error", errors.New("something went wrong"), pgset.ExitGeneralError},
		{"unknown flag", errors.New("unknown flag --foo"), pgset.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), pgset.ExitUsageError},
		{"required flag", errors.New(`required flag(s) "table" not set`), pgset.ExitUsageError},
		{"invalid config", fmt.Errorf("bad: %w", pgset.ErrInvalidConfig), pgset.ExitConfigError},
		{"invalid target", pgset.Target{}.Validate(), pgset.ExitConfigError},
		{"invalid strategy", pgset.ErrInvalidStrategy, pgset.ExitConfigError},
		{"connection", &pgset.QueryError{Kind: pgset.ErrConnection, Err: errors.New("x")}, pgset.ExitConnectionError},
		{"type mismatch", &pgset.QueryError{Kind: pgset.ErrTypeMismatch, Err: errors.New("x")}, pgset.ExitTypeMismatch},
		{"execution", &pgset.QueryError{Kind: pgset.ErrQueryExecution, Err: errors.New("x")}, pgset.ExitExecutionFailed},
		{"placeholder mismatch", pgset.ErrPlaceholderMismatch, pgset.ExitExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgset.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
