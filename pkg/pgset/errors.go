package pgset

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for the failure classes callers need to tell apart.
// Use errors.Is to test for them:
//
//	rows, err := pgset.SelectIn(ctx, pool, target, ids, scan)
//	if errors.Is(err, pgset.ErrConnection) {
//	    // transport or authentication failure
//	}
var (
	// ErrConnection indicates the handle was unusable or the connection dropped.
	ErrConnection = errors.New("connection error")

	// ErrTypeMismatch indicates collection elements do not map to the column type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrQueryExecution indicates any other fault reported by the database.
	ErrQueryExecution = errors.New("query execution error")

	// ErrPlaceholderMismatch indicates a statement whose placeholder count
	// differs from its bound argument count. It is never expected at runtime.
	ErrPlaceholderMismatch = errors.New("placeholder count does not match bound arguments")

	// ErrInvalidTarget indicates a Target with a missing or malformed identifier.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrInvalidStrategy indicates an unknown Strategy value.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// QueryError carries a database failure together with its class and the
// statement that produced it. The original driver error stays reachable
// through errors.As.
type QueryError struct {
	Kind error
	SQL  string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the class sentinel and the driver error.
func (e *QueryError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// wrapQueryError attaches a class to err. Nil errors and caller-initiated
// cancellations pass through untouched.
func wrapQueryError(sql string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return err
	}
	return &QueryError{Kind: Classify(err), SQL: sql, Err: err}
}

// Classify maps a driver error onto ErrConnection, ErrTypeMismatch or
// ErrQueryExecution. It returns nil for a nil error.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPgError(pgErr)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return ErrConnection
	}

	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.Timeout(err) {
		return ErrConnection
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range connectionPatterns {
		if strings.Contains(msg, pattern) {
			return ErrConnection
		}
	}
	for _, pattern := range typeMismatchPatterns {
		if strings.Contains(msg, pattern) {
			return ErrTypeMismatch
		}
	}

	return ErrQueryExecution
}

// classifyPgError maps a SQLSTATE onto a failure class.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
func classifyPgError(pgErr *pgconn.PgError) error {
	code := pgErr.Code

	switch {
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsInvalidAuthorizationSpecification(code):
		return ErrConnection
	case pgerrcode.IsDataException(code):
		return ErrTypeMismatch
	}

	switch code {
	case pgerrcode.TooManyConnections, pgerrcode.AdminShutdown, pgerrcode.CrashShutdown, pgerrcode.CannotConnectNow:
		return ErrConnection
	case pgerrcode.DatatypeMismatch, pgerrcode.UndefinedFunction, pgerrcode.CannotCoerce:
		return ErrTypeMismatch
	}

	return ErrQueryExecution
}

var connectionPatterns = []string{
	"closed pool",
	"conn closed",
	"connection refused",
	"connection reset",
	"broken pipe",
	"unexpected eof",
	"server closed the connection",
	"failed to connect",
	"no such host",
}

var typeMismatchPatterns = []string{
	"unable to encode",
	"failed to encode",
	"cannot find encode plan",
	"can't scan",
	"cannot scan",
	"unable to assign",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrInvalidTarget),
		errors.Is(err, ErrInvalidStrategy):
		return ExitConfigError
	case errors.Is(err, ErrConnection):
		return ExitConnectionError
	case errors.Is(err, ErrTypeMismatch):
		return ExitTypeMismatch
	case errors.Is(err, ErrQueryExecution), errors.Is(err, ErrPlaceholderMismatch):
		return ExitExecutionFailed
	}

	// cobra reports usage problems as plain errors
	errStr := err.Error()
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "accepts ", "required flag", "invalid argument"} {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
