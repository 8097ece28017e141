package pgset

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Query completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration, target or strategy
	ExitConnectionError = 11 // Failed to connect or connection dropped
	ExitTypeMismatch    = 12 // Values do not fit the target column type
	ExitExecutionFailed = 13 // Database reported an execution fault
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first connect retry.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between connect retries.
	DefaultRetryMaxDelay = 10 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of connect retries.
	DefaultRetryMaxAttempts = 3

	// DefaultTimeout bounds a single CLI invocation, connect included.
	DefaultTimeout = 30 * time.Second

	// DefaultPort is the PostgreSQL default port.
	DefaultPort = 5432

	// DefaultDatabase is used when no database is named anywhere.
	DefaultDatabase = "postgres"
)
