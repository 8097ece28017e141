package pgset

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Strategy selects how a collection is passed to the database.
type Strategy int

const (
	// StrategyAny binds the collection as one array parameter: col = ANY($1).
	StrategyAny Strategy = iota
	// StrategyIn binds one parameter per element: col IN ($1, ..., $n).
	StrategyIn
)

// String returns the flag spelling of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyAny:
		return "any"
	case StrategyIn:
		return "in"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ParseStrategy accepts "any" or "in" (case-insensitive).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "array":
		return StrategyAny, nil
	case "in":
		return StrategyIn, nil
	default:
		return 0, fmt.Errorf("%q (want any or in): %w", s, ErrInvalidStrategy)
	}
}

// Target names the relation and columns a set query reads.
// All fields are identifiers. Values never appear here.
type Target struct {
	// Table is the relation name, optionally schema-qualified ("public.users").
	Table string

	// Column is the column tested for membership.
	Column string

	// Columns are the selected columns. Empty means *.
	Columns []string

	// OrderBy is an optional column for a stable result order.
	OrderBy string
}

// Validate checks that every identifier is present and well formed.
// It returns a multi-error if multiple validation failures occur.
func (t Target) Validate() error {
	var errs []error

	if t.Table == "" {
		errs = append(errs, fmt.Errorf("table is required: %w", ErrInvalidTarget))
	} else if hasEmptyPart(t.Table) {
		errs = append(errs, fmt.Errorf("table %q has an empty name part: %w", t.Table, ErrInvalidTarget))
	}

	if t.Column == "" {
		errs = append(errs, fmt.Errorf("column is required: %w", ErrInvalidTarget))
	} else if hasEmptyPart(t.Column) {
		errs = append(errs, fmt.Errorf("column %q has an empty name part: %w", t.Column, ErrInvalidTarget))
	}

	for i, c := range t.Columns {
		if c == "*" {
			continue
		}
		if c == "" || hasEmptyPart(c) {
			errs = append(errs, fmt.Errorf("selected column %d (%q) is empty: %w", i, c, ErrInvalidTarget))
		}
	}

	if t.OrderBy != "" && hasEmptyPart(t.OrderBy) {
		errs = append(errs, fmt.Errorf("order-by column %q has an empty name part: %w", t.OrderBy, ErrInvalidTarget))
	}

	return errors.Join(errs...)
}

func hasEmptyPart(name string) bool {
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return true
		}
	}
	return false
}

// quoteIdent quotes every dot-separated part of name.
func quoteIdent(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

// selectFrom renders "SELECT <cols> FROM <table>".
func (t Target) selectFrom() string {
	cols := "*"
	if len(t.Columns) > 0 {
		quoted := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			if c == "*" {
				quoted[i] = c
				continue
			}
			quoted[i] = quoteIdent(c)
		}
		cols = strings.Join(quoted, ", ")
	}
	return "SELECT " + cols + " FROM " + quoteIdent(t.Table)
}

func (t Target) orderBy() string {
	if t.OrderBy == "" {
		return ""
	}
	return " ORDER BY " + quoteIdent(t.OrderBy)
}

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Cloud authentication parameters, used by the matching AuthMethod.
	AWSRegion         string
	GoogleInstance    string
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS RDS IAM
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Entra ID
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ParseAuthMethod accepts the --auth flag spellings.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return 0, fmt.Errorf("unsupported auth method %q: %w", s, ErrInvalidConfig)
	}
}
