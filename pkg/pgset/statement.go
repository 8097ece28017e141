package pgset

import (
	"fmt"
	"strconv"
	"strings"
)

// Statement is SQL text plus the arguments bound to its placeholders.
type Statement struct {
	SQL  string
	Args []any

	// Placeholders is the number of $k markers the builder emitted.
	Placeholders int
}

// Verify reports ErrPlaceholderMismatch when the statement would bind a
// different number of arguments than it has placeholders.
func (s Statement) Verify() error {
	if s.Placeholders != len(s.Args) {
		return fmt.Errorf("%d placeholders, %d arguments: %w", s.Placeholders, len(s.Args), ErrPlaceholderMismatch)
	}
	return nil
}

// Args accumulates bound values in order. Bind hands back the placeholder
// for the value it just stored, so marker k always refers to value k.
type Args struct {
	values []any
}

// Bind appends v and returns its placeholder ("$1", "$2", ...).
func (a *Args) Bind(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Len returns the number of bound values.
func (a *Args) Len() int {
	return len(a.values)
}

// Values returns the bound values in placeholder order.
func (a *Args) Values() []any {
	return a.values
}

// BuildAny renders the array form. Exactly one argument is bound for any
// number of values; a nil collection is bound as an empty array, not NULL.
func BuildAny[T Scalar](target Target, values []T) (Statement, error) {
	if err := target.Validate(); err != nil {
		return Statement{}, err
	}
	if values == nil {
		values = []T{}
	}

	var args Args
	var b strings.Builder
	b.WriteString(target.selectFrom())
	b.WriteString(" WHERE ")
	b.WriteString(quoteIdent(target.Column))
	b.WriteString(" = ANY(")
	b.WriteString(args.Bind(values))
	b.WriteString(")")
	b.WriteString(target.orderBy())

	return Statement{SQL: b.String(), Args: args.Values(), Placeholders: 1}, nil
}

// BuildIn renders the expanded form with one placeholder per value.
// ok is false for an empty collection: IN () is not valid SQL and no
// statement exists for it.
func BuildIn[T Scalar](target Target, values []T) (stmt Statement, ok bool, err error) {
	if err := target.Validate(); err != nil {
		return Statement{}, false, err
	}
	if len(values) == 0 {
		return Statement{}, false, nil
	}

	var args Args
	var b strings.Builder
	b.WriteString(target.selectFrom())
	b.WriteString(" WHERE ")
	b.WriteString(quoteIdent(target.Column))
	b.WriteString(" IN (")
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(args.Bind(v))
	}
	b.WriteString(")")
	b.WriteString(target.orderBy())

	stmt = Statement{SQL: b.String(), Args: args.Values(), Placeholders: len(values)}
	if err := stmt.Verify(); err != nil {
		return Statement{}, false, err
	}
	return stmt, true, nil
}
