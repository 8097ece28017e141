// Package render prints query results and statements.
//
// On a terminal results are drawn as a lipgloss table; otherwise they are
// written as tab-separated values so output can be piped.
package render

import (
	"database/sql/driver"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/vvka-141/pgset/pkg/pgset"
	"golang.org/x/term"
)

var (
	colorPrimary = lipgloss.Color("39")  // Blue
	colorMuted   = lipgloss.Color("240") // Dark gray

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// ResultSet is a rendered-agnostic view of query output.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Renderer writes results to out, styled or plain.
type Renderer struct {
	out    io.Writer
	styled bool
}

// New creates a Renderer. Use IsTerminal to decide styled.
func New(out io.Writer, styled bool) *Renderer {
	return &Renderer{out: out, styled: styled}
}

// IsTerminal reports whether styled output suits f.
//
// Returns false if:
//   - NO_COLOR is set
//   - CI is set
//   - f is not a terminal (piped or redirected output)
func IsTerminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Rows prints rs followed by a row count line.
func (r *Renderer) Rows(rs ResultSet) error {
	cells := make([][]string, len(rs.Rows))
	for i, row := range rs.Rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = FormatValue(v)
		}
	}

	if !r.styled {
		if len(rs.Columns) > 0 {
			if _, err := fmt.Fprintln(r.out, strings.Join(rs.Columns, "\t")); err != nil {
				return err
			}
		}
		for _, row := range cells {
			if _, err := fmt.Fprintln(r.out, strings.Join(row, "\t")); err != nil {
				return err
			}
		}
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(rs.Columns...).
		Rows(cells...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(r.out, "%s\n%s\n", t.Render(), mutedStyle.Render(rowCount(len(cells))))
	return err
}

// Statement prints a built statement and its bound arguments. ok=false
// marks a strategy that sends nothing for the given input.
func (r *Renderer) Statement(strategy pgset.Strategy, stmt pgset.Statement, ok bool) error {
	label := strings.ToUpper(strategy.String())
	if r.styled {
		label = labelStyle.Render(label)
	}

	if !ok {
		_, err := fmt.Fprintf(r.out, "%s\n  (no statement: empty collection, result is empty)\n", label)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n  %s\n", label, stmt.SQL)
	for i, arg := range stmt.Args {
		fmt.Fprintf(&b, "  $%d = %s\n", i+1, FormatValue(arg))
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

func rowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}

// FormatValue renders a value as returned by pgx.Rows.Values, or a bound
// argument, for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case []byte:
		return fmt.Sprintf("\\x%x", x)
	case [16]byte:
		return uuid.UUID(x).String()
	case uuid.UUID:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case []string:
		return "{" + strings.Join(x, ",") + "}"
	case fmt.Stringer:
		return x.String()
	case driver.Valuer:
		// pgtype.Numeric, pgtype.Interval and friends
		if dv, err := x.Value(); err == nil {
			return FormatValue(dv)
		}
	}
	return formatSlice(v)
}

func formatSlice(v any) string {
	switch x := v.(type) {
	case []int64:
		return joinAny(x)
	case []int32:
		return joinAny(x)
	case []float64:
		return joinAny(x)
	case []bool:
		return joinAny(x)
	case []uuid.UUID:
		return joinAny(x)
	case []time.Time:
		return joinAny(x)
	}
	return fmt.Sprint(v)
}

func joinAny[T any](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatValue(v)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
