package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgset/internal/render"
	"github.com/vvka-141/pgset/pkg/pgset"
)

// collection is a typed value list usable with either strategy.
type collection interface {
	Len() int
	Build(strategy pgset.Strategy, target pgset.Target) (pgset.Statement, bool, error)
	Select(ctx context.Context, q pgset.Querier, strategy pgset.Strategy, target pgset.Target) (render.ResultSet, error)
}

type typedValues[T pgset.Scalar] []T

func (v typedValues[T]) Len() int { return len(v) }

func (v typedValues[T]) Build(strategy pgset.Strategy, target pgset.Target) (pgset.Statement, bool, error) {
	return pgset.Build(strategy, target, []T(v))
}

func (v typedValues[T]) Select(ctx context.Context, q pgset.Querier, strategy pgset.Strategy, target pgset.Target) (render.ResultSet, error) {
	var columns []string
	scan := func(row pgx.CollectableRow) ([]any, error) {
		if columns == nil {
			for _, fd := range row.FieldDescriptions() {
				columns = append(columns, fd.Name)
			}
		}
		return row.Values()
	}

	rows, err := pgset.Select(ctx, q, strategy, target, []T(v), scan)
	if err != nil {
		return render.ResultSet{}, err
	}
	if columns == nil {
		columns = target.Columns
	}
	return render.ResultSet{Columns: columns, Rows: rows}, nil
}

// parseCollection converts raw strings into the slice type matching valueType.
func parseCollection(valueType string, raw []string) (collection, error) {
	switch strings.ToLower(valueType) {
	case "int", "integer", "int4":
		return parseValues(raw, "int", func(s string) (int32, error) {
			n, err := strconv.ParseInt(s, 10, 32)
			return int32(n), err
		})
	case "bigint", "int8":
		return parseValues(raw, "bigint", func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, 64)
		})
	case "text", "string":
		return typedValues[string](append([]string{}, raw...)), nil
	case "uuid":
		return parseValues(raw, "uuid", uuid.Parse)
	case "bool", "boolean":
		return parseValues(raw, "bool", strconv.ParseBool)
	case "float", "double", "float8":
		return parseValues(raw, "float", func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})
	default:
		return nil, fmt.Errorf("unsupported --type %q (want int, bigint, text, uuid, bool, float): %w", valueType, pgset.ErrInvalidConfig)
	}
}

func parseValues[T pgset.Scalar](raw []string, typeName string, parse func(string) (T, error)) (typedValues[T], error) {
	out := make(typedValues[T], 0, len(raw))
	for i, s := range raw {
		v, err := parse(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("value %d (%q) is not a valid %s: %w", i+1, s, typeName, pgset.ErrInvalidConfig)
		}
		out = append(out, v)
	}
	return out, nil
}

// readValues collects --values followed by the lines of --values-file.
// Blank lines and lines starting with # are skipped in the file.
func readValues(f queryFlags, stdin io.Reader) ([]string, error) {
	values := append([]string{}, f.values...)
	if f.valuesFile == "" {
		return values, nil
	}

	var r io.Reader
	if f.valuesFile == "-" {
		r = stdin
	} else {
		file, err := os.Open(f.valuesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read values file: %v: %w", err, pgset.ErrInvalidConfig)
		}
		defer file.Close()
		r = file
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		values = append(values, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read values file: %w", err)
	}
	return values, nil
}

// loadCollection reads and parses the values described by f.
func loadCollection(f queryFlags, valueType string, stdin io.Reader) (collection, error) {
	raw, err := readValues(f, stdin)
	if err != nil {
		return nil, err
	}
	return parseCollection(valueType, raw)
}
