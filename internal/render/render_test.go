package render

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgset/pkg/pgset"
)

func TestRows_Plain(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, false).Rows(ResultSet{
		Columns: []string{"id", "name"},
		Rows:    [][]any{{int64(3), "ann"}, {int64(7), nil}},
	})
	require.NoError(t, err)
	assert.Equal(t, "id\tname\n3\tann\n7\tNULL\n", buf.String())
}

func TestRows_Styled(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, true).Rows(ResultSet{
		Columns: []string{"id", "name"},
		Rows:    [][]any{{int64(11), "kim"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "kim")
	assert.Contains(t, out, "11")
	assert.Contains(t, out, "(1 row)")
}

func TestStatement_Plain(t *testing.T) {
	stmt, ok, err := pgset.BuildIn(pgset.Target{Table: "users", Column: "id"}, []int64{3, 7})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Statement(pgset.StrategyIn, stmt, ok))
	assert.Equal(t, "IN\n  SELECT * FROM \"users\" WHERE \"id\" IN ($1, $2)\n  $1 = 3\n  $2 = 7\n", buf.String())
}

func TestStatement_AnyWithArray(t *testing.T) {
	stmt, err := pgset.BuildAny(pgset.Target{Table: "users", Column: "id"}, []int64{3, 7, 11})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Statement(pgset.StrategyAny, stmt, true))
	assert.Equal(t, "ANY\n  SELECT * FROM \"users\" WHERE \"id\" = ANY($1)\n  $1 = {3,7,11}\n", buf.String())
}

func TestStatement_NoStatement(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Statement(pgset.StrategyIn, pgset.Statement{}, false))
	assert.Contains(t, buf.String(), "no statement")
}

func TestFormatValue(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{"x", "x"},
		{int64(5), "5"},
		{true, "true"},
		{[]byte{0xde, 0xad}, `\xdead`},
		{[16]byte(id), id.String()},
		{id, id.String()},
		{ts, "2024-05-01T12:00:00Z"},
		{[]string{"a", "b"}, "{a,b}"},
		{[]int64{}, "{}"},
		{[]uuid.UUID{id}, "{" + id.String() + "}"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestIsTerminal_EnvOverrides(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, IsTerminal(os.Stdout))

	t.Setenv("NO_COLOR", "")
	t.Setenv("CI", "true")
	assert.False(t, IsTerminal(os.Stdout))
}

func TestIsTerminal_File(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CI", "")

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
}
