// Package pgset runs PostgreSQL set-membership queries over a collection of
// scalar values without ever interpolating those values into SQL text.
//
// Two strategies are provided:
//
//   - SelectAny binds the whole collection as one array parameter:
//     SELECT ... WHERE id = ANY($1)
//   - SelectIn expands the collection into one placeholder per element:
//     SELECT ... WHERE id IN ($1, $2, $3)
//
// SelectAny needs no special case for an empty collection, because an empty
// array is a valid argument to ANY. SelectIn never sends IN () to the server;
// for an empty collection it returns an empty result without a round trip.
//
// # Example Usage
//
//	target := pgset.Target{Table: "users", Column: "id", Columns: []string{"id", "name"}}
//
//	type user struct {
//	    ID   int64
//	    Name string
//	}
//
//	users, err := pgset.SelectAny(ctx, pool, target, []int64{3, 7, 11}, pgx.RowToStructByPos[user])
//	if errors.Is(err, pgset.ErrTypeMismatch) {
//	    // values do not fit the column type
//	}
//
// BuildAny and BuildIn expose statement construction on its own, so the
// generated SQL and its bound arguments can be inspected without a database.
//
// # Thread Safety
//
// All functions are safe for concurrent use. The Querier is borrowed for the
// duration of one call and never closed.
package pgset
