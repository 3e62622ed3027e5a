package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPostgres(t *testing.T) {
	plan := Build(Request{
		Filters:   Filters{City: "Springfield", PriceTier: "$", Category: "Thai"},
		SortBy:    "review_count",
		SortOrder: "asc",
		Limit:     5,
	}, 20)

	sql, args := Render(plan, Postgres)
	assert.Equal(t,
		"SELECT * FROM restaurants WHERE categories ILIKE $1 AND price_range = $2 AND (address ILIKE $3 OR city ILIKE $4) ORDER BY review_count ASC, id ASC LIMIT $5",
		sql)
	assert.Equal(t, []any{"%Thai%", "$", "%Springfield%", "%Springfield%", 5}, args)
}

func TestRenderSQLite(t *testing.T) {
	plan := Build(Request{Filters: Filters{Text: "taco"}}, 20)

	sql, args := Render(plan, SQLite)
	assert.Equal(t,
		"SELECT * FROM restaurants WHERE (name LIKE ? OR categories LIKE ?) ORDER BY rating DESC, id ASC LIMIT ?",
		sql)
	assert.Equal(t, []any{"%taco%", "%taco%", 20}, args)
}

func TestRenderKeepsUserTextOutOfStatement(t *testing.T) {
	hostile := "x' OR 1=1; DROP TABLE restaurants; --"
	plan := Build(Request{
		Filters:   Filters{City: hostile, Category: hostile, PriceTier: hostile, Cuisine: hostile, Text: hostile},
		SortBy:    hostile,
		SortOrder: hostile,
	}, 20)

	sql, args := Render(plan, Postgres)
	assert.NotContains(t, sql, "DROP")
	assert.NotContains(t, sql, "'")
	assert.Contains(t, sql, "ORDER BY rating DESC")
	require.NotEmpty(t, args)
	assert.Contains(t, args, hostile)
}

func TestRenderSortByID(t *testing.T) {
	sql, _ := Render(Build(Request{SortBy: "id"}, 3), Postgres)
	assert.Equal(t, "SELECT * FROM restaurants ORDER BY id DESC LIMIT $1", sql)
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = DialectFor("oracle")
	assert.Error(t, err)
}
