// Package query turns loosely specified filter and sort requests into
// validated query plans and renders them as parameterized SQL.
//
// A Plan only ever holds allow-listed column names. User supplied text is
// carried as clause values and reaches the database as bound parameters.
package query

import "strings"

// Column is a restaurants column that may appear in query structure.
// Values outside the constants below cannot be produced by this package.
type Column string

const (
	ColID          Column = "id"
	ColName        Column = "name"
	ColRating      Column = "rating"
	ColReviewCount Column = "review_count"
	ColPriceRange  Column = "price_range"
	ColCategories  Column = "categories"
	ColCity        Column = "city"
	ColAddress     Column = "address"
)

// DefaultSort is the column used when the requested sort is not allowed.
const DefaultSort = ColRating

var sortable = map[string]Column{
	"id":           ColID,
	"name":         ColName,
	"rating":       ColRating,
	"review_count": ColReviewCount,
	"price_range":  ColPriceRange,
	"categories":   ColCategories,
	"city":         ColCity,
	"address":      ColAddress,
}

// SortColumn resolves a requested sort column against the allow-list.
// Anything else, including the empty string, yields DefaultSort.
func SortColumn(requested string) Column {
	if col, ok := sortable[strings.ToLower(strings.TrimSpace(requested))]; ok {
		return col
	}
	return DefaultSort
}

// Direction is a sort direction.
type Direction int

const (
	Desc Direction = iota
	Asc
)

func (d Direction) String() string {
	if d == Asc {
		return "ASC"
	}
	return "DESC"
}

// ParseDirection accepts "asc" in any case; everything else sorts descending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return Asc
	}
	return Desc
}

// Match is the predicate shape of a clause.
type Match int

const (
	// Contains is a case-insensitive substring match.
	Contains Match = iota
	// Equals is an exact match.
	Equals
)

// Clause matches when any (column, value) pair matches. Clauses in a plan
// are AND-combined.
type Clause struct {
	Columns []Column
	Match   Match
	Values  []string
}

// Plan is a validated restaurants query ready to render.
type Plan struct {
	Clauses []Clause
	Sort    Column
	Order   Direction
	Limit   int
}
