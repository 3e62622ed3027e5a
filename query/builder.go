package query

import "strings"

// Filters are the optional predicates of a listing request. Empty fields
// contribute nothing.
type Filters struct {
	City      string
	Category  string
	PriceTier string
	Cuisine   string
	Text      string

	// AnyCategory matches restaurants whose categories contain at least one
	// of the terms.
	AnyCategory []string
}

// Request is a listing request as received from the HTTP layer, unvalidated.
type Request struct {
	Filters
	SortBy    string
	SortOrder string
	Limit     int
}

// Build validates req into a Plan. A non-positive limit falls back to
// defaultLimit, which callers choose per endpoint.
func Build(req Request, defaultLimit int) Plan {
	plan := Plan{
		Clauses: clauses(req.Filters),
		Sort:    SortColumn(req.SortBy),
		Order:   ParseDirection(req.SortOrder),
		Limit:   req.Limit,
	}
	if plan.Limit <= 0 {
		plan.Limit = defaultLimit
	}
	return plan
}

func clauses(f Filters) []Clause {
	var out []Clause

	if v := strings.TrimSpace(f.Category); v != "" {
		out = append(out, Clause{Columns: []Column{ColCategories}, Match: Contains, Values: []string{v}})
	}
	if v := strings.TrimSpace(f.Cuisine); v != "" {
		out = append(out, Clause{Columns: []Column{ColCategories}, Match: Contains, Values: []string{v}})
	}
	if v := strings.TrimSpace(f.PriceTier); v != "" {
		out = append(out, Clause{Columns: []Column{ColPriceRange}, Match: Equals, Values: []string{v}})
	}
	// Not every schema has a normalized city column, so the address is
	// searched as well.
	if v := strings.TrimSpace(f.City); v != "" {
		out = append(out, Clause{Columns: []Column{ColAddress, ColCity}, Match: Contains, Values: []string{v}})
	}
	if v := strings.TrimSpace(f.Text); v != "" {
		out = append(out, Clause{Columns: []Column{ColName, ColCategories}, Match: Contains, Values: []string{v}})
	}

	var terms []string
	for _, term := range f.AnyCategory {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	if len(terms) > 0 {
		out = append(out, Clause{Columns: []Column{ColCategories}, Match: Contains, Values: terms})
	}

	return out
}
