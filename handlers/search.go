package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"platefinder/query"
	"platefinder/restaurants"
)

// ParseListParams extracts listing filters from the URL query. Values are
// passed through unvalidated; the query builder owns their safety. "query"
// and "q" are accepted as text aliases, as are "price" and "priceRange".
func ParseListParams(q url.Values) query.Request {
	req := query.Request{
		Filters: query.Filters{
			City:      q.Get("city"),
			Category:  q.Get("category"),
			PriceTier: q.Get("price"),
			Cuisine:   q.Get("cuisine"),
			Text:      q.Get("query"),
		},
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Limit:     parseLimit(q),
	}
	if req.Filters.Text == "" {
		req.Filters.Text = q.Get("q")
	}
	if req.Filters.PriceTier == "" {
		req.Filters.PriceTier = q.Get("priceRange")
	}
	return req
}

// parseLimit returns 0 for a missing or malformed limit, which the builder
// replaces with the endpoint default.
func parseLimit(q url.Values) int {
	n, _ := strconv.Atoi(strings.TrimSpace(q.Get("limit")))
	return n
}

// ListHandler serves the filtered, sorted restaurant listing.
func ListHandler(e *restaurants.Engine, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plan := query.Build(ParseListParams(r.URL.Query()), defaultLimit)
		writeJSON(w, r, http.StatusOK, e.List(r.Context(), plan))
	}
}

// RestaurantHandler returns one restaurant, or null when the id is unknown.
func RestaurantHandler(e *restaurants.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "id must be numeric")
			return
		}
		writeJSON(w, r, http.StatusOK, e.ByID(r.Context(), id))
	}
}

// SearchHandler matches ?query= against names and categories, optionally
// narrowed to ?city=.
func SearchHandler(e *restaurants.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		text := q.Get("query")
		if text == "" {
			text = q.Get("q")
		}
		writeJSON(w, r, http.StatusOK, e.SearchInCity(r.Context(), text, q.Get("city")))
	}
}

// PriceTierHandler lists exact ?priceRange= matches.
func PriceTierHandler(e *restaurants.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		tier := q.Get("priceRange")
		if tier == "" {
			tier = q.Get("price")
		}
		writeJSON(w, r, http.StatusOK, e.ByPriceTier(r.Context(), tier))
	}
}

func CuisineHandler(e *restaurants.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		found := e.ByCuisine(r.Context(), chi.URLParam(r, "cuisine"), q.Get("sortBy"), q.Get("sortOrder"), parseLimit(q))
		writeJSON(w, r, http.StatusOK, found)
	}
}

func DietaryHandler(e *restaurants.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found := e.ByDietaryPreference(r.Context(), chi.URLParam(r, "preference"), parseLimit(r.URL.Query()))
		writeJSON(w, r, http.StatusOK, found)
	}
}
