// Package taxonomy maps the free-text category strings scraped from listing
// sites onto the fixed cuisine buckets the client uses for display.
package taxonomy

import (
	"sort"
	"strings"
)

// DefaultImageGroup is used when the primary category is absent or unknown.
const DefaultImageGroup = "American"

// imageGroups is keyed on the exact capitalization the ingestion job writes.
var imageGroups = map[string]string{
	"Pizza":         "Italian",
	"Italian":       "Italian",
	"Mexican":       "Mexican",
	"Bars":          "American",
	"Steakhouses":   "American",
	"American":      "American",
	"Pubs":          "American",
	"Beer Bar":      "American",
	"Indian":        "Indian",
	"Vegetarian":    "Vegetarian",
	"Vegan":         "Vegetarian",
	"Mediterranean": "Mediterranean",
	"Greek":         "Mediterranean",
	"Thai":          "Thai",
	"Chinese":       "Chinese",
	"Japanese":      "Japanese",
	"Sushi":         "Japanese",
	"French":        "French",
	"Seafood":       "Seafood",
	"Vietnamese":    "Vietnamese",
	"Korean":        "Korean",
}

// Split breaks a comma-delimited category list into trimmed, non-empty terms.
// Order and duplicates are preserved.
func Split(raw string) []string {
	terms := []string{}
	for _, part := range strings.Split(raw, ",") {
		if term := strings.TrimSpace(part); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// Normalize returns the cuisine terms of raw and the image group of its
// primary (first) category.
func Normalize(raw string) ([]string, string) {
	terms := Split(raw)
	if len(terms) == 0 {
		return terms, DefaultImageGroup
	}
	return terms, ImageGroup(terms[0])
}

// ImageGroup looks up a single category term. The match is case-sensitive.
func ImageGroup(primary string) string {
	if group, ok := imageGroups[primary]; ok {
		return group
	}
	return DefaultImageGroup
}

// ImagePath is the static asset served for an image group.
func ImagePath(group string) string {
	return "/images/cuisine_images/" + group + "_cuisine.jpg"
}

// DistinctCuisines collects every term across all category strings and
// returns them sorted case-insensitively. Case is not folded: "Thai" and
// "thai" are distinct entries.
func DistinctCuisines(all []string) []string {
	seen := make(map[string]struct{})
	for _, raw := range all {
		for _, term := range Split(raw) {
			seen[term] = struct{}{}
		}
	}

	cuisines := make([]string, 0, len(seen))
	for term := range seen {
		cuisines = append(cuisines, term)
	}
	sort.Slice(cuisines, func(i, j int) bool {
		li, lj := strings.ToLower(cuisines[i]), strings.ToLower(cuisines[j])
		if li != lj {
			return li < lj
		}
		return cuisines[i] < cuisines[j]
	})
	return cuisines
}
