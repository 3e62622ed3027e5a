package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"platefinder/recommend"
	"platefinder/restaurants"
	"platefinder/users"
)

// AuthenticatedEmailHeader is set by the upstream auth layer.
const AuthenticatedEmailHeader = "X-Authenticated-Email"

// TopRatedHandler serves the generic recommendation listing.
func TopRatedHandler(e *restaurants.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, e.TopRated(r.Context(), parseLimit(r.URL.Query())))
	}
}

// RecommendationsHandler serves /{userId}. A non-numeric id is treated as
// anonymous.
func RecommendationsHandler(rec *recommend.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userID *int64
		if id, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64); err == nil {
			userID = &id
		}
		writeJSON(w, r, http.StatusOK, rec.Recommend(r.Context(), userID))
	}
}

// MyRecommendationsHandler resolves the authenticated principal before
// recommending. Unknown principals get the anonymous chain.
func MyRecommendationsHandler(rec *recommend.Engine, resolver *users.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userID *int64
		if id, ok := resolver.UserID(r.Context(), r.Header.Get(AuthenticatedEmailHeader)); ok {
			userID = &id
		}
		writeJSON(w, r, http.StatusOK, rec.Recommend(r.Context(), userID))
	}
}
