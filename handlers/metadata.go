package handlers

import (
	"context"
	"net/http"
	"time"

	"platefinder/restaurants"
)

// CuisinesHandler lists every distinct cuisine to populate the client's
// cuisine filter.
func CuisinesHandler(e *restaurants.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, e.AllCuisines(r.Context()))
	}
}

// TopByCuisineHandler returns the best rated restaurants per cuisine, keyed by
// cuisine name.
func TopByCuisineHandler(e *restaurants.Engine, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseLimit(r.URL.Query())
		if limit <= 0 {
			limit = defaultLimit
		}
		writeJSON(w, r, http.StatusOK, e.TopByCuisine(r.Context(), limit))
	}
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the database answers. It always responds 200
// so the listing endpoints, which degrade on their own, stay routable.
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok", "database": "ok"}
		if err := db.PingContext(ctx); err != nil {
			status["database"] = "unavailable"
		}
		writeJSON(w, r, http.StatusOK, status)
	}
}
