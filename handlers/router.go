// Package handlers exposes the restaurant, recommendation and event
// operations over HTTP.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"platefinder/config"
	"platefinder/events"
	"platefinder/logging"
	"platefinder/recommend"
	"platefinder/restaurants"
	"platefinder/users"
)

// Deps are the services the router dispatches to.
type Deps struct {
	DB          Pinger
	Restaurants *restaurants.Engine
	Recommender *recommend.Engine
	Users       *users.Resolver
	Events      *events.Tracker
	Server      config.ServerConfig
	Limits      config.LimitsConfig
}

// NewRouter builds the HTTP handler with the global middleware stack.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(d.Server.CORSOrigins))

	r.Get("/healthz", HealthHandler(d.DB))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if d.Server.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(d.Server.RateLimitPerMinute, time.Minute))
		}

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", ListHandler(d.Restaurants, d.Limits.Listing))
			r.Get("/cuisines", CuisinesHandler(d.Restaurants))
			r.Get("/search", SearchHandler(d.Restaurants))
			r.Get("/by-price", PriceTierHandler(d.Restaurants))
			r.Get("/top-by-cuisine", TopByCuisineHandler(d.Restaurants, d.Limits.TopPerCuisine))
			r.Get("/cuisine/{cuisine}", CuisineHandler(d.Restaurants))
			r.Get("/dietary/{preference}", DietaryHandler(d.Restaurants))
			r.Get("/{id}", RestaurantHandler(d.Restaurants))
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", TopRatedHandler(d.Restaurants))
			r.Get("/me", MyRecommendationsHandler(d.Recommender, d.Users))
			r.Get("/{userId}", RecommendationsHandler(d.Recommender))
		})

		r.Post("/events", EventsHandler(d.Events))
	})

	return r
}

// RequestIDWithLogging reuses or assigns X-Request-ID and stores it in the
// request context for logging.Ctx.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		chiRequestID := chimiddleware.RequestID(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(chimiddleware.RequestIDHeader)
			if requestID == "" {
				requestID = logging.GenerateRequestID()
				r.Header.Set(chimiddleware.RequestIDHeader, requestID)
			}
			w.Header().Set(chimiddleware.RequestIDHeader, requestID)

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			chiRequestID.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORS allows the web client origins. Events are the only non-GET route.
func CORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", chimiddleware.RequestIDHeader},
		ExposedHeaders:   []string{chimiddleware.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler
}
