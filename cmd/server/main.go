package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"platefinder/config"
	"platefinder/database"
	"platefinder/events"
	"platefinder/handlers"
	"platefinder/logging"
	"platefinder/recommend"
	"platefinder/restaurants"
	"platefinder/users"
)

// main loads configuration, wires the engines and serves HTTP until
// interrupted.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	db, dialect, err := database.Connect(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wmLogger := events.NewLoggerAdapter()
	pub, localSub, err := events.NewPublisher(cfg.Events, wmLogger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event publisher")
	}
	defer pub.Close()
	if localSub != nil {
		if err := events.Drain(ctx, localSub, cfg.Events.Topic); err != nil {
			logging.Fatal().Err(err).Msg("Failed to subscribe to local events")
		}
		logging.Info().Msg("NATS_URL not set, user events stay in process")
	}

	engine := restaurants.New(db, dialect,
		restaurants.WithListingLimit(cfg.Limits.Listing),
		restaurants.WithCuisineLimit(cfg.Limits.Cuisine),
		restaurants.WithTopRatedLimit(cfg.Limits.TopRated),
		restaurants.WithPoolSize(cfg.Database.MaxOpenConns),
	)
	store := recommend.WithBreaker(recommend.NewSQLStore(db, dialect), recommend.DefaultBreakerConfig())

	router := handlers.NewRouter(handlers.Deps{
		DB:          db,
		Restaurants: engine,
		Recommender: recommend.New(store),
		Users:       users.NewResolver(db, dialect),
		Events:      events.NewTracker(pub, cfg.Events.Topic),
		Server:      cfg.Server,
		Limits:      cfg.Limits,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		logging.Info().Str("port", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
