// Package recommend produces recommendation lists through a fixed fallback
// chain: the user's stored list, then the globally popular entries, then a
// built-in list. Recommend never fails.
package recommend

import (
	"context"

	"platefinder/logging"
	"platefinder/metrics"
	"platefinder/models"
)

// PopularLimit caps the popular tier.
const PopularLimit = 6

const (
	TierPersonalized = "personalized"
	TierPopular      = "popular"
	TierBuiltin      = "builtin"
)

var builtin = []struct {
	name     string
	category string
	rating   float64
}{
	{"Bella Italia", "Italian", 4.8},
	{"Mumbai Spice", "Indian", 4.6},
	{"La Parisienne", "French", 4.7},
	{"Cancun Grill", "Mexican", 4.5},
	{"Bangkok Kitchen", "Thai", 4.4},
	{"Athens Taverna", "Mediterranean", 4.3},
}

// Defaults returns a fresh copy of the built-in list, ranked 1..6 in fixed
// order with score equal to rating.
func Defaults() []models.Recommendation {
	out := make([]models.Recommendation, len(builtin))
	for i, b := range builtin {
		out[i] = models.Recommendation{
			RestaurantName:       b.name,
			RestaurantCategories: b.category,
			Rating:               b.rating,
			Score:                b.rating,
			Rank:                 i + 1,
		}
	}
	return out
}

type Engine struct {
	store Store
}

func New(store Store) *Engine {
	return &Engine{store: store}
}

// Recommend returns the first non-empty tier for userID. A nil userID skips
// the personalized tier. Store errors and empty results degrade the same way.
func (e *Engine) Recommend(ctx context.Context, userID *int64) []models.Recommendation {
	log := logging.Ctx(ctx)

	if userID != nil {
		recs, err := e.store.ForUser(ctx, *userID)
		switch {
		case err != nil:
			metrics.RecordDataSourceError(TierPersonalized)
			log.Error().Err(err).Int64("user_id", *userID).Msg("personalized recommendations unavailable")
		case len(recs) > 0:
			metrics.RecordTier(TierPersonalized)
			return recs
		default:
			log.Debug().Int64("user_id", *userID).Msg("no personalized recommendations")
		}
	}

	recs, err := e.store.Popular(ctx, PopularLimit)
	switch {
	case err != nil:
		metrics.RecordDataSourceError(TierPopular)
		log.Error().Err(err).Msg("popular recommendations unavailable")
	case len(recs) > 0:
		metrics.RecordTier(TierPopular)
		if len(recs) > PopularLimit {
			recs = recs[:PopularLimit]
		}
		return recs
	default:
		log.Debug().Msg("no popular recommendations")
	}

	log.Warn().Msg("serving built-in recommendations")
	metrics.RecordTier(TierBuiltin)
	return Defaults()
}
