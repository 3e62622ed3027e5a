package recommend

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"platefinder/logging"
	"platefinder/models"
)

// BreakerConfig tunes the circuit breaker placed in front of a Store.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "recommendation-store",
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 5,
	}
}

// breakerStore short-circuits a failing Store. While open every call fails
// immediately with gobreaker.ErrOpenState.
type breakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]models.Recommendation]
}

// WithBreaker wraps store in a circuit breaker. Empty results are successes.
func WithBreaker(store Store, cfg BreakerConfig) Store {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("recommendation store circuit breaker state changed")
		},
	}
	return &breakerStore{
		next: store,
		cb:   gobreaker.NewCircuitBreaker[[]models.Recommendation](settings),
	}
}

func (b *breakerStore) ForUser(ctx context.Context, userID int64) ([]models.Recommendation, error) {
	return b.cb.Execute(func() ([]models.Recommendation, error) {
		return b.next.ForUser(ctx, userID)
	})
}

func (b *breakerStore) Popular(ctx context.Context, limit int) ([]models.Recommendation, error) {
	return b.cb.Execute(func() ([]models.Recommendation, error) {
		return b.next.Popular(ctx, limit)
	})
}
