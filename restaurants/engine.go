// Package restaurants executes validated query plans against the restaurants
// table. Every operation returns a non-nil result: data source failures are
// logged, counted and degraded to an empty result.
package restaurants

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"platefinder/logging"
	"platefinder/metrics"
	"platefinder/models"
	"platefinder/query"
	"platefinder/taxonomy"
	"platefinder/worker"
)

const (
	// FixedLimit caps the price tier and text search listings.
	FixedLimit = 20

	DefaultListingLimit  = 20
	DefaultCuisineLimit  = 50
	DefaultTopRatedLimit = 6
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Engine serves read-only restaurant listings. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	db            Querier
	dialect       query.Dialect
	listingLimit  int
	cuisineLimit  int
	topRatedLimit int
	poolSize      int
}

type Option func(*Engine)

// WithListingLimit sets the default cap for the dietary listing.
func WithListingLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.listingLimit = n
		}
	}
}

// WithCuisineLimit sets the default cap for ByCuisine.
func WithCuisineLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cuisineLimit = n
		}
	}
}

// WithTopRatedLimit sets the default cap for TopRated.
func WithTopRatedLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topRatedLimit = n
		}
	}
}

// WithPoolSize bounds the concurrent per-cuisine queries of TopByCuisine.
func WithPoolSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.poolSize = n
		}
	}
}

func New(db Querier, dialect query.Dialect, opts ...Option) *Engine {
	e := &Engine{
		db:            db,
		dialect:       dialect,
		listingLimit:  DefaultListingLimit,
		cuisineLimit:  DefaultCuisineLimit,
		topRatedLimit: DefaultTopRatedLimit,
		poolSize:      worker.DefaultPoolSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// List executes a fully composed plan.
func (e *Engine) List(ctx context.Context, plan query.Plan) []models.Restaurant {
	return e.run(ctx, "list", plan)
}

// ByID returns the restaurant with the given id, or nil if there is none.
func (e *Engine) ByID(ctx context.Context, id int64) *models.Restaurant {
	stmt := "SELECT * FROM " + query.RestaurantsTable + " WHERE id = " + e.dialect.Placeholder(1)
	found := e.fetch(ctx, "by_id", stmt, id)
	if len(found) == 0 {
		return nil
	}
	return &found[0]
}

// ByPriceTier lists exact price tier matches, best rated first. A blank tier
// matches nothing.
func (e *Engine) ByPriceTier(ctx context.Context, tier string) []models.Restaurant {
	if strings.TrimSpace(tier) == "" {
		return []models.Restaurant{}
	}
	plan := query.Build(query.Request{
		Filters: query.Filters{PriceTier: tier},
		SortBy:  string(query.ColRating),
	}, FixedLimit)
	return e.run(ctx, "by_price_tier", plan)
}

// Search matches text against name or categories, best rated first.
func (e *Engine) Search(ctx context.Context, text string) []models.Restaurant {
	return e.SearchInCity(ctx, text, "")
}

// SearchInCity is Search narrowed to a city when city is non-empty.
func (e *Engine) SearchInCity(ctx context.Context, text, city string) []models.Restaurant {
	plan := query.Build(query.Request{
		Filters: query.Filters{Text: text, City: city},
		SortBy:  string(query.ColRating),
	}, FixedLimit)
	return e.run(ctx, "search", plan)
}

// ByCuisine lists restaurants whose categories contain cuisine. Sort and
// limit go through the same validation as any listing.
func (e *Engine) ByCuisine(ctx context.Context, cuisine, sortBy, sortOrder string, limit int) []models.Restaurant {
	plan := query.Build(query.Request{
		Filters:   query.Filters{Cuisine: cuisine},
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Limit:     limit,
	}, e.cuisineLimit)
	return e.run(ctx, "by_cuisine", plan)
}

// TopByCuisine returns the best rated restaurants of every known cuisine.
// Cuisines without matches are left out. The per-cuisine queries run on a
// bounded pool.
func (e *Engine) TopByCuisine(ctx context.Context, limit int) map[string][]models.Restaurant {
	cuisines := e.AllCuisines(ctx)
	found := make([][]models.Restaurant, len(cuisines))
	worker.Each(ctx, cuisines, e.poolSize, func(ctx context.Context, i int, cuisine string) {
		found[i] = e.ByCuisine(ctx, cuisine, string(query.ColRating), "desc", limit)
	})

	top := make(map[string][]models.Restaurant, len(cuisines))
	for i, cuisine := range cuisines {
		if len(found[i]) > 0 {
			top[cuisine] = found[i]
		}
	}
	return top
}

// AllCuisines lists every distinct cuisine term in the collection, sorted
// case-insensitively.
func (e *Engine) AllCuisines(ctx context.Context) []string {
	const op = "all_cuisines"
	start := time.Now()
	defer metrics.ObserveQuery(op, start)

	rows, err := e.db.QueryContext(ctx, "SELECT DISTINCT categories FROM "+query.RestaurantsTable+" WHERE categories IS NOT NULL")
	if err != nil {
		e.fail(ctx, op, err)
		return []string{}
	}
	defer rows.Close()

	var all []string
	for rows.Next() {
		var categories string
		if err := rows.Scan(&categories); err != nil {
			e.fail(ctx, op, err)
			return []string{}
		}
		all = append(all, categories)
	}
	if err := rows.Err(); err != nil {
		e.fail(ctx, op, err)
		return []string{}
	}
	return taxonomy.DistinctCuisines(all)
}

// TopRated lists the best rated restaurants overall.
func (e *Engine) TopRated(ctx context.Context, limit int) []models.Restaurant {
	plan := query.Build(query.Request{SortBy: string(query.ColRating), Limit: limit}, e.topRatedLimit)
	return e.run(ctx, "top_rated", plan)
}

// ByDietaryPreference lists restaurants whose categories contain any term
// associated with the preference. A blank preference matches nothing.
func (e *Engine) ByDietaryPreference(ctx context.Context, preference string, limit int) []models.Restaurant {
	terms := taxonomy.DietaryCategories(preference)
	if len(terms) == 0 {
		return []models.Restaurant{}
	}
	plan := query.Build(query.Request{
		Filters: query.Filters{AnyCategory: terms},
		SortBy:  string(query.ColRating),
		Limit:   limit,
	}, e.listingLimit)
	return e.run(ctx, "by_dietary_preference", plan)
}

func (e *Engine) run(ctx context.Context, op string, plan query.Plan) []models.Restaurant {
	stmt, args := query.Render(plan, e.dialect)
	return e.fetch(ctx, op, stmt, args...)
}

func (e *Engine) fetch(ctx context.Context, op, stmt string, args ...any) []models.Restaurant {
	start := time.Now()
	defer metrics.ObserveQuery(op, start)

	rows, err := e.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		e.fail(ctx, op, err)
		return []models.Restaurant{}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		e.fail(ctx, op, err)
		return []models.Restaurant{}
	}

	results := []models.Restaurant{}
	for rows.Next() {
		r, err := scanRestaurant(rows, cols)
		if err != nil {
			e.fail(ctx, op, err)
			return []models.Restaurant{}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		e.fail(ctx, op, err)
		return []models.Restaurant{}
	}
	return results
}

func (e *Engine) fail(ctx context.Context, op string, err error) {
	metrics.RecordDataSourceError(op)
	logging.Ctx(ctx).Error().Err(err).Str("operation", op).Msg("restaurant query failed")
}
