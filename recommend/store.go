package recommend

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"platefinder/metrics"
	"platefinder/models"
	"platefinder/query"
)

// PopularMaxRank bounds which stored entries count towards the popular tier.
const PopularMaxRank = 6

// Store reads recommendation lists written by the offline generation job.
type Store interface {
	// ForUser returns the user's list ordered by rank ascending.
	ForUser(ctx context.Context, userID int64) ([]models.Recommendation, error)
	// Popular returns top-ranked entries across all users, best score first.
	Popular(ctx context.Context, limit int) ([]models.Recommendation, error)
}

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const recommendationColumns = "id, user_id, restaurant_name, restaurant_categories, rating, review_count, price_range, score, recommendation_rank, generated_at"

// SQLStore reads the user_recommendations table.
type SQLStore struct {
	db      Querier
	dialect query.Dialect
}

func NewSQLStore(db Querier, dialect query.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) ForUser(ctx context.Context, userID int64) ([]models.Recommendation, error) {
	stmt := "SELECT " + recommendationColumns + " FROM user_recommendations WHERE user_id = " +
		s.dialect.Placeholder(1) + " ORDER BY recommendation_rank ASC, id ASC"
	return s.fetch(ctx, "recommend_personalized", stmt, userID)
}

func (s *SQLStore) Popular(ctx context.Context, limit int) ([]models.Recommendation, error) {
	stmt := fmt.Sprintf("SELECT %s FROM user_recommendations WHERE recommendation_rank <= %s ORDER BY score DESC, id ASC LIMIT %s",
		recommendationColumns, s.dialect.Placeholder(1), s.dialect.Placeholder(2))
	return s.fetch(ctx, "recommend_popular", stmt, PopularMaxRank, limit)
}

func (s *SQLStore) fetch(ctx context.Context, op, stmt string, args ...any) ([]models.Recommendation, error) {
	start := time.Now()
	defer metrics.ObserveQuery(op, start)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Recommendation
	for rows.Next() {
		var (
			rec        models.Recommendation
			categories sql.NullString
			price      sql.NullString
			rating     sql.NullFloat64
			score      sql.NullFloat64
			reviews    sql.NullInt64
			generated  sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.RestaurantName, &categories, &rating,
			&reviews, &price, &score, &rec.Rank, &generated); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		rec.RestaurantCategories = categories.String
		rec.PriceRange = price.String
		rec.Rating = rating.Float64
		rec.Score = score.Float64
		rec.ReviewCount = int(reviews.Int64)
		if generated.Valid {
			t := generated.Time
			rec.GeneratedAt = &t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
