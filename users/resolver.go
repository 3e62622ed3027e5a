// Package users resolves authenticated principals to the numeric ids that
// key stored recommendations.
package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"platefinder/logging"
	"platefinder/metrics"
	"platefinder/query"
)

type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Resolver struct {
	db      Querier
	dialect query.Dialect
}

func NewResolver(db Querier, dialect query.Dialect) *Resolver {
	return &Resolver{db: db, dialect: dialect}
}

// UserID looks up the id registered for email. The match ignores case and
// surrounding whitespace. ok is false when the email is blank, unknown, or
// the lookup failed.
func (r *Resolver) UserID(ctx context.Context, email string) (id int64, ok bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, false
	}

	const op = "resolve_user"
	start := time.Now()
	defer metrics.ObserveQuery(op, start)

	stmt := "SELECT id FROM users WHERE LOWER(email) = LOWER(" + r.dialect.Placeholder(1) + ")"
	err := r.db.QueryRowContext(ctx, stmt, email).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false
	case err != nil:
		metrics.RecordDataSourceError(op)
		logging.Ctx(ctx).Error().Err(err).Str("operation", op).Msg("user lookup failed")
		return 0, false
	}
	return id, true
}
