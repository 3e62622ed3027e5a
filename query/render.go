package query

import (
	"fmt"
	"strings"
)

// Dialect covers the SQL differences between the supported databases.
type Dialect interface {
	Name() string
	// Placeholder returns the n-th (1-based) bind parameter marker.
	Placeholder(n int) string
	// Contains renders a case-insensitive LIKE of column against placeholder.
	Contains(col Column, placeholder string) string
}

type postgresDialect struct{}

func (postgresDialect) Name() string             { return "postgres" }
func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }
func (postgresDialect) Contains(col Column, ph string) string {
	return fmt.Sprintf("%s ILIKE %s", col, ph)
}

// SQLite's LIKE is already case-insensitive for ASCII.
type sqliteDialect struct{}

func (sqliteDialect) Name() string           { return "sqlite3" }
func (sqliteDialect) Placeholder(int) string { return "?" }
func (sqliteDialect) Contains(col Column, ph string) string {
	return fmt.Sprintf("%s LIKE %s", col, ph)
}

var (
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// RestaurantsTable is the table plans are rendered against.
const RestaurantsTable = "restaurants"

// Render produces the SELECT statement and bind arguments for plan.
func Render(plan Plan, d Dialect) (string, []any) {
	var (
		args       []any
		conditions []string
	)
	idx := 1

	for _, c := range plan.Clauses {
		var alts []string
		for _, col := range c.Columns {
			for _, v := range c.Values {
				ph := d.Placeholder(idx)
				idx++
				switch c.Match {
				case Equals:
					alts = append(alts, fmt.Sprintf("%s = %s", col, ph))
					args = append(args, v)
				default:
					alts = append(alts, d.Contains(col, ph))
					args = append(args, "%"+v+"%")
				}
			}
		}
		if len(alts) == 0 {
			continue
		}
		if len(alts) == 1 {
			conditions = append(conditions, alts[0])
		} else {
			conditions = append(conditions, "("+strings.Join(alts, " OR ")+")")
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM " + RestaurantsTable)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	sort := plan.Sort
	if sort == "" {
		sort = DefaultSort
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", sort, plan.Order)
	if sort != ColID {
		sb.WriteString(", id ASC")
	}

	fmt.Fprintf(&sb, " LIMIT %s", d.Placeholder(idx))
	args = append(args, plan.Limit)

	return sb.String(), args
}
