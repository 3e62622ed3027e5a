// Package testdb provides the restaurants schema and a fixed fixture set for
// tests, backed by in-memory SQLite or any database/sql handle.
package testdb

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"platefinder/query"
)

// Schema is valid for both SQLite and Postgres.
const Schema = `
CREATE TABLE restaurants (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	rating DOUBLE PRECISION,
	review_count INTEGER,
	price_range TEXT,
	categories TEXT,
	address TEXT,
	city TEXT,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	phone TEXT,
	url TEXT
);
CREATE TABLE user_recommendations (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL,
	restaurant_name TEXT NOT NULL,
	restaurant_categories TEXT,
	rating DOUBLE PRECISION,
	review_count INTEGER,
	price_range TEXT,
	score DOUBLE PRECISION,
	recommendation_rank INTEGER NOT NULL,
	generated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	email TEXT NOT NULL UNIQUE
);
`

// LegacySchema is the early restaurants layout without city, geo or contact
// columns.
const LegacySchema = `
CREATE TABLE restaurants (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	rating DOUBLE PRECISION,
	review_count INTEGER,
	price_range TEXT,
	categories TEXT,
	address TEXT
);
`

type restaurantRow struct {
	ID          int64
	Name        string
	Rating      float64
	ReviewCount int
	PriceRange  string
	Categories  string
	Address     string
	City        any
	Latitude    any
	Longitude   any
}

// Restaurants is the fixture set loaded by Seed.
var Restaurants = []restaurantRow{
	{1, "Luigi's Pizzeria", 4.5, 120, "$$", "Pizza, Italian", "123 Main St, Springfield, IL", nil, 39.78, -89.65},
	{2, "Bangkok Garden", 4.7, 80, "$", "Thai", "9 Elm St, Shelbyville, IL", "Shelbyville", nil, nil},
	{3, "The Rusty Tap", 3.9, 200, "$$", "Bars, American", "44 Oak Ave, Springfield, IL", nil, nil, nil},
	{4, "Sakura Sushi", 4.8, 150, "$$$", "Sushi, Japanese", "7 Pine Rd, Capital City", "Capital City", nil, nil},
	{5, "Green Leaf", 4.2, 60, "$", "Vegan, Salad", "1 Market Sq", nil, nil, nil},
	{6, "Taqueria Sol", 4.4, 95, "$", "Mexican, Seafood", "", nil, nil, nil},
	{7, "thai express", 3.5, 10, "$", "thai", "2 River Rd, Springfield, IL", nil, nil, nil},
}

type recommendationRow struct {
	ID         int64
	UserID     int64
	Name       string
	Categories string
	Rating     float64
	Reviews    int
	PriceRange string
	Score      float64
	Rank       int
}

// Recommendations holds three ranked entries for user 1 and a longer list
// for user 3. User 2 has none.
var Recommendations = []recommendationRow{
	{1, 1, "Sakura Sushi", "Sushi, Japanese", 4.8, 150, "$$$", 4.9, 1},
	{2, 1, "Bangkok Garden", "Thai", 4.7, 80, "$", 4.6, 2},
	{3, 1, "Green Leaf", "Vegan, Salad", 4.2, 60, "$", 4.1, 3},
	{4, 3, "Luigi's Pizzeria", "Pizza, Italian", 4.5, 120, "$$", 4.8, 1},
	{5, 3, "Taqueria Sol", "Mexican, Seafood", 4.4, 95, "$", 4.7, 2},
	{6, 3, "The Rusty Tap", "Bars, American", 3.9, 200, "$$", 4.5, 3},
	{7, 3, "Bangkok Garden", "Thai", 4.7, 80, "$", 4.4, 4},
	{8, 3, "thai express", "thai", 3.5, 10, "$", 4.0, 5},
	{9, 3, "Sakura Sushi", "Sushi, Japanese", 4.8, 150, "$$$", 5.0, 7},
}

// Users maps emails to ids.
var Users = map[string]int64{
	"ana@example.com": 1,
	"lee@example.com": 2,
	"kim@example.com": 3,
}

// NewSQLite returns a seeded in-memory database. The pool is pinned to one
// connection because every SQLite memory connection is its own database.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()
	db := open(t)
	Exec(t, db, Schema)
	Seed(t, db, query.SQLite)
	return db
}

// NewLegacySQLite returns an in-memory database using LegacySchema, seeded
// with the restaurant fixtures.
func NewLegacySQLite(t testing.TB) *sql.DB {
	t.Helper()
	db := open(t)
	Exec(t, db, LegacySchema)
	for _, r := range Restaurants {
		insert(t, db, query.SQLite, "restaurants",
			[]string{"id", "name", "rating", "review_count", "price_range", "categories", "address"},
			r.ID, r.Name, r.Rating, r.ReviewCount, r.PriceRange, r.Categories, r.Address)
	}
	return db
}

func open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// Exec runs a statement batch or fails the test.
func Exec(t testing.TB, db *sql.DB, stmt string) {
	t.Helper()
	if _, err := db.Exec(stmt); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
}

// Seed inserts all fixtures using the dialect's placeholders.
func Seed(t testing.TB, db *sql.DB, d query.Dialect) {
	t.Helper()
	for _, r := range Restaurants {
		insert(t, db, d, "restaurants",
			[]string{"id", "name", "rating", "review_count", "price_range", "categories", "address", "city", "latitude", "longitude"},
			r.ID, r.Name, r.Rating, r.ReviewCount, r.PriceRange, r.Categories, r.Address, r.City, r.Latitude, r.Longitude)
	}
	for _, r := range Recommendations {
		insert(t, db, d, "user_recommendations",
			[]string{"id", "user_id", "restaurant_name", "restaurant_categories", "rating", "review_count", "price_range", "score", "recommendation_rank"},
			r.ID, r.UserID, r.Name, r.Categories, r.Rating, r.Reviews, r.PriceRange, r.Score, r.Rank)
	}
	for email, id := range Users {
		insert(t, db, d, "users", []string{"id", "email"}, id, email)
	}
}

func insert(t testing.TB, db *sql.DB, d query.Dialect, table string, cols []string, args ...any) {
	t.Helper()
	phs := make([]string, len(cols))
	for i := range cols {
		phs[i] = d.Placeholder(i + 1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(phs, ", "))
	if _, err := db.Exec(stmt, args...); err != nil {
		t.Fatalf("insert into %s: %v", table, err)
	}
}
