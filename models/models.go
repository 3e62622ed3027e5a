package models

import "time"

// Restaurant represents a dining establishment as served to the client. Records
// are owned by the ingestion pipeline; this service only reads them.
type Restaurant struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	PriceRange  string   `json:"price_range"`
	Categories  string   `json:"categories"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	URL         string   `json:"url,omitempty"`

	// Derived from the primary category.
	ImageGroup string `json:"image_group"`
	Image      string `json:"image"`
}

// Recommendation is one ranked entry of a user's recommendation list, as
// written by the offline recommendation job.
type Recommendation struct {
	ID                   int64      `json:"id,omitempty"`
	UserID               int64      `json:"user_id,omitempty"`
	RestaurantName       string     `json:"restaurant_name"`
	RestaurantCategories string     `json:"restaurant_categories"`
	Rating               float64    `json:"rating"`
	ReviewCount          int        `json:"review_count"`
	PriceRange           string     `json:"price_range,omitempty"`
	Score                float64    `json:"score"`
	Rank                 int        `json:"recommendation_rank"`
	GeneratedAt          *time.Time `json:"generated_at,omitempty"`
}

// Event is a user interaction reported by the web client.
type Event struct {
	EventType string         `json:"eventType" validate:"required,oneof=CUISINE_SELECTED DIETARY_PREFERENCE_SELECTED RESTAURANT_VIEWED RESTAURANT_BOOKMARKED SEARCH_PERFORMED"`
	Timestamp string         `json:"timestamp"`
	UserID    *int64         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}
