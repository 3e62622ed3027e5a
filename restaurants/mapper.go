package restaurants

import (
	"database/sql"
	"strings"

	"platefinder/models"
	"platefinder/taxonomy"
)

// DefaultCity is reported when neither a city column nor the address yields one.
const DefaultCity = "Mankato"

// DeriveCity picks the display city: a non-empty city column wins, then the
// second comma-separated segment of the address, then DefaultCity.
func DeriveCity(city, address string) string {
	if c := strings.TrimSpace(city); c != "" {
		return c
	}
	parts := strings.Split(address, ",")
	if len(parts) >= 2 {
		if c := strings.TrimSpace(parts[1]); c != "" {
			return c
		}
	}
	return DefaultCity
}

// scanRestaurant maps the current row by column name. Columns the schema
// lacks leave their field unset; unknown columns are discarded.
func scanRestaurant(rows *sql.Rows, cols []string) (models.Restaurant, error) {
	var (
		id, reviews                                       sql.NullInt64
		name, price, categories, address, city, phone, url sql.NullString
		rating, lat, lon                                  sql.NullFloat64
	)

	dest := make([]any, len(cols))
	for i, col := range cols {
		switch strings.ToLower(col) {
		case "id":
			dest[i] = &id
		case "name":
			dest[i] = &name
		case "rating":
			dest[i] = &rating
		case "review_count":
			dest[i] = &reviews
		case "price_range":
			dest[i] = &price
		case "categories":
			dest[i] = &categories
		case "address":
			dest[i] = &address
		case "city":
			dest[i] = &city
		case "latitude":
			dest[i] = &lat
		case "longitude":
			dest[i] = &lon
		case "phone":
			dest[i] = &phone
		case "url":
			dest[i] = &url
		default:
			dest[i] = new(any)
		}
	}

	if err := rows.Scan(dest...); err != nil {
		return models.Restaurant{}, err
	}

	r := models.Restaurant{
		ID:          id.Int64,
		Name:        name.String,
		Rating:      rating.Float64,
		ReviewCount: int(reviews.Int64),
		PriceRange:  price.String,
		Categories:  categories.String,
		Address:     address.String,
		City:        DeriveCity(city.String, address.String),
		Phone:       phone.String,
		URL:         url.String,
	}
	if lat.Valid {
		v := lat.Float64
		r.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		r.Longitude = &v
	}

	_, group := taxonomy.Normalize(r.Categories)
	r.ImageGroup = group
	r.Image = taxonomy.ImagePath(group)
	return r, nil
}
