package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		cuisines []string
		group    string
	}{
		{"pizza maps to italian", "Pizza, Bars", []string{"Pizza", "Bars"}, "Italian"},
		{"empty input", "", []string{}, "American"},
		{"only separators", " , ,", []string{}, "American"},
		{"unknown primary", "Ethiopian, Thai", []string{"Ethiopian", "Thai"}, "American"},
		{"case sensitive lookup", "sushi", []string{"sushi"}, "American"},
		{"duplicates kept", "Sushi,Sushi , Bars", []string{"Sushi", "Sushi", "Bars"}, "Japanese"},
		{"leading empty segment skipped", ", Greek", []string{"Greek"}, "Mediterranean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cuisines, group := Normalize(tt.raw)
			assert.Equal(t, tt.cuisines, cuisines)
			assert.Equal(t, tt.group, group)
		})
	}
}

func TestImagePath(t *testing.T) {
	assert.Equal(t, "/images/cuisine_images/Thai_cuisine.jpg", ImagePath(ImageGroup("Thai")))
}

func TestDistinctCuisines(t *testing.T) {
	got := DistinctCuisines([]string{"Italian, Pizza", "Thai", "italian"})
	assert.Equal(t, []string{"Italian", "italian", "Pizza", "Thai"}, got)
}

func TestDistinctCuisinesEmpty(t *testing.T) {
	assert.Empty(t, DistinctCuisines(nil))
	assert.NotNil(t, DistinctCuisines([]string{"", " , "}))
}

func TestDietaryCategories(t *testing.T) {
	assert.Equal(t, []string{"seafood", "fish", "sushi"}, DietaryCategories("Pescatarian"))
	assert.Equal(t, []string{"paleo"}, DietaryCategories(" Paleo "))
	assert.Nil(t, DietaryCategories(""))

	// callers must not be able to mutate the table
	cats := DietaryCategories("vegan")
	cats[0] = "meat"
	assert.Equal(t, "vegan", DietaryCategories("vegan")[0])
}
