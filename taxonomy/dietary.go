package taxonomy

import "strings"

var dietaryCategories = map[string][]string{
	"vegan":       {"vegan", "vegetarian", "plant-based"},
	"vegetarian":  {"vegetarian", "vegan", "salad", "health"},
	"halal":       {"halal", "middle eastern", "mediterranean"},
	"gluten free": {"gluten-free", "health"},
	"pescatarian": {"seafood", "fish", "sushi"},
	"kosher":      {"kosher", "jewish", "deli"},
}

// DietaryCategories returns the category terms that satisfy a dietary
// preference. Unknown preferences match themselves.
func DietaryCategories(preference string) []string {
	key := strings.ToLower(strings.TrimSpace(preference))
	if key == "" {
		return nil
	}
	if cats, ok := dietaryCategories[key]; ok {
		out := make([]string, len(cats))
		copy(out, cats)
		return out
	}
	return []string{key}
}
