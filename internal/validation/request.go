package validation

import (
	"fmt"
	"strings"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/services/recipe"
)

const (
	MaxIngredients      = 30
	MaxIngredientLength = 100
)

// ParseIngredients splits a comma separated form value into ingredients.
func ParseIngredients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeFetchRequest trims and de-duplicates the requested ingredients and
// rejects requests the chat backend cannot answer sensibly.
func NormalizeFetchRequest(req recipe.FetchRequest) (recipe.FetchRequest, error) {
	seen := make(map[string]bool, len(req.Ingredients))
	ingredients := make([]string, 0, len(req.Ingredients))

	for _, raw := range req.Ingredients {
		for _, ing := range ParseIngredients(raw) {
			if len(ing) > MaxIngredientLength {
				return req, apperrors.NewValidationError(
					fmt.Sprintf("Ingredient %q is too long", ing[:20]+"..."),
					"INGREDIENT_TOO_LONG",
					fmt.Sprintf("Keep each ingredient under %d characters", MaxIngredientLength))
			}
			key := strings.ToLower(ing)
			if seen[key] || DetectPlaceholders(ing) {
				continue
			}
			seen[key] = true
			ingredients = append(ingredients, ing)
		}
	}

	if len(ingredients) == 0 {
		return req, apperrors.NewValidationError(
			"At least one ingredient is required",
			"INGREDIENTS_REQUIRED",
			"Enter ingredients separated by commas, for example: eggs, flour, milk")
	}
	if len(ingredients) > MaxIngredients {
		return req, apperrors.NewValidationError(
			fmt.Sprintf("Too many ingredients (%d)", len(ingredients)),
			"TOO_MANY_INGREDIENTS",
			fmt.Sprintf("Use at most %d ingredients", MaxIngredients))
	}

	req.Ingredients = ingredients
	return req, nil
}
