package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/socialchef/recipe-finder/internal/services/recipe"
)

// Confidence represents certainty in the validation result
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// RecipeValidationResult contains the outcome of a recipe quality check
type RecipeValidationResult struct {
	IsValid    bool       `json:"is_valid"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
	Missing    []string   `json:"missing"`
}

// recipeKeywords for quick heuristic validation of instructions
var recipeKeywords = []string{
	// Cooking verbs
	"bake", "cook", "fry", "boil", "grill", "roast", "saute", "simmer", "steam",
	"mix", "whisk", "stir", "blend", "chop", "dice", "slice", "preheat", "prepare",
	"heat", "add", "combine", "season", "serve", "pour", "place", "cut",
}

var placeholderPattern = regexp.MustCompile(`(?i)^(n/?a|unknown|not specified|none|tbd|x+|\[.*\]|<.*>|recipe name|step \d+ instruction)$`)

// DetectPlaceholders reports whether text is blank or a filler value such
// as "N/A" or the example values of the JSON format.
func DetectPlaceholders(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || placeholderPattern.MatchString(trimmed)
}

// ValidateRecipe performs a fast heuristic check of a generated recipe.
func ValidateRecipe(r recipe.Recipe) RecipeValidationResult {
	var missing []string
	if DetectPlaceholders(r.Name) {
		missing = append(missing, "name")
	}
	if countReal(r.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if countReal(r.Instructions) == 0 {
		missing = append(missing, "instructions")
	}

	if len(missing) > 0 {
		return RecipeValidationResult{
			IsValid:    false,
			Confidence: ConfidenceHigh,
			Reason:     fmt.Sprintf("Recipe is missing %s", strings.Join(missing, ", ")),
			Missing:    missing,
		}
	}

	lowerInstructions := strings.ToLower(strings.Join(r.Instructions, " "))
	for _, kw := range recipeKeywords {
		if strings.Contains(lowerInstructions, kw) {
			return RecipeValidationResult{
				IsValid:    true,
				Confidence: ConfidenceHigh,
				Reason:     "Recipe passed quick validation",
				Missing:    []string{},
			}
		}
	}

	return RecipeValidationResult{
		IsValid:    true,
		Confidence: ConfidenceMedium,
		Reason:     "Instructions contain no common cooking verbs",
		Missing:    []string{"cooking verbs"},
	}
}

func countReal(items []string) int {
	n := 0
	for _, item := range items {
		if !DetectPlaceholders(item) {
			n++
		}
	}
	return n
}
