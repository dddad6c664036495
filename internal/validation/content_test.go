package validation

import (
	"testing"

	"github.com/socialchef/recipe-finder/internal/services/recipe"
)

func TestDetectPlaceholders(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"N/A", true},
		{"unknown", true},
		{"Not Specified", true},
		{"[placeholder]", true},
		{"<TBD>", true},
		{"Recipe Name", true},
		{"Step 2 instruction", true},
		{"valid ingredient", false},
		{"Salt", false},
		{"", true},
		{"   ", true},
		{"xxx", true},
	}

	for _, tt := range tests {
		result := DetectPlaceholders(tt.text)
		if result != tt.expected {
			t.Errorf("DetectPlaceholders(%q) = %v; want %v", tt.text, result, tt.expected)
		}
	}
}

func TestValidateRecipe(t *testing.T) {
	tests := []struct {
		name        string
		recipe      recipe.Recipe
		wantIsValid bool
		wantConf    Confidence
		wantMissing []string
	}{
		{
			name: "Complete recipe",
			recipe: recipe.Recipe{
				Name:         "Pancakes",
				Ingredients:  []string{"2 eggs", "200g flour"},
				Instructions: []string{"Whisk eggs and flour", "Fry in a hot pan"},
			},
			wantIsValid: true,
			wantConf:    ConfidenceHigh,
		},
		{
			name: "Echoed format example",
			recipe: recipe.Recipe{
				Name:         "Recipe Name",
				Ingredients:  []string{"500g ingredient1"},
				Instructions: []string{"Step 1 instruction"},
			},
			wantIsValid: false,
			wantConf:    ConfidenceHigh,
			wantMissing: []string{"name", "instructions"},
		},
		{
			name:        "Empty recipe",
			recipe:      recipe.Recipe{Name: "Soup"},
			wantIsValid: false,
			wantConf:    ConfidenceHigh,
			wantMissing: []string{"ingredients", "instructions"},
		},
		{
			name: "No cooking verbs",
			recipe: recipe.Recipe{
				Name:         "Salad",
				Ingredients:  []string{"lettuce"},
				Instructions: []string{"Enjoy"},
			},
			wantIsValid: true,
			wantConf:    ConfidenceMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateRecipe(tt.recipe)
			if got.IsValid != tt.wantIsValid {
				t.Errorf("IsValid = %v, want %v (%s)", got.IsValid, tt.wantIsValid, got.Reason)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConf)
			}
			if tt.wantMissing != nil && len(got.Missing) != len(tt.wantMissing) {
				t.Errorf("Missing = %v, want %v", got.Missing, tt.wantMissing)
			}
		})
	}
}
