package recipe

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Recipe is the structured answer of the chat backend. Treat it as a value:
// WithImageURL returns a modified copy.
type Recipe struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	ImageURL     string   `json:"imageUrl"`
}

// WithImageURL returns a copy of r with only the image URL replaced.
func (r Recipe) WithImageURL(url string) Recipe {
	cp := r
	cp.Ingredients = append([]string(nil), r.Ingredients...)
	cp.Instructions = append([]string(nil), r.Instructions...)
	cp.ImageURL = url
	return cp
}

// FetchRequest is what the user asks for.
type FetchRequest struct {
	Ingredients                []string `json:"ingredients"`
	PreferAvailableIngredients bool     `json:"preferAvailableIngredients"`
	PreferOwnRecipes           bool     `json:"preferOwnRecipes"`
}

// JSONFormat is the example object inserted as {{format}} into recipe
// prompts.
const JSONFormat = `{
  "name": "Recipe Name",
  "description": "Brief description of the dish",
  "ingredients": ["500g ingredient1", "2 tbsp ingredient2", "1 cup ingredient3"],
  "instructions": ["Step 1 instruction", "Step 2 instruction", "Step 3 instruction"],
  "imageUrl": ""
}
`

// DecodeRecipe parses model output into a Recipe. Markdown code fences and
// text around the JSON object are ignored.
func DecodeRecipe(content string) (Recipe, error) {
	var r Recipe

	raw := extractJSONObject(content)
	if raw == "" {
		return r, fmt.Errorf("no JSON object in model output")
	}
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return r, fmt.Errorf("failed to decode recipe: %w", err)
	}
	if strings.TrimSpace(r.Name) == "" {
		return r, fmt.Errorf("decoded recipe has no name")
	}
	return r, nil
}

func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
