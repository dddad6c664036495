package ai

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
)

//go:embed prompts/*.yml
var embeddedPrompts embed.FS

// Prompt file names, relative to the prompts directory.
const (
	FixJSONResponseFile                   = "fix-json-response.yml"
	FixJSONResponseAndPreferOwnRecipeFile = "fix-json-response-and-prefer-own-recipe.yml"
	RecipeForIngredientsFile              = "recipe-for-ingredients.yml"
	RecipeForAvailableIngredientsFile     = "recipe-for-available-ingredients.yml"
	ImageForRecipeFile                    = "image-for-recipe.yml"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// PromptMessage is one chat message of a prompt definition.
type PromptMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// PromptDefinition is the content of one prompt file. A file either carries a
// flat prompt or a list of role messages.
type PromptDefinition struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Model       string          `yaml:"model"`
	Prompt      string          `yaml:"prompt"`
	Messages    []PromptMessage `yaml:"messages"`
}

// Combined returns the system message followed by the user message,
// separated by a blank line and trimmed. Without messages the flat prompt is
// returned as is.
func (d PromptDefinition) Combined() string {
	if len(d.Messages) == 0 {
		return d.Prompt
	}
	var sb strings.Builder
	for _, m := range d.Messages {
		switch m.Role {
		case RoleSystem:
			sb.WriteString(m.Content)
			sb.WriteString("\n\n")
		case RoleUser:
			sb.WriteString(m.Content)
		}
	}
	return strings.TrimSpace(sb.String())
}

// Message returns the content of the first message with the given role, or
// "" when there is none.
func (d PromptDefinition) Message(role string) string {
	for _, m := range d.Messages {
		if m.Role == role {
			return m.Content
		}
	}
	return ""
}

// PromptSet holds every prompt the application uses. It is read-only after
// loading and safe for concurrent use.
type PromptSet struct {
	fixJSONResponse                   PromptDefinition
	fixJSONResponseAndPreferOwnRecipe PromptDefinition
	recipeForIngredients              PromptDefinition
	recipeForAvailableIngredients     PromptDefinition
	imageForRecipe                    PromptDefinition
}

// LoadPrompts reads the prompt files from dir. An empty dir loads the
// prompts compiled into the binary.
func LoadPrompts(dir string) (*PromptSet, error) {
	if dir == "" {
		sub, err := fs.Sub(embeddedPrompts, "prompts")
		if err != nil {
			return nil, apperrors.NewConfigLoadError("Failed to open embedded prompts", "PROMPTS_EMBED_FAILED", err)
		}
		return LoadPromptsFS(sub)
	}
	return LoadPromptsFS(os.DirFS(dir))
}

// LoadPromptsFS reads the five prompt files from the root of fsys. Any
// missing or malformed file is a ConfigLoadError.
func LoadPromptsFS(fsys fs.FS) (*PromptSet, error) {
	ps := &PromptSet{}
	targets := []struct {
		file string
		dst  *PromptDefinition
	}{
		{FixJSONResponseFile, &ps.fixJSONResponse},
		{FixJSONResponseAndPreferOwnRecipeFile, &ps.fixJSONResponseAndPreferOwnRecipe},
		{RecipeForIngredientsFile, &ps.recipeForIngredients},
		{RecipeForAvailableIngredientsFile, &ps.recipeForAvailableIngredients},
		{ImageForRecipeFile, &ps.imageForRecipe},
	}

	for _, t := range targets {
		def, err := loadDefinition(fsys, t.file)
		if err != nil {
			return nil, err
		}
		*t.dst = def
	}
	return ps, nil
}

func loadDefinition(fsys fs.FS, name string) (PromptDefinition, error) {
	var def PromptDefinition

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return def, apperrors.NewConfigLoadError(
			fmt.Sprintf("Failed to load prompt from %s", path.Join("prompts", name)),
			"PROMPT_READ_FAILED", err)
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return def, apperrors.NewConfigLoadError(
			fmt.Sprintf("Failed to parse prompt %s", name),
			"PROMPT_PARSE_FAILED", err)
	}
	if def.Prompt == "" && len(def.Messages) == 0 {
		return def, apperrors.NewConfigLoadError(
			fmt.Sprintf("Prompt %s defines neither prompt nor messages", name),
			"PROMPT_EMPTY", nil)
	}
	return def, nil
}

func (p *PromptSet) FixJSONResponse() string {
	return p.fixJSONResponse.Combined()
}

func (p *PromptSet) FixJSONResponseAndPreferOwnRecipe() string {
	return p.fixJSONResponseAndPreferOwnRecipe.Combined()
}

func (p *PromptSet) RecipeForIngredients() string {
	return p.recipeForIngredients.Combined()
}

func (p *PromptSet) RecipeForIngredientsSystemMessage() string {
	return p.recipeForIngredients.Message(RoleSystem)
}

func (p *PromptSet) RecipeForIngredientsUserMessage() string {
	return p.recipeForIngredients.Message(RoleUser)
}

func (p *PromptSet) RecipeForAvailableIngredients() string {
	return p.recipeForAvailableIngredients.Combined()
}

func (p *PromptSet) RecipeForAvailableIngredientsSystemMessage() string {
	return p.recipeForAvailableIngredients.Message(RoleSystem)
}

func (p *PromptSet) RecipeForAvailableIngredientsUserMessage() string {
	return p.recipeForAvailableIngredients.Message(RoleUser)
}

func (p *PromptSet) ImageForRecipe() string {
	return p.imageForRecipe.Combined()
}
