package recipe

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/logger"
	"github.com/socialchef/recipe-finder/internal/metrics"
	"github.com/socialchef/recipe-finder/internal/services/ai"
)

var tracer = otel.Tracer("recipe-finder/recipe")

// Config lists the capabilities an Orchestrator works with. Retriever and
// Image are optional.
type Config struct {
	Chat                 ChatBackend
	Retriever            ContentRetriever
	Image                ImageBackend
	Prompts              *ai.PromptSet
	AvailableIngredients []string
	Logger               *slog.Logger
}

// Orchestrator answers recipe requests by picking a strategy, rendering its
// prompts, calling the chat backend and attaching an image when possible.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	chat      ChatBackend
	retriever ContentRetriever
	image     ImageBackend
	prompts   *ai.PromptSet
	pantry    *PantryTool
	available string
	logger    *slog.Logger
}

func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.Chat == nil {
		return nil, errors.New("recipe: chat backend is required")
	}
	if cfg.Prompts == nil {
		return nil, errors.New("recipe: prompt set is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Retriever == nil {
		log.Warn("No content retriever configured, own-recipe requests will not be grounded in documents")
	}

	return &Orchestrator{
		chat:      cfg.Chat,
		retriever: cfg.Retriever,
		image:     cfg.Image,
		prompts:   cfg.Prompts,
		pantry:    NewPantryTool(cfg.AvailableIngredients, log),
		available: strings.Join(cfg.AvailableIngredients, ","),
		logger:    log,
	}, nil
}

// DisplayNames lists the configured backends for display, chat first.
func (o *Orchestrator) DisplayNames() []string {
	names := []string{o.chat.DisplayName()}
	if n, ok := o.retriever.(interface{ DisplayName() string }); ok {
		names = append(names, n.DisplayName())
	}
	if o.image != nil {
		names = append(names, o.image.DisplayName())
	}
	return names
}

// FetchRecipeFor returns a recipe for the request. Chat and retrieval
// failures are returned as BackendError; image failures are logged and the
// recipe is returned without an image.
func (o *Orchestrator) FetchRecipeFor(ctx context.Context, req FetchRequest) (Recipe, error) {
	strategy := SelectStrategy(req.PreferAvailableIngredients, req.PreferOwnRecipes)

	ctx, span := tracer.Start(ctx, "recipe.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("recipe.strategy", strategy.String()),
		attribute.Int("recipe.ingredients", len(req.Ingredients)),
	)

	start := time.Now()
	recipe, err := o.chat.Complete(ctx, o.completionRequest(strategy, req.Ingredients))
	if err != nil {
		metrics.RecordRecipeFetch(ctx, strategy.String(), "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat backend failed")
		o.logger.ErrorContext(ctx, "Recipe fetch failed",
			"strategy", strategy.String(),
			"error", err,
			logger.WithTraceContext(ctx))
		if apperrors.IsType(err, apperrors.ErrorTypeBackend) {
			return Recipe{}, err
		}
		return Recipe{}, apperrors.NewBackendError("Failed to fetch recipe", "RECIPE_FETCH_FAILED", err)
	}

	recipe = o.attachImage(ctx, recipe)
	metrics.RecordRecipeFetch(ctx, strategy.String(), "success", time.Since(start))
	return recipe, nil
}

func (o *Orchestrator) completionRequest(strategy Strategy, ingredients []string) CompletionRequest {
	ingredientList := strings.Join(ingredients, ",")

	var req CompletionRequest
	switch strategy {
	case StrategyPlain:
		req.SystemMessage = o.prompts.RecipeForIngredientsSystemMessage()
		req.UserMessage = ai.Render(o.prompts.RecipeForIngredientsUserMessage(), map[string]string{
			"ingredients": ingredientList,
			"format":      JSONFormat,
		})
	case StrategyTools:
		req.SystemMessage = o.prompts.FixJSONResponse()
		req.UserMessage = ai.Render(o.prompts.RecipeForAvailableIngredientsUserMessage(), map[string]string{
			"ingredients":                ingredientList,
			"availableIngredientsAtHome": o.available,
		})
	case StrategyRetrieval, StrategyToolsAndRetrieval:
		req.SystemMessage = o.prompts.FixJSONResponseAndPreferOwnRecipe()
		req.UserMessage = ai.Render(o.prompts.RecipeForIngredientsUserMessage(), map[string]string{
			"ingredients": ingredientList,
			"format":      JSONFormat,
		})
	}

	if strategy.UsesTools() {
		req.Tools = []Tool{o.pantry}
	}
	if strategy.UsesRetrieval() && o.retriever != nil {
		req.Retriever = o.retriever
	}
	return req
}

func (o *Orchestrator) attachImage(ctx context.Context, recipe Recipe) Recipe {
	if o.image == nil {
		return recipe
	}

	o.logger.InfoContext(ctx, "Image generation for recipe started", "recipe", recipe.Name)
	prompt := ai.Render(o.prompts.ImageForRecipe(), map[string]string{"recipe": recipe.Name})

	image, err := o.image.Generate(ctx, prompt)
	if err == nil && image.URL == "" {
		err = errors.New("image backend returned no URL")
	}
	if err != nil {
		imgErr := apperrors.NewImageGenerationError("Image generation failed", "IMAGE_GENERATION_FAILED", err)
		metrics.RecordImageGeneration(ctx, o.image.DisplayName(), "error")
		o.logger.WarnContext(ctx, "Image generation failed, returning recipe without image",
			"recipe", recipe.Name,
			"error", imgErr,
			logger.WithTraceContext(ctx))
		return recipe
	}

	metrics.RecordImageGeneration(ctx, o.image.DisplayName(), "success")
	return recipe.WithImageURL(image.URL)
}
