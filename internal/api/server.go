package api

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/socialchef/recipe-finder/internal/config"
	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/logger"
	"github.com/socialchef/recipe-finder/internal/sentry"
	"github.com/socialchef/recipe-finder/internal/services/recipe"
	"github.com/socialchef/recipe-finder/internal/utils"
	"github.com/socialchef/recipe-finder/internal/validation"
)

// recipeFetcher is satisfied by *recipe.Orchestrator.
type recipeFetcher interface {
	FetchRecipeFor(ctx context.Context, req recipe.FetchRequest) (recipe.Recipe, error)
	DisplayNames() []string
}

// documentIngestor is satisfied by *rag.Ingestor.
type documentIngestor interface {
	IngestDocument(ctx context.Context, name string, data []byte) (int, error)
}

// documentQueue is satisfied by *worker.Client.
type documentQueue interface {
	EnqueueDocument(ctx context.Context, filename string, data []byte) (string, error)
}

type Server struct {
	cfg      *config.Config
	recipes  recipeFetcher
	ingestor documentIngestor
	queue    documentQueue
	index    *template.Template
	logger   *slog.Logger
}

// Options configures a Server. Ingestor and Queue are optional; when Queue is
// set uploads are processed asynchronously.
type Options struct {
	Config   *config.Config
	Recipes  recipeFetcher
	Ingestor documentIngestor
	Queue    documentQueue
	Logger   *slog.Logger
}

func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:      opts.Config,
		recipes:  opts.Recipes,
		ingestor: opts.Ingestor,
		queue:    opts.Queue,
		index:    indexTemplate,
		logger:   log,
	}
}

// fetchRecipe runs the fetch under the configured retry policy: immediate
// re-attempts of the identical request on any error.
func (s *Server) fetchRecipe(ctx context.Context, req recipe.FetchRequest) (recipe.Recipe, error) {
	attempt := 0
	result, err := utils.WithRetry(ctx, func(ctx context.Context) (recipe.Recipe, error) {
		attempt++
		if attempt > 1 {
			s.logger.InfoContext(ctx, "Retrying recipe fetch after backend failure", "attempt", attempt)
		}
		return s.recipes.FetchRecipeFor(ctx, req)
	}, utils.FetchRetryConfig(s.cfg.FetchMaxAttempts))
	if err != nil {
		sentry.CaptureError(ctx, err)
		return recipe.Recipe{}, err
	}

	if check := validation.ValidateRecipe(result); check.Confidence != validation.ConfidenceHigh || !check.IsValid {
		s.logger.WarnContext(ctx, "Generated recipe looks incomplete",
			"recipe", result.Name,
			"reason", check.Reason,
			logger.WithTraceContext(ctx))
	}
	return result, nil
}

func (s *Server) modelNames() string {
	return strings.Join(s.recipes.DisplayNames(), " & ")
}

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func statusFor(err error) int {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: "Internal server error"}
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		resp = ErrorResponse{
			Error:      appErr.Message,
			Code:       appErr.ErrorCode,
			Suggestion: appErr.RecoverySuggestion(),
		}
	}
	writeJSON(w, statusFor(err), resp)
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
