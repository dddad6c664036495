package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/services/recipe"
	"github.com/socialchef/recipe-finder/internal/validation"
)

const maxRecipeRequestBytes = 64 << 10

// HandleFetchRecipe is the JSON counterpart of the form: it takes a
// FetchRequest and returns the Recipe.
func (s *Server) HandleFetchRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipe.FetchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecipeRequestBytes)).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("Invalid request body", "INVALID_BODY",
			`Send {"ingredients": ["eggs", "flour"]}`))
		return
	}

	req, err := validation.NormalizeFetchRequest(req)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.fetchRecipe(r.Context(), req)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Recipe fetch failed after retries", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
