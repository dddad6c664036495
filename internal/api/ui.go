package api

import (
	"embed"
	"html/template"
	"net/http"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/services/recipe"
	"github.com/socialchef/recipe-finder/internal/validation"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// FetchRecipeForm is the form state echoed back to the page.
type FetchRecipeForm struct {
	Ingredients                string
	PreferAvailableIngredients bool
	PreferOwnRecipes           bool
}

type indexPage struct {
	AIModel string
	Form    FetchRecipeForm
	Recipe  *recipe.Recipe
	Error   string
}

// HandleIndex renders the empty form.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, indexPage{AIModel: s.modelNames()})
}

// HandleIndexSubmit fetches a recipe for the submitted form and renders it
// below the form.
func (s *Server) HandleIndexSubmit(w http.ResponseWriter, r *http.Request) {
	page := indexPage{AIModel: s.modelNames()}

	if err := r.ParseForm(); err != nil {
		page.Error = "Invalid form submission"
		s.render(w, http.StatusBadRequest, page)
		return
	}
	page.Form = FetchRecipeForm{
		Ingredients:                r.PostFormValue("ingredients"),
		PreferAvailableIngredients: checked(r.PostFormValue("preferAvailableIngredients")),
		PreferOwnRecipes:           checked(r.PostFormValue("preferOwnRecipes")),
	}

	req, err := validation.NormalizeFetchRequest(recipe.FetchRequest{
		Ingredients:                validation.ParseIngredients(page.Form.Ingredients),
		PreferAvailableIngredients: page.Form.PreferAvailableIngredients,
		PreferOwnRecipes:           page.Form.PreferOwnRecipes,
	})
	if err != nil {
		page.Error = userMessage(err)
		s.render(w, statusFor(err), page)
		return
	}

	result, err := s.fetchRecipe(r.Context(), req)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Recipe fetch failed after retries", "error", err)
		page.Error = userMessage(err)
		s.render(w, statusFor(err), page)
		return
	}

	page.Recipe = &result
	s.render(w, http.StatusOK, page)
}

func (s *Server) render(w http.ResponseWriter, status int, page indexPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.index.Execute(w, page); err != nil {
		s.logger.Error("Failed to render page", "error", err)
	}
}

func checked(v string) bool {
	switch v {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

func userMessage(err error) string {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		if s := appErr.RecoverySuggestion(); s != "" {
			return appErr.Message + ". " + s
		}
		return appErr.Message
	}
	return "Something went wrong while fetching your recipe. Please try again."
}
