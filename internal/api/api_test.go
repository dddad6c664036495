package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/recipe-finder/internal/config"
	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/logger"
	"github.com/socialchef/recipe-finder/internal/services/recipe"
)

// fakeRecipes fails the first failures calls, then answers with result.
type fakeRecipes struct {
	failures int
	err      error
	result   recipe.Recipe
	requests []recipe.FetchRequest
}

func (f *fakeRecipes) FetchRecipeFor(ctx context.Context, req recipe.FetchRequest) (recipe.Recipe, error) {
	f.requests = append(f.requests, req)
	if len(f.requests) <= f.failures {
		return recipe.Recipe{}, f.err
	}
	return f.result, nil
}

func (f *fakeRecipes) DisplayNames() []string {
	return []string{"OpenAI (Chat: gpt-4o-mini)", "OpenAI (Embedding: text-embedding-3-small)"}
}

type fakeIngestor struct {
	name   string
	data   []byte
	chunks int
	err    error
}

func (f *fakeIngestor) IngestDocument(ctx context.Context, name string, data []byte) (int, error) {
	f.name, f.data = name, data
	return f.chunks, f.err
}

type fakeQueue struct {
	filename string
	err      error
}

func (f *fakeQueue) EnqueueDocument(ctx context.Context, filename string, data []byte) (string, error) {
	f.filename = filename
	return "task-1", f.err
}

func pancakes() recipe.Recipe {
	return recipe.Recipe{
		Name:         "Pancakes",
		Description:  "Fluffy",
		Ingredients:  []string{"2 eggs", "200g flour"},
		Instructions: []string{"Whisk", "Fry"},
		ImageURL:     "http://img/1.png",
	}
}

func newTestServer(recipes recipeFetcher, opts ...func(*Options)) *Server {
	o := Options{
		Config:  &config.Config{FetchMaxAttempts: 2},
		Recipes: recipes,
		Logger:  logger.Discard(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return NewServer(o)
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleIndex_ShowsModelNames(t *testing.T) {
	srv := newTestServer(&fakeRecipes{})
	rr := httptest.NewRecorder()

	srv.HandleIndex(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "OpenAI (Chat: gpt-4o-mini) &amp; OpenAI (Embedding: text-embedding-3-small)")
	assert.Contains(t, rr.Body.String(), `name="ingredients"`)
}

func TestHandleIndexSubmit_RendersRecipe(t *testing.T) {
	fake := &fakeRecipes{result: pancakes()}
	srv := newTestServer(fake)
	rr := httptest.NewRecorder()

	srv.HandleIndexSubmit(rr, postForm(url.Values{
		"ingredients":      {"eggs, flour"},
		"preferOwnRecipes": {"on"},
	}))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<h2>Pancakes</h2>")
	assert.Contains(t, body, `src="http://img/1.png"`)
	assert.Contains(t, body, "<li>200g flour</li>")
	assert.Contains(t, body, `value="eggs, flour"`)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, []string{"eggs", "flour"}, fake.requests[0].Ingredients)
	assert.True(t, fake.requests[0].PreferOwnRecipes)
	assert.False(t, fake.requests[0].PreferAvailableIngredients)
}

func TestHandleIndexSubmit_RetriesOnce(t *testing.T) {
	fake := &fakeRecipes{failures: 1, err: errors.New("model returned garbage"), result: pancakes()}
	srv := newTestServer(fake)
	rr := httptest.NewRecorder()

	srv.HandleIndexSubmit(rr, postForm(url.Values{"ingredients": {"eggs"}}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, fake.requests, 2)
	assert.Equal(t, fake.requests[0], fake.requests[1])
}

func TestHandleIndexSubmit_GivesUpAfterSecondFailure(t *testing.T) {
	fake := &fakeRecipes{
		failures: 5,
		err:      apperrors.NewBackendError("Failed to fetch recipe", "RECIPE_FETCH_FAILED", errors.New("timeout")),
	}
	srv := newTestServer(fake)
	rr := httptest.NewRecorder()

	srv.HandleIndexSubmit(rr, postForm(url.Values{"ingredients": {"eggs"}}))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Len(t, fake.requests, 2)
	assert.Contains(t, rr.Body.String(), "Failed to fetch recipe")
}

func TestHandleIndexSubmit_ValidationError(t *testing.T) {
	fake := &fakeRecipes{}
	srv := newTestServer(fake)
	rr := httptest.NewRecorder()

	srv.HandleIndexSubmit(rr, postForm(url.Values{"ingredients": {" , "}}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "At least one ingredient is required")
	assert.Empty(t, fake.requests)
}

func TestHandleFetchRecipe(t *testing.T) {
	fake := &fakeRecipes{result: pancakes()}
	srv := newTestServer(fake)
	body := `{"ingredients":["eggs","flour"],"preferAvailableIngredients":true}`
	rr := httptest.NewRecorder()

	srv.HandleFetchRecipe(rr, httptest.NewRequest(http.MethodPost, "/api/recipe", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	var got recipe.Recipe
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, pancakes(), got)
	assert.True(t, fake.requests[0].PreferAvailableIngredients)
}

func TestHandleFetchRecipe_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fake   *fakeRecipes
		status int
		code   string
	}{
		{name: "malformed json", body: "{", fake: &fakeRecipes{}, status: http.StatusBadRequest, code: "INVALID_BODY"},
		{name: "no ingredients", body: `{"ingredients":[]}`, fake: &fakeRecipes{}, status: http.StatusBadRequest, code: "INGREDIENTS_REQUIRED"},
		{
			name:   "backend failure",
			body:   `{"ingredients":["eggs"]}`,
			fake:   &fakeRecipes{failures: 2, err: apperrors.NewBackendError("Failed to fetch recipe", "RECIPE_FETCH_FAILED", nil)},
			status: http.StatusBadGateway,
			code:   "RECIPE_FETCH_FAILED",
		},
		{
			name:   "plain failure",
			body:   `{"ingredients":["eggs"]}`,
			fake:   &fakeRecipes{failures: 2, err: errors.New("boom")},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(tt.fake)
			rr := httptest.NewRecorder()

			srv.HandleFetchRecipe(rr, httptest.NewRequest(http.MethodPost, "/api/recipe", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rr.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		part.Write(content)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleUploadDocument_Inline(t *testing.T) {
	ingestor := &fakeIngestor{chunks: 3}
	srv := newTestServer(&fakeRecipes{}, func(o *Options) { o.Ingestor = ingestor })
	rr := httptest.NewRecorder()

	srv.HandleUploadDocument(rr, uploadRequest(t, "family.pdf", []byte("%PDF-1.4")))

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp DocumentUploadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, DocumentUploadResponse{Filename: "family.pdf", Chunks: 3, Status: "ingested"}, resp)
	assert.Equal(t, []byte("%PDF-1.4"), ingestor.data)
}

func TestHandleUploadDocument_Queued(t *testing.T) {
	queue := &fakeQueue{}
	ingestor := &fakeIngestor{}
	srv := newTestServer(&fakeRecipes{}, func(o *Options) {
		o.Queue = queue
		o.Ingestor = ingestor
	})
	rr := httptest.NewRecorder()

	srv.HandleUploadDocument(rr, uploadRequest(t, "../../notes.md", []byte("# Soup")))

	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "notes.md", queue.filename)
	assert.Empty(t, ingestor.name)
	assert.Contains(t, rr.Body.String(), `"task_id":"task-1"`)
}

func TestHandleUploadDocument_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		ingestor *fakeIngestor
		status   int
	}{
		{name: "missing file", filename: "", ingestor: &fakeIngestor{}, status: http.StatusBadRequest},
		{name: "unsupported type", filename: "photo.jpg", ingestor: &fakeIngestor{}, status: http.StatusBadRequest},
		{
			name:     "ingestion failure",
			filename: "broken.pdf",
			ingestor: &fakeIngestor{err: apperrors.NewIngestionError("Failed to parse PDF", "DOCUMENT_PARSE_FAILED", nil)},
			status:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeRecipes{}, func(o *Options) { o.Ingestor = tt.ingestor })
			rr := httptest.NewRecorder()

			srv.HandleUploadDocument(rr, uploadRequest(t, tt.filename, []byte("x")))

			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestHandleUploadDocument_NotConfigured(t *testing.T) {
	srv := newTestServer(&fakeRecipes{})
	rr := httptest.NewRecorder()

	srv.HandleUploadDocument(rr, uploadRequest(t, "family.pdf", []byte("x")))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeRecipes{})
	rr := httptest.NewRecorder()

	srv.HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}
