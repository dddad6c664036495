package recipe

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/logger"
	"github.com/socialchef/recipe-finder/internal/services/ai"
)

// recordingChat records every request and answers with a fixed recipe.
type recordingChat struct {
	requests []CompletionRequest
	recipe   Recipe
	err      error
}

func (c *recordingChat) Complete(ctx context.Context, req CompletionRequest) (Recipe, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return Recipe{}, c.err
	}
	return c.recipe, nil
}

func (c *recordingChat) DisplayName() string { return "Stub (Chat: test)" }

type stubRetriever struct {
	contents []Content
}

func (r *stubRetriever) Retrieve(ctx context.Context, query string) ([]Content, error) {
	return r.contents, nil
}

func (r *stubRetriever) DisplayName() string { return "Stub (Embedding: test)" }

type stubImage struct {
	url     string
	err     error
	prompts []string
}

func (i *stubImage) Generate(ctx context.Context, prompt string) (Image, error) {
	i.prompts = append(i.prompts, prompt)
	if i.err != nil {
		return Image{}, i.err
	}
	return Image{URL: i.url}, nil
}

func (i *stubImage) DisplayName() string { return "Stub (Image: test)" }

func testPrompts(t *testing.T) *ai.PromptSet {
	t.Helper()
	ps, err := ai.LoadPromptsFS(fstest.MapFS{
		ai.FixJSONResponseFile: {Data: []byte(`prompt: "FIX_JSON"`)},
		ai.FixJSONResponseAndPreferOwnRecipeFile: {Data: []byte(`prompt: "FIX_JSON_OWN"`)},
		ai.RecipeForIngredientsFile: {Data: []byte(`messages:
  - role: system
    content: "RFI_SYSTEM"
  - role: user
    content: "RFI_USER {{ingredients}} | {{format}}"`)},
		ai.RecipeForAvailableIngredientsFile: {Data: []byte(`messages:
  - role: system
    content: "RFAI_SYSTEM"
  - role: user
    content: "RFAI_USER {{ingredients}} | {{availableIngredientsAtHome}}"`)},
		ai.ImageForRecipeFile: {Data: []byte(`prompt: "IMG {{recipe}}"`)},
	})
	require.NoError(t, err)
	return ps
}

func pancakes() Recipe {
	return Recipe{
		Name:         "Pancakes",
		Description:  "Fluffy breakfast pancakes",
		Ingredients:  []string{"2 eggs", "200g flour"},
		Instructions: []string{"Mix", "Fry"},
		ImageURL:     "",
	}
}

func newTestOrchestrator(t *testing.T, chat ChatBackend, retriever ContentRetriever, image ImageBackend) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(Config{
		Chat:                 chat,
		Retriever:            retriever,
		Image:                image,
		Prompts:              testPrompts(t),
		AvailableIngredients: []string{"bacon", "onions"},
		Logger:               logger.Discard(),
	})
	require.NoError(t, err)
	return o
}

func TestFetchRecipeFor_StrategyTable(t *testing.T) {
	retriever := &stubRetriever{}

	tests := []struct {
		name            string
		preferAvailable bool
		preferOwn       bool
		wantSystem      string
		wantUser        string
		wantTools       bool
		wantRetriever   bool
	}{
		{
			name:       "plain",
			wantSystem: "RFI_SYSTEM",
			wantUser:   "RFI_USER egg,flour | " + JSONFormat,
		},
		{
			name:            "tools",
			preferAvailable: true,
			wantSystem:      "FIX_JSON",
			wantUser:        "RFAI_USER egg,flour | bacon,onions",
			wantTools:       true,
		},
		{
			name:          "retrieval",
			preferOwn:     true,
			wantSystem:    "FIX_JSON_OWN",
			wantUser:      "RFI_USER egg,flour | " + JSONFormat,
			wantRetriever: true,
		},
		{
			name:            "tools and retrieval",
			preferAvailable: true,
			preferOwn:       true,
			wantSystem:      "FIX_JSON_OWN",
			wantUser:        "RFI_USER egg,flour | " + JSONFormat,
			wantTools:       true,
			wantRetriever:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &recordingChat{recipe: pancakes()}
			o := newTestOrchestrator(t, chat, retriever, nil)

			_, err := o.FetchRecipeFor(context.Background(), FetchRequest{
				Ingredients:                []string{"egg", "flour"},
				PreferAvailableIngredients: tt.preferAvailable,
				PreferOwnRecipes:           tt.preferOwn,
			})
			require.NoError(t, err)
			require.Len(t, chat.requests, 1)

			req := chat.requests[0]
			assert.Equal(t, tt.wantSystem, req.SystemMessage)
			assert.Equal(t, tt.wantUser, req.UserMessage)
			if tt.wantTools {
				require.Len(t, req.Tools, 1)
				assert.Equal(t, "fetchIngredientsAvailableAtHome", req.Tools[0].Name())
			} else {
				assert.Empty(t, req.Tools)
			}
			if tt.wantRetriever {
				assert.Same(t, retriever, req.Retriever)
			} else {
				assert.Nil(t, req.Retriever)
			}
		})
	}
}

func TestFetchRecipeFor_RetrievalWithoutRetrieverDegrades(t *testing.T) {
	chat := &recordingChat{recipe: pancakes()}
	o := newTestOrchestrator(t, chat, nil, nil)

	got, err := o.FetchRecipeFor(context.Background(), FetchRequest{
		Ingredients:                []string{"egg"},
		PreferAvailableIngredients: true,
		PreferOwnRecipes:           true,
	})

	require.NoError(t, err)
	assert.Equal(t, pancakes(), got)
	require.Len(t, chat.requests, 1)
	assert.Nil(t, chat.requests[0].Retriever)
	assert.Equal(t, "FIX_JSON_OWN", chat.requests[0].SystemMessage)
	assert.Len(t, chat.requests[0].Tools, 1)
}

func TestFetchRecipeFor_PlainWithoutImage(t *testing.T) {
	chat := &recordingChat{recipe: pancakes()}
	o := newTestOrchestrator(t, chat, nil, nil)

	got, err := o.FetchRecipeFor(context.Background(), FetchRequest{Ingredients: []string{"egg", "flour"}})

	require.NoError(t, err)
	assert.Equal(t, pancakes(), got)
}

func TestFetchRecipeFor_PlainWithImage(t *testing.T) {
	chat := &recordingChat{recipe: pancakes()}
	image := &stubImage{url: "http://img/1.png"}
	o := newTestOrchestrator(t, chat, nil, image)

	got, err := o.FetchRecipeFor(context.Background(), FetchRequest{Ingredients: []string{"egg", "flour"}})

	require.NoError(t, err)
	want := pancakes()
	want.ImageURL = "http://img/1.png"
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"IMG Pancakes"}, image.prompts)
}

func TestFetchRecipeFor_ImageFailureIsSwallowed(t *testing.T) {
	chat := &recordingChat{recipe: pancakes()}
	image := &stubImage{err: errors.New("content policy violation")}
	o := newTestOrchestrator(t, chat, nil, image)

	got, err := o.FetchRecipeFor(context.Background(), FetchRequest{Ingredients: []string{"egg", "flour"}})

	require.NoError(t, err)
	assert.Equal(t, pancakes(), got)
}

func TestFetchRecipeFor_ImageWithoutURLIsSwallowed(t *testing.T) {
	chat := &recordingChat{recipe: pancakes()}
	o := newTestOrchestrator(t, chat, nil, &stubImage{})

	got, err := o.FetchRecipeFor(context.Background(), FetchRequest{Ingredients: []string{"egg"}})

	require.NoError(t, err)
	assert.Equal(t, "", got.ImageURL)
}

func TestFetchRecipeFor_ChatFailureIsBackendError(t *testing.T) {
	chat := &recordingChat{err: errors.New("connection reset")}
	image := &stubImage{url: "http://img/1.png"}
	o := newTestOrchestrator(t, chat, nil, image)

	_, err := o.FetchRecipeFor(context.Background(), FetchRequest{Ingredients: []string{"egg"}})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeBackend))
	assert.ErrorContains(t, err, "connection reset")
	assert.Empty(t, image.prompts)
}

func TestFetchRecipeFor_BackendErrorPassesThrough(t *testing.T) {
	backendErr := apperrors.NewBackendError("Chat model returned an invalid recipe", "RECIPE_DECODE_FAILED", nil)
	o := newTestOrchestrator(t, &recordingChat{err: backendErr}, nil, nil)

	_, err := o.FetchRecipeFor(context.Background(), FetchRequest{Ingredients: []string{"egg"}})

	assert.Same(t, backendErr, err)
}

func TestNewOrchestrator_Validation(t *testing.T) {
	_, err := NewOrchestrator(Config{Prompts: testPrompts(t)})
	assert.Error(t, err)

	_, err = NewOrchestrator(Config{Chat: &recordingChat{}})
	assert.Error(t, err)
}

func TestDisplayNames(t *testing.T) {
	o := newTestOrchestrator(t, &recordingChat{}, &stubRetriever{}, &stubImage{})
	assert.Equal(t, []string{"Stub (Chat: test)", "Stub (Embedding: test)", "Stub (Image: test)"}, o.DisplayNames())

	o = newTestOrchestrator(t, &recordingChat{}, nil, nil)
	assert.Equal(t, []string{"Stub (Chat: test)"}, o.DisplayNames())
}

func TestSelectStrategy(t *testing.T) {
	assert.Equal(t, StrategyPlain, SelectStrategy(false, false))
	assert.Equal(t, StrategyTools, SelectStrategy(true, false))
	assert.Equal(t, StrategyRetrieval, SelectStrategy(false, true))
	assert.Equal(t, StrategyToolsAndRetrieval, SelectStrategy(true, true))
	assert.Equal(t, "tools_retrieval", StrategyToolsAndRetrieval.String())
}
