package recipes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"mix-and-munch/internal/core/ai"
	"mix-and-munch/internal/core/recipe"
	"mix-and-munch/internal/core/search"
	"mix-and-munch/internal/infrastructure/cache"
	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/infrastructure/store"
	"mix-and-munch/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

type stubSource struct {
	filter  map[string][]recipe.Summary
	details map[string]recipe.Detail
}

func (s *stubSource) FilterByIngredient(ctx context.Context, ingredient string) ([]recipe.Summary, error) {
	return s.filter[ingredient], nil
}

func (s *stubSource) LookupByID(ctx context.Context, id string) (*recipe.Detail, error) {
	detail, ok := s.details[id]
	if !ok {
		return nil, common.ErrRecipeNotFound
	}
	return &detail, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	source := &stubSource{
		filter: map[string][]recipe.Summary{
			"tomato": {{ID: "1", Title: "Tomato Soup"}, {ID: "2", Title: "Tomato Onion Stew"}},
			"onion":  {{ID: "2", Title: "Tomato Onion Stew"}},
		},
		details: map[string]recipe.Detail{
			"1": {ID: "1", Title: "Tomato Soup", Source: recipe.SourceTheMealDB,
				Ingredients: []recipe.Ingredient{{Name: "Tomato"}}},
			"2": {ID: "2", Title: "Tomato Onion Stew", Source: recipe.SourceTheMealDB,
				Ingredients: []recipe.Ingredient{{Name: "Tomato"}, {Name: "Onion"}}},
		},
	}

	cfg := &config.Config{
		Search: config.SearchConfig{MaxIngredients: 6, MaxCandidates: 10, MaxResults: 5, SummaryLimit: 30},
		Cache:  config.CacheConfig{FilterTTL: time.Hour, DetailTTL: time.Hour},
	}
	searchService := search.NewService(source, cache.NewNoopStore(), cfg)

	savedStore, err := store.NewSavedRecipeStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open saved store: %v", err)
	}
	t.Cleanup(func() { savedStore.Close() })

	h := NewHandler(searchService, ai.NewFallbackGenerator(), savedStore)

	router := gin.New()
	router.POST("/search", h.HandleSearch)
	router.POST("/quick-search", h.HandleQuickSearch)
	router.POST("/normalize", h.HandleNormalize)
	router.POST("/generate", h.HandleGenerate)
	router.GET("/recipes/:id", h.HandleGetRecipe)
	router.GET("/saved", h.HandleListSaved)
	router.POST("/saved", h.HandleSaveRecipe)
	router.DELETE("/saved/:id", h.HandleDeleteSaved)
	router.GET("/saved/:id/exists", h.HandleIsSaved)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleSearch(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/search", `{"ingredients":["kamatis","sibuyas"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result recipe.SearchResult
	if err := common.ParseJSONBytes(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Recipes) != 1 || result.Recipes[0].ID != "2" {
		t.Errorf("recipes = %+v, want single intersection hit 2", result.Recipes)
	}
}

func TestHandleSearchBadRequests(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, http.MethodPost, "/search", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing ingredients: status = %d, want 400", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/search", `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/search", `{"ingredients":["","  "]}`); w.Code != http.StatusBadRequest {
		t.Errorf("blank ingredients: status = %d, want 400", w.Code)
	}
}

func TestHandleQuickSearch(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/quick-search", `{"ingredients":["tomato"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result recipe.SearchResult
	if err := common.ParseJSONBytes(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Recipes) != 2 {
		t.Errorf("got %d recipes, want 2", len(result.Recipes))
	}
}

func TestHandleNormalize(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/normalize", `{"ingredients":["t0mat0","Knorr","sibuyas"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := common.ParseJSONBytes(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Ingredients) != 2 || result.Ingredients[0] != "tomato" || result.Ingredients[1] != "onion" {
		t.Errorf("ingredients = %v, want [tomato onion]", result.Ingredients)
	}
}

func TestHandleGetRecipe(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/recipes/2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var detail recipe.Detail
	if err := common.ParseJSONBytes(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if detail.ID != "2" || detail.Title != "Tomato Onion Stew" {
		t.Errorf("detail = %+v", detail)
	}

	if w := doJSON(t, router, http.MethodGet, "/recipes/999", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}
}

func TestHandleGenerate(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/generate", `{"ingredients":["manok","toyo"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var detail recipe.Detail
	if err := common.ParseJSONBytes(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if detail.Source != recipe.SourceGenerated {
		t.Errorf("source = %q, want %q", detail.Source, recipe.SourceGenerated)
	}
	if detail.Title != "Chicken Adobo (Filipino Style)" {
		t.Errorf("title = %q", detail.Title)
	}

	if w := doJSON(t, router, http.MethodPost, "/generate", `{"ingredients":["knorr"]}`); w.Code != http.StatusBadRequest {
		t.Errorf("brand-only input: status = %d, want 400", w.Code)
	}
}

func TestSavedEndpoints(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, http.MethodPost, "/saved", `{"id":"52804","title":"Chicken Adobo","source":"themealdb"}`); w.Code != http.StatusCreated {
		t.Fatalf("save: status = %d, body = %s", w.Code, w.Body.String())
	}

	w := doJSON(t, router, http.MethodGet, "/saved/52804/exists", "")
	if w.Code != http.StatusOK {
		t.Fatalf("exists: status = %d", w.Code)
	}
	var exists struct {
		Saved bool `json:"saved"`
	}
	if err := common.ParseJSONBytes(w.Body.Bytes(), &exists); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !exists.Saved {
		t.Error("recipe should be reported saved")
	}

	w = doJSON(t, router, http.MethodGet, "/saved", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var list struct {
		Count   int             `json:"count"`
		Recipes []recipe.Detail `json:"recipes"`
	}
	if err := common.ParseJSONBytes(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if list.Count != 1 || len(list.Recipes) != 1 {
		t.Errorf("list = %+v, want one saved recipe", list)
	}

	if w := doJSON(t, router, http.MethodDelete, "/saved/52804", ""); w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/saved/52804/exists", "")
	if err := common.ParseJSONBytes(w.Body.Bytes(), &exists); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if exists.Saved {
		t.Error("recipe still reported saved after delete")
	}

	if w := doJSON(t, router, http.MethodPost, "/saved", `{"id":"","title":""}`); w.Code != http.StatusBadRequest {
		t.Errorf("save without id: status = %d, want 400", w.Code)
	}
}
