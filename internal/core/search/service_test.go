package search

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"mix-and-munch/internal/core/recipe"
	"mix-and-munch/internal/infrastructure/cache"
	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/pkg/common"
)

// stubSource is a canned RecipeSource for pipeline tests.
type stubSource struct {
	mu          sync.Mutex
	filter      map[string][]recipe.Summary
	details     map[string]recipe.Detail
	filterErrs  map[string]error
	lookupErrs  map[string]error
	filterCalls int
	lookupCalls int
}

func (s *stubSource) FilterByIngredient(ctx context.Context, ingredient string) ([]recipe.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterCalls++
	if err := s.filterErrs[ingredient]; err != nil {
		return nil, err
	}
	return s.filter[ingredient], nil
}

func (s *stubSource) LookupByID(ctx context.Context, id string) (*recipe.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupCalls++
	if err := s.lookupErrs[id]; err != nil {
		return nil, err
	}
	detail, ok := s.details[id]
	if !ok {
		return nil, common.ErrRecipeNotFound
	}
	return &detail, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			MaxIngredients: 6,
			MaxCandidates:  10,
			MaxResults:     5,
			SummaryLimit:   30,
		},
		Cache: config.CacheConfig{
			FilterTTL: time.Hour,
			DetailTTL: time.Hour,
		},
	}
}

func newTestSource() *stubSource {
	return &stubSource{
		filter: map[string][]recipe.Summary{
			"tomato": {
				{ID: "1", Title: "Tomato Soup"},
				{ID: "2", Title: "Tomato Onion Stew"},
			},
			"onion": {
				{ID: "2", Title: "Tomato Onion Stew"},
				{ID: "3", Title: "Onion Rings"},
			},
		},
		details: map[string]recipe.Detail{
			"1": {ID: "1", Title: "Tomato Soup", Source: recipe.SourceTheMealDB,
				Ingredients: []recipe.Ingredient{{Name: "Tomato"}}},
			"2": {ID: "2", Title: "Tomato Onion Stew", Source: recipe.SourceTheMealDB,
				Ingredients: []recipe.Ingredient{{Name: "Tomato"}, {Name: "Onion"}}},
			"3": {ID: "3", Title: "Onion Rings", Source: recipe.SourceTheMealDB,
				Ingredients: []recipe.Ingredient{{Name: "Onion"}}},
		},
		filterErrs: map[string]error{},
		lookupErrs: map[string]error{},
	}
}

func TestSearchEndToEnd(t *testing.T) {
	source := newTestSource()
	svc := NewService(source, cache.NewNoopStore(), testConfig())

	// Raw input exercises typo repair and Filipino translation before the
	// pipeline runs.
	result, err := svc.Search(context.Background(), []string{"t0mat0", "sibuyas"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if !reflect.DeepEqual(result.SearchedIngredients, []string{"tomato", "onion"}) {
		t.Errorf("searched ingredients = %v, want [tomato onion]", result.SearchedIngredients)
	}
	if len(result.Recipes) != 1 {
		t.Fatalf("got %d recipes, want 1 (intersection only)", len(result.Recipes))
	}
	top := result.Recipes[0]
	if top.ID != "2" {
		t.Errorf("top recipe = %s, want 2", top.ID)
	}
	if top.MatchedCount != 2 {
		t.Errorf("top matched count = %d, want 2", top.MatchedCount)
	}
	if top.MatchInfo == nil {
		t.Fatal("top recipe missing match info")
	}
	if !top.MatchInfo.IsExactMatch {
		t.Error("recipe 2 contains both terms, expected exact match")
	}
	if result.PartialMatch {
		t.Error("intersection hit should not flag partial match")
	}
}

func TestSearchUnionFallbackRanksByMatchCount(t *testing.T) {
	source := newTestSource()
	// Remove the shared recipe so the intersection is empty.
	source.filter["tomato"] = []recipe.Summary{{ID: "1", Title: "Tomato Soup"}}
	source.filter["onion"] = []recipe.Summary{{ID: "3", Title: "Onion Rings"}}

	svc := NewService(source, cache.NewNoopStore(), testConfig())
	result, err := svc.Search(context.Background(), []string{"tomato", "onion"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if !result.PartialMatch {
		t.Error("union fallback should flag partial match")
	}
	if len(result.Recipes) != 2 {
		t.Fatalf("got %d recipes, want 2", len(result.Recipes))
	}
}

func TestSearchSkipsFailedTerm(t *testing.T) {
	source := newTestSource()
	source.filterErrs["onion"] = errors.New("upstream unavailable")

	svc := NewService(source, cache.NewNoopStore(), testConfig())
	result, err := svc.Search(context.Background(), []string{"tomato", "onion"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	// Only the tomato query succeeded, so its two recipes form the
	// intersection over queried terms.
	if len(result.Recipes) != 2 {
		t.Fatalf("got %d recipes, want 2 from the surviving term", len(result.Recipes))
	}
	for _, r := range result.Recipes {
		if r.ID == "3" {
			t.Error("recipe 3 comes only from the failed term and must be absent")
		}
	}
}

func TestSearchSkipsFailedDetail(t *testing.T) {
	source := newTestSource()
	source.filter["tomato"] = []recipe.Summary{{ID: "1"}}
	source.filter["onion"] = []recipe.Summary{{ID: "3"}}
	source.lookupErrs["1"] = errors.New("boom")

	svc := NewService(source, cache.NewNoopStore(), testConfig())
	result, err := svc.Search(context.Background(), []string{"tomato", "onion"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(result.Recipes) != 1 || result.Recipes[0].ID != "3" {
		t.Errorf("recipes = %+v, want only recipe 3", result.Recipes)
	}
}

func TestSearchSuggestion(t *testing.T) {
	source := newTestSource()
	source.filter = map[string][]recipe.Summary{
		"tomato":  {},
		"saffron": {},
	}

	svc := NewService(source, cache.NewNoopStore(), testConfig())
	result, err := svc.Search(context.Background(), []string{"tomato", "saffron"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(result.Recipes) != 0 {
		t.Errorf("recipes = %v, want none", result.Recipes)
	}
	if result.Suggestion != "tomato" {
		t.Errorf("suggestion = %q, want %q", result.Suggestion, "tomato")
	}
}

func TestSearchRejectsEmptyInput(t *testing.T) {
	svc := NewService(newTestSource(), cache.NewNoopStore(), testConfig())

	_, err := svc.Search(context.Background(), []string{"", "  ", "knorr"})
	if !errors.Is(err, common.ErrNoIngredients) {
		t.Errorf("err = %v, want ErrNoIngredients", err)
	}
}

func TestQuickSearchOrdering(t *testing.T) {
	source := newTestSource()
	svc := NewService(source, cache.NewNoopStore(), testConfig())

	result, err := svc.QuickSearch(context.Background(), []string{"tomato", "onion"})
	if err != nil {
		t.Fatalf("QuickSearch returned error: %v", err)
	}

	if len(result.Recipes) != 3 {
		t.Fatalf("got %d recipes, want 3", len(result.Recipes))
	}
	if result.Recipes[0].ID != "2" || result.Recipes[0].MatchedCount != 2 {
		t.Errorf("top = %+v, want recipe 2 with count 2", result.Recipes[0])
	}
	// Count-1 pair ordered by title: Onion Rings before Tomato Soup.
	if result.Recipes[1].ID != "3" || result.Recipes[2].ID != "1" {
		t.Errorf("tail order = [%s %s], want [3 1]", result.Recipes[1].ID, result.Recipes[2].ID)
	}
	// Quick mode never fetches details.
	if source.lookupCalls != 0 {
		t.Errorf("quick search made %d detail lookups, want 0", source.lookupCalls)
	}
}

func TestGetRecipeReadsThroughCache(t *testing.T) {
	source := newTestSource()
	store := cache.NewMemoryStore(&config.CacheConfig{
		MaxSize:         100,
		CleanupInterval: time.Minute,
	})
	defer store.Close()

	cfg := testConfig()
	svc := NewService(source, store, cfg)

	first, err := svc.GetRecipe(context.Background(), "2")
	if err != nil {
		t.Fatalf("GetRecipe returned error: %v", err)
	}
	second, err := svc.GetRecipe(context.Background(), "2")
	if err != nil {
		t.Fatalf("GetRecipe (cached) returned error: %v", err)
	}

	if source.lookupCalls != 1 {
		t.Errorf("lookup calls = %d, want 1 (second read served from cache)", source.lookupCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached detail %+v differs from original %+v", second, first)
	}
}

func TestGetRecipeNotFound(t *testing.T) {
	svc := NewService(newTestSource(), cache.NewNoopStore(), testConfig())

	_, err := svc.GetRecipe(context.Background(), "999")
	if !errors.Is(err, common.ErrRecipeNotFound) {
		t.Errorf("err = %v, want ErrRecipeNotFound", err)
	}
}

func TestNormalizeUsesConfiguredCap(t *testing.T) {
	cfg := testConfig()
	cfg.Search.MaxIngredients = 2
	svc := NewService(newTestSource(), cache.NewNoopStore(), cfg)

	got := svc.Normalize([]string{"onion", "tomato", "garlic"})
	if !reflect.DeepEqual(got, []string{"onion", "tomato"}) {
		t.Errorf("Normalize = %v, want capped [onion tomato]", got)
	}
}
