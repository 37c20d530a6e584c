package search

import (
	"context"
	"sync"
	"time"

	"mix-and-munch/internal/core/ingredient"
	"mix-and-munch/internal/core/ranking"
	"mix-and-munch/internal/core/recipe"
	"mix-and-munch/internal/infrastructure/cache"
	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/pkg/common"

	"go.uber.org/zap"
)

// RecipeSource is the external recipe lookup contract. The production
// implementation is the TheMealDB client; tests substitute a stub.
type RecipeSource interface {
	FilterByIngredient(ctx context.Context, ingredient string) ([]recipe.Summary, error)
	LookupByID(ctx context.Context, id string) (*recipe.Detail, error)
}

// Service runs the ingredient search pipeline: normalize the raw input,
// fan out one filter query per term, select candidates, fetch details,
// rank. Filter and detail lookups read through the cache store.
type Service struct {
	source    RecipeSource
	cache     cache.Store
	cfg       *config.SearchConfig
	filterTTL time.Duration
	detailTTL time.Duration
}

// NewService creates a search service.
func NewService(source RecipeSource, cacheStore cache.Store, cfg *config.Config) *Service {
	return &Service{
		source:    source,
		cache:     cacheStore,
		cfg:       &cfg.Search,
		filterTTL: cfg.Cache.FilterTTL,
		detailTTL: cfg.Cache.DetailTTL,
	}
}

// Normalize exposes the normalizer with the configured cap.
func (s *Service) Normalize(rawInputs []string) []string {
	return ingredient.Normalize(rawInputs, s.cfg.MaxIngredients)
}

// Search runs the full pipeline and returns ranked recipes with match
// details. A term whose filter query fails is skipped; a candidate whose
// detail fetch fails is skipped. Zero matches yield an empty result with
// a removal suggestion, not an error.
func (s *Service) Search(ctx context.Context, rawInputs []string) (*recipe.SearchResult, error) {
	terms := s.Normalize(rawInputs)
	if len(terms) == 0 {
		return nil, common.ErrNoIngredients
	}

	perTerm := s.filterAll(ctx, terms)

	perTermIDs := make(map[string][]string, len(perTerm))
	for term, stubs := range perTerm {
		ids := make([]string, 0, len(stubs))
		for _, stub := range stubs {
			ids = append(ids, stub.ID)
		}
		perTermIDs[term] = ids
	}

	cand := ranking.SelectCandidates(perTermIDs, terms)
	if len(cand.IDs) == 0 {
		return &recipe.SearchResult{
			Recipes:             []recipe.Summary{},
			SearchedIngredients: terms,
			Suggestion:          cand.Suggestion,
		}, nil
	}

	matchCounts := ranking.MatchCounts(perTermIDs, cand.IDs)
	details := s.fetchDetails(ctx, cand.IDs)

	ranked := ranking.Rank(details, matchCounts, terms, s.cfg.MaxResults)

	summaries := make([]recipe.Summary, 0, len(ranked))
	for _, r := range ranked {
		info := r.MatchInfo
		summaries = append(summaries, recipe.Summary{
			ID:           r.Detail.ID,
			Title:        r.Detail.Title,
			Thumbnail:    r.Detail.Thumbnail,
			Source:       r.Detail.Source,
			MatchedCount: matchCounts[r.Detail.ID],
			MatchInfo:    &info,
		})
	}

	return &recipe.SearchResult{
		Recipes:             summaries,
		SearchedIngredients: terms,
		PartialMatch:        cand.PartialMatch,
	}, nil
}

// QuickSearch is the cheap mode: no detail fetches, ordering by match
// count descending then title ascending, straight from filter responses.
func (s *Service) QuickSearch(ctx context.Context, rawInputs []string) (*recipe.SearchResult, error) {
	terms := s.Normalize(rawInputs)
	if len(terms) == 0 {
		return nil, common.ErrNoIngredients
	}

	perTerm := s.filterAll(ctx, terms)

	counts := make(map[string]int)
	stubs := make(map[string]recipe.Summary)
	var order []string
	for _, term := range terms {
		for _, stub := range perTerm[term] {
			if counts[stub.ID] == 0 {
				order = append(order, stub.ID)
				stubs[stub.ID] = stub
			}
			counts[stub.ID]++
		}
	}

	summaries := make([]recipe.Summary, 0, len(order))
	for _, id := range order {
		stub := stubs[id]
		stub.MatchedCount = counts[id]
		summaries = append(summaries, stub)
	}

	return &recipe.SearchResult{
		Recipes:             ranking.RankSummaries(summaries, s.cfg.SummaryLimit),
		SearchedIngredients: terms,
	}, nil
}

// GetRecipe fetches one recipe detail through the cache.
func (s *Service) GetRecipe(ctx context.Context, id string) (*recipe.Detail, error) {
	if cached, err := s.cache.Get(ctx, cache.DetailKey(id)); err == nil {
		var detail recipe.Detail
		if err := common.ParseJSON(cached, &detail); err == nil {
			common.LogCacheHit("detail", id)
			return &detail, nil
		}
	}
	common.LogCacheMiss("detail", id)

	detail, err := s.source.LookupByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := common.ToJSON(detail); err == nil {
		if err := s.cache.Set(ctx, cache.DetailKey(id), data, s.detailTTL); err != nil {
			common.LogWarn("failed to cache recipe detail", zap.String("id", id), zap.Error(err))
		}
	}

	return detail, nil
}

// fetchDetails resolves candidate details in candidate order. IDs whose
// lookup fails are skipped so one bad candidate cannot sink the search.
func (s *Service) fetchDetails(ctx context.Context, ids []string) []recipe.Detail {
	details := make([]recipe.Detail, 0, len(ids))
	for _, id := range ids {
		detail, err := s.GetRecipe(ctx, id)
		if err != nil {
			common.LogWarn("detail lookup failed, skipping candidate",
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}
		details = append(details, *detail)
	}
	return details
}

// filterAll fires one filter query per term concurrently and collects
// the results. Terms whose queries fail are absent from the returned
// map; merge order does not matter because candidate selection uses set
// operations keyed by the terms slice.
func (s *Service) filterAll(ctx context.Context, terms []string) map[string][]recipe.Summary {
	results := make(map[string][]recipe.Summary, len(terms))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, term := range terms {
		wg.Add(1)
		go func(term string) {
			defer wg.Done()
			stubs, err := s.filterOne(ctx, term)
			if err != nil {
				common.LogWarn("filter query failed, skipping term",
					zap.String("ingredient", term),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			results[term] = stubs
			mu.Unlock()
		}(term)
	}
	wg.Wait()

	return results
}

// filterOne resolves a single term's filter result, cache first.
func (s *Service) filterOne(ctx context.Context, term string) ([]recipe.Summary, error) {
	if cached, err := s.cache.Get(ctx, cache.FilterKey(term)); err == nil {
		var stubs []recipe.Summary
		if err := common.ParseJSON(cached, &stubs); err == nil {
			common.LogCacheHit("filter", term)
			return stubs, nil
		}
	}
	common.LogCacheMiss("filter", term)

	stubs, err := s.source.FilterByIngredient(ctx, term)
	if err != nil {
		return nil, err
	}

	if data, err := common.ToJSON(stubs); err == nil {
		if err := s.cache.Set(ctx, cache.FilterKey(term), data, s.filterTTL); err != nil {
			common.LogWarn("failed to cache filter result", zap.String("ingredient", term), zap.Error(err))
		}
	}

	return stubs, nil
}
