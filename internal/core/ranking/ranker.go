package ranking

import (
	"sort"
	"strings"

	"mix-and-munch/internal/core/recipe"
)

// Scoring weights. A recipe earns 3 points per matched search term, 2 per
// term appearing in its title, a flat 2 for being a Filipino dish, 1 for
// having a thumbnail, and loses 1 when more than 3 searched ingredients
// are missing from its ingredient list.
const (
	matchCountWeight   = 3.0
	titleMatchWeight   = 2.0
	filipinoBoost      = 2.0
	thumbnailBonus     = 1.0
	missingPenalty     = 1.0
	missingPenaltyOver = 3
)

// DefaultLimit is the number of fully ranked results returned to callers.
const DefaultLimit = 5

// DefaultSummaryLimit is the cap for the match-count-only ranking mode.
const DefaultSummaryLimit = 30

// MaxCandidates bounds how many recipe details are fetched per search.
const MaxCandidates = 10

// filipinoKeywords flag a recipe as a Filipino dish when any of them
// appears in its title, area, category or tags.
var filipinoKeywords = []string{
	"filipino", "adobo", "sinigang", "ginisa", "tinola",
	"inihaw", "bistek", "menudo", "afritada", "kaldereta",
	"kare kare", "pinakbet",
}

// Candidates is the outcome of candidate selection over per-term filter
// results.
type Candidates struct {
	// IDs are the recipe ids worth fetching details for, capped at
	// MaxCandidates.
	IDs []string
	// PartialMatch is true when no recipe contained every searched
	// ingredient and the union fallback was used.
	PartialMatch bool
	// Suggestion is the searched ingredient with the fewest matches,
	// set only when IDs is empty.
	Suggestion string
}

// SelectCandidates reduces per-term filter results to the ids worth
// fetching. Recipes matching every term win; otherwise any-match recipes
// are taken in first-seen order across terms; when nothing matched at
// all, the least productive search term is surfaced as a suggestion.
// terms fixes the iteration order so selection is deterministic.
func SelectCandidates(perTermIDs map[string][]string, terms []string) Candidates {
	// Union in first-seen order across terms, and the per-id term count.
	var union []string
	counts := make(map[string]int)
	for _, term := range terms {
		for _, id := range perTermIDs[term] {
			if counts[id] == 0 {
				union = append(union, id)
			}
			counts[id]++
		}
	}

	// Intersection keeps union order: ids every queried term returned.
	queried := 0
	for _, term := range terms {
		if _, ok := perTermIDs[term]; ok {
			queried++
		}
	}
	var intersection []string
	if queried > 0 {
		for _, id := range union {
			if counts[id] == queried {
				intersection = append(intersection, id)
			}
		}
	}

	switch {
	case len(intersection) > 0:
		return Candidates{IDs: capIDs(intersection)}
	case len(union) > 0:
		return Candidates{IDs: capIDs(union), PartialMatch: true}
	default:
		return Candidates{Suggestion: suggestRemoval(perTermIDs, terms)}
	}
}

func capIDs(ids []string) []string {
	if len(ids) > MaxCandidates {
		return ids[:MaxCandidates]
	}
	return ids
}

// suggestRemoval picks the searched ingredient whose filter query matched
// the fewest recipes, breaking ties by search order.
func suggestRemoval(perTermIDs map[string][]string, terms []string) string {
	best := ""
	bestCount := -1
	for _, term := range terms {
		ids, ok := perTermIDs[term]
		if !ok {
			continue
		}
		if bestCount == -1 || len(ids) < bestCount {
			best = term
			bestCount = len(ids)
		}
	}
	return best
}

// MatchCounts derives, for each candidate id, how many searched terms
// returned it.
func MatchCounts(perTermIDs map[string][]string, ids []string) map[string]int {
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		for _, termIDs := range perTermIDs {
			for _, tid := range termIDs {
				if tid == id {
					counts[id]++
					break
				}
			}
		}
	}
	return counts
}

// Score computes the MatchInfo for one recipe against the searched terms.
func Score(detail recipe.Detail, matchCount int, terms []string) recipe.MatchInfo {
	matched, missing := splitMatches(detail, terms)

	score := matchCountWeight * float64(matchCount)

	title := strings.ToLower(detail.Title)
	for _, term := range terms {
		if strings.Contains(title, strings.ToLower(term)) {
			score += titleMatchWeight
		}
	}

	filipino := IsFilipinoDish(detail)
	if filipino {
		score += filipinoBoost
	}

	if strings.TrimSpace(detail.Thumbnail) != "" {
		score += thumbnailBonus
	}

	if len(missing) > missingPenaltyOver {
		score -= missingPenalty
	}

	return recipe.MatchInfo{
		MatchedIngredients: matched,
		MissingIngredients: missing,
		IsExactMatch:       len(missing) == 0 && len(matched) == len(terms),
		Score:              score,
		IsFilipino:         filipino,
	}
}

// splitMatches partitions the searched terms by bidirectional substring
// containment against the recipe's own ingredient names.
func splitMatches(detail recipe.Detail, terms []string) (matched, missing []string) {
	names := make([]string, 0, len(detail.Ingredients))
	for _, ing := range detail.Ingredients {
		names = append(names, strings.TrimSpace(strings.ToLower(ing.Name)))
	}

	matched = make([]string, 0, len(terms))
	missing = make([]string, 0)
	for _, term := range terms {
		lower := strings.ToLower(term)
		found := false
		for _, name := range names {
			if name == "" {
				continue
			}
			if strings.Contains(name, lower) || strings.Contains(lower, name) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, term)
		} else {
			missing = append(missing, term)
		}
	}
	return matched, missing
}

// IsFilipinoDish reports whether a recipe is judged Filipino, either by
// its area or by a dish keyword in its descriptive text.
func IsFilipinoDish(detail recipe.Detail) bool {
	if strings.EqualFold(detail.Area, "filipino") {
		return true
	}
	text := strings.ToLower(detail.Title + " " + detail.Area + " " + detail.Category + " " + strings.Join(detail.Tags, " "))
	for _, kw := range filipinoKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Ranked pairs a recipe with its computed match info.
type Ranked struct {
	Detail    recipe.Detail
	MatchInfo recipe.MatchInfo
}

// Rank scores every fetched recipe and orders them best-first. The sort
// is stable so equal scores keep their fetch order. limit <= 0 means
// DefaultLimit.
func Rank(details []recipe.Detail, matchCounts map[string]int, terms []string, limit int) []Ranked {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ranked := make([]Ranked, 0, len(details))
	for _, d := range details {
		ranked = append(ranked, Ranked{
			Detail:    d,
			MatchInfo: Score(d, matchCounts[d.ID], terms),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchInfo.Score > ranked[j].MatchInfo.Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// RankSummaries orders filter-level summaries by match count descending,
// title ascending. This is the cheap ranking mode used when no recipe
// details have been fetched. limit <= 0 means DefaultSummaryLimit.
func RankSummaries(summaries []recipe.Summary, limit int) []recipe.Summary {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	out := make([]recipe.Summary, len(summaries))
	copy(out, summaries)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchedCount != out[j].MatchedCount {
			return out[i].MatchedCount > out[j].MatchedCount
		}
		return out[i].Title < out[j].Title
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
