package recipe

// Source identifies where a recipe came from.
type Source string

const (
	// SourceTheMealDB marks recipes fetched from TheMealDB.
	SourceTheMealDB Source = "themealdb"
	// SourceGenerated marks recipes produced by the AI generator.
	SourceGenerated Source = "generated"
)

// Ingredient is a single name/measure pair from a recipe's ingredient list.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

// Detail is a full recipe record.
type Detail struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Thumbnail    string       `json:"thumbnail,omitempty"`
	Category     string       `json:"category,omitempty"`
	Area         string       `json:"area,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Source       Source       `json:"source"`
	// Model names the generator for SourceGenerated recipes.
	Model string `json:"model,omitempty"`
}

// MatchInfo describes how a recipe relates to the searched ingredients.
// It is computed fresh for every ranking pass and never stored.
type MatchInfo struct {
	MatchedIngredients []string `json:"matched_ingredients"`
	MissingIngredients []string `json:"missing_ingredients"`
	IsExactMatch       bool     `json:"is_exact_match"`
	Score              float64  `json:"score"`
	IsFilipino         bool     `json:"is_filipino"`
}

// Summary is the compact recipe shape returned by searches.
type Summary struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
	Source       Source     `json:"source"`
	MatchedCount int        `json:"matched_count,omitempty"`
	MatchInfo    *MatchInfo `json:"match_info,omitempty"`
}

// SearchResult is the outcome of a full ingredient search.
type SearchResult struct {
	Recipes             []Summary `json:"recipes"`
	SearchedIngredients []string  `json:"searched_ingredients"`
	PartialMatch        bool      `json:"partial_match"`
	// Suggestion names the searched ingredient worth removing when
	// nothing matched at all.
	Suggestion string `json:"suggestion,omitempty"`
}
