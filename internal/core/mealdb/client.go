package mealdb

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mix-and-munch/internal/core/recipe"
	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Client queries TheMealDB public API. It serves two endpoints: filter
// by ingredient and lookup by id.
type Client struct {
	client *resty.Client
}

// NewClient creates a TheMealDB client from config.
func NewClient(cfg *config.MealDBConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// FilterByIngredient returns the recipe stubs whose ingredient lists
// contain the given ingredient. TheMealDB answers {"meals": null} when
// nothing matches; that is an empty result, not an error.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]recipe.Summary, error) {
	start := time.Now()
	var result filterResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("i", ingredient).
		SetResult(&result).
		Get("/filter.php")
	common.LogUpstreamCall("filter.php", time.Since(start), err, "")

	if err != nil {
		return nil, fmt.Errorf("failed to filter by ingredient %q: %w", ingredient, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("filter by ingredient %q returned status %d", ingredient, resp.StatusCode())
	}

	summaries := make([]recipe.Summary, 0, len(result.Meals))
	for _, meal := range result.Meals {
		summaries = append(summaries, recipe.Summary{
			ID:        meal.IDMeal,
			Title:     meal.StrMeal,
			Thumbnail: meal.StrMealThumb,
			Source:    recipe.SourceTheMealDB,
		})
	}
	return summaries, nil
}

// LookupByID fetches the full record for a recipe id. A missing id
// yields common.ErrRecipeNotFound.
func (c *Client) LookupByID(ctx context.Context, id string) (*recipe.Detail, error) {
	start := time.Now()
	var result lookupResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("i", id).
		SetResult(&result).
		Get("/lookup.php")
	common.LogUpstreamCall("lookup.php", time.Since(start), err, "")

	if err != nil {
		return nil, fmt.Errorf("failed to look up recipe %q: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("lookup of recipe %q returned status %d", id, resp.StatusCode())
	}
	if len(result.Meals) == 0 {
		return nil, common.ErrRecipeNotFound
	}

	detail := result.Meals[0].toDetail()
	return &detail, nil
}

type filterResponse struct {
	Meals []mealStub `json:"meals"`
}

type mealStub struct {
	IDMeal       string `json:"idMeal"`
	StrMeal      string `json:"strMeal"`
	StrMealThumb string `json:"strMealThumb"`
}

type lookupResponse struct {
	Meals []mealDetail `json:"meals"`
}

// mealDetail mirrors TheMealDB's flat detail payload with its twenty
// numbered ingredient and measure slots.
type mealDetail struct {
	IDMeal          string `json:"idMeal"`
	StrMeal         string `json:"strMeal"`
	StrMealThumb    string `json:"strMealThumb"`
	StrCategory     string `json:"strCategory"`
	StrArea         string `json:"strArea"`
	StrInstructions string `json:"strInstructions"`
	StrTags         string `json:"strTags"`

	StrIngredient1  string `json:"strIngredient1"`
	StrIngredient2  string `json:"strIngredient2"`
	StrIngredient3  string `json:"strIngredient3"`
	StrIngredient4  string `json:"strIngredient4"`
	StrIngredient5  string `json:"strIngredient5"`
	StrIngredient6  string `json:"strIngredient6"`
	StrIngredient7  string `json:"strIngredient7"`
	StrIngredient8  string `json:"strIngredient8"`
	StrIngredient9  string `json:"strIngredient9"`
	StrIngredient10 string `json:"strIngredient10"`
	StrIngredient11 string `json:"strIngredient11"`
	StrIngredient12 string `json:"strIngredient12"`
	StrIngredient13 string `json:"strIngredient13"`
	StrIngredient14 string `json:"strIngredient14"`
	StrIngredient15 string `json:"strIngredient15"`
	StrIngredient16 string `json:"strIngredient16"`
	StrIngredient17 string `json:"strIngredient17"`
	StrIngredient18 string `json:"strIngredient18"`
	StrIngredient19 string `json:"strIngredient19"`
	StrIngredient20 string `json:"strIngredient20"`

	StrMeasure1  string `json:"strMeasure1"`
	StrMeasure2  string `json:"strMeasure2"`
	StrMeasure3  string `json:"strMeasure3"`
	StrMeasure4  string `json:"strMeasure4"`
	StrMeasure5  string `json:"strMeasure5"`
	StrMeasure6  string `json:"strMeasure6"`
	StrMeasure7  string `json:"strMeasure7"`
	StrMeasure8  string `json:"strMeasure8"`
	StrMeasure9  string `json:"strMeasure9"`
	StrMeasure10 string `json:"strMeasure10"`
	StrMeasure11 string `json:"strMeasure11"`
	StrMeasure12 string `json:"strMeasure12"`
	StrMeasure13 string `json:"strMeasure13"`
	StrMeasure14 string `json:"strMeasure14"`
	StrMeasure15 string `json:"strMeasure15"`
	StrMeasure16 string `json:"strMeasure16"`
	StrMeasure17 string `json:"strMeasure17"`
	StrMeasure18 string `json:"strMeasure18"`
	StrMeasure19 string `json:"strMeasure19"`
	StrMeasure20 string `json:"strMeasure20"`
}

// ingredientPairs flattens the numbered slots into ordered name/measure
// pairs, skipping blank slots.
func (m *mealDetail) ingredientPairs() []recipe.Ingredient {
	names := []string{
		m.StrIngredient1, m.StrIngredient2, m.StrIngredient3, m.StrIngredient4,
		m.StrIngredient5, m.StrIngredient6, m.StrIngredient7, m.StrIngredient8,
		m.StrIngredient9, m.StrIngredient10, m.StrIngredient11, m.StrIngredient12,
		m.StrIngredient13, m.StrIngredient14, m.StrIngredient15, m.StrIngredient16,
		m.StrIngredient17, m.StrIngredient18, m.StrIngredient19, m.StrIngredient20,
	}
	measures := []string{
		m.StrMeasure1, m.StrMeasure2, m.StrMeasure3, m.StrMeasure4,
		m.StrMeasure5, m.StrMeasure6, m.StrMeasure7, m.StrMeasure8,
		m.StrMeasure9, m.StrMeasure10, m.StrMeasure11, m.StrMeasure12,
		m.StrMeasure13, m.StrMeasure14, m.StrMeasure15, m.StrMeasure16,
		m.StrMeasure17, m.StrMeasure18, m.StrMeasure19, m.StrMeasure20,
	}

	pairs := make([]recipe.Ingredient, 0, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		pairs = append(pairs, recipe.Ingredient{
			Name:    name,
			Measure: strings.TrimSpace(measures[i]),
		})
	}
	return pairs
}

func (m *mealDetail) toDetail() recipe.Detail {
	var tags []string
	for _, tag := range strings.Split(m.StrTags, ",") {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}

	return recipe.Detail{
		ID:           m.IDMeal,
		Title:        m.StrMeal,
		Thumbnail:    m.StrMealThumb,
		Category:     m.StrCategory,
		Area:         m.StrArea,
		Ingredients:  m.ingredientPairs(),
		Instructions: m.StrInstructions,
		Tags:         tags,
		Source:       recipe.SourceTheMealDB,
	}
}
