package ai

import (
	"context"
	"strings"

	"mix-and-munch/internal/core/recipe"

	"github.com/google/uuid"
)

// FallbackGenerator serves curated Filipino recipes when no model is
// reachable. It is always available.
type FallbackGenerator struct{}

// NewFallbackGenerator creates the curated generator.
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

func (f *FallbackGenerator) GenerateRecipe(ctx context.Context, ingredients []string) (*recipe.Detail, error) {
	var detail recipe.Detail
	switch {
	case containsAny(ingredients, "chicken", "manok"):
		detail = chickenAdobo()
	case containsAny(ingredients, "pork", "baboy"):
		detail = porkAdobo()
	case len(ingredients) >= 3:
		detail = pinakbet()
	default:
		detail = stirFry(ingredients)
	}

	detail.ID = "gen-" + uuid.New().String()
	detail.Source = recipe.SourceGenerated
	detail.Model = "fallback"
	return &detail, nil
}

func (f *FallbackGenerator) IsAvailable(ctx context.Context) bool {
	return true
}

func containsAny(ingredients []string, needles ...string) bool {
	for _, ing := range ingredients {
		lower := strings.ToLower(ing)
		for _, needle := range needles {
			if strings.Contains(lower, needle) {
				return true
			}
		}
	}
	return false
}

func chickenAdobo() recipe.Detail {
	return recipe.Detail{
		Title: "Chicken Adobo (Filipino Style)",
		Area:  "Filipino",
		Ingredients: []recipe.Ingredient{
			{Name: "Chicken pieces", Measure: "1 kg"},
			{Name: "Soy sauce", Measure: "1/2 cup"},
			{Name: "White vinegar", Measure: "1/4 cup"},
			{Name: "Garlic", Measure: "6 cloves"},
			{Name: "Bay leaves", Measure: "3 pieces"},
			{Name: "Black peppercorns", Measure: "1 tsp"},
		},
		Instructions: strings.Join([]string{
			"Combine chicken, soy sauce, vinegar, garlic, bay leaves, and peppercorns in a pot.",
			"Marinate for at least 30 minutes.",
			"Bring to a boil, then simmer covered for 20 minutes.",
			"Remove cover and continue cooking until sauce reduces.",
			"Cook chicken until the internal temperature reaches 74C (165F).",
			"Serve hot with steamed rice.",
		}, "\n"),
		Tags: []string{"adobo"},
	}
}

func porkAdobo() recipe.Detail {
	d := chickenAdobo()
	d.Title = "Pork Adobo (Filipino Style)"
	d.Ingredients[0] = recipe.Ingredient{Name: "Pork belly", Measure: "1 kg"}
	d.Instructions = strings.ReplaceAll(d.Instructions,
		"Cook chicken until the internal temperature reaches 74C (165F).",
		"Cook pork until the internal temperature reaches 63C (145F).")
	return d
}

func pinakbet() recipe.Detail {
	return recipe.Detail{
		Title: "Simple Pinakbet",
		Area:  "Filipino",
		Ingredients: []recipe.Ingredient{
			{Name: "Squash", Measure: "1/4 piece, cubed"},
			{Name: "String beans", Measure: "1 bundle"},
			{Name: "Eggplant", Measure: "2 pieces"},
			{Name: "Bitter gourd", Measure: "1 piece"},
			{Name: "Tomato", Measure: "2 pieces"},
			{Name: "Shrimp paste", Measure: "2 tbsp"},
		},
		Instructions: strings.Join([]string{
			"Saute garlic, onion, and tomato in oil.",
			"Add shrimp paste and cook for 2 minutes.",
			"Add squash and a splash of water, simmer for 5 minutes.",
			"Add the remaining vegetables and cook until tender but not mushy.",
			"Season to taste and serve with rice.",
		}, "\n"),
		Tags: []string{"pinakbet"},
	}
}

func stirFry(ingredients []string) recipe.Detail {
	pairs := make([]recipe.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		pairs = append(pairs, recipe.Ingredient{Name: ing, Measure: "as needed"})
	}
	return recipe.Detail{
		Title:       "Filipino-Style Stir Fry",
		Area:        "Filipino",
		Ingredients: pairs,
		Instructions: strings.Join([]string{
			"Heat oil in a large pan or wok.",
			"Add garlic and onions, saute until fragrant.",
			"Add the main ingredients and cook thoroughly.",
			"Season with soy sauce and pepper.",
			"Make sure any meat is cooked to a safe temperature before serving.",
		}, "\n"),
		Tags: []string{"ginisa"},
	}
}
