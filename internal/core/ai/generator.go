package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"mix-and-munch/internal/core/recipe"
	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generator produces a recipe from a list of normalized ingredients when
// the recipe source has nothing to offer.
type Generator interface {
	GenerateRecipe(ctx context.Context, ingredients []string) (*recipe.Detail, error)
	IsAvailable(ctx context.Context) bool
}

// OllamaGenerator talks to a local Ollama instance.
type OllamaGenerator struct {
	client *resty.Client
	model  string
}

// NewOllamaGenerator creates a generator from config.
func NewOllamaGenerator(cfg *config.OllamaConfig) *OllamaGenerator {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &OllamaGenerator{
		client: client,
		model:  cfg.Model,
	}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// generatedRecipe is the JSON shape the model is asked to answer with.
type generatedRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Measures     []string `json:"measures"`
	Instructions []string `json:"instructions"`
	SafetyNotes  []string `json:"safety_notes"`
}

// GenerateRecipe asks the model for a Filipino recipe built from the
// given ingredients and parses the JSON answer into a recipe detail.
func (g *OllamaGenerator) GenerateRecipe(ctx context.Context, ingredients []string) (*recipe.Detail, error) {
	prompt := buildPrompt(ingredients)

	var result ollamaResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(ollamaRequest{
			Model:  g.model,
			Prompt: prompt,
			Stream: false,
			Options: ollamaOptions{
				Temperature: 0.7,
				TopP:        0.9,
				MaxTokens:   2048,
			},
		}).
		SetResult(&result).
		Post("/api/generate")

	if err != nil {
		return nil, fmt.Errorf("generator request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode())
	}
	if result.Response == "" {
		return nil, fmt.Errorf("empty generator response")
	}

	return g.parseResponse(result.Response, ingredients)
}

// IsAvailable probes the Ollama version endpoint.
func (g *OllamaGenerator) IsAvailable(ctx context.Context) bool {
	resp, err := g.client.R().SetContext(ctx).Get("/api/version")
	return err == nil && resp.StatusCode() == http.StatusOK
}

func buildPrompt(ingredients []string) string {
	var b strings.Builder
	b.WriteString("You are a Filipino cuisine expert. Create a recipe using these ingredients:\n")
	b.WriteString("Ingredients: " + strings.Join(ingredients, ", ") + "\n\n")
	b.WriteString("Requirements:\n")
	b.WriteString("1. Create an authentic Filipino recipe\n")
	b.WriteString("2. Use proper Filipino cooking techniques\n")
	b.WriteString("3. Include safety notes for risky ingredients or methods\n")
	b.WriteString("4. Include proper cooking temperatures for meat and poultry\n\n")
	b.WriteString("Respond with compact JSON only, in this shape:\n")
	b.WriteString(`{"title":"...","ingredients":["..."],"measures":["..."],"instructions":["..."],"safety_notes":["..."]}`)
	return b.String()
}

// parseResponse extracts the JSON object the model produced, tolerating
// surrounding prose and unquoted keys, and validates safety notes.
func (g *OllamaGenerator) parseResponse(raw string, ingredients []string) (*recipe.Detail, error) {
	content := common.ExtractJSONObject(strings.TrimSpace(raw))
	content = common.QuoteJSONKeys(content)

	var gen generatedRecipe
	if err := common.ParseJSON(content, &gen); err != nil {
		common.LogDebug("generator response parse failed",
			zap.Int("response_length", len(raw)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to parse generator response: %w", err)
	}
	if gen.Title == "" || len(gen.Instructions) == 0 {
		return nil, fmt.Errorf("incomplete generated recipe")
	}

	pairs := make([]recipe.Ingredient, 0, len(gen.Ingredients))
	for i, name := range gen.Ingredients {
		measure := ""
		if i < len(gen.Measures) {
			measure = gen.Measures[i]
		}
		pairs = append(pairs, recipe.Ingredient{Name: name, Measure: measure})
	}

	instructions := strings.Join(gen.Instructions, "\n")
	if notes := ensureSafetyNotes(gen, ingredients); len(notes) > 0 {
		instructions += "\n\nSafety notes:\n" + strings.Join(notes, "\n")
	}

	return &recipe.Detail{
		ID:           "gen-" + uuid.New().String(),
		Title:        gen.Title,
		Area:         "Filipino",
		Ingredients:  pairs,
		Instructions: instructions,
		Source:       recipe.SourceGenerated,
		Model:        g.model,
	}, nil
}

// ensureSafetyNotes backfills meat-temperature notes the model omitted.
func ensureSafetyNotes(gen generatedRecipe, ingredients []string) []string {
	notes := gen.SafetyNotes
	text := strings.ToLower(gen.Title + " " + strings.Join(gen.Ingredients, " ") + " " + strings.Join(ingredients, " "))

	hasNote := func(marker string) bool {
		for _, n := range notes {
			if strings.Contains(n, marker) {
				return true
			}
		}
		return false
	}

	if strings.Contains(text, "chicken") && !hasNote("74") {
		notes = append(notes, "Cook chicken to an internal temperature of 74C (165F)")
	}
	if strings.Contains(text, "pork") && !hasNote("63") {
		notes = append(notes, "Cook pork to an internal temperature of 63C (145F)")
	}
	if strings.Contains(text, "ground") && !hasNote("71") {
		notes = append(notes, "Cook ground meat to an internal temperature of 71C (160F)")
	}
	return notes
}
