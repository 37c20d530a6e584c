package recipes

import (
	"errors"
	"net/http"

	"mix-and-munch/internal/core/ai"
	"mix-and-munch/internal/core/search"
	"mix-and-munch/internal/infrastructure/store"
	"mix-and-munch/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchRequest carries the raw pantry input for a search.
type SearchRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// NormalizeRequest previews the normalizer on raw input.
type NormalizeRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// GenerateRequest asks the AI generator for a recipe.
type GenerateRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// Handler serves recipe search and lookup endpoints.
type Handler struct {
	searchService *search.Service
	generator     ai.Generator
	savedStore    *store.SavedRecipeStore
}

// NewHandler creates a recipes handler.
func NewHandler(searchService *search.Service, generator ai.Generator, savedStore *store.SavedRecipeStore) *Handler {
	return &Handler{
		searchService: searchService,
		generator:     generator,
		savedStore:    savedStore,
	}
}

func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// HandleSearch runs the full search pipeline.
func (h *Handler) HandleSearch(c *gin.Context) {
	reqID := requestID(c)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("invalid search request",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	common.LogInfo("recipe search started",
		zap.String("request_id", reqID),
		zap.Int("raw_ingredients", len(req.Ingredients)),
	)

	result, err := h.searchService.Search(c.Request.Context(), req.Ingredients)
	if err != nil {
		if errors.Is(err, common.ErrNoIngredients) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Please enter at least one usable ingredient",
				"code":  "NO_INGREDIENTS",
			})
			return
		}
		common.LogError("recipe search failed",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	common.LogInfo("recipe search completed",
		zap.String("request_id", reqID),
		zap.Int("results", len(result.Recipes)),
		zap.Bool("partial_match", result.PartialMatch),
		zap.String("suggestion", result.Suggestion),
	)

	c.JSON(http.StatusOK, result)
}

// HandleQuickSearch runs the match-count-only search.
func (h *Handler) HandleQuickSearch(c *gin.Context) {
	reqID := requestID(c)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("invalid quick search request",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.searchService.QuickSearch(c.Request.Context(), req.Ingredients)
	if err != nil {
		if errors.Is(err, common.ErrNoIngredients) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Please enter at least one usable ingredient",
				"code":  "NO_INGREDIENTS",
			})
			return
		}
		common.LogError("quick search failed",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleNormalize previews how raw input normalizes, without searching.
func (h *Handler) HandleNormalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredients": h.searchService.Normalize(req.Ingredients),
	})
}

// HandleGetRecipe returns one recipe's full detail.
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	reqID := requestID(c)
	id := c.Param("id")

	detail, err := h.searchService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Recipe not found",
				"code":  "RECIPE_NOT_FOUND",
			})
			return
		}
		common.LogError("recipe lookup failed",
			zap.Error(err),
			zap.String("recipe_id", id),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recipe lookup failed"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// HandleGenerate produces a recipe from the AI generator, normalizing
// the input the same way a search would.
func (h *Handler) HandleGenerate(c *gin.Context) {
	reqID := requestID(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	terms := h.searchService.Normalize(req.Ingredients)
	if len(terms) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Please enter at least one usable ingredient",
			"code":  "NO_INGREDIENTS",
		})
		return
	}

	detail, err := h.generator.GenerateRecipe(c.Request.Context(), terms)
	if err != nil {
		common.LogError("recipe generation failed",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recipe generation failed"})
		return
	}

	common.LogInfo("recipe generated",
		zap.String("request_id", reqID),
		zap.String("title", detail.Title),
		zap.String("model", detail.Model),
	)

	c.JSON(http.StatusOK, detail)
}
