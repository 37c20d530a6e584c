package recipes

import (
	"net/http"

	"mix-and-munch/internal/core/recipe"
	"mix-and-munch/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleListSaved returns all saved recipes, newest first.
func (h *Handler) HandleListSaved(c *gin.Context) {
	recipes, err := h.savedStore.List(c.Request.Context())
	if err != nil {
		common.LogError("failed to list saved recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list saved recipes"})
		return
	}
	if recipes == nil {
		recipes = []recipe.Detail{}
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// HandleSaveRecipe stores a recipe for later.
func (h *Handler) HandleSaveRecipe(c *gin.Context) {
	var detail recipe.Detail
	if err := c.ShouldBindJSON(&detail); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if detail.ID == "" || detail.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe id and title are required"})
		return
	}

	if err := h.savedStore.Save(c.Request.Context(), &detail); err != nil {
		common.LogError("failed to save recipe",
			zap.Error(err),
			zap.String("recipe_id", detail.ID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
		return
	}

	common.LogInfo("recipe saved", zap.String("recipe_id", detail.ID))
	c.JSON(http.StatusCreated, gin.H{"saved": true, "id": detail.ID})
}

// HandleDeleteSaved removes a saved recipe.
func (h *Handler) HandleDeleteSaved(c *gin.Context) {
	id := c.Param("id")

	if err := h.savedStore.Delete(c.Request.Context(), id); err != nil {
		common.LogError("failed to delete saved recipe",
			zap.Error(err),
			zap.String("recipe_id", id),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete saved recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}

// HandleIsSaved reports whether a recipe id has been saved.
func (h *Handler) HandleIsSaved(c *gin.Context) {
	id := c.Param("id")

	saved, err := h.savedStore.IsSaved(c.Request.Context(), id)
	if err != nil {
		common.LogError("failed to check saved recipe",
			zap.Error(err),
			zap.String("recipe_id", id),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check saved recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "saved": saved})
}
