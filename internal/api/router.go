package api

import (
	"context"
	"net/http"
	"time"

	"mix-and-munch/internal/api/handlers/health"
	recipesHandler "mix-and-munch/internal/api/handlers/recipes"
	"mix-and-munch/internal/api/middleware"
	"mix-and-munch/internal/core/ai"
	"mix-and-munch/internal/core/mealdb"
	"mix-and-munch/internal/core/search"
	"mix-and-munch/internal/infrastructure/cache"
	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/infrastructure/store"
	"mix-and-munch/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	timeoutDuration = 60 * time.Second
	// Request body cap (1MB). Searches and saved recipes are small.
	maxBodySize = 1 << 20
)

// SetupRouter wires services, middleware and routes into a gin engine.
func SetupRouter(cfg *config.Config, cacheStore cache.Store, savedStore *store.SavedRecipeStore) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("mealdb_base_url", cfg.MealDB.BaseURL),
		zap.Bool("ollama_enabled", cfg.Ollama.Enabled),
	)

	mealdbClient := mealdb.NewClient(&cfg.MealDB)
	searchService := search.NewService(mealdbClient, cacheStore, cfg)

	var generator ai.Generator
	if cfg.Ollama.Enabled {
		generator = ai.NewOllamaGenerator(&cfg.Ollama)
	} else {
		generator = ai.NewFallbackGenerator()
	}

	// Request timeout plus context injection for the health endpoint.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		if statser, ok := cacheStore.(health.CacheStatser); ok {
			c.Set("cache_stats", statser)
		}

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		handler := recipesHandler.NewHandler(searchService, generator, savedStore)

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("/search", handler.HandleSearch)
			recipeGroup.POST("/quick-search", handler.HandleQuickSearch)
			recipeGroup.POST("/generate", handler.HandleGenerate)
			recipeGroup.GET("/:id", handler.HandleGetRecipe)
		}

		api.POST("/ingredients/normalize", handler.HandleNormalize)

		savedGroup := api.Group("/saved")
		{
			savedGroup.GET("", handler.HandleListSaved)
			savedGroup.POST("", handler.HandleSaveRecipe)
			savedGroup.DELETE("/:id", handler.HandleDeleteSaved)
			savedGroup.GET("/:id/exists", handler.HandleIsSaved)
		}
	}

	common.LogInfo("router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
