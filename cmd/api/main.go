package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mix-and-munch/internal/api"
	"mix-and-munch/internal/infrastructure/cache"
	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/infrastructure/store"
	"mix-and-munch/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger needs the loaded config.
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	cacheStore := newCacheStore(cfg)
	defer cacheStore.Close()

	savedStore, err := store.NewSavedRecipeStore(cfg.Store.Path)
	if err != nil {
		common.LogError("failed to open saved recipe store", zap.Error(err))
		os.Exit(1)
	}
	defer savedStore.Close()

	router, err := api.SetupRouter(cfg, cacheStore, savedStore)
	if err != nil {
		common.LogError("failed to set up router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("starting server",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogError("failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("server exited")
}

// newCacheStore prefers Redis and falls back to the in-memory store so a
// missing Redis never blocks startup.
func newCacheStore(cfg *config.Config) cache.Store {
	if !cfg.Cache.Enabled {
		common.LogInfo("cache disabled")
		return cache.NewNoopStore()
	}

	redisStore, err := cache.NewRedisStore(&cfg.Cache)
	if err != nil {
		common.LogWarn("Redis unavailable, falling back to in-memory cache",
			zap.String("addr", cfg.Cache.RedisAddr),
			zap.Error(err),
		)
		return cache.NewMemoryStore(&cfg.Cache)
	}

	common.LogInfo("Redis cache connected", zap.String("addr", cfg.Cache.RedisAddr))
	return redisStore
}
