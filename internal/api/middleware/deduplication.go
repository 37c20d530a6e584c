package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// dedupRegistry remembers recent POST fingerprints so a double-tapped
// search button does not hit the pipeline twice.
type dedupRegistry struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	window time.Duration
}

func newDedupRegistry(window time.Duration) *dedupRegistry {
	if window <= 0 {
		window = time.Second
	}
	r := &dedupRegistry{
		seen:   make(map[string]time.Time),
		window: window,
	}
	go r.sweep()
	return r
}

// duplicate records the fingerprint and reports whether it was already
// seen inside the window.
func (r *dedupRegistry) duplicate(fingerprint string) bool {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if last, ok := r.seen[fingerprint]; ok && now.Sub(last) <= r.window {
		return true
	}
	r.seen[fingerprint] = now
	return false
}

func (r *dedupRegistry) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-10 * r.window)
		r.mu.Lock()
		for k, t := range r.seen {
			if t.Before(cutoff) {
				delete(r.seen, k)
			}
		}
		r.mu.Unlock()
	}
}

// Deduplication rejects identical POST bodies repeated within the
// configured window.
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	var window time.Duration
	if cfg != nil {
		window = cfg.DedupWindow
	}
	registry := newDedupRegistry(window)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("failed to read request body", zap.Error(err))
				c.Next()
				return
			}
			// The handler still needs the body.
			c.Request.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			fingerprint += ":" + hex.EncodeToString(sum[:])
		}

		if registry.duplicate(fingerprint) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Request too frequent",
				"code":  common.ErrCodeTooManyRequests,
			})
			return
		}

		c.Next()
	}
}
