package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JeffreyYAJ/Habit-tracker/cache"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const invalidateTimeout = 2 * time.Second

type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// GenerationKey holds the variant's write counter. Cached responses are keyed
// by the generation they were read under, so a write makes every earlier
// entry unreachable.
func GenerationKey(variant string) string {
	return fmt.Sprintf("cachegen:%s", variant)
}

// CacheKey is the Redis key of a cached GET response.
func CacheKey(variant string, gen int64, r *http.Request) string {
	return fmt.Sprintf("cache:%s:%d:%s?%s", variant, gen, r.URL.Path, r.URL.RawQuery)
}

// CachePattern matches every cached response of a variant.
func CachePattern(variant string) string {
	return fmt.Sprintf("cache:%s:*", variant)
}

// CacheMiddleware serves GET responses from Redis and stores 200 responses
// for the cache's TTL. Redis failures fall through to the handler.
func CacheMiddleware(store *cache.Cache, variant string, log *zap.Logger) gin.HandlerFunc {
	genKey := GenerationKey(variant)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		gen, err := store.Generation(ctx, genKey)
		if err != nil {
			log.Warn("cache_generation_failed", zap.String("variant", variant), zap.Error(err))
			c.Next()
			return
		}
		cacheKey := CacheKey(variant, gen, c.Request)

		var cached CachedResponse
		err = store.Get(ctx, cacheKey, &cached)
		if err == nil {
			log.Debug("cache_hit", zap.String("key", cacheKey))
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn("cache_get_failed", zap.String("key", cacheKey), zap.Error(err))
		}

		log.Debug("cache_miss", zap.String("key", cacheKey))
		c.Header("X-Cache", "MISS")

		blw := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		// a write finished while this request was reading
		if now, err := store.Generation(ctx, genKey); err != nil || now != gen {
			log.Debug("cache_set_skipped", zap.String("key", cacheKey), zap.Int64("generation", now))
			return
		}

		resp := CachedResponse{
			Status:      c.Writer.Status(),
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        blw.body.Bytes(),
		}
		if err := store.Set(ctx, cacheKey, resp, 0); err != nil {
			log.Warn("cache_set_failed",
				zap.Error(err),
				zap.String("key", cacheKey),
			)
			return
		}
		log.Debug("cache_set_success",
			zap.String("key", cacheKey),
			zap.Duration("ttl", store.TTL()),
		)
	}
}

// InvalidateCache bumps the variant's generation after every successful
// write. The response body is held back until the bump is done, so a client
// that has seen the write's response can no longer be served older data.
func InvalidateCache(store *cache.Cache, variant string, log *zap.Logger) gin.HandlerFunc {
	genKey := GenerationKey(variant)

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		dw := &deferredWriter{ResponseWriter: c.Writer}
		c.Writer = dw
		defer func() { c.Writer = dw.ResponseWriter }()

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			invalidate(c.Request.Context(), store, variant, genKey, log)
		}

		c.Writer = dw.ResponseWriter
		dw.flush()
	}
}

func invalidate(parent context.Context, store *cache.Cache, variant, genKey string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), invalidateTimeout)
	defer cancel()

	gen, err := store.Bump(ctx, genKey)
	if err != nil {
		log.Warn("cache_invalidate_failed", zap.String("variant", variant), zap.Error(err))
		return
	}

	// older generations are unreachable now; drop them instead of waiting for the TTL
	n, err := store.DeletePattern(ctx, CachePattern(variant))
	if err != nil {
		log.Warn("cache_cleanup_failed", zap.String("variant", variant), zap.Error(err))
	}
	log.Debug("cache_invalidated",
		zap.String("variant", variant),
		zap.Int64("generation", gen),
		zap.Int("keys", n),
	)
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// deferredWriter buffers the body; the status stays recorded on the wrapped
// writer, which sends nothing until its first Write.
type deferredWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *deferredWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *deferredWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *deferredWriter) flush() {
	if w.body.Len() > 0 {
		w.ResponseWriter.Write(w.body.Bytes())
	}
}
