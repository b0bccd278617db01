package routes

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JeffreyYAJ/Habit-tracker/cache"
	"github.com/JeffreyYAJ/Habit-tracker/config"
	"github.com/JeffreyYAJ/Habit-tracker/models"
	"github.com/JeffreyYAJ/Habit-tracker/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, cfg config.Config, store *cache.Cache) *gin.Engine {
	t.Helper()
	r, err := NewRouter(Deps{
		Config:   cfg,
		DB:       testutil.SetupTestDB(t, cfg.Variant),
		Log:      zap.NewNop(),
		Registry: prometheus.NewRegistry(),
		Cache:    store,
	})
	require.NoError(t, err)
	return r
}

func TestHealth(t *testing.T) {
	for _, variant := range []string{config.VariantGrid, config.VariantAccounts} {
		t.Run(variant, func(t *testing.T) {
			cfg := config.Default()
			cfg.Variant = variant
			r := setupRouter(t, cfg, nil)

			w := testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/health", nil))
			testutil.AssertStatus(t, w, http.StatusOK)
			assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupRouter(t, config.Default(), nil)

	testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits", nil))

	w := testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/metrics", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), `app_http_requests_total{method="GET",path="/api/habits",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "app_request_duration_seconds")
}

func TestNotFound(t *testing.T) {
	r := setupRouter(t, config.Default(), nil)

	w := testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/nothing", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	t.Run("any origin", func(t *testing.T) {
		r := setupRouter(t, config.Default(), nil)

		req := testutil.MakeRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := testutil.Do(r, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("configured origins", func(t *testing.T) {
		cfg := config.Default()
		cfg.CORSOrigins = []string{"http://localhost:5173"}
		r := setupRouter(t, cfg, nil)

		req := testutil.MakeRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := testutil.Do(r, req)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

		req = testutil.MakeRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		w = testutil.Do(r, req)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})
}

func TestNewRouter_UnknownVariant(t *testing.T) {
	cfg := config.Default()
	_, err := NewRouter(Deps{
		Config:   config.Config{Variant: "weekly", CORSOrigins: cfg.CORSOrigins},
		DB:       testutil.SetupTestDB(t, config.VariantGrid),
		Log:      zap.NewNop(),
		Registry: prometheus.NewRegistry(),
	})
	assert.Error(t, err)
}

func TestResponseCache(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := cache.New(context.Background(), config.Redis{Addr: mr.Addr(), TTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	r := setupRouter(t, config.Default(), store)

	w := testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits?month=5", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `[]`, w.Body.String())

	w = testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits?month=5", nil))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = testutil.Do(r, testutil.MakeRequest(http.MethodPost, "/api/habits", gin.H{"name": "Read", "month": 5, "year": 2024}))
	testutil.AssertStatus(t, w, http.StatusCreated)
	assert.Empty(t, w.Header().Get("X-Cache"))

	w = testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits?month=5", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	var habits []models.Habit
	testutil.DecodeJSON(t, w, &habits)
	assert.Len(t, habits, 1)

	// health is never cached
	w = testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/health", nil))
	assert.Empty(t, w.Header().Get("X-Cache"))
}

func TestResponseCache_WriteDuringRead(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := cache.New(context.Background(), config.Redis{Addr: mr.Addr(), TTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	gdb := testutil.SetupTestDB(t, config.VariantGrid)
	r, err := NewRouter(Deps{
		Config:   config.Default(),
		DB:       gdb,
		Log:      zap.NewNop(),
		Registry: prometheus.NewRegistry(),
		Cache:    store,
	})
	require.NoError(t, err)

	// pause the next query right after it has read its rows
	var armed atomic.Bool
	loaded := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, gdb.Callback().Query().After("gorm:query").Register("test:pause_after_query", func(tx *gorm.DB) {
		if armed.CompareAndSwap(true, false) {
			close(loaded)
			<-release
		}
	}))
	armed.Store(true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits", nil))
	}()

	<-loaded
	w := testutil.Do(r, testutil.MakeRequest(http.MethodPost, "/api/habits", gin.H{"name": "Read", "month": 5, "year": 2024}))
	testutil.AssertStatus(t, w, http.StatusCreated)
	close(release)
	<-done

	w = testutil.Do(r, testutil.MakeRequest(http.MethodGet, "/api/habits", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	var habits []models.Habit
	testutil.DecodeJSON(t, w, &habits)
	assert.Len(t, habits, 1)
}
