package routes

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/JeffreyYAJ/Habit-tracker/cache"
	"github.com/JeffreyYAJ/Habit-tracker/config"
	"github.com/JeffreyYAJ/Habit-tracker/handlers"
	"github.com/JeffreyYAJ/Habit-tracker/middleware"
	"github.com/JeffreyYAJ/Habit-tracker/models"
	"github.com/JeffreyYAJ/Habit-tracker/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the router wires into handlers. Cache may be nil.
type Deps struct {
	Config   config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	Registry *prometheus.Registry
	Cache    *cache.Cache
}

// NewRouter builds the gin engine for the configured variant.
func NewRouter(d Deps) (*gin.Engine, error) {
	middleware.RegisterTagNames()
	metrics := utils.NewMetrics(d.Registry)

	r := gin.New()
	r.Use(middleware.Recovery(d.Log, metrics))
	r.Use(middleware.RequestLogger(d.Log, metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(corsConfig(d.Config.CORSOrigins)))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/health", handlers.Health)

	var cached []gin.HandlerFunc
	if d.Cache != nil {
		api.Use(middleware.InvalidateCache(d.Cache, d.Config.Variant, d.Log))
		cached = append(cached, middleware.CacheMiddleware(d.Cache, d.Config.Variant, d.Log))
	}

	switch d.Config.Variant {
	case config.VariantGrid:
		registerGridRoutes(api, d, metrics, cached)
	case config.VariantAccounts:
		registerAccountRoutes(api, d, metrics, cached)
	default:
		return nil, fmt.Errorf("unknown variant %q", d.Config.Variant)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "X-Cache"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// with appends handler to the route's middleware chain.
func with(chain []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, handler)
}
