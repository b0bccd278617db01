package handlers_test

import (
	"testing"

	"github.com/JeffreyYAJ/Habit-tracker/config"
	"github.com/JeffreyYAJ/Habit-tracker/routes"
	"github.com/JeffreyYAJ/Habit-tracker/testutil"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, variant string, strict bool) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gdb := testutil.SetupTestDB(t, variant)
	return newRouterWithDB(t, gdb, variant, strict), gdb
}

func newRouterWithDB(t *testing.T, gdb *gorm.DB, variant string, strict bool) *gin.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Variant = variant
	cfg.StrictReferences = strict

	r, err := routes.NewRouter(routes.Deps{
		Config:   cfg,
		DB:       gdb,
		Log:      zap.NewNop(),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return r
}
