package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/JeffreyYAJ/Habit-tracker/cache"
	"github.com/JeffreyYAJ/Habit-tracker/db"
	"github.com/JeffreyYAJ/Habit-tracker/routes"
	"github.com/JeffreyYAJ/Habit-tracker/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := utils.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting_application",
		zap.String("variant", cfg.Variant),
		zap.String("version", Version),
	)

	gdb, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Error("database_connection_failed", zap.Error(err))
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := db.Migrate(gdb, cfg.Variant); err != nil {
		log.Error("migration_failed", zap.Error(err))
		return err
	}

	var store *cache.Cache
	if cfg.Redis.Addr != "" {
		store, err = cache.New(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn("response_cache_disabled", zap.Error(err))
			store = nil
		} else {
			defer store.Close()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gin.SetMode(gin.ReleaseMode)
	router, err := routes.NewRouter(routes.Deps{
		Config:   cfg,
		DB:       gdb,
		Log:      log,
		Registry: reg,
		Cache:    store,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Habit tracker (%s) listening on http://localhost:%s\n", cfg.Variant, cfg.Port)
	return runServer(ctx, srv, log)
}

// runServer serves until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	log.Info("starting_http_server", zap.String("addr", srv.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("http_server_failed", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting_down_server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server_forced_shutdown", zap.Error(err))
		return err
	}

	log.Info("server_stopped")
	return nil
}
