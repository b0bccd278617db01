package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JeffreyYAJ/Habit-tracker/config"
	"github.com/JeffreyYAJ/Habit-tracker/models"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
)

// Connect opens the configured database, retrying while it comes up, and
// tunes the connection pool.
func Connect(ctx context.Context, cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		gdb, err := tryConnect(ctx, dialector, cfg, log)
		if err == nil {
			log.Info("database_connected",
				zap.String("driver", cfg.Driver),
				zap.String("host", cfg.Host),
				zap.String("port", cfg.Port),
			)
			return gdb, nil
		}
		lastErr = err

		log.Warn("database_waiting",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
}

func tryConnect(ctx context.Context, dialector gorm.Dialector, cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	gdb, err := Open(dialector, log)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if cfg.Driver == config.DriverSQLite {
		// single writer
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}
	return gdb, nil
}

// Dialector picks the gorm dialector for cfg.Driver.
func Dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(SQLiteDSN(cfg.DSN())), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN turns foreign key enforcement on so cascades and references
// behave as they do on PostgreSQL.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// Open wraps gorm.Open with the application's gorm settings.
func Open(dialector gorm.Dialector, log *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	})
}

// Models lists the tables owned by a variant, parents first.
func Models(variant string) ([]interface{}, error) {
	switch variant {
	case config.VariantGrid:
		return []interface{}{&models.Habit{}, &models.HabitCompletion{}}, nil
	case config.VariantAccounts:
		return []interface{}{&models.User{}, &models.AccountHabit{}, &models.HabitLog{}}, nil
	default:
		return nil, fmt.Errorf("unknown variant %q", variant)
	}
}

// Migrate creates the variant's tables if they do not exist.
func Migrate(gdb *gorm.DB, variant string) error {
	tables, err := Models(variant)
	if err != nil {
		return err
	}
	if err := gdb.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("failed to migrate %s schema: %w", variant, err)
	}
	return nil
}
