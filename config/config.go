package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	VariantGrid     = "grid"
	VariantAccounts = "accounts"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultFiles are tried in order when no config path is given.
var DefaultFiles = []string{"habit-tracker.yaml", "habit-tracker.yml"}

type Config struct {
	Variant          string   `yaml:"variant"`
	Port             string   `yaml:"port"`
	StrictReferences bool     `yaml:"strict_references"`
	CORSOrigins      []string `yaml:"cors_origins"`

	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	Log      Log      `yaml:"log"`
}

type Database struct {
	Driver       string `yaml:"driver"`
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	SSLMode      string `yaml:"sslmode"`
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// Redis is optional; an empty Addr disables response caching.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Default() Config {
	return Config{
		Variant:     VariantGrid,
		Port:        "5000",
		CORSOrigins: []string{"*"},
		Database: Database{
			Driver:       DriverPostgres,
			Host:         "localhost",
			Port:         "5432",
			User:         "user",
			Password:     "password",
			Name:         "habit_tracker",
			SSLMode:      "disable",
			Path:         "habit_tracker.db",
			MaxOpenConns: 100,
			MaxIdleConns: 10,
		},
		Redis: Redis{TTL: 30 * time.Second},
		Log:   Log{Level: "info"},
	}
}

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding the ones already set. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the configuration from defaults, then the YAML file at path (or
// the first of DefaultFiles that exists), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		for _, loc := range DefaultFiles {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Variant {
	case VariantGrid, VariantAccounts:
	default:
		return fmt.Errorf("unknown variant %q (want %s or %s)", c.Variant, VariantGrid, VariantAccounts)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (d Database) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Variant, "HABIT_VARIANT")
	setString(&cfg.Port, "PORT")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Database.Path, "DB_PATH")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.File, "LOG_FILE")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	for key, dst := range map[string]*int{
		"DB_MAX_OPEN_CONNS": &cfg.Database.MaxOpenConns,
		"DB_MAX_IDLE_CONNS": &cfg.Database.MaxIdleConns,
		"REDIS_DB":          &cfg.Redis.DB,
	} {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s env variable: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL env variable: %w", err)
		}
		cfg.Redis.TTL = d
	}

	if v := os.Getenv("STRICT_REFERENCES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid STRICT_REFERENCES env variable: %w", err)
		}
		cfg.StrictReferences = b
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
