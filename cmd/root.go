package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/JeffreyYAJ/Habit-tracker/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
	variant string
)

var rootCmd = &cobra.Command{
	Use:   "habit-tracker",
	Short: "REST API for tracking habit completion",
	Long: `A habit tracking REST API backed by PostgreSQL or SQLite.

Two schemas are available: "grid" tracks named habits on a month/year grid of
daily completions, "accounts" tracks user-owned habits with dated logs.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default habit-tracker.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&variant, "variant", "", "schema variant: grid or accounts")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration; flags win over the environment,
// which wins over the config file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("variant") {
		cfg.Variant = variant
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Port = f.Value.String()
	}
	return cfg, cfg.Validate()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
