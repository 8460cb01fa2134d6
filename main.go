package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zac-t-smith/restoration-intel/config"
	"github.com/zac-t-smith/restoration-intel/pkg/logger"
)

const configEnv = "RESTORATION_CONFIG"

var (
	cfgFile string
	cfg     *config.Config
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "restoration-intel",
		Short: "Payables and cash prioritization backend for restoration companies",
		Long: `restoration-intel serves the payables API used by the restoration BI dashboard.

It recommends which unpaid expenses to pay in full, pay in part or defer
given the cash on hand.`,
		PersistentPreRunE: loadConfig,
		SilenceUsage:      true,
	}
)

func init() {
	defaultConfig := os.Getenv(configEnv)
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfig, "config file (env "+configEnv+")")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(recommendCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slog.Debug("configuration loaded", "path", cfgFile)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "restoration-intel %s\n", version)
		},
	}
}
