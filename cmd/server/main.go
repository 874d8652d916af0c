package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkazancev/relaychat-server/internal/app"
	"github.com/mkazancev/relaychat-server/internal/config"
	"github.com/mkazancev/relaychat-server/internal/log"
)

var (
	flagAddr       string
	flagConfigPath string
	flagDBPath     string
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:          "relaychat-server",
	Short:        "Realtime chat relay server with presence and call signaling",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bootstrapLogger := log.New(flagLogLevel)

		cfg, configPath, err := config.Load(bootstrapLogger, flagConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// Flags override both file and env.
		if cmd.Flags().Changed("addr") {
			cfg.Addr = flagAddr
		}
		if cmd.Flags().Changed("db") {
			cfg.DatabasePath = flagDBPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = flagLogLevel
		}

		logger := log.New(cfg.LogLevel)
		logger.Info().Str("config", configPath).Msg("configuration loaded")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := app.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("init app: %w", err)
		}

		if err := application.Run(ctx); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}

		logger.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagAddr, "addr", ":8000", "HTTP listen address")
	rootCmd.Flags().StringVarP(&flagConfigPath, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVar(&flagDBPath, "db", "", "path to sqlite database")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
