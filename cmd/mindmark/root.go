package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mindmark/internal/cli"
	"mindmark/internal/config"
	"mindmark/internal/log"
	"mindmark/internal/storage"
)

var (
	configPath string
	logLevel   string
	batch      bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	rootCmd.Flags().BoolVarP(&batch, "batch", "b", false, "Exit after running the scripts instead of starting the shell")

	rootCmd.AddCommand(catCmd, findCmd, fmtCmd)
}

var rootCmd = &cobra.Command{
	Use:   "mindmark [script...]",
	Short: "Edit mind maps from an interactive shell",
	Long: `mindmark opens an interactive shell for building and editing mind maps.
Any script arguments are executed in order before the shell starts.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, err := log.NewLogger(cfg, log.ParseLevel(cfg.LogLevel))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() {
			if err := logger.Close(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}()
		logger.Info(ctx, "Application started", log.Fields{"config": config.Path()})

		store, err := storage.NewStorage(ctx, cfg, logger)
		if err != nil {
			logger.Error(ctx, "Failed to initialize storage", log.Fields{"error": err})
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error(context.Background(), "Failed to close storage", log.Fields{"error": err})
			}
		}()

		shell := cli.NewCLI(cfg, store, logger, cmd.OutOrStdout())
		for _, script := range args {
			if err := shell.ExecuteScript(ctx, script); err != nil {
				logger.Error(ctx, "Script failed", log.Fields{"script": script, "error": err})
				return err
			}
		}
		if batch {
			return nil
		}

		if err := shell.Run(ctx); err != nil {
			logger.Error(ctx, "Shell error", log.Fields{"error": err})
			return err
		}
		logger.Info(ctx, "Application shutting down", nil)
		fmt.Fprintln(cmd.OutOrStdout(), "Goodbye!")
		return nil
	},
}

// loadConfig reads the configuration named by --config, or the default
// location, and applies the --log-level override.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		config.SetPath(configPath)
	}
	if err := config.ConfigLoad(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.ConfigGet()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// stderrLogger reports parse warnings of the one-shot commands.
func stderrLogger() *log.Logger {
	level := log.LevelWarn
	if logLevel != "" {
		level = log.ParseLevel(logLevel)
	}
	return log.NewWriterLogger(os.Stderr, level)
}
