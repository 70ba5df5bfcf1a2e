// Package main provides the CLI entrypoint for the security header scanner.
// It wires subcommands (serve, scan), loads configuration, and initializes logging.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"secheaders/internal/config"
	"secheaders/pkg/logger"
	"secheaders/pkg/serrors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigPath = "config.yml"

// loadConfig reads the config file at path. A missing default config file is
// not an error: the configuration then comes from the environment alone.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && path == defaultConfigPath {
		return config.LoadEnv()
	}

	return config.Load(path)
}

// newRootCommand builds the root command. cfg is filled from the -c flag,
// wherever it appears on the command line, before any subcommand runs.
func newRootCommand(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "secheaders",
		Short:         "Checks URLs for security response headers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			loaded, err := loadConfig(path)
			if err != nil {
				return fmt.Errorf("could not load config file: %w", err)
			}
			*cfg = *loaded

			logger.Setup(cfg.Environment)

			return nil
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "Config File Path")

	rootCmd.AddCommand(
		serveCommand(cfg),
		scanCommand(cfg),
	)

	return rootCmd
}

// reportError prints err to w unless a view has already shown it. Errors
// carrying a semantic kind come from a submit and were displayed there.
func reportError(w io.Writer, err error) {
	if serrors.KindOf(err) != nil {
		return
	}
	_, _ = fmt.Fprintln(w, "Error:", err)
}

// main builds the root Cobra command and executes the CLI.
func main() {
	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	var cfg config.Config
	err := newRootCommand(&cfg).ExecuteContext(ctx)
	logger.Sync(ctx)
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1) //nolint: gocritic
	}
}
