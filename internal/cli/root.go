// Package cli implements the confdoc command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/confdoc/internal/logger"
)

var (
	rootDirFlag  string
	logLevelFlag string
	logJSONFlag  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "confdoc",
	Short: "Document the configuration options of Kotlin analysis rules",
	Long: `confdoc reads Kotlin rule definitions, recovers every option declared with
@Configuration and a config delegate, and writes a default configuration,
Markdown documentation and a JSON description of all options.

Configuration is read from .confdoc/config.yml in the project root and can be
overridden with CONFDOC_* environment variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDirFlag, "dir", "C", "", "project root (default is the working directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().BoolVar(&logJSONFlag, "log-json", false, "emit logs as JSON")
}

// setupLogging installs the command logger into the command context. Flags
// win over the log section of the project configuration.
func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.WarnLevel
	if logLevelFlag != "" {
		cfg.Level = logger.ParseLevel(logLevelFlag)
	}
	cfg.JSON = logJSONFlag

	log := logger.NewLogger(cfg)
	logger.SetDefault(log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.ContextWithLogger(ctx, log))
	return nil
}

// projectRoot returns the --dir flag or the working directory.
func projectRoot() (string, error) {
	if rootDirFlag != "" {
		return rootDirFlag, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
