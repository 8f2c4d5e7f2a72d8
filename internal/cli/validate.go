package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/confdoc/internal/generator"
	"github.com/mvp-joe/confdoc/internal/logger"
	"github.com/mvp-joe/confdoc/internal/validation"
)

// ErrConfigMismatch is returned when a runtime configuration disagrees with
// the declared options.
var ErrConfigMismatch = errors.New("runtime configuration does not match declared options")

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <runtime-config.yml>",
	Short: "Check a rule-engine configuration against the declared options",
	Long: `Validate extracts the declared options and compares them with a configuration
file the rule engine reads. It reports options the file is missing, keys no rule
declares and values that differ from the declared default.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDir, err := projectRoot()
		if err != nil {
			return err
		}
		return runValidate(cmd.Context(), rootDir, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, rootDir, runtimePath string, out io.Writer) error {
	log := logger.FromContext(ctx)

	cfg, err := loadProject(ctx, rootDir)
	if err != nil {
		return err
	}

	runtime, err := validation.LoadRuntimeConfig(runtimePath)
	if err != nil {
		return err
	}

	g, err := newGenerator(cfg, rootDir, &generator.NoOpProgressReporter{})
	if err != nil {
		return err
	}
	defer g.Close()

	result, err := g.Run(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	for _, p := range result.Problems {
		log.Warn("documentation problem", "file", p.File, "unit", p.Unit, "message", p.Message)
	}

	findings := validation.Check(result.Rules, runtime)
	for _, f := range findings {
		fmt.Fprintln(out, f)
	}
	if len(findings) > 0 {
		return fmt.Errorf("%w: %d findings", ErrConfigMismatch, len(findings))
	}

	fmt.Fprintf(out, "✓ %s matches %d declared options\n", runtimePath, result.Stats.Options)
	return nil
}
