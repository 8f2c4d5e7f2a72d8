package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/confdoc/internal/config"
	"github.com/mvp-joe/confdoc/internal/generator"
	"github.com/mvp-joe/confdoc/internal/git"
	"github.com/mvp-joe/confdoc/internal/logger"
	"github.com/mvp-joe/confdoc/internal/output"
	"github.com/mvp-joe/confdoc/internal/storage"
	"github.com/mvp-joe/confdoc/internal/watcher"
)

// ErrDocumentationProblems is returned when at least one rule declares an
// option incorrectly. Valid options are still written.
var ErrDocumentationProblems = errors.New("documentation problems found")

var (
	quietFlag bool
	watchFlag bool
	dbFlag    string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Extract rule options and write documentation",
	Long: `Generate scans the Kotlin rule sources, extracts every documented option and
writes the configured output formats:

  default-config.yml          default configuration
  default-config-android.yml  default configuration with platform defaults
  options.md                  option reference
  options.json                option records

Each run is recorded in the history database unless storage.path is empty.

Examples:
  # Generate documentation for the current project
  confdoc generate

  # Regenerate whenever a rule source changes
  confdoc generate --watch

  # Record the run in a different database
  confdoc generate --db /tmp/history.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDir, err := projectRoot()
		if err != nil {
			return err
		}
		return runGenerate(cmd.Context(), generateOptions{
			rootDir: rootDir,
			watch:   watchFlag,
			quiet:   quietFlag,
			dbPath:  dbFlag,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for source changes and regenerate")
	generateCmd.Flags().StringVar(&dbFlag, "db", "", "History database path (overrides storage.path)")
}

type generateOptions struct {
	rootDir string
	watch   bool
	quiet   bool
	dbPath  string
}

func runGenerate(ctx context.Context, opts generateOptions, out io.Writer) error {
	log := logger.FromContext(ctx)

	cfg, err := loadProject(ctx, opts.rootDir)
	if err != nil {
		return err
	}
	if opts.dbPath != "" {
		cfg.Storage.Path = opts.dbPath
	}

	progress := NewCLIProgressReporter(out, opts.quiet)
	g, err := newGenerator(cfg, opts.rootDir, progress)
	if err != nil {
		return err
	}
	defer g.Close()

	var history *storage.Writer
	if cfg.Storage.Path != "" {
		db, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		history = storage.NewWriter(db).WithRevision(git.CurrentRevision(git.NewOperations(), g.RootDir()))
	}

	generate := func() error {
		result, err := g.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("generation cancelled")
			}
			return fmt.Errorf("generation failed: %w", err)
		}
		return publish(ctx, cfg, result, history, out, opts.quiet)
	}

	if !opts.watch {
		return generate()
	}

	if err := generate(); err != nil && !errors.Is(err, ErrDocumentationProblems) {
		return err
	}

	discovery := g.Discovery()
	w, err := watcher.New(ctx, watcher.Options{
		Dirs:       []string{g.RootDir()},
		Extensions: cfg.SourceExtensions(),
		Skip: func(path string) bool {
			rel, err := filepath.Rel(g.RootDir(), path)
			return err == nil && discovery.Ignored(rel)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Start(ctx, func(files []string) {
		log.Info("sources changed, regenerating", "files", len(files))
		if err := generate(); err != nil {
			log.Error("regeneration failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Fprintln(out, "Watching for changes (Ctrl+C to stop)...")
	}
	<-ctx.Done()
	return nil
}

// publish writes the outputs of a run, records it and reports problems.
func publish(ctx context.Context, cfg *config.Config, result *generator.Result, history *storage.Writer, out io.Writer, quiet bool) error {
	log := logger.FromContext(ctx)

	written, err := output.Write(cfg.Output.Dir, cfg.Output.Formats, result.Rules)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, path := range written {
		log.Debug("wrote output", "path", path)
	}

	if history != nil {
		runID, err := history.WriteRun(ctx, result)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		log.Debug("recorded run", "run", runID)

		if cfg.Storage.KeepRuns > 0 {
			pruned, err := history.Prune(ctx, cfg.Storage.KeepRuns)
			if err != nil {
				return fmt.Errorf("failed to prune history: %w", err)
			}
			if pruned > 0 {
				log.Debug("pruned old runs", "count", pruned)
			}
		}
	}

	for _, p := range result.Problems {
		fmt.Fprintf(out, "%s:%d: [%s] %s\n", p.File, p.Line, p.Unit, p.Message)
	}

	if !quiet {
		fmt.Fprintf(out, "Wrote %d files to %s\n", len(written), cfg.Output.Dir)
	}

	if result.HasProblems() {
		return fmt.Errorf("%w: %d", ErrDocumentationProblems, len(result.Problems))
	}
	return nil
}
