package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mvp-joe/confdoc/internal/config"
	"github.com/mvp-joe/confdoc/internal/generator"
	"github.com/mvp-joe/confdoc/internal/logger"
)

// loadProject loads the project configuration and anchors its paths at rootDir.
func loadProject(ctx context.Context, rootDir string) (*config.Config, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Resolve(abs)

	logger.FromContext(ctx).Debug("loaded configuration",
		"root", abs,
		"sources", cfg.Paths.Sources,
		"formats", cfg.Output.Formats)
	return cfg, nil
}

// newGenerator creates a generator for the project rooted at rootDir.
func newGenerator(cfg *config.Config, rootDir string, progress generator.ProgressReporter) (*generator.Generator, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	return generator.New(generator.Config{
		RootDir:     abs,
		Sources:     cfg.Paths.Sources,
		Ignore:      cfg.Paths.Ignore,
		Annotations: cfg.Extraction.Annotations,
		Workers:     cfg.Extraction.Workers,
	}, progress)
}
