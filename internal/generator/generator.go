package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/confdoc/internal/kotlin"
	"github.com/mvp-joe/confdoc/internal/logger"
)

const defaultCacheCapacity = 10_000

// Config controls which files a Generator reads and how.
type Config struct {
	RootDir     string
	Sources     []string // glob patterns relative to RootDir
	Ignore      []string // glob patterns relative to RootDir
	Annotations []string // marker annotation names
	Workers     int      // <= 0 means runtime.NumCPU()
}

// Generator collects option documentation from every discovered source file.
// Each file is parsed and extracted independently, so files are processed
// concurrently with one parser per worker.
type Generator struct {
	cfg       Config
	discovery *FileDiscovery
	progress  ProgressReporter
	cache     otter.Cache[string, *FileResult]
}

// New creates a generator. A nil progress reporter disables progress output.
func New(cfg Config, progress ProgressReporter) (*Generator, error) {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	discovery, err := NewFileDiscovery(cfg.RootDir, cfg.Sources, cfg.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to compile path patterns: %w", err)
	}

	cache, err := otter.MustBuilder[string, *FileResult](defaultCacheCapacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &Generator{
		cfg:       cfg,
		discovery: discovery,
		progress:  progress,
		cache:     cache,
	}, nil
}

// Close releases the result cache.
func (g *Generator) Close() {
	g.cache.Close()
}

// RootDir returns the directory sources are discovered under.
func (g *Generator) RootDir() string {
	return g.cfg.RootDir
}

// Discovery exposes the file matcher, e.g. for filtering watch events.
func (g *Generator) Discovery() *FileDiscovery {
	return g.discovery
}

// Run discovers all source files and collects their options.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	g.progress.OnDiscoveryStart()
	files, err := g.discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	g.progress.OnDiscoveryComplete(len(files))

	return g.RunFiles(ctx, files)
}

// RunFiles collects options from the given files. Documentation errors are
// gathered across all files; the first fatal error cancels the run.
func (g *Generator) RunFiles(ctx context.Context, files []string) (*Result, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	g.progress.OnFileProcessingStart(len(files))

	results := make([]*FileResult, len(files))
	cached := make([]bool, len(files))
	jobs := make(chan int)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(jobs)
		for i := range files {
			select {
			case jobs <- i:
			case <-egCtx.Done():
				return egCtx.Err()
			}
		}
		return nil
	})

	workers := min(g.cfg.Workers, max(len(files), 1))
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			parser := kotlin.NewParser()
			defer parser.Close()

			for i := range jobs {
				result, hit, err := g.processFile(egCtx, parser, files[i])
				if err != nil {
					return err
				}
				results[i] = result
				cached[i] = hit
				g.progress.OnFileProcessed(files[i])
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := &Result{Rules: []Rule{}, Problems: []Problem{}}
	for i, r := range results {
		merged.Rules = append(merged.Rules, r.Rules...)
		merged.Problems = append(merged.Problems, r.Problems...)
		if cached[i] {
			merged.Stats.FilesCached++
		}
	}
	sortResult(merged)

	merged.Stats.FilesProcessed = len(files)
	merged.Stats.Rules = len(merged.Rules)
	for _, r := range merged.Rules {
		merged.Stats.Options += len(r.Options)
	}
	merged.Stats.Problems = len(merged.Problems)
	merged.Stats.Duration = time.Since(start)

	log.Debug("generator run complete",
		"files", merged.Stats.FilesProcessed,
		"cached", merged.Stats.FilesCached,
		"rules", merged.Stats.Rules,
		"problems", merged.Stats.Problems)

	g.progress.OnComplete(&merged.Stats)
	return merged, nil
}

func (g *Generator) processFile(ctx context.Context, parser *kotlin.Parser, filePath string) (*FileResult, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	hash := hashContent(source)
	key := filePath + "@" + hash

	if result, ok := g.cache.Get(key); ok {
		return result, true, nil
	}

	file, err := parser.Parse(ctx, g.displayPath(filePath), source)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	result, err := CollectFile(file, g.cfg.Annotations)
	if err != nil {
		return nil, false, fmt.Errorf("failed to collect %s: %w", filePath, err)
	}
	result.Hash = hash

	logger.FromContext(ctx).Debug("collected file",
		"file", file.Path, "rules", len(result.Rules), "problems", len(result.Problems))

	g.cache.Set(key, result)
	return result, false, nil
}

// displayPath makes paths relative to the root for stable output.
func (g *Generator) displayPath(filePath string) string {
	if g.cfg.RootDir == "" {
		return filePath
	}
	rel, err := filepath.Rel(g.cfg.RootDir, filePath)
	if err != nil {
		return filePath
	}
	return filepath.ToSlash(rel)
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func sortResult(r *Result) {
	sort.SliceStable(r.Rules, func(i, j int) bool {
		if r.Rules[i].RuleSet != r.Rules[j].RuleSet {
			return r.Rules[i].RuleSet < r.Rules[j].RuleSet
		}
		return r.Rules[i].Name < r.Rules[j].Name
	})
	sort.SliceStable(r.Problems, func(i, j int) bool {
		if r.Problems[i].File != r.Problems[j].File {
			return r.Problems[i].File < r.Problems[j].File
		}
		return r.Problems[i].Unit < r.Problems[j].Unit
	})
}
