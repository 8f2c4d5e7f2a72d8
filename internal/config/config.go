// Package config loads the confdoc configuration from .confdoc/config.yml
// with CONFDOC_* environment overrides.
package config

import "path/filepath"

// DirName is the per-project configuration and state directory.
const DirName = ".confdoc"

// Config represents the complete confdoc configuration.
type Config struct {
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// PathsConfig defines which Kotlin sources are scanned.
type PathsConfig struct {
	Sources []string `yaml:"sources" mapstructure:"sources"` // glob patterns for rule sources
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// ExtractionConfig tunes option extraction.
type ExtractionConfig struct {
	Annotations []string `yaml:"annotations" mapstructure:"annotations"` // marker annotation names
	Workers     int      `yaml:"workers" mapstructure:"workers"`         // 0 means one per CPU
}

// OutputConfig defines where and how documentation is written.
type OutputConfig struct {
	Dir     string   `yaml:"dir" mapstructure:"dir"`
	Formats []string `yaml:"formats" mapstructure:"formats"` // yaml, markdown, json
}

// StorageConfig defines the run history database.
type StorageConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`           // empty disables history
	KeepRuns int    `yaml:"keep_runs" mapstructure:"keep_runs"` // 0 keeps every run
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Sources: []string{"**/*.kt"},
			Ignore: []string{
				".git/**",
				".gradle/**",
				"build/**",
				"**/build/**",
				"**/src/test/**",
			},
		},
		Extraction: ExtractionConfig{
			Annotations: []string{"Configuration", "Config"},
			Workers:     0,
		},
		Output: OutputConfig{
			Dir:     filepath.Join("build", "confdoc"),
			Formats: []string{"yaml", "markdown", "json"},
		},
		Storage: StorageConfig{
			Path:     filepath.Join(DirName, "history.db"),
			KeepRuns: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Resolve makes relative output and storage paths absolute against rootDir.
func (c *Config) Resolve(rootDir string) {
	if c.Output.Dir != "" && !filepath.IsAbs(c.Output.Dir) {
		c.Output.Dir = filepath.Join(rootDir, c.Output.Dir)
	}
	if c.Storage.Path != "" && !filepath.IsAbs(c.Storage.Path) {
		c.Storage.Path = filepath.Join(rootDir, c.Storage.Path)
	}
}

// SourceExtensions extracts unique file extensions from the source patterns.
// Returns extensions with leading dot (e.g., []string{".kt", ".kts"}).
func (c *Config) SourceExtensions() []string {
	seen := make(map[string]bool)
	var extensions []string
	for _, pattern := range c.Paths.Sources {
		if ext := extractExtension(pattern); ext != "" && !seen[ext] {
			seen[ext] = true
			extensions = append(extensions, ext)
		}
	}
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Examples: "**/*.kt" -> ".kt", "*.kts" -> ".kts", "src/**" -> ""
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
