package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/confdoc/internal/logger"
	"github.com/mvp-joe/confdoc/internal/output"
)

var (
	// ErrNoSources indicates that no source pattern is configured
	ErrNoSources = errors.New("no source patterns")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrNoAnnotations indicates that no marker annotation is configured
	ErrNoAnnotations = errors.New("no marker annotations")

	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrEmptyOutputDir indicates a missing output directory
	ErrEmptyOutputDir = errors.New("empty output directory")

	// ErrInvalidRetention indicates a negative run retention
	ErrInvalidRetention = errors.New("invalid run retention")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

var logLevels = []logger.LogLevel{
	logger.DebugLevel,
	logger.InfoLevel,
	logger.WarnLevel,
	logger.ErrorLevel,
	logger.DisabledLevel,
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}
	if err := validateExtraction(&cfg.Extraction); err != nil {
		errs = append(errs, err)
	}
	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}
	if cfg.Storage.KeepRuns < 0 {
		errs = append(errs, fmt.Errorf("%w: keep_runs cannot be negative, got %d", ErrInvalidRetention, cfg.Storage.KeepRuns))
	}
	if !slices.Contains(logLevels, logger.LogLevel(strings.ToLower(cfg.Log.Level))) {
		errs = append(errs, fmt.Errorf("%w: '%s'", ErrInvalidLogLevel, cfg.Log.Level))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	if len(cfg.Sources) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one source pattern required", ErrNoSources))
	}
	for _, pattern := range append(slices.Clone(cfg.Sources), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateExtraction(cfg *ExtractionConfig) error {
	var errs []error

	if len(cfg.Annotations) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one annotation required", ErrNoAnnotations))
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateOutput(cfg *OutputConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Dir) == "" {
		errs = append(errs, fmt.Errorf("%w: dir is required", ErrEmptyOutputDir))
	}
	for _, format := range cfg.Formats {
		if !slices.Contains(output.Formats(), format) {
			errs = append(errs, fmt.Errorf("%w: must be one of %s, got '%s'",
				ErrInvalidFormat, strings.Join(output.Formats(), ", "), format))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every joined sentinel with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{msg: "validation failed:\n  - " + strings.Join(msgs, "\n  - "), errs: errs}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
