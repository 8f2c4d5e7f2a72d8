package output

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mvp-joe/confdoc/internal/generator"
)

// Format names accepted in the output configuration.
const (
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// File names written by Write.
const (
	DefaultConfigFile         = "default-config.yml"
	DefaultPlatformConfigFile = "default-config-android.yml"
	MarkdownFile              = "options.md"
	JSONFile                  = "options.json"
)

// ErrUnknownFormat is returned for an output format that has no renderer.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists every supported output format.
func Formats() []string {
	return []string{FormatYAML, FormatMarkdown, FormatJSON}
}

// Write renders the rules in every requested format into dir and returns the
// written paths. The YAML format produces both the regular and the platform
// default configuration.
func Write(dir string, formats []string, rules []generator.Rule) ([]string, error) {
	for _, f := range formats {
		if !slices.Contains(Formats(), f) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	write := func(name string, render func(*bytes.Buffer) error) error {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	for _, format := range formats {
		var err error
		switch format {
		case FormatYAML:
			err = write(DefaultConfigFile, func(b *bytes.Buffer) error {
				return WriteYAML(b, rules, YAMLOptions{})
			})
			if err == nil {
				err = write(DefaultPlatformConfigFile, func(b *bytes.Buffer) error {
					return WriteYAML(b, rules, YAMLOptions{Platform: true})
				})
			}
		case FormatMarkdown:
			err = write(MarkdownFile, func(b *bytes.Buffer) error {
				return WriteMarkdown(b, rules)
			})
		case FormatJSON:
			err = write(JSONFile, func(b *bytes.Buffer) error {
				return WriteJSON(b, rules)
			})
		}
		if err != nil {
			return written, err
		}
	}

	return written, nil
}
