package generator

import (
	"time"

	"github.com/mvp-joe/confdoc/internal/collection"
)

// Rule is one rule-definition unit and the options it declares.
type Rule struct {
	RuleSet string              `json:"ruleSet" yaml:"ruleSet"`
	Name    string              `json:"name" yaml:"name"`
	File    string              `json:"file" yaml:"file"`
	Line    int                 `json:"line" yaml:"line"`
	Doc     string              `json:"doc,omitempty" yaml:"doc,omitempty"`
	Options []collection.Option `json:"options" yaml:"options"`
}

// Problem is a documentation error found in one unit.
type Problem struct {
	File     string `json:"file" yaml:"file"`
	Unit     string `json:"unit" yaml:"unit"`
	Property string `json:"property" yaml:"property"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

// FileResult is the outcome of collecting a single source file.
type FileResult struct {
	Path     string
	Hash     string
	Rules    []Rule
	Problems []Problem
}

// Stats summarises a generator run.
type Stats struct {
	FilesProcessed int           `json:"files_processed"`
	FilesCached    int           `json:"files_cached"`
	Rules          int           `json:"rules"`
	Options        int           `json:"options"`
	Problems       int           `json:"problems"`
	Duration       time.Duration `json:"duration"`
}

// Result is the outcome of a generator run over all discovered files.
type Result struct {
	Rules    []Rule
	Problems []Problem
	Stats    Stats
}

// HasProblems reports whether any documentation error was found.
func (r *Result) HasProblems() bool {
	return len(r.Problems) > 0
}
