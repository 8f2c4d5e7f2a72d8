package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mvp-joe/confdoc/internal/collection"
	"github.com/mvp-joe/confdoc/internal/generator"
)

// FindingKind classifies a difference between declared and runtime options.
type FindingKind string

const (
	// Missing means a declared option has no entry in the runtime config.
	Missing FindingKind = "missing"
	// Undeclared means the runtime config sets a key no rule declares.
	Undeclared FindingKind = "undeclared"
	// Mismatch means the runtime value differs from the declared default.
	Mismatch FindingKind = "mismatch"
)

// reservedKeys are handled by the rule engine itself for every rule.
var reservedKeys = map[string]bool{
	"active":          true,
	"excludes":        true,
	"includes":        true,
	"autoCorrect":     true,
	"severity":        true,
	"aliases":         true,
	"ignoreAnnotated": true,
}

// Finding is one difference between the declared options and a runtime config.
type Finding struct {
	Kind     FindingKind `json:"kind"`
	RuleSet  string      `json:"ruleSet"`
	Rule     string      `json:"rule"`
	Option   string      `json:"option"`
	Declared string      `json:"declared,omitempty"`
	Actual   string      `json:"actual,omitempty"`
}

func (f Finding) String() string {
	switch f.Kind {
	case Missing:
		return fmt.Sprintf("%s>%s>%s: missing (default %q)", f.RuleSet, f.Rule, f.Option, f.Declared)
	case Mismatch:
		return fmt.Sprintf("%s>%s>%s: declared default %q but configured %q", f.RuleSet, f.Rule, f.Option, f.Declared, f.Actual)
	default:
		return fmt.Sprintf("%s>%s>%s: not declared by the rule", f.RuleSet, f.Rule, f.Option)
	}
}

// Check compares the declared options of every rule against a runtime config.
// Values are compared by their plain rendering; either the regular or the
// platform default is accepted. Deprecated options are never reported missing.
func Check(rules []generator.Rule, runtime RuntimeConfig) []Finding {
	findings := []Finding{}

	for _, rule := range rules {
		settings, _ := runtime.rule(rule.RuleSet, rule.Name)
		declared := make(map[string]bool, len(rule.Options))

		for _, opt := range rule.Options {
			declared[opt.Name] = true

			actual, ok := settings[opt.Name]
			if !ok {
				if !opt.IsDeprecated() {
					findings = append(findings, Finding{
						Kind:     Missing,
						RuleSet:  rule.RuleSet,
						Rule:     rule.Name,
						Option:   opt.Name,
						Declared: plain(opt.DefaultValue),
					})
				}
				continue
			}

			if !matchesDefault(opt, canonical(actual)) {
				findings = append(findings, Finding{
					Kind:     Mismatch,
					RuleSet:  rule.RuleSet,
					Rule:     rule.Name,
					Option:   opt.Name,
					Declared: plain(opt.DefaultValue),
					Actual:   canonical(actual),
				})
			}
		}

		for key := range settings {
			if declared[key] || reservedKeys[key] {
				continue
			}
			findings = append(findings, Finding{
				Kind:    Undeclared,
				RuleSet: rule.RuleSet,
				Rule:    rule.Name,
				Option:  key,
				Actual:  canonical(settings[key]),
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.RuleSet != b.RuleSet {
			return a.RuleSet < b.RuleSet
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Option < b.Option
	})
	return findings
}

func plain(v collection.DefaultValue) string {
	if v == nil {
		return ""
	}
	return v.PlainString()
}

// matchesDefault accepts the regular default and, when the option declares
// one, the platform default.
func matchesDefault(opt collection.Option, got string) bool {
	if got == plain(opt.DefaultValue) {
		return true
	}
	return opt.DefaultPlatformValue != nil && got == plain(opt.DefaultPlatformValue)
}

// canonical renders a decoded YAML value the way DefaultValue.PlainString does.
func canonical(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				parts = append(parts, canonical(m["value"]))
				continue
			}
			parts = append(parts, canonical(item))
		}
		return strings.Join(parts, ",")
	case int, int64, float64, bool, string:
		return collection.NewLiteral(val).PlainString()
	}
	return fmt.Sprint(v)
}
