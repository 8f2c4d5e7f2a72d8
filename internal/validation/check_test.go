package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/confdoc/internal/collection"
	"github.com/mvp-joe/confdoc/internal/generator"
)

// Test Plan for Check:
// - A configuration matching every declared default produces no findings
// - Declared options absent from the runtime config are missing, unless deprecated
// - Values differing from the default are mismatches; platform defaults are accepted
// - Null or empty runtime values mismatch a non-empty default
// - Unknown keys are undeclared; reserved keys are ignored
// - Lists and explained values compare by their plain rendering
// - Loading reports unreadable and malformed files

func strPtr(s string) *string { return &s }

func declaredRules() []generator.Rule {
	return []generator.Rule{{
		RuleSet: "style",
		Name:    "MagicNumber",
		Options: []collection.Option{
			{Name: "threshold", DefaultValue: collection.NewLiteral(3)},
			{Name: "ratio", DefaultValue: collection.NewLiteral(0.5)},
			{Name: "ignoreNumbers", DefaultValue: collection.StringList{"-1", "0", "1"}},
			{Name: "maxLength", DefaultValue: collection.NewLiteral(120), DefaultPlatformValue: collection.NewLiteral(100)},
			{Name: "names", DefaultValue: collection.ExplainedValues{{Value: "foo", Reason: "a"}, {Value: "bar", Reason: "b"}}},
			{Name: "legacy", DefaultValue: collection.NewLiteral(false), Deprecated: strPtr("unused")},
		},
	}}
}

const matchingConfig = `
style:
  active: true
  MagicNumber:
    active: true
    excludes: ['**/test/**']
    threshold: 3
    ratio: 0.5
    ignoreNumbers:
      - '-1'
      - '0'
      - '1'
    maxLength: 100
    names:
      - foo
      - bar
`

func TestCheck_Matching(t *testing.T) {
	t.Parallel()

	runtime, err := ParseRuntimeConfig([]byte(matchingConfig))
	require.NoError(t, err)
	assert.Empty(t, Check(declaredRules(), runtime))
}

func TestCheck_Findings(t *testing.T) {
	t.Parallel()

	runtime, err := ParseRuntimeConfig([]byte(`
style:
  MagicNumber:
    threshold: 4
    ratio: 0.5
    ignoreNumbers: ['-1', '0']
    names:
      - value: foo
        reason: a
      - value: bar
        reason: b
    severity: warning
    typo: 1
`))
	require.NoError(t, err)

	findings := Check(declaredRules(), runtime)
	assert.Equal(t, []Finding{
		{Kind: Mismatch, RuleSet: "style", Rule: "MagicNumber", Option: "ignoreNumbers", Declared: "-1,0,1", Actual: "-1,0"},
		{Kind: Missing, RuleSet: "style", Rule: "MagicNumber", Option: "maxLength", Declared: "120"},
		{Kind: Mismatch, RuleSet: "style", Rule: "MagicNumber", Option: "threshold", Declared: "3", Actual: "4"},
		{Kind: Undeclared, RuleSet: "style", Rule: "MagicNumber", Option: "typo", Actual: "1"},
	}, findings)
}

func TestCheck_BlankValues(t *testing.T) {
	t.Parallel()

	rules := []generator.Rule{{
		RuleSet: "style",
		Name:    "MagicNumber",
		Options: []collection.Option{
			{Name: "threshold", DefaultValue: collection.NewLiteral(int64(5))},
			{Name: "prefix", DefaultValue: collection.NewLiteral("")},
		},
	}}

	tests := []struct {
		name  string
		value string
	}{
		{"null", "threshold:"},
		{"empty string", "threshold: ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runtime, err := ParseRuntimeConfig([]byte("style:\n  MagicNumber:\n    prefix: ''\n    " + tt.value + "\n"))
			require.NoError(t, err)

			assert.Equal(t, []Finding{
				{Kind: Mismatch, RuleSet: "style", Rule: "MagicNumber", Option: "threshold", Declared: "5", Actual: ""},
			}, Check(rules, runtime))
		})
	}
}

func TestCheck_RuleNotConfigured(t *testing.T) {
	t.Parallel()

	findings := Check(declaredRules(), RuntimeConfig{})
	assert.Len(t, findings, 5)
	for _, f := range findings {
		assert.Equal(t, Missing, f.Kind)
		assert.NotEqual(t, "legacy", f.Option)
	}
}

func TestFinding_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		finding Finding
		want    string
	}{
		{Finding{Kind: Missing, RuleSet: "s", Rule: "R", Option: "o", Declared: "1"}, `s>R>o: missing (default "1")`},
		{Finding{Kind: Mismatch, RuleSet: "s", Rule: "R", Option: "o", Declared: "1", Actual: "2"}, `s>R>o: declared default "1" but configured "2"`},
		{Finding{Kind: Undeclared, RuleSet: "s", Rule: "R", Option: "o"}, `s>R>o: not declared by the rule`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.finding.String())
	}
}

func TestLoadRuntimeConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "detekt.yml")
	require.NoError(t, os.WriteFile(path, []byte(matchingConfig), 0644))

	runtime, err := LoadRuntimeConfig(path)
	require.NoError(t, err)
	settings, ok := runtime.rule("style", "MagicNumber")
	require.True(t, ok)
	assert.Equal(t, 3, settings["threshold"])

	_, err = LoadRuntimeConfig(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("style: [unterminated"), 0644))
	_, err = LoadRuntimeConfig(path)
	assert.Error(t, err)
}

func TestParseRuntimeConfig_Empty(t *testing.T) {
	t.Parallel()

	runtime, err := ParseRuntimeConfig(nil)
	require.NoError(t, err)
	assert.NotNil(t, runtime)
}
