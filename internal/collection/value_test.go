package collection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Test Plan for DefaultValue:
// - ParseLiteral recognises booleans, numbers and quoted strings
// - ParseLiteral rejects identifiers, calls and malformed numbers
// - PlainString renders every variant without quotes
// - JSON and YAML encode literals as scalars, lists as string lists and
//   explained values as {value, reason} records
// - Option.DefaultFor picks the platform default only when present

func TestParseLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		expected any
		ok       bool
	}{
		{"true", true, true},
		{"false", false, true},
		{"0", int64(0), true},
		{"123", int64(123), true},
		{"1_000_000", int64(1000000), true},
		{"0b101", int64(5), true},
		{"0xFFL", int64(255), true},
		{"7u", int64(7), true},
		{"3.14", 3.14, true},
		{"1e3", 1000.0, true},
		{"2.5F", 2.5, true},
		{`"text"`, "text", true},
		{`"""raw"""`, "raw", true},
		{`"with spaces "`, "with spaces ", true},
		{"  42  ", int64(42), true},
		{"DEFAULT", nil, false},
		{"listOf()", nil, false},
		{"nan", nil, false},
		{"Inf", nil, false},
		{"007", nil, false},
		{"", nil, false},
		{"-", nil, false},
		{"null", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			lit, ok := ParseLiteral(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, lit.Value)
			}
		})
	}
}

func TestPlainString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "foo", Literal{Value: "foo"}.PlainString())
	assert.Equal(t, "true", Literal{Value: true}.PlainString())
	assert.Equal(t, "12", Literal{Value: int64(12)}.PlainString())
	assert.Equal(t, "0.5", Literal{Value: 0.5}.PlainString())
	assert.Equal(t, "a,b", StringList{"a", "b"}.PlainString())
	assert.Equal(t, "x,y", ExplainedValues{{"x", "r1"}, {"y", "r2"}}.PlainString())
}

func TestNewLiteral(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Literal{Value: int64(3)}, NewLiteral(3))
	assert.Equal(t, Literal{Value: 1.5}, NewLiteral(float32(1.5)))
	assert.Equal(t, Literal{Value: "s"}, NewLiteral("s"))
}

func TestOption_JSON(t *testing.T) {
	t.Parallel()

	deprecated := "use other"
	options := []Option{
		{Name: "a", Description: "int", DefaultValue: Literal{Value: int64(5)}},
		{Name: "b", Description: "list", DefaultValue: StringList{"x"}, Deprecated: &deprecated},
		{
			Name:                 "c",
			Description:          "explained",
			DefaultValue:         ExplainedValues{{Value: "v", Reason: "r"}},
			DefaultPlatformValue: Literal{Value: false},
		},
	}

	data, err := json.Marshal(options)
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"name":"a","description":"int","defaultValue":5},
		{"name":"b","description":"list","defaultValue":["x"],"deprecated":"use other"},
		{"name":"c","description":"explained","defaultValue":[{"value":"v","reason":"r"}],"defaultPlatformValue":false}
	]`, string(data))
}

func TestOption_YAML(t *testing.T) {
	t.Parallel()

	opt := Option{
		Name:         "c",
		Description:  "explained",
		DefaultValue: ExplainedValues{{Value: "v", Reason: "r"}},
	}

	data, err := yaml.Marshal(opt)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "c", decoded["name"])
	assert.Equal(t, []any{map[string]any{"value": "v", "reason": "r"}}, decoded["defaultValue"])
	assert.NotContains(t, decoded, "defaultPlatformValue")
	assert.NotContains(t, decoded, "deprecated")
}

func TestOption_DefaultFor(t *testing.T) {
	t.Parallel()

	plain := Option{DefaultValue: Literal{Value: int64(1)}}
	variant := Option{DefaultValue: Literal{Value: int64(1)}, DefaultPlatformValue: Literal{Value: int64(2)}}

	assert.Equal(t, Literal{Value: int64(1)}, plain.DefaultFor(true))
	assert.Equal(t, Literal{Value: int64(1)}, variant.DefaultFor(false))
	assert.Equal(t, Literal{Value: int64(2)}, variant.DefaultFor(true))
}
