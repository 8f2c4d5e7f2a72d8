package kotlin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/confdoc/internal/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Kotlin Parser:
// - Extracts package name from the package header
// - Extracts class declarations with name, KDoc and line numbers
// - Finds the class KDoc after imports, after a bare package header and at top level
// - Converts class-body properties in source order with name, line and mutability
// - Converts annotations with their arguments
// - Converts delegate calls with callee, positional and named arguments
// - Converts `a to b` infix pairs and `::name` references
// - Collects companion object bindings as a constant scope
// - End to end: parsed declarations resolve through the extractor

const magicNumberFile = "../../testdata/kotlin/style/MagicNumber.kt"

func parseFixture(t *testing.T, path string) *File {
	t.Helper()

	parser := NewParser()
	t.Cleanup(parser.Close)

	absPath, err := filepath.Abs(path)
	require.NoError(t, err)

	file, err := parser.ParseFile(context.Background(), absPath)
	require.NoError(t, err)
	require.NotNil(t, file)
	return file
}

func findProperty(t *testing.T, class *Class, name string) *Property {
	t.Helper()
	for _, p := range class.Properties {
		if p.Name() == name {
			return p
		}
	}
	require.Failf(t, "property not found", "property %s", name)
	return nil
}

func TestParser_PackageAndClass(t *testing.T) {
	t.Parallel()

	file := parseFixture(t, magicNumberFile)

	assert.Equal(t, "io.gitlab.arturbosch.detekt.rules.style", file.Package)
	require.Len(t, file.Classes, 1)

	class := file.Classes[0]
	assert.Equal(t, "MagicNumber", class.Name)
	assert.Equal(t, "class", class.Kind)
	assert.Equal(t, "Reports magic numbers in the code.", class.Doc)
	assert.Equal(t, 14, class.StartLine)
	assert.Equal(t, 54, class.EndLine)
}

func TestParser_ClassDoc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "after imports",
			source: "package a.b\n\nimport x.Y\nimport x.Z\n\n/**\n * Doc after imports.\n */\nclass Rule\n",
			want:   "Doc after imports.",
		},
		{
			name:   "after package header",
			source: "package a.b\n\n/** Doc after package. */\nclass Rule\n",
			want:   "Doc after package.",
		},
		{
			name:   "no header",
			source: "/** Top level doc. */\nclass Rule\n",
			want:   "Top level doc.",
		},
		{
			name:   "undocumented",
			source: "package a.b\n\nimport x.Y\n\nclass Rule\n",
			want:   "",
		},
		{
			name:   "plain comment is not KDoc",
			source: "package a.b\n\nimport x.Y\n\n// not documentation\nclass Rule\n",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parser := NewParser()
			t.Cleanup(parser.Close)

			file, err := parser.Parse(context.Background(), "Rule.kt", []byte(tt.source))
			require.NoError(t, err)
			require.Len(t, file.Classes, 1)
			assert.Equal(t, "Rule", file.Classes[0].Name)
			assert.Equal(t, tt.want, file.Classes[0].Doc)
		})
	}
}

func TestParser_Properties(t *testing.T) {
	t.Parallel()

	class := parseFixture(t, magicNumberFile).Classes[0]

	names := make([]string, 0, len(class.Properties))
	for _, p := range class.Properties {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{
		"ignoreNumbers",
		"ignoreHashCodeFunction",
		"maxLineLength",
		"allowedPatterns",
		"excludedFunctions",
		"ignorePrivateProperty",
		"ignoreRanges",
		"forbiddenNames",
		"cache",
	}, names)

	cache := findProperty(t, class, "cache")
	assert.Equal(t, 47, cache.Line())
	assert.False(t, cache.IsMutable())
	_, delegated := cache.Delegate()
	assert.False(t, delegated)
	init, ok := cache.Initializer()
	require.True(t, ok)
	assert.Equal(t, "mutableMapOf<String, Int>()", init.Text())
}

func TestParser_Annotations(t *testing.T) {
	t.Parallel()

	class := parseFixture(t, magicNumberFile).Classes[0]
	ranges := findProperty(t, class, "ignoreRanges")

	config, ok := ranges.Annotation("Configuration")
	require.True(t, ok)
	require.Len(t, config.Arguments(), 1)
	assert.Equal(t, `"ignore ranges"`, config.Arguments()[0].Value().Text())

	deprecated, ok := ranges.Annotation("Deprecated")
	require.True(t, ok)
	require.Len(t, deprecated.Arguments(), 1)

	_, ok = ranges.Annotation("Missing")
	assert.False(t, ok)
}

func TestParser_DelegateCalls(t *testing.T) {
	t.Parallel()

	class := parseFixture(t, magicNumberFile).Classes[0]

	t.Run("positional", func(t *testing.T) {
		delegate, ok := findProperty(t, class, "maxLineLength").Delegate()
		require.True(t, ok)
		call, ok := delegate.AsCall()
		require.True(t, ok)
		assert.Equal(t, "configWithAndroidVariants", call.Callee())
		require.Len(t, call.Arguments(), 2)
		assert.Equal(t, "", call.Arguments()[0].Name())
		assert.Equal(t, "120", call.Arguments()[0].Value().Text())
		assert.Equal(t, "100", call.Arguments()[1].Value().Text())
	})

	t.Run("named", func(t *testing.T) {
		delegate, ok := findProperty(t, class, "allowedPatterns").Delegate()
		require.True(t, ok)
		call, ok := delegate.AsCall()
		require.True(t, ok)
		require.Len(t, call.Arguments(), 1)
		assert.Equal(t, "defaultValue", call.Arguments()[0].Name())
		assert.Equal(t, "DEFAULT_PATTERN", call.Arguments()[0].Value().Text())
	})

	t.Run("callable reference", func(t *testing.T) {
		delegate, ok := findProperty(t, class, "ignorePrivateProperty").Delegate()
		require.True(t, ok)
		call, ok := delegate.AsCall()
		require.True(t, ok)
		ref, ok := call.Arguments()[0].Value().AsReference()
		require.True(t, ok)
		assert.Equal(t, "ignoreHashCodeFunction", ref)
	})

	t.Run("explained pairs", func(t *testing.T) {
		delegate, ok := findProperty(t, class, "forbiddenNames").Delegate()
		require.True(t, ok)
		call, ok := delegate.AsCall()
		require.True(t, ok)
		explained, ok := call.Arguments()[0].Value().AsCall()
		require.True(t, ok)
		assert.Equal(t, "explainedValues", explained.Callee())
		require.Len(t, explained.Arguments(), 2)

		left, right, ok := explained.Arguments()[0].Value().AsPair()
		require.True(t, ok)
		assert.Equal(t, `"Foo"`, left.Text())
		assert.Equal(t, `"is a placeholder"`, right.Text())
	})
}

func TestParser_Companion(t *testing.T) {
	t.Parallel()

	class := parseFixture(t, magicNumberFile).Classes[0]
	require.Len(t, class.Companions, 1)

	bindings := class.Companions[0].Bindings()
	require.Len(t, bindings, 3)
	assert.Equal(t, "DEFAULT_PATTERN", bindings[0].Name())
	assert.Equal(t, "EXCLUDED_FUNCTION", bindings[1].Name())
	assert.Equal(t, "counter", bindings[2].Name())
	assert.False(t, bindings[0].IsMutable())
	assert.True(t, bindings[2].IsMutable())

	init, ok := bindings[0].Initializer()
	require.True(t, ok)
	assert.Equal(t, `"^(_|ignored)$"`, init.Text())
}

func TestParser_ExtractsOptionsEndToEnd(t *testing.T) {
	t.Parallel()

	class := parseFixture(t, magicNumberFile).Classes[0]

	extractor := collection.New(class.Name)
	for _, companion := range class.Companions {
		require.NoError(t, extractor.RegisterConstantScope(companion))
	}
	for _, p := range class.Properties {
		extractor.RegisterDeclaration(p)
	}

	options, err := extractor.Extract()
	require.NoError(t, err)
	require.Len(t, options, 8)

	byName := make(map[string]collection.Option)
	for _, o := range options {
		byName[o.Name] = o
	}

	assert.Equal(t, collection.StringList{"-1", "0", "1", "2"}, byName["ignoreNumbers"].DefaultValue)
	assert.Equal(t, collection.Literal{Value: true}, byName["ignoreHashCodeFunction"].DefaultValue)
	assert.Equal(t, collection.Literal{Value: int64(120)}, byName["maxLineLength"].DefaultValue)
	assert.Equal(t, collection.Literal{Value: int64(100)}, byName["maxLineLength"].DefaultPlatformValue)
	assert.Equal(t, collection.Literal{Value: "^(_|ignored)$"}, byName["allowedPatterns"].DefaultValue)
	assert.Equal(t, collection.StringList{"hashCode", "describeContents"}, byName["excludedFunctions"].DefaultValue)
	assert.Equal(t, collection.Literal{Value: false}, byName["ignorePrivateProperty"].DefaultValue)
	assert.Equal(t, collection.ExplainedValues{
		{Value: "Foo", Reason: "is a placeholder"},
		{Value: "Bar", Reason: "is also a placeholder"},
	}, byName["forbiddenNames"].DefaultValue)

	require.NotNil(t, byName["ignoreRanges"].Deprecated)
	assert.Equal(t, "Use `ignoreNumbers` instead", *byName["ignoreRanges"].Deprecated)
	assert.Equal(t, "numbers which do not count as magic numbers", byName["ignoreNumbers"].Description)
}
