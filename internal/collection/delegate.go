package collection

// DelegateShape is the recognised form of a config property delegate.
type DelegateShape int

const (
	// ShapeNone means the declaration is not initialized with a config delegate.
	ShapeNone DelegateShape = iota
	// ShapeSimple is `config(defaultValue, ...)`.
	ShapeSimple
	// ShapeFallback is `configWithFallback(fallbackProperty, defaultValue, ...)`.
	ShapeFallback
	// ShapePlatformVariant is `configWithAndroidVariants(defaultValue, defaultAndroidValue, ...)`.
	ShapePlatformVariant
)

const (
	simpleDelegateName   = "config"
	fallbackDelegateName = "configWithFallback"
	androidDelegateName  = "configWithAndroidVariants"

	defaultValueArgument        = "defaultValue"
	defaultAndroidValueArgument = "defaultAndroidValue"
	fallbackPropertyArgument    = "fallbackProperty"
)

// DelegateNames lists the recognised delegate function names.
var DelegateNames = []string{simpleDelegateName, fallbackDelegateName, androidDelegateName}

// ShapeOf maps a delegate callee name to its shape.
func ShapeOf(callee string) DelegateShape {
	switch callee {
	case simpleDelegateName:
		return ShapeSimple
	case fallbackDelegateName:
		return ShapeFallback
	case androidDelegateName:
		return ShapePlatformVariant
	}
	return ShapeNone
}

// IsDelegate reports whether the shape is one of the recognised config delegates.
func (s DelegateShape) IsDelegate() bool {
	return s != ShapeNone
}

// DefaultValueIndex is the positional slot of `defaultValue` for this shape.
func (s DelegateShape) DefaultValueIndex() int {
	if s == ShapeFallback {
		return 1
	}
	return 0
}

// PlatformValueIndex is the positional slot of `defaultAndroidValue`, or -1
// when the shape has no platform default.
func (s DelegateShape) PlatformValueIndex() int {
	if s == ShapePlatformVariant {
		return 1
	}
	return -1
}

// FallbackIndex is the positional slot of `fallbackProperty`, or -1.
func (s DelegateShape) FallbackIndex() int {
	if s == ShapeFallback {
		return 0
	}
	return -1
}

func (s DelegateShape) String() string {
	switch s {
	case ShapeSimple:
		return simpleDelegateName
	case ShapeFallback:
		return fallbackDelegateName
	case ShapePlatformVariant:
		return androidDelegateName
	}
	return "none"
}

// shapeOfDeclaration finds the delegate shape from the callee of the
// delegate expression, or the bare delegate name when it is not a call.
func shapeOfDeclaration(d Declaration) DelegateShape {
	expr, ok := d.Delegate()
	if !ok || expr == nil {
		return ShapeNone
	}
	if call, ok := expr.AsCall(); ok {
		return ShapeOf(call.Callee())
	}
	return ShapeOf(expr.Text())
}
