package collection

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

const deprecatedAnnotation = "Deprecated"

// DefaultMarkerAnnotations are the annotation names that mark a property as a
// documented configuration option.
var DefaultMarkerAnnotations = []string{"Configuration", "Config"}

// Extractor accumulates the declarations and constants of one rule-definition
// unit and resolves them into options. Register everything first, then call
// Extract once. An Extractor is not safe for concurrent use; use one per unit.
type Extractor struct {
	unit         string
	markers      []string
	declarations []Declaration
	constants    map[string]DefaultValue
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithMarkerAnnotations overrides the annotation names that mark options.
func WithMarkerAnnotations(names ...string) ExtractorOption {
	return func(e *Extractor) {
		if len(names) > 0 {
			e.markers = append([]string(nil), names...)
		}
	}
}

// New creates an extractor for the unit identified by unit (used in error messages).
func New(unit string, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		unit:      unit,
		markers:   DefaultMarkerAnnotations,
		constants: make(map[string]DefaultValue),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterDeclaration queues a declaration for resolution. Validation is
// deferred to Extract so fallback targets may appear in any order.
func (e *Extractor) RegisterDeclaration(d Declaration) {
	e.declarations = append(e.declarations, d)
}

// RegisterConstantScope adds the immutable bindings of scope whose
// initializer is a recognised value to the constant table. Later
// registrations win on name collisions.
func (e *Extractor) RegisterConstantScope(scope ConstantScope) error {
	for _, binding := range scope.Bindings() {
		if binding.IsMutable() {
			continue
		}
		name := binding.Name()
		if name == "" {
			return e.fatal("", "constant binding without a name")
		}
		init, ok := binding.Initializer()
		if !ok || init == nil {
			continue
		}
		value, err := e.constantValue(name, init)
		if err != nil {
			return err
		}
		if value != nil {
			e.constants[name] = value
		}
	}
	return nil
}

// Constants returns a copy of the constant table.
func (e *Extractor) Constants() map[string]DefaultValue {
	return maps.Clone(e.constants)
}

// Extract resolves every registered declaration in registration order.
//
// Documentation errors are collected per declaration; the options that did
// resolve are returned together with the joined documentation errors. A fatal
// error stops the unit and is returned with nil options.
func (e *Extractor) Extract() ([]Option, error) {
	var (
		options []Option
		docErrs []error
	)
	for _, d := range e.declarations {
		opt, err := e.resolve(d)
		if err != nil {
			var docErr *DocumentationError
			if errors.As(err, &docErr) {
				docErrs = append(docErrs, err)
				continue
			}
			return nil, err
		}
		if opt != nil {
			options = append(options, *opt)
		}
	}
	return options, errors.Join(docErrs...)
}

func (e *Extractor) resolve(d Declaration) (*Option, error) {
	name := d.Name()
	if name == "" {
		return nil, e.fatal("", "declaration without a name")
	}

	marker, annotated := e.markerAnnotation(d)
	shape := shapeOfDeclaration(d)

	switch {
	case annotated:
		return e.toOption(d, name, marker, shape)
	case shape.IsDelegate():
		return nil, e.invalidDocumentation(name,
			"'%s' uses the config delegate but is not annotated with @%s", name, e.markers[0])
	}
	return nil, nil
}

func (e *Extractor) toOption(d Declaration, name string, marker Annotation, shape DelegateShape) (*Option, error) {
	if !shape.IsDelegate() {
		return nil, e.invalidDocumentation(name,
			"'%s' uses the annotation but not a config delegate (%s)", name, strings.Join(DelegateNames, ", "))
	}

	if shape == ShapeFallback {
		if err := e.checkFallbackReference(d, name, shape); err != nil {
			return nil, err
		}
	}

	description, ok := annotationArgument(marker, "description", 0)
	if !ok {
		return nil, e.invalidDocumentation(name, "'%s' is missing a description in its @%s annotation", name, e.markers[0])
	}

	defaultExpr, ok := delegateArgument(d, defaultValueArgument, shape.DefaultValueIndex())
	if !ok {
		return nil, e.invalidDocumentation(name, "'%s' is not a delegated property", name)
	}
	defaultValue, err := e.toDefaultValue(name, defaultExpr)
	if err != nil {
		return nil, err
	}

	var platformValue DefaultValue
	if platformExpr, ok := delegateArgument(d, defaultAndroidValueArgument, shape.PlatformValueIndex()); ok {
		platformValue, err = e.toDefaultValue(name, platformExpr)
		if err != nil {
			return nil, err
		}
	}

	return &Option{
		Name:                 name,
		Description:          withoutQuotes(description.Text()),
		DefaultValue:         defaultValue,
		DefaultPlatformValue: platformValue,
		Deprecated:           deprecationMessage(d, marker),
	}, nil
}

func (e *Extractor) checkFallbackReference(d Declaration, name string, shape DelegateShape) error {
	var target string
	if expr, ok := delegateArgument(d, fallbackPropertyArgument, shape.FallbackIndex()); ok {
		target, _ = expr.AsReference()
	}

	for _, other := range e.declarations {
		if target != "" && other.Name() == target && shapeOfDeclaration(other).IsDelegate() {
			return nil
		}
	}
	return e.invalidDocumentation(name,
		"The fallback property '%s' of property '%s' is invalid: it must also be defined using a config property delegate",
		target, name)
}

func (e *Extractor) markerAnnotation(d Declaration) (Annotation, bool) {
	for _, marker := range e.markers {
		if a, ok := d.Annotation(marker); ok {
			return a, true
		}
	}
	return nil, false
}

func deprecationMessage(d Declaration, marker Annotation) *string {
	if expr, ok := annotationArgument(marker, "deprecated", -1); ok {
		msg := withoutQuotes(expr.Text())
		return &msg
	}
	if a, ok := d.Annotation(deprecatedAnnotation); ok {
		if expr, ok := annotationArgument(a, "message", 0); ok {
			msg := withoutQuotes(expr.Text())
			return &msg
		}
	}
	return nil
}

// annotationArgument finds an annotation argument by name, falling back to
// position. A negative position disables positional matching.
func annotationArgument(a Annotation, name string, position int) (Expression, bool) {
	return findArgument(a.Arguments(), name, position)
}

// delegateArgument finds an argument of the delegate call by name, falling
// back to position. A negative position disables positional matching.
func delegateArgument(d Declaration, name string, position int) (Expression, bool) {
	expr, ok := d.Delegate()
	if !ok || expr == nil {
		return nil, false
	}
	call, ok := expr.AsCall()
	if !ok {
		return nil, false
	}
	return findArgument(call.Arguments(), name, position)
}

func findArgument(args []Argument, name string, position int) (Expression, bool) {
	for _, arg := range args {
		if arg.Name() == name {
			return arg.Value(), arg.Value() != nil
		}
	}
	if position < 0 || position >= len(args) {
		return nil, false
	}
	arg := args[position]
	return arg.Value(), arg.Value() != nil
}

func (e *Extractor) invalidDocumentation(property, format string, args ...any) error {
	return &DocumentationError{
		Unit:     e.unit,
		Property: property,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (e *Extractor) fatal(property, format string, args ...any) error {
	return &FatalError{
		Unit:     e.unit,
		Property: property,
		Message:  fmt.Sprintf(format, args...),
	}
}
