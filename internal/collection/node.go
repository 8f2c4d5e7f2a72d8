package collection

// Declaration is a property-like binding as exposed by the source front-end.
// The extractor only reads it.
type Declaration interface {
	// Name returns the declared identifier. Must not be empty.
	Name() string
	// IsMutable reports whether the binding is reassignable (Kotlin `var`).
	IsMutable() bool
	// Annotation returns the annotation with the given simple name, if present.
	Annotation(name string) (Annotation, bool)
	// Delegate returns the expression after `by`, if the binding is delegated.
	Delegate() (Expression, bool)
	// Initializer returns the expression after `=`, if the binding has one.
	Initializer() (Expression, bool)
}

// Annotation is an annotation use site with its call arguments.
type Annotation interface {
	Arguments() []Argument
}

// Expression is a single expression node.
type Expression interface {
	// Text returns the exact source text of the expression.
	Text() string
	// AsCall returns the call when the expression is a function call.
	AsCall() (Call, bool)
	// AsPair returns both operands when the expression is a `key to value` mapping.
	AsPair() (left, right Expression, ok bool)
	// AsReference returns the referenced name when the expression is a
	// callable reference such as `::name`.
	AsReference() (string, bool)
}

// Call is a call site: callee name plus its value arguments in source order.
type Call interface {
	Callee() string
	Arguments() []Argument
}

// Argument is one call argument. Name is empty for positional arguments.
type Argument interface {
	Name() string
	Value() Expression
}

// ConstantScope is a scope whose immediate bindings may serve as constants
// (a companion object, for instance).
type ConstantScope interface {
	Bindings() []Declaration
}
