package kotlin

import (
	"regexp"
	"strings"

	"github.com/mvp-joe/confdoc/internal/collection"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Expr is a converted Kotlin expression.
type Expr struct {
	text  string
	call  *Call
	left  *Expr
	right *Expr
}

func (e *Expr) Text() string { return e.text }

func (e *Expr) AsCall() (collection.Call, bool) {
	if e.call == nil {
		return nil, false
	}
	return e.call, true
}

func (e *Expr) AsPair() (collection.Expression, collection.Expression, bool) {
	if e.left == nil || e.right == nil {
		return nil, nil, false
	}
	return e.left, e.right, true
}

// AsReference understands `::name` and `receiver::name`.
func (e *Expr) AsReference() (string, bool) {
	idx := strings.LastIndex(e.text, "::")
	if idx < 0 {
		return "", false
	}
	name := strings.TrimSpace(e.text[idx+2:])
	if !identifierPattern.MatchString(name) {
		return "", false
	}
	return name, true
}

// Call is a converted call expression.
type Call struct {
	callee string
	args   []*Arg
}

func (c *Call) Callee() string { return c.callee }

func (c *Call) Arguments() []collection.Argument {
	return toArguments(c.args)
}

// Arg is one value argument of a call or annotation.
type Arg struct {
	name  string
	value *Expr
}

func (a *Arg) Name() string { return a.name }

func (a *Arg) Value() collection.Expression {
	if a.value == nil {
		return nil
	}
	return a.value
}

// Annotation is an annotation use site.
type Annotation struct {
	Name string
	args []*Arg
}

func (a *Annotation) Arguments() []collection.Argument {
	return toArguments(a.args)
}

// Property is a `val`/`var` declaration.
type Property struct {
	name        string
	mutable     bool
	line        int
	annotations []*Annotation
	delegate    *Expr
	initializer *Expr
}

func (p *Property) Name() string    { return p.name }
func (p *Property) IsMutable() bool { return p.mutable }

// Line is the 1-based line the declaration starts on.
func (p *Property) Line() int { return p.line }

func (p *Property) Annotation(name string) (collection.Annotation, bool) {
	for _, a := range p.annotations {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

func (p *Property) Delegate() (collection.Expression, bool) {
	if p.delegate == nil {
		return nil, false
	}
	return p.delegate, true
}

func (p *Property) Initializer() (collection.Expression, bool) {
	if p.initializer == nil {
		return nil, false
	}
	return p.initializer, true
}

// Scope is a companion object body.
type Scope struct {
	Name       string
	Properties []*Property
}

func (s *Scope) Bindings() []collection.Declaration {
	bindings := make([]collection.Declaration, 0, len(s.Properties))
	for _, p := range s.Properties {
		bindings = append(bindings, p)
	}
	return bindings
}

func toArguments(args []*Arg) []collection.Argument {
	out := make([]collection.Argument, 0, len(args))
	for _, a := range args {
		out = append(out, a)
	}
	return out
}
