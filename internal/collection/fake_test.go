package collection

import "strings"

// In-memory implementations of the input contract.

type fakeExpr struct {
	text  string
	call  *fakeCall
	left  *fakeExpr
	right *fakeExpr
	ref   string
}

func (e *fakeExpr) Text() string { return e.text }

func (e *fakeExpr) AsCall() (Call, bool) {
	if e.call == nil {
		return nil, false
	}
	return e.call, true
}

func (e *fakeExpr) AsPair() (Expression, Expression, bool) {
	if e.left == nil || e.right == nil {
		return nil, nil, false
	}
	return e.left, e.right, true
}

func (e *fakeExpr) AsReference() (string, bool) {
	return e.ref, e.ref != ""
}

type fakeCall struct {
	callee string
	args   []Argument
}

func (c *fakeCall) Callee() string        { return c.callee }
func (c *fakeCall) Arguments() []Argument { return c.args }

type fakeArg struct {
	name  string
	value *fakeExpr
}

func (a fakeArg) Name() string { return a.name }

func (a fakeArg) Value() Expression {
	if a.value == nil {
		return nil
	}
	return a.value
}

type fakeAnnotation struct {
	args []Argument
}

func (a fakeAnnotation) Arguments() []Argument { return a.args }

type fakeDecl struct {
	name        string
	mutable     bool
	annotations map[string]fakeAnnotation
	delegate    *fakeExpr
	initializer *fakeExpr
}

func (d *fakeDecl) Name() string    { return d.name }
func (d *fakeDecl) IsMutable() bool { return d.mutable }

func (d *fakeDecl) Annotation(name string) (Annotation, bool) {
	a, ok := d.annotations[name]
	return a, ok
}

func (d *fakeDecl) Delegate() (Expression, bool) {
	if d.delegate == nil {
		return nil, false
	}
	return d.delegate, true
}

func (d *fakeDecl) Initializer() (Expression, bool) {
	if d.initializer == nil {
		return nil, false
	}
	return d.initializer, true
}

type fakeScope struct {
	bindings []Declaration
}

func (s fakeScope) Bindings() []Declaration { return s.bindings }

// builders

func expr(text string) *fakeExpr { return &fakeExpr{text: text} }

func str(s string) *fakeExpr { return expr(`"` + s + `"`) }

func ref(name string) *fakeExpr { return &fakeExpr{text: "::" + name, ref: name} }

func pair(left, right *fakeExpr) *fakeExpr {
	return &fakeExpr{text: left.text + " to " + right.text, left: left, right: right}
}

func pos(v *fakeExpr) Argument { return fakeArg{value: v} }

func named(name string, v *fakeExpr) Argument { return fakeArg{name: name, value: v} }

func call(callee string, args ...Argument) *fakeExpr {
	texts := make([]string, 0, len(args))
	for _, a := range args {
		t := a.Value().Text()
		if a.Name() != "" {
			t = a.Name() + " = " + t
		}
		texts = append(texts, t)
	}
	return &fakeExpr{
		text: callee + "(" + strings.Join(texts, ", ") + ")",
		call: &fakeCall{callee: callee, args: args},
	}
}

func prop(name string) *fakeDecl {
	return &fakeDecl{name: name, annotations: map[string]fakeAnnotation{}}
}

func (d *fakeDecl) annotated(annotation string, args ...Argument) *fakeDecl {
	d.annotations[annotation] = fakeAnnotation{args: args}
	return d
}

func (d *fakeDecl) config(description string) *fakeDecl {
	return d.annotated("Configuration", pos(str(description)))
}

func (d *fakeDecl) by(delegate *fakeExpr) *fakeDecl {
	d.delegate = delegate
	return d
}

func (d *fakeDecl) is(init *fakeExpr) *fakeDecl {
	d.initializer = init
	return d
}

func (d *fakeDecl) asVar() *fakeDecl {
	d.mutable = true
	return d
}

func scope(bindings ...*fakeDecl) fakeScope {
	s := fakeScope{}
	for _, b := range bindings {
		s.bindings = append(s.bindings, b)
	}
	return s
}
