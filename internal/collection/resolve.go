package collection

const (
	explainedValuesFactory = "explainedValues"
	listOfFactory          = "listOf"
	emptyListFactory       = "emptyList"
)

// toDefaultValue resolves an expression to a default. The checks run in a
// fixed order and the first match wins: explained values, string list,
// literal, constant reference.
func (e *Extractor) toDefaultValue(property string, expr Expression) (DefaultValue, error) {
	if call, ok := expr.AsCall(); ok {
		switch call.Callee() {
		case explainedValuesFactory:
			return e.explainedValues(property, call)
		case listOfFactory, emptyListFactory:
			return e.stringList(call), nil
		}
	}
	if lit, ok := ParseLiteral(expr.Text()); ok {
		return lit, nil
	}
	if value, ok := e.constants[withoutQuotes(expr.Text())]; ok {
		return value, nil
	}
	return nil, e.fatal(property, "%s is neither a literal nor a known constant", expr.Text())
}

// constantValue resolves the initializer of a constant binding. It returns
// nil when the initializer is not a value a configuration default can use.
func (e *Extractor) constantValue(name string, init Expression) (DefaultValue, error) {
	if call, ok := init.AsCall(); ok {
		switch call.Callee() {
		case explainedValuesFactory:
			return e.explainedValues(name, call)
		case listOfFactory, emptyListFactory:
			return e.stringList(call), nil
		}
	}
	if lit, ok := ParseLiteral(init.Text()); ok {
		return lit, nil
	}
	return nil, nil
}

func (e *Extractor) explainedValues(property string, call Call) (DefaultValue, error) {
	args := call.Arguments()
	values := make(ExplainedValues, 0, len(args))
	for _, arg := range args {
		expr := arg.Value()
		if expr == nil {
			return nil, e.fatal(property, "invalid value argument in %s", explainedValuesFactory)
		}
		left, right, ok := expr.AsPair()
		if !ok || left == nil || right == nil {
			return nil, e.fatal(property, "invalid value argument '%s'", expr.Text())
		}
		values = append(values, ExplainedValue{
			Value:  withoutQuotes(left.Text()),
			Reason: withoutQuotes(right.Text()),
		})
	}
	return values, nil
}

func (e *Extractor) stringList(call Call) DefaultValue {
	args := call.Arguments()
	list := make(StringList, 0, len(args))
	for _, arg := range args {
		expr := arg.Value()
		if expr == nil {
			continue
		}
		text := expr.Text()
		if constant, ok := e.constants[text]; ok {
			list = append(list, constant.PlainString())
			continue
		}
		list = append(list, withoutQuotes(text))
	}
	return list
}
