package collection

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultValue is the default of a configuration option. It is one of
// Literal, StringList or ExplainedValues.
type DefaultValue interface {
	// PlainString renders the value without any quoting.
	PlainString() string
	isDefaultValue()
}

// Literal is a primitive default: bool, int64, float64 or string.
type Literal struct {
	Value any
}

// StringList is an ordered list of string defaults.
type StringList []string

// ExplainedValues is an ordered list of values, each with the reason it is part of the default.
type ExplainedValues []ExplainedValue

// ExplainedValue is a single value with its justification.
type ExplainedValue struct {
	Value  string `json:"value" yaml:"value"`
	Reason string `json:"reason" yaml:"reason"`
}

func (Literal) isDefaultValue()         {}
func (StringList) isDefaultValue()      {}
func (ExplainedValues) isDefaultValue() {}

// NewLiteral wraps a primitive, normalising Go integer and float kinds to int64 and float64.
func NewLiteral(v any) Literal {
	switch n := v.(type) {
	case int:
		return Literal{Value: int64(n)}
	case int32:
		return Literal{Value: int64(n)}
	case float32:
		return Literal{Value: float64(n)}
	}
	return Literal{Value: v}
}

func (l Literal) PlainString() string {
	switch v := l.Value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	}
	return ""
}

func (l StringList) PlainString() string {
	return strings.Join(l, ",")
}

func (e ExplainedValues) PlainString() string {
	return strings.Join(e.Values(), ",")
}

// Values returns only the value half of every pair.
func (e ExplainedValues) Values() []string {
	values := make([]string, 0, len(e))
	for _, ev := range e {
		values = append(values, ev.Value)
	}
	return values
}

func (l Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value)
}

func (l Literal) MarshalYAML() (any, error) {
	return l.Value, nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l StringList) MarshalYAML() (any, error) {
	if l == nil {
		return []string{}, nil
	}
	return []string(l), nil
}

func (e ExplainedValues) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]ExplainedValue(e))
}

func (e ExplainedValues) MarshalYAML() (any, error) {
	if e == nil {
		return []ExplainedValue{}, nil
	}
	return []ExplainedValue(e), nil
}

// ParseLiteral interprets source text as a Kotlin literal. It recognises
// booleans, integer and real numbers and quoted strings; anything else
// reports false.
func ParseLiteral(text string) (Literal, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Literal{}, false
	}

	if isQuoted(text) {
		return Literal{Value: withoutQuotes(text)}, true
	}

	switch text {
	case "true":
		return Literal{Value: true}, true
	case "false":
		return Literal{Value: false}, true
	}

	if !looksNumeric(text) {
		return Literal{}, false
	}
	if i, ok := parseInteger(text); ok {
		return Literal{Value: i}, true
	}
	if f, ok := parseReal(text); ok {
		return Literal{Value: f}, true
	}
	return Literal{}, false
}

func looksNumeric(text string) bool {
	s := strings.TrimPrefix(text, "-")
	if s == "" {
		return false
	}
	c := s[0]
	if c == '.' && len(s) > 1 {
		c = s[1]
	}
	if c < '0' || c > '9' {
		return false
	}
	// Kotlin has no octal literals.
	return !(c == '0' && len(s) > 1 && s[1] >= '0' && s[1] <= '9')
}

func parseInteger(text string) (int64, bool) {
	s := strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(s)
	isRadix := strings.HasPrefix(strings.TrimPrefix(lower, "-"), "0x") ||
		strings.HasPrefix(strings.TrimPrefix(lower, "-"), "0b")
	for _, suffix := range []string{"ul", "u", "l"} {
		if strings.HasSuffix(lower, suffix) {
			s = s[:len(s)-len(suffix)]
			break
		}
	}
	if !isRadix && strings.Contains(s, ".") {
		return 0, false
	}
	i, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseReal(text string) (float64, bool) {
	s := strings.ReplaceAll(text, "_", "")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "f"), "F")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

const (
	quote       = `"`
	tripleQuote = `"""`
)

func isQuoted(text string) bool {
	return len(text) >= 2 && strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote)
}

// withoutQuotes strips one pair of surrounding (single or triple) double quotes.
func withoutQuotes(text string) string {
	if len(text) >= 6 && strings.HasPrefix(text, tripleQuote) && strings.HasSuffix(text, tripleQuote) {
		return text[3 : len(text)-3]
	}
	return strings.TrimSuffix(strings.TrimPrefix(text, quote), quote)
}
