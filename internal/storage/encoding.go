package storage

import (
	"encoding/json"
	"fmt"

	"github.com/mvp-joe/confdoc/internal/collection"
)

// Value kinds stored next to each encoded default.
const (
	kindBool      = "bool"
	kindInt       = "int"
	kindFloat     = "float"
	kindString    = "string"
	kindList      = "list"
	kindExplained = "explained"
)

// EncodeDefault serializes a default value to a kind tag and a JSON payload.
func EncodeDefault(v collection.DefaultValue) (string, string, error) {
	var kind string
	switch val := v.(type) {
	case collection.Literal:
		switch val.Value.(type) {
		case bool:
			kind = kindBool
		case int64:
			kind = kindInt
		case float64:
			kind = kindFloat
		case string:
			kind = kindString
		default:
			return "", "", fmt.Errorf("unsupported literal %T", val.Value)
		}
	case collection.StringList:
		kind = kindList
	case collection.ExplainedValues:
		kind = kindExplained
	default:
		return "", "", fmt.Errorf("unsupported default value %T", v)
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode default value: %w", err)
	}
	return kind, string(payload), nil
}

// DecodeDefault reverses EncodeDefault.
func DecodeDefault(kind, payload string) (collection.DefaultValue, error) {
	var err error
	switch kind {
	case kindBool:
		var b bool
		err = json.Unmarshal([]byte(payload), &b)
		return collection.NewLiteral(b), err
	case kindInt:
		var n int64
		err = json.Unmarshal([]byte(payload), &n)
		return collection.NewLiteral(n), err
	case kindFloat:
		var f float64
		err = json.Unmarshal([]byte(payload), &f)
		return collection.NewLiteral(f), err
	case kindString:
		var s string
		err = json.Unmarshal([]byte(payload), &s)
		return collection.NewLiteral(s), err
	case kindList:
		list := collection.StringList{}
		err = json.Unmarshal([]byte(payload), &list)
		return list, err
	case kindExplained:
		var values []collection.ExplainedValue
		err = json.Unmarshal([]byte(payload), &values)
		return collection.ExplainedValues(values), err
	}
	return nil, fmt.Errorf("unknown value kind %q", kind)
}
