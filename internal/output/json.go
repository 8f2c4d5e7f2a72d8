package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mvp-joe/confdoc/internal/generator"
)

// WriteJSON writes every rule with its option records as indented JSON.
func WriteJSON(w io.Writer, rules []generator.Rule) error {
	if rules == nil {
		rules = []generator.Rule{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rules); err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}
	return nil
}
