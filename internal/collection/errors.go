package collection

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDocumentation marks declarations that break the authoring
	// contract for configuration options. These are user-actionable.
	ErrInvalidDocumentation = errors.New("invalid documentation")

	// ErrMalformedInput marks expressions the extractor cannot classify.
	// They abort extraction of the current unit.
	ErrMalformedInput = errors.New("malformed input")
)

// DocumentationError is reported for one declaration of a unit.
type DocumentationError struct {
	Unit     string
	Property string
	Message  string
}

func (e *DocumentationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Unit, e.Message)
}

func (e *DocumentationError) Unwrap() error {
	return ErrInvalidDocumentation
}

// FatalError is reported when an expression inside an otherwise valid
// declaration falls outside the recognised value grammar.
type FatalError struct {
	Unit     string
	Property string
	Message  string
}

func (e *FatalError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("[%s] %s", e.Unit, e.Message)
	}
	return fmt.Sprintf("[%s] property '%s': %s", e.Unit, e.Property, e.Message)
}

func (e *FatalError) Unwrap() error {
	return ErrMalformedInput
}

// IsDocumentationError reports whether err contains a documentation error.
func IsDocumentationError(err error) bool {
	return errors.Is(err, ErrInvalidDocumentation)
}

// IsFatal reports whether err contains a fatal extraction error.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// DocumentationErrors flattens err into the documentation errors it carries.
func DocumentationErrors(err error) []*DocumentationError {
	if err == nil {
		return nil
	}
	var out []*DocumentationError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, DocumentationErrors(e)...)
		}
		return out
	}
	var docErr *DocumentationError
	if errors.As(err, &docErr) {
		out = append(out, docErr)
	}
	return out
}
