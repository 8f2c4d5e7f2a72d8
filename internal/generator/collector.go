package generator

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/confdoc/internal/collection"
	"github.com/mvp-joe/confdoc/internal/kotlin"
)

// CollectFile runs one extractor per class of a parsed file. Documentation
// errors become problems on the result; a fatal error aborts the file.
func CollectFile(file *kotlin.File, markers []string) (*FileResult, error) {
	result := &FileResult{
		Path:     file.Path,
		Rules:    []Rule{},
		Problems: []Problem{},
	}
	ruleSet := ruleSetOf(file)

	for _, class := range file.Classes {
		unit := UnitName(file.Path, class.Name)
		extractor := collection.New(unit, collection.WithMarkerAnnotations(markers...))

		for _, companion := range class.Companions {
			if err := extractor.RegisterConstantScope(companion); err != nil {
				return nil, err
			}
		}
		lines := make(map[string]int, len(class.Properties))
		for _, prop := range class.Properties {
			extractor.RegisterDeclaration(prop)
			lines[prop.Name()] = prop.Line()
		}

		options, err := extractor.Extract()
		if err != nil && collection.IsFatal(err) {
			return nil, err
		}
		for _, docErr := range collection.DocumentationErrors(err) {
			result.Problems = append(result.Problems, Problem{
				File:     file.Path,
				Unit:     docErr.Unit,
				Property: docErr.Property,
				Line:     lines[docErr.Property],
				Message:  docErr.Message,
			})
		}

		if len(options) == 0 {
			continue
		}
		result.Rules = append(result.Rules, Rule{
			RuleSet: ruleSet,
			Name:    class.Name,
			File:    file.Path,
			Line:    class.StartLine,
			Doc:     class.Doc,
			Options: options,
		})
	}

	return result, nil
}

// UnitName identifies a rule-definition unit in error messages.
func UnitName(filePath, className string) string {
	return fmt.Sprintf("%s:%s", filepath.Base(filePath), className)
}

// ruleSetOf derives the rule set from the last package segment, falling back
// to the parent directory name for files without a package header.
func ruleSetOf(file *kotlin.File) string {
	if file.Package != "" {
		segments := strings.Split(file.Package, ".")
		return segments[len(segments)-1]
	}
	return path.Base(filepath.ToSlash(filepath.Dir(file.Path)))
}
