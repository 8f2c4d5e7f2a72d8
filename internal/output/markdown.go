package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/mvp-joe/confdoc/internal/collection"
	"github.com/mvp-joe/confdoc/internal/generator"
)

const markdownTemplate = `# Rule options
{{ range $set := .RuleSets }}
## {{ $set.Name | title }}
{{ range $rule := $set.Rules }}
### {{ $rule.Name }}
{{ with $rule.Doc }}
{{ . }}
{{ end }}
| Option | Description | Default |
|---|---|---|
{{- range $opt := $rule.Options }}
| ` + "`{{ $opt.Name }}`" + ` | {{ $opt.Description | cell }}{{ if $opt.Deprecated }} **Deprecated:** {{ $opt.Deprecated | deref | cell }}{{ end }} | {{ defaultCell $opt }} |
{{- end }}
{{ end }}
{{- end }}`

type markdownRuleSet struct {
	Name  string
	Rules []generator.Rule
}

var markdownFuncs = template.FuncMap{
	"cell": func(s string) string {
		s = strings.ReplaceAll(s, "|", `\|`)
		return strings.Join(strings.Fields(s), " ")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"defaultCell": defaultCell,
}

// WriteMarkdown renders one section per rule set and one option table per rule.
func WriteMarkdown(w io.Writer, rules []generator.Rule) error {
	tmpl, err := template.New("options").
		Funcs(sprig.TxtFuncMap()).
		Funcs(markdownFuncs).
		Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse markdown template: %w", err)
	}

	data := struct{ RuleSets []markdownRuleSet }{RuleSets: groupByRuleSet(rules)}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	return nil
}

func groupByRuleSet(rules []generator.Rule) []markdownRuleSet {
	var sets []markdownRuleSet
	index := map[string]int{}
	for _, rule := range rules {
		i, ok := index[rule.RuleSet]
		if !ok {
			i = len(sets)
			index[rule.RuleSet] = i
			sets = append(sets, markdownRuleSet{Name: rule.RuleSet})
		}
		sets[i].Rules = append(sets[i].Rules, rule)
	}
	return sets
}

func defaultCell(opt collection.Option) string {
	cell := formatDefault(opt.DefaultValue)
	if opt.DefaultPlatformValue != nil {
		cell += fmt.Sprintf(" (Android: %s)", formatDefault(opt.DefaultPlatformValue))
	}
	return cell
}

func formatDefault(value collection.DefaultValue) string {
	switch v := value.(type) {
	case collection.Literal:
		if s, ok := v.Value.(string); ok {
			return fmt.Sprintf("`'%s'`", s)
		}
		return fmt.Sprintf("`%s`", v.PlainString())
	case collection.StringList:
		quoted := make([]string, 0, len(v))
		for _, s := range v {
			quoted = append(quoted, fmt.Sprintf("'%s'", s))
		}
		return fmt.Sprintf("`[%s]`", strings.Join(quoted, ", "))
	case collection.ExplainedValues:
		items := make([]string, 0, len(v))
		for _, ev := range v {
			items = append(items, fmt.Sprintf("`'%s'` (%s)", ev.Value, ev.Reason))
		}
		if len(items) == 0 {
			return "`[]`"
		}
		return strings.Join(items, "<br>")
	}
	return ""
}
