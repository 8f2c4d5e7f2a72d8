package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/confdoc/internal/collection"
	"github.com/mvp-joe/confdoc/internal/generator"
)

// YAMLOptions controls the default-configuration rendering.
type YAMLOptions struct {
	// Platform selects the platform-variant default where a rule declares one.
	Platform bool
}

// WriteYAML renders the default configuration as ruleSet -> rule -> option.
// Descriptions become head comments and deprecated options are left out.
func WriteYAML(w io.Writer, rules []generator.Rule, opts YAMLOptions) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	ruleSets := map[string]*yaml.Node{}

	for _, rule := range rules {
		ruleNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, opt := range rule.Options {
			if opt.IsDeprecated() {
				continue
			}
			value, err := valueNode(opt.DefaultFor(opts.Platform))
			if err != nil {
				return fmt.Errorf("failed to render %s.%s: %w", rule.Name, opt.Name, err)
			}
			key := scalar(opt.Name)
			key.HeadComment = opt.Description
			ruleNode.Content = append(ruleNode.Content, key, value)
		}
		if len(ruleNode.Content) == 0 {
			continue
		}

		setNode, ok := ruleSets[rule.RuleSet]
		if !ok {
			setNode = &yaml.Node{Kind: yaml.MappingNode}
			ruleSets[rule.RuleSet] = setNode
			root.Content = append(root.Content, scalar(rule.RuleSet), setNode)
		}
		setNode.Content = append(setNode.Content, scalar(rule.Name), ruleNode)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return fmt.Errorf("failed to encode default configuration: %w", err)
	}
	return enc.Close()
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func valueNode(value collection.DefaultValue) (*yaml.Node, error) {
	switch v := value.(type) {
	case collection.ExplainedValues:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, ev := range v {
			item := scalar(ev.Value)
			item.LineComment = ev.Reason
			seq.Content = append(seq.Content, item)
		}
		if len(seq.Content) == 0 {
			seq.Style = yaml.FlowStyle
		}
		return seq, nil
	case collection.StringList:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, s := range v {
			seq.Content = append(seq.Content, scalar(s))
		}
		if len(seq.Content) == 0 {
			seq.Style = yaml.FlowStyle
		}
		return seq, nil
	case collection.Literal:
		node := &yaml.Node{}
		if err := node.Encode(v.Value); err != nil {
			return nil, err
		}
		return node, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return nil, fmt.Errorf("unsupported default value %T", value)
}
