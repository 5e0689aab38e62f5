package schemafile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DimsValue accepts a single dimension token or a sequence of tokens.
// Nested sequences flatten into one ordered list, so tuple-style
// declarations like [[x, y], z] normalize to [x, y, z].
type DimsValue []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *DimsValue) UnmarshalYAML(node *yaml.Node) error {
	tokens, err := flattenTokens(node)
	if err != nil {
		return err
	}

	*d = tokens

	return nil
}

func flattenTokens(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	default:
		return nil, fmt.Errorf("dims must be a token or a sequence of tokens, got %v", node.Kind)

	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, err
		}

		if s == "" {
			return nil, nil
		}

		return []string{s}, nil

	case yaml.SequenceNode:
		var out []string
		for _, child := range node.Content {
			tokens, err := flattenTokens(child)
			if err != nil {
				return nil, err
			}

			out = append(out, tokens...)
		}

		return out, nil
	}
}
