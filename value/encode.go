package value

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalJSON renders a tree as compact JSON.
func MarshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalJSONIndent renders a tree as indented JSON.
func MarshalJSONIndent(v any, indent string) ([]byte, error) {
	return json.MarshalIndent(v, "", indent)
}

// MarshalYAML renders a tree as a YAML document.
func MarshalYAML(v any) ([]byte, error) {
	n, err := Node(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}

// Node converts a tree into a yaml.v3 node, keeping mapping order.
func Node(v any) (*yaml.Node, error) {
	switch KindOf(v) {
	case Sequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.([]any) {
			c, err := Node(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case Mapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		keys, vals, _ := Fields(v)
		for i, k := range keys {
			c, err := Node(vals[i])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, c)
		}
		return n, nil
	case Invalid:
		return nil, fmt.Errorf("value: cannot render %T", v)
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}
