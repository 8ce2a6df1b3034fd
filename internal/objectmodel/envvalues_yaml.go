package objectmodel

import "gopkg.in/yaml.v3"

// MarshalYAML encodes the map as a YAML mapping node with keys in insertion
// order, mirroring MarshalJSON's ordering guarantee for the YAML collection
// format (spec.md §6.2).
func (e *EnvValues) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range e.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.values[k]}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping node, recording key order as it
// appears in the document.
func (e *EnvValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{"objectmodel: EnvValues: expected a YAML mapping"}}
	}
	e.keys = nil
	e.values = make(map[string]string)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var value string
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		if _, exists := e.values[key]; !exists {
			e.keys = append(e.keys, key)
		}
		e.values[key] = value
	}
	return nil
}
