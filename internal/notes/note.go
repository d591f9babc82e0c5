// Package notes renders stored books as markdown documents with YAML
// frontmatter, one file per book.
package notes

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Note represents a markdown document with YAML frontmatter and body content.
type Note struct {
	Frontmatter *Frontmatter
	Body        string
}

// Frontmatter provides typed access to YAML frontmatter with sorted keys for
// deterministic output.
type Frontmatter struct {
	fields map[string]any
	keys   []string
}

// NewFrontmatter creates a new empty Frontmatter.
func NewFrontmatter() *Frontmatter {
	return &Frontmatter{
		fields: make(map[string]any),
		keys:   []string{},
	}
}

// Set sets a value in frontmatter, maintaining sorted key order.
func (f *Frontmatter) Set(key string, value any) {
	_, exists := f.fields[key]
	f.fields[key] = value

	if !exists {
		f.keys = append(f.keys, key)
		sort.Strings(f.keys)
	}
}

// Get retrieves a value from frontmatter.
func (f *Frontmatter) Get(key string) (any, bool) {
	val, ok := f.fields[key]
	return val, ok
}

// Keys returns a copy of the sorted frontmatter keys.
func (f *Frontmatter) Keys() []string {
	result := make([]string, len(f.keys))
	copy(result, f.keys)
	return result
}

// MarshalYAML implements custom YAML marshaling with sorted keys.
func (f *Frontmatter) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: make([]*yaml.Node, 0, len(f.keys)*2),
	}

	for _, key := range f.keys {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: key,
		}

		valueNode := &yaml.Node{}
		if err := valueNode.Encode(f.fields[key]); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node, nil
}

// Build serializes the Note to markdown with YAML frontmatter.
// Frontmatter keys are sorted alphabetically for deterministic output.
func (n *Note) Build() ([]byte, error) {
	var buf bytes.Buffer

	if len(n.Frontmatter.keys) > 0 {
		buf.WriteString("---\n")

		frontmatterBytes, err := yaml.Marshal(n.Frontmatter)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
		}

		buf.Write(frontmatterBytes)
		buf.WriteString("---\n")
	}

	buf.WriteString(n.Body)

	return buf.Bytes(), nil
}
