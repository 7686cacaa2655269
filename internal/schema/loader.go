package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML schema document from path.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a schema document of the form
//
//	customers:
//	  columns:
//	    id: INTEGER PRIMARY KEY
//	  custom_constraints:
//	    created_at: BETWEEN 1 AND 10
//
// Mapping order is preserved, so tables and columns keep document order.
func Parse(r io.Reader) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySchema
		}
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, ErrEmptySchema
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: schema root must be a mapping of table names", root.Line)
	}

	s := &Schema{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		nameNode, body := root.Content[i], root.Content[i+1]
		table, err := parseTable(nameNode.Value, body)
		if err != nil {
			return nil, err
		}
		if err := s.AddTable(table); err != nil {
			return nil, fmt.Errorf("line %d: %w", nameNode.Line, err)
		}
	}
	return s, nil
}

func parseTable(name string, body *yaml.Node) (TableDef, error) {
	table := TableDef{Name: name}
	if body.Kind != yaml.MappingNode {
		return table, fmt.Errorf("line %d: table %s must be a mapping", body.Line, name)
	}

	for i := 0; i+1 < len(body.Content); i += 2 {
		key, value := body.Content[i], body.Content[i+1]
		switch key.Value {
		case "columns":
			pairs, err := stringPairs(value)
			if err != nil {
				return table, fmt.Errorf("table %s columns: %w", name, err)
			}
			for _, p := range pairs {
				table.Columns = append(table.Columns, ColumnDef{Name: p[0], Definition: p[1]})
			}
		case "custom_constraints":
			pairs, err := stringPairs(value)
			if err != nil {
				return table, fmt.Errorf("table %s custom_constraints: %w", name, err)
			}
			for _, p := range pairs {
				table.CustomConstraints = append(table.CustomConstraints, CustomConstraintDef{Column: p[0], Expression: p[1]})
			}
		default:
			return table, fmt.Errorf("line %d: table %s has unknown key %q", key.Line, name, key.Value)
		}
	}
	return table, nil
}

func stringPairs(n *yaml.Node) ([][2]string, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	pairs := make([][2]string, 0, len(n.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: value for %s must be a string", v.Line, k.Value)
		}
		if seen[k.Value] {
			return nil, fmt.Errorf("line %d: duplicate key %s", k.Line, k.Value)
		}
		seen[k.Value] = true
		pairs = append(pairs, [2]string{k.Value, v.Value})
	}
	return pairs, nil
}
