package keymap

import (
	"fmt"

	"gopkg.in/yaml.v3"

	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
)

// RawLayer is one layer as declared in a layout file: its name and the
// undecoded key grid, row by row.
type RawLayer struct {
	Name string
	Rows [][]any
}

// Layout is the decoded content of a layout file. Layers keep the order in
// which the file declares them.
type Layout struct {
	Layers []RawLayer
}

// Names returns the declared layer names in order.
func (l *Layout) Names() []string {
	names := make([]string, len(l.Layers))
	for i, layer := range l.Layers {
		names[i] = layer.Name
	}
	return names
}

// ParseLayout decodes a layout file. Decoding goes through yaml.Node so the
// "layers" mapping keeps its declaration order; individual keys are decoded
// into plain Go values for keydef.Parse.
//
// A document without a non-empty "layers" mapping is an error, as is a layer
// that is not a list of rows.
func ParseLayout(data []byte) (*Layout, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, kerrors.NewLayoutError(kerrors.ErrCodeMalformedLayout, "invalid YAML", err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, kerrors.NewLayoutError(kerrors.ErrCodeNoLayers, "layout file is empty", nil)
	}

	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, kerrors.NewLayoutError(kerrors.ErrCodeMalformedLayout,
			"top level of layout file is not a mapping", nil)
	}

	layersNode := mappingValue(root, "layers")
	if layersNode == nil || layersNode.Tag == "!!null" {
		return nil, kerrors.NewLayoutError(kerrors.ErrCodeNoLayers, "no layers found", nil)
	}
	if layersNode.Kind != yaml.MappingNode {
		return nil, kerrors.NewLayoutError(kerrors.ErrCodeMalformedLayout,
			fmt.Sprintf("layers must be a mapping (line %d)", layersNode.Line), nil)
	}

	layout := &Layout{Layers: make([]RawLayer, 0, len(layersNode.Content)/2)}
	for i := 0; i+1 < len(layersNode.Content); i += 2 {
		name := layersNode.Content[i].Value
		rows, err := decodeGrid(resolve(layersNode.Content[i+1]))
		if err != nil {
			return nil, kerrors.NewLayoutError(kerrors.ErrCodeMalformedLayout,
				"layer is not a grid", err).WithLayer(name)
		}
		layout.Layers = append(layout.Layers, RawLayer{Name: name, Rows: rows})
	}

	if len(layout.Layers) == 0 {
		return nil, kerrors.NewLayoutError(kerrors.ErrCodeNoLayers, "no layers found", nil)
	}

	return layout, nil
}

// LayerNames returns the layer names declared by a layout file, in order.
func LayerNames(data []byte) ([]string, error) {
	layout, err := ParseLayout(data)
	if err != nil {
		return nil, err
	}
	return layout.Names(), nil
}

func decodeGrid(node *yaml.Node) ([][]any, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a list of rows at line %d", node.Line)
	}

	rows := make([][]any, 0, len(node.Content))
	for _, rowNode := range node.Content {
		rowNode = resolve(rowNode)
		if rowNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("row at line %d is not a list", rowNode.Line)
		}

		row := make([]any, 0, len(rowNode.Content))
		for _, cell := range rowNode.Content {
			var v any
			if err := cell.Decode(&v); err != nil {
				return nil, fmt.Errorf("key at line %d: %w", cell.Line, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolve(m.Content[i+1])
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
