package modelio

import (
	"errors"
	"io"

	"fortio.org/safecast"
	"gopkg.in/yaml.v3"

	"shapediff/internal/shape"
)

// decodeYAML decodes doc and records where each shape and member was declared.
func decodeYAML(r io.Reader, doc *Document) (locations, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if err := root.Decode(doc); err != nil {
		return nil, err
	}
	return yamlLocations(&root), nil
}

func yamlLocations(root *yaml.Node) locations {
	locs := make(locations)
	body := root
	if body.Kind == yaml.DocumentNode && len(body.Content) > 0 {
		body = body.Content[0]
	}
	shapes := mappingValue(body, "shapes")
	forEachPair(shapes, func(key, value *yaml.Node) {
		locs[key.Value] = nodeLocation(key)
		forEachPair(mappingValue(value, "members"), func(mk, _ *yaml.Node) {
			locs[key.Value+"$"+mk.Value] = nodeLocation(mk)
		})
		for _, fixed := range []string{"member", "key", "value"} {
			if n := mappingKey(value, fixed); n != nil {
				locs[key.Value+"$"+fixed] = nodeLocation(n)
			}
		}
	})
	return locs
}

func nodeLocation(n *yaml.Node) shape.SourceLocation {
	var loc shape.SourceLocation
	// Out-of-range positions are left at zero.
	if line, err := safecast.Conv[uint32](n.Line); err == nil {
		loc.Line = line
	}
	if col, err := safecast.Conv[uint32](n.Column); err == nil {
		loc.Column = col
	}
	return loc
}

func forEachPair(m *yaml.Node, fn func(key, value *yaml.Node)) {
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		fn(m.Content[i], m.Content[i+1])
	}
}

func mappingKey(m *yaml.Node, name string) *yaml.Node {
	var found *yaml.Node
	forEachPair(m, func(k, _ *yaml.Node) {
		if found == nil && k.Value == name {
			found = k
		}
	})
	return found
}

func mappingValue(m *yaml.Node, name string) *yaml.Node {
	var found *yaml.Node
	forEachPair(m, func(k, v *yaml.Node) {
		if found == nil && k.Value == name {
			found = v
		}
	})
	return found
}
