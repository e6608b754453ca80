package document

import "strings"

// Property is one flattened key=value row of a document.
type Property struct {
	// Key is the dotted path of the leaf ("mmmBe.resources.limits.cpu").
	Key string

	// Value is the leaf rendered as text. Lists render as their compact
	// JSON form.
	Value string
}

// String returns the properties-file form of the row.
func (p Property) String() string {
	return p.Key + "=" + p.Value
}

// Flatten walks the document and returns one row per leaf, in tree order.
// Maps descend into dotted keys; lists and scalars terminate a row.
func (d *Document) Flatten() []Property {
	var rows []Property
	flattenNode(d.root, nil, &rows)
	return rows
}

func flattenNode(n *Node, path []string, rows *[]Property) {
	if n == nil {
		return
	}
	if n.Kind() == KindMap {
		for _, key := range n.Keys() {
			child, _ := n.Get(key)
			flattenNode(child, append(path, key), rows)
		}
		return
	}

	value := n.ScalarString()
	if n.Kind() == KindList {
		if b, err := n.MarshalJSON(); err == nil {
			value = string(b)
		}
	}
	*rows = append(*rows, Property{Key: strings.Join(path, "."), Value: value})
}
