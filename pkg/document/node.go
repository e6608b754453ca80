// Package document implements the ordered configuration tree that values
// documents are built from. Nodes are a tagged variant over scalar, list and
// map; map nodes preserve key insertion order so repeated builds serialize
// byte-identically.
package document

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the three node shapes.
type Kind uint8

const (
	// KindScalar is a leaf holding a string, int64, float64, bool or nil.
	KindScalar Kind = iota

	// KindList is an ordered sequence of nodes.
	KindList

	// KindMap is an ordered mapping from segment name to child node.
	KindMap
)

// String returns the kind name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is one node of a configuration tree.
type Node struct {
	kind     Kind
	scalar   any
	items    []*Node
	keys     []string
	children map[string]*Node
}

// String creates a string scalar node.
func String(s string) *Node {
	return &Node{kind: KindScalar, scalar: s}
}

// Int creates an integer scalar node.
func Int(i int64) *Node {
	return &Node{kind: KindScalar, scalar: i}
}

// Float creates a float scalar node.
func Float(f float64) *Node {
	return &Node{kind: KindScalar, scalar: f}
}

// Bool creates a boolean scalar node.
func Bool(b bool) *Node {
	return &Node{kind: KindScalar, scalar: b}
}

// Null creates an explicit null scalar node. Distinct from a nil *Node,
// which merge treats as "not configured".
func Null() *Node {
	return &Node{kind: KindScalar, scalar: nil}
}

// Scalar creates a scalar node from a Go value. Unsupported types are
// stored through their fmt.Sprint form.
func Scalar(v any) *Node {
	switch t := v.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	default:
		return String(fmt.Sprint(t))
	}
}

// List creates a list node with the given items.
func List(items ...*Node) *Node {
	return &Node{kind: KindList, items: items}
}

// Map creates an empty map node.
func Map() *Node {
	return &Node{kind: KindMap, children: make(map[string]*Node)}
}

// MapOf creates a map node from alternating key, node pairs, preserving the
// given order.
func MapOf(pairs ...any) *Node {
	m := Map()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(*Node))
	}
	return m
}

// Kind returns the node shape.
func (n *Node) Kind() Kind {
	return n.kind
}

// Value returns the scalar value. Nil for non-scalar nodes.
func (n *Node) Value() any {
	if n.kind != KindScalar {
		return nil
	}
	return n.scalar
}

// Items returns the list items. Nil for non-list nodes.
func (n *Node) Items() []*Node {
	if n.kind != KindList {
		return nil
	}
	return n.items
}

// Append adds items to a list node.
func (n *Node) Append(items ...*Node) {
	n.items = append(n.items, items...)
}

// Keys returns map keys in insertion order. Nil for non-map nodes.
func (n *Node) Keys() []string {
	if n.kind != KindMap {
		return nil
	}
	return n.keys
}

// Get returns the child node for key.
func (n *Node) Get(key string) (*Node, bool) {
	if n.kind != KindMap {
		return nil, false
	}
	c, ok := n.children[key]
	return c, ok
}

// Set inserts or replaces the child for key. New keys append to the key
// order, existing keys keep their position.
func (n *Node) Set(key string, child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	if _, exists := n.children[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

// Len returns the child count for maps and lists, 0 for scalars.
func (n *Node) Len() int {
	switch n.kind {
	case KindList:
		return len(n.items)
	case KindMap:
		return len(n.keys)
	default:
		return 0
	}
}

// ScalarString renders a scalar value the way it appears in flattened
// key=value output.
func (n *Node) ScalarString() string {
	switch v := n.scalar.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	default:
		return fmt.Sprint(v)
	}
}

// Unwrap converts the node into plain Go values: map[string]any for maps,
// []any for lists, the scalar value otherwise. Key order is lost, callers
// that care about order keep working with nodes.
func (n *Node) Unwrap() any {
	switch n.kind {
	case KindMap:
		m := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			m[k] = n.children[k].Unwrap()
		}
		return m
	case KindList:
		l := make([]any, len(n.items))
		for i, item := range n.items {
			l[i] = item.Unwrap()
		}
		return l
	default:
		return n.scalar
	}
}

// formatFloat keeps a trailing ".0" on whole floats so the value stays
// recognizably a float after a round trip. The fixed-point form avoids
// exponent notation on byte-sized memory values.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'i' || c == 'n' {
			return s
		}
	}
	return s + ".0"
}

// FromYAML converts a decoded yaml.v3 node into a document node. Duplicate
// mapping keys keep the first occurrence. Alias nodes follow their anchor.
func FromYAML(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return Null(), nil
		}
		return FromYAML(y.Content[0])
	case yaml.AliasNode:
		return FromYAML(y.Alias)
	case yaml.ScalarNode:
		return scalarFromYAML(y), nil
	case yaml.SequenceNode:
		l := List()
		for _, item := range y.Content {
			c, err := FromYAML(item)
			if err != nil {
				return nil, err
			}
			l.Append(c)
		}
		return l, nil
	case yaml.MappingNode:
		m := Map()
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i].Value
			if _, exists := m.Get(key); exists {
				continue
			}
			c, err := FromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key, c)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d", y.Kind)
	}
}

func scalarFromYAML(y *yaml.Node) *Node {
	switch y.Tag {
	case "!!null":
		return Null()
	case "!!bool":
		if b, err := strconv.ParseBool(y.Value); err == nil {
			return Bool(b)
		}
	case "!!int":
		if i, err := strconv.ParseInt(y.Value, 10, 64); err == nil {
			return Int(i)
		}
	case "!!float":
		if f, err := strconv.ParseFloat(y.Value, 64); err == nil {
			return Float(f)
		}
	}
	return String(y.Value)
}
