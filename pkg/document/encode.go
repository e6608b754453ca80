package document

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// YAML serializes the document with 2-space indentation. Map keys keep
// insertion order.
func (d *Document) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(d.root.toYAML()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON serializes the document with the given indent width. Object keys keep
// insertion order, unlike encoding/json maps.
func (d *Document) JSON(indent int) ([]byte, error) {
	compact, err := d.root.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", strings.Repeat(" ", indent)); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// toYAML converts the node into a yaml.v3 node tree with explicit tags, so
// string scalars like "true" or "42" stay strings after a round trip.
func (n *Node) toYAML() *yaml.Node {
	switch n.kind {
	case KindList:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.items {
			y.Content = append(y.Content, item.toYAML())
		}
		return y
	case KindMap:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range n.keys {
			child := n.children[key]
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				child.toYAML(),
			)
		}
		return y
	default:
		return n.scalarToYAML()
	}
}

func (n *Node) scalarToYAML() *yaml.Node {
	y := &yaml.Node{Kind: yaml.ScalarNode}
	switch v := n.scalar.(type) {
	case nil:
		y.Tag = "!!null"
		y.Value = "null"
	case bool:
		y.Tag = "!!bool"
		y.Value = strconv.FormatBool(v)
	case int64:
		y.Tag = "!!int"
		y.Value = strconv.FormatInt(v, 10)
	case float64:
		y.Tag = "!!float"
		y.Value = formatFloat(v)
	case string:
		y.Tag = "!!str"
		y.Value = v
		if strings.Contains(v, "\n") {
			y.Style = yaml.LiteralStyle
		}
	}
	return y
}

// MarshalJSON implements json.Marshaler preserving map key order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	switch n.kind {
	case KindList:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, key := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := n.children[key].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		v, err := json.Marshal(n.scalar)
		if err != nil {
			return err
		}
		buf.Write(v)
	}
	return nil
}
