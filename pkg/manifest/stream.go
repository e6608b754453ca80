package manifest

import (
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/TomasBahnik/kube-helpers/pkg/document"
	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// loadDocs splits the stream into documents and converts each to a mapping
// node. Empty and non-mapping documents are dropped with a warning so one
// stray document does not fail a whole manifest.
func loadDocs(r io.Reader) ([]*document.Node, error) {
	dec := yaml.NewDecoder(r)
	var docs []*document.Node
	for i := 0; ; i++ {
		var y yaml.Node
		err := dec.Decode(&y)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeParse, err, "decoding document %d", i)
		}
		n, err := document.FromYAML(&y)
		if err != nil {
			slog.Warn("skipping document", "index", i, "error", err)
			continue
		}
		if n.Kind() != document.KindMap {
			slog.Warn("skipping non-mapping document", "index", i)
			continue
		}
		docs = append(docs, n)
	}
	return docs, nil
}

// unwrapLists replaces kubectl List payloads with their items.
func unwrapLists(docs []*document.Node) []*document.Node {
	var out []*document.Node
	for _, doc := range docs {
		if kindOf(doc) != "List" {
			out = append(out, doc)
			continue
		}
		items, ok := doc.Get("items")
		if !ok || items.Kind() != document.KindList {
			slog.Warn("List document without items")
			continue
		}
		for _, item := range items.Items() {
			if item.Kind() != document.KindMap {
				slog.Warn("skipping non-mapping List item")
				continue
			}
			out = append(out, item)
		}
	}
	return out
}

func filterKind(docs []*document.Node, kind string) []*document.Node {
	var out []*document.Node
	for _, doc := range docs {
		if kindOf(doc) == kind {
			out = append(out, doc)
		}
	}
	return out
}

// kindOf returns the document kind, empty when absent or non-scalar.
func kindOf(doc *document.Node) string {
	n, ok := doc.Get("kind")
	if !ok || n.Kind() != document.KindScalar {
		return ""
	}
	if s, ok := n.Value().(string); ok {
		return s
	}
	return ""
}
