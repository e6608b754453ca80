package document

import (
	"log/slog"
	"strings"
)

// PathSeparator delimits segments in external path form.
const PathSeparator = "/"

// SplitPath splits a slash-delimited path into segments, dropping empty
// segments from leading, trailing or doubled separators.
func SplitPath(path string) []string {
	parts := strings.Split(path, PathSeparator)
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// DottedToPath translates a flat dotted property key into path form
// ("storage.tmp.sizeLimit" -> "storage/tmp/sizeLimit").
func DottedToPath(key string) string {
	return strings.ReplaceAll(key, ".", PathSeparator)
}

// Document is one configuration tree under construction. It is created
// empty per build, mutated through Merge calls only, then serialized.
// A Document must not be shared across concurrent builds.
type Document struct {
	root *Node
}

// New creates an empty document.
func New() *Document {
	return &Document{root: Map()}
}

// Wrap returns a document over an existing root node, so decoded trees
// can use the document operations without a copy.
func Wrap(root *Node) *Document {
	return &Document{root: root}
}

// Root returns the root map node.
func (d *Document) Root() *Node {
	return d.root
}

// Get resolves a slash-delimited path, returning false when any segment is
// missing or a non-map node is traversed.
func (d *Document) Get(path string) (*Node, bool) {
	node := d.root
	for _, seg := range SplitPath(path) {
		child, ok := node.Get(seg)
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// Merge merges value into the tree at the slash-delimited path. A nil value
// is a no-op, keeping "not configured" distinct from "explicitly empty".
// Missing intermediate segments are created as empty maps; an intermediate
// that is not a map is replaced by one. At the terminal segment maps merge
// key-wise into existing maps and everything else replaces the previous
// value. Calls with prefix-sharing paths converge, and sibling key order
// follows first insertion.
func (d *Document) Merge(path string, value *Node) {
	if value == nil {
		slog.Debug("skipping absent value", "path", path)
		return
	}
	segs := SplitPath(path)
	if len(segs) == 0 {
		if value.Kind() == KindMap {
			mergeNodes(d.root, value)
		}
		return
	}

	node := d.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node.Get(seg)
		if !ok || child == nil || child.Kind() != KindMap {
			child = Map()
			node.Set(seg, child)
		}
		node = child
	}

	last := segs[len(segs)-1]
	existing, ok := node.Get(last)
	if ok && existing != nil && existing.Kind() == KindMap && value.Kind() == KindMap {
		mergeNodes(existing, value)
		return
	}
	node.Set(last, value)
}

// mergeNodes merges src into dst key-wise. Shared map keys descend
// recursively, new keys append in src order, lists and scalars replace.
func mergeNodes(dst, src *Node) {
	for _, key := range src.Keys() {
		sv, _ := src.Get(key)
		dv, ok := dst.Get(key)
		if ok && dv != nil && sv != nil && dv.Kind() == KindMap && sv.Kind() == KindMap {
			mergeNodes(dv, sv)
			continue
		}
		dst.Set(key, sv)
	}
}
