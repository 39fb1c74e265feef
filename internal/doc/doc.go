// Package doc is a small tagged document tree used for every YAML document
// p4studio reads or writes: profiles, dependency lists and settings overlays.
//
// A Node is a mapping (insertion-ordered keys), a sequence, or a scalar
// (null, bool, int, float, string). Mappings keep key order so documents
// round-trip through YAML without reshuffling.
package doc

import (
	"fmt"
	"strconv"
)

// Kind tags the variant a Node holds.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	SeqKind
	MapKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "boolean"
	case IntKind:
		return "integer"
	case FloatKind:
		return "number"
	case StringKind:
		return "string"
	case SeqKind:
		return "array"
	case MapKind:
		return "object"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Node is one value of a document tree.
type Node struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	items []*Node

	keys   []string
	fields map[string]*Node
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

func Null() *Node { return &Node{kind: NullKind} }
func Bool(v bool) *Node { return &Node{kind: BoolKind, b: v} }
func Int(v int64) *Node { return &Node{kind: IntKind, i: v} }
func Float(v float64) *Node { return &Node{kind: FloatKind, f: v} }
func String(v string) *Node { return &Node{kind: StringKind, s: v} }
func Seq(items ...*Node) *Node { return &Node{kind: SeqKind, items: items} }
func NewMap() *Node { return &Node{kind: MapKind, fields: map[string]*Node{}} }

// Strings builds a sequence of string scalars.
func Strings(values ...string) *Node {
	n := Seq()
	for _, v := range values {
		n.items = append(n.items, String(v))
	}
	return n
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Kind reports the variant. A nil node is null.
func (n *Node) Kind() Kind {
	if n == nil {
		return NullKind
	}
	return n.kind
}

func (n *Node) IsMap() bool { return n.Kind() == MapKind }
func (n *Node) IsSeq() bool { return n.Kind() == SeqKind }
func (n *Node) IsNull() bool { return n.Kind() == NullKind }

// AsBool returns the boolean value and whether the node is a boolean.
func (n *Node) AsBool() (bool, bool) {
	if n.Kind() != BoolKind {
		return false, false
	}
	return n.b, true
}

// AsString returns the string value and whether the node is a string.
func (n *Node) AsString() (string, bool) {
	if n.Kind() != StringKind {
		return "", false
	}
	return n.s, true
}

// Truthy maps a node to a boolean the way a loosely typed document would:
// false, null, zero and empty values are false.
func (n *Node) Truthy() bool {
	switch n.Kind() {
	case BoolKind:
		return n.b
	case IntKind:
		return n.i != 0
	case FloatKind:
		return n.f != 0
	case StringKind:
		return n.s != ""
	case SeqKind:
		return len(n.items) > 0
	case MapKind:
		return true
	}
	return false
}

// Text renders a scalar as text. Containers render as their kind name.
func (n *Node) Text() string {
	switch n.Kind() {
	case NullKind:
		return "null"
	case BoolKind:
		return strconv.FormatBool(n.b)
	case IntKind:
		return strconv.FormatInt(n.i, 10)
	case FloatKind:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	case StringKind:
		return n.s
	}
	return n.Kind().String()
}

// Items returns the elements of a sequence. The slice is shared.
func (n *Node) Items() []*Node {
	if n.Kind() != SeqKind {
		return nil
	}
	return n.items
}

// StringItems returns the textual form of every sequence element.
func (n *Node) StringItems() []string {
	items := n.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text())
	}
	return out
}

// Append adds items to a sequence.
func (n *Node) Append(items ...*Node) {
	if n.Kind() != SeqKind {
		panic("doc: Append on " + n.Kind().String())
	}
	n.items = append(n.items, items...)
}

// Remove deletes every sequence element whose text equals value.
func (n *Node) Remove(value string) {
	if n.Kind() != SeqKind {
		return
	}
	kept := n.items[:0]
	for _, it := range n.items {
		if it.Text() != value {
			kept = append(kept, it)
		}
	}
	n.items = kept
}

// Contains reports whether a sequence holds an element with the given text.
func (n *Node) Contains(value string) bool {
	for _, it := range n.Items() {
		if it.Text() == value {
			return true
		}
	}
	return false
}

// Keys returns mapping keys in insertion order.
func (n *Node) Keys() []string {
	if n.Kind() != MapKind {
		return nil
	}
	return append([]string(nil), n.keys...)
}

// Len is the number of keys or items.
func (n *Node) Len() int {
	switch n.Kind() {
	case MapKind:
		return len(n.keys)
	case SeqKind:
		return len(n.items)
	}
	return 0
}

// Get looks up a mapping key.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind() != MapKind {
		return nil, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Set stores a mapping key. Existing keys keep their position.
func (n *Node) Set(key string, v *Node) {
	if n.Kind() != MapKind {
		panic("doc: Set on " + n.Kind().String())
	}
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
}

// Delete removes a mapping key if present.
func (n *Node) Delete(key string) {
	if n.Kind() != MapKind {
		return
	}
	if _, ok := n.fields[key]; !ok {
		return
	}
	delete(n.fields, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i:i], n.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	switch n.kind {
	case SeqKind:
		c.items = make([]*Node, len(n.items))
		for i, it := range n.items {
			c.items[i] = it.Clone()
		}
	case MapKind:
		c.keys = append([]string(nil), n.keys...)
		c.fields = make(map[string]*Node, len(n.fields))
		for k, v := range n.fields {
			c.fields[k] = v.Clone()
		}
	}
	return &c
}

// Equal compares two trees structurally. Mapping key order is ignored.
func Equal(a, b *Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case NullKind:
		return true
	case BoolKind:
		return a.b == b.b
	case IntKind:
		return a.i == b.i
	case FloatKind:
		return a.f == b.f
	case StringKind:
		return a.s == b.s
	case SeqKind:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case MapKind:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for _, k := range a.keys {
			bv, ok := b.fields[k]
			if !ok || !Equal(a.fields[k], bv) {
				return false
			}
		}
		return true
	}
	return false
}
