package doc

// yaml.go: conversion between yaml.v3 nodes and document trees.

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Decode parses a single YAML document. Scalars are resolved to their YAML
// types (bool, int, float, null, string). An empty document decodes to null.
func Decode(r io.Reader) (*Node, error) {
	return decode(r, false)
}

// DecodeRaw parses a single YAML document keeping every scalar as a string,
// so version-like values such as 20.04 or 1.10 are never reinterpreted.
func DecodeRaw(r io.Reader) (*Node, error) {
	return decode(r, true)
}

func decode(r io.Reader, raw bool) (*Node, error) {
	var yn yaml.Node
	if err := yaml.NewDecoder(r).Decode(&yn); err != nil {
		if err == io.EOF {
			return Null(), nil
		}
		return nil, err
	}
	return FromYAML(&yn, raw)
}

// FromYAML converts a yaml.v3 node. When raw is set every scalar becomes a string.
func FromYAML(yn *yaml.Node, raw bool) (*Node, error) {
	switch yn.Kind {
	case yaml.DocumentNode:
		if len(yn.Content) == 0 {
			return Null(), nil
		}
		return FromYAML(yn.Content[0], raw)
	case yaml.AliasNode:
		return FromYAML(yn.Alias, raw)
	case yaml.SequenceNode:
		out := Seq()
		for _, c := range yn.Content {
			item, err := FromYAML(c, raw)
			if err != nil {
				return nil, err
			}
			out.items = append(out.items, item)
		}
		return out, nil
	case yaml.MappingNode:
		out := NewMap()
		for i := 0; i+1 < len(yn.Content); i += 2 {
			k, v := yn.Content[i], yn.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Tag == "!!merge" {
				base, err := FromYAML(v, raw)
				if err != nil {
					return nil, err
				}
				for _, key := range base.Keys() {
					if _, ok := out.Get(key); !ok {
						bv, _ := base.Get(key)
						out.Set(key, bv)
					}
				}
				continue
			}
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			val, err := FromYAML(v, raw)
			if err != nil {
				return nil, err
			}
			out.Set(k.Value, val)
		}
		return out, nil
	case yaml.ScalarNode:
		if raw {
			return String(yn.Value), nil
		}
		return scalarFromYAML(yn)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", yn.Line)
}

func scalarFromYAML(yn *yaml.Node) (*Node, error) {
	switch yn.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := yn.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := yn.Decode(&i); err != nil {
			return nil, err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := yn.Decode(&f); err != nil {
			return nil, err
		}
		return Float(f), nil
	}
	return String(yn.Value), nil
}

// ToYAML converts the tree into a yaml.v3 node.
func (n *Node) ToYAML() *yaml.Node {
	switch n.Kind() {
	case MapKind:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range n.keys {
			out.Content = append(out.Content,
				strScalar(k),
				n.fields[k].ToYAML())
		}
		return out
	case SeqKind:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range n.items {
			out.Content = append(out.Content, it.ToYAML())
		}
		return out
	case BoolKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.b)}
	case IntKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(n.i, 10)}
	case FloatKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(n.f, 'g', -1, 64)}
	case StringKind:
		return strScalar(n.s)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// yaml11Bools are the plain scalars YAML 1.1 readers resolve as booleans.
var yaml11Bools = map[string]bool{
	"y": true, "Y": true, "yes": true, "Yes": true, "YES": true,
	"n": true, "N": true, "no": true, "No": true, "NO": true,
	"true": true, "True": true, "TRUE": true,
	"false": true, "False": true, "FALSE": true,
	"on": true, "On": true, "ON": true,
	"off": true, "Off": true, "OFF": true,
}

// strScalar double-quotes strings that YAML 1.1 resolves as booleans.
func strScalar(v string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	if yaml11Bools[v] {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// MarshalYAML implements yaml.Marshaler.
func (n *Node) MarshalYAML() (interface{}, error) {
	return n.ToYAML(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler with typed scalars.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	out, err := FromYAML(value, false)
	if err != nil {
		return err
	}
	*n = *out
	return nil
}

// Encode renders the tree as a YAML document with two-space indentation.
func Encode(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n.ToYAML()); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
