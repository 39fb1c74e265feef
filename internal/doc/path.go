package doc

// path.go: structural access by slash-separated paths ("features/switch/profile").

import (
	"fmt"
	"strings"
)

// ShapeError reports that a path segment crossed a value that is not a mapping.
type ShapeError struct {
	Path string
	Kind Kind
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("value of '%s' should be a mapping, got %s", e.Path, e.Kind)
}

// Lookup walks path from root. It returns (nil, false, nil) when a segment is
// missing and a *ShapeError when an intermediate value is not a mapping.
func Lookup(root *Node, path string) (*Node, bool, error) {
	current := root
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if !current.IsMap() {
			return nil, false, &ShapeError{Path: strings.Join(segments[:i], "/"), Kind: current.Kind()}
		}
		next, ok := current.Get(seg)
		if !ok {
			return nil, false, nil
		}
		current = next
	}
	return current, true, nil
}

// GetOr returns the node at path, or def when the path is absent or the tree
// has an unexpected shape.
func GetOr(root *Node, path string, def *Node) *Node {
	n, ok, err := Lookup(root, path)
	if err != nil || !ok {
		return def
	}
	return n
}

// SetPath stores v at path, creating intermediate mappings as needed.
func SetPath(root *Node, path string, v *Node) error {
	segments := strings.Split(path, "/")
	current := root
	for i, seg := range segments[:len(segments)-1] {
		if !current.IsMap() {
			return &ShapeError{Path: strings.Join(segments[:i], "/"), Kind: current.Kind()}
		}
		next, ok := current.Get(seg)
		if !ok {
			next = NewMap()
			current.Set(seg, next)
		}
		current = next
	}
	if !current.IsMap() {
		return &ShapeError{Path: strings.Join(segments[:len(segments)-1], "/"), Kind: current.Kind()}
	}
	current.Set(segments[len(segments)-1], v)
	return nil
}

// DeletePath removes the value at path. Missing paths are not an error.
func DeletePath(root *Node, path string) error {
	segments := strings.Split(path, "/")
	current := root
	for i, seg := range segments[:len(segments)-1] {
		if !current.IsMap() {
			return &ShapeError{Path: strings.Join(segments[:i], "/"), Kind: current.Kind()}
		}
		next, ok := current.Get(seg)
		if !ok {
			return nil
		}
		current = next
	}
	if !current.IsMap() {
		return &ShapeError{Path: strings.Join(segments[:len(segments)-1], "/"), Kind: current.Kind()}
	}
	current.Delete(segments[len(segments)-1])
	return nil
}
