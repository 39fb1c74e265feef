package doc

// Merge combines two values. Two mappings merge key by key, recursing into
// shared keys, with b adding or overriding entries. Two sequences concatenate
// (a then b, duplicates kept). Any other pairing yields b.
//
// Neither input is modified. Untouched subtrees of a may be shared with the
// result.
func Merge(a, b *Node) *Node {
	if b == nil {
		return nil
	}
	switch {
	case a.IsMap() && b.IsMap():
		result := NewMap()
		for _, k := range a.keys {
			result.Set(k, a.fields[k])
		}
		for _, k := range b.keys {
			prev, _ := result.Get(k)
			result.Set(k, Merge(prev, b.fields[k]))
		}
		return result
	case a.IsSeq() && b.IsSeq():
		items := make([]*Node, 0, len(a.items)+len(b.items))
		items = append(items, a.items...)
		items = append(items, b.items...)
		return Seq(items...)
	}
	return b.Clone()
}

// MergeAll left-folds Merge over values. The first value is copied before
// folding so that none of the inputs is mutated.
func MergeAll(values ...*Node) *Node {
	if len(values) == 0 {
		return nil
	}
	result := values[0].Clone()
	for _, v := range values[1:] {
		result = Merge(result, v)
	}
	return result
}
