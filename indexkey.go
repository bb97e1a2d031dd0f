package ecs

// IndexKey is the compact hashable key derived from (classIndex, ordinal)
// used to address a state chain's head in a Composition's states map. Two
// IndexKey values are equal iff both fields match, which makes IndexKey
// usable directly as a Go map key.
type IndexKey struct {
	classIndex int32
	ordinal    int32
}

// NewIndexKey builds an IndexKey from a class index and an enum ordinal.
func NewIndexKey(classIndex, ordinal int32) IndexKey {
	return IndexKey{classIndex: classIndex, ordinal: ordinal}
}
