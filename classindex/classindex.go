// Package classindex interns component types into small dense integers.
//
// This is the "consumed" ClassIndex collaborator named in spec.md §6:
// compositions and state keys address a fixed-size table by these dense
// indices instead of by reflect.Type directly, which is what lets a
// Composition's componentIndex[] be a flat array rather than a map.
package classindex

import (
	"reflect"
	"sync"

	"github.com/keystone-ecs/ecs/internal/ecserr"
)

// DefaultCapacity is the default size of the dense index table, matching
// dev.dominion.ecs.engine.Composition.COMPONENT_INDEX_CAPACITY in the
// original engine this core is modeled on.
const DefaultCapacity = 1 << 10

// Index interns reflect.Type values into dense integers in [0, capacity),
// unique within this Index (each Index keeps its own sequence). Index zero is never assigned to a real type;
// callers use it as the "absent" sentinel the way Composition's
// componentIndex table does (0 = absent, 1+ordinal = present).
type Index struct {
	mu       sync.RWMutex
	capacity int
	byType   map[reflect.Type]int32
	byIndex  []reflect.Type
	next     int32
}

// New creates an Index with the given capacity; a capacity below 1 selects
// DefaultCapacity. Index 0 is reserved as the absent sentinel so at most
// capacity-1 types can be interned.
func New(capacity int) *Index {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Index{
		capacity: capacity,
		byType:   make(map[reflect.Type]int32, capacity),
		byIndex:  make([]reflect.Type, capacity),
		next:     1,
	}
}

// GetIndex returns the interned index for t, or 0 if t has never been
// interned. It never allocates.
func (idx *Index) GetIndex(t reflect.Type) int32 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.byType[t]
}

// GetOrCreate returns t's interned index, assigning a new one on first
// sight. It returns ErrComponentIndexFull once capacity is exhausted.
func (idx *Index) GetOrCreate(t reflect.Type) (int32, error) {
	idx.mu.RLock()
	if i, ok := idx.byType[t]; ok {
		idx.mu.RUnlock()
		return i, nil
	}
	idx.mu.RUnlock()

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if i, ok := idx.byType[t]; ok {
		return i, nil
	}
	if int(idx.next) >= idx.capacity {
		return 0, ecserr.ErrComponentIndexFull
	}
	i := idx.next
	idx.next++
	idx.byType[t] = i
	idx.byIndex[i] = t
	return i, nil
}

// TypeOf returns the type interned at i, or nil if i is unassigned.
func (idx *Index) TypeOf(i int32) reflect.Type {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if i < 0 || int(i) >= len(idx.byIndex) {
		return nil
	}
	return idx.byIndex[i]
}

// Len returns how many types have been interned so far.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return int(idx.next) - 1
}

// Capacity returns the maximum number of types this index can intern.
func (idx *Index) Capacity() int {
	return idx.capacity
}
