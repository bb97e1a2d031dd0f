package world

import (
	"reflect"

	"github.com/keystone-ecs/ecs"
)

// Query narrows the World's composition registry down to the shapes that
// satisfy a type requirement: spec.md §6's "findComponents(type...)
// returning a query ... with a filter(types...) refinement that narrows
// the composition set." A Query itself holds no iteration state; Select1
// through Select6 below build the typed tuple iterators spec.md §6 calls
// "query result tuples" by chaining one core Iterator per matching
// composition — this is the linear multi-chunk scan spec.md §1 bounds
// query planning to, never a cross-composition join or index.
type Query struct {
	w        *World
	required []reflect.Type
	excluded []reflect.Type
}

// FindComponents returns a Query over every composition that carries at
// least the given component types.
func (w *World) FindComponents(types ...reflect.Type) *Query {
	return &Query{w: w, required: types}
}

// Filter narrows q further, excluding any composition that also carries
// one of the given types.
func (q *Query) Filter(types ...reflect.Type) *Query {
	excluded := make([]reflect.Type, 0, len(q.excluded)+len(types))
	excluded = append(excluded, q.excluded...)
	excluded = append(excluded, types...)
	return &Query{w: q.w, required: q.required, excluded: excluded}
}

// matchingCompositions returns every registered composition that is a
// superset of q.required and disjoint from q.excluded.
func (q *Query) matchingCompositions() []*ecs.Composition {
	q.w.mu.RLock()
	defer q.w.mu.RUnlock()

	var out []*ecs.Composition
compositions:
	for _, c := range q.w.byKey {
		has := make(map[reflect.Type]bool, c.Length())
		for _, t := range c.ComponentTypes() {
			has[t] = true
		}
		for _, req := range q.required {
			if !has[req] {
				continue compositions
			}
		}
		for _, exc := range q.excluded {
			if has[exc] {
				continue compositions
			}
		}
		out = append(out, c)
	}
	return out
}

// Result1 chains the per-composition Iterator1 tuples from every
// composition a Query matched into a single entity-plus-component stream,
// spec.md §6's "(c1, entity)" shape.
type Result1[T1 any] struct {
	subs []*ecs.Iterator1[T1]
	idx  int
}

func Select1[T1 any](q *Query) *Result1[T1] {
	r := &Result1[T1]{}
	for _, c := range q.matchingCompositions() {
		r.subs = append(r.subs, ecs.Select1[T1](c, c.Iterator()))
	}
	return r
}

func (r *Result1[T1]) HasNext() bool {
	for r.idx < len(r.subs) {
		if r.subs[r.idx].HasNext() {
			return true
		}
		r.idx++
	}
	return false
}

func (r *Result1[T1]) Next() (T1, *ecs.Entity) { return r.subs[r.idx].Next() }

// Result2 is Result1's two-component counterpart, spec.md §6's
// "(c1, c2, entity)" shape.
type Result2[T1, T2 any] struct {
	subs []*ecs.Iterator2[T1, T2]
	idx  int
}

func Select2[T1, T2 any](q *Query) *Result2[T1, T2] {
	r := &Result2[T1, T2]{}
	for _, c := range q.matchingCompositions() {
		r.subs = append(r.subs, ecs.Select2[T1, T2](c, c.Iterator()))
	}
	return r
}

func (r *Result2[T1, T2]) HasNext() bool {
	for r.idx < len(r.subs) {
		if r.subs[r.idx].HasNext() {
			return true
		}
		r.idx++
	}
	return false
}

func (r *Result2[T1, T2]) Next() (T1, T2, *ecs.Entity) { return r.subs[r.idx].Next() }

// Result3 .. Result6 follow Result1/Result2's identical pattern for three
// through six projected components.
type Result3[T1, T2, T3 any] struct {
	subs []*ecs.Iterator3[T1, T2, T3]
	idx  int
}

func Select3[T1, T2, T3 any](q *Query) *Result3[T1, T2, T3] {
	r := &Result3[T1, T2, T3]{}
	for _, c := range q.matchingCompositions() {
		r.subs = append(r.subs, ecs.Select3[T1, T2, T3](c, c.Iterator()))
	}
	return r
}

func (r *Result3[T1, T2, T3]) HasNext() bool {
	for r.idx < len(r.subs) {
		if r.subs[r.idx].HasNext() {
			return true
		}
		r.idx++
	}
	return false
}

func (r *Result3[T1, T2, T3]) Next() (T1, T2, T3, *ecs.Entity) { return r.subs[r.idx].Next() }

type Result4[T1, T2, T3, T4 any] struct {
	subs []*ecs.Iterator4[T1, T2, T3, T4]
	idx  int
}

func Select4[T1, T2, T3, T4 any](q *Query) *Result4[T1, T2, T3, T4] {
	r := &Result4[T1, T2, T3, T4]{}
	for _, c := range q.matchingCompositions() {
		r.subs = append(r.subs, ecs.Select4[T1, T2, T3, T4](c, c.Iterator()))
	}
	return r
}

func (r *Result4[T1, T2, T3, T4]) HasNext() bool {
	for r.idx < len(r.subs) {
		if r.subs[r.idx].HasNext() {
			return true
		}
		r.idx++
	}
	return false
}

func (r *Result4[T1, T2, T3, T4]) Next() (T1, T2, T3, T4, *ecs.Entity) {
	return r.subs[r.idx].Next()
}

type Result5[T1, T2, T3, T4, T5 any] struct {
	subs []*ecs.Iterator5[T1, T2, T3, T4, T5]
	idx  int
}

func Select5[T1, T2, T3, T4, T5 any](q *Query) *Result5[T1, T2, T3, T4, T5] {
	r := &Result5[T1, T2, T3, T4, T5]{}
	for _, c := range q.matchingCompositions() {
		r.subs = append(r.subs, ecs.Select5[T1, T2, T3, T4, T5](c, c.Iterator()))
	}
	return r
}

func (r *Result5[T1, T2, T3, T4, T5]) HasNext() bool {
	for r.idx < len(r.subs) {
		if r.subs[r.idx].HasNext() {
			return true
		}
		r.idx++
	}
	return false
}

func (r *Result5[T1, T2, T3, T4, T5]) Next() (T1, T2, T3, T4, T5, *ecs.Entity) {
	return r.subs[r.idx].Next()
}

type Result6[T1, T2, T3, T4, T5, T6 any] struct {
	subs []*ecs.Iterator6[T1, T2, T3, T4, T5, T6]
	idx  int
}

func Select6[T1, T2, T3, T4, T5, T6 any](q *Query) *Result6[T1, T2, T3, T4, T5, T6] {
	r := &Result6[T1, T2, T3, T4, T5, T6]{}
	for _, c := range q.matchingCompositions() {
		r.subs = append(r.subs, ecs.Select6[T1, T2, T3, T4, T5, T6](c, c.Iterator()))
	}
	return r
}

func (r *Result6[T1, T2, T3, T4, T5, T6]) HasNext() bool {
	for r.idx < len(r.subs) {
		if r.subs[r.idx].HasNext() {
			return true
		}
		r.idx++
	}
	return false
}

func (r *Result6[T1, T2, T3, T4, T5, T6]) Next() (T1, T2, T3, T4, T5, T6, *ecs.Entity) {
	return r.subs[r.idx].Next()
}
