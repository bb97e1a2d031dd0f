package ecs

import "reflect"

// typeFor is reflect.TypeFor (go1.22+), reimplemented for the go1.21 toolchain.
func typeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// EntityIterator is the upstream an iterator built by Select1..Select6
// consumes: any entity-producing cursor over a tenant's chunks (or the
// whole pool). Tenant.Iterator and ChunkedPool.AllEntities both satisfy it.
type EntityIterator interface {
	HasNext() bool
	Next() *Entity
}

// Select1 through Select6 build tuple iterators over an EntityIterator,
// projecting the requested component columns onto each entity's component
// tuple. spec.md §6 bounds composition queries at six columns; the
// original engine's Comp7/Comp8 are not ported. Each Next() returns the
// projected components plus the owning *Entity, or zero values and a nil
// *Entity once upstream is exhausted.
func nextMatching(c *Composition, it EntityIterator) *Entity {
	for it.HasNext() {
		e := it.Next()
		if e.Data().composition == c {
			return e
		}
	}
	return nil
}

// componentColumnIndex resolves T's position within c's column order,
// computed once at iterator construction per spec.md §4.7.
func componentColumnIndex[T any](c *Composition) int {
	return c.fetchComponentIndex(typeFor[T]())
}

// Iterator1 yields a single typed component plus its owning entity.
type Iterator1[T1 any] struct {
	idx1        int
	upstream    EntityIterator
	composition *Composition
}

// Select1 builds a tuple iterator over upstream, projecting column T1.
// Entities the upstream scan yields that have since migrated out of c are
// silently skipped, per spec.md §4.7.
func Select1[T1 any](c *Composition, upstream EntityIterator) *Iterator1[T1] {
	return &Iterator1[T1]{idx1: componentColumnIndex[T1](c), upstream: upstream, composition: c}
}

func (it *Iterator1[T1]) HasNext() bool { return it.upstream.HasNext() }

func (it *Iterator1[T1]) Next() (T1, *Entity) {
	e := nextMatching(it.composition, it.upstream)
	var zero T1
	if e == nil {
		return zero, nil
	}
	comps := e.Components()
	return comps[it.idx1].(T1), e
}

// Iterator2 yields two typed components plus their owning entity.
type Iterator2[T1, T2 any] struct {
	idx1, idx2  int
	upstream    EntityIterator
	composition *Composition
}

func Select2[T1, T2 any](c *Composition, upstream EntityIterator) *Iterator2[T1, T2] {
	return &Iterator2[T1, T2]{
		idx1: componentColumnIndex[T1](c), idx2: componentColumnIndex[T2](c),
		upstream: upstream, composition: c,
	}
}

func (it *Iterator2[T1, T2]) HasNext() bool { return it.upstream.HasNext() }

func (it *Iterator2[T1, T2]) Next() (T1, T2, *Entity) {
	e := nextMatching(it.composition, it.upstream)
	var z1 T1
	var z2 T2
	if e == nil {
		return z1, z2, nil
	}
	comps := e.Components()
	return comps[it.idx1].(T1), comps[it.idx2].(T2), e
}

// Iterator3 yields three typed components plus their owning entity.
type Iterator3[T1, T2, T3 any] struct {
	idx1, idx2, idx3 int
	upstream         EntityIterator
	composition      *Composition
}

func Select3[T1, T2, T3 any](c *Composition, upstream EntityIterator) *Iterator3[T1, T2, T3] {
	return &Iterator3[T1, T2, T3]{
		idx1: componentColumnIndex[T1](c), idx2: componentColumnIndex[T2](c), idx3: componentColumnIndex[T3](c),
		upstream: upstream, composition: c,
	}
}

func (it *Iterator3[T1, T2, T3]) HasNext() bool { return it.upstream.HasNext() }

func (it *Iterator3[T1, T2, T3]) Next() (T1, T2, T3, *Entity) {
	e := nextMatching(it.composition, it.upstream)
	var z1 T1
	var z2 T2
	var z3 T3
	if e == nil {
		return z1, z2, z3, nil
	}
	comps := e.Components()
	return comps[it.idx1].(T1), comps[it.idx2].(T2), comps[it.idx3].(T3), e
}

// Iterator4 yields four typed components plus their owning entity.
type Iterator4[T1, T2, T3, T4 any] struct {
	idx1, idx2, idx3, idx4 int
	upstream               EntityIterator
	composition            *Composition
}

func Select4[T1, T2, T3, T4 any](c *Composition, upstream EntityIterator) *Iterator4[T1, T2, T3, T4] {
	return &Iterator4[T1, T2, T3, T4]{
		idx1: componentColumnIndex[T1](c), idx2: componentColumnIndex[T2](c),
		idx3: componentColumnIndex[T3](c), idx4: componentColumnIndex[T4](c),
		upstream: upstream, composition: c,
	}
}

func (it *Iterator4[T1, T2, T3, T4]) HasNext() bool { return it.upstream.HasNext() }

func (it *Iterator4[T1, T2, T3, T4]) Next() (T1, T2, T3, T4, *Entity) {
	e := nextMatching(it.composition, it.upstream)
	var z1 T1
	var z2 T2
	var z3 T3
	var z4 T4
	if e == nil {
		return z1, z2, z3, z4, nil
	}
	comps := e.Components()
	return comps[it.idx1].(T1), comps[it.idx2].(T2), comps[it.idx3].(T3), comps[it.idx4].(T4), e
}

// Iterator5 yields five typed components plus their owning entity.
type Iterator5[T1, T2, T3, T4, T5 any] struct {
	idx1, idx2, idx3, idx4, idx5 int
	upstream                     EntityIterator
	composition                  *Composition
}

func Select5[T1, T2, T3, T4, T5 any](c *Composition, upstream EntityIterator) *Iterator5[T1, T2, T3, T4, T5] {
	return &Iterator5[T1, T2, T3, T4, T5]{
		idx1: componentColumnIndex[T1](c), idx2: componentColumnIndex[T2](c),
		idx3: componentColumnIndex[T3](c), idx4: componentColumnIndex[T4](c),
		idx5: componentColumnIndex[T5](c),
		upstream: upstream, composition: c,
	}
}

func (it *Iterator5[T1, T2, T3, T4, T5]) HasNext() bool { return it.upstream.HasNext() }

func (it *Iterator5[T1, T2, T3, T4, T5]) Next() (T1, T2, T3, T4, T5, *Entity) {
	e := nextMatching(it.composition, it.upstream)
	var z1 T1
	var z2 T2
	var z3 T3
	var z4 T4
	var z5 T5
	if e == nil {
		return z1, z2, z3, z4, z5, nil
	}
	comps := e.Components()
	return comps[it.idx1].(T1), comps[it.idx2].(T2), comps[it.idx3].(T3), comps[it.idx4].(T4), comps[it.idx5].(T5), e
}

// Iterator6 yields six typed components plus their owning entity, the
// widest tuple spec.md supports.
type Iterator6[T1, T2, T3, T4, T5, T6 any] struct {
	idx1, idx2, idx3, idx4, idx5, idx6 int
	upstream                           EntityIterator
	composition                        *Composition
}

func Select6[T1, T2, T3, T4, T5, T6 any](c *Composition, upstream EntityIterator) *Iterator6[T1, T2, T3, T4, T5, T6] {
	return &Iterator6[T1, T2, T3, T4, T5, T6]{
		idx1: componentColumnIndex[T1](c), idx2: componentColumnIndex[T2](c),
		idx3: componentColumnIndex[T3](c), idx4: componentColumnIndex[T4](c),
		idx5: componentColumnIndex[T5](c), idx6: componentColumnIndex[T6](c),
		upstream: upstream, composition: c,
	}
}

func (it *Iterator6[T1, T2, T3, T4, T5, T6]) HasNext() bool { return it.upstream.HasNext() }

func (it *Iterator6[T1, T2, T3, T4, T5, T6]) Next() (T1, T2, T3, T4, T5, T6, *Entity) {
	e := nextMatching(it.composition, it.upstream)
	var z1 T1
	var z2 T2
	var z3 T3
	var z4 T4
	var z5 T5
	var z6 T6
	if e == nil {
		return z1, z2, z3, z4, z5, z6, nil
	}
	comps := e.Components()
	return comps[it.idx1].(T1), comps[it.idx2].(T2), comps[it.idx3].(T3),
		comps[it.idx4].(T4), comps[it.idx5].(T5), comps[it.idx6].(T6), e
}
