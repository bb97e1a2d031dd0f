package ecs

// TenantIterator is the canonical forward scan of spec.md §4.8: it visits
// a tenant's chunks from the first to the last and, within each chunk,
// walks slots from the high index down to 0, skipping nulls. This is the
// "composition scan" axis; the other two axes spec.md §4.8 calls out
// (with-state, yield entity-vs-data-only) need no dedicated iterator
// variants here because Select1..6 (results.go) always project from an
// entity's own atomically-published data record rather than from whichever
// chunk produced it — so a with-state caller gets exactly the same correct
// values a plain scan would, per spec.md §9's "collapse into two
// parametric iterators" note.
type TenantIterator struct {
	chunk *chunk
	index int
}

// Iterator returns a TenantIterator starting at this tenant's first chunk.
func (t *Tenant) Iterator() *TenantIterator {
	return newTenantIterator(t.firstChunk)
}

func newTenantIterator(c *chunk) *TenantIterator {
	it := &TenantIterator{chunk: c, index: -1}
	if c != nil {
		it.index = int(c.index.Load())
	}
	return it
}

// HasNext reports whether another live entity slot remains in this or a
// later chunk.
func (it *TenantIterator) HasNext() bool {
	for it.chunk != nil {
		for it.index > -1 {
			if it.chunk.items[it.index] != nil {
				return true
			}
			it.index--
		}
		it.chunk = it.chunk.next
		if it.chunk != nil {
			it.index = int(it.chunk.index.Load())
		}
	}
	return false
}

// Next returns the current entity and advances the cursor.
func (it *TenantIterator) Next() *Entity {
	e := it.chunk.items[it.index]
	it.index--
	return e
}

// StateChainIterator walks a state chain head-to-tail, per spec.md §4.7:
// "starts at a sentinel whose prev is the head entity; next() returns the
// current prev and advances. Stops when prev == null." Our Go port folds
// the sentinel into the iterator's own cursor field rather than allocating
// a real sentinel Entity.
type StateChainIterator struct {
	next *Entity
}

func newStateChainIterator(head *Entity) *StateChainIterator {
	return &StateChainIterator{next: head}
}

// HasNext reports whether another chain member remains.
func (it *StateChainIterator) HasNext() bool {
	return it.next != nil
}

// Next returns the current chain member and advances toward the tail.
func (it *StateChainIterator) Next() *Entity {
	e := it.next
	it.next = e.Prev()
	return e
}
