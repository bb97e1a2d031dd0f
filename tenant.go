package ecs

import "sync"

// Tenant owns one composition's private chunk list and id recycler. All
// entities sharing a composition live in the chunks owned by exactly one
// Tenant.
type Tenant struct {
	id           uint32
	pool         *ChunkedPool
	idSchema     IdSchema
	idStack      *idStack
	dataLength   int
	owner        any
	subject      string
	firstChunk   *chunk
	currentChunk *chunk
	nextID       uint32
	mu           sync.Mutex // guards currentChunk/nextID/chunk-creation triple
}

// newTenant wires a fresh chunk list onto pool and primes nextID with one
// internal allocation, exactly as the id-stack-backed recycler requires a
// first reservation to hand out on the tenant's first real allocateID
// call.
func newTenant(id uint32, pool *ChunkedPool, idSchema IdSchema, dataLength int, owner any, subject string) (*Tenant, error) {
	t := &Tenant{
		id:         id,
		pool:       pool,
		idSchema:   idSchema,
		dataLength: dataLength,
		owner:      owner,
		subject:    subject,
		nextID:     DetachedBit,
	}
	t.idStack = newIdStack(DetachedBit, int(idSchema.ChunkCapacity())*pool.idStackMultiplier)
	first, err := pool.newChunk(t, nil)
	if err != nil {
		return nil, err
	}
	t.firstChunk = first
	t.currentChunk = first
	if _, err := t.allocateID(); err != nil {
		return nil, err
	}
	return t, nil
}

// ID returns the tenant's process-unique identifier, assigned by the owning
// pool's sequence.
func (t *Tenant) ID() uint32 { return t.id }

// allocateID implements the allocation protocol from spec.md §4.4: pop a
// recycled id first; only on a genuine miss does it enter the tenant-local
// critical section that advances nextID/currentChunk/chunk creation.
func (t *Tenant) allocateID() (uint32, error) {
	if popped := t.idStack.pop(); popped != DetachedBit {
		t.pool.getChunk(popped).decrementRm()
		return popped, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	returnValue := t.nextID
	if t.currentChunk.hasCapacity() {
		t.nextID = t.idSchema.Pack(t.currentChunk.id, t.currentChunk.acquireSlot())
		return returnValue, nil
	}
	next, err := t.pool.newChunk(t, t.currentChunk)
	if err != nil {
		return 0, err
	}
	t.currentChunk = next
	t.nextID = t.idSchema.Pack(next.id, next.acquireSlot())
	return returnValue, nil
}

// register allocates a fresh id for entity, binds it, and stores the
// component tuple into the destination chunk.
func (t *Tenant) register(entity *Entity, components []any) error {
	id, err := t.allocateID()
	if err != nil {
		return err
	}
	entity.setID(id)
	t.pool.getChunk(id).store(entity, components)
	return nil
}

// freeID clears id's chunk slot and releases it back to this tenant's
// recycler. It does not flag the entity's own handle detached: a caller
// deleting an entity outright does that itself afterward (the handle is
// still live), while a caller migrating an entity to a new id must not,
// since the old slot's back-reference is the very same *Entity now bound
// to the destination id.
func (t *Tenant) freeID(id uint32) {
	t.pool.getChunk(id).free(id)
}

// migrate copies entity's surviving columns into newId's chunk (already
// allocated in this tenant by the caller) and writes any newly attached
// component(s).
func (t *Tenant) migrate(entity *Entity, newID uint32, indexMapping, addedIndexMapping []int, addedComponent any, addedComponents []any) {
	prevChunk := t.pool.getChunk(entity.ID())
	newChunk := t.pool.getChunk(newID)
	newChunk.copyFrom(entity, prevChunk, newID, indexMapping)
	if addedIndexMapping != nil {
		newChunk.add(newID, addedIndexMapping, addedComponent, addedComponents)
	}
}

// currentChunkSize reports the live entity count of the tenant's tail
// chunk.
func (t *Tenant) currentChunkSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentChunk.size()
}

// close releases the tenant's id recycler.
func (t *Tenant) close() {
	t.idStack.close()
}
