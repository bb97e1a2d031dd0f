package ecs

import "sync/atomic"

// entityData is the three-field record an Entity's data pointer refers to:
// the composition it currently belongs to, its ordered component tuple, and
// the state key it roots (non-nil only if this entity is the head of a
// state chain). Migration publishes a new entityData in one atomic store so
// readers never observe a torn view.
type entityData struct {
	composition *Composition
	components  []any
	stateRoot   *IndexKey
	// pooledArray marks that components was borrowed from the composition's
	// array pool and should be returned there on delete, rather than left
	// for the garbage collector.
	pooledArray bool
}

// Entity is the minimal public contract consumed by the enclosing runtime:
// a packed handle, an atomically-published data record, and the two
// intrusive pointers used to thread a state chain. Entity values are always
// heap-allocated and referenced by pointer; the pointer identity is the
// back-reference a LinkedChunk's items slot holds.
type Entity struct {
	id   uint32
	data atomic.Pointer[entityData]

	// prev/next are the intrusive state-chain pointers. They are mutated
	// only by Composition's state methods, under the owning composition's
	// statesMu for any compound transition; single-pointer updates that
	// cannot race with a concurrent compound transition are plain stores.
	prev *Entity
	next *Entity

	// chunk is the LinkedChunk this entity's slot currently lives in. It
	// is rebound on every migration so that state-chain iteration (whose
	// members may span chunks and tenants) can always find the owning
	// entity's own column storage.
	chunk *chunk
}

// newEntity allocates an Entity with the given id and initial data.
func newEntity(id uint32, data entityData) *Entity {
	e := &Entity{id: id}
	e.data.Store(&data)
	return e
}

// ID returns the entity's current packed handle.
func (e *Entity) ID() uint32 { return e.id }

// setID rebinds the packed handle, used when an entity migrates to a new
// tenant/chunk and is issued a fresh id.
func (e *Entity) setID(id uint32) { e.id = id }

// flagDetached marks the entity's handle as detached without otherwise
// touching its data; callers do this right after freeing the id so that any
// reader still holding the old handle can observe the flag.
func (e *Entity) flagDetached(schema IdSchema) {
	e.id = schema.SetDetached(e.id)
}

// Data atomically loads the entity's current (composition, components,
// stateRoot) record.
func (e *Entity) Data() *entityData { return e.data.Load() }

// setData atomically publishes a new data record.
func (e *Entity) setData(d entityData) { e.data.Store(&d) }

// Components returns the entity's current ordered component tuple.
func (e *Entity) Components() []any { return e.Data().components }

// Composition returns the composition the entity currently belongs to.
func (e *Entity) Composition() *Composition { return e.Data().composition }

// Chunk returns the LinkedChunk currently holding this entity's slot.
func (e *Entity) Chunk() *chunk { return e.chunk }

// setChunk rebinds the owning chunk, called by LinkedChunk.store/copyFrom.
func (e *Entity) setChunk(c *chunk) { e.chunk = c }

// Prev returns the entity's state-chain predecessor, or nil.
func (e *Entity) Prev() *Entity { return e.prev }

// Next returns the entity's state-chain successor, or nil.
func (e *Entity) Next() *Entity { return e.next }
