package ecs

import "sync/atomic"

// chunk is a fixed-capacity slab owned by exactly one tenant. It holds an
// items array of entity back-references (slot index == objectId) plus
// either a single column (dataLength == 1) or several parallel columns
// (dataLength > 1, struct-of-arrays) of component values.
//
// index and rm are accessed concurrently: index via fetch-and-add when a
// tenant hands out a fresh slot, rm via increment/decrement as ids are
// freed and recycled. items writes are plain stores published by
// happens-before on a subsequent atomic read of index, or via the owning
// composition's state lock.
type chunk struct {
	id         uint32
	idSchema   IdSchema
	items      []*Entity
	col        []any   // used when dataLength == 1
	cols       [][]any // used when dataLength > 1, cols[i] is column i
	dataLength int
	tenant     *Tenant
	previous   *chunk
	next       *chunk
	index      atomic.Int32 // next free object id, -1 when empty
	rm         atomic.Int32 // count of freed-and-not-yet-reused slots
	sizeOffset int32        // becomes 1 once this chunk has a next
}

// newChunk allocates a chunk with capacity idSchema.ChunkCapacity() and
// dataLength component columns.
func newChunk(id uint32, idSchema IdSchema, previous *chunk, dataLength int, tenant *Tenant) *chunk {
	capacity := int(idSchema.ChunkCapacity())
	c := &chunk{
		id:         id,
		idSchema:   idSchema,
		items:      make([]*Entity, capacity),
		dataLength: dataLength,
		previous:   previous,
		tenant:     tenant,
	}
	c.index.Store(-1)
	switch {
	case dataLength == 1:
		c.col = make([]any, capacity)
	case dataLength > 1:
		c.cols = make([][]any, dataLength)
		for i := range c.cols {
			c.cols[i] = make([]any, capacity)
		}
	}
	if previous != nil {
		previous.setNext(c)
	}
	return c
}

// setNext links this chunk to its successor and flips sizeOffset so that
// size() counts the capacity-filling slot even though index stops one
// short of capacity-1 for a non-tail chunk.
func (c *chunk) setNext(next *chunk) {
	c.next = next
	c.sizeOffset = 1
}

// hasCapacity reports whether a fresh slot can still be acquired without
// rolling over to a new chunk.
func (c *chunk) hasCapacity() bool {
	return c.index.Load() < int32(c.idSchema.ChunkCapacity())-1
}

// acquireSlot atomically advances the chunk's high-water mark and returns
// the freshly claimed object id.
func (c *chunk) acquireSlot() uint32 {
	return uint32(c.index.Add(1))
}

// store writes entity and its component tuple into the slot addressed by
// entity's own id.
func (c *chunk) store(entity *Entity, components []any) {
	idx := c.idSchema.ObjectOf(entity.ID())
	switch {
	case c.dataLength == 1:
		c.col[idx] = components[0]
	case c.dataLength > 1:
		for i := 0; i < c.dataLength; i++ {
			c.cols[i][idx] = components[i]
		}
	}
	entity.setChunk(c)
	c.items[idx] = entity
}

// load returns the entity stored at id's object slot, or nil.
func (c *chunk) load(id uint32) *Entity {
	return c.items[c.idSchema.ObjectOf(id)]
}

// free clears the slot addressed by id, marks it removed, and pushes id
// onto the owning tenant's idStack for recycling.
func (c *chunk) free(id uint32) {
	c.items[c.idSchema.ObjectOf(id)] = nil
	c.rm.Add(1)
	c.tenant.idStack.push(id)
}

// decrementRm balances rm when a freed id is popped back off the stack and
// reused.
func (c *chunk) decrementRm() {
	c.rm.Add(-1)
}

// copyFrom copies surviving component columns from a source chunk of
// potentially different shape into this chunk at newId, for each source
// column i writing src[i][srcIdx] into dst[indexMapping[i]][dstIdx] unless
// indexMapping[i] is -1 (that column was dropped by the migration).
func (c *chunk) copyFrom(entity *Entity, prevChunk *chunk, newID uint32, indexMapping []int) {
	prevIdx := c.idSchema.ObjectOf(entity.ID())
	newIdx := c.idSchema.ObjectOf(newID)
	if len(indexMapping) > 0 {
		switch {
		case c.dataLength == 1 && prevChunk.dataLength == 1:
			c.col[newIdx] = prevChunk.col[prevIdx]
		case c.dataLength == 1 && prevChunk.dataLength > 1:
			for i, dst := range indexMapping {
				if dst == 0 {
					c.col[newIdx] = prevChunk.cols[i][prevIdx]
					break
				}
			}
		case c.dataLength > 1 && prevChunk.dataLength == 1:
			if indexMapping[0] > -1 {
				c.cols[indexMapping[0]][newIdx] = prevChunk.col[prevIdx]
			}
		default: // both multi-column
			for i, dst := range indexMapping {
				if dst > -1 {
					c.cols[dst][newIdx] = prevChunk.cols[i][prevIdx]
				}
			}
		}
	}
	entity.setID(newID)
	entity.setChunk(c)
	c.items[newIdx] = entity
}

// add writes the newly attached component(s) into this chunk's destination
// columns at id's object slot. addedComponent is used for the single-added
// case; addedComponents together with addedIndexMapping covers the general
// (possibly multi-added) case.
func (c *chunk) add(id uint32, addedIndexMapping []int, addedComponent any, addedComponents []any) {
	idx := c.idSchema.ObjectOf(id)
	switch {
	case c.dataLength == 1:
		if addedComponent != nil {
			c.col[idx] = addedComponent
			return
		}
		for i, dst := range addedIndexMapping {
			if dst == 0 {
				c.col[idx] = addedComponents[i]
			}
		}
	case c.dataLength > 1:
		if addedComponent != nil {
			c.cols[addedIndexMapping[0]][idx] = addedComponent
			return
		}
		for i, dst := range addedIndexMapping {
			if dst > -1 {
				c.cols[dst][idx] = addedComponents[i]
			}
		}
	}
}

// getData returns a freshly allocated copy of id's full component tuple.
func (c *chunk) getData(id uint32) []any {
	idx := c.idSchema.ObjectOf(id)
	data := make([]any, c.dataLength)
	switch {
	case c.dataLength == 1:
		data[0] = c.col[idx]
	case c.dataLength > 1:
		for i := 0; i < c.dataLength; i++ {
			data[i] = c.cols[i][idx]
		}
	}
	return data
}

// columnValue returns the value at column i for id, for multi-column
// chunks.
func (c *chunk) columnValue(id uint32, i int) any {
	return c.cols[i][c.idSchema.ObjectOf(id)]
}

// soleColumnValue returns the value of the single column for id, for
// single-column chunks.
func (c *chunk) soleColumnValue(id uint32) any {
	return c.col[c.idSchema.ObjectOf(id)]
}

// size is index + 1 if this chunk has a successor, minus the number of
// freed-and-unreused slots.
func (c *chunk) size() int {
	return int(c.index.Load()) + int(c.sizeOffset) - int(c.rm.Load())
}

// isEmpty reports whether the chunk currently holds no live entities.
func (c *chunk) isEmpty() bool {
	return c.size() == 0
}
