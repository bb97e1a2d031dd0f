package ecs

import (
	"sync"
	"sync/atomic"
)

// ChunkedPool owns every chunk across every tenant in one world and
// resolves a packed id to its chunk in O(1). Chunks are never deallocated
// during the pool's life, which is what lets a handle's chunk reference
// stay valid for as long as the handle itself is valid.
//
// chunks grows on demand rather than being preallocated to idSchema's full
// 2^(31-chunkBit) capacity: nothing in the design requires the backing
// array be pre-sized, only that lookup stay O(1), and Go's slice growth
// gives us that without paying for chunk ids that are never handed out.
type ChunkedPool struct {
	idSchema          IdSchema
	idStackMultiplier int
	mu                sync.RWMutex
	chunks            []*chunk
	chunkIndex        atomic.Int32
	tenants           []*Tenant
	nextTenant        atomic.Uint32
}

// defaultIdStackMultiplier sizes a fresh tenant's id-stack as multiplier x
// chunkCapacity when the pool was built with NewChunkedPool rather than
// NewChunkedPoolWithMultiplier.
const defaultIdStackMultiplier = 8

// NewChunkedPool creates an empty pool for the given id schema, using
// defaultIdStackMultiplier to size each tenant's id-stack.
func NewChunkedPool(idSchema IdSchema) *ChunkedPool {
	return NewChunkedPoolWithMultiplier(idSchema, defaultIdStackMultiplier)
}

// NewChunkedPoolWithMultiplier creates an empty pool whose tenants size
// their id-stacks as multiplier x chunkCapacity, the knob the world
// façade's Config.IdStackCapacityMultiplier controls.
func NewChunkedPoolWithMultiplier(idSchema IdSchema, multiplier int) *ChunkedPool {
	if multiplier < 1 {
		multiplier = defaultIdStackMultiplier
	}
	p := &ChunkedPool{idSchema: idSchema, idStackMultiplier: multiplier}
	p.chunkIndex.Store(-1)
	return p
}

// newChunk allocates the next chunk id and links it as owner's new tail
// chunk. It returns ErrOutOfCapacity once idSchema's chunk ceiling is hit.
func (p *ChunkedPool) newChunk(owner *Tenant, previous *chunk) (*chunk, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.chunkIndex.Add(1)
	if uint32(id) >= p.idSchema.ChunkCount() {
		return nil, ErrOutOfCapacity
	}
	c := newChunk(uint32(id), p.idSchema, previous, owner.dataLength, owner)
	if int(id) >= len(p.chunks) {
		grown := make([]*chunk, id+1)
		copy(grown, p.chunks)
		p.chunks = grown
	}
	p.chunks[id] = c
	return c, nil
}

// getChunk resolves a packed id to its owning chunk.
func (p *ChunkedPool) getChunk(id uint32) *chunk {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.chunks[p.idSchema.ChunkOf(id)]
}

// entityOf resolves a packed id directly to the entity stored at its slot.
func (p *ChunkedPool) entityOf(id uint32) *Entity {
	return p.getChunk(id).load(id)
}

// NewTenant creates and registers a new tenant owning dataLength component
// columns, for the given owner/subject (diagnostic metadata only).
func (p *ChunkedPool) NewTenant(dataLength int, owner any, subject string) (*Tenant, error) {
	id := p.nextTenant.Add(1) - 1
	t, err := newTenant(id, p, p.idSchema, dataLength, owner, subject)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.tenants = append(p.tenants, t)
	p.mu.Unlock()
	return t, nil
}

// Size sums the live entity count across every chunk the pool has ever
// allocated.
func (p *ChunkedPool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sum := 0
	last := int(p.chunkIndex.Load())
	for i := 0; i <= last && i < len(p.chunks); i++ {
		sum += p.chunks[i].size()
	}
	return sum
}

// AllEntities returns a reverse-chunk-order iterator over every live entity
// slot in the pool, irrespective of tenant.
func (p *ChunkedPool) AllEntities() *PoolEntityIterator {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return newPoolEntityIterator(p.chunks, int(p.chunkIndex.Load()))
}

// Close closes every tenant the pool created, releasing their id
// recyclers.
func (p *ChunkedPool) Close() {
	p.mu.RLock()
	tenants := append([]*Tenant(nil), p.tenants...)
	p.mu.RUnlock()
	for _, t := range tenants {
		t.close()
	}
}

// PoolEntityIterator walks every non-nil entity slot across all chunks,
// from the most recently created chunk back to the first.
type PoolEntityIterator struct {
	chunks     []*chunk
	chunkIndex int
	current    *chunk
	index      int
}

func newPoolEntityIterator(chunks []*chunk, chunkIndex int) *PoolEntityIterator {
	it := &PoolEntityIterator{chunks: chunks, chunkIndex: chunkIndex}
	if chunkIndex >= 0 && chunkIndex < len(chunks) {
		it.current = chunks[chunkIndex]
		it.index = int(it.current.index.Load())
	} else {
		it.index = -1
	}
	return it
}

// HasNext reports whether another entity slot remains.
func (it *PoolEntityIterator) HasNext() bool {
	for {
		for it.index > -1 {
			if it.current.items[it.index] != nil {
				return true
			}
			it.index--
		}
		if it.chunkIndex <= 0 {
			return false
		}
		it.chunkIndex--
		c := it.chunks[it.chunkIndex]
		if c == nil {
			continue
		}
		it.current = c
		it.index = int(c.index.Load())
	}
}

// Next returns the current entity and advances the cursor.
func (it *PoolEntityIterator) Next() *Entity {
	e := it.current.items[it.index]
	it.index--
	return e
}
