package ecs

import (
	"reflect"
	"strings"
	"sync"

	"github.com/keystone-ecs/ecs/arraypool"
	"github.com/keystone-ecs/ecs/classindex"
	"github.com/keystone-ecs/ecs/logging"
)

// Composition is the immutable shape metadata for one distinct ordered set
// of component types. It owns exactly one Tenant, projects component types
// onto dense column indices, and roots the state chains for every
// enumerated state value currently held by one of its entities.
//
// componentIndex mirrors spec.md §3's "dense componentIndex[]: position =
// classIndex of a type, value = 1+ordinal in the composition (0 = absent)"
// trick; it is built for every composition regardless of width, which costs
// one small fixed-size int32 slice per composition in exchange for never
// having to special-case length 0/1 in fetchComponentIndex.
type Composition struct {
	componentTypes []reflect.Type
	componentIndex []int32
	classIndex     *classindex.Index
	arrayPool      *arraypool.Pool
	tenant         *Tenant
	log            logging.Context

	statesMu sync.Mutex
	states   map[IndexKey]*Entity
}

// State is the minimal contract an enumerated state value must satisfy to
// be addressed by a Composition's state chains: a stable ordinal within
// its own type. Two values of different concrete types with the same
// ordinal never collide because IndexKey also carries the type's
// interned classIndex.
type State interface {
	Ordinal() int32
}

// NewComposition interns componentTypes into classIndex, builds the dense
// column projection, and creates the one Tenant this composition owns.
func NewComposition(pool *ChunkedPool, classIdx *classindex.Index, arrPool *arraypool.Pool, log logging.Context, componentTypes ...reflect.Type) (*Composition, error) {
	c := &Composition{
		componentTypes: componentTypes,
		classIndex:     classIdx,
		arrayPool:      arrPool,
		states:         make(map[IndexKey]*Entity),
	}
	c.componentIndex = make([]int32, classIdx.Capacity())
	for i, t := range componentTypes {
		idx, err := classIdx.GetOrCreate(t)
		if err != nil {
			return nil, err
		}
		c.componentIndex[idx] = int32(i + 1)
	}
	subject := c.String()
	c.log = log.WithSubject(subject)
	tenant, err := pool.NewTenant(len(componentTypes), c, subject)
	if err != nil {
		return nil, err
	}
	c.tenant = tenant
	c.log.Debugf("creating composition")
	return c, nil
}

// Length returns the number of component types this composition carries.
func (c *Composition) Length() int { return len(c.componentTypes) }

// ComponentTypes returns the composition's canonical type order.
func (c *Composition) ComponentTypes() []reflect.Type { return c.componentTypes }

// Tenant returns the composition's owned chunk-list/id-recycler.
func (c *Composition) Tenant() *Tenant { return c.tenant }

// String renders the composition the way the original engine's
// Composition.toString does, e.g. "Composition=[Foo, Bar]".
func (c *Composition) String() string {
	if len(c.componentTypes) == 0 {
		return "Composition=[]"
	}
	names := make([]string, len(c.componentTypes))
	for i, t := range c.componentTypes {
		names[i] = t.Name()
	}
	return "Composition=[" + strings.Join(names, ", ") + "]"
}

// fetchComponentIndex resolves t's position within this composition's
// column order, or -1 if t is not one of this composition's types.
func (c *Composition) fetchComponentIndex(t reflect.Type) int {
	classIdx := c.classIndex.GetIndex(t)
	return int(c.componentIndex[classIdx]) - 1
}

// sortComponentsInPlaceByIndex reorders components so components[i]'s type
// matches componentTypes[i], per spec.md §4.7. The main loop can itself
// move element 0 out of place while sorting a later element into place, so
// a second fixup pass rotates element 0 back home, matching the original
// engine's sortComponentsInPlaceByIndex.
func (c *Composition) sortComponentsInPlaceByIndex(components []any) {
	for i := range components {
		newIdx := c.fetchComponentIndex(reflect.TypeOf(components[i]))
		if newIdx != i {
			components[i], components[newIdx] = components[newIdx], components[i]
		}
	}
	if newIdx := c.fetchComponentIndex(reflect.TypeOf(components[0])); newIdx > 0 {
		components[0], components[newIdx] = components[newIdx], components[0]
	}
}

// createEntity is the shared path for CreateEntity/CreateEntityPooled.
func (c *Composition) createEntity(components []any, pooled bool) (*Entity, error) {
	if c.Length() >= 2 {
		c.sortComponentsInPlaceByIndex(components)
	}
	stored := components
	if pooled {
		stored = c.arrayPool.Get(len(components))
		copy(stored, components)
	}
	e := newEntity(0, entityData{composition: c, components: stored, pooledArray: pooled})
	if err := c.tenant.register(e, stored); err != nil {
		return nil, err
	}
	c.log.Debugf("creating entity %s", c.tenant.idSchema.String(e.ID()))
	return e, nil
}

// CreateEntity allocates a fresh id in this composition's tenant and stores
// components, reordered into canonical column order, as the entity's data.
func (c *Composition) CreateEntity(components ...any) (*Entity, error) {
	return c.createEntity(components, false)
}

// CreateEntityPooled behaves like CreateEntity but draws its backing
// components array from arrayPool to avoid per-entity allocation.
// DeleteEntity returns the array to the pool automatically.
func (c *Composition) CreateEntityPooled(components ...any) (*Entity, error) {
	return c.createEntity(components, true)
}

// DeleteEntity detaches entity from any state chain, frees its id, clears
// its data record, and — if its components array was drawn from the array
// pool — returns that array for reuse.
func (c *Composition) DeleteEntity(entity *Entity) {
	c.detachState(entity)
	data := entity.Data()
	c.tenant.freeID(entity.ID())
	entity.flagDetached(c.tenant.idSchema)
	if data.pooledArray {
		c.arrayPool.Push(data.components)
	}
	c.log.Debugf("deleting entity %s", c.tenant.idSchema.String(entity.ID()))
	entity.setData(entityData{})
}

// AttachComponents migrates entity, currently in some other composition,
// into c after adding the given newly-created component values. c is the
// destination composition: the one that already includes entity's old
// types plus every type in added. Mirrors spec.md §4.7's attachEntity.
func (c *Composition) AttachComponents(entity *Entity, added ...any) (*Entity, error) {
	return c.migrateFrom(entity, added)
}

// DetachComponents migrates entity into c, the destination composition
// after dropping one or more component types, with no newly added values.
// Mirrors spec.md §4.7's reattachEntity.
func (c *Composition) DetachComponents(entity *Entity) (*Entity, error) {
	return c.migrateFrom(entity, nil)
}

// migrateFrom implements the shape-migration procedure of spec.md §4.7:
// compute the surviving-column mapping from entity's current composition
// into c, allocate the new id in c's tenant, copy and write columns, then
// rebind entity's data record and free the old id in the source tenant.
func (c *Composition) migrateFrom(entity *Entity, added []any) (*Entity, error) {
	src := entity.Composition()
	indexMapping := make([]int, src.Length())
	for i, t := range src.componentTypes {
		indexMapping[i] = c.fetchComponentIndex(t)
	}

	newID, err := c.tenant.allocateID()
	if err != nil {
		return nil, err
	}

	var addedComponent any
	var addedComponents []any
	var addedIndexMapping []int
	switch len(added) {
	case 0:
	case 1:
		addedComponent = added[0]
		addedIndexMapping = []int{c.fetchComponentIndex(reflect.TypeOf(added[0]))}
	default:
		addedComponents = added
		addedIndexMapping = make([]int, len(added))
		for i, v := range added {
			addedIndexMapping[i] = c.fetchComponentIndex(reflect.TypeOf(v))
		}
	}

	oldID := entity.ID()
	oldStateRoot := entity.Data().stateRoot
	c.tenant.migrate(entity, newID, indexMapping, addedIndexMapping, addedComponent, addedComponents)
	destComponents := c.tenant.pool.getChunk(newID).getData(newID)
	entity.setData(entityData{composition: c, components: destComponents, stateRoot: oldStateRoot})
	src.tenant.freeID(oldID)
	c.log.Debugf("migrating entity to %s", c.tenant.idSchema.String(newID))
	return entity, nil
}

// indexKeyOf interns state's concrete type and pairs it with state's
// ordinal, matching the original engine's calcIndexKey.
func (c *Composition) indexKeyOf(state State) (IndexKey, error) {
	classIdx, err := c.classIndex.GetOrCreate(reflect.TypeOf(state))
	if err != nil {
		return IndexKey{}, err
	}
	return NewIndexKey(classIdx, state.Ordinal()), nil
}

// SetState detaches entity from whichever state chain it currently roots or
// belongs to and, if state is non-nil, attaches it to the chain for state's
// IndexKey. Calling SetState(e, S) twice in a row is idempotent: the chain
// membership is unchanged, only head-promotion bookkeeping repeats.
func (c *Composition) SetState(entity *Entity, state State) error {
	c.detachState(entity)
	if state == nil {
		return nil
	}
	return c.attachState(entity, state)
}

// attachState implements spec.md §4.7's attach: a computeIfAbsent into
// states, with head-promotion on collision. The whole transition runs
// under statesMu, collapsing the original engine's two-step
// computeIfAbsent-then-computeIfPresent into one critical section.
func (c *Composition) attachState(entity *Entity, state State) error {
	key, err := c.indexKeyOf(state)
	if err != nil {
		return err
	}
	c.statesMu.Lock()
	defer c.statesMu.Unlock()

	oldHead, exists := c.states[key]
	if !exists {
		c.states[key] = entity
		c.publishStateRoot(entity, &key)
		return nil
	}
	if oldHead == entity {
		return nil
	}
	entity.prev = oldHead
	oldHead.next = entity
	c.publishStateRoot(entity, &key)
	c.publishStateRoot(oldHead, nil)
	c.states[key] = entity
	return nil
}

// detachState implements spec.md §4.7's three detach subcases: entity is
// head and alone, entity is head with predecessors (promote prev), or
// entity is an interior chain member (splice out). Must be called with
// statesMu unlocked; it takes the lock itself.
func (c *Composition) detachState(entity *Entity) {
	c.statesMu.Lock()
	defer c.statesMu.Unlock()

	data := entity.Data()
	if data.stateRoot != nil {
		key := *data.stateRoot
		prev := entity.prev
		if prev == nil {
			delete(c.states, key)
			c.publishStateRoot(entity, nil)
			return
		}
		c.states[key] = prev
		prev.next = nil
		entity.prev = nil
		c.publishStateRoot(prev, &key)
		c.publishStateRoot(entity, nil)
		return
	}
	if entity.next != nil {
		next := entity.next
		prev := entity.prev
		if prev != nil {
			prev.next = next
			next.prev = prev
		} else {
			next.prev = nil
		}
		entity.prev = nil
		entity.next = nil
	}
}

// publishStateRoot rewrites entity's data record with a new stateRoot,
// leaving composition and components untouched, and must be called with
// statesMu held so it composes correctly with concurrent chain surgery.
func (c *Composition) publishStateRoot(entity *Entity, key *IndexKey) {
	d := *entity.Data()
	d.stateRoot = key
	entity.setData(d)
}

// StateRoot returns the current head entity of the chain for key, or nil if
// no entity is currently in that state.
func (c *Composition) StateRoot(key IndexKey) *Entity {
	c.statesMu.Lock()
	defer c.statesMu.Unlock()
	return c.states[key]
}

// Iterator returns a forward scan over this composition's own tenant, per
// spec.md §4.8: chunks from first to last, slots from high index to 0.
func (c *Composition) Iterator() *TenantIterator {
	return c.tenant.Iterator()
}

// StateIterator returns a state-chain walk over every entity currently in
// the state addressed by key, head to tail.
func (c *Composition) StateIterator(key IndexKey) *StateChainIterator {
	return newStateChainIterator(c.StateRoot(key))
}
