package ecs

import (
	"reflect"
	"testing"

	"github.com/keystone-ecs/ecs/arraypool"
	"github.com/keystone-ecs/ecs/classindex"
	"github.com/keystone-ecs/ecs/logging"
)

type foo struct{ F int }
type bar struct{ B int }

type testState int32

func (s testState) Ordinal() int32 { return int32(s) }

const (
	stateIdle testState = iota
	stateActive
)

func newTestComposition(t *testing.T, pool *ChunkedPool, classIdx *classindex.Index, arrPool *arraypool.Pool, types ...reflect.Type) *Composition {
	t.Helper()
	c, err := NewComposition(pool, classIdx, arrPool, logging.NewContext(nil, logging.LevelDebug, "test"), types...)
	if err != nil {
		t.Fatalf("NewComposition: %v", err)
	}
	return c
}

func TestCompositionCreateAndDeleteEntity(t *testing.T) {
	pool := NewChunkedPool(NewIdSchema(8))
	classIdx := classindex.New(0)
	arrPool := arraypool.New(6)
	compFoo := newTestComposition(t, pool, classIdx, arrPool, typeFor[foo]())

	e, err := compFoo.CreateEntity(foo{F: 1})
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	if e.Composition() != compFoo {
		t.Fatalf("entity's composition = %v, want compFoo", e.Composition())
	}
	if got := pool.entityOf(e.ID()); got != e {
		t.Fatalf("entityOf(id) = %v, want e", got)
	}

	compFoo.DeleteEntity(e)
	if !NewIdSchema(8).IsDetached(e.ID()) {
		t.Fatal("entity id not flagged detached after delete")
	}
	if e.Data().composition != nil {
		t.Fatal("entity data not cleared after delete")
	}
}

// TestCompositionMigration walks spec.md §8 scenario 4: A={Foo} -> B={Foo,Bar}.
func TestCompositionMigration(t *testing.T) {
	pool := NewChunkedPool(NewIdSchema(8))
	classIdx := classindex.New(0)
	arrPool := arraypool.New(6)
	compA := newTestComposition(t, pool, classIdx, arrPool, typeFor[foo]())
	compB := newTestComposition(t, pool, classIdx, arrPool, typeFor[foo](), typeFor[bar]())

	e, err := compA.CreateEntity(foo{F: 1})
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	oldID := e.ID()

	if _, err := compB.AttachComponents(e, bar{B: 2}); err != nil {
		t.Fatalf("AttachComponents: %v", err)
	}

	if e.Composition() != compB {
		t.Fatalf("composition after migration = %v, want compB", e.Composition())
	}
	want := []any{foo{F: 1}, bar{B: 2}}
	if got := e.Components(); !reflect.DeepEqual(got, want) {
		t.Fatalf("components after migration = %v, want %v", got, want)
	}
	if pool.getChunk(oldID).load(oldID) != nil {
		t.Fatal("old chunk slot not cleared after migration")
	}
	if compA.tenant.idStack.len() == 0 {
		t.Fatal("old id not recycled onto source tenant's idStack")
	}
}

// TestCompositionMigrationToSingleColumn covers attaching an entity's first
// component, A={} -> B={Foo}: the destination chunk.add call must still
// write addedComponent into its sole column even though a one-component
// destination has nothing to disambiguate via addedIndexMapping.
func TestCompositionMigrationToSingleColumn(t *testing.T) {
	pool := NewChunkedPool(NewIdSchema(8))
	classIdx := classindex.New(0)
	arrPool := arraypool.New(6)
	compA := newTestComposition(t, pool, classIdx, arrPool)
	compB := newTestComposition(t, pool, classIdx, arrPool, typeFor[foo]())

	e, err := compA.CreateEntity()
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}

	if _, err := compB.AttachComponents(e, foo{F: 7}); err != nil {
		t.Fatalf("AttachComponents: %v", err)
	}

	if e.Composition() != compB {
		t.Fatalf("composition after migration = %v, want compB", e.Composition())
	}
	want := []any{foo{F: 7}}
	if got := e.Components(); !reflect.DeepEqual(got, want) {
		t.Fatalf("components after migration = %v, want %v", got, want)
	}
}

// TestCompositionStateChain walks spec.md §8 scenario 5.
func TestCompositionStateChain(t *testing.T) {
	pool := NewChunkedPool(NewIdSchema(8))
	classIdx := classindex.New(0)
	arrPool := arraypool.New(6)
	comp := newTestComposition(t, pool, classIdx, arrPool, typeFor[foo]())

	e1, _ := comp.CreateEntity(foo{F: 1})
	e2, _ := comp.CreateEntity(foo{F: 2})
	e3, _ := comp.CreateEntity(foo{F: 3})

	if err := comp.SetState(e1, stateActive); err != nil {
		t.Fatalf("SetState e1: %v", err)
	}
	if err := comp.SetState(e2, stateActive); err != nil {
		t.Fatalf("SetState e2: %v", err)
	}
	if err := comp.SetState(e3, stateActive); err != nil {
		t.Fatalf("SetState e3: %v", err)
	}

	key, err := comp.indexKeyOf(stateActive)
	if err != nil {
		t.Fatalf("indexKeyOf: %v", err)
	}
	if head := comp.StateRoot(key); head != e3 {
		t.Fatalf("head = %v, want e3", head)
	}

	assertChain(t, comp, key, e3, e2, e1)

	if err := comp.SetState(e2, nil); err != nil {
		t.Fatalf("SetState e2 nil: %v", err)
	}
	assertChain(t, comp, key, e3, e1)
}

func assertChain(t *testing.T, comp *Composition, key IndexKey, want ...*Entity) {
	t.Helper()
	it := comp.StateIterator(key)
	var got []*Entity
	for it.HasNext() {
		got = append(got, it.Next())
	}
	if len(got) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chain[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCompositionSetStateIdempotent(t *testing.T) {
	pool := NewChunkedPool(NewIdSchema(8))
	classIdx := classindex.New(0)
	arrPool := arraypool.New(6)
	comp := newTestComposition(t, pool, classIdx, arrPool, typeFor[foo]())

	e1, _ := comp.CreateEntity(foo{F: 1})
	e2, _ := comp.CreateEntity(foo{F: 2})
	comp.SetState(e1, stateActive)
	comp.SetState(e2, stateActive)

	key, _ := comp.indexKeyOf(stateActive)
	assertChain(t, comp, key, e2, e1)

	if err := comp.SetState(e2, stateActive); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	assertChain(t, comp, key, e2, e1)
}

// TestIteratorSkipsMigratedEntity walks spec.md §8 scenario 6.
func TestIteratorSkipsMigratedEntity(t *testing.T) {
	pool := NewChunkedPool(NewIdSchema(8))
	classIdx := classindex.New(0)
	arrPool := arraypool.New(6)
	compA := newTestComposition(t, pool, classIdx, arrPool, typeFor[foo]())
	compB := newTestComposition(t, pool, classIdx, arrPool, typeFor[foo](), typeFor[bar]())

	e1, _ := compA.CreateEntity(foo{F: 1})
	e2, _ := compA.CreateEntity(foo{F: 2})

	// Scan the whole pool rather than just compA's own tenant, so a
	// migrated entity's slot is still live (in compB's chunk) when the
	// iterator reaches it: the skip must come from the composition
	// identity check, not from the chunk's usual null-slot skip.
	it := Select1[foo](compA, pool.AllEntities())

	if _, err := compB.AttachComponents(e2, bar{B: 9}); err != nil {
		t.Fatalf("AttachComponents: %v", err)
	}

	var seen []*Entity
	for it.HasNext() {
		_, e := it.Next()
		if e != nil {
			seen = append(seen, e)
		}
	}
	if len(seen) != 1 || seen[0] != e1 {
		t.Fatalf("seen = %v, want [e1] only (migrated e2 skipped)", seen)
	}
}
