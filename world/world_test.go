package world

import (
	"testing"

	"github.com/keystone-ecs/ecs"
	"github.com/keystone-ecs/ecs/config"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }

func TestCreateUsesDefaultProvider(t *testing.T) {
	w, err := Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.Name() != "default" {
		t.Errorf("expected name %q, got %q", "default", w.Name())
	}
}

func TestCreateNamedUnknownFactory(t *testing.T) {
	if _, err := CreateNamed("does-not-exist"); err != ecs.ErrUnknownFactory {
		t.Errorf("expected ErrUnknownFactory, got %v", err)
	}
}

func TestCreateRejectsInvalidConfig(t *testing.T) {
	if _, err := Create(config.WithChunkBit(4)); err == nil {
		t.Error("expected an error for an out-of-range chunk bit")
	}
}

func TestCreateEntityInternsOneCompositionPerShape(t *testing.T) {
	w, err := Create()
	if err != nil {
		t.Fatal(err)
	}
	a, err := w.CreateEntity(&position{X: 1}, &velocity{X: 2})
	if err != nil {
		t.Fatal(err)
	}
	b, err := w.CreateEntity(&velocity{X: 3}, &position{X: 4}) // reversed order
	if err != nil {
		t.Fatal(err)
	}
	if a.Composition() != b.Composition() {
		t.Error("expected both entities to share one composition regardless of argument order")
	}
}

func TestCreateEntityAsRejectsTypeMismatch(t *testing.T) {
	w, err := Create()
	if err != nil {
		t.Fatal(err)
	}
	prefab, err := w.CreateEntity(&position{}, &velocity{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.CreateEntityAs(prefab, &position{}); err != ecs.ErrUnknownComponentType {
		t.Errorf("expected ErrUnknownComponentType, got %v", err)
	}
}

func TestCreateEntityAsSharesComposition(t *testing.T) {
	w, err := Create()
	if err != nil {
		t.Fatal(err)
	}
	prefab, err := w.CreateEntity(&position{X: 1}, &velocity{X: 2})
	if err != nil {
		t.Fatal(err)
	}
	clone, err := w.CreateEntityAs(prefab, &position{X: 9}, &velocity{X: 9})
	if err != nil {
		t.Fatal(err)
	}
	if clone.Composition() != prefab.Composition() {
		t.Error("expected clone to share prefab's composition")
	}
}

func TestDeleteEntityRemovesItFromScans(t *testing.T) {
	w, err := Create()
	if err != nil {
		t.Fatal(err)
	}
	e, err := w.CreateEntity(&position{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	w.DeleteEntity(e)

	res := Select1[*position](w.FindComponents())
	for res.HasNext() {
		if _, got := res.Next(); got == e {
			t.Error("expected deleted entity to be absent from scan")
		}
	}
}

func TestResourcesAndEventsAreWorldScoped(t *testing.T) {
	w, err := Create()
	if err != nil {
		t.Fatal(err)
	}
	w.Resources().Add(&position{X: 42})
	if !w.Resources().Has(0) {
		t.Error("expected resource registered on this world's registry")
	}

	received := 0
	Subscribe(w.Events(), func(n int) { received = n })
	Publish(w.Events(), 7)
	if received != 7 {
		t.Errorf("expected 7, got %d", received)
	}
}
