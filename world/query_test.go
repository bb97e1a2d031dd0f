package world

import (
	"reflect"
	"testing"
)

type health struct{ HP int }
type tag struct{ Name string }

func TestFindComponentsMatchesOnlyCompositionsCarryingTheType(t *testing.T) {
	w, err := Create()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.CreateEntity(&position{X: 1}, &health{HP: 10}); err != nil {
		t.Fatal(err)
	}
	if _, err := w.CreateEntity(&position{X: 2}); err != nil {
		t.Fatal(err)
	}

	res := Select1[*health](w.FindComponents(reflect.TypeOf(&health{})))
	count := 0
	for res.HasNext() {
		h, e := res.Next()
		if e == nil {
			continue
		}
		if h.HP != 10 {
			t.Errorf("expected HP 10, got %d", h.HP)
		}
		count++
	}
	if count != 1 {
		t.Errorf("expected exactly 1 matching entity, got %d", count)
	}
}

func TestFilterExcludesCompositionsCarryingTheExcludedType(t *testing.T) {
	w, err := Create()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.CreateEntity(&position{X: 1}, &tag{Name: "enemy"}); err != nil {
		t.Fatal(err)
	}
	plain, err := w.CreateEntity(&position{X: 2})
	if err != nil {
		t.Fatal(err)
	}

	filtered := w.FindComponents().Filter(reflect.TypeOf(&tag{}))

	res := Select1[*position](filtered)
	count := 0
	for res.HasNext() {
		_, e := res.Next()
		if e == nil {
			continue
		}
		if e != plain {
			t.Error("expected only the tag-less entity to match")
		}
		count++
	}
	if count != 1 {
		t.Errorf("expected exactly 1 matching entity, got %d", count)
	}
}
