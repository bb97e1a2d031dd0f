package classindex

import (
	"reflect"
	"testing"
)

type foo struct{}
type bar struct{}

func TestGetOrCreateAssignsDenseIndices(t *testing.T) {
	idx := New(8)
	fooType := reflect.TypeOf(foo{})
	barType := reflect.TypeOf(bar{})

	i1, err := idx.GetOrCreate(fooType)
	if err != nil {
		t.Fatal(err)
	}
	if i1 != 1 {
		t.Fatalf("first interned index = %d, want 1 (0 is the absent sentinel)", i1)
	}
	i2, err := idx.GetOrCreate(barType)
	if err != nil {
		t.Fatal(err)
	}
	if i2 != 2 {
		t.Fatalf("second interned index = %d, want 2", i2)
	}
	again, err := idx.GetOrCreate(fooType)
	if err != nil {
		t.Fatal(err)
	}
	if again != i1 {
		t.Fatalf("re-interning foo returned %d, want %d", again, i1)
	}
}

func TestGetIndexOfUnknownTypeIsZero(t *testing.T) {
	idx := New(8)
	if got := idx.GetIndex(reflect.TypeOf(foo{})); got != 0 {
		t.Fatalf("GetIndex of unknown type = %d, want 0", got)
	}
}

func TestGetOrCreateFullCapacity(t *testing.T) {
	idx := New(2) // index 0 reserved, only one real slot (index 1)
	if _, err := idx.GetOrCreate(reflect.TypeOf(foo{})); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.GetOrCreate(reflect.TypeOf(bar{})); err == nil {
		t.Fatal("expected capacity error, got nil")
	}
}

func TestTypeOfRoundTrip(t *testing.T) {
	idx := New(8)
	fooType := reflect.TypeOf(foo{})
	i, err := idx.GetOrCreate(fooType)
	if err != nil {
		t.Fatal(err)
	}
	if got := idx.TypeOf(i); got != fooType {
		t.Fatalf("TypeOf(%d) = %v, want %v", i, got, fooType)
	}
}
