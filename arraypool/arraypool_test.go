package arraypool

import "testing"

func TestGetReturnsRequestedLength(t *testing.T) {
	p := New(6)
	s := p.Get(3)
	if len(s) != 3 {
		t.Fatalf("len = %d, want 3", len(s))
	}
}

func TestPushClearsBeforeRecycling(t *testing.T) {
	p := New(6)
	s := p.Get(2)
	s[0], s[1] = "a", 7
	p.Push(s)
	recycled := p.Get(2)
	for i, v := range recycled {
		if v != nil {
			t.Fatalf("recycled[%d] = %v, want nil (not cleared)", i, v)
		}
	}
}

func TestGetZeroLengthReturnsNil(t *testing.T) {
	p := New(6)
	if s := p.Get(0); s != nil {
		t.Fatalf("Get(0) = %v, want nil", s)
	}
}

func TestLengthsAboveMaxBypassPool(t *testing.T) {
	p := New(2)
	s := p.Get(5)
	if len(s) != 5 {
		t.Fatalf("len = %d, want 5", len(s))
	}
	p.Push(s) // must not panic even though it is never actually pooled
}
