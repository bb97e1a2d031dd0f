package ecs

import "testing"

func TestIdSchemaRoundTrip(t *testing.T) {
	s := NewIdSchema(8)
	if s.ChunkCount() != 1<<23 {
		t.Fatalf("chunkCount = %d, want %d", s.ChunkCount(), 1<<23)
	}
	if s.ChunkCapacity() != 256 {
		t.Fatalf("chunkCapacity = %d, want 256", s.ChunkCapacity())
	}
	for _, tc := range []struct {
		chunk, object uint32
	}{
		{0, 0},
		{3, 17},
		{1, 0},
		{s.ChunkCount() - 1, s.ChunkCapacity() - 1},
	} {
		id := s.Pack(tc.chunk, tc.object)
		if got := s.ChunkOf(id); got != tc.chunk {
			t.Errorf("ChunkOf(Pack(%d,%d)) = %d, want %d", tc.chunk, tc.object, got, tc.chunk)
		}
		if got := s.ObjectOf(id); got != tc.object {
			t.Errorf("ObjectOf(Pack(%d,%d)) = %d, want %d", tc.chunk, tc.object, got, tc.object)
		}
		if s.IsDetached(id) {
			t.Errorf("Pack(%d,%d) unexpectedly detached", tc.chunk, tc.object)
		}
	}
}

func TestIdSchemaPackLiteral(t *testing.T) {
	s := NewIdSchema(8)
	id := s.Pack(3, 17)
	if id != 785 {
		t.Fatalf("Pack(3,17) = %d, want 785", id)
	}
	if s.ChunkOf(id) != 3 || s.ObjectOf(id) != 17 {
		t.Fatalf("round-trip mismatch for id %d", id)
	}
}

func TestIdSchemaDetachedFlag(t *testing.T) {
	s := NewIdSchema(8)
	id := s.Pack(1, 1)
	detached := s.SetDetached(id)
	if !s.IsDetached(detached) {
		t.Fatal("SetDetached did not set the detached bit")
	}
	if s.ChunkOf(detached) != 1 || s.ObjectOf(detached) != 1 {
		t.Fatal("SetDetached must not disturb chunk/object fields")
	}
}

func TestIdSchemaMaxChunkBitClampsCapacity(t *testing.T) {
	s := NewIdSchema(MaxChunkBit)
	if s.ChunkCapacity() != 1<<MaxChunkBit {
		t.Fatalf("chunkCapacity = %d, want %d", s.ChunkCapacity(), 1<<MaxChunkBit)
	}
}
