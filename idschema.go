package ecs

import "fmt"

// IdSchema packs a chunk id, an object id and a detached flag into a single
// 32-bit value: |DETACHED(1)|CHUNK_ID(31-chunkBit)|OBJECT_ID(chunkBit)|.
//
// It is a pure value type: all operations are bit arithmetic, no allocation.
type IdSchema struct {
	chunkBit              int
	chunkCount            uint32
	chunkIDBitMask        uint32
	chunkIDBitMaskShifted uint32
	chunkCapacity         uint32
	objectIDBitMask       uint32
}

const (
	// TotalBits is the number of bits available to (chunkId, objectId)
	// once the detached flag claims bit 31.
	TotalBits = 31
	// MinChunkBit is the smallest allowed chunkBit.
	MinChunkBit = 8
	// MaxChunkBit is the largest allowed chunkBit.
	MaxChunkBit = 16
	// DetachedBitIndex is the bit position of the detached flag.
	DetachedBitIndex = 31
	// DetachedBit is the sentinel/flag value with only bit 31 set.
	DetachedBit uint32 = 1 << DetachedBitIndex
)

// NewIdSchema derives every mask and count from chunkBit. chunkBit must be
// within [MinChunkBit, MaxChunkBit]; callers at the façade layer are
// responsible for enforcing that before reaching this core.
func NewIdSchema(chunkBit int) IdSchema {
	chunkCount := uint32(1) << (TotalBits - chunkBit)
	chunkIDBitMask := chunkCount - 1
	return IdSchema{
		chunkBit:              chunkBit,
		chunkCount:            chunkCount,
		chunkIDBitMask:        chunkIDBitMask,
		chunkIDBitMaskShifted: chunkIDBitMask << chunkBit,
		chunkCapacity:         uint32(1) << min(chunkBit, MaxChunkBit),
		objectIDBitMask:       (uint32(1) << chunkBit) - 1,
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ChunkBit returns the number of bits reserved for the object id.
func (s IdSchema) ChunkBit() int { return s.chunkBit }

// ChunkCount is the number of distinct chunk ids this schema can address.
func (s IdSchema) ChunkCount() uint32 { return s.chunkCount }

// ChunkCapacity is the number of object slots per chunk.
func (s IdSchema) ChunkCapacity() uint32 { return s.chunkCapacity }

// Pack combines a chunk id and an object id into a packed handle with the
// detached flag clear.
func (s IdSchema) Pack(chunkID, objectID uint32) uint32 {
	return (chunkID&s.chunkIDBitMask)<<s.chunkBit | (objectID & s.objectIDBitMask)
}

// ChunkOf extracts the chunk id from a packed handle.
func (s IdSchema) ChunkOf(id uint32) uint32 {
	return (id >> s.chunkBit) & s.chunkIDBitMask
}

// ObjectOf extracts the object id from a packed handle.
func (s IdSchema) ObjectOf(id uint32) uint32 {
	return id & s.objectIDBitMask
}

// IsDetached reports whether the handle's detached flag is set.
func (s IdSchema) IsDetached(id uint32) bool {
	return id&DetachedBit != 0
}

// SetDetached returns id with the detached flag set.
func (s IdSchema) SetDetached(id uint32) uint32 {
	return id | DetachedBit
}

// String renders a packed id as "|detached:chunk:object|", matching the
// original engine's diagnostic format.
func (s IdSchema) String(id uint32) string {
	detached := (id & DetachedBit) >> DetachedBitIndex
	return fmt.Sprintf("|%d:%d:%d|", detached, s.ChunkOf(id), s.ObjectOf(id))
}
