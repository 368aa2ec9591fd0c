package slab

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Grow(t *testing.T) {
	s := NewStore[int64](4, false)
	assert.Equal(t, 0, s.Segments())
	assert.Equal(t, 0, s.Capacity())

	slots := s.Grow()
	require.Len(t, slots, 4)
	assert.Equal(t, 1, s.Segments())
	assert.Equal(t, 4, s.Capacity())

	seen := make(map[*int64]bool)
	for i, slot := range slots {
		require.NotNil(t, slot.Ptr)
		require.False(t, seen[slot.Ptr], "duplicate slot pointer")
		seen[slot.Ptr] = true
		assert.Equal(t, uint32(i), slot.Index)
	}

	more := s.Grow()
	require.Len(t, more, 4)
	assert.Equal(t, 2, s.Segments())
	assert.Equal(t, 8, s.Capacity())
	for i, slot := range more {
		assert.Equal(t, uint32(4+i), slot.Index)
		require.False(t, seen[slot.Ptr], "slot shared between segments")
	}
}

func TestStore_StableAddresses(t *testing.T) {
	s := NewStore[int64](2, false)

	first := s.Grow()
	*first[0].Ptr = 1234

	// Growth must never relocate existing segments.
	ptr := first[0].Ptr
	for i := 0; i < 16; i++ {
		s.Grow()
	}
	assert.Same(t, ptr, first[0].Ptr)
	assert.Equal(t, int64(1234), *ptr)
}

func TestStore_Stride(t *testing.T) {
	t.Run("unaligned is dense", func(t *testing.T) {
		s := NewStore[int64](4, false)
		assert.Equal(t, unsafe.Sizeof(int64(0)), s.SlotBytes())

		slots := s.Grow()
		a := uintptr(unsafe.Pointer(slots[0].Ptr))
		b := uintptr(unsafe.Pointer(slots[1].Ptr))
		assert.Equal(t, unsafe.Sizeof(int64(0)), b-a)
	})

	t.Run("aligned stride is a line multiple", func(t *testing.T) {
		s := NewStore[int64](4, true)
		assert.Zero(t, s.SlotBytes()%CacheLineBytes)

		slots := s.Grow()
		lines := make(map[uintptr]bool)
		for _, slot := range slots {
			lines[uintptr(unsafe.Pointer(slot.Ptr))/CacheLineBytes] = true
		}
		// Stride separation guarantees one line per slot even when the
		// segment base itself is not line-aligned.
		assert.Len(t, lines, 4)
	})

	t.Run("large element already line multiple", func(t *testing.T) {
		type wide struct {
			_ [128]byte
		}
		s := NewStore[wide](2, true)
		assert.Equal(t, unsafe.Sizeof(wide{}), s.SlotBytes())
	})
}

func TestStore_Bytes(t *testing.T) {
	s := NewStore[int64](8, false)
	assert.Equal(t, uintptr(64), s.SegmentBytes())
	assert.Zero(t, s.BytesReserved())

	s.Grow()
	s.Grow()
	assert.Equal(t, uintptr(128), s.BytesReserved())
}

func TestStore_Release(t *testing.T) {
	s := NewStore[int64](4, false)
	s.Grow()
	s.Grow()

	s.Release()
	assert.Equal(t, 0, s.Segments())
	assert.Zero(t, s.BytesReserved())
}
