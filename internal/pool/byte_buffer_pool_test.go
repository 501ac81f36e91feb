package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Basics(t *testing.T) {
	bb := NewByteBuffer(128)

	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 128)

	n, err := bb.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{1, 2, 3}, bb.Bytes())
	require.Equal(t, 3, bb.Len())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 128, "Reset must keep capacity")
}

func TestByteBuffer_SetLength(t *testing.T) {
	bb := NewByteBuffer(16)

	bb.SetLength(8)
	require.Equal(t, 8, bb.Len())

	require.Panics(t, func() { bb.SetLength(-1) })
	require.Panics(t, func() { bb.SetLength(bb.Cap() + 1) })
}

func TestByteBuffer_Extend(t *testing.T) {
	bb := NewByteBuffer(16)

	require.True(t, bb.Extend(10))
	require.Equal(t, 10, bb.Len())

	// Beyond capacity Extend must refuse without growing.
	require.False(t, bb.Extend(bb.Cap()))
	require.Equal(t, 10, bb.Len())
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(8)

	bb.ExtendOrGrow(4)
	require.Equal(t, 4, bb.Len())

	// Larger than capacity: must grow and extend.
	bb.ExtendOrGrow(1024)
	require.Equal(t, 4+1024, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 4+1024)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("no-op with sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(64)
		before := bb.Cap()
		bb.Grow(8)
		require.Equal(t, before, bb.Cap())
	})

	t.Run("preserves contents", func(t *testing.T) {
		bb := NewByteBuffer(4)
		_, _ = bb.Write([]byte{9, 8, 7})
		bb.Grow(1 << 20)
		require.Equal(t, []byte{9, 8, 7}, bb.Bytes())
		require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 1<<20)
	})

	t.Run("large buffers grow proportionally", func(t *testing.T) {
		bb := NewByteBuffer(8 * ChunkBufferDefaultSize)
		bb.SetLength(bb.Cap())
		before := bb.Cap()
		bb.Grow(1)
		require.GreaterOrEqual(t, bb.Cap(), before+before/4)
	})
}

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(32, 1024)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	_, _ = bb.Write([]byte{1, 2, 3})
	p.Put(bb)

	// Reused buffers come back empty.
	bb2 := p.Get()
	require.Equal(t, 0, bb2.Len())
	p.Put(bb2)

	// nil Put is a no-op.
	p.Put(nil)
}

func TestByteBufferPool_Threshold(t *testing.T) {
	p := NewByteBufferPool(32, 64)

	bb := p.Get()
	bb.Grow(1024)
	require.Greater(t, bb.Cap(), 64)

	// Oversized buffers must not be retained.
	p.Put(bb)
}

func TestChunkBufferHelpers(t *testing.T) {
	bb := GetChunkBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	bb.ExtendOrGrow(4096)
	require.Equal(t, 4096, bb.Len())

	PutChunkBuffer(bb)
	PutChunkBuffer(nil)
}
