package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	bb := NewBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestBuffer_MustWrite(t *testing.T) {
	bb := NewBuffer(16)
	bb.MustWrite([]byte("hello"))
	assert.Equal(t, []byte("hello"), bb.Bytes())
}

func TestBuffer_Reset(t *testing.T) {
	bb := NewBuffer(BounceBufferDefaultSize)
	bb.MustWrite([]byte("some data"))
	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), BounceBufferDefaultSize)
}

func TestBuffer_SliceAndSetLength(t *testing.T) {
	bb := NewBuffer(8)
	bb.SetLength(8)
	copy(bb.Bytes(), []byte("abcdefgh"))

	assert.Equal(t, []byte("cdef"), bb.Slice(2, 6))
	assert.Panics(t, func() { bb.SetLength(-1) })
	assert.Panics(t, func() { bb.SetLength(100) })
}

func TestBuffer_Extend(t *testing.T) {
	bb := NewBuffer(4)
	bb.SetLength(2)

	assert.True(t, bb.Extend(2))
	assert.Equal(t, 4, bb.Len())
	assert.False(t, bb.Extend(1))
}

func TestBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewBuffer(2)
	bb.SetLength(2)
	bb.ExtendOrGrow(10)

	assert.Equal(t, 12, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), 12)
}

func TestBuffer_Grow_NoOpWhenCapacitySufficient(t *testing.T) {
	bb := NewBuffer(64)
	bb.Grow(10)
	assert.Equal(t, 64, bb.Cap())
}

func TestBuffer_Grow_SmallBufferGrowsByDefaultStep(t *testing.T) {
	bb := NewBuffer(0)
	bb.Grow(1)
	assert.GreaterOrEqual(t, bb.Cap(), BounceBufferDefaultSize)
}

func TestBuffer_WriteAndWriteTo(t *testing.T) {
	bb := NewBuffer(0)
	n, err := bb.Write([]byte("staged block"))
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	var out bytes.Buffer
	written, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(12), written)
	assert.Equal(t, "staged block", out.String())
}

func TestBufferPool_GetPutRoundTrip(t *testing.T) {
	p := NewBufferPool(16, 64)

	bb := p.Get()
	bb.MustWrite([]byte("x"))
	p.Put(bb)

	again := p.Get()
	assert.Equal(t, 0, again.Len(), "pooled buffers are reset before reuse")
}

func TestBufferPool_DiscardsOversizedBuffers(t *testing.T) {
	p := NewBufferPool(4, 8)

	bb := p.Get()
	bb.Grow(100)
	require.Greater(t, bb.Cap(), 8)

	p.Put(bb)

	again := p.Get()
	assert.LessOrEqual(t, again.Cap(), 8, "oversized buffer should not have been retained")
}

func TestBufferPool_PutNilIsNoop(t *testing.T) {
	p := NewBufferPool(4, 8)
	assert.NotPanics(t, func() { p.Put(nil) })
}

func TestPackageDefaultPool(t *testing.T) {
	bb := Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("block"))
	Put(bb)

	again := Get()
	assert.Equal(t, 0, again.Len())
	Put(again)
}
