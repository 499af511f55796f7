package dif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockguard/godif/format"
	"github.com/blockguard/godif/internal/testutil"
	"github.com/blockguard/godif/sgl"
)

// Streaming generate across two fragments that don't align
// to block boundaries must produce the same metadata as a bulk generate
// over the same 1024 data bytes (num_blocks=2, guard_interval=512).
func TestGenerateStream_MatchesBulkAcrossFragmentBoundary(t *testing.T) {
	data := testutil.Block(4, 1024)

	bulk, err := NewContext(520, 8,
		WithType(format.Type1), WithGuardCheck(), WithAppTagCheck(), WithRefTagCheck(),
		WithAppTag(0x55AA, 0xFFFF), WithInitRefTag(1))
	require.NoError(t, err)

	bulkMD := make([]byte, 8*2)
	require.NoError(t, bulk.DixGenerate(sgl.List{data}, sgl.List{bulkMD}))

	stream, err := NewContext(520, 8,
		WithType(format.Type1), WithGuardCheck(), WithAppTagCheck(), WithRefTagCheck(),
		WithAppTag(0x55AA, 0xFFFF), WithInitRefTag(1))
	require.NoError(t, err)

	streamMD := make([]byte, 8*2)

	require.NoError(t, stream.GenerateStream(sgl.List{data[0:300]}, sgl.List{streamMD}))
	require.NoError(t, stream.GenerateStream(sgl.List{data[300:1024]}, sgl.List{streamMD}))

	assert.Equal(t, bulkMD, streamMD)
}

func TestStreamEquivalence_ArbitraryFragmentPartitions(t *testing.T) {
	data := testutil.Block(9, 512*3)

	bulk, err := NewContext(520, 8,
		WithType(format.Type1), WithGuardCheck(), WithAppTagCheck(), WithRefTagCheck(),
		WithAppTag(0x1234, 0xFFFF), WithInitRefTag(7))
	require.NoError(t, err)

	bulkMD := make([]byte, 8*3)
	require.NoError(t, bulk.DixGenerate(sgl.List{data}, sgl.List{bulkMD}))

	cuts := [][]int{
		{512 * 3},
		{1, 1535},
		{100, 200, 300, 400, 500, 600},
		{512, 1024},
		{300, 700, 1000},
	}

	for _, cut := range cuts {
		stream, err := NewContext(520, 8,
			WithType(format.Type1), WithGuardCheck(), WithAppTagCheck(), WithRefTagCheck(),
			WithAppTag(0x1234, 0xFFFF), WithInitRefTag(7))
		require.NoError(t, err)

		streamMD := make([]byte, 8*3)

		prev := 0
		for _, c := range cut {
			require.NoError(t, stream.GenerateStream(sgl.List{data[prev:c]}, sgl.List{streamMD}))
			prev = c
		}
		require.NoError(t, stream.GenerateStream(sgl.List{data[prev:]}, sgl.List{streamMD}))

		assert.Equal(t, bulkMD, streamMD, "cuts=%v", cut)
	}
}

func TestVerifyStream_DetectsCorruptionAndStopsEarly(t *testing.T) {
	data := testutil.Block(21, 512*2)

	gen, err := NewContext(520, 8,
		WithType(format.Type1), WithGuardCheck(), WithAppTagCheck(), WithRefTagCheck(),
		WithAppTag(0x4242, 0xFFFF), WithInitRefTag(3))
	require.NoError(t, err)

	md := make([]byte, 8*2)
	require.NoError(t, gen.DixGenerate(sgl.List{data}, sgl.List{md}))

	corrupted := make([]byte, len(data))
	copy(corrupted, data)
	corrupted[0] ^= 0xFF

	verify, err := NewContext(520, 8,
		WithType(format.Type1), WithGuardCheck(), WithAppTagCheck(), WithRefTagCheck(),
		WithAppTag(0x4242, 0xFFFF), WithInitRefTag(3))
	require.NoError(t, err)

	rec, ok, err := verify.VerifyStream(sgl.List{corrupted[:300]}, sgl.List{md})
	require.NoError(t, err)
	assert.True(t, ok, "first fragment does not complete a block yet")

	rec, ok, err = verify.VerifyStream(sgl.List{corrupted[300:1024]}, sgl.List{md})
	require.NoError(t, err)
	require.False(t, ok)
	assert.Equal(t, format.ErrTypeGuard, rec.Type)
	assert.Equal(t, 0, rec.Offset)
}

func TestGenerateStream_NonzeroInitialDataOffset(t *testing.T) {
	// a context resumed two blocks into the logical I/O: the stream's block
	// indexing and reference tags both continue from that position.
	c, err := NewContext(520, 8,
		WithType(format.Type1), WithGuardCheck(), WithAppTagCheck(), WithRefTagCheck(),
		WithAppTag(0x9090, 0xFFFF), WithInitRefTag(100), WithDataOffset(1024))
	require.NoError(t, err)

	data := testutil.Block(6, 1024) // blocks 2 and 3 of the logical I/O
	md := make([]byte, 8*4)         // metadata for the whole I/O

	require.NoError(t, c.GenerateStream(sgl.List{data[:700]}, sgl.List{md}))
	require.NoError(t, c.GenerateStream(sgl.List{data[700:]}, sgl.List{md}))

	for i, want := range []uint32{102, 103} {
		off := (2+i)*8 + 4
		got := uint32(md[off])<<24 | uint32(md[off+1])<<16 | uint32(md[off+2])<<8 | uint32(md[off+3])
		assert.Equal(t, want, got, "block %d", 2+i)
	}
}

func TestGenerateStream_RejectsReentrantCall(t *testing.T) {
	c, err := NewContext(520, 8, WithType(format.Type1), WithGuardCheck())
	require.NoError(t, err)

	c.streaming = true
	err = c.GenerateStream(sgl.List{make([]byte, 512)}, sgl.List{make([]byte, 8)})
	require.Error(t, err)
}

func TestUpdateCRC32CStream_DoesNotTouchOffsetState(t *testing.T) {
	c, err := NewContext(520, 8)
	require.NoError(t, err)

	c.SetDataOffset(128)
	data := testutil.Block(1, 256)

	_ = c.UpdateCRC32CStream(sgl.List{data}, 0)
	assert.Equal(t, 128, c.dataOffset)
}
