package dif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockguard/godif/format"
)

func TestNewContext_Defaults(t *testing.T) {
	c, err := NewContext(520, 8)
	require.NoError(t, err)

	assert.Equal(t, 520, c.BlockSize())
	assert.Equal(t, 8, c.MDSize())
	assert.Equal(t, 512, c.GuardInterval())
	assert.Equal(t, format.Disable, c.Type())
	assert.Equal(t, format.PIFormat16, c.PIFormat())
}

func TestNewContext_RejectsBlockSizeNotGreaterThanMDSize(t *testing.T) {
	_, err := NewContext(8, 8)
	require.Error(t, err)
}

func TestNewContext_RejectsMDSizeSmallerThanPIWhenChecksEnabled(t *testing.T) {
	_, err := NewContext(520, 4, WithGuardCheck())
	require.Error(t, err)
}

func TestNewContext_AllowsZeroMDSizeWithNoChecks(t *testing.T) {
	_, err := NewContext(512, 0)
	require.NoError(t, err)
}

func TestNewContext_RejectsInvalidPIFormat(t *testing.T) {
	_, err := NewContext(520, 8, WithPIFormat(format.PIFormat(99)))
	require.Error(t, err)
}

func TestNewContext_RejectsInvalidType(t *testing.T) {
	_, err := NewContext(520, 8, WithType(format.Type(99)))
	require.Error(t, err)
}

func TestNewContext_RefTagOffsetFromDataOffset(t *testing.T) {
	c, err := NewContext(520, 8, WithDataOffset(1024))
	require.NoError(t, err)
	assert.Equal(t, 2, c.refTagOffset)
}

func TestSetDataOffset_RecomputesRefTagOffset(t *testing.T) {
	c, err := NewContext(520, 8)
	require.NoError(t, err)

	c.SetDataOffset(1536)
	assert.Equal(t, 3, c.refTagOffset)
}

func TestSetRemappedInitRefTag(t *testing.T) {
	c, err := NewContext(520, 8, WithInitRefTag(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), c.remappedInitRefTag)

	c.SetRemappedInitRefTag(200)
	assert.Equal(t, uint64(200), c.remappedInitRefTag)
}

func TestPISlot_HeadVsTail(t *testing.T) {
	tail, err := NewContext(520, 16, WithPIFormat(format.PIFormat32))
	require.NoError(t, err)
	assert.Equal(t, 0, tail.piSlot()) // 16 - 16 = 0, tail coincides with head here

	head, err := NewContext(520, 24, WithPIFormat(format.PIFormat32), WithPILocation(format.PILocationHead))
	require.NoError(t, err)
	assert.Equal(t, 0, head.piSlot())

	tailWithTrailer, err := NewContext(520, 24, WithPIFormat(format.PIFormat32))
	require.NoError(t, err)
	assert.Equal(t, 8, tailWithTrailer.piSlot())
}
