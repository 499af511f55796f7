package crc32c

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdate_ChainsLikeWholeBuffer(t *testing.T) {
	data := []byte("0123456789abcdef0123456789abcdef")
	whole := Checksum(0xFFFFFFFF, data)

	split := len(data) / 3
	partial := Update(0xFFFFFFFF, data[:split])
	chained := Update(partial, data[split:])

	assert.Equal(t, whole, chained)
}

func TestChecksum_DifferentSeedsDiffer(t *testing.T) {
	data := []byte("payload")
	assert.NotEqual(t, Checksum(0, data), Checksum(0xFFFFFFFF, data))
}
