package dif

import "github.com/blockguard/godif/errs"

// LengthWithMD returns the extended-buffer length needed to hold dataLen
// bytes of data interleaved with per-block metadata: full blocks cost
// block_size each, and a trailing partial block still reserves its full
// md_size trailer, since device blocks carry metadata at fixed granularity
// regardless of how much of the data region a caller has filled so far.
func (c *Context) LengthWithMD(dataLen int) int {
	fullBlocks := dataLen / c.guardInterval
	rem := dataLen % c.guardInterval

	total := fullBlocks * c.blockSize
	if rem > 0 {
		total += rem + c.mdSize
	}

	return total
}

// RangeWithMD maps a data-only byte range into the equivalent range of an
// interleaved extended buffer: same blocks, same within-block positions,
// stepping over each fully-spanned block's metadata gap. Unlike
// LengthWithMD, a range ending partway through a block's data region does
// not reach into that block's trailing metadata, since the range describes
// bytes already addressed rather than buffer to allocate.
func (c *Context) RangeWithMD(dataOffset, dataLen int) (bufOffset, bufLen int) {
	startBlock := dataOffset / c.guardInterval
	startWithin := dataOffset % c.guardInterval
	bufOffset = startBlock*c.blockSize + startWithin

	end := dataOffset + dataLen
	endBlock := end / c.guardInterval
	endWithin := end % c.guardInterval

	bufEnd := endBlock * c.blockSize
	if endWithin != 0 {
		bufEnd += endWithin
	}

	return bufOffset, bufEnd - bufOffset
}

// SetMDInterleaveIovs fills iovs with one entry per block touched by
// [dataOffset, dataOffset+dataLen) of backing, each entry a sub-slice of
// backing covering only that block's data region, skipping the metadata
// gap between blocks. It returns the number of entries written and the
// total data bytes mapped. If iovs is too small to hold every entry the
// range requires, it returns errs.ErrShortIovecArray.
func (c *Context) SetMDInterleaveIovs(backing []byte, dataOffset, dataLen int, iovs [][]byte) (n int, mappedLen int, err error) {
	blockIdx := dataOffset / c.guardInterval
	within := dataOffset % c.guardInterval
	remaining := dataLen

	for remaining > 0 {
		if n >= len(iovs) {
			return n, mappedLen, errs.ErrShortIovecArray
		}

		take := min(remaining, c.guardInterval-within)
		base := blockIdx*c.blockSize + within
		iovs[n] = backing[base : base+take]

		n++
		mappedLen += take
		remaining -= take
		blockIdx++
		within = 0
	}

	return n, mappedLen, nil
}
