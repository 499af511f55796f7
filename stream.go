package dif

import (
	"github.com/blockguard/godif/errs"
	"github.com/blockguard/godif/internal/crc32c"
	"github.com/blockguard/godif/sgl"
)

// GenerateStream generates PI incrementally as data arrives in
// arbitrarily-sized fragments that need not align to block boundaries.
// data is this call's slice of the logical payload, continuing from the
// context's current DataOffset; md is the full metadata buffer for the
// whole logical I/O, indexed by block. The context is not
// re-entrant: a call made while the context's in-progress flag is set
// fails immediately with ErrStreamInProgress. The flag is a plain field,
// not synchronized, so it does not make calls from several goroutines on
// the same context safe.
func (c *Context) GenerateStream(data sgl.List, md sgl.List) error {
	if c.streaming {
		return errs.ErrStreamInProgress
	}
	c.streaming = true
	defer func() { c.streaming = false }()

	dataIt := sgl.New(data)
	mdIt := sgl.New(md)

	remaining := data.TotalLen()
	localOff := 0

	for remaining > 0 {
		block := c.dataOffset / c.guardInterval
		pos := c.dataOffset % c.guardInterval
		take := min(remaining, c.guardInterval-pos)

		seed := c.guardSeed
		if pos > 0 {
			seed = c.lastGuard
		}

		acc := dataIt.Fold(localOff, take, seed, c.crcFold)

		if pos+take == c.guardInterval {
			c.finalizeGenerate(mdIt, block, acc)
			c.lastGuard = c.guardSeed
		} else {
			c.lastGuard = acc
		}

		c.dataOffset += take
		localOff += take
		remaining -= take
	}

	return nil
}

// VerifyStream checks PI incrementally as data arrives, mirroring
// GenerateStream's block-boundary bookkeeping, and stops at the first
// failing block without consuming the rest of data.
func (c *Context) VerifyStream(data sgl.List, md sgl.List) (ErrorRecord, bool, error) {
	if c.streaming {
		return ErrorRecord{}, false, errs.ErrStreamInProgress
	}
	c.streaming = true
	defer func() { c.streaming = false }()

	dataIt := sgl.New(data)
	mdIt := sgl.New(md)

	remaining := data.TotalLen()
	localOff := 0

	for remaining > 0 {
		block := c.dataOffset / c.guardInterval
		pos := c.dataOffset % c.guardInterval
		take := min(remaining, c.guardInterval-pos)

		seed := c.guardSeed
		if pos > 0 {
			seed = c.lastGuard
		}

		acc := dataIt.Fold(localOff, take, seed, c.crcFold)

		if pos+take == c.guardInterval {
			if rec, ok := c.finalizeVerify(mdIt, block, acc); !ok {
				return rec, false, nil
			}
			c.lastGuard = c.guardSeed
		} else {
			c.lastGuard = acc
		}

		c.dataOffset += take
		localOff += take
		remaining -= take
	}

	return ErrorRecord{}, true, nil
}

// UpdateCRC32CStream chains CRC-32C over data, a slice of a data-only
// payload, returning the updated running value as an out parameter rather
// than storing it in the context: this operation doesn't use DataOffset or
// the per-block guard state at all, since a data-only buffer carries no
// per-block metadata to skip over.
func (c *Context) UpdateCRC32CStream(data sgl.List, seed uint32) uint32 {
	it := sgl.New(data)

	return uint32(it.Fold(0, data.TotalLen(), uint64(seed), func(s uint64, chunk []byte) uint64 {
		return uint64(crc32c.Update(uint32(s), chunk))
	}))
}
