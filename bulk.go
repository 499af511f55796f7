package dif

import (
	"fmt"

	"github.com/blockguard/godif/errs"
	"github.com/blockguard/godif/format"
	"github.com/blockguard/godif/internal/crc32c"
	"github.com/blockguard/godif/sgl"
)

func (c *Context) numBlocksInterleaved(payload sgl.List) (int, error) {
	total := payload.TotalLen()
	if total == 0 || total%c.blockSize != 0 {
		return 0, fmt.Errorf("%w: total=%d block_size=%d", errs.ErrSGLSizeMismatch, total, c.blockSize)
	}

	return total / c.blockSize, nil
}

func (c *Context) numBlocksData(data sgl.List) (int, error) {
	total := data.TotalLen()
	if total == 0 || total%c.guardInterval != 0 {
		return 0, fmt.Errorf("%w: total=%d guard_interval=%d", errs.ErrSGLSizeMismatch, total, c.guardInterval)
	}

	return total / c.guardInterval, nil
}

func (c *Context) numBlocksDIX(data, md sgl.List) (int, error) {
	n, err := c.numBlocksData(data)
	if err != nil {
		return 0, err
	}

	if md.TotalLen() != n*c.mdSize {
		return 0, fmt.Errorf("%w: md total=%d want=%d", errs.ErrSGLSizeMismatch, md.TotalLen(), n*c.mdSize)
	}

	return n, nil
}

// Generate writes freshly computed PI into every block of an interleaved
// payload.
func (c *Context) Generate(payload sgl.List) error {
	n, err := c.numBlocksInterleaved(payload)
	if err != nil {
		return err
	}

	it := sgl.New(payload)
	for i := range n {
		c.generateOne(c.interleavedView(it, i), i)
	}

	return nil
}

// Verify checks every block of an interleaved payload in ascending order,
// stopping at and reporting the first failure.
func (c *Context) Verify(payload sgl.List) (ErrorRecord, bool, error) {
	n, err := c.numBlocksInterleaved(payload)
	if err != nil {
		return ErrorRecord{}, false, err
	}

	it := sgl.New(payload)
	for i := range n {
		if rec, ok := c.verifyOne(c.interleavedView(it, i), i, false); !ok {
			return rec, false, nil
		}
	}

	return ErrorRecord{}, true, nil
}

// GenerateCopy reads data-only blocks from data and writes extended blocks
// to bounce, inserting freshly generated PI per block. When PRACT is set,
// the non-PI metadata bytes are synthesized as 0xFF first, matching the
// NVMe Protection-Information-Action simulation.
func (c *Context) GenerateCopy(data, bounce sgl.List) error {
	n, err := c.numBlocksData(data)
	if err != nil {
		return err
	}

	if m, err := c.numBlocksInterleaved(bounce); err != nil || m != n {
		return fmt.Errorf("%w: bounce list does not match data block count", errs.ErrSGLSizeMismatch)
	}

	dataIt := sgl.New(data)
	bounceIt := sgl.New(bounce)

	for i := range n {
		bv := c.interleavedView(bounceIt, i)
		sgl.CopyRange(bounceIt, bv.dataStart, dataIt, i*c.guardInterval, c.guardInterval)

		if c.flags.Has(format.PRACT) {
			c.pract(bv, i)
		} else {
			c.generateOne(bv, i)
		}
	}

	return nil
}

// VerifyCopy reads extended blocks from bounce, verifying PI as it passes,
// and writes the data-only region of each verified block to data. It stops
// and reports the first verification failure.
func (c *Context) VerifyCopy(bounce, data sgl.List) (ErrorRecord, bool, error) {
	n, err := c.numBlocksInterleaved(bounce)
	if err != nil {
		return ErrorRecord{}, false, err
	}

	if m, err := c.numBlocksData(data); err != nil || m != n {
		return ErrorRecord{}, false, fmt.Errorf("%w: data list does not match bounce block count", errs.ErrSGLSizeMismatch)
	}

	bounceIt := sgl.New(bounce)
	dataIt := sgl.New(data)

	for i := range n {
		bv := c.interleavedView(bounceIt, i)

		rec, ok := c.verifyOne(bv, i, false)
		if !ok {
			return rec, false, nil
		}

		sgl.CopyRange(dataIt, i*c.guardInterval, bounceIt, bv.dataStart, c.guardInterval)
	}

	return ErrorRecord{}, true, nil
}

// RemapRefTag rewrites every block's reference tag to the context's
// remapped initial tag (set via SetRemappedInitRefTag). When check is
// true, each block's original reference tag is verified before rewriting,
// and a mismatch aborts at the first offending block.
func (c *Context) RemapRefTag(payload sgl.List, check bool) (ErrorRecord, bool, error) {
	n, err := c.numBlocksInterleaved(payload)
	if err != nil {
		return ErrorRecord{}, false, err
	}

	it := sgl.New(payload)
	for i := range n {
		if rec, ok := c.remapOne(c.interleavedView(it, i), i, check); !ok {
			return rec, false, nil
		}
	}

	return ErrorRecord{}, true, nil
}

// InjectError flips one bit per requested flag, deterministically within
// block 0's corresponding region, and reports that block index.
// GUARD/APPTAG/REFTAG flips require a metadata region; DATA does not.
func (c *Context) InjectError(payload sgl.List, flags format.InjectFlags) (int, error) {
	if flags == 0 {
		return 0, errs.ErrNoInjectFlags
	}

	needsMD := flags.Has(format.InjectGuard) || flags.Has(format.InjectAppTag) || flags.Has(format.InjectRefTag)
	if needsMD && c.mdSize == 0 {
		return 0, errs.ErrNoMetadata
	}

	if _, err := c.numBlocksInterleaved(payload); err != nil {
		return 0, err
	}

	const blockIndex = 0
	it := sgl.New(payload)
	bv := c.interleavedView(it, blockIndex)

	if flags.Has(format.InjectGuard) {
		flipBit(it, bv.piOff)
	}
	if flags.Has(format.InjectAppTag) {
		flipBit(it, bv.piOff+c.appTagByteOffset())
	}
	if flags.Has(format.InjectRefTag) {
		flipBit(it, bv.piOff+c.refTagByteOffset())
	}
	if flags.Has(format.InjectData) {
		flipBit(it, bv.dataStart)
	}

	return blockIndex, nil
}

// UpdateCRC32C chains CRC-32C across an interleaved payload's data
// regions, folding into the caller's running seed. Each block contributes
// its guard_interval data bytes only; the PI/metadata trailers are skipped.
func (c *Context) UpdateCRC32C(payload sgl.List, seed uint32) (uint32, error) {
	n, err := c.numBlocksInterleaved(payload)
	if err != nil {
		return 0, err
	}

	it := sgl.New(payload)
	running := seed

	for i := range n {
		running = uint32(it.Fold(i*c.blockSize, c.guardInterval, uint64(running), func(s uint64, chunk []byte) uint64 {
			return uint64(crc32c.Update(uint32(s), chunk))
		}))
	}

	return running, nil
}

// DixGenerate is GenerateCopy's separate-metadata counterpart when the
// caller already has data-only blocks and an independent metadata buffer
// rather than a data-only/bounce pair: it writes PI directly into md.
func (c *Context) DixGenerate(data, md sgl.List) error {
	n, err := c.numBlocksDIX(data, md)
	if err != nil {
		return err
	}

	dataIt := sgl.New(data)
	mdIt := sgl.New(md)

	for i := range n {
		c.generateOne(c.dixView(dataIt, mdIt, i), i)
	}

	return nil
}

// DixVerify checks PI stored in a separate metadata buffer against the
// matching data-only buffer.
func (c *Context) DixVerify(data, md sgl.List) (ErrorRecord, bool, error) {
	n, err := c.numBlocksDIX(data, md)
	if err != nil {
		return ErrorRecord{}, false, err
	}

	dataIt := sgl.New(data)
	mdIt := sgl.New(md)

	for i := range n {
		if rec, ok := c.verifyOne(c.dixView(dataIt, mdIt, i), i, false); !ok {
			return rec, false, nil
		}
	}

	return ErrorRecord{}, true, nil
}

// DixRemapRefTag is RemapRefTag's separate-metadata counterpart: it
// rewrites the reference tag stored in md against the context's remapped
// initial tag, verifying against the original first when check is true.
func (c *Context) DixRemapRefTag(data, md sgl.List, check bool) (ErrorRecord, bool, error) {
	n, err := c.numBlocksDIX(data, md)
	if err != nil {
		return ErrorRecord{}, false, err
	}

	dataIt := sgl.New(data)
	mdIt := sgl.New(md)

	for i := range n {
		if rec, ok := c.remapOne(c.dixView(dataIt, mdIt, i), i, check); !ok {
			return rec, false, nil
		}
	}

	return ErrorRecord{}, true, nil
}

// DixInjectError is InjectError's separate-metadata counterpart.
func (c *Context) DixInjectError(data, md sgl.List, flags format.InjectFlags) (int, error) {
	if flags == 0 {
		return 0, errs.ErrNoInjectFlags
	}

	needsMD := flags.Has(format.InjectGuard) || flags.Has(format.InjectAppTag) || flags.Has(format.InjectRefTag)
	if needsMD && c.mdSize == 0 {
		return 0, errs.ErrNoMetadata
	}

	if _, err := c.numBlocksDIX(data, md); err != nil {
		return 0, err
	}

	const blockIndex = 0
	dataIt := sgl.New(data)
	mdIt := sgl.New(md)
	bv := c.dixView(dataIt, mdIt, blockIndex)

	if flags.Has(format.InjectGuard) {
		flipBit(mdIt, bv.piOff)
	}
	if flags.Has(format.InjectAppTag) {
		flipBit(mdIt, bv.piOff+c.appTagByteOffset())
	}
	if flags.Has(format.InjectRefTag) {
		flipBit(mdIt, bv.piOff+c.refTagByteOffset())
	}
	if flags.Has(format.InjectData) {
		flipBit(dataIt, bv.dataStart)
	}

	return blockIndex, nil
}
