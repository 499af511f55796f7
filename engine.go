package dif

import (
	"github.com/blockguard/godif/format"
	"github.com/blockguard/godif/internal/crc16"
	"github.com/blockguard/godif/internal/crc32c"
	"github.com/blockguard/godif/internal/crc64nvme"
	"github.com/blockguard/godif/pi"
	"github.com/blockguard/godif/sgl"
)

// blockView locates one block's data region and PI slot within whichever
// iterator(s) back the current operation: the same iterator for
// interleaved mode, or a data iterator paired with a separate metadata
// iterator for DIX mode.
type blockView struct {
	dataIt    *sgl.Iterator
	dataStart int
	piIt      *sgl.Iterator
	piOff     int
}

func (c *Context) interleavedView(it *sgl.Iterator, blockIndex int) blockView {
	return blockView{
		dataIt:    it,
		dataStart: blockIndex * c.blockSize,
		piIt:      it,
		piOff:     c.piOffsetInterleaved(blockIndex),
	}
}

func (c *Context) dixView(dataIt, mdIt *sgl.Iterator, blockIndex int) blockView {
	return blockView{
		dataIt:    dataIt,
		dataStart: blockIndex * c.guardInterval,
		piIt:      mdIt,
		piOff:     c.piOffsetDIX(blockIndex),
	}
}

// refTagWidthBits returns the number of low bits that participate in
// reference-tag comparison/generation for the context's type and format.
// TYPE1 and TYPE3 compare only the low 32 bits even in 64-bit PI format;
// TYPE2 compares the full field width, which is 48 bits wide in every
// format that carries a combined/extended reference tag. The "ignore"
// sentinel is all-ones across whatever width this returns for the active
// type, so the sentinel rule stays a single fixed contract rather than a
// per-format reinterpretation.
func (c *Context) refTagWidthBits() int {
	if c.piFormat == format.PIFormat16 {
		return 32
	}
	if c.difType == format.Type2 {
		return 48
	}

	return 32
}

func refTagMask(widthBits int) uint64 {
	return (uint64(1) << widthBits) - 1
}

func refTagSentinel(widthBits int) uint64 {
	return refTagMask(widthBits)
}

// expectedRefTag returns the reference tag block blockIndex should carry,
// using the remapped initial tag when useRemapped is set. blockIndex is
// relative to the payload; refTagOffset accounts for the payload's
// position within the logical I/O.
func (c *Context) expectedRefTag(blockIndex int, useRemapped bool) uint64 {
	base := c.initRefTag
	if useRemapped {
		base = c.remappedInitRefTag
	}

	width := c.refTagWidthBits()
	raw := base + uint64(c.refTagOffset) + uint64(blockIndex)

	return raw & refTagMask(width)
}

// streamRefTag returns the reference tag for an absolute block index, as
// tracked by the stream engine. The stream's block index is derived from
// the running data offset and so already includes the position within the
// logical I/O; adding refTagOffset on top would count it twice.
func (c *Context) streamRefTag(blockIndex int) uint64 {
	return (c.initRefTag + uint64(blockIndex)) & refTagMask(c.refTagWidthBits())
}

func (c *Context) piCodec() pi.Codec {
	return pi.CodecFor(c.piFormat)
}

// crcFold folds chunk into seed using whichever guard width the context's
// PI format calls for. It is the single per-chunk primitive shared by the
// bulk per-block guard computation and the stream engine, which can only
// feed it one fragment at a time as data arrives.
func (c *Context) crcFold(seed uint64, chunk []byte) uint64 {
	switch c.piFormat {
	case format.PIFormat16:
		return uint64(crc16.Checksum(uint16(seed), chunk))
	case format.PIFormat32:
		return uint64(crc32c.Checksum(uint32(seed), chunk))
	case format.PIFormat64:
		return crc64nvme.Checksum(seed, chunk)
	default:
		return 0
	}
}

func (c *Context) computeGuard(bv blockView) uint64 {
	return bv.dataIt.Fold(bv.dataStart, c.guardInterval, c.guardSeed, c.crcFold)
}

func (c *Context) readPI(bv blockView) pi.Tuple {
	codec := c.piCodec()
	size := codec.Size()

	var staging [16]byte
	buf := staging[:size]
	bv.piIt.ReadAt(bv.piOff, buf)

	return codec.Read(buf, 0)
}

func (c *Context) writePI(bv blockView, t pi.Tuple) {
	codec := c.piCodec()
	size := codec.Size()

	var staging [16]byte
	buf := staging[:size]
	codec.Write(buf, 0, t)
	bv.piIt.WriteAt(bv.piOff, buf)
}

// generateOne computes and writes the PI tuple for one block, as follows:
// guard is computed when GUARD_CHECK is set, else written as zero; the app
// tag is written when APPTAG_CHECK is set, else the existing stored value
// is preserved; the reference tag is the sentinel for TYPE3 regardless of
// REFTAG_CHECK, the computed value when REFTAG_CHECK is set, else zero.
func (c *Context) generateOne(bv blockView, blockIndex int) {
	old := c.readPI(bv)

	next := pi.Tuple{StorageTag: old.StorageTag}

	if c.flags.Has(format.GuardCheck) {
		next.Guard = c.computeGuard(bv)
	}

	if c.flags.Has(format.AppTagCheck) {
		next.AppTag = c.appTag
	} else {
		next.AppTag = old.AppTag
	}

	switch {
	case c.difType == format.Type3:
		next.RefTag = refTagSentinel(c.refTagWidthBits())
	case c.flags.Has(format.RefTagCheck):
		next.RefTag = c.expectedRefTag(blockIndex, false)
	default:
		next.RefTag = 0
	}

	c.writePI(bv, next)
}

// fullSkip reports whether the sentinel-suppression rule
// exempts the whole PI check for this block: the app tag alone suffices
// for DISABLED and TYPE2 (which has no ref-tag ignore semantics of its
// own), while TYPE1 and TYPE3 additionally require the stored reference
// tag to carry its sentinel before the guard check is also waived.
func (c *Context) fullSkip(stored pi.Tuple) bool {
	if stored.AppTag != format.AppTagIgnore {
		return false
	}

	if c.difType == format.Type1 || c.difType == format.Type3 {
		return stored.RefTag == refTagSentinel(c.refTagWidthBits())
	}

	return true
}

// verifyOne checks one block's PI in GUARD, then APPTAG, then REFTAG
// order, returning the first failing subcheck. ok is true when the block
// passed (including when the sentinel rule suppressed every subcheck).
func (c *Context) verifyOne(bv blockView, blockIndex int, useRemapped bool) (rec ErrorRecord, ok bool) {
	stored := c.readPI(bv)

	if c.fullSkip(stored) {
		return ErrorRecord{}, true
	}

	if c.flags.Has(format.GuardCheck) {
		actual := c.computeGuard(bv)
		if actual != stored.Guard {
			return ErrorRecord{Type: format.ErrTypeGuard, Expected: stored.Guard, Actual: actual, Offset: blockIndex}, false
		}
	}

	if c.flags.Has(format.AppTagCheck) && c.appTagMask != 0 && stored.AppTag != format.AppTagIgnore {
		want := c.appTag & c.appTagMask
		got := stored.AppTag & c.appTagMask
		if got != want {
			return ErrorRecord{Type: format.ErrTypeAppTag, Expected: uint64(want), Actual: uint64(got), Offset: blockIndex}, false
		}
	}

	if c.flags.Has(format.RefTagCheck) {
		width := c.refTagWidthBits()
		sentinel := refTagSentinel(width)

		skip := (c.difType == format.Type1 || c.difType == format.Type3) && stored.RefTag == sentinel
		if !skip {
			expected := c.expectedRefTag(blockIndex, useRemapped)
			actual := stored.RefTag & refTagMask(width)
			if actual != expected {
				return ErrorRecord{Type: format.ErrTypeRefTag, Expected: expected, Actual: actual, Offset: blockIndex}, false
			}
		}
	}

	return ErrorRecord{}, true
}

// remapOne rewrites block blockIndex's reference tag to the context's
// remapped initial tag, optionally verifying against the original tag
// first. Guard and app tag are preserved byte-for-byte: guard_interval
// excludes the PI region, so the stored guard remains valid.
func (c *Context) remapOne(bv blockView, blockIndex int, check bool) (ErrorRecord, bool) {
	if check {
		if rec, ok := c.verifyOneRefTagOnly(bv, blockIndex, false); !ok {
			return rec, false
		}
	}

	stored := c.readPI(bv)
	stored.RefTag = c.expectedRefTag(blockIndex, true)
	c.writePI(bv, stored)

	return ErrorRecord{}, true
}

// verifyOneRefTagOnly runs just the reference-tag subcheck against the
// original init_ref_tag, used by remapOne's pre-check.
func (c *Context) verifyOneRefTagOnly(bv blockView, blockIndex int, useRemapped bool) (ErrorRecord, bool) {
	stored := c.readPI(bv)
	width := c.refTagWidthBits()
	sentinel := refTagSentinel(width)

	if (c.difType == format.Type1 || c.difType == format.Type3) && stored.RefTag == sentinel {
		return ErrorRecord{}, true
	}

	expected := c.expectedRefTag(blockIndex, useRemapped)
	actual := stored.RefTag & refTagMask(width)
	if actual != expected {
		return ErrorRecord{Type: format.ErrTypeRefTag, Expected: expected, Actual: actual, Offset: blockIndex}, false
	}

	return ErrorRecord{}, true
}

// appTagByteOffset returns the byte offset, within the PI tuple, of the
// app tag field's first byte — format-dependent.
func (c *Context) appTagByteOffset() int {
	switch c.piFormat {
	case format.PIFormat16:
		return 2
	case format.PIFormat32:
		return 4
	default: // format.PIFormat64
		return 8
	}
}

// refTagByteOffset returns the byte offset, within the PI tuple, of the
// reference tag field's first significant byte — format-dependent.
func (c *Context) refTagByteOffset() int {
	switch c.piFormat {
	case format.PIFormat16:
		return 4
	default: // format32: 2 padding bytes precede the 6 significant bytes; format64: the 6-byte tag follows the app tag
		return 10
	}
}

// flipBit XORs bit 0 of the byte at absolute offset off within it.
func flipBit(it *sgl.Iterator, off int) {
	var b [1]byte
	it.ReadAt(off, b[:])
	b[0] ^= 0x01
	it.WriteAt(off, b[:])
}

// finalizeGenerate writes block blockIndex's PI into mdIt once the stream
// engine has finished folding that block's guard, without re-walking the
// data region the way generateOne's bulk path does (the stream engine
// never holds a whole block's data in one iterator call).
func (c *Context) finalizeGenerate(mdIt *sgl.Iterator, blockIndex int, guard uint64) {
	bv := blockView{piIt: mdIt, piOff: c.piOffsetDIX(blockIndex)}
	old := c.readPI(bv)

	next := pi.Tuple{StorageTag: old.StorageTag}
	if c.flags.Has(format.GuardCheck) {
		next.Guard = guard
	}

	if c.flags.Has(format.AppTagCheck) {
		next.AppTag = c.appTag
	} else {
		next.AppTag = old.AppTag
	}

	switch {
	case c.difType == format.Type3:
		next.RefTag = refTagSentinel(c.refTagWidthBits())
	case c.flags.Has(format.RefTagCheck):
		next.RefTag = c.streamRefTag(blockIndex)
	default:
		next.RefTag = 0
	}

	c.writePI(bv, next)
}

// finalizeVerify checks block blockIndex's PI against a guard already
// folded by the stream engine, in the same GUARD → APPTAG → REFTAG order
// and sentinel-suppression rule as verifyOne.
func (c *Context) finalizeVerify(mdIt *sgl.Iterator, blockIndex int, guard uint64) (ErrorRecord, bool) {
	bv := blockView{piIt: mdIt, piOff: c.piOffsetDIX(blockIndex)}
	stored := c.readPI(bv)

	if c.fullSkip(stored) {
		return ErrorRecord{}, true
	}

	if c.flags.Has(format.GuardCheck) && guard != stored.Guard {
		return ErrorRecord{Type: format.ErrTypeGuard, Expected: stored.Guard, Actual: guard, Offset: blockIndex}, false
	}

	if c.flags.Has(format.AppTagCheck) && c.appTagMask != 0 && stored.AppTag != format.AppTagIgnore {
		want := c.appTag & c.appTagMask
		got := stored.AppTag & c.appTagMask
		if got != want {
			return ErrorRecord{Type: format.ErrTypeAppTag, Expected: uint64(want), Actual: uint64(got), Offset: blockIndex}, false
		}
	}

	if c.flags.Has(format.RefTagCheck) {
		width := c.refTagWidthBits()
		sentinel := refTagSentinel(width)

		skip := (c.difType == format.Type1 || c.difType == format.Type3) && stored.RefTag == sentinel
		if !skip {
			expected := c.streamRefTag(blockIndex)
			actual := stored.RefTag & refTagMask(width)
			if actual != expected {
				return ErrorRecord{Type: format.ErrTypeRefTag, Expected: expected, Actual: actual, Offset: blockIndex}, false
			}
		}
	}

	return ErrorRecord{}, true
}

// pract synthesizes block blockIndex's metadata region on the bounce side
// of a generate_copy call: fill it with 0xFF, then write PI over the
// filled region, matching NVMe PRACT semantics.
func (c *Context) pract(bv blockView, blockIndex int) {
	mdStart := bv.dataStart + c.guardInterval
	if bv.piIt == bv.dataIt {
		bv.dataIt.Fill(mdStart, c.mdSize, 0xFF)
	} else {
		bv.piIt.Fill(blockIndex*c.mdSize, c.mdSize, 0xFF)
	}

	c.generateOne(bv, blockIndex)
}
