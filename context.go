// Package dif implements a Data Integrity Field / DIX codec for block
// storage payloads: per-block Protection Information (guard, application
// tag, reference tag) generation, verification, remapping, streaming and
// fault injection, driven through a scatter-gather view of the payload
// (package sgl) and a tagged-format PI codec (package pi).
package dif

import (
	"fmt"

	"github.com/blockguard/godif/errs"
	"github.com/blockguard/godif/format"
	"github.com/blockguard/godif/internal/options"
)

// Context holds the parameters of one DIF-protected I/O. It is built once
// with NewContext and is immutable for its lifetime except for DataOffset
// (SetDataOffset and the stream engine), RemappedInitRefTag
// (SetRemappedInitRefTag) and the stream engine's internal running guard.
//
// A Context is owned by one caller at a time. Bulk operations that take a
// *Context read-only are safe to call concurrently against distinct
// contexts and payloads; the streaming methods mutate the context and must
// not be called concurrently on the same one.
type Context struct {
	blockSize int
	mdSize    int

	mdInterleave  bool
	piLocation    format.PILocation
	guardInterval int

	difType    format.Type
	piFormat   format.PIFormat
	flags      format.CheckFlags

	initRefTag         uint64
	remappedInitRefTag uint64

	appTag     uint16
	appTagMask uint16

	guardSeed uint64

	dataOffset   int
	refTagOffset int

	lastGuard uint64
	streaming bool
}

// Option configures a Context at construction time.
type Option = options.Option[*Context]

// NewContext builds a Context for blocks of blockSize bytes carrying
// mdSize bytes of per-block metadata. It defaults to 16-bit PI format,
// DISABLED dif type, interleaved metadata with PI at the tail, and a zero
// guard seed; opts override any of these before validation runs.
func NewContext(blockSize, mdSize int, opts ...Option) (*Context, error) {
	c := &Context{
		blockSize:    blockSize,
		mdSize:       mdSize,
		mdInterleave: true,
		piLocation:   format.PILocationTail,
		piFormat:     format.PIFormat16,
		difType:      format.Disable,
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	c.guardInterval = c.blockSize - c.mdSize
	c.refTagOffset = c.dataOffset / c.guardInterval
	c.remappedInitRefTag = c.initRefTag

	return c, nil
}

func (c *Context) validate() error {
	if c.blockSize <= 0 || c.blockSize <= c.mdSize {
		return fmt.Errorf("%w: block_size=%d md_size=%d", errs.ErrInvalidBlockSize, c.blockSize, c.mdSize)
	}
	if !c.piFormat.Valid() {
		return fmt.Errorf("%w: %d", errs.ErrInvalidPIFormat, c.piFormat)
	}
	if !c.difType.Valid() {
		return fmt.Errorf("%w: %d", errs.ErrInvalidType, c.difType)
	}

	anyCheck := c.flags.Has(format.GuardCheck) || c.flags.Has(format.AppTagCheck) || c.flags.Has(format.RefTagCheck)
	if anyCheck && c.mdSize < c.piFormat.Size() {
		return fmt.Errorf("%w: md_size=%d < pi_size=%d", errs.ErrInvalidMDSize, c.mdSize, c.piFormat.Size())
	}

	return nil
}

// WithType sets the DIF type governing reference-tag semantics.
func WithType(t format.Type) Option {
	return options.New(func(c *Context) error {
		if !t.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidType, t)
		}
		c.difType = t

		return nil
	})
}

// WithPIFormat sets the on-wire PI width.
func WithPIFormat(f format.PIFormat) Option {
	return options.New(func(c *Context) error {
		if !f.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidPIFormat, f)
		}
		c.piFormat = f

		return nil
	})
}

// WithFlags replaces the full check-flag set in one call.
func WithFlags(flags format.CheckFlags) Option {
	return options.NoError(func(c *Context) { c.flags = flags })
}

// WithGuardCheck enables guard generation/verification.
func WithGuardCheck() Option {
	return options.NoError(func(c *Context) { c.flags |= format.GuardCheck })
}

// WithAppTagCheck enables application-tag verification.
func WithAppTagCheck() Option {
	return options.NoError(func(c *Context) { c.flags |= format.AppTagCheck })
}

// WithRefTagCheck enables reference-tag generation/verification.
func WithRefTagCheck() Option {
	return options.NoError(func(c *Context) { c.flags |= format.RefTagCheck })
}

// WithPRACT enables Protection-Information-Action simulation on the copy paths.
func WithPRACT() Option {
	return options.NoError(func(c *Context) { c.flags |= format.PRACT })
}

// WithPILocation selects which end of the metadata region carries the PI
// tuple. The default is PILocationTail.
func WithPILocation(loc format.PILocation) Option {
	return options.NoError(func(c *Context) { c.piLocation = loc })
}

// WithMDInterleave selects interleaved (true) or separate-metadata / DIX
// (false) layout. The default is interleaved.
func WithMDInterleave(interleave bool) Option {
	return options.NoError(func(c *Context) { c.mdInterleave = interleave })
}

// WithInitRefTag sets the initial reference tag added to ref_tag_offset and
// the block index to produce each block's expected reference tag.
func WithInitRefTag(tag uint64) Option {
	return options.NoError(func(c *Context) { c.initRefTag = tag })
}

// WithAppTag sets the literal application tag and its comparison mask. A
// zero mask disables the application-tag comparison per block even when
// WithAppTagCheck is set.
func WithAppTag(tag, mask uint16) Option {
	return options.NoError(func(c *Context) {
		c.appTag = tag
		c.appTagMask = mask
	})
}

// WithGuardSeed sets the initial seed fed to the guard CRC. Defaults to 0.
func WithGuardSeed(seed uint64) Option {
	return options.NoError(func(c *Context) { c.guardSeed = seed })
}

// WithDataOffset sets the byte offset of the first byte of the payload
// within the logical I/O, used to derive ref_tag_offset at construction
// time. Equivalent to calling SetDataOffset after construction.
func WithDataOffset(offset int) Option {
	return options.NoError(func(c *Context) { c.dataOffset = offset })
}

// SetDataOffset updates the context's position within the logical I/O and
// recomputes ref_tag_offset accordingly. Used between stream calls and by
// callers resuming a partial I/O at a nonzero offset.
func (c *Context) SetDataOffset(offset int) {
	c.dataOffset = offset
	c.refTagOffset = offset / c.guardInterval
}

// SetRemappedInitRefTag sets the reference tag RemapRefTag rewrites stored
// PI to use, replacing the original init_ref_tag for blocks processed after
// this call.
func (c *Context) SetRemappedInitRefTag(tag uint64) {
	c.remappedInitRefTag = tag
}

// DataOffset returns the context's current byte position within the
// logical I/O, as advanced by the stream engine.
func (c *Context) DataOffset() int { return c.dataOffset }

// BlockSize returns the extended (data + interleaved metadata) block size.
func (c *Context) BlockSize() int { return c.blockSize }

// MDSize returns the per-block metadata size.
func (c *Context) MDSize() int { return c.mdSize }

// GuardInterval returns the number of data bytes per block the guard CRC covers.
func (c *Context) GuardInterval() int { return c.guardInterval }

// Type returns the configured DIF type.
func (c *Context) Type() format.Type { return c.difType }

// PIFormat returns the configured PI on-wire format.
func (c *Context) PIFormat() format.PIFormat { return c.piFormat }

// piSlot returns the byte offset of the PI tuple within the metadata region.
func (c *Context) piSlot() int {
	if c.piLocation == format.PILocationHead {
		return 0
	}

	return c.mdSize - c.piFormat.Size()
}

// piOffsetInterleaved returns the absolute byte offset of block
// blockIndex's PI tuple within an interleaved payload.
func (c *Context) piOffsetInterleaved(blockIndex int) int {
	return blockIndex*c.blockSize + c.guardInterval + c.piSlot()
}

// piOffsetDIX returns the byte offset of block blockIndex's PI tuple
// within a separate metadata buffer.
func (c *Context) piOffsetDIX(blockIndex int) int {
	return blockIndex*c.mdSize + c.piSlot()
}

// ErrorRecord reports a verification failure: the first block whose PI
// check failed, which subcheck failed, and the expected/actual values
// involved. Verification stops at the first failing block.
type ErrorRecord struct {
	Type     format.ErrType
	Expected uint64
	Actual   uint64
	Offset   int // block index within the payload
}
