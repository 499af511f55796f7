// Package pi implements the Protection Information tuple codec (component
// A): reading and writing the (guard, app tag, reference tag) tuple at a
// fixed byte offset inside a block, in each of the three on-wire widths.
//
// Field order is fixed — guard, then app tag, then reference/storage tag
// area — and every multi-byte field is big-endian regardless of host byte
// order. Each codec is a small struct over a known byte span, reading and
// writing fields at literal offsets through the wire engine. No reflection,
// no variable-length parsing.
package pi

import (
	"github.com/blockguard/godif/format"
	"github.com/blockguard/godif/wire"
)

// CodecFor returns the Codec for f, or nil if f is not a recognized
// format. Callers that already validated f with format.PIFormat.Valid can
// assume a non-nil result.
func CodecFor(f format.PIFormat) Codec {
	switch f {
	case format.PIFormat16:
		return Codec16{}
	case format.PIFormat32:
		return Codec32{}
	case format.PIFormat64:
		return Codec64{}
	default:
		return nil
	}
}

// Tuple is the in-memory representation of one block's PI, wide enough to
// hold any of the three on-wire formats.
type Tuple struct {
	// Guard is the CRC guard value: 16 bits (format16), 32 bits
	// (format32), or 64 bits (format64), right-justified in the field.
	Guard uint64
	// AppTag is the 16-bit application tag.
	AppTag uint16
	// RefTag is the reference tag: 32 bits (format16, or format32/64
	// under Type1/Type3 where only the low 32 bits govern), or
	// up to 48 bits (format32's combined storage+reference field,
	// format64 under Type2).
	RefTag uint64
	// StorageTag is the 16-bit storage-tag prefix carried only by
	// format32 (bytes 6:8 of the tuple). The codec reads and
	// writes it but never interprets it — callers that use NVMe storage
	// tags own that semantics.
	StorageTag uint16
}

// Codec reads and writes a PI tuple of one fixed on-wire format at a given
// byte offset inside a block buffer.
type Codec interface {
	// Size returns the on-wire size of the tuple in bytes.
	Size() int
	// Read parses the tuple at block[off:off+Size()].
	Read(block []byte, off int) Tuple
	// Write serializes t to block[off:off+Size()].
	Write(block []byte, off int, t Tuple)
}

// Codec16 implements the 8-byte T10 DIF layout: guard(2) | apptag(2) | reftag(4).
type Codec16 struct{}

func (Codec16) Size() int { return 8 }

func (Codec16) Read(block []byte, off int) Tuple {
	b := block[off : off+8]

	return Tuple{
		Guard:  uint64(wire.BigEndian.Uint16(b[0:2])),
		AppTag: wire.BigEndian.Uint16(b[2:4]),
		RefTag: uint64(wire.BigEndian.Uint32(b[4:8])),
	}
}

func (Codec16) Write(block []byte, off int, t Tuple) {
	b := block[off : off+8]
	wire.BigEndian.PutUint16(b[0:2], uint16(t.Guard))
	wire.BigEndian.PutUint16(b[2:4], t.AppTag)
	wire.BigEndian.PutUint32(b[4:8], uint32(t.RefTag))
}

// Codec32 implements the 16-byte layout: guard(4) | apptag(2) | storagetag(2) | reftag(8, 2 pad + 6 significant).
type Codec32 struct{}

func (Codec32) Size() int { return 16 }

func (Codec32) Read(block []byte, off int) Tuple {
	b := block[off : off+16]

	// bytes [8:10] are padding within the 8-byte reference tag slot; the
	// 48-bit significant value occupies bytes [10:16].
	refHi := uint64(wire.BigEndian.Uint32(b[10:14]))
	refLo := uint64(wire.BigEndian.Uint16(b[14:16]))

	return Tuple{
		Guard:      uint64(wire.BigEndian.Uint32(b[0:4])),
		AppTag:     wire.BigEndian.Uint16(b[4:6]),
		StorageTag: wire.BigEndian.Uint16(b[6:8]),
		RefTag:     refHi<<16 | refLo,
	}
}

func (Codec32) Write(block []byte, off int, t Tuple) {
	b := block[off : off+16]
	wire.BigEndian.PutUint32(b[0:4], uint32(t.Guard))
	wire.BigEndian.PutUint16(b[4:6], t.AppTag)
	wire.BigEndian.PutUint16(b[6:8], t.StorageTag)
	// bytes [8:10] are padding within the 8-byte reference tag slot; the
	// 48-bit significant value occupies bytes [10:16].
	wire.BigEndian.PutUint16(b[8:10], 0)
	ref48 := t.RefTag & 0xFFFFFFFFFFFF
	wire.BigEndian.PutUint32(b[10:14], uint32(ref48>>16))
	wire.BigEndian.PutUint16(b[14:16], uint16(ref48))
}

// Codec64 implements the 16-byte layout: guard(8) | apptag(2) | reftag(6, 48-bit).
type Codec64 struct{}

func (Codec64) Size() int { return 16 }

func (Codec64) Read(block []byte, off int) Tuple {
	b := block[off : off+16]

	refHi := uint64(wire.BigEndian.Uint32(b[10:14]))
	refLo := uint64(wire.BigEndian.Uint16(b[14:16]))

	return Tuple{
		Guard:  wire.BigEndian.Uint64(b[0:8]),
		AppTag: wire.BigEndian.Uint16(b[8:10]),
		RefTag: refHi<<16 | refLo,
	}
}

func (Codec64) Write(block []byte, off int, t Tuple) {
	b := block[off : off+16]
	wire.BigEndian.PutUint64(b[0:8], t.Guard)
	wire.BigEndian.PutUint16(b[8:10], t.AppTag)
	ref48 := t.RefTag & 0xFFFFFFFFFFFF
	wire.BigEndian.PutUint32(b[10:14], uint32(ref48>>16))
	wire.BigEndian.PutUint16(b[14:16], uint16(ref48))
}
