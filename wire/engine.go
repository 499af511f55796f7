// Package wire provides the byte-order engine used to read and write the
// Protection Information tuple on the wire.
//
// Every multi-byte PI field is big-endian regardless of host byte order:
// host endianness must never leak into the on-wire format. This package
// exposes a single combined ByteOrder/AppendByteOrder interface but,
// unlike a general-purpose binary-encoding package, only ever hands out
// the big-endian instance. There is no host-endianness branch to get wrong.
package wire

import "encoding/binary"

// Engine combines encoding/binary's ByteOrder and AppendByteOrder
// interfaces, satisfied directly by binary.BigEndian. AppendByteOrder lets
// callers append multi-byte fields to a growing buffer without an
// intermediate stack array.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// BigEndian is the engine used for every on-wire PI field.
var BigEndian Engine = binary.BigEndian
