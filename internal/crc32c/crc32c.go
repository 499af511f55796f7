// Package crc32c wraps the standard library's hash/crc32 Castagnoli table
// behind the same Update/Checksum shape as internal/crc16, so the per-block
// engine doesn't need to special-case which guard width it's folding.
//
// hash/crc32 already ships the exact polynomial the 32-bit PI format
// requires (poly 0x1EDC6F41, whose reflected table representation is
// the package's predefined Castagnoli constant), and crc32.Update is
// already the chaining primitive the streaming engine needs.
package crc32c

import "hash/crc32"

var table = crc32.MakeTable(crc32.Castagnoli)

// Update folds p into the running CRC seed.
func Update(seed uint32, p []byte) uint32 {
	return crc32.Update(seed, table, p)
}

// Checksum computes the CRC-32C of p starting from seed.
func Checksum(seed uint32, p []byte) uint32 {
	return Update(seed, p)
}
