// Package crc64nvme wraps the standard library's hash/crc64 behind the
// Update/Checksum shape shared by internal/crc16 and internal/crc32c.
//
// hash/crc64.MakeTable takes an arbitrary reflected polynomial, which is
// exactly what a CRC-64-NVMe guard (non-reflected polynomial
// 0xAD93D23594C93659) needs once bit-reversed into the LSB-first
// representation the table algorithm expects. As with crc32c, this reuses
// the standard library's chainable Update primitive rather than
// reimplementing table-driven CRC-64 by hand.
package crc64nvme

import "hash/crc64"

// Poly is the bit-reversed (LSB-first) representation of the CRC-64-NVMe
// polynomial 0xAD93D23594C93659, suitable for hash/crc64.MakeTable.
const Poly uint64 = 0x9A6C9329AC4BC9B5

var table = crc64.MakeTable(Poly)

// Update folds p into the running CRC seed.
func Update(seed uint64, p []byte) uint64 {
	return crc64.Update(seed, table, p)
}

// Checksum computes the CRC-64-NVMe of p starting from seed.
func Checksum(seed uint64, p []byte) uint64 {
	return Update(seed, p)
}
