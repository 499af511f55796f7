// Package crc16 implements the table-driven CRC-16/T10-DIF checksum used
// as the guard field of the 16-bit Protection Information format.
//
// T10 DIF's CRC-16 is MSB-first (non-reflected) with polynomial 0x8BB7 and
// no output XOR, unlike the reflected CRC-32/CRC-64 variants the standard
// library ships (hash/crc32, hash/crc64). No retrieved dependency in this
// module's corpus implements a configurable, non-reflected CRC-16, so this
// package supplies the minimal table generator and Update/Checksum pair in
// the same shape as hash/crc32's Table/MakeTable/Update/Checksum, so the
// per-block engine can treat all three guard widths uniformly.
package crc16

// Table is a 256-entry lookup table for a specific CRC-16 polynomial.
type Table [256]uint16

// T10DIFPoly is the polynomial required by the 16-bit PI format: 0x8BB7.
const T10DIFPoly uint16 = 0x8BB7

var t10difTable = MakeTable(T10DIFPoly)

// MakeTable builds a lookup table for the given MSB-first polynomial.
func MakeTable(poly uint16) *Table {
	var t Table
	for i := range 256 {
		crc := uint16(i) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}

	return &t
}

// T10DIFTable returns the shared table for the T10 DIF polynomial.
func T10DIFTable() *Table { return t10difTable }

// Update folds p into the running CRC seed using tab, enabling the guard
// to be chained across fragment boundaries within a block.
func Update(seed uint16, tab *Table, p []byte) uint16 {
	crc := seed
	for _, b := range p {
		crc = (crc << 8) ^ tab[byte(crc>>8)^b]
	}

	return crc
}

// Checksum computes the CRC-16/T10-DIF of p starting from seed.
func Checksum(seed uint16, p []byte) uint16 {
	return Update(seed, t10difTable, p)
}
