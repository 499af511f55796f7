// Package sgl implements the scatter-gather block walker (component C):
// given a payload presented as an array of (base, length) fragments, walk
// it as a flat logical byte range without requiring the caller to ever
// materialize a contiguous copy.
//
// Fragments whose length isn't a multiple of the block size are legal —
// the iterator treats the concatenation of all fragments as the logical
// payload and never assumes a fragment boundary lines up with a block
// boundary. Every access pattern the per-block engine needs —
// folding a CRC over a run of bytes, or reading/writing the handful of PI
// bytes that may itself straddle two fragments — is expressed as a single
// logical [start, start+length) range against List, so the straddling
// logic lives in exactly one place instead of being reimplemented at every
// call site.
package sgl

import "sort"

// List is a scatter-gather payload: an ordered sequence of fragments.
// Each fragment is a Go byte slice, which already carries both the base
// pointer and the length the wire protocol calls out separately.
type List [][]byte

// TotalLen returns the sum of every fragment's length.
func (l List) TotalLen() int {
	total := 0
	for _, f := range l {
		total += len(f)
	}

	return total
}

// Iterator walks a List as a flat logical byte range, caching fragment
// start offsets so random access during block-by-block processing doesn't
// re-walk the whole list from the front every time.
type Iterator struct {
	frags  List
	starts []int // starts[i] is the logical offset of frags[i]
	total  int
}

// New builds an Iterator over frags. frags is retained, not copied; the
// caller must not mutate the fragment slice headers (though the iterator
// may write through them) while the Iterator is in use.
func New(frags List) *Iterator {
	starts := make([]int, len(frags))
	off := 0
	for i, f := range frags {
		starts[i] = off
		off += len(f)
	}

	return &Iterator{frags: frags, starts: starts, total: off}
}

// TotalLen returns the logical length of the whole payload.
func (it *Iterator) TotalLen() int { return it.total }

// locate returns the fragment index containing logical offset pos, and
// the byte offset within that fragment. pos must be < it.total, or pos
// may equal it.total only when no further bytes will be accessed.
func (it *Iterator) locate(pos int) (fragIdx, fragOff int) {
	// starts is sorted ascending; find the last start <= pos.
	i := sort.Search(len(it.starts), func(i int) bool { return it.starts[i] > pos }) - 1
	if i < 0 {
		i = 0
	}

	return i, pos - it.starts[i]
}

// Fold walks the logical range [start, start+length) through fold,
// seeding the first call with seed and threading the running value
// through consecutive fragments. It is the single-pass primitive the
// per-block engine uses to compute a CRC guard over a block's data region
// even when that region straddles several fragments.
func (it *Iterator) Fold(start, length int, seed uint64, fold func(seed uint64, chunk []byte) uint64) uint64 {
	if length == 0 {
		return seed
	}

	fragIdx, fragOff := it.locate(start)
	remaining := length
	acc := seed

	for remaining > 0 {
		frag := it.frags[fragIdx]
		avail := len(frag) - fragOff
		take := min(avail, remaining)

		acc = fold(acc, frag[fragOff:fragOff+take])
		remaining -= take
		fragOff = 0
		fragIdx++
	}

	return acc
}

// ReadAt copies the logical range [start, start+len(dst)) into dst,
// crossing fragment boundaries transparently. Used for PI reads (at most
// 16 bytes, so a straddling read is a handful of small copies at worst)
// and by CopyRange's staged copies.
func (it *Iterator) ReadAt(start int, dst []byte) {
	fragIdx, fragOff := it.locate(start)
	remaining := len(dst)
	written := 0

	for remaining > 0 {
		frag := it.frags[fragIdx]
		avail := len(frag) - fragOff
		take := min(avail, remaining)

		copy(dst[written:written+take], frag[fragOff:fragOff+take])
		written += take
		remaining -= take
		fragOff = 0
		fragIdx++
	}
}

// WriteAt writes src into the logical range starting at start, crossing
// fragment boundaries transparently. Used for PI writes and PRACT
// metadata synthesis.
func (it *Iterator) WriteAt(start int, src []byte) {
	fragIdx, fragOff := it.locate(start)
	remaining := len(src)
	read := 0

	for remaining > 0 {
		frag := it.frags[fragIdx]
		avail := len(frag) - fragOff
		take := min(avail, remaining)

		copy(frag[fragOff:fragOff+take], src[read:read+take])
		read += take
		remaining -= take
		fragOff = 0
		fragIdx++
	}
}

// CopyRange copies length bytes from src (starting at srcStart) into dst
// (starting at dstStart), using a small stack-resident staging buffer so
// copying between two differently-fragmented lists never allocates on the
// heap — used by the generate_copy/verify_copy bounce paths.
func CopyRange(dst *Iterator, dstStart int, src *Iterator, srcStart, length int) {
	var stage [256]byte

	for length > 0 {
		take := min(length, len(stage))
		chunk := stage[:take]
		src.ReadAt(srcStart, chunk)
		dst.WriteAt(dstStart, chunk)

		srcStart += take
		dstStart += take
		length -= take
	}
}

// Fill writes b into every byte of the logical range [start, start+n).
// Used by the PRACT simulation to pre-fill a synthesized metadata region
// with 0xFF before the PI codec overwrites the PI slot within it.
func (it *Iterator) Fill(start, n int, b byte) {
	fragIdx, fragOff := it.locate(start)
	remaining := n

	for remaining > 0 {
		frag := it.frags[fragIdx]
		avail := len(frag) - fragOff
		take := min(avail, remaining)

		chunk := frag[fragOff : fragOff+take]
		for i := range chunk {
			chunk[i] = b
		}

		remaining -= take
		fragOff = 0
		fragIdx++
	}
}
