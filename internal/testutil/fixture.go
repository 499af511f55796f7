// Package testutil generates deterministic byte fixtures for the property
// tests here: round-trip and fragmentation-equivalence checks need a
// payload that's reproducible run to run, not merely pseudo-random, so a
// failing seed can be pinned in a regression test. It expands xxhash64
// into a keyed byte stream rather than reaching for math/rand.
package testutil

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fill deterministically fills dst from seed: dst[i] derives from
// xxhash64(seed, i/8), so two calls with the same seed and length produce
// byte-identical output, and Fill(seed, dst[:n]) is a prefix of
// Fill(seed, dst) for any n.
func Fill(seed uint64, dst []byte) {
	var block [8]byte
	var counter uint64

	for len(dst) > 0 {
		binary.BigEndian.PutUint64(block[:], counter)
		h := xxhash.New()
		_, _ = h.Write(block[:])
		var seedBytes [8]byte
		binary.BigEndian.PutUint64(seedBytes[:], seed)
		_, _ = h.Write(seedBytes[:])

		var sumBytes [8]byte
		binary.BigEndian.PutUint64(sumBytes[:], h.Sum64())

		n := copy(dst, sumBytes[:])
		dst = dst[n:]
		counter++
	}
}

// Block returns a freshly allocated n-byte deterministic fixture seeded by seed.
func Block(seed uint64, n int) []byte {
	b := make([]byte, n)
	Fill(seed, b)

	return b
}

// Fragment splits a deterministic n-byte fixture into numFrags fragments of
// uneven, seed-dependent length, none of them aligned to any particular
// block boundary — used to exercise sgl.Iterator against payloads that
// don't line up with block_size.
func Fragment(seed uint64, n int, numFrags int) [][]byte {
	if numFrags < 1 {
		numFrags = 1
	}

	payload := Block(seed, n)
	cuts := make([]int, numFrags-1)

	var cutSeed [8]byte
	binary.BigEndian.PutUint64(cutSeed[:], seed^0xC0FFEE)
	h := xxhash.New()
	_, _ = h.Write(cutSeed[:])

	for i := range cuts {
		cuts[i] = int(h.Sum64() % uint64(n+1))
		var next [8]byte
		binary.BigEndian.PutUint64(next[:], uint64(i))
		_, _ = h.Write(next[:])
	}

	// sort cuts ascending with a trivial insertion sort; numFrags is small
	// in every caller.
	for i := 1; i < len(cuts); i++ {
		for j := i; j > 0 && cuts[j-1] > cuts[j]; j-- {
			cuts[j-1], cuts[j] = cuts[j], cuts[j-1]
		}
	}

	frags := make([][]byte, 0, numFrags)
	prev := 0
	for _, c := range cuts {
		frags = append(frags, payload[prev:c])
		prev = c
	}
	frags = append(frags, payload[prev:])

	return frags
}
