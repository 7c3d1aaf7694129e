package core

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bitset"
)

// diffMask holds one hashed-value XOR difference as a bitset over the hash
// output bits. The bitset wraps the word array in place, so a mask can be
// reloaded every repetition without allocating.
type diffMask struct {
	words     []uint64
	bits      *bitset.BitSet
	hashBytes int
}

func newDiffMask(hashBits int) *diffMask {
	words := make([]uint64, (hashBits+63)/64)
	return &diffMask{
		words:     words,
		bits:      bitset.FromWithLength(uint(hashBits), words),
		hashBytes: hashBits / 8,
	}
}

// load replaces the mask with h1 XOR h2. Digest bytes map to bits in
// little-endian order: output bit i lives in byte i/8, bit i%8.
func (m *diffMask) load(h1, h2 []byte) {
	i := 0
	for ; i+8 <= m.hashBytes; i += 8 {
		m.words[i/8] = binary.LittleEndian.Uint64(h1[i:]) ^ binary.LittleEndian.Uint64(h2[i:])
	}
	if i < m.hashBytes {
		var w uint64
		for j := i; j < m.hashBytes; j++ {
			w |= uint64(h1[j]^h2[j]) << uint((j-i)*8)
		}
		m.words[i/8] = w
	}
}

// histogramBits increments row[i-from] for every mask bit i >= from that is
// set. It is the one primitive shared by the popcount update (from = 0, row
// spanning all output bits) and each andcount pair window (from = out1+1,
// row spanning the slots for pairs led by out1).
func histogramBits(diff *bitset.BitSet, row []uint32, from int) {
	for i, ok := diff.NextSet(uint(from)); ok; i, ok = diff.NextSet(i + 1) {
		row[int(i)-from]++
	}
}

// andCursor walks one key bit's andcount row in pair order: all pairs led by
// output bit 0 first, then those led by bit 1, and so on.
type andCursor struct {
	row []uint32
	pos int
}

// skip advances past n pair slots without writing; those pairs are
// implicitly zero for the current repetition.
func (c *andCursor) skip(n int) {
	c.pos += n
}

// window hands out the next n pair slots for writing.
func (c *andCursor) window(n int) []uint32 {
	w := c.row[c.pos : c.pos+n]
	c.pos += n
	return w
}

// accumulate applies one difference mask to a key bit's tally rows: the
// popcount row gets one increment per changed output bit, and the andcount
// row gets one increment per pair of output bits that changed together.
//
// The pair update never materializes the full hashBits x hashBits table.
// Walking lead bit out1 in order, a clear out1 means no pair led by it
// changed jointly with anything, so the cursor skips that lead's whole
// window; a set out1 histograms the remaining mask bits into the window.
func accumulate(diff *bitset.BitSet, popRow, andRow []uint32, hashBits int) {
	histogramBits(diff, popRow, 0)

	cur := andCursor{row: andRow}
	for out1 := 0; out1 < hashBits-1; out1++ {
		width := hashBits - 1 - out1
		if !diff.Test(uint(out1)) {
			cur.skip(width)
			continue
		}
		histogramBits(diff, cur.window(width), out1+1)
	}
}
