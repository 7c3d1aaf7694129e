package core

import (
	"math/rand"
	"testing"
)

func TestDiffMaskLoad(t *testing.T) {
	// 16-bit digests (not a multiple of 8 bytes).
	m := newDiffMask(16)
	m.load([]byte{0xFF, 0x00}, []byte{0xF0, 0x80})
	for i := 0; i < 16; i++ {
		want := i < 4 || i == 15
		if got := m.bits.Test(uint(i)); got != want {
			t.Errorf("16-bit mask: bit %d = %t, want %t", i, got, want)
		}
	}

	// 128-bit digests spanning two words.
	h1 := make([]byte, 16)
	h2 := make([]byte, 16)
	h1[0] = 0x01  // flips bit 0
	h2[8] = 0x80  // flips bit 71
	h1[15] = 0x55 // flips bits 120,122,124,126
	m = newDiffMask(128)
	m.load(h1, h2)
	wantBits := map[uint]bool{0: true, 71: true, 120: true, 122: true, 124: true, 126: true}
	for i := uint(0); i < 128; i++ {
		if got := m.bits.Test(i); got != wantBits[i] {
			t.Errorf("128-bit mask: bit %d = %t, want %t", i, got, wantBits[i])
		}
	}
}

func TestDiffMaskReload(t *testing.T) {
	// Loading a new difference must fully replace the previous one.
	m := newDiffMask(64)
	one := make([]byte, 8)
	zero := make([]byte, 8)
	one[7] = 0x80
	m.load(one, zero)
	if !m.bits.Test(63) {
		t.Fatalf("bit 63 should be set after first load")
	}
	m.load(zero, zero)
	if m.bits.Any() {
		t.Errorf("mask should be empty after reloading an all-zero difference")
	}
}

func TestHistogramBitsOffset(t *testing.T) {
	m := newDiffMask(16)
	m.words[0] = 0x8051 // bits 0, 4, 6, 15

	row := make([]uint32, 16)
	histogramBits(m.bits, row, 0)
	for i, want := range map[int]uint32{0: 1, 4: 1, 6: 1, 15: 1} {
		if row[i] != want {
			t.Errorf("row[%d] = %d, want %d", i, row[i], want)
		}
	}

	// Offset window: only bits >= from land, shifted down by from.
	win := make([]uint32, 11) // slots for bits 5..15
	histogramBits(m.bits, win, 5)
	if win[6-5] != 1 || win[15-5] != 1 {
		t.Errorf("windowed histogram missed bits 6/15: %v", win)
	}
	if win[0] != 0 {
		t.Errorf("bit 4 leaked into window starting at 5: %v", win)
	}
}

// naiveAccumulate is the uncompressed reference: a full double loop over all
// output-bit pairs with no skipping.
func naiveAccumulate(mask []uint64, popRow, andRow []uint32, hashBits int) {
	bit := func(i int) bool { return mask[i/64]&(1<<uint(i%64)) != 0 }
	for i := 0; i < hashBits; i++ {
		if bit(i) {
			popRow[i]++
		}
	}
	for out1 := 0; out1 < hashBits-1; out1++ {
		for out2 := out1 + 1; out2 < hashBits; out2++ {
			if bit(out1) && bit(out2) {
				andRow[pairIndex(hashBits, out1, out2)]++
			}
		}
	}
}

func TestTriangularSkipMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, hashBits := range []int{16, 64, 128} {
		pop := NewPopcountTable(1, hashBits)
		and := NewAndcountTable(1, hashBits)
		wantPop := make([]uint32, hashBits)
		wantAnd := make([]uint32, HashBitPairs(hashBits))

		diff := newDiffMask(hashBits)
		for rep := 0; rep < 200; rep++ {
			for w := range diff.words {
				diff.words[w] = rng.Uint64()
			}
			// Clear bits past hashBits so the mask stays in range.
			if tail := hashBits % 64; tail != 0 {
				diff.words[len(diff.words)-1] &= (1 << uint(tail)) - 1
			}
			accumulate(diff.bits, pop.Row(0), and.Row(0), hashBits)
			naiveAccumulate(diff.words, wantPop, wantAnd, hashBits)
		}

		for i := 0; i < hashBits; i++ {
			if pop.At(0, i) != wantPop[i] {
				t.Errorf("hashBits=%d: popcount[%d] = %d, want %d", hashBits, i, pop.At(0, i), wantPop[i])
			}
		}
		for out1 := 0; out1 < hashBits-1; out1++ {
			for out2 := out1 + 1; out2 < hashBits; out2++ {
				got := and.At(0, out1, out2)
				want := wantAnd[pairIndex(hashBits, out1, out2)]
				if got != want {
					t.Errorf("hashBits=%d: andcount[%d,%d] = %d, want %d", hashBits, out1, out2, got, want)
				}
			}
		}
	}
}

func TestAccumulateSparseAndFullMasks(t *testing.T) {
	const hashBits = 64
	pop := NewPopcountTable(1, hashBits)
	and := NewAndcountTable(1, hashBits)
	diff := newDiffMask(hashBits)

	// All-zero mask: nothing moves.
	diff.words[0] = 0
	accumulate(diff.bits, pop.Row(0), and.Row(0), hashBits)
	for i := 0; i < hashBits; i++ {
		if pop.At(0, i) != 0 {
			t.Fatalf("zero mask incremented popcount[%d]", i)
		}
	}

	// All-ones mask: every bit and every pair moves exactly once.
	diff.words[0] = ^uint64(0)
	accumulate(diff.bits, pop.Row(0), and.Row(0), hashBits)
	for i := 0; i < hashBits; i++ {
		if pop.At(0, i) != 1 {
			t.Errorf("full mask: popcount[%d] = %d, want 1", i, pop.At(0, i))
		}
	}
	for out1 := 0; out1 < hashBits-1; out1++ {
		for out2 := out1 + 1; out2 < hashBits; out2++ {
			if got := and.At(0, out1, out2); got != 1 {
				t.Errorf("full mask: andcount[%d,%d] = %d, want 1", out1, out2, got)
			}
		}
	}
}
