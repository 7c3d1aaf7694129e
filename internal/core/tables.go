package core

import "fmt"

// The two tally tables below compress the per-(key bit, output bit pair)
// 2x2 contingency tables down to two vectors. For each pair (a, b) of output
// bits the full table is:
//
//   box11 = times a and b changed together
//   box10 = times a changed, b did not
//   box01 = times b changed, a did not
//   box00 = times neither changed
//
// Only box11 is stored per pair (the andcount table); per-bit change totals
// (the popcount table) and the known repetition count reconstruct the rest:
//
//   box11 = andcount[a,b]
//   box10 = popcount[a] - box11
//   box01 = popcount[b] - box11
//   box00 = reps - box11 - box10 - box01

// HashBitPairs is the per-key-bit stride of the andcount table. The exact
// triangular pair count is hashBits/2*(hashBits-1); rows are padded to
// hashBits/2*hashBits so two key bits' rows never share a cache line, which
// lets workers separate themselves by key-bit index alone.
func HashBitPairs(hashBits int) int {
	return hashBits / 2 * hashBits
}

// TriangularPairs is the number of distinct (a, b) pairs with a < b.
func TriangularPairs(hashBits int) int {
	return hashBits * (hashBits - 1) / 2
}

// pairIndex maps an output-bit pair (out1 < out2) to its slot within a
// key bit's andcount row: pairs ordered by out1, then out2.
func pairIndex(hashBits, out1, out2 int) int {
	if out1 >= out2 || out2 >= hashBits {
		panic(fmt.Sprintf("pairIndex: bad pair (%d, %d) for %d hash bits", out1, out2, hashBits))
	}
	off := out1*(hashBits-1) - out1*(out1-1)/2
	return off + out2 - out1 - 1
}

// PopcountTable counts, per (key bit, output bit), how many repetitions
// flipped that output bit. Flat keyBits x hashBits layout; rows are written
// exclusively by the worker that owns the key bit.
type PopcountTable struct {
	counts   []uint32
	hashBits int
}

func NewPopcountTable(keyBits, hashBits int) *PopcountTable {
	return &PopcountTable{
		counts:   make([]uint32, keyBits*hashBits),
		hashBits: hashBits,
	}
}

// Row returns the mutable counter row for one key bit.
func (t *PopcountTable) Row(keyBit int) []uint32 {
	off := keyBit * t.hashBits
	return t.counts[off : off+t.hashBits]
}

func (t *PopcountTable) At(keyBit, outBit int) uint32 {
	return t.counts[keyBit*t.hashBits+outBit]
}

// AndcountTable counts, per (key bit, output bit pair), how many repetitions
// flipped both bits together. Rows use the padded HashBitPairs stride; only
// the first TriangularPairs slots of each row are meaningful.
type AndcountTable struct {
	counts   []uint32
	hashBits int
	stride   int
}

func NewAndcountTable(keyBits, hashBits int) *AndcountTable {
	stride := HashBitPairs(hashBits)
	return &AndcountTable{
		counts:   make([]uint32, keyBits*stride),
		hashBits: hashBits,
		stride:   stride,
	}
}

// Row returns the mutable counter row for one key bit, padding included.
func (t *AndcountTable) Row(keyBit int) []uint32 {
	off := keyBit * t.stride
	return t.counts[off : off+t.stride]
}

// At returns the joint-change count for the pair (out1 < out2).
func (t *AndcountTable) At(keyBit, out1, out2 int) uint32 {
	return t.counts[keyBit*t.stride+pairIndex(t.hashBits, out1, out2)]
}

// Box is one reconstructed 2x2 contingency table.
type Box struct {
	B11, B10, B01, B00 int64
}

// Sum returns the total count across the four boxes; always reps for tallies
// produced by a complete run.
func (b Box) Sum() int64 {
	return b.B11 + b.B10 + b.B01 + b.B00
}

// Contingency reconstructs the exact 2x2 table for (keyBit, out1, out2)
// from the compressed tallies.
func Contingency(pop *PopcountTable, and *AndcountTable, keyBit, out1, out2, reps int) Box {
	b11 := int64(and.At(keyBit, out1, out2))
	b10 := int64(pop.At(keyBit, out1)) - b11
	b01 := int64(pop.At(keyBit, out2)) - b11
	b00 := int64(reps) - b11 - b10 - b01
	return Box{B11: b11, B10: b10, B01: b01, B00: b00}
}
