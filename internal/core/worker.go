package core

import (
	"sync"
	"sync/atomic"
)

// workCursor hands out batches of key-bit indices to workers. The cursor is
// the only mutable state shared between workers; once a key bit is claimed,
// its tally rows are owned exclusively by the claiming worker.
type workCursor struct {
	next atomic.Int64
}

// Claim atomically reserves the next batch, returning its start index. A
// start index >= keyBits means no work remains.
func (c *workCursor) Claim(batch int) int {
	return int(c.next.Add(int64(batch))) - batch
}

// Run holds everything one tally collection needs. Corpus and tables must be
// sized consistently (same key-bit count; tables built for HashBits).
type Run struct {
	Hash     HashFn
	Seed     uint64
	HashBits int
	Corpus   *KeyCorpus
	Pop      *PopcountTable
	And      *AndcountTable
	Progress ProgressFn
}

// Collect fills the tally tables, spreading key bits across numThreads
// workers in batches of batchSize, and blocks until every worker has
// finished. With numThreads <= 1 the whole range is processed as a single
// batch on the calling goroutine, with no atomics in play beyond the one
// initial claim. The final tables are independent of which worker processed
// which key bit.
func (r *Run) Collect(numThreads, batchSize int) {
	var cursor workCursor
	if numThreads <= 1 {
		r.runBatches(&cursor, r.Corpus.KeyBits())
		return
	}

	var wg sync.WaitGroup
	wg.Add(numThreads)
	for i := 0; i < numThreads; i++ {
		go func() {
			defer wg.Done()
			r.runBatches(&cursor, batchSize)
		}()
	}
	wg.Wait()
}

// runBatches claims and processes batches until the key-bit range is
// exhausted. For each repetition of each claimed key bit it hashes the next
// pre-generated key as-is, flips the key bit in place, hashes again, and
// feeds the output XOR into the key bit's tally rows.
func (r *Run) runBatches(cursor *workCursor, batchSize int) {
	keyBits := r.Corpus.KeyBits()
	reps := r.Corpus.Reps()
	hashBytes := r.HashBits / 8

	h1 := make([]byte, hashBytes)
	h2 := make([]byte, hashBytes)
	diff := newDiffMask(r.HashBits)

	for {
		start := cursor.Claim(batchSize)
		if start >= keyBits {
			return
		}
		stop := min(start+batchSize, keyBits)

		for keyBit := start; keyBit < stop; keyBit++ {
			popRow := r.Pop.Row(keyBit)
			andRow := r.And.Row(keyBit)

			if r.Progress != nil {
				r.Progress(keyBit, 0, keyBits-1, 10)
			}

			for rep := 0; rep < reps; rep++ {
				key := r.Corpus.Key(keyBit, rep)
				r.Hash(key, r.Seed, h1)
				flipBit(key, keyBit)
				r.Hash(key, r.Seed, h2)

				diff.load(h1, h2)
				accumulate(diff.bits, popRow, andRow, r.HashBits)
			}
		}
	}
}

func flipBit(key []byte, bit int) {
	key[bit>>3] ^= 1 << uint(bit&7)
}
