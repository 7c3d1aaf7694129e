// Package vcode accumulates verification codes: running digests over all
// test inputs, hash outputs, and recorded results consumed during a run.
// Two runs that are supposed to be deterministic must produce identical
// codes; a mismatch means nondeterminism crept into key generation, hashing,
// or result handling.
package vcode

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Accumulator keeps three independent digest lanes: one for raw test inputs
// (e.g. generated key corpora), one for hash outputs, and one for recorded
// results. It is write-mostly; Codes is only meaningful once a run finishes.
type Accumulator struct {
	mu  sync.Mutex
	in  *xxhash.Digest
	out *xxhash.Digest
	res *xxhash.Digest
}

func New() *Accumulator {
	return &Accumulator{
		in:  xxhash.New(),
		out: xxhash.New(),
		res: xxhash.New(),
	}
}

// AddInput folds raw test-input bytes into the input lane.
func (a *Accumulator) AddInput(p []byte) {
	a.mu.Lock()
	a.in.Write(p)
	a.mu.Unlock()
}

// AddOutput folds hash-output bytes into the output lane.
func (a *Accumulator) AddOutput(p []byte) {
	a.mu.Lock()
	a.out.Write(p)
	a.mu.Unlock()
}

// AddResult folds one test result value into the result lane.
func (a *Accumulator) AddResult(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	a.mu.Lock()
	a.res.Write(buf[:])
	a.mu.Unlock()
}

// Codes returns the current digest of each lane.
func (a *Accumulator) Codes() (in, out, res uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.in.Sum64(), a.out.Sum64(), a.res.Sum64()
}
