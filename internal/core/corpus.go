package core

import "math/rand"

// InputSink receives every random byte the engine consumes, building an
// audit trail used to detect nondeterminism across runs.
type InputSink interface {
	AddInput(p []byte)
}

// KeyCorpus is the full set of test keys for one invocation: one key per
// (key bit, repetition) pair, all repetitions for a key bit contiguous.
// Keys are handed out as mutable sub-slices; a worker flips a bit in a key
// and then moves on to the next pre-generated key, so a flip never corrupts
// a key belonging to another repetition. The corpus is generated completely
// before any worker starts.
type KeyCorpus struct {
	keys     []byte
	keyBytes int
	reps     int
}

// NewKeyCorpus generates keyBytes*keyBits*reps bytes of uniform random data
// from rng and reports them verbatim to sink (if non-nil).
func NewKeyCorpus(keyBytes, reps int, rng *rand.Rand, sink InputSink) *KeyCorpus {
	keyBits := keyBytes * 8
	keys := make([]byte, keyBytes*keyBits*reps)
	rng.Read(keys)
	if sink != nil {
		sink.AddInput(keys)
	}
	return &KeyCorpus{keys: keys, keyBytes: keyBytes, reps: reps}
}

func (c *KeyCorpus) KeyBytes() int { return c.keyBytes }

func (c *KeyCorpus) KeyBits() int { return c.keyBytes * 8 }

func (c *KeyCorpus) Reps() int { return c.reps }

// Key returns the key for the given (key bit, repetition) pair. The slice
// aliases corpus memory and may be mutated by the caller.
func (c *KeyCorpus) Key(keyBit, rep int) []byte {
	off := (keyBit*c.reps + rep) * c.keyBytes
	return c.keys[off : off+c.keyBytes]
}

// Bytes exposes the raw corpus, e.g. for audit accumulators.
func (c *KeyCorpus) Bytes() []byte { return c.keys }
