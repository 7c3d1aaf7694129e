package core

import (
	"encoding/binary"
	"fmt"
	"runtime"
)

const (
	// CorpusSeed seeds the key-corpus generator. Fixed so the exact same
	// keys are tested on every run of the same configuration.
	CorpusSeed = 11938

	// DefaultBatchSize is the number of key bits a worker claims per
	// fetch-and-add. 2 keeps claim contention low while bounding how much
	// work imbalance any one worker can accumulate.
	DefaultBatchSize = 2

	defaultRepsPerBit   = 64_000_000
	defaultSlowHashReps = 100_000
)

// ProgressFn is an optional per-key-bit progress callback, invoked with
// (current key bit, range lo, range hi, granularity). Purely observational.
type ProgressFn func(cur, lo, hi, granularity int)

// HashFn hashes key with the given seed and writes the fixed-width digest
// into out. Implementations must be callable concurrently with the same seed
// and different keys.
type HashFn func(key []byte, seed uint64, out []byte)

// ConfigError indicates a test configuration that cannot produce a
// meaningful result.
type ConfigError struct {
	Msg string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid test config: %s", e.Msg)
}

// TestConfig holds parameters for one statistical test invocation. There is
// no implicit environment state: CPU count, seed, and byte order all travel
// through here.
type TestConfig struct {
	NumThreads int
	Seed       uint64 // global seed; per-test seeds are derived from it
	ByteOrder  binary.ByteOrder
	Verbose    bool
	BatchSize  int
	KeyLengths []int // key sizes in bytes, each tested in turn

	// Repetition-count tuning. The defaults reproduce the long-standing
	// heuristic (RepsPerBit/hashBits, floored to SlowHashReps for wide or
	// very slow hashes) but are plain knobs, not constants.
	RepsPerBit   int
	SlowHashReps int
	RepsOverride int // when > 0, wins over the heuristic

	Progress ProgressFn
}

// DefaultTestConfig creates a configuration with default values.
func DefaultTestConfig() TestConfig {
	return TestConfig{
		NumThreads:   runtime.NumCPU(),
		Seed:         0,
		ByteOrder:    binary.LittleEndian,
		Verbose:      false,
		BatchSize:    DefaultBatchSize,
		KeyLengths:   []int{11, 16},
		RepsPerBit:   defaultRepsPerBit,
		SlowHashReps: defaultSlowHashReps,
	}
}

// Validate reports the first problem that would make a run meaningless.
func (c *TestConfig) Validate() error {
	if c.NumThreads < 1 {
		return ConfigError{Msg: fmt.Sprintf("NumThreads must be >= 1, got %d", c.NumThreads)}
	}
	if c.BatchSize < 1 {
		return ConfigError{Msg: fmt.Sprintf("BatchSize must be >= 1, got %d", c.BatchSize)}
	}
	if len(c.KeyLengths) == 0 {
		return ConfigError{Msg: "KeyLengths is empty"}
	}
	for _, kb := range c.KeyLengths {
		if kb < 1 {
			return ConfigError{Msg: fmt.Sprintf("key length must be >= 1 byte, got %d", kb)}
		}
	}
	if c.RepsOverride <= 0 && (c.RepsPerBit <= 0 || c.SlowHashReps <= 0) {
		return ConfigError{Msg: "no usable repetition count (RepsPerBit/SlowHashReps/RepsOverride all unset)"}
	}
	if c.ByteOrder == nil {
		return ConfigError{Msg: "ByteOrder is nil"}
	}
	return nil
}

// Reps returns the repetition count for a hash of the given output width.
// Narrow, fast hashes get more repetitions; wide (> 128 bit) or very slow
// hashes get the fixed lower count to bound total work.
func (c *TestConfig) Reps(hashBits int, verySlow bool) int {
	if c.RepsOverride > 0 {
		return c.RepsOverride
	}
	if hashBits > 128 || verySlow {
		return c.SlowHashReps
	}
	return c.RepsPerBit / hashBits
}
