// Package hashes adapts published hash functions to the engine's HashFn
// contract: (key, seed) in, fixed-width digest out, safe for concurrent use.
package hashes

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"
	"github.com/zeebo/xxh3"
	"lukechampine.com/blake3"

	"bicgo/internal/core"
)

// HashInfo describes one hash function under test.
type HashInfo struct {
	Name     string
	Bits     int  // output width; also the digest length in bits
	VerySlow bool // forces the low repetition count regardless of width
	Salt     uint64
	Fn       core.HashFn
}

// SeedForTest derives the seed one statistical test uses from the global
// seed, this hash's salt, and the test's identifier constant. Different
// tests on the same hash, and the same test on different hashes, never
// collide on seeds.
func (hi *HashInfo) SeedForTest(globalSeed, testID uint64) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], globalSeed)
	binary.LittleEndian.PutUint64(buf[8:16], hi.Salt)
	binary.LittleEndian.PutUint64(buf[16:24], testID)
	return xxhash.Sum64(buf[:])
}

// Registry returns the registered hashes with digests emitted in the given
// byte order. Word order within multi-word digests is low word first.
func Registry(order binary.ByteOrder) []*HashInfo {
	return []*HashInfo{
		{Name: "xxhash64", Bits: 64, Salt: 0x0001, Fn: xxhash64Fn(order)},
		{Name: "xxh3-64", Bits: 64, Salt: 0x0002, Fn: xxh3Fn64(order)},
		{Name: "xxh3-128", Bits: 128, Salt: 0x0003, Fn: xxh3Fn128(order)},
		{Name: "murmur3-128", Bits: 128, Salt: 0x0004, Fn: murmur3Fn128(order)},
		{Name: "blake3-256", Bits: 256, Salt: 0x0005, Fn: blake3Fn256()},
	}
}

// Lookup finds a registered hash by name.
func Lookup(name string, order binary.ByteOrder) (*HashInfo, error) {
	for _, hi := range Registry(order) {
		if hi.Name == name {
			return hi, nil
		}
	}
	return nil, fmt.Errorf("unknown hash %q", name)
}

// xxhash64Fn seeds cespare/xxhash, which has no native seed parameter, by
// prefixing the seed bytes to the streamed input.
func xxhash64Fn(order binary.ByteOrder) core.HashFn {
	return func(key []byte, seed uint64, out []byte) {
		var s [8]byte
		binary.LittleEndian.PutUint64(s[:], seed)
		var d xxhash.Digest
		d.Reset()
		d.Write(s[:])
		d.Write(key)
		order.PutUint64(out, d.Sum64())
	}
}

func xxh3Fn64(order binary.ByteOrder) core.HashFn {
	return func(key []byte, seed uint64, out []byte) {
		order.PutUint64(out, xxh3.HashSeed(key, seed))
	}
}

func xxh3Fn128(order binary.ByteOrder) core.HashFn {
	return func(key []byte, seed uint64, out []byte) {
		h := xxh3.Hash128Seed(key, seed)
		order.PutUint64(out[0:8], h.Lo)
		order.PutUint64(out[8:16], h.Hi)
	}
}

func murmur3Fn128(order binary.ByteOrder) core.HashFn {
	return func(key []byte, seed uint64, out []byte) {
		h1, h2 := murmur3.SeedSum128(seed, seed, key)
		order.PutUint64(out[0:8], h1)
		order.PutUint64(out[8:16], h2)
	}
}

// blake3Fn256 uses keyed BLAKE3 with the seed embedded in the 32-byte key,
// so the digest byte layout is the hash's own; byte order does not apply.
func blake3Fn256() core.HashFn {
	return func(key []byte, seed uint64, out []byte) {
		var kb [32]byte
		binary.LittleEndian.PutUint64(kb[:8], seed)
		h := blake3.New(32, kb[:])
		h.Write(key)
		h.Sum(out[:0])
	}
}
