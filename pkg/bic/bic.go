// Package bic implements the Bit Independence Criterion test: for every
// input bit of a key, flip it across many random keys and check that every
// pair of hash output bits changes independently. Tallies are collected with
// a compressed counting scheme (see internal/core) and judged with a
// chi-square test of independence.
package bic

import (
	"fmt"
	"math/rand"

	"bicgo/internal/core"
	"bicgo/internal/hashes"
	"bicgo/internal/util"
	"bicgo/internal/vcode"
)

// TestID is this test's seed-derivation identifier, fixed so BIC seeds never
// collide with other tests' seeds under the same global seed.
const TestID = 3

// Test runs the BIC suite for one hash: one engine run per configured key
// length, all sharing the derived seed. The bool is the statistical verdict
// (a failing hash is a normal outcome, not an error); the error reports a
// configuration that cannot run at all. led and vc may be nil.
func Test(info *hashes.HashInfo, cfg *core.TestConfig, led *Ledger, vc *vcode.Accumulator) (bool, error) {
	if err := cfg.Validate(); err != nil {
		return false, err
	}
	if info.Bits <= 0 || info.Bits%8 != 0 {
		return false, core.ConfigError{Msg: fmt.Sprintf("hash %q has unusable output width %d", info.Name, info.Bits)}
	}

	fmt.Printf("[[[ BIC 'Bit Independence Criteria' Tests ]]]\n\n")

	seed := info.SeedForTest(cfg.Seed, TestID)
	reps := cfg.Reps(info.Bits, info.VerySlow)
	util.Log(cfg.Verbose, "BIC: hash=%s bits=%d threads=%d batch=%d reps=%d seed=%#x",
		info.Name, info.Bits, cfg.NumThreads, cfg.BatchSize, reps, seed)

	result := true
	for _, keyBytes := range cfg.KeyLengths {
		ok := testKeyLength(info, cfg, seed, keyBytes, reps, led, vc)
		result = result && ok
	}

	if result {
		fmt.Printf("\n")
	} else {
		fmt.Printf("\n*********FAIL*********\n")
	}
	return result, nil
}

// testKeyLength is one engine run: generate the corpus, collect tallies,
// evaluate, record.
func testKeyLength(info *hashes.HashInfo, cfg *core.TestConfig, seed uint64,
	keyBytes, reps int, led *Ledger, vc *vcode.Accumulator) bool {
	keyBits := keyBytes * 8

	fmt.Printf("Testing %3d-bit keys, %8d reps", keyBits, reps)

	rng := rand.New(rand.NewSource(core.CorpusSeed))
	var sink core.InputSink
	if vc != nil {
		sink = vc
	}
	corpus := core.NewKeyCorpus(keyBytes, reps, rng, sink)

	pop := core.NewPopcountTable(keyBits, info.Bits)
	and := core.NewAndcountTable(keyBits, info.Bits)

	run := &core.Run{
		Hash:     info.Fn,
		Seed:     seed,
		HashBits: info.Bits,
		Corpus:   corpus,
		Pop:      pop,
		And:      and,
		Progress: cfg.Progress,
	}
	run.Collect(cfg.NumThreads, cfg.BatchSize)

	pass := ReportChiSqIndep(pop, and, keyBits, info.Bits, reps, cfg.Verbose)

	if led != nil {
		led.Record("BIC", keyBits, pass)
	}
	if vc != nil {
		var v uint64
		if pass {
			v = 1
		}
		vc.AddResult(v)
	}
	return pass
}
