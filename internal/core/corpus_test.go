package core

import (
	"bytes"
	"math/rand"
	"testing"
)

type recordSink struct {
	buf []byte
}

func (s *recordSink) AddInput(p []byte) {
	s.buf = append(s.buf, p...)
}

func TestKeyCorpusDeterminism(t *testing.T) {
	a := NewKeyCorpus(11, 5, rand.New(rand.NewSource(CorpusSeed)), nil)
	b := NewKeyCorpus(11, 5, rand.New(rand.NewSource(CorpusSeed)), nil)
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("same seed produced different corpora")
	}

	c := NewKeyCorpus(11, 5, rand.New(rand.NewSource(CorpusSeed+1)), nil)
	if bytes.Equal(a.Bytes(), c.Bytes()) {
		t.Fatalf("different seeds produced identical corpora")
	}
}

func TestKeyCorpusLayout(t *testing.T) {
	const keyBytes, reps = 3, 4
	c := NewKeyCorpus(keyBytes, reps, rand.New(rand.NewSource(1)), nil)

	if c.KeyBits() != keyBytes*8 {
		t.Fatalf("KeyBits = %d, want %d", c.KeyBits(), keyBytes*8)
	}
	if want := keyBytes * c.KeyBits() * reps; len(c.Bytes()) != want {
		t.Fatalf("corpus length = %d, want %d", len(c.Bytes()), want)
	}

	// All repetitions of a key bit are contiguous, keys tile the buffer.
	raw := c.Bytes()
	for keyBit := 0; keyBit < c.KeyBits(); keyBit++ {
		for rep := 0; rep < reps; rep++ {
			off := (keyBit*reps + rep) * keyBytes
			if !bytes.Equal(c.Key(keyBit, rep), raw[off:off+keyBytes]) {
				t.Fatalf("Key(%d, %d) does not match expected corpus region", keyBit, rep)
			}
		}
	}
}

func TestKeyCorpusMutationIsolation(t *testing.T) {
	c := NewKeyCorpus(2, 3, rand.New(rand.NewSource(7)), nil)

	before := append([]byte(nil), c.Key(0, 1)...)
	flipBit(c.Key(0, 0), 9)
	if !bytes.Equal(c.Key(0, 1), before) {
		t.Errorf("flipping a bit in one key corrupted a neighboring repetition's key")
	}

	// Keys alias corpus memory: the flip must be visible through Bytes.
	if !bytes.Equal(c.Key(0, 0), c.Bytes()[:2]) {
		t.Errorf("Key(0, 0) no longer aliases the corpus buffer")
	}
}

func TestKeyCorpusFeedsSink(t *testing.T) {
	sink := &recordSink{}
	c := NewKeyCorpus(4, 2, rand.New(rand.NewSource(3)), sink)
	if !bytes.Equal(sink.buf, c.Bytes()) {
		t.Fatalf("sink received %d bytes, want the verbatim %d-byte corpus", len(sink.buf), len(c.Bytes()))
	}
}

func TestFlipBit(t *testing.T) {
	key := []byte{0x00, 0x00}
	flipBit(key, 0)
	if key[0] != 0x01 {
		t.Errorf("flipBit(0): key = %x", key)
	}
	flipBit(key, 15)
	if key[1] != 0x80 {
		t.Errorf("flipBit(15): key = %x", key)
	}
	flipBit(key, 0)
	if key[0] != 0x00 {
		t.Errorf("flipBit is not an involution: key = %x", key)
	}
}
