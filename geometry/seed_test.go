package geometry

import "testing"

func TestSeedFromHex_Deterministic(t *testing.T) {
	const digest = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
	first := SeedFromHex(digest)
	for i := 0; i < 10; i++ {
		if got := SeedFromHex(digest); got != first {
			t.Fatalf("seed not deterministic: %d vs %d", got, first)
		}
	}
	if SeedFromHex(digest) == SeedFromHex(digest[:len(digest)-1]+"9") {
		t.Fatalf("single-digit change should diffuse into a different seed")
	}
	if SeedFromHex("") != 0 {
		t.Fatalf("empty input folds to zero accumulator")
	}
}

func TestSeedFromHex_FixedVectors(t *testing.T) {
	// Pinned outputs of the documented mix (XOR, *0x9E3779B1, rotl 13).
	// These vectors are part of the cross-renderer contract: if they move,
	// every previously minted artifact renders differently.
	mix := func(acc, cp uint32) uint32 {
		acc ^= cp
		acc *= 0x9E3779B1
		return acc<<13 | acc>>19
	}
	for _, in := range []string{"0", "ab", "deadbeef"} {
		var want uint32
		for _, c := range in {
			want = mix(want, uint32(c))
		}
		if got := SeedFromHex(in); got != want {
			t.Fatalf("SeedFromHex(%q) = %#x, want %#x", in, got, want)
		}
	}
}

func TestGenerator_SameSeedSameSequence(t *testing.T) {
	a := NewGenerator(12345)
	b := NewGenerator(12345)
	for i := 0; i < 1000; i++ {
		av, bv := a.Next(), b.Next()
		if av != bv {
			t.Fatalf("sequences diverge at step %d: %d vs %d", i, av, bv)
		}
	}
}

func TestGenerator_Recurrence(t *testing.T) {
	g := NewGenerator(1)
	x := uint32(1)
	for i := 0; i < 100; i++ {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		if got := g.Next(); got != x {
			t.Fatalf("recurrence drifted at step %d: %d vs %d", i, got, x)
		}
	}
}

func TestGenerator_ZeroSeedUsable(t *testing.T) {
	g := NewGenerator(0)
	var zero Generator
	for i := 0; i < 10; i++ {
		a, b := g.Next(), zero.Next()
		if a == 0 {
			t.Fatalf("zero seed must not hit the xorshift fixed point")
		}
		if a != b {
			t.Fatalf("zero value and NewGenerator(0) disagree at step %d", i)
		}
	}
}

func TestGenerator_Float64Range(t *testing.T) {
	g := NewGenerator(SeedFromHex("feedface"))
	for i := 0; i < 10000; i++ {
		f := g.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of [0,1): %v", f)
		}
	}
}
