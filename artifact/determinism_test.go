package artifact

import (
	"strconv"
	"strings"
	"testing"

	"verdict.market/sealmint/assurance"
	"verdict.market/sealmint/geometry"
)

// The whole pipeline must be a pure function of its logical input: identical
// payload and sources produce byte-identical containers regardless of source
// map construction order or how many times the mint runs.
func TestDeterminism_Container_ByteIdentical_ShuffledAttrs(t *testing.T) {
	build := func(order []string) Payload {
		p := positionPayload()
		p.Attrs = map[string]string{}
		for _, k := range order {
			p.Attrs[k] = "v-" + k
		}
		return p
	}
	keys := []string{"alpha", "beta", "gamma", "delta"}
	reversed := []string{"delta", "gamma", "beta", "alpha"}

	a := mustMint(t, Request{Payload: build(keys)})
	b := mustMint(t, Request{Payload: build(reversed)})
	if string(a.Container) != string(b.Container) {
		t.Fatalf("attr insertion order leaked into container bytes")
	}
	if a.Identity != b.Identity {
		t.Fatalf("attr insertion order leaked into identity")
	}
}

func TestDeterminism_GeometryDerivedFromHashOnly(t *testing.T) {
	a := mustMint(t, Request{Payload: positionPayload()})
	seed := geometry.SeedFromHex(a.Seal.CanonicalHash)

	// The seed recorded in the container must match an independent
	// derivation from the seal hash.
	wantAttr := `data-seed="` + strconv.FormatUint(uint64(seed), 10) + `"`
	if !strings.Contains(string(a.Container), wantAttr) {
		t.Fatalf("container does not carry the hash-derived seed %s", wantAttr)
	}

	// A one-field payload change must reseed the whole rendering.
	p := positionPayload()
	p.LockedStakeMicro = "1500001"
	b := mustMint(t, Request{Payload: p})
	if a.Seal.CanonicalHash == b.Seal.CanonicalHash {
		t.Fatalf("payload change did not change canonical hash")
	}
	if string(a.Container) == string(b.Container) {
		t.Fatalf("different payloads rendered identical containers")
	}
}

func TestDeterminism_RepeatedMints(t *testing.T) {
	req := Request{
		Payload: positionPayload(),
		Sources: []assurance.Source{sourceFromJSON(t, `{"verified": true}`)},
	}
	first := mustMint(t, req)
	for i := 0; i < 8; i++ {
		again := mustMint(t, req)
		if string(again.Container) != string(first.Container) {
			t.Fatalf("container drifted on run %d", i)
		}
		if again.Identity != first.Identity {
			t.Fatalf("identity drifted on run %d", i)
		}
	}
}
