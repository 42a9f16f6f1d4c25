package artifact

import (
	"reflect"
	"testing"

	"verdict.market/sealmint/assurance"
	"verdict.market/sealmint/canonical"
	"verdict.market/sealmint/digest"
)

func TestBuildSeal_BindsCanonicalBytes(t *testing.T) {
	p := positionPayload()
	seal, canonBytes, err := BuildSeal(p, nil)
	if err != nil {
		t.Fatalf("BuildSeal: %v", err)
	}
	if seal.CanonicalHash != digest.SumHex(canonBytes) {
		t.Fatalf("seal hash does not cover canonical bytes")
	}
	if seal.CanonicalLength != len(canonBytes) {
		t.Fatalf("seal length = %d, want %d", seal.CanonicalLength, len(canonBytes))
	}
	wantInput, err := digest.PublicInputFromHash(seal.CanonicalHash)
	if err != nil {
		t.Fatalf("PublicInputFromHash: %v", err)
	}
	if seal.PublicInput != wantInput {
		t.Fatalf("seal public input = %s, want %s", seal.PublicInput, wantInput)
	}
	if seal.Scheme != assurance.DefaultScheme {
		t.Fatalf("scheme = %s", seal.Scheme)
	}
}

func TestBuildSeal_SealMatchUsesOwnReference(t *testing.T) {
	p := positionPayload()
	// First pass to learn the payload's own hash and public input.
	probe, _, err := BuildSeal(p, nil)
	if err != nil {
		t.Fatalf("BuildSeal probe: %v", err)
	}

	linked := assurance.NewSource(map[string]any{
		"canonicalHash": probe.CanonicalHash,
		"publicInput":   probe.PublicInput,
	})
	seal, _, err := BuildSeal(p, []assurance.Source{linked})
	if err != nil {
		t.Fatalf("BuildSeal: %v", err)
	}
	if seal.Assurance.Tier != assurance.TierSealMatch {
		t.Fatalf("tier = %s, want seal-match", seal.Assurance.Tier)
	}
	if !seal.Assurance.HashMatch || !seal.Assurance.InputMatch {
		t.Fatalf("match flags not set: %+v", seal.Assurance)
	}
}

func TestSeal_ValueRoundTrip(t *testing.T) {
	seals := []Seal{
		{
			CanonicalHash:   "aa",
			CanonicalLength: 42,
			PublicInput:     "170",
			Scheme:          "groth16",
			Assurance:       assurance.Result{Tier: assurance.TierNone},
		},
		{
			CanonicalHash:   "bb",
			CanonicalLength: 7,
			PublicInput:     "187",
			Scheme:          "plonk",
			Assurance: assurance.Result{
				Tier: assurance.TierProofPresent,
				OK:   true,
				Proof: &assurance.ProofBundle{
					Scheme:       "plonk",
					A:            [2]string{"1", "2"},
					B:            [2][2]string{{"3", "4"}, {"5", "6"}},
					C:            [2]string{"7", "8"},
					PublicInputs: []string{"9"},
				},
				PublicInputs: []string{"9"},
				Verifier:     "indexer",
				HashMatch:    true,
				InputMatch:   false,
			},
		},
	}
	for _, in := range seals {
		v, err := canonical.Parse(in.CanonicalBytes())
		if err != nil {
			t.Fatalf("seal bytes not canonical: %v", err)
		}
		out, err := SealFromValue(v)
		if err != nil {
			t.Fatalf("SealFromValue: %v", err)
		}
		if !reflect.DeepEqual(out, in) {
			t.Fatalf("seal round trip drifted:\n in %+v\nout %+v", in, out)
		}
	}
}

func TestSealFromValue_Malformed(t *testing.T) {
	bad := []string{
		`{}`,
		`{"canonicalHash":"aa"}`,
		`{"assurance":{},"canonicalHash":"aa","canonicalLength":1,"publicInput":"1","scheme":"groth16"}`,
		`{"assurance":{"tier":"none"},"canonicalHash":"aa","canonicalLength":"1","publicInput":"1","scheme":"groth16"}`,
	}
	for _, raw := range bad {
		v, err := canonical.Parse([]byte(raw))
		if err != nil {
			t.Fatalf("test input not canonical: %q %v", raw, err)
		}
		if _, err := SealFromValue(v); err == nil {
			t.Fatalf("SealFromValue should reject %s", raw)
		}
	}
}
