package assurance

import (
	"encoding/json"
	"reflect"
	"testing"
)

func mustSource(t *testing.T, raw string) Source {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("bad test record: %v", err)
	}
	return NewSource(rec)
}

const snarkjsProof = `{
	"pi_a": ["11", "22", "1"],
	"pi_b": [["1", "2"], ["3", "4"], ["1", "0"]],
	"pi_c": ["55", "66", "1"],
	"protocol": "groth16",
	"publicSignals": ["777"]
}`

const plainProof = `{
	"a": ["11", "22"],
	"b": [["1", "2"], ["3", "4"]],
	"c": ["55", "66"],
	"scheme": "groth16",
	"inputs": ["777"]
}`

func TestResolve_NoSources(t *testing.T) {
	res := Resolve(nil, Reference{CanonicalHash: "abc", PublicInput: "1"})
	if res.Tier != TierNone || res.OK {
		t.Fatalf("empty source set must yield tier none, got %+v", res)
	}
}

func TestResolve_TierPrecedence(t *testing.T) {
	ref := Reference{CanonicalHash: "cafe", PublicInput: "51966"}

	cases := []struct {
		name    string
		sources []Source
		want    Tier
	}{
		{
			"verifiedFlagOnly",
			[]Source{mustSource(t, `{"verified": true}`)},
			TierVerifiedFlag,
		},
		{
			"verifiedFlagString",
			[]Source{mustSource(t, `{"isVerified": "true"}`)},
			TierVerifiedFlag,
		},
		{
			"verifiedFlagNumeric",
			[]Source{mustSource(t, `{"proofVerified": 1}`)},
			TierVerifiedFlag,
		},
		{
			"proofBeatsFlag",
			[]Source{
				mustSource(t, `{"verified": true}`),
				mustSource(t, `{"proof": `+snarkjsProof+`}`),
			},
			TierProofPresent,
		},
		{
			"proofBeatsFalseFlag",
			[]Source{
				mustSource(t, `{"verified": false}`),
				mustSource(t, plainProof),
			},
			TierProofPresent,
		},
		{
			"publicInputsAloneArePresence",
			[]Source{mustSource(t, `{"publicSignals": ["777"]}`)},
			TierProofPresent,
		},
		{
			"sealMatch",
			[]Source{mustSource(t, `{"canonicalHash": "cafe", "publicInput": "51966"}`)},
			TierSealMatch,
		},
		{
			"sealMatchNeedsBoth",
			[]Source{mustSource(t, `{"canonicalHash": "cafe", "publicInput": "999"}`)},
			TierNone,
		},
		{
			"flagBeatsSealMatch",
			[]Source{
				mustSource(t, `{"canonicalHash": "cafe", "publicInput": "51966"}`),
				mustSource(t, `{"verified": "1"}`),
			},
			TierVerifiedFlag,
		},
		{
			"malformedFieldsDegrade",
			[]Source{mustSource(t, `{"proof": "not-an-object", "verified": "nope", "publicSignals": []}`)},
			TierNone,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Resolve(tc.sources, ref)
			if res.Tier != tc.want {
				t.Fatalf("tier = %s, want %s", res.Tier, tc.want)
			}
			if res.OK != (tc.want != TierNone) {
				t.Fatalf("ok = %v inconsistent with tier %s", res.OK, res.Tier)
			}
		})
	}
}

func TestResolve_VerifiedFlagIsORAcrossSources(t *testing.T) {
	sources := []Source{
		mustSource(t, `{"verified": false}`),
		mustSource(t, `{"verified": false}`),
		mustSource(t, `{"verified": true}`),
	}
	res := Resolve(sources, Reference{})
	if res.Tier != TierVerifiedFlag {
		t.Fatalf("any truthy flag must be sufficient, got %s", res.Tier)
	}
}

func TestResolve_VerifiedFlagIsORWithinSource(t *testing.T) {
	// A falsy flag under one naming must not shadow a truthy flag under
	// another in the same record.
	src := mustSource(t, `{"verified": false, "zkVerified": true}`)
	got, present := src.VerifiedFlag()
	if !present || !got {
		t.Fatalf("VerifiedFlag = (%v, %v), want (true, true)", got, present)
	}

	res := Resolve([]Source{src}, Reference{})
	if res.Tier != TierVerifiedFlag {
		t.Fatalf("tier = %s, want %s", res.Tier, TierVerifiedFlag)
	}

	// All-falsy namings stay not-verified.
	src = mustSource(t, `{"verified": false, "zkVerified": "0"}`)
	got, present = src.VerifiedFlag()
	if !present || got {
		t.Fatalf("VerifiedFlag = (%v, %v), want (false, true)", got, present)
	}
}

func TestResolve_FirstDefinedWinsPerField(t *testing.T) {
	sources := []Source{
		mustSource(t, `{"verifier": "alpha"}`),
		mustSource(t, `{"verifier": "beta", "publicSignals": ["9"]}`),
	}
	res := Resolve(sources, Reference{})
	if res.Verifier != "alpha" {
		t.Fatalf("verifier = %q, want first-defined %q", res.Verifier, "alpha")
	}
	if !reflect.DeepEqual(res.PublicInputs, []string{"9"}) {
		t.Fatalf("public inputs = %v", res.PublicInputs)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	sources := []Source{
		mustSource(t, `{"proof": {"zkProof": `+snarkjsProof+`}}`),
		mustSource(t, `{"verified": 1, "verifier": "chain"}`),
	}
	ref := Reference{CanonicalHash: "aa", PublicInput: "170"}
	first := Resolve(sources, ref)
	for i := 0; i < 50; i++ {
		if got := Resolve(sources, ref); !reflect.DeepEqual(got, first) {
			t.Fatalf("Resolve not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestTierRank_StrictOrder(t *testing.T) {
	order := []Tier{TierNone, TierSealMatch, TierVerifiedFlag, TierProofPresent}
	for i := 1; i < len(order); i++ {
		if !(order[i-1].Rank() < order[i].Rank()) {
			t.Fatalf("rank order broken between %s and %s", order[i-1], order[i])
		}
	}
}
