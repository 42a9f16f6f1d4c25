package digest

import (
	"strings"
	"testing"
)

func TestSumHex_KnownVector(t *testing.T) {
	// sha256("") is a fixed public vector; any drift here means the digest
	// primitive or encoding changed underneath us.
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := SumHex(nil); got != empty {
		t.Fatalf("SumHex(nil) = %s, want %s", got, empty)
	}
	if got := SumHex([]byte{}); got != empty {
		t.Fatalf("SumHex(empty) = %s, want %s", got, empty)
	}
}

func TestSumHex_Deterministic(t *testing.T) {
	data := []byte(`{"marketId":"m1","side":"YES"}`)
	first := SumHex(data)
	for i := 0; i < 100; i++ {
		if got := SumHex(data); got != first {
			t.Fatalf("digest not deterministic: %s vs %s", got, first)
		}
	}
	if len(first) != 64 {
		t.Fatalf("expected 256-bit hex digest, got %d chars", len(first))
	}
}

func TestSumHexAlg(t *testing.T) {
	data := []byte("abc")
	for _, alg := range []string{"sha256", "sha512", "sha3-256"} {
		got, err := SumHexAlg(alg, data)
		if err != nil {
			t.Fatalf("SumHexAlg(%s): %v", alg, err)
		}
		if got == "" || got != strings.ToLower(got) {
			t.Fatalf("SumHexAlg(%s) = %q", alg, got)
		}
	}
	if _, err := SumHexAlg("md5", data); err == nil {
		t.Fatalf("unsupported algorithm must fail, not default")
	}
}

func TestDeriveID_DomainSeparation(t *testing.T) {
	ref := SumHex([]byte("payload"))[:16]
	pos := DeriveID(PrefixPosition, "m1", ref)
	res := DeriveID(PrefixResolution, "m1", ref)
	if pos == res {
		t.Fatalf("identifiers must not collide across kinds")
	}
	if pos != DeriveID(PrefixPosition, "m1", ref) {
		t.Fatalf("DeriveID not deterministic")
	}
	if pos != SumHex([]byte("pos:m1:"+ref)) {
		t.Fatalf("DeriveID composition drifted from pos:logicalID:ref")
	}
}

func TestPublicInputFromHash(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ff", "255"},
		{"0x0A", "10"},
		{"00", "0"},
		{"de", "222"},
	}
	for _, tc := range cases {
		got, err := PublicInputFromHash(tc.in)
		if err != nil {
			t.Fatalf("PublicInputFromHash(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("PublicInputFromHash(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "xyz", "0x"} {
		if _, err := PublicInputFromHash(bad); err == nil {
			t.Fatalf("PublicInputFromHash(%q) should fail", bad)
		}
	}
}
