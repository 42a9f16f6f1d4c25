package canonical

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
)

func TestCanonicalize_KeyOrderIndependence(t *testing.T) {
	// Build the same logical value through differently ordered literals.
	a := map[string]any{
		"marketId":         "m1",
		"side":             "YES",
		"lockedStakeMicro": "1500000",
		"moment":           map[string]any{"pulse": 12, "beat": 3, "stepIndex": 0},
	}
	b := map[string]any{
		"moment":           map[string]any{"stepIndex": 0, "pulse": 12, "beat": 3},
		"lockedStakeMicro": "1500000",
		"side":             "YES",
		"marketId":         "m1",
	}
	for i := 0; i < 32; i++ {
		if !bytes.Equal(Canonicalize(a), Canonicalize(b)) {
			t.Fatalf("canonical bytes differ for permuted key order")
		}
	}
}

func TestCanonicalize_DuplicateStringifiedKeys(t *testing.T) {
	// Distinct map keys can stringify to the same canonical key. The survivor
	// must be the same on every run, not whichever entry map iteration yields
	// last: ties resolve to the greatest encoded value.
	in := map[any]any{1: "a", "1": "b"}
	want := `{"1":"b"}`
	for i := 0; i < 64; i++ {
		if got := string(Canonicalize(in)); got != want {
			t.Fatalf("run %d: Canonicalize = %s, want %s", i, got, want)
		}
	}

	// Same property when the duplicate-keyed values are compound.
	in = map[any]any{2: []any{"x"}, "2": []any{"y"}}
	want = `{"2":["y"]}`
	for i := 0; i < 64; i++ {
		if got := string(Canonicalize(in)); got != want {
			t.Fatalf("run %d: Canonicalize = %s, want %s", i, got, want)
		}
	}
}

func TestCanonicalize_FixedBytes(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, `null`},
		{"bool", true, `true`},
		{"string", "YES", `"YES"`},
		{"decimalString", "1500000", `"1500000"`},
		{"jsonNumber", json.Number("1500000"), `1500000`},
		{"int", 42, `42`},
		{"float", 1.5, `1.5`},
		{"emptyMap", map[string]any{}, `{}`},
		{"emptyList", []any{}, `[]`},
		{
			"sortedKeys",
			map[string]any{"b": 2, "a": 1, "aa": 3},
			`{"a":1,"aa":3,"b":2}`,
		},
		{
			"listOrderPreserved",
			[]any{"z", "a", "m"},
			`["z","a","m"]`,
		},
		{
			"escapes",
			map[string]any{"k\"ey": "a\\b\nc\x01"},
			`{"k\"ey":"a\\b\nc\u0001"}`,
		},
		{
			"nested",
			map[string]any{"outer": map[string]any{"y": nil, "x": []any{false}}},
			`{"outer":{"x":[false],"y":null}}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(Canonicalize(tc.in))
			if got != tc.want {
				t.Fatalf("Canonicalize = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestFromAny_TotalOnCycles(t *testing.T) {
	m := map[string]any{"name": "loop"}
	m["self"] = m
	v := FromAny(m)
	self, ok := v.Get("self")
	if !ok {
		t.Fatalf("missing self field")
	}
	if self.Kind != KindString || self.Text != CycleSentinel {
		t.Fatalf("cycle not replaced by sentinel: %+v", self)
	}

	// A shared (non-cyclic) subtree must not trip the cycle detector.
	shared := map[string]any{"k": "v"}
	dag := map[string]any{"a": shared, "b": shared}
	dv := FromAny(dag)
	for _, key := range []string{"a", "b"} {
		f, ok := dv.Get(key)
		if !ok || f.Kind != KindMap {
			t.Fatalf("shared subtree %q lost: %+v", key, f)
		}
	}

	type exotic struct{ X int }
	ev := FromAny(exotic{X: 7})
	if ev.Kind != KindString {
		t.Fatalf("struct should degrade to string, got kind %d", ev.Kind)
	}
}

func TestFromAny_NonFiniteFloats(t *testing.T) {
	inf := FromAny(1.0)
	if inf.Kind != KindNumber {
		t.Fatalf("finite float should be a number")
	}
	for _, f := range []float64{nan(), posInf()} {
		v := FromAny(f)
		if v.Kind != KindString {
			t.Fatalf("non-finite float must degrade to string, got kind %d", v.Kind)
		}
	}
}

func nan() float64    { z := 0.0; return z / z }
func posInf() float64 { z := 0.0; return 1 / z }

func TestParse_RoundTrip(t *testing.T) {
	inputs := []any{
		nil,
		true,
		"text",
		json.Number("123456789012345678901234567890"),
		[]any{"a", json.Number("1"), nil, map[string]any{"k": "v"}},
		map[string]any{
			"amountMicro": "99000000",
			"list":        []any{json.Number("0"), json.Number("-1.5e9")},
			"meta":        map[string]any{"a": "1", "b": true},
		},
	}
	for _, in := range inputs {
		enc := Canonicalize(in)
		v, err := Parse(enc)
		if err != nil {
			t.Fatalf("Parse(%s): %v", enc, err)
		}
		re := Encode(v)
		if !bytes.Equal(enc, re) {
			t.Fatalf("re-encode mismatch: %s vs %s", enc, re)
		}
		if !reflect.DeepEqual(v, FromAny(in)) {
			t.Fatalf("parsed Value differs from normalized input for %s", enc)
		}
	}
}

func TestParse_RejectsNonCanonical(t *testing.T) {
	bad := []string{
		``,
		` {}`,
		`{ }`,
		`{"b":1,"a":2}`,    // unsorted keys
		`{"a":1,}`,         // trailing comma
		"\"\\u0041\"",    // \u escape for a printable character
		"\"\\u000a\"",    // \u escape where \n is canonical
		`[1,2`,             // unterminated
		"\"raw\tcontrol\"", // unescaped control char
		`nul`,              // bad literal
		`{"a":1}x`,         // trailing data
	}
	for _, in := range bad {
		if _, err := Parse([]byte(in)); err == nil {
			t.Fatalf("Parse(%q) should reject", in)
		}
	}
}
