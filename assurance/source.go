// Package assurance merges proof-related fields from multiple optional,
// untrusted sources into a single assurance verdict.
//
// Sources are arbitrary decoded records (typically JSON objects) supplied by
// callers in a fixed priority order: embedded payload first, then the owning
// market record, then a linked account record. Every probe is total: a
// missing, malformed, or wrongly typed field reads as absent, never as an
// error. Weak evidence lowers the assurance tier; it does not fail the mint.
package assurance

import "strconv"

// Source wraps one untrusted record and exposes total probe methods over it.
//
// Probes return (zero, false) for anything they cannot interpret. A nil or
// empty record is a valid Source that defines nothing.
type Source struct {
	rec map[string]any
}

// NewSource wraps a decoded record. The map is read, never written.
func NewSource(rec map[string]any) Source {
	return Source{rec: rec}
}

// FromAny wraps a record of unknown dynamic type. Non-map values produce an
// empty Source.
func FromAny(v any) Source {
	if m, ok := v.(map[string]any); ok {
		return Source{rec: m}
	}
	return Source{}
}

func (s Source) field(key string) (any, bool) {
	if s.rec == nil {
		return nil, false
	}
	v, ok := s.rec[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// stringField reads a non-empty string under any of the given keys.
func (s Source) stringField(keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := s.field(k)
		if !ok {
			continue
		}
		if str, ok := v.(string); ok && str != "" {
			return str, true
		}
	}
	return "", false
}

// Proof probes the record for a proof object under either accepted naming
// convention, unwrapping nested proof wrappers recursively.
func (s Source) Proof() (*ProofBundle, bool) {
	if s.rec == nil {
		return nil, false
	}
	return extractProof(s.rec, 0)
}

// PublicInputs probes the record for a non-empty public-input list.
// Elements are normalized to decimal strings; a list with no usable element
// reads as absent.
func (s Source) PublicInputs() ([]string, bool) {
	for _, key := range []string{"publicSignals", "publicInputs", "public_inputs", "inputs"} {
		v, ok := s.field(key)
		if !ok {
			continue
		}
		if inputs, ok := decimalList(v); ok {
			return inputs, true
		}
	}
	return nil, false
}

// VerifiedFlag probes the record for a verified assertion. Accepted spellings
// of truth: boolean true, string "true", numeric 1, string "1". All accepted
// key namings are read and ORed, so a record carrying verified:false next to
// zkVerified:true still asserts verification. Present-but-falsy flags read as
// (false, true); a record with no flag at all as (false, false).
func (s Source) VerifiedFlag() (bool, bool) {
	verified := false
	present := false
	for _, key := range []string{"verified", "isVerified", "proofVerified", "zkVerified"} {
		v, ok := s.field(key)
		if !ok {
			continue
		}
		present = true
		if truthy(v) {
			verified = true
		}
	}
	return verified, present
}

// Verifier probes the record for a verifier attribution string.
func (s Source) Verifier() (string, bool) {
	return s.stringField("verifier", "verifiedBy", "verified_by")
}

// CanonicalHash probes the record for an independently computed canonical
// hash, used by the seal-match tier.
func (s Source) CanonicalHash() (string, bool) {
	return s.stringField("canonicalHash", "canonical_hash", "payloadHash")
}

// PublicInput probes the record for a single derived public input.
func (s Source) PublicInput() (string, bool) {
	v, ok := s.stringField("publicInput", "public_input")
	if ok {
		return v, true
	}
	raw, ok := s.field("publicInput")
	if !ok {
		raw, ok = s.field("public_input")
	}
	if !ok {
		return "", false
	}
	return decimalString(raw)
}

// truthy implements the accepted verified-flag encodings.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "true" || x == "1"
	case float64:
		return x == 1
	case int:
		return x == 1
	case int64:
		return x == 1
	}
	if n, ok := jsonNumber(v); ok {
		return n == "1"
	}
	return false
}

// decimalString coerces a scalar to decimal text. Strings pass through when
// they are plain decimal digits (optionally signed); numbers are formatted
// without exponent when integral.
func decimalString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		if isDecimal(x) {
			return x, true
		}
		return "", false
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10), true
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	}
	if n, ok := jsonNumber(v); ok {
		return n, true
	}
	return "", false
}

func jsonNumber(v any) (string, bool) {
	type numeric interface{ String() string }
	if n, ok := v.(numeric); ok {
		s := n.String()
		if isDecimal(s) {
			return s, true
		}
	}
	return "", false
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		if len(s) == 1 {
			return false
		}
		i = 1
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func decimalList(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		d, ok := decimalString(e)
		if !ok {
			return nil, false
		}
		out = append(out, d)
	}
	return out, true
}
