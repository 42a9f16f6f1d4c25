package artifact

import (
	"strconv"

	"verdict.market/sealmint/assurance"
	"verdict.market/sealmint/canonical"
	"verdict.market/sealmint/digest"
)

// Seal binds a payload's canonical bytes to its proof-assurance verdict.
// A seal is created once per mint and never mutated; a changed payload means
// a new seal.
type Seal struct {
	CanonicalHash   string           `json:"canonicalHash"`
	CanonicalLength int              `json:"canonicalLength"`
	PublicInput     string           `json:"publicInput"`
	Scheme          string           `json:"scheme"`
	Assurance       assurance.Result `json:"assurance"`
}

// BuildSeal canonicalizes the payload, derives its content hash and fallback
// public input, and resolves assurance over the given sources (probed in
// slice order; callers pass embedded payload first, then the owning market
// record, then the linked account record).
func BuildSeal(p Payload, sources []assurance.Source) (Seal, []byte, error) {
	canonBytes := p.CanonicalBytes()
	hash := digest.SumHex(canonBytes)
	input, err := digest.PublicInputFromHash(hash)
	if err != nil {
		return Seal{}, nil, wrapError(StageSeal, "MINT-SEAL-001", "public input derivation failed", err)
	}

	res := assurance.Resolve(sources, assurance.Reference{CanonicalHash: hash, PublicInput: input})
	scheme := assurance.DefaultScheme
	if res.Proof != nil && res.Proof.Scheme != "" {
		scheme = res.Proof.Scheme
	}

	return Seal{
		CanonicalHash:   hash,
		CanonicalLength: len(canonBytes),
		PublicInput:     input,
		Scheme:          scheme,
		Assurance:       res,
	}, canonBytes, nil
}

// CanonicalValue renders the seal in canonical form for embedding. The
// mapping is explicit, field by field, so the embedded block is stable even
// if the Go struct grows.
func (s Seal) CanonicalValue() canonical.Value {
	fields := []canonical.Field{
		{Key: "canonicalHash", Value: canonical.StringValue(s.CanonicalHash)},
		{Key: "canonicalLength", Value: canonical.NumberValue(strconv.Itoa(s.CanonicalLength))},
		{Key: "publicInput", Value: canonical.StringValue(s.PublicInput)},
		{Key: "scheme", Value: canonical.StringValue(s.Scheme)},
		{Key: "assurance", Value: assuranceValue(s.Assurance)},
	}
	return canonical.MapValue(fields...)
}

// CanonicalBytes is the seal's canonical serialization.
func (s Seal) CanonicalBytes() []byte {
	return canonical.Encode(s.CanonicalValue())
}

func assuranceValue(r assurance.Result) canonical.Value {
	fields := []canonical.Field{
		{Key: "tier", Value: canonical.StringValue(string(r.Tier))},
		{Key: "ok", Value: canonical.BoolValue(r.OK)},
		{Key: "hashMatch", Value: canonical.BoolValue(r.HashMatch)},
		{Key: "inputMatch", Value: canonical.BoolValue(r.InputMatch)},
	}
	if r.Proof != nil {
		fields = append(fields, canonical.Field{Key: "proof", Value: proofValue(*r.Proof)})
	}
	if len(r.PublicInputs) > 0 {
		fields = append(fields, canonical.Field{Key: "publicInputs", Value: stringList(r.PublicInputs)})
	}
	if r.Verifier != "" {
		fields = append(fields, canonical.Field{Key: "verifier", Value: canonical.StringValue(r.Verifier)})
	}
	return canonical.MapValue(fields...)
}

func proofValue(p assurance.ProofBundle) canonical.Value {
	fields := []canonical.Field{
		{Key: "scheme", Value: canonical.StringValue(p.Scheme)},
		{Key: "a", Value: stringList(p.A[:])},
		{Key: "b", Value: canonical.ListValue(stringList(p.B[0][:]), stringList(p.B[1][:]))},
		{Key: "c", Value: stringList(p.C[:])},
	}
	if len(p.PublicInputs) > 0 {
		fields = append(fields, canonical.Field{Key: "publicInputs", Value: stringList(p.PublicInputs)})
	}
	return canonical.MapValue(fields...)
}

func stringList(items []string) canonical.Value {
	vals := make([]canonical.Value, len(items))
	for i, s := range items {
		vals[i] = canonical.StringValue(s)
	}
	return canonical.ListValue(vals...)
}

// SealFromValue decodes a seal from its embedded canonical form. It is the
// exact inverse of CanonicalValue for seals this library produced.
func SealFromValue(v canonical.Value) (Seal, error) {
	var s Seal
	var ok bool
	if s.CanonicalHash, ok = stringAt(v, "canonicalHash"); !ok {
		return Seal{}, newError(StageExtract, "MINT-EXT-101", "seal block missing canonicalHash")
	}
	lengthText, ok := numberAt(v, "canonicalLength")
	if !ok {
		return Seal{}, newError(StageExtract, "MINT-EXT-102", "seal block missing canonicalLength")
	}
	n, err := strconv.Atoi(lengthText)
	if err != nil || n < 0 {
		return Seal{}, newError(StageExtract, "MINT-EXT-103", "invalid canonicalLength")
	}
	s.CanonicalLength = n
	if s.PublicInput, ok = stringAt(v, "publicInput"); !ok {
		return Seal{}, newError(StageExtract, "MINT-EXT-104", "seal block missing publicInput")
	}
	if s.Scheme, ok = stringAt(v, "scheme"); !ok {
		return Seal{}, newError(StageExtract, "MINT-EXT-105", "seal block missing scheme")
	}
	av, ok := v.Get("assurance")
	if !ok {
		return Seal{}, newError(StageExtract, "MINT-EXT-106", "seal block missing assurance")
	}
	res, err := assuranceFromValue(av)
	if err != nil {
		return Seal{}, err
	}
	s.Assurance = res
	return s, nil
}

func assuranceFromValue(v canonical.Value) (assurance.Result, error) {
	var r assurance.Result
	tier, ok := stringAt(v, "tier")
	if !ok {
		return r, newError(StageExtract, "MINT-EXT-111", "assurance missing tier")
	}
	r.Tier = assurance.Tier(tier)
	r.OK, _ = boolAt(v, "ok")
	r.HashMatch, _ = boolAt(v, "hashMatch")
	r.InputMatch, _ = boolAt(v, "inputMatch")
	r.Verifier, _ = stringAt(v, "verifier")
	if pv, ok := v.Get("proof"); ok {
		p, err := proofFromValue(pv)
		if err != nil {
			return r, err
		}
		r.Proof = &p
	}
	if lv, ok := v.Get("publicInputs"); ok {
		inputs, ok := stringsFromList(lv)
		if !ok {
			return r, newError(StageExtract, "MINT-EXT-112", "assurance publicInputs malformed")
		}
		r.PublicInputs = inputs
	}
	return r, nil
}

func proofFromValue(v canonical.Value) (assurance.ProofBundle, error) {
	var p assurance.ProofBundle
	p.Scheme, _ = stringAt(v, "scheme")
	badProof := func() (assurance.ProofBundle, error) {
		return assurance.ProofBundle{}, newError(StageExtract, "MINT-EXT-113", "embedded proof malformed")
	}
	av, ok := v.Get("a")
	if !ok {
		return badProof()
	}
	if p.A, ok = pairFromList(av); !ok {
		return badProof()
	}
	bv, ok := v.Get("b")
	if !ok || bv.Kind != canonical.KindList || len(bv.List) != 2 {
		return badProof()
	}
	for i := 0; i < 2; i++ {
		if p.B[i], ok = pairFromList(bv.List[i]); !ok {
			return badProof()
		}
	}
	cv, ok := v.Get("c")
	if !ok {
		return badProof()
	}
	if p.C, ok = pairFromList(cv); !ok {
		return badProof()
	}
	if lv, ok := v.Get("publicInputs"); ok {
		if p.PublicInputs, ok = stringsFromList(lv); !ok {
			return badProof()
		}
	}
	return p, nil
}

func stringAt(v canonical.Value, key string) (string, bool) {
	f, ok := v.Get(key)
	if !ok || f.Kind != canonical.KindString {
		return "", false
	}
	return f.Text, true
}

func numberAt(v canonical.Value, key string) (string, bool) {
	f, ok := v.Get(key)
	if !ok || f.Kind != canonical.KindNumber {
		return "", false
	}
	return f.Text, true
}

func boolAt(v canonical.Value, key string) (bool, bool) {
	f, ok := v.Get(key)
	if !ok || f.Kind != canonical.KindBool {
		return false, false
	}
	return f.Bool, true
}

func stringsFromList(v canonical.Value) ([]string, bool) {
	if v.Kind != canonical.KindList {
		return nil, false
	}
	out := make([]string, len(v.List))
	for i, e := range v.List {
		if e.Kind != canonical.KindString {
			return nil, false
		}
		out[i] = e.Text
	}
	return out, true
}

func pairFromList(v canonical.Value) ([2]string, bool) {
	items, ok := stringsFromList(v)
	if !ok || len(items) != 2 {
		return [2]string{}, false
	}
	return [2]string{items[0], items[1]}, true
}
