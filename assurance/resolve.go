package assurance

// Tier classifies how strongly a proof claim is evidenced. The order encodes
// decreasing epistemic strength: cryptographic self-evidence, then asserted
// trust, then structural cross-consistency, then nothing. Callers must never
// treat a lower tier as equal to a higher one.
type Tier string

const (
	TierProofPresent Tier = "proof-present"
	TierVerifiedFlag Tier = "verified-flag"
	TierSealMatch    Tier = "seal-match"
	TierNone         Tier = "none"
)

// Rank returns the strict precedence of a tier; higher wins.
func (t Tier) Rank() int {
	switch t {
	case TierProofPresent:
		return 3
	case TierVerifiedFlag:
		return 2
	case TierSealMatch:
		return 1
	}
	return 0
}

// Reference carries the artifact's own canonical hash and derived public
// input. The seal-match tier compares a secondary record against these.
type Reference struct {
	CanonicalHash string
	PublicInput   string
}

// Result is the merged assurance verdict.
type Result struct {
	Tier Tier `json:"tier"`
	OK   bool `json:"ok"`

	Proof        *ProofBundle `json:"proof,omitempty"`
	PublicInputs []string     `json:"publicInputs,omitempty"`
	Verifier     string       `json:"verifier,omitempty"`

	// Cross-record match flags populated for the seal-match decision.
	HashMatch  bool `json:"hashMatch"`
	InputMatch bool `json:"inputMatch"`
}

// Resolve merges the given sources, probed in slice order, into one verdict.
//
// Tier decision, strict priority:
//  1. proof-present: a structurally valid proof object exists, or a non-empty
//     public-input list exists. Self-verifiable, independent of other records.
//  2. verified-flag: at least one source asserts a truthy verified flag.
//  3. seal-match: a secondary record's canonical hash AND derived public
//     input both equal ref; internal cross-consistency standing in for
//     missing direct evidence.
//  4. none.
//
// Resolve is total and deterministic: identical inputs always produce an
// identical Result.
func Resolve(sources []Source, ref Reference) Result {
	var res Result

	proof, hasProof := firstDefined(sources, Source.Proof)
	inputs, hasInputs := firstDefined(sources, Source.PublicInputs)
	verifier, _ := firstDefined(sources, Source.Verifier)
	verified := anyVerified(sources)

	res.Proof = proof
	res.Verifier = verifier
	if hasInputs {
		res.PublicInputs = inputs
	} else if hasProof && len(proof.PublicInputs) > 0 {
		res.PublicInputs = proof.PublicInputs
	}

	if hash, ok := firstDefined(sources, Source.CanonicalHash); ok {
		res.HashMatch = ref.CanonicalHash != "" && hash == ref.CanonicalHash
	}
	if input, ok := firstDefined(sources, Source.PublicInput); ok {
		res.InputMatch = ref.PublicInput != "" && input == ref.PublicInput
	}

	switch {
	case hasProof || hasInputs:
		res.Tier = TierProofPresent
	case verified:
		res.Tier = TierVerifiedFlag
	case res.HashMatch && res.InputMatch:
		res.Tier = TierSealMatch
	default:
		res.Tier = TierNone
	}
	res.OK = res.Tier != TierNone
	return res
}
