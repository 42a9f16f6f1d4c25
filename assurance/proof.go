package assurance

// ProofBundle is the normalized internal shape of a Groth16-style proof:
// curve point group A as one coordinate pair, B as a pair of pairs, C as one
// pair, all coordinates carried as decimal strings.
//
// The bundle records shape and presence only. Nothing here attests that the
// proof verifies against any trust root.
type ProofBundle struct {
	Scheme       string       `json:"scheme"`
	A            [2]string    `json:"a"`
	B            [2][2]string `json:"b"`
	C            [2]string    `json:"c"`
	PublicInputs []string     `json:"publicInputs,omitempty"`
}

// DefaultScheme is assumed when a proof object carries no scheme tag.
const DefaultScheme = "groth16"

// maxProofDepth bounds recursive unwrapping of nested proof wrappers so a
// hostile record cannot recurse unboundedly.
const maxProofDepth = 8

// proofWrapperKeys are the accepted nestings: {"proof": {...}} and
// {"zkProof": {...}}, possibly stacked.
var proofWrapperKeys = []string{"proof", "zkProof", "zk_proof"}

// extractProof recognizes a proof object under either field-naming convention
// and normalizes it. It is total: malformed candidates read as absent.
func extractProof(rec map[string]any, depth int) (*ProofBundle, bool) {
	if rec == nil || depth > maxProofDepth {
		return nil, false
	}

	// snarkjs convention: pi_a / pi_b / pi_c, protocol, publicSignals.
	if p, ok := proofFromKeys(rec, "pi_a", "pi_b", "pi_c", "protocol", "publicSignals"); ok {
		return p, true
	}
	// Plain convention: a / b / c, scheme, inputs.
	if p, ok := proofFromKeys(rec, "a", "b", "c", "scheme", "inputs"); ok {
		return p, true
	}

	for _, key := range proofWrapperKeys {
		inner, ok := rec[key].(map[string]any)
		if !ok {
			continue
		}
		if p, ok := extractProof(inner, depth+1); ok {
			return p, true
		}
	}
	return nil, false
}

func proofFromKeys(rec map[string]any, aKey, bKey, cKey, schemeKey, inputsKey string) (*ProofBundle, bool) {
	a, ok := coordPair(rec[aKey])
	if !ok {
		return nil, false
	}
	b, ok := coordPairPair(rec[bKey])
	if !ok {
		return nil, false
	}
	c, ok := coordPair(rec[cKey])
	if !ok {
		return nil, false
	}

	p := &ProofBundle{Scheme: DefaultScheme, A: a, B: b, C: c}
	if s, ok := rec[schemeKey].(string); ok && s != "" {
		p.Scheme = s
	}
	if inputs, ok := decimalList(rec[inputsKey]); ok {
		p.PublicInputs = inputs
	}
	return p, true
}

// coordPair reads a curve point as two decimal-string coordinates. snarkjs
// emits three projective coordinates; the affine pair is the first two and a
// trailing element is tolerated.
func coordPair(v any) ([2]string, bool) {
	list, ok := v.([]any)
	if !ok || len(list) < 2 || len(list) > 3 {
		return [2]string{}, false
	}
	var out [2]string
	for i := 0; i < 2; i++ {
		d, ok := decimalString(list[i])
		if !ok {
			return [2]string{}, false
		}
		out[i] = d
	}
	return out, true
}

func coordPairPair(v any) ([2][2]string, bool) {
	list, ok := v.([]any)
	if !ok || len(list) < 2 || len(list) > 3 {
		return [2][2]string{}, false
	}
	var out [2][2]string
	for i := 0; i < 2; i++ {
		pair, ok := coordPair(list[i])
		if !ok {
			return [2][2]string{}, false
		}
		out[i] = pair
	}
	return out, true
}
