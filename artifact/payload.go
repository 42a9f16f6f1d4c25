// Package artifact assembles canonical payloads, proof-assurance seals, and
// seeded geometry into self-describing minted containers with permanent
// identities.
package artifact

import (
	"strconv"

	"verdict.market/sealmint/canonical"
	"verdict.market/sealmint/digest"
)

// SchemaVersion tags payloads produced by this library.
const SchemaVersion = "1"

// Kind discriminates artifact payload kinds. Each kind owns a distinct
// derived-identifier namespace.
type Kind string

const (
	KindPosition   Kind = "position"
	KindResolution Kind = "resolution"
)

// DomainPrefix maps a kind to its identifier namespace tag.
func (k Kind) DomainPrefix() (digest.DomainPrefix, bool) {
	switch k {
	case KindPosition:
		return digest.PrefixPosition, true
	case KindResolution:
		return digest.PrefixResolution, true
	}
	return "", false
}

// Moment pins a payload to a point in market time.
type Moment struct {
	Pulse     uint64 `json:"pulse"`
	Beat      uint64 `json:"beat"`
	StepIndex uint64 `json:"stepIndex"`
}

// Payload is the logical record being sealed: a trading position or a
// resolution outcome.
//
// Monetary quantities are non-negative decimal strings in micro-units, never
// native floating point; exactness must survive canonicalization and embed
// round trips byte-for-byte. Identity key material is opaque to the pipeline
// and consumed read-only.
type Payload struct {
	Version string `json:"version"`
	Kind    Kind   `json:"kind"`
	Moment  Moment `json:"moment"`

	MarketID string `json:"marketId"`
	// Side is the taken position ("YES"/"NO") for position payloads; Outcome
	// is the resolved result for resolution payloads.
	Side    string `json:"side,omitempty"`
	Outcome string `json:"outcome,omitempty"`

	OwnerKey string `json:"ownerKey,omitempty"`

	LockedStakeMicro string `json:"lockedStakeMicro,omitempty"`
	PayoutMicro      string `json:"payoutMicro,omitempty"`

	// Attrs carries additional descriptive fields; they participate in the
	// canonical form and the rendered bands.
	Attrs map[string]string `json:"attrs,omitempty"`
}

// LogicalID is the stable logical handle the derived identifier is computed
// from.
func (p Payload) LogicalID() string {
	return p.MarketID
}

// Validate checks the payload against the input schema. It reports the first
// violation as a structured Validate-stage error.
func (p Payload) Validate() error {
	if p.Version == "" {
		return newError(StageValidate, "MINT-VAL-001", "missing payload version")
	}
	if _, ok := p.Kind.DomainPrefix(); !ok {
		return newError(StageValidate, "MINT-VAL-002", "unknown payload kind")
	}
	if p.MarketID == "" {
		return newError(StageValidate, "MINT-VAL-003", "missing market id")
	}
	for _, amt := range []struct{ name, v string }{
		{"lockedStakeMicro", p.LockedStakeMicro},
		{"payoutMicro", p.PayoutMicro},
	} {
		if amt.v == "" {
			continue
		}
		if !isMicroAmount(amt.v) {
			return newError(StageValidate, "MINT-VAL-004", "invalid micro amount in "+amt.name)
		}
	}
	return nil
}

// isMicroAmount accepts non-negative integral decimal strings.
func isMicroAmount(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// CanonicalValue builds the payload's canonical form. Field presence, not
// struct shape, decides the encoding: optional empty fields are omitted so a
// payload round-trips through Extract without phantom keys.
func (p Payload) CanonicalValue() canonical.Value {
	fields := []canonical.Field{
		{Key: "version", Value: canonical.StringValue(p.Version)},
		{Key: "kind", Value: canonical.StringValue(string(p.Kind))},
		{Key: "marketId", Value: canonical.StringValue(p.MarketID)},
		{Key: "moment", Value: canonical.MapValue(
			canonical.Field{Key: "pulse", Value: canonical.NumberValue(formatUint(p.Moment.Pulse))},
			canonical.Field{Key: "beat", Value: canonical.NumberValue(formatUint(p.Moment.Beat))},
			canonical.Field{Key: "stepIndex", Value: canonical.NumberValue(formatUint(p.Moment.StepIndex))},
		)},
	}
	addString := func(key, v string) {
		if v != "" {
			fields = append(fields, canonical.Field{Key: key, Value: canonical.StringValue(v)})
		}
	}
	addString("side", p.Side)
	addString("outcome", p.Outcome)
	addString("ownerKey", p.OwnerKey)
	addString("lockedStakeMicro", p.LockedStakeMicro)
	addString("payoutMicro", p.PayoutMicro)
	if len(p.Attrs) > 0 {
		attrs := make([]canonical.Field, 0, len(p.Attrs))
		for k, v := range p.Attrs {
			attrs = append(attrs, canonical.Field{Key: k, Value: canonical.StringValue(v)})
		}
		fields = append(fields, canonical.Field{Key: "attrs", Value: canonical.MapValue(attrs...)})
	}
	return canonical.MapValue(fields...)
}

// CanonicalBytes is the payload's canonical serialization: the exact bytes
// that are hashed, sealed, and embedded.
func (p Payload) CanonicalBytes() []byte {
	return canonical.Encode(p.CanonicalValue())
}

func formatUint(u uint64) string {
	return strconv.FormatUint(u, 10)
}
