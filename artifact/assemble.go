package artifact

import (
	"encoding/base64"
	"sort"
	"strconv"
	"strings"

	"verdict.market/sealmint/canonical"
	"verdict.market/sealmint/geometry"
)

// Container block markers. The payload and seal travel as two independently
// parseable blocks inside the SVG; the surrounding drawing is a transport
// format for the embedded data, not a validated image.
const (
	payloadBlockID = "sealmint-payload"
	sealBlockID    = "sealmint-seal"
)

// BitRingLen is the number of display bits derived from the canonical hash:
// each of the 64 hex nibbles expands to 4 bits, most-significant bit first.
const BitRingLen = 256

const (
	viewBoxSize = 512
	ringRadius  = 236.0
)

// Assemble renders the container for an already-built payload and seal.
//
// Invariants:
//   - ExtractPayload(Assemble(p, s)) re-parses to p's exact canonical form,
//     and likewise for the seal: no field loss, no type coercion drift,
//     including large decimal-string quantities.
//   - All geometry, colors, and flourishes are derived from the seal's
//     canonical hash through the seeded generator, so the container bytes are
//     a pure function of payload and seal.
func Assemble(p Payload, seal Seal) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	payloadBytes := p.CanonicalBytes()
	sealBytes := seal.CanonicalBytes()
	if seal.CanonicalHash == "" || len(seal.CanonicalHash) != 64 {
		return nil, newError(StageAssemble, "MINT-ASM-001", "seal canonical hash must be a 256-bit hex digest")
	}
	bits, err := BitRing(seal.CanonicalHash)
	if err != nil {
		return nil, wrapError(StageAssemble, "MINT-ASM-002", "bit ring derivation failed", err)
	}

	seed := geometry.SeedFromHex(seal.CanonicalHash)
	gen := geometry.NewGenerator(seed)
	hue := gen.IntN(360)
	startAngle := gen.Float64() * 360

	chunks := geometry.LayoutBands(descriptiveBands(p, seal), geometry.LayoutOptions{StartAngleDeg: startAngle})

	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 512 512"`)
	sb.WriteString(` data-seed="`)
	sb.WriteString(strconv.FormatUint(uint64(seed), 10))
	sb.WriteString(`" data-summary="`)
	sb.WriteString(summary(p, seal))
	sb.WriteString("\">\n")

	sb.WriteString(`<metadata id="` + payloadBlockID + `">`)
	sb.WriteString(xmlEscape(string(payloadBytes)))
	sb.WriteString("</metadata>\n")
	sb.WriteString(`<metadata id="` + sealBlockID + `">`)
	sb.WriteString(xmlEscape(string(sealBytes)))
	sb.WriteString("</metadata>\n")

	sb.WriteString("<desc>\n")
	for _, line := range descLines(p, seal) {
		sb.WriteString(xmlEscape(line))
		sb.WriteString("\n")
	}
	sb.WriteString("</desc>\n")

	center := float64(viewBoxSize) / 2
	sb.WriteString(`<rect width="512" height="512" fill="hsl(` + strconv.Itoa(hue) + `,32%,12%)"/>` + "\n")

	// Hash bit ring: 256 ticks, lit per bit.
	sb.WriteString(`<g id="bit-ring" stroke-width="2">` + "\n")
	for i, bit := range bits {
		angle := float64(i) * (360.0 / BitRingLen)
		fill := "22%"
		if bit == 1 {
			fill = "72%"
		}
		sb.WriteString(`<line transform="rotate(`)
		sb.WriteString(formatCoord(angle))
		sb.WriteString(" ")
		sb.WriteString(formatCoord(center))
		sb.WriteString(" ")
		sb.WriteString(formatCoord(center))
		sb.WriteString(`)" x1="`)
		sb.WriteString(formatCoord(center))
		sb.WriteString(`" y1="`)
		sb.WriteString(formatCoord(center - ringRadius))
		sb.WriteString(`" x2="`)
		sb.WriteString(formatCoord(center))
		sb.WriteString(`" y2="`)
		sb.WriteString(formatCoord(center - ringRadius + 8))
		sb.WriteString(`" stroke="hsl(` + strconv.Itoa(hue) + `,60%,` + fill + `)"/>` + "\n")
	}
	sb.WriteString("</g>\n")

	// Auxiliary data bands along concentric rings.
	sb.WriteString(`<g id="bands" font-family="monospace" font-size="10" fill="hsl(` + strconv.Itoa(hue) + `,28%,82%)">` + "\n")
	for _, c := range chunks {
		sb.WriteString(`<text transform="rotate(`)
		sb.WriteString(formatCoord(c.AngleDeg))
		sb.WriteString(" ")
		sb.WriteString(formatCoord(center))
		sb.WriteString(" ")
		sb.WriteString(formatCoord(center))
		sb.WriteString(`)" x="`)
		sb.WriteString(formatCoord(center))
		sb.WriteString(`" y="`)
		sb.WriteString(formatCoord(center - c.Radius))
		sb.WriteString(`">`)
		sb.WriteString(xmlEscape(c.Text))
		sb.WriteString("</text>\n")
	}
	sb.WriteString("</g>\n")

	// Seed-derived flourish: a small constellation of circles. Purely
	// decorative, but still reproducible byte-for-byte.
	sb.WriteString(`<g id="flourish" fill="hsl(` + strconv.Itoa(hue) + `,48%,42%)">` + "\n")
	for i := 0; i < 12; i++ {
		r := 40 + gen.Float64()*100
		a := gen.Float64() * 360
		sb.WriteString(`<circle transform="rotate(`)
		sb.WriteString(formatCoord(a))
		sb.WriteString(" ")
		sb.WriteString(formatCoord(center))
		sb.WriteString(" ")
		sb.WriteString(formatCoord(center))
		sb.WriteString(`)" cx="`)
		sb.WriteString(formatCoord(center))
		sb.WriteString(`" cy="`)
		sb.WriteString(formatCoord(center - r))
		sb.WriteString(`" r="`)
		sb.WriteString(formatCoord(1.5 + gen.Float64()*2.5))
		sb.WriteString(`"/>` + "\n")
	}
	sb.WriteString("</g>\n")

	sb.WriteString("</svg>\n")
	return []byte(sb.String()), nil
}

// BitRing expands a hex digest into its bit sequence, most-significant bit of
// each nibble first. Display/verification aid only, not a security feature.
func BitRing(hexDigest string) ([]byte, error) {
	out := make([]byte, 0, len(hexDigest)*4)
	for i := 0; i < len(hexDigest); i++ {
		c := hexDigest[i]
		var n byte
		switch {
		case c >= '0' && c <= '9':
			n = c - '0'
		case c >= 'a' && c <= 'f':
			n = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			n = c - 'A' + 10
		default:
			return nil, newError(StageAssemble, "MINT-ASM-003", "non-hex digit in digest")
		}
		out = append(out, (n>>3)&1, (n>>2)&1, (n>>1)&1, n&1)
	}
	return out, nil
}

// descriptiveBands selects the text fields rendered as concentric bands.
func descriptiveBands(p Payload, seal Seal) []geometry.Band {
	bands := []geometry.Band{
		{Label: "market", Text: p.MarketID, Priority: geometry.PriorityPrimary},
	}
	if p.Side != "" {
		bands = append(bands, geometry.Band{Label: "side", Text: p.Side, Priority: geometry.PriorityPrimary})
	}
	if p.Outcome != "" {
		bands = append(bands, geometry.Band{Label: "outcome", Text: p.Outcome, Priority: geometry.PriorityPrimary})
	}
	if p.LockedStakeMicro != "" {
		bands = append(bands, geometry.Band{Label: "stake", Text: p.LockedStakeMicro, Priority: geometry.PrioritySecondary})
	}
	if p.PayoutMicro != "" {
		bands = append(bands, geometry.Band{Label: "payout", Text: p.PayoutMicro, Priority: geometry.PrioritySecondary})
	}
	bands = append(bands,
		geometry.Band{Label: "tier", Text: string(seal.Assurance.Tier), Priority: geometry.PrioritySecondary},
		geometry.Band{Label: "hash", Text: seal.CanonicalHash, Priority: geometry.PriorityTertiary},
	)
	return bands
}

// descLines mirrors payload and seal fields as sorted "Key: Value" lines for
// inspection without parsing the embedded blocks.
func descLines(p Payload, seal Seal) []string {
	lines := []string{
		"Canonical-Hash: " + seal.CanonicalHash,
		"Canonical-Length: " + strconv.Itoa(seal.CanonicalLength),
		"Kind: " + string(p.Kind),
		"Market-ID: " + p.MarketID,
		"Public-Input: " + seal.PublicInput,
		"Scheme: " + seal.Scheme,
		"Tier: " + string(seal.Assurance.Tier),
		"Version: " + p.Version,
	}
	add := func(key, v string) {
		if v != "" {
			lines = append(lines, key+": "+v)
		}
	}
	add("Locked-Stake-Micro", p.LockedStakeMicro)
	add("Outcome", p.Outcome)
	add("Owner-Key", p.OwnerKey)
	add("Payout-Micro", p.PayoutMicro)
	add("Side", p.Side)
	add("Verifier", seal.Assurance.Verifier)
	sort.Strings(lines)
	return lines
}

// summaryFieldCount is the fixed shape of the summary attribute: kind,
// version, logical id, canonical hash, tier.
const summaryFieldCount = 5

// summary is a compact base64 string of core identifying fields for quick
// external inspection.
func summary(p Payload, seal Seal) string {
	core := strings.Join([]string{
		string(p.Kind),
		p.Version,
		p.LogicalID(),
		seal.CanonicalHash,
		string(seal.Assurance.Tier),
	}, "|")
	return base64.StdEncoding.EncodeToString([]byte(core))
}

// formatCoord formats geometry values with fixed precision so container bytes
// never depend on float printing defaults.
func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// ExtractPayload re-parses the embedded payload block. The result deep-equals
// the canonical form that was embedded.
func ExtractPayload(container []byte) (canonical.Value, error) {
	return extractBlock(container, payloadBlockID)
}

// ExtractSeal re-parses the embedded seal block.
func ExtractSeal(container []byte) (Seal, error) {
	v, err := extractBlock(container, sealBlockID)
	if err != nil {
		return Seal{}, err
	}
	return SealFromValue(v)
}

// Summary decodes the container's base64 summary into its core fields:
// kind, version, logical id, canonical hash, tier. The shape is checked so
// callers may index the result; a summary with the wrong field count is a
// structured failure, never a panic downstream.
func Summary(container []byte) ([]string, error) {
	const marker = `data-summary="`
	doc := string(container)
	i := strings.Index(doc, marker)
	if i < 0 {
		return nil, newError(StageExtract, "MINT-EXT-001", "container missing summary")
	}
	rest := doc[i+len(marker):]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return nil, newError(StageExtract, "MINT-EXT-002", "unterminated summary attribute")
	}
	raw, err := base64.StdEncoding.DecodeString(rest[:j])
	if err != nil {
		return nil, wrapError(StageExtract, "MINT-EXT-003", "summary is not valid base64", err)
	}
	fields := strings.Split(string(raw), "|")
	if len(fields) != summaryFieldCount {
		return nil, newError(StageExtract, "MINT-EXT-004",
			"summary carries "+strconv.Itoa(len(fields))+" fields, want "+strconv.Itoa(summaryFieldCount))
	}
	return fields, nil
}

func extractBlock(container []byte, id string) (canonical.Value, error) {
	open := `<metadata id="` + id + `">`
	doc := string(container)
	i := strings.Index(doc, open)
	if i < 0 {
		return canonical.Value{}, newError(StageExtract, "MINT-EXT-011", "container missing block "+id)
	}
	rest := doc[i+len(open):]
	j := strings.Index(rest, "</metadata>")
	if j < 0 {
		return canonical.Value{}, newError(StageExtract, "MINT-EXT-012", "unterminated block "+id)
	}
	v, err := canonical.Parse([]byte(xmlUnescape(rest[:j])))
	if err != nil {
		return canonical.Value{}, wrapError(StageExtract, "MINT-EXT-013", "embedded block is not canonical", err)
	}
	return v, nil
}

// xmlEscape makes arbitrary text safe inside element content and quoted
// attributes. xmlUnescape inverts it exactly; together they guarantee
// parse(embed(x)) == x.
func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}

func xmlUnescape(s string) string {
	r := strings.NewReplacer(
		"&quot;", `"`,
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
	)
	return r.Replace(s)
}
