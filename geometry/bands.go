package geometry

import "math"

// GoldenAngleDeg is the irrational angular step between consecutive chunk
// placements. Stepping by the golden angle means no two start angles ever
// coincide modulo 360 and the angular distribution stays close to uniform,
// for any chunk count, without a layout solver.
const GoldenAngleDeg = 137.50776405003785

// NextAngle returns the start angle following prev, in degrees in [0, 360).
func NextAngle(prev float64) float64 {
	a := math.Mod(prev+GoldenAngleDeg, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Priority selects the chunk length used when segmenting a band's text.
// Higher-priority bands get shorter chunks so they stay legible on inner
// rings.
type Priority uint8

const (
	PriorityPrimary Priority = iota
	PrioritySecondary
	PriorityTertiary
)

// ChunkLen returns the bounded chunk length for the tier.
func (p Priority) ChunkLen() int {
	switch p {
	case PriorityPrimary:
		return 24
	case PrioritySecondary:
		return 32
	}
	return 48
}

// DefaultRadiusLadder is the fixed ladder of ring radii, in user units,
// cycled through as chunks are placed.
var DefaultRadiusLadder = []float64{168, 186, 204, 222}

// Band is one descriptive text field to lay out.
type Band struct {
	Label    string
	Text     string
	Priority Priority
}

// Chunk is one placed text segment.
type Chunk struct {
	Label     string
	Text      string
	AngleDeg  float64
	Radius    float64
	RingIndex int
}

// LayoutOptions tunes band placement. The zero value selects the defaults
// that the assembler ships in containers.
type LayoutOptions struct {
	// RadiusLadder overrides DefaultRadiusLadder when non-empty.
	RadiusLadder []float64
	// StartAngleDeg is the angle of the first chunk; successive chunks step
	// by the golden angle.
	StartAngleDeg float64
}

// LayoutBands segments each band's text into bounded-length chunks and
// places every chunk on a concentric ring: start angle advances by the golden
// angle per chunk (across band boundaries), ring radius cycles through the
// ladder. The layout is a pure function of its arguments.
func LayoutBands(bands []Band, opts LayoutOptions) []Chunk {
	ladder := opts.RadiusLadder
	if len(ladder) == 0 {
		ladder = DefaultRadiusLadder
	}

	var chunks []Chunk
	angle := math.Mod(opts.StartAngleDeg, 360)
	if angle < 0 {
		angle += 360
	}
	ring := 0
	first := true
	for _, band := range bands {
		for _, segment := range segmentText(band.Text, band.Priority.ChunkLen()) {
			if !first {
				angle = NextAngle(angle)
			}
			first = false
			chunks = append(chunks, Chunk{
				Label:     band.Label,
				Text:      segment,
				AngleDeg:  angle,
				Radius:    ladder[ring%len(ladder)],
				RingIndex: ring % len(ladder),
			})
			ring++
		}
	}
	return chunks
}

// segmentText splits s into chunks of at most n bytes. Band text is expected
// to be ASCII-safe identifiers and amounts; multi-byte runes are kept whole
// by backing off to the previous rune boundary.
func segmentText(s string, n int) []string {
	if s == "" || n <= 0 {
		return nil
	}
	var out []string
	for len(s) > n {
		cut := n
		for cut > 0 && s[cut]&0xC0 == 0x80 {
			cut--
		}
		if cut == 0 {
			cut = n
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return append(out, s)
}
