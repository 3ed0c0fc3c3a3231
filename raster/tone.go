package raster

import "math"

// DefaultGamma is the identity gamma: no correction applied. Grounded on
// other_examples/0e725ab5_rusq-thermoprint's WithGamma convention, where
// a zero/negative value means "use the default for the selected dither
// function" rather than literally gamma=0.
const DefaultGamma = 1.0

// ToneParams holds the stage-2 adjustments of spec.md §4.2: gamma,
// brightness, contrast. Zero value is the identity transform.
type ToneParams struct {
	Gamma      float64 // <= 0 means DefaultGamma
	Brightness float64 // additive, -255..255
	Contrast   float64 // multiplicative around mid-gray, typically 0..2
}

func (p ToneParams) isIdentity() bool {
	g := p.Gamma
	if g <= 0 {
		g = DefaultGamma
	}
	return g == 1 && p.Brightness == 0 && (p.Contrast == 0 || p.Contrast == 1)
}

// ApplyTone runs gamma + brightness + contrast over every pixel of b in
// place and returns it. A no-op when params are identity, per spec.md
// §4.2's "no-op when identity" requirement.
func ApplyTone(b *Buffer, p ToneParams) *Buffer {
	if p.isIdentity() {
		return b
	}
	gamma := p.Gamma
	if gamma <= 0 {
		gamma = DefaultGamma
	}
	contrast := p.Contrast
	if contrast == 0 {
		contrast = 1
	}
	// Precompute a 256-entry LUT; ink density (0=white,255=black) is
	// treated as the channel gamma/contrast operate on, matching the
	// convention used by canvas blend modes (SPEC_FULL.md §7.6).
	var lut [256]uint8
	for v := 0; v < 256; v++ {
		f := float64(v) / 255.0
		f = math.Pow(f, 1.0/gamma)
		f = (f-0.5)*contrast + 0.5 + p.Brightness/255.0
		lut[v] = clamp255(f * 255.0)
	}
	for i, v := range b.Pix {
		b.Pix[i] = lut[v]
	}
	return b
}

func clamp255(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f + 0.5)
}
