package raster

// Algorithm selects a dithering strategy. Each reduces an 8-bit
// grayscale Buffer to a Buffer whose pixels are exactly 0 or 255, ready
// for Pack.
type Algorithm int

const (
	DitherNone Algorithm = iota
	DitherBayer
	DitherFloydSteinberg
	DitherAtkinson
	DitherJarvisJudiceNinke
	DitherAuto
)

// DefaultThreshold is the luminance cutoff used by the None variant,
// named after other_examples/0e725ab5_rusq-thermoprint's DefaultThreshold.
const DefaultThreshold = 128

// continuousToneDistinctValues is the threshold N used by the Auto
// variant's continuous-tone detection (spec.md §4.2: "suggested 16").
const continuousToneDistinctValues = 16

// Dither reduces src to a 1-bit-valued Buffer using algo. src is not
// modified; the returned Buffer is a fresh allocation.
func Dither(src *Buffer, algo Algorithm) *Buffer {
	switch algo {
	case DitherBayer:
		return ditherBayer(src)
	case DitherFloydSteinberg:
		return ditherErrorDiffusion(src, fsKernel)
	case DitherAtkinson:
		return ditherAtkinson(src)
	case DitherJarvisJudiceNinke:
		return ditherErrorDiffusion(src, jjnKernel)
	case DitherAuto:
		if isContinuousTone(src) {
			return ditherAtkinson(src)
		}
		return ditherThreshold(src, DefaultThreshold)
	default:
		return ditherThreshold(src, DefaultThreshold)
	}
}

func ditherThreshold(src *Buffer, cutoff uint8) *Buffer {
	out := NewBuffer(src.Width, src.Height)
	for i, v := range src.Pix {
		if v >= cutoff {
			out.Pix[i] = 255
		}
	}
	return out
}

// isContinuousTone implements spec.md §4.2's Auto-variant detection:
// more than N distinct luminance values means the source is
// continuous-tone and should get error diffusion rather than a flat
// threshold.
func isContinuousTone(src *Buffer) bool {
	seen := make(map[uint8]struct{}, continuousToneDistinctValues+1)
	for _, v := range src.Pix {
		seen[v] = struct{}{}
		if len(seen) > continuousToneDistinctValues {
			return true
		}
	}
	return false
}

var bayer8x8 = [8][8]int{
	{0, 32, 8, 40, 2, 34, 10, 42},
	{48, 16, 56, 24, 50, 18, 58, 26},
	{12, 44, 4, 36, 14, 46, 6, 38},
	{60, 28, 52, 20, 62, 30, 54, 22},
	{3, 35, 11, 43, 1, 33, 9, 41},
	{51, 19, 59, 27, 49, 17, 57, 25},
	{15, 47, 7, 39, 13, 45, 5, 37},
	{63, 31, 55, 23, 61, 29, 53, 21},
}

func ditherBayer(src *Buffer) *Buffer {
	out := NewBuffer(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			threshold := (bayer8x8[y%8][x%8] + 1) * 255 / 65
			if int(src.At(x, y)) > threshold {
				out.Set(x, y, 255)
			}
		}
	}
	return out
}

// diffusionKernel describes where an error-diffusion algorithm sends
// quantization error: each entry is (dx, dy, numerator), and the error
// is err*numerator/denominator. Serpentine traversal is intentionally
// disabled per spec.md §4.2.
type diffusionKernel struct {
	denom   int
	entries []kernelEntry
}

type kernelEntry struct {
	dx, dy, num int
}

// fsKernel is the classic Floyd-Steinberg 4-neighbor kernel, lifted from
// sschueller-xp-d463b-pdf-printer's ditherFloydSteinberg.
var fsKernel = diffusionKernel{
	denom: 16,
	entries: []kernelEntry{
		{1, 0, 7},
		{-1, 1, 3},
		{0, 1, 5},
		{1, 1, 1},
	},
}

// jjnKernel is the Jarvis-Judice-Ninke 12-neighbor, denominator-48 kernel.
var jjnKernel = diffusionKernel{
	denom: 48,
	entries: []kernelEntry{
		{1, 0, 7}, {2, 0, 5},
		{-2, 1, 3}, {-1, 1, 5}, {0, 1, 7}, {1, 1, 5}, {2, 1, 3},
		{-2, 2, 1}, {-1, 2, 3}, {0, 2, 5}, {1, 2, 3}, {2, 2, 1},
	},
}

func ditherErrorDiffusion(src *Buffer, k diffusionKernel) *Buffer {
	w, h := src.Width, src.Height
	vals := make([]int, w*h)
	for i, v := range src.Pix {
		vals[i] = int(v)
	}
	out := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			old := clampInt(vals[idx], 0, 255)
			var newV int
			if old >= DefaultThreshold {
				newV = 255
				out.Pix[idx] = 255
			} else {
				newV = 0
			}
			errv := old - newV
			for _, e := range k.entries {
				nx, ny := x+e.dx, y+e.dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				vals[ny*w+nx] = clampInt(vals[ny*w+nx]+errv*e.num/k.denom, 0, 255)
			}
		}
	}
	return out
}

// ditherAtkinson implements Atkinson dithering, which distributes
// err/8 (truncating division) to six of its eight logical neighbors
// and discards the remainder. This data loss is the algorithm's
// defining characteristic (spec.md §9 Open Question) and must not be
// "fixed" by spreading the full error; doing so would no longer be
// Atkinson dithering.
func ditherAtkinson(src *Buffer) *Buffer {
	w, h := src.Width, src.Height
	vals := make([]int, w*h)
	for i, v := range src.Pix {
		vals[i] = int(v)
	}
	out := NewBuffer(w, h)
	offsets := [6][2]int{{1, 0}, {2, 0}, {-1, 1}, {0, 1}, {1, 1}, {0, 2}}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			old := clampInt(vals[idx], 0, 255)
			var newV int
			if old >= DefaultThreshold {
				newV = 255
				out.Pix[idx] = 255
			} else {
				newV = 0
			}
			errv := old - newV
			share := errv / 8 // truncating division: only 6/8 of err is ever redistributed
			for _, off := range offsets {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				vals[ny*w+nx] = clampInt(vals[ny*w+nx]+share, 0, 255)
			}
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
