// Package segment splits an oversized print Program into a sequence of
// self-contained sub-programs, each bounded by a maximum raster row
// count, so the transport never has to hold more than one job's worth
// of image data in flight.
package segment

import (
	"log/slog"

	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/raster"
)

// DefaultMaxRowsPerJob is the suggested bound: ~1000 rows, ~125mm at
// 203 DPI, ~72KB of packed bits at 576 dots wide.
const DefaultMaxRowsPerJob = 1000

// isStyleOp reports whether op is one of the ir.Op types the running
// style snapshot tracks.
func isStyleOp(op ir.Op) bool {
	switch op.(type) {
	case ir.SetBold, ir.SetUnderline, ir.SetInvert, ir.SetUpperline,
		ir.SetUpsideDown, ir.SetReduced, ir.SetAlign, ir.SetFont, ir.SetSize:
		return true
	default:
		return false
	}
}

// Segment splits p so that every returned sub-program contains at most
// one Raster op whose height is <= maxRowsPerJob. If p already
// satisfies that bound, Segment returns []ir.Program{p} unchanged.
//
// Only the last sub-program retains Cut and any ops that come after the
// final oversized Raster; every earlier sub-program ends immediately
// after its Raster slice. Style ops seen before a split point are
// replayed at the start of every sub-program so each is independently
// printable.
func Segment(p ir.Program, maxRowsPerJob int) []ir.Program {
	if maxRowsPerJob <= 0 {
		maxRowsPerJob = DefaultMaxRowsPerJob
	}
	if !needsSplit(p, maxRowsPerJob) {
		return []ir.Program{p}
	}
	slog.Debug("segmenting oversized program", "ops", len(p.Ops), "max_rows_per_job", maxRowsPerJob)

	var subs []ir.Program
	styleOrder := make([]string, 0, 9)
	style := map[string]ir.Op{}
	recordStyle := func(op ir.Op) {
		key := styleKey(op)
		if _, ok := style[key]; !ok {
			styleOrder = append(styleOrder, key)
		}
		style[key] = op
	}

	var pending []ir.Op

	for _, op := range p.Ops {
		if _, ok := op.(ir.Init); ok {
			continue // every sub-program gets its own synthesized Init
		}
		if isStyleOp(op) {
			recordStyle(op)
			pending = append(pending, op)
			continue
		}
		r, ok := op.(ir.Raster)
		if !ok || r.Buf == nil || r.Buf.Height <= maxRowsPerJob {
			pending = append(pending, op)
			continue
		}

		slices := splitBuffer(r.Buf, maxRowsPerJob, r.Mode == ir.RasterModeBand)
		for i, sl := range slices {
			ops := make([]ir.Op, 0, len(pending)+len(styleOrder)+2)
			ops = append(ops, ir.Init{})
			for _, k := range styleOrder {
				ops = append(ops, style[k])
			}
			if i == 0 {
				ops = append(ops, pending...)
				pending = nil
			}
			ops = append(ops, ir.Raster{Buf: sl, Mode: r.Mode})
			subs = append(subs, ir.Program{Ops: ops, PauseHint: true})
		}
	}

	if len(pending) > 0 && len(subs) > 0 {
		last := &subs[len(subs)-1]
		last.Ops = append(last.Ops, pending...)
	}
	if len(subs) > 0 {
		subs[len(subs)-1].PauseHint = false
	}
	slog.Debug("segment split complete", "subprograms", len(subs))
	return subs
}

func needsSplit(p ir.Program, maxRowsPerJob int) bool {
	for _, op := range p.Ops {
		if r, ok := op.(ir.Raster); ok && r.Buf != nil && r.Buf.Height > maxRowsPerJob {
			return true
		}
	}
	return false
}

// styleKey returns a stable identity for an op's style dimension so
// the snapshot map can dedupe by kind.
func styleKey(op ir.Op) string {
	switch op.(type) {
	case ir.SetBold:
		return "bold"
	case ir.SetUnderline:
		return "underline"
	case ir.SetInvert:
		return "invert"
	case ir.SetUpperline:
		return "upperline"
	case ir.SetUpsideDown:
		return "upsidedown"
	case ir.SetReduced:
		return "reduced"
	case ir.SetAlign:
		return "align"
	case ir.SetFont:
		return "font"
	case ir.SetSize:
		return "size"
	default:
		return ""
	}
}

// splitBuffer slices buf into consecutive row ranges of at most
// maxRows, aligning every cut to a 24-row boundary when band is true
// (band-mode raster headers only make sense on whole 24-row groups).
func splitBuffer(buf *raster.BitBuffer, maxRows int, band bool) []*raster.BitBuffer {
	step := maxRows
	if band {
		step = (maxRows / 24) * 24
		if step == 0 {
			step = 24
		}
	}
	var out []*raster.BitBuffer
	for y0 := 0; y0 < buf.Height; y0 += step {
		y1 := y0 + step
		if y1 > buf.Height {
			y1 = buf.Height
		}
		sl, err := buf.Slice(y0, y1)
		if err != nil {
			// y0 < y1 <= buf.Height by construction; Slice cannot fail here.
			panic(err)
		}
		out = append(out, sl)
	}
	return out
}
