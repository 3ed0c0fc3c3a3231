package segment

import (
	"testing"

	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/raster"
)

func bigBuffer(width, height int) *raster.BitBuffer {
	g := raster.NewBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%3 == 0 {
				g.Set(x, y, 255)
			}
		}
	}
	return raster.Pack(g)
}

func concatBits(bufs []*raster.BitBuffer) []byte {
	var out []byte
	for _, b := range bufs {
		out = append(out, b.Bits...)
	}
	return out
}

func TestSegmentReturnsUnchangedWhenWithinBound(t *testing.T) {
	p := ir.Program{Ops: []ir.Op{
		ir.Init{},
		ir.Text{S: "hi"},
		ir.Raster{Buf: bigBuffer(8, 100), Mode: ir.RasterModePage},
		ir.Cut{},
	}}
	subs := Segment(p, 1000)
	if len(subs) != 1 {
		t.Fatalf("expected 1 sub-program, got %d", len(subs))
	}
	if len(subs[0].Ops) != len(p.Ops) {
		t.Fatalf("unchanged program should preserve op count")
	}
}

func TestSegmentSplitsPageModeRasterExactlyAtBound(t *testing.T) {
	buf := bigBuffer(8, 2000)
	p := ir.Program{Ops: []ir.Op{
		ir.Init{},
		ir.SetAlign{Align: ir.AlignCenter},
		ir.Raster{Buf: buf, Mode: ir.RasterModePage},
		ir.Cut{},
	}}
	subs := Segment(p, 1000)
	if len(subs) != 2 {
		t.Fatalf("expected 2 sub-programs for a 2000-row raster at bound 1000, got %d", len(subs))
	}

	var rasters []*raster.BitBuffer
	for i, sp := range subs {
		if _, ok := sp.Ops[0].(ir.Init); !ok {
			t.Fatalf("sub-program %d must start with Init", i)
		}
		foundAlign := false
		foundCut := false
		for _, op := range sp.Ops {
			if a, ok := op.(ir.SetAlign); ok {
				foundAlign = true
				if a.Align != ir.AlignCenter {
					t.Fatalf("sub-program %d: align not preserved", i)
				}
			}
			if _, ok := op.(ir.Cut); ok {
				foundCut = true
			}
			if r, ok := op.(ir.Raster); ok {
				rasters = append(rasters, r.Buf)
			}
		}
		if !foundAlign {
			t.Fatalf("sub-program %d missing replayed SetAlign", i)
		}
		isLast := i == len(subs)-1
		if foundCut != isLast {
			t.Fatalf("sub-program %d: Cut present = %v, want %v (only last sub-program keeps Cut)", i, foundCut, isLast)
		}
		if isLast && sp.PauseHint {
			t.Fatalf("last sub-program must not carry a pause hint")
		}
		if !isLast && !sp.PauseHint {
			t.Fatalf("sub-program %d before the last must carry a pause hint", i)
		}
	}

	if len(rasters) != 2 {
		t.Fatalf("expected 2 raster slices, got %d", len(rasters))
	}
	if rasters[0].Height != 1000 || rasters[1].Height != 1000 {
		t.Fatalf("slice heights = %d, %d, want 1000, 1000", rasters[0].Height, rasters[1].Height)
	}
	if got, want := concatBits(rasters), buf.Bits; !bytesEqual(got, want) {
		t.Fatalf("concatenated slice bits do not reproduce the original buffer")
	}
}

func TestSegmentAlignsBandModeCutsTo24Rows(t *testing.T) {
	buf := bigBuffer(8, 2400)
	p := ir.Program{Ops: []ir.Op{
		ir.Init{},
		ir.Raster{Buf: buf, Mode: ir.RasterModeBand},
	}}
	// 1000 rounds down to 984 (41*24), so ceil(2400/984) = 3 slices.
	subs := Segment(p, 1000)
	for i, sp := range subs {
		for _, op := range sp.Ops {
			if r, ok := op.(ir.Raster); ok {
				if r.Buf.Height%24 != 0 {
					t.Fatalf("sub-program %d: band raster height %d not a multiple of 24", i, r.Buf.Height)
				}
				if r.Buf.Height > 1000 {
					t.Fatalf("sub-program %d: band raster height %d exceeds bound", i, r.Buf.Height)
				}
			}
		}
	}
}

func TestSegmentPrependsPreRasterContentOnlyOnce(t *testing.T) {
	buf := bigBuffer(8, 2000)
	p := ir.Program{Ops: []ir.Op{
		ir.Init{},
		ir.Text{S: "header"},
		ir.Newline{},
		ir.Raster{Buf: buf, Mode: ir.RasterModePage},
		ir.Cut{},
	}}
	subs := Segment(p, 1000)
	count := 0
	for _, sp := range subs {
		for _, op := range sp.Ops {
			if tx, ok := op.(ir.Text); ok && tx.S == "header" {
				count++
			}
		}
	}
	if count != 1 {
		t.Fatalf("content op replayed %d times, want exactly once", count)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
