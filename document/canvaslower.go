package document

import (
	"context"

	"github.com/inkwell-labs/thermaldoc/barcode"
	"github.com/inkwell-labs/thermaldoc/canvas"
	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/pattern"
	"github.com/inkwell-labs/thermaldoc/raster"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

// RenderCanvas rasterizes one canvas component's children and composites
// them into a single grayscale buffer of the given width, per spec.md
// §4.6. Every child kind, text-bearing or not, ultimately becomes a
// *raster.Buffer before compositing: text-bearing children reuse
// linesForComponent plus raster.TextStrip, rather than a second
// formatting path.
func RenderCanvas(ctx context.Context, c Canvas, width int, opts Options) (*raster.Buffer, error) {
	children, err := renderCanvasChildren(ctx, c, width, opts)
	if err != nil {
		return nil, err
	}
	return canvas.Composite(width, c.Height, children), nil
}

// CanvasLayout reports the same child placement Composite uses, without
// paying for a full render; backs the canvas_layout control-surface
// operation (SPEC_FULL.md §9), which must agree bit-exactly with what
// actually prints.
func CanvasLayout(ctx context.Context, c Canvas, width int, opts Options) (canvas.Rect, []canvas.Rect, error) {
	children, err := renderCanvasChildren(ctx, c, width, opts)
	if err != nil {
		return canvas.Rect{}, nil, err
	}
	box, boxes := canvas.LayoutQuery(width, c.Height, children)
	return box, boxes, nil
}

func renderCanvasChildren(ctx context.Context, c Canvas, width int, opts Options) ([]canvas.Child, error) {
	out := make([]canvas.Child, 0, len(c.Children))
	for _, ch := range c.Children {
		buf, err := renderComponentToBuffer(ctx, ch.Component, width, opts)
		if err != nil {
			return nil, err
		}
		var pos *canvas.Position
		if ch.Position != nil {
			pos = &canvas.Position{X: ch.Position.X, Y: ch.Position.Y}
		}
		out = append(out, canvas.Child{
			Buffer:   buf,
			Position: pos,
			Blend:    blendOf(ch.Blend),
			Opacity:  ch.Opacity,
		})
	}
	return out, nil
}

func blendOf(name string) canvas.Blend {
	switch name {
	case "multiply":
		return canvas.BlendMultiply
	case "screen":
		return canvas.BlendScreen
	case "overlay":
		return canvas.BlendOverlay
	case "add":
		return canvas.BlendAdd
	case "difference":
		return canvas.BlendDifference
	case "min":
		return canvas.BlendMin
	case "max":
		return canvas.BlendMax
	default:
		return canvas.BlendNormal
	}
}

// renderComponentToBuffer rasterizes any single component kind to a
// grayscale buffer for canvas compositing. Text-bearing kinds stack
// their lines via the same line width linesForComponent produces for
// top-level lowering; raster-native kinds (image, pattern, barcode,
// nested canvas) render directly.
func renderComponentToBuffer(ctx context.Context, c Component, width int, opts Options) (*raster.Buffer, error) {
	switch v := c.(type) {
	case Image:
		return renderImageToBuffer(ctx, v, width, opts)
	case Pattern:
		return renderPatternToBuffer(v, width, opts)
	case QRCode:
		bb, err := barcode.Render(ir.BarcodeQR, v.Payload, dimOr(v.Size*21, width), dimOr(v.Size*21, width))
		if err != nil {
			return nil, err
		}
		return unpack(bb), nil
	case PDF417:
		h := v.Rows * 8
		if h <= 0 {
			h = 64
		}
		bb, err := barcode.Render(ir.BarcodePDF417, v.Payload, width, h)
		if err != nil {
			return nil, err
		}
		return unpack(bb), nil
	case Barcode:
		kind, err := barcodeKindOf(v.Kind)
		if err != nil {
			return nil, err
		}
		h := v.ModuleHeight
		if h <= 0 {
			h = 80
		}
		bb, err := barcode.Render(kind, v.Payload, width, h)
		if err != nil {
			return nil, err
		}
		return unpack(bb), nil
	case Canvas:
		return RenderCanvas(ctx, v, width, opts)
	case Spacer:
		return raster.NewBuffer(width, spacerHeight(v)), nil
	default:
		return renderTextLinesToBuffer(c, width)
	}
}

func dimOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func spacerHeight(s Spacer) int {
	switch {
	case s.MM != 0:
		return int(s.MM*DotsPerMM + 0.5)
	case s.Lines != 0:
		return s.Lines * DefaultLineHeightUnits
	default:
		return s.Units
	}
}

func unpack(bb *raster.BitBuffer) *raster.Buffer {
	out := raster.NewBuffer(bb.Width, bb.Height)
	for y := 0; y < bb.Height; y++ {
		base := y * bb.Stride
		for x := 0; x < bb.Width; x++ {
			if bb.Bits[base+x/8]&(0x80>>uint(x%8)) != 0 {
				out.Set(x, y, 255)
			}
		}
	}
	return out
}

func renderImageToBuffer(ctx context.Context, img Image, width int, opts Options) (*raster.Buffer, error) {
	if opts.Images == nil {
		return nil, xerr.ImageFetchFailed(img.URL, nil)
	}
	buf, err := opts.Images.Fetch(ctx, img.URL)
	if err != nil {
		return nil, xerr.ImageFetchFailed(img.URL, err)
	}
	targetWidth := width
	if img.Width > 0 && img.Width < targetWidth {
		targetWidth = img.Width
	}
	return raster.Resize(buf, targetWidth, raster.ResizeBilinear), nil
}

func renderPatternToBuffer(p Pattern, width int, opts Options) (*raster.Buffer, error) {
	if opts.Patterns == nil {
		return nil, xerr.InvalidParam("pattern", "name", "no pattern registry configured")
	}
	gen, ok := opts.Patterns.Get(p.Name)
	if !ok {
		return nil, xerr.InvalidParam("pattern", "name", "unknown generator "+p.Name)
	}
	params := pattern.Params(p.Params)
	if params == nil {
		params = gen.Golden(0)
	}
	return gen.Render(width, p.Height, 0, params)
}

// renderTextLinesToBuffer formats c's lines at a generous monospace
// column estimate for width, then stacks a per-line TextStrip into one
// buffer via flow compositing.
func renderTextLinesToBuffer(c Component, width int) (*raster.Buffer, error) {
	cols := columnsFor(ir.FontA)
	if width > 0 {
		// basicfont.Face7x13 glyphs are 7px wide; approximate the column
		// count a raster strip of this pixel width can hold.
		cols = width / 7
		if cols < 1 {
			cols = 1
		}
	}
	lines := linesForComponent(c, cols)
	if len(lines) == 0 {
		return raster.NewBuffer(width, 1), nil
	}
	children := make([]canvas.Child, 0, len(lines))
	for _, l := range lines {
		strip := raster.TextStrip(l.content, nil, width)
		children = append(children, canvas.Child{Buffer: strip, Blend: canvas.BlendNormal, Opacity: 1})
	}
	return canvas.Composite(width, 0, children), nil
}
