// Lowering (spec.md §4.3): a Document walks to a linear ir.Op stream.
// Text-bearing components emit Set* style ops unconditionally per
// line (the naive, redundancy-heavy shape the optimizer exists to
// clean up) plus a trailing restore-to-default pass once the whole
// document has been walked; raster-producing components (images,
// patterns, canvases, rasterized barcodes/text) emit a single Raster
// op each.
package document

import (
	"context"
	"strconv"

	"github.com/inkwell-labs/thermaldoc/barcode"
	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/pattern"
	"github.com/inkwell-labs/thermaldoc/profile"
	"github.com/inkwell-labs/thermaldoc/raster"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

// DotsPerMM is the profile's fixed native resolution (203 DPI).
const DotsPerMM = 203.0 / 25.4

// DefaultLineHeightUnits is the dot-advance of one text line at normal
// size, used to convert Spacer.Lines to native FeedUnits.
const DefaultLineHeightUnits = 24

// ImageSource fetches pixels for an image component's URL. Injected so
// lowering is testable without network access, per spec.md §9.
type ImageSource interface {
	Fetch(ctx context.Context, url string) (*raster.Buffer, error)
}

// Options configures one Lower call.
type Options struct {
	Clock              Clock
	Images             ImageSource
	Patterns           *pattern.Registry
	RasterMode         ir.RasterMode
	RasterizeBarcodes  bool // force barcodes through the raster path instead of native opcodes
	DefaultDither      raster.Algorithm
}

func (o Options) clock() Clock {
	if o.Clock == nil {
		return SystemClock{}
	}
	return o.Clock
}

// dither resolves the default algorithm for components that don't name
// one explicitly. DefaultDither's zero value (DitherNone) is treated as
// "unset" and resolves to Auto; a caller wanting an explicit document-
// wide None default has no way to express it here, a minor gap in
// favor of keeping Options a plain value type.
func (o Options) dither() raster.Algorithm {
	if o.DefaultDither != raster.DitherNone {
		return o.DefaultDither
	}
	return raster.DitherAuto
}

// Lower compiles doc against prof into a Program: Init first, a
// feed-to-cut advance and (if doc.Cut) Cut last.
func Lower(ctx context.Context, doc Document, prof profile.Profile, opts Options) (ir.Program, error) {
	now := opts.clock().Now()
	doc = substituteDoc(doc, now)

	lw := newLowerer(prof, opts)
	for _, c := range doc.Components {
		if err := lw.lowerComponent(ctx, c); err != nil {
			return ir.Program{}, err
		}
	}
	lw.finalize(doc)
	return ir.Program{Ops: lw.ops}, nil
}

type lowerer struct {
	ops      []ir.Op
	active   lineStyle
	lineOpen bool
	profile  profile.Profile
	opts     Options
}

func newLowerer(prof profile.Profile, opts Options) *lowerer {
	return &lowerer{ops: []ir.Op{ir.Init{}}, active: defaultLineStyle(), profile: prof, opts: opts}
}

func (lw *lowerer) flushLine() {
	if lw.lineOpen {
		lw.ops = append(lw.ops, ir.Newline{})
		lw.lineOpen = false
	}
}

func (lw *lowerer) emitLine(t textLine) {
	lw.flushLine()
	lw.applyStyle(t.style)
	lw.ops = append(lw.ops, ir.Text{S: t.content})
	lw.lineOpen = true
}

type boolDim struct {
	active *bool
	want   bool
	mk     func(bool) ir.Op
}

func (lw *lowerer) boolDims(st lineStyle) []boolDim {
	return []boolDim{
		{&lw.active.bold, st.bold, func(v bool) ir.Op { return ir.SetBold{On: v} }},
		{&lw.active.underline, st.underline, func(v bool) ir.Op { return ir.SetUnderline{On: v} }},
		{&lw.active.invert, st.invert, func(v bool) ir.Op { return ir.SetInvert{On: v} }},
		{&lw.active.upperline, st.upperline, func(v bool) ir.Op { return ir.SetUpperline{On: v} }},
		{&lw.active.upsideDown, st.upsideDown, func(v bool) ir.Op { return ir.SetUpsideDown{On: v} }},
		{&lw.active.reduced, st.reduced, func(v bool) ir.Op { return ir.SetReduced{On: v} }},
	}
}

// applyStyle emits, for one text line: turn-off ops for any previously
// active flag this line doesn't want, an unconditional SetAlign (spec
// S1's naive stream re-emits alignment on every line even when
// unchanged), a SetFont/SetSize only when they differ from what's
// already active, then on-ops for every flag this line wants.
func (lw *lowerer) applyStyle(st lineStyle) {
	dims := lw.boolDims(st)
	for _, d := range dims {
		if *d.active && !d.want {
			lw.ops = append(lw.ops, d.mk(false))
			*d.active = false
		}
	}
	lw.ops = append(lw.ops, ir.SetAlign{Align: st.align})
	lw.active.align = st.align
	if st.font != lw.active.font {
		lw.ops = append(lw.ops, ir.SetFont{Font: st.font})
		lw.active.font = st.font
	}
	if st.size != lw.active.size {
		lw.ops = append(lw.ops, ir.SetSize{H: st.size.H, W: st.size.W})
		lw.active.size = st.size
	}
	for _, d := range dims {
		if d.want {
			lw.ops = append(lw.ops, d.mk(true))
			*d.active = true
		}
	}
}

// finalize restores any still-active style to its post-Init default,
// then emits the feed-to-cut advance and (if requested) Cut, per
// spec.md §4.3's "document concludes with a feed-to-cut advance and,
// if cut is true, Cut."
func (lw *lowerer) finalize(doc Document) {
	dims := lw.boolDims(defaultLineStyle())
	for _, d := range dims {
		if *d.active {
			lw.ops = append(lw.ops, d.mk(false))
			*d.active = false
		}
	}
	if lw.active.align != ir.AlignLeft {
		lw.ops = append(lw.ops, ir.SetAlign{Align: ir.AlignLeft})
		lw.active.align = ir.AlignLeft
	}
	if lw.active.font != ir.FontA {
		lw.ops = append(lw.ops, ir.SetFont{Font: ir.FontA})
		lw.active.font = ir.FontA
	}
	if lw.active.size != (Size{H: 1, W: 1}) {
		lw.ops = append(lw.ops, ir.SetSize{H: 1, W: 1})
		lw.active.size = Size{H: 1, W: 1}
	}
	lw.lineOpen = false
	lw.ops = append(lw.ops, ir.Newline{})
	if doc.OpenDrawer != nil {
		lw.ops = append(lw.ops, ir.OpenDrawer{
			Pin:   byte(doc.OpenDrawer.Pin),
			OnMS:  byte(doc.OpenDrawer.OnMS),
			OffMS: byte(doc.OpenDrawer.OffMS),
		})
	}
	if doc.Cut {
		lw.ops = append(lw.ops, ir.Cut{})
	}
}

func (lw *lowerer) cols() int {
	return columnsFor(lw.active.font)
}

// lowerComponent dispatches one component to its IR emission. Text-like
// kinds that lower to a fixed font escalate to the raster pipeline
// instead when they name the codepage-less "ibm" font family.
func (lw *lowerer) lowerComponent(ctx context.Context, c Component) error {
	if t, ok := c.(Text); ok {
		if _, isIBM := fontOf(t.Font); isIBM {
			return lw.lowerRasterText(t)
		}
	}
	switch v := c.(type) {
	case Spacer:
		lw.lowerSpacer(v)
		return nil
	case QRCode:
		return lw.lowerQR(v)
	case PDF417:
		return lw.lowerPDF417(v)
	case Barcode:
		return lw.lowerBarcode1D(v)
	case Image:
		return lw.lowerImage(ctx, v)
	case Pattern:
		return lw.lowerPattern(v)
	case Canvas:
		return lw.lowerCanvas(ctx, v)
	case NvLogo:
		lw.lowerNvLogo(v)
		return nil
	default:
		for _, line := range linesForComponent(c, lw.cols()) {
			lw.emitLine(line)
		}
		return nil
	}
}

func (lw *lowerer) lowerSpacer(s Spacer) {
	lw.flushLine()
	var units int
	switch {
	case s.MM != 0:
		units = int(s.MM*DotsPerMM + 0.5)
	case s.Lines != 0:
		units = s.Lines * DefaultLineHeightUnits * int(maxByte(lw.active.size.H, 1))
	default:
		units = s.Units
	}
	if units > 0 {
		lw.ops = append(lw.ops, ir.FeedUnits{N: units})
	}
}

func maxByte(a, b byte) byte {
	if a > b {
		return a
	}
	return b
}

// lowerRasterText renders a text component whose font names the
// codepage-less IBM-Plex family to a grayscale strip, dithers it, and
// emits a single Raster op in place of the usual Text op (spec.md
// §4.1/§4.3's raster-escalation path).
func (lw *lowerer) lowerRasterText(t Text) error {
	lw.flushLine()
	strip := raster.TextStrip(t.Content, nil, lw.profile.WidthDots)
	dithered := raster.Dither(strip, lw.opts.dither())
	packed := raster.Pack(dithered)
	lw.ops = append(lw.ops, ir.Raster{Buf: packed, Mode: lw.opts.RasterMode})
	return nil
}

func (lw *lowerer) lowerQR(q QRCode) error {
	lw.flushLine()
	size := q.Size
	if size <= 0 {
		size = 6
	}
	ec := ecLevelByte(q.ECLevel)
	if !lw.opts.RasterizeBarcodes {
		lw.ops = append(lw.ops, ir.Barcode{
			Kind: ir.BarcodeQR, Payload: q.Payload,
			ModuleWidth: byte(size), ModuleHeight: ec,
		})
		return nil
	}
	bb, err := barcode.Render(ir.BarcodeQR, q.Payload, lw.profile.WidthDots, lw.profile.WidthDots)
	if err != nil {
		return err
	}
	lw.ops = append(lw.ops, ir.Raster{Buf: bb, Mode: lw.opts.RasterMode})
	return nil
}

func ecLevelByte(level string) byte {
	switch level {
	case "L":
		return 0
	case "M":
		return 1
	case "Q":
		return 2
	case "H":
		return 3
	default:
		return 1
	}
}

func (lw *lowerer) lowerPDF417(p PDF417) error {
	lw.flushLine()
	if !lw.opts.RasterizeBarcodes {
		lw.ops = append(lw.ops, ir.Barcode{
			Kind: ir.BarcodePDF417, Payload: p.Payload,
			ModuleWidth: byte(p.Columns), ModuleHeight: byte(p.Rows),
		})
		return nil
	}
	h := p.Rows * 8
	if h <= 0 {
		h = 64
	}
	bb, err := barcode.Render(ir.BarcodePDF417, p.Payload, lw.profile.WidthDots, h)
	if err != nil {
		return err
	}
	lw.ops = append(lw.ops, ir.Raster{Buf: bb, Mode: lw.opts.RasterMode})
	return nil
}

func barcodeKindOf(kind string) (ir.BarcodeKind, error) {
	switch kind {
	case "code128":
		return ir.BarcodeCode128, nil
	case "code39":
		return ir.BarcodeCode39, nil
	case "ean13":
		return ir.BarcodeEAN13, nil
	case "upca":
		return ir.BarcodeUPCA, nil
	case "itf":
		return ir.BarcodeITF, nil
	default:
		return 0, xerr.InvalidParam("barcode", "kind", "unknown 1D symbology "+strconv.Quote(kind))
	}
}

func hriByte(p HRIPosition) byte {
	switch p {
	case HRIAbove:
		return 1
	case HRIBelow:
		return 2
	case HRIBoth:
		return 3
	default:
		return 0
	}
}

func (lw *lowerer) lowerBarcode1D(b Barcode) error {
	lw.flushLine()
	kind, err := barcodeKindOf(b.Kind)
	if err != nil {
		return err
	}
	if !lw.opts.RasterizeBarcodes {
		lw.ops = append(lw.ops, ir.Barcode{
			Kind: kind, Payload: b.Payload,
			ModuleWidth:  byte(b.ModuleWidth),
			ModuleHeight: byte(b.ModuleHeight),
			HRIPosition:  hriByte(b.HRIPosition),
		})
		return nil
	}
	h := b.ModuleHeight
	if h <= 0 {
		h = 80
	}
	bb, err := barcode.Render(kind, b.Payload, lw.profile.WidthDots, h)
	if err != nil {
		return err
	}
	lw.ops = append(lw.ops, ir.Raster{Buf: bb, Mode: lw.opts.RasterMode})
	return nil
}

func (lw *lowerer) lowerImage(ctx context.Context, img Image) error {
	lw.flushLine()
	if lw.opts.Images == nil {
		return xerr.ImageFetchFailed(img.URL, nil)
	}
	buf, err := lw.opts.Images.Fetch(ctx, img.URL)
	if err != nil {
		return xerr.ImageFetchFailed(img.URL, err)
	}
	width := lw.profile.WidthDots
	if img.Width > 0 && img.Width < width {
		width = img.Width
	}
	buf = raster.Resize(buf, width, raster.ResizeBilinear)
	if img.Height > 0 && buf.Height > img.Height {
		cropped, err := cropHeight(buf, img.Height)
		if err != nil {
			return err
		}
		buf = cropped
	}
	algo := ditherAlgoOf(img.DitherMode, lw.opts.dither())
	dithered := raster.Dither(buf, algo)
	packed := raster.Pack(dithered)
	lw.ops = append(lw.ops, ir.Raster{Buf: packed, Mode: lw.opts.RasterMode})
	return nil
}

// cropHeight caps buf to its first maxHeight rows.
func cropHeight(buf *raster.Buffer, maxHeight int) (*raster.Buffer, error) {
	out := raster.NewBuffer(buf.Width, maxHeight)
	copy(out.Pix, buf.Pix[:maxHeight*buf.Width])
	return out, nil
}

func ditherAlgoOf(name string, fallback raster.Algorithm) raster.Algorithm {
	switch name {
	case "none":
		return raster.DitherNone
	case "bayer":
		return raster.DitherBayer
	case "floyd_steinberg":
		return raster.DitherFloydSteinberg
	case "atkinson":
		return raster.DitherAtkinson
	case "jarvis_judice_ninke":
		return raster.DitherJarvisJudiceNinke
	case "auto":
		return raster.DitherAuto
	default:
		return fallback
	}
}

func (lw *lowerer) lowerPattern(p Pattern) error {
	lw.flushLine()
	if lw.opts.Patterns == nil {
		return xerr.InvalidParam("pattern", "name", "no pattern registry configured")
	}
	gen, ok := lw.opts.Patterns.Get(p.Name)
	if !ok {
		return xerr.InvalidParam("pattern", "name", "unknown generator "+strconv.Quote(p.Name))
	}
	params := pattern.Params(p.Params)
	if params == nil {
		params = gen.Golden(0)
	}
	buf, err := gen.Render(lw.profile.WidthDots, p.Height, 0, params)
	if err != nil {
		return err
	}
	dithered := raster.Dither(buf, lw.opts.dither())
	packed := raster.Pack(dithered)
	lw.ops = append(lw.ops, ir.Raster{Buf: packed, Mode: lw.opts.RasterMode})
	return nil
}

func (lw *lowerer) lowerNvLogo(n NvLogo) {
	lw.flushLine()
	var key [2]byte
	kb := []byte(n.Key)
	if len(kb) > 0 {
		key[0] = kb[0]
	}
	if len(kb) > 1 {
		key[1] = kb[1]
	}
	sx, sy := n.ScaleX, n.ScaleY
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	lw.ops = append(lw.ops, ir.NvLogoRecall{Key: key, ScaleX: byte(sx), ScaleY: byte(sy)})
}

func (lw *lowerer) lowerCanvas(ctx context.Context, c Canvas) error {
	lw.flushLine()
	buf, err := RenderCanvas(ctx, c, lw.profile.WidthDots, lw.opts)
	if err != nil {
		return err
	}
	algo := ditherAlgoOf(c.DitherMode, lw.opts.dither())
	dithered := raster.Dither(buf, algo)
	packed := raster.Pack(dithered)
	lw.ops = append(lw.ops, ir.Raster{Buf: packed, Mode: lw.opts.RasterMode})
	return nil
}
