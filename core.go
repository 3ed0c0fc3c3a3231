// Package thermaldoc is the control surface spec.md §6 names: a small
// set of host-agnostic operations (render a preview, print, query a
// canvas's layout, discover patterns, manage device profiles) that
// cmd/thermaldoc wires to a CLI and an HTTP server without either
// host ever touching the lowering/optimizing/codegen packages
// directly.
package thermaldoc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/inkwell-labs/thermaldoc/document"
	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/pattern"
	"github.com/inkwell-labs/thermaldoc/profile"
	"github.com/inkwell-labs/thermaldoc/raster"
	"github.com/inkwell-labs/thermaldoc/segment"
	"github.com/inkwell-labs/thermaldoc/transport"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

// Core wires together every shared resource spec.md §5 names (device
// profile store, pattern registry, transport) behind the control
// surface. Safe for concurrent use: the transport serializes jobs
// internally and the profile store is CAS-protected.
type Core struct {
	Profiles        *profile.Store
	PatternRegistry *pattern.Registry
	Images          document.ImageSource
	Transport       *transport.Transport
	Clock           document.Clock

	MaxRowsPerJob int
}

// NewCore builds a Core with a seeded profile store and pattern
// registry. Transport is left nil; callers that only render previews
// (no physical device) never need to set it.
func NewCore() *Core {
	return &Core{
		Profiles:        profile.NewStore(),
		PatternRegistry: pattern.NewRegistry(),
		MaxRowsPerJob:   segment.DefaultMaxRowsPerJob,
	}
}

func (c *Core) lowerOpts() document.Options {
	return document.Options{
		Clock:    c.Clock,
		Images:   c.Images,
		Patterns: c.PatternRegistry,
	}
}

// RenderPreview lowers doc's components into one tall grayscale image
// and encodes it as PNG, per the `render_preview` control-surface
// operation. It never touches the transport or optimizer/codec — a
// preview is a pixel artifact, not wire bytes.
func (c *Core) RenderPreview(ctx context.Context, doc document.Document) ([]byte, error) {
	prof := profile.Active()
	whole := document.Canvas{Children: previewChildren(doc)}
	buf, err := document.RenderCanvas(ctx, whole, prof.WidthDots, c.lowerOpts())
	if err != nil {
		return nil, err
	}
	return EncodePNG(buf)
}

func previewChildren(doc document.Document) []document.CanvasChild {
	out := make([]document.CanvasChild, 0, len(doc.Components))
	for _, comp := range doc.Components {
		out = append(out, document.CanvasChild{Component: comp})
	}
	return out
}

// EncodePNG renders a grayscale raster buffer to PNG bytes. Exported
// for CLI subcommands (print, weave) that produce a buffer directly
// from the pattern engine without going through a Document.
func EncodePNG(buf *raster.Buffer) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: 255 - buf.At(x, y)})
		}
	}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// PrintResult is the control surface's print() return record. The
// control surface never throws: failures are reported here, never as
// a Go error from Print itself.
type PrintResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Print lowers, optimizes, segments, and sends doc through the active
// transport against the active profile. Errors never escape as a Go
// error; they are folded into the returned PrintResult per spec.md
// §7's "the control surface never throws" rule.
func (c *Core) Print(ctx context.Context, doc document.Document) PrintResult {
	if c.Transport == nil {
		return PrintResult{Error: xerr.DeviceUnavailable(nil).Error()}
	}
	prof := profile.Active()
	prog, err := document.Lower(ctx, doc, prof, c.lowerOpts())
	if err != nil {
		return PrintResult{Error: err.Error()}
	}
	prog.Ops = ir.Optimize(prog.Ops)
	if err := c.Transport.Print(ctx, prog, prof, c.maxRows()); err != nil {
		return PrintResult{Error: err.Error()}
	}
	return PrintResult{Success: true}
}

func (c *Core) maxRows() int {
	if c.MaxRowsPerJob <= 0 {
		return segment.DefaultMaxRowsPerJob
	}
	return c.MaxRowsPerJob
}

// Rect mirrors canvas.Rect in the control surface's vocabulary.
type Rect struct {
	X, Y, W, H int
}

// LayoutResult is the control surface's canvas_layout() return record.
type LayoutResult struct {
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	YOffset        int    `json:"y_offset"`
	DocumentHeight int    `json:"document_height"`
	Elements       []Rect `json:"elements"`
}

// CanvasLayout locates the canvasIndex-th Canvas component in doc's
// top-level component list (0-based, in document order) and reports
// its child boxes, per spec S6: these must agree bit-exactly with what
// RenderPreview/Print actually composite, since both paths share
// document.RenderCanvas/CanvasLayout's common layout() helper.
func (c *Core) CanvasLayout(ctx context.Context, doc document.Document, canvasIndex int) (LayoutResult, error) {
	cv, yOffset, err := nthCanvas(doc, canvasIndex)
	if err != nil {
		return LayoutResult{}, err
	}
	prof := profile.Active()
	box, boxes, err := document.CanvasLayout(ctx, cv, prof.WidthDots, c.lowerOpts())
	if err != nil {
		return LayoutResult{}, err
	}
	elements := make([]Rect, len(boxes))
	for i, r := range boxes {
		elements[i] = Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
	}
	docHeight := documentHeight(ctx, doc, prof, c.lowerOpts())
	return LayoutResult{
		Width: box.W, Height: box.H, YOffset: yOffset,
		DocumentHeight: docHeight, Elements: elements,
	}, nil
}

func nthCanvas(doc document.Document, index int) (document.Canvas, int, error) {
	seen := 0
	yOffset := 0
	for _, comp := range doc.Components {
		cv, ok := comp.(document.Canvas)
		if !ok {
			continue
		}
		if seen == index {
			return cv, yOffset, nil
		}
		seen++
	}
	return document.Canvas{}, 0, xerr.InvalidParam("canvas_layout", "canvas_index", fmt.Sprintf("document has fewer than %d canvas components", index+1))
}

// documentHeight renders the whole document the same way RenderPreview
// does, purely to report its total pixel height; cheap relative to a
// real print since no optimizer/codec/transport stage runs.
func documentHeight(ctx context.Context, doc document.Document, prof profile.Profile, opts document.Options) int {
	whole := document.Canvas{Children: previewChildren(doc)}
	buf, err := document.RenderCanvas(ctx, whole, prof.WidthDots, opts)
	if err != nil || buf == nil {
		return 0
	}
	return buf.Height
}

// PatternInfo is the control surface's patterns/pattern_params/
// pattern_random return shape: a parameter set plus the schema that
// explains it, so a host can build its own UI without embedding any
// rendering knowledge (spec.md §9's "pattern schema discoverability").
type PatternInfo struct {
	Params pattern.Params      `json:"params"`
	Specs  []pattern.ParamSpec `json:"specs"`
}

// Patterns lists every registered generator name.
func (c *Core) Patterns() []string {
	return c.PatternRegistry.Names()
}

// PatternParams returns name's documented defaults and schema.
func (c *Core) PatternParams(name string) (PatternInfo, error) {
	gen, ok := c.PatternRegistry.Get(name)
	if !ok {
		return PatternInfo{}, xerr.InvalidParam("pattern", "name", "unknown generator "+name)
	}
	return PatternInfo{Params: gen.Golden(0), Specs: gen.Schema()}, nil
}

// PatternRandom returns a randomized parameter set and schema for name.
// seed is passed unchanged to the generator's Randomize, which is
// deterministic for a given seed; Core imposes no seeding policy here.
func (c *Core) PatternRandom(name string, seed int64) (PatternInfo, error) {
	gen, ok := c.PatternRegistry.Get(name)
	if !ok {
		return PatternInfo{}, xerr.InvalidParam("pattern", "name", "unknown generator "+name)
	}
	return PatternInfo{Params: gen.Randomize(seed), Specs: gen.Schema()}, nil
}

// ProfileInfo is the control surface's wire shape for a device profile.
type ProfileInfo struct {
	Kind               string `json:"kind"`
	Name               string `json:"name"`
	WidthDots          int    `json:"width_dots"`
	OptionalHeightDots int    `json:"optional_height_dots,omitempty"`
	Serial             string `json:"serial,omitempty"`
	Bluetooth          string `json:"bluetooth,omitempty"`
	File               string `json:"file,omitempty"`
}

func toProfileInfo(p profile.Profile) ProfileInfo {
	return ProfileInfo{
		Kind: p.Kind.String(), Name: p.Name, WidthDots: p.WidthDots,
		OptionalHeightDots: p.OptionalHeightDots,
		Serial:             p.Destination.Serial,
		Bluetooth:          p.Destination.Bluetooth,
		File:               p.Destination.File,
	}
}

func fromProfileInfo(pi ProfileInfo) profile.Profile {
	k := profile.KindPrinter
	if pi.Kind == "canvas" {
		k = profile.KindCanvas
	}
	return profile.Profile{
		Kind: k, Name: pi.Name, WidthDots: pi.WidthDots,
		OptionalHeightDots: pi.OptionalHeightDots,
		Destination: profile.Destination{
			Serial: pi.Serial, Bluetooth: pi.Bluetooth, File: pi.File,
		},
	}
}

// SetActiveProfile registers pi (replacing any stored profile of the
// same name) and makes it the active
// profile, returning it back in wire form.
func (c *Core) SetActiveProfile(pi ProfileInfo) ProfileInfo {
	p := fromProfileInfo(pi)
	if p.WidthDots <= 0 {
		p.WidthDots = profile.Default203DPI576.WidthDots
	}
	c.Profiles.Register(p)
	profile.SetActive(p)
	return toProfileInfo(p)
}

// GetActiveProfile returns the process-wide active profile.
func (c *Core) GetActiveProfile() ProfileInfo {
	return toProfileInfo(profile.Active())
}

// ListProfiles returns every profile registered with this Core's
// store (not the process-wide active-profile pointer, which always
// holds exactly one).
func (c *Core) ListProfiles() []ProfileInfo {
	ps := c.Profiles.List()
	out := make([]ProfileInfo, len(ps))
	for i, p := range ps {
		out[i] = toProfileInfo(p)
	}
	return out
}

// logoKey validates and packs a logo CLI key into its 2-byte wire form
// (spec.md §6: "logo keys are exactly two printable ASCII bytes").
func logoKey(key string) ([2]byte, error) {
	var k [2]byte
	b := []byte(key)
	if len(b) != 2 || b[0] < 0x20 || b[0] > 0x7e || b[1] < 0x20 || b[1] > 0x7e {
		return k, xerr.InvalidParam("logo", "key", "must be exactly two printable ASCII bytes")
	}
	k[0], k[1] = b[0], b[1]
	return k, nil
}

func (c *Core) sendMaintenance(ctx context.Context, ops []ir.Op) error {
	if c.Transport == nil {
		return xerr.DeviceUnavailable(nil)
	}
	prog := ir.Program{Ops: append([]ir.Op{ir.Init{}}, ops...)}
	return c.Transport.Print(ctx, prog, profile.Active(), c.maxRows())
}

// StoreLogo resizes img to widthDots (0 keeps its native width),
// dithers it with the document package's default algorithm, and
// uploads it to the device's NV graphic memory under key, backing the
// `logo store` CLI subcommand.
func (c *Core) StoreLogo(ctx context.Context, key string, img *raster.Buffer, widthDots int) error {
	k, err := logoKey(key)
	if err != nil {
		return err
	}
	if widthDots > 0 {
		img = raster.Resize(img, widthDots, raster.ResizeBilinear)
	}
	dithered := raster.Dither(img, raster.DitherAuto)
	packed := raster.Pack(dithered)
	return c.sendMaintenance(ctx, []ir.Op{ir.NvLogoStore{Key: k, Buf: packed}})
}

// DeleteLogo removes one stored NV graphic by key, backing `logo
// delete --key XX`.
func (c *Core) DeleteLogo(ctx context.Context, key string) error {
	k, err := logoKey(key)
	if err != nil {
		return err
	}
	return c.sendMaintenance(ctx, []ir.Op{ir.NvLogoDelete{Key: k}})
}

// DeleteAllLogos clears every stored NV graphic, backing `logo
// delete-all`.
func (c *Core) DeleteAllLogos(ctx context.Context) error {
	return c.sendMaintenance(ctx, []ir.Op{ir.NvLogoDeleteAll{}})
}

// PrintRaster dithers and sends a single grayscale buffer as a
// standalone job (optionally followed by a Cut), for CLI subcommands
// (print, weave) whose output is a raw pattern buffer rather than a
// Document. The optimizer still runs; the stream carries no style ops,
// so it has nothing to collapse.
func (c *Core) PrintRaster(ctx context.Context, buf *raster.Buffer, cut bool) error {
	if c.Transport == nil {
		return xerr.DeviceUnavailable(nil)
	}
	dithered := raster.Dither(buf, raster.DitherAuto)
	packed := raster.Pack(dithered)
	ops := []ir.Op{ir.Init{}, ir.Raster{Buf: packed}, ir.Newline{}}
	if cut {
		ops = append(ops, ir.Cut{})
	}
	ops = ir.Optimize(ops)
	prog := ir.Program{Ops: ops}
	return c.Transport.Print(ctx, prog, profile.Active(), c.maxRows())
}
