package main

import (
	"context"
	"flag"
	"log/slog"
	"strings"

	"github.com/inkwell-labs/thermaldoc/document"
	"github.com/inkwell-labs/thermaldoc/pattern"
	"github.com/inkwell-labs/thermaldoc/profile"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

// runWeave implements `weave <name>... --length Nmm [--crossfade Nmm]
// [--curve linear|smooth|ease-in|ease-out] [--png FILE] [--device PATH]`.
func runWeave(args []string) error {
	fs := flag.NewFlagSet("weave", flag.ContinueOnError)
	lengthMM := fs.Float64("length", 0, "strip length in millimeters")
	crossfadeMM := fs.Float64("crossfade", 5, "crossfade width in millimeters")
	curveName := fs.String("curve", "linear", "linear|smooth|ease-in|ease-out")
	width := fs.Int("width", 0, "raster width in dots (0 = active profile width)")
	pngPath := fs.String("png", "", "write a PNG preview here instead of printing")
	device := fs.String("device", "", "serial path or Bluetooth MAC of the target printer")
	if err := fs.Parse(args); err != nil {
		return invalidArgs(err)
	}
	names := fs.Args()
	if len(names) < 2 {
		return invalidArgs(fail("weave requires at least two pattern names"))
	}
	if *lengthMM <= 0 {
		return invalidArgs(fail("weave requires --length > 0"))
	}
	curve, err := parseCurve(*curveName)
	if err != nil {
		return invalidArgs(err)
	}

	core, err := newCore(*device)
	if err != nil {
		return err
	}
	w := *width
	if w <= 0 {
		w = profile.Active().WidthDots
	}
	height := int(*lengthMM * document.DotsPerMM)
	crossfadePx := int(*crossfadeMM * document.DotsPerMM)

	specs := make([]pattern.WeaveSpec, len(names))
	for i, name := range names {
		gen, ok := core.PatternRegistry.Get(name)
		if !ok {
			return invalidArgs(xerr.InvalidParam("pattern", "name", "unknown generator "+name))
		}
		specs[i] = pattern.WeaveSpec{Generator: gen, Seed: int64(i), Params: gen.Golden(int64(i))}
	}
	slog.Debug("weave", "patterns", names, "width", w, "height", height, "crossfade_px", crossfadePx, "curve", *curveName)
	buf, err := pattern.Weave(w, height, specs, crossfadePx, curve)
	if err != nil {
		return err
	}
	return outputRaster(context.Background(), core, buf, *pngPath)
}

func parseCurve(name string) (pattern.Curve, error) {
	switch strings.ToLower(name) {
	case "linear", "":
		return pattern.CurveLinear, nil
	case "smooth":
		return pattern.CurveSmooth, nil
	case "ease-in":
		return pattern.CurveEaseIn, nil
	case "ease-out":
		return pattern.CurveEaseOut, nil
	default:
		return 0, xerr.InvalidParam("weave", "curve", "unknown curve "+name)
	}
}
